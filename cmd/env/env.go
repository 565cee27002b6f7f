package env

// Prefix is the environment variable prefix of every command flag,
// so the -db-dsn flag can be set with BANKS_DB_DSN
const Prefix = "BANKS"

const DBDSNSuffix = "_DB_DSN"
