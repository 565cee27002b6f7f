package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml"

	"github.com/sig-0/largestbanks/provider/page"
	"github.com/sig-0/largestbanks/storage/sql"
)

const (
	DefaultSourceAddress = "https://en.wikipedia.org/wiki/List_of_largest_banks"
	DefaultRateTablePath = "exchange_rate.csv"
	DefaultCSVOutputPath = "Largest_banks_data.csv"
	DefaultDBDriver      = sql.DriverSQLite
	DefaultDBDSN         = "Banks.db"
	DefaultDBTable       = "Largest_banks"
	DefaultTopN          = 10
	DefaultFetchTimeout  = 10 * time.Second
)

var (
	ErrMissingSource     = errors.New("missing source address")
	ErrInvalidSource     = errors.New("invalid source address")
	ErrMissingRateTable  = errors.New("missing rate table path")
	ErrMissingCSVOutput  = errors.New("missing CSV output path")
	ErrMissingDSN        = errors.New("missing database DSN")
	ErrInvalidTopN       = errors.New("invalid top N")
	ErrInvalidTimeout    = errors.New("invalid fetch timeout")
	ErrUnsupportedDriver = errors.New("unsupported database driver")
)

// Database is the relational report target
type Database struct {
	// The database/sql driver, "sqlite" or "pgx"
	Driver string `toml:"driver"`

	// The driver DSN (file path for sqlite, connection URL for pgx)
	DSN string `toml:"dsn"`

	// The report table, replaced on every run
	Table string `toml:"table"`
}

// Config is the report pipeline configuration
type Config struct {
	// The address of the source document (http(s) URL, file:// URL or path)
	SourceAddress string `toml:"source_address"`

	// The CSS selector of the source table, first match wins
	TableSelector string `toml:"table_selector"`

	// The path to the exchange rate CSV
	RateTablePath string `toml:"rate_table_path"`

	// The path of the CSV report, overwritten on every run
	CSVOutputPath string `toml:"csv_output_path"`

	// The relational report target
	Database Database `toml:"database"`

	// The number of top-ranked banks the report holds.
	// 0 keeps every row of the source table
	TopN int `toml:"top_n"`

	// The source fetch timeout, in seconds
	FetchTimeoutSeconds int `toml:"fetch_timeout_seconds"`
}

// DefaultConfig returns the default pipeline configuration
func DefaultConfig() *Config {
	return &Config{
		SourceAddress: DefaultSourceAddress,
		TableSelector: page.DefaultSelector,
		RateTablePath: DefaultRateTablePath,
		CSVOutputPath: DefaultCSVOutputPath,
		Database: Database{
			Driver: DefaultDBDriver,
			DSN:    DefaultDBDSN,
			Table:  DefaultDBTable,
		},
		TopN:                DefaultTopN,
		FetchTimeoutSeconds: int(DefaultFetchTimeout / time.Second),
	}
}

// FetchTimeout returns the source fetch timeout
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// ValidateConfig validates the pipeline configuration
func ValidateConfig(config *Config) error {
	if strings.TrimSpace(config.SourceAddress) == "" {
		return ErrMissingSource
	}

	if _, err := url.Parse(config.SourceAddress); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}

	if strings.TrimSpace(config.RateTablePath) == "" {
		return ErrMissingRateTable
	}

	if strings.TrimSpace(config.CSVOutputPath) == "" {
		return ErrMissingCSVOutput
	}

	switch config.Database.Driver {
	case sql.DriverSQLite, sql.DriverPostgres:
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedDriver, config.Database.Driver)
	}

	if strings.TrimSpace(config.Database.DSN) == "" {
		return ErrMissingDSN
	}

	if err := sql.ValidateTableName(config.Database.Table); err != nil {
		return err
	}

	if config.TopN < 0 {
		return ErrInvalidTopN
	}

	if config.FetchTimeoutSeconds <= 0 {
		return ErrInvalidTimeout
	}

	return nil
}

// Read reads the configuration from the given path.
// Values missing from the file keep their defaults
func Read(path string) (*Config, error) {
	// Read the config file
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Parse it
	cfg := DefaultConfig()

	if err := toml.Unmarshal(content, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
