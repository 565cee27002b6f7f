package sql

import (
	"context"
	"flag"

	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/largestbanks/ingest/config"
)

// sqlCfg wraps the sql configuration
type sqlCfg struct {
	driver string
	dsn    string
	table  string
}

// NewSQLCmd creates the sql subcommand
func NewSQLCmd() *ffcli.Command {
	cfg := &sqlCfg{}

	fs := flag.NewFlagSet("sql", flag.ExitOnError)
	cfg.RegisterFlags(fs)

	cmd := &ffcli.Command{
		Name:       "sql",
		ShortUsage: "<subcommand> [flags] [<arg>...]",
		LongHelp:   "Inspects the report database",
		FlagSet:    fs,
		Exec: func(_ context.Context, _ []string) error {
			return flag.ErrHelp
		},
	}

	// Add the subcommands
	cmd.Subcommands = []*ffcli.Command{
		newQueryCmd(cfg),
	}

	return cmd
}

func (c *sqlCfg) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.driver,
		"db-driver",
		config.DefaultDBDriver,
		"the database driver (sqlite, pgx)",
	)

	fs.StringVar(
		&c.dsn,
		"db-dsn",
		config.DefaultDBDSN,
		"the database DSN",
	)

	fs.StringVar(
		&c.table,
		"db-table",
		config.DefaultDBTable,
		"the report table, queried when no statement is given",
	)
}
