package sql

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/largestbanks/cmd/env"
	dbpkg "github.com/sig-0/largestbanks/storage/sql"
)

// queryCfg wraps the query configuration
type queryCfg struct {
	rootCfg *sqlCfg
}

// newQueryCmd creates the query command
func newQueryCmd(rootCfg *sqlCfg) *ffcli.Command {
	cfg := &queryCfg{
		rootCfg: rootCfg,
	}

	fs := flag.NewFlagSet("query", flag.ExitOnError)
	rootCfg.RegisterFlags(fs)

	return &ffcli.Command{
		Name:       "query",
		ShortUsage: "sql query [flags] [<statement>]",
		LongHelp:   "Runs an ad-hoc statement against the report database and prints the result",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *queryCfg) exec(ctx context.Context, args []string) error {
	statement := strings.TrimSpace(strings.Join(args, " "))
	if statement == "" {
		if err := dbpkg.ValidateTableName(c.rootCfg.table); err != nil {
			return err
		}

		statement = fmt.Sprintf("SELECT * FROM %s", c.rootCfg.table)
	}

	if c.rootCfg.dsn == "" {
		return fmt.Errorf("missing %s", env.Prefix+env.DBDSNSuffix)
	}

	store, err := dbpkg.Open(ctx, c.rootCfg.driver, c.rootCfg.dsn, c.rootCfg.table)
	if err != nil {
		return err
	}

	defer func() {
		if err = store.Close(); err != nil {
			fmt.Printf("Unable to gracefully close DB: %s\n", err.Error())
		}
	}()

	result, err := store.Query(ctx, statement)
	if err != nil {
		return err
	}

	fmt.Println(statement)

	return printResult(os.Stdout, result)
}

// printResult renders the query result as an aligned text table
func printResult(w io.Writer, result *dbpkg.QueryResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintln(tw, strings.Join(result.Columns, "\t")); err != nil {
		return err
	}

	for _, row := range result.Rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return err
		}
	}

	return tw.Flush()
}
