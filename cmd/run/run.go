package run

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/largestbanks/cmd/env"
	"github.com/sig-0/largestbanks/ingest"
	"github.com/sig-0/largestbanks/ingest/config"
	"github.com/sig-0/largestbanks/progress"
)

const defaultProgressLogPath = "code_log.txt"

// runCfg wraps the run configuration
type runCfg struct {
	config *config.Config

	configPath      string
	progressLogPath string
}

// NewRunCmd creates the run subcommand
func NewRunCmd() *ffcli.Command {
	cfg := &runCfg{
		config: config.DefaultConfig(),
	}

	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "run",
		ShortUsage: "run [flags]",
		LongHelp: "Compiles the largest banks report once, writing it to the CSV file and the " +
			"database table. A TOML configuration, if given, replaces the pipeline flags",
		FlagSet: fs,
		Exec:    cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *runCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.configPath,
		"config",
		"",
		"the path to the pipeline TOML configuration, if any",
	)

	fs.StringVar(
		&c.progressLogPath,
		"progress-log",
		defaultProgressLogPath,
		"the append-only progress log file, empty to disable it",
	)

	fs.StringVar(
		&c.config.SourceAddress,
		"source",
		config.DefaultSourceAddress,
		"the source document address (http(s) URL, file:// URL or path)",
	)

	fs.StringVar(
		&c.config.TableSelector,
		"selector",
		c.config.TableSelector,
		"the CSS selector of the source table, first match wins",
	)

	fs.StringVar(
		&c.config.RateTablePath,
		"rates",
		config.DefaultRateTablePath,
		"the exchange rate CSV",
	)

	fs.StringVar(
		&c.config.CSVOutputPath,
		"csv",
		config.DefaultCSVOutputPath,
		"the CSV report path",
	)

	fs.StringVar(
		&c.config.Database.Driver,
		"db-driver",
		config.DefaultDBDriver,
		"the database driver (sqlite, pgx)",
	)

	fs.StringVar(
		&c.config.Database.DSN,
		"db-dsn",
		config.DefaultDBDSN,
		"the database DSN",
	)

	fs.StringVar(
		&c.config.Database.Table,
		"db-table",
		config.DefaultDBTable,
		"the report table",
	)

	fs.IntVar(
		&c.config.TopN,
		"top-n",
		config.DefaultTopN,
		"the number of top-ranked banks in the report, 0 keeps every row",
	)

	fs.IntVar(
		&c.config.FetchTimeoutSeconds,
		"fetch-timeout",
		c.config.FetchTimeoutSeconds,
		"the source fetch timeout, in seconds",
	)
}

// exec executes the run command
func (c *runCfg) exec(ctx context.Context, _ []string) error {
	// Read the pipeline configuration, if any
	if c.configPath != "" {
		pipelineCfg, err := config.Read(c.configPath)
		if err != nil {
			return fmt.Errorf("unable to read pipeline config, %w", err)
		}

		c.config = pipelineCfg
	}

	// Create a new logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	events := progress.MultiSink{progress.NewLogSink(logger)}
	if c.progressLogPath != "" {
		events = append(events, progress.NewFileSink(c.progressLogPath))
	}

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)

	defer cancelFn()

	orchestrator := ingest.New(
		ingest.WithLogger(logger),
		ingest.WithEvents(events),
	)

	result, err := orchestrator.Run(runCtx, c.config)
	if err != nil {
		var runErr *ingest.RunError
		if errors.As(err, &runErr) {
			logger.Error(
				"report run failed",
				"stage", runErr.Stage,
				"state", runErr.State,
				"err", runErr.Err,
			)
		}

		return err
	}

	logger.Info(
		"report compiled",
		"run", result.RunID.String(),
		"banks", len(result.Banks),
		"csv", c.config.CSVOutputPath,
		"table", c.config.Database.Table,
	)

	return nil
}
