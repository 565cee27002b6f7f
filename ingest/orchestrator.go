package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/rs/xid"

	"github.com/sig-0/largestbanks/ingest/config"
	"github.com/sig-0/largestbanks/ingest/convert"
	"github.com/sig-0/largestbanks/ingest/extract"
	"github.com/sig-0/largestbanks/progress"
	"github.com/sig-0/largestbanks/provider/page"
	"github.com/sig-0/largestbanks/storage/types"
)

var errInvalidConfig = errors.New("invalid configuration")

// Orchestrator runs the report pipeline: extract, convert, then persist
// to the flat file and the relational store, strictly in sequence
type Orchestrator struct {
	logger *slog.Logger
	events progress.Sink
	now    func() time.Time

	documents DocumentSource
	tables    TableSource
	rates     RateSource
	flat      FlatSink
	connector Connector
}

// Result is a completed pipeline run
type Result struct {
	Banks []*types.EnrichedBank
	State State
	RunID xid.ID
}

// New creates a new Orchestrator instance
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		events:    progress.Discard{},
		now:       time.Now,
		rates:     fileRates{},
		flat:      csvSink{},
		connector: sqlConnector{},
	}

	// Apply the options
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// run is the context of a single pipeline run
type run struct {
	logger  *slog.Logger
	machine *machine
	id      xid.ID
}

// Run executes a single pipeline run [BLOCKING].
// Any failing step aborts the run with a *RunError, nothing is retried
func (o *Orchestrator) Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", errInvalidConfig)
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidConfig, err)
	}

	id := xid.New()

	r := &run{
		id:      id,
		machine: newMachine(),
		logger:  o.logger.With("run_id", id.String()),
	}

	r.logger.Info(
		"starting report run",
		"source", cfg.SourceAddress,
		"rates", cfg.RateTablePath,
		"csv", cfg.CSVOutputPath,
		"db_driver", cfg.Database.Driver,
		"db_table", cfg.Database.Table,
	)

	// Extract
	banks, err := o.extract(ctx, cfg)
	if err != nil {
		return nil, o.fail(r, progress.StageExtract, err)
	}

	if err = o.complete(ctx, r, StateExtracted, progress.StageExtract); err != nil {
		return nil, err
	}

	r.logger.Info("extracted banks", "count", len(banks))

	// Transform
	enriched, err := o.convert(cfg, banks)
	if err != nil {
		return nil, o.fail(r, progress.StageTransform, err)
	}

	if err = o.complete(ctx, r, StateConverted, progress.StageTransform); err != nil {
		return nil, err
	}

	// Load (flat file)
	if err = o.flat.Write(cfg.CSVOutputPath, enriched); err != nil {
		return nil, o.fail(r, progress.StageLoadCSV, err)
	}

	r.logger.Info("saved CSV report", "path", cfg.CSVOutputPath)

	if err = o.complete(ctx, r, StateCSVPersisted, progress.StageLoadCSV); err != nil {
		return nil, err
	}

	// Load (relational store)
	if stage, err := o.persistDB(ctx, r, cfg.Database, enriched); err != nil {
		return nil, o.fail(r, stage, err)
	}

	if err = o.complete(ctx, r, StateDBPersisted, progress.StageLoadDB); err != nil {
		return nil, err
	}

	if err = o.complete(ctx, r, StateDone, progress.StageComplete); err != nil {
		return nil, err
	}

	r.logger.Info("report run complete", "banks", len(enriched))

	return &Result{
		RunID: id,
		Banks: enriched,
		State: r.machine.state,
	}, nil
}

// extract fetches the source document and extracts the ranked banks
func (o *Orchestrator) extract(ctx context.Context, cfg *config.Config) ([]*types.Bank, error) {
	documents := o.documents
	if documents == nil {
		documents = page.NewFetcher(cfg.FetchTimeout())
	}

	tables := o.tables
	if tables == nil {
		tables = page.NewTableParser(cfg.TableSelector)
	}

	doc, err := documents.Fetch(ctx, cfg.SourceAddress)
	if err != nil {
		if !errors.Is(err, page.ErrFetch) {
			err = fmt.Errorf("%w: %w", page.ErrFetch, err)
		}

		return nil, err
	}

	table, err := tables.Parse(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", extract.ErrExtraction, err)
	}

	return extract.Extract(table, cfg.TopN)
}

// convert loads the rate table and converts the banks
func (o *Orchestrator) convert(cfg *config.Config, banks []*types.Bank) ([]*types.EnrichedBank, error) {
	table, err := o.rates.Load(cfg.RateTablePath)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to load rate table: %w", convert.ErrConversion, err)
	}

	return convert.Convert(banks, table)
}

// persistDB saves the report to the relational store. The connection
// only lives for the duration of the save, and is closed on every path.
// The returned stage is the one that failed, if any
func (o *Orchestrator) persistDB(
	ctx context.Context,
	r *run,
	target config.Database,
	banks []*types.EnrichedBank,
) (progress.Stage, error) {
	conn, err := o.connector.Connect(ctx, target)
	if err != nil {
		return progress.StageDBConnect, err
	}

	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			r.logger.Error(
				"unable to gracefully close DB connection",
				"err", closeErr,
			)
		}
	}()

	o.emit(ctx, r, progress.StageDBConnect)

	if err = conn.SaveBanks(ctx, banks); err != nil {
		return progress.StageLoadDB, err
	}

	r.logger.Info("saved report table", "table", target.Table)

	return "", nil
}

// complete advances the run and emits the stage-completed event
func (o *Orchestrator) complete(
	ctx context.Context,
	r *run,
	to State,
	stage progress.Stage,
) error {
	if err := r.machine.advance(to); err != nil {
		return o.fail(r, stage, err)
	}

	o.emit(ctx, r, stage)

	return nil
}

// emit emits a stage-completed event.
// Sink failures are logged and don't abort the run
func (o *Orchestrator) emit(ctx context.Context, r *run, stage progress.Stage) {
	event := progress.Event{
		Time:  o.now(),
		Stage: stage,
	}

	if err := o.events.StageCompleted(ctx, event); err != nil {
		r.logger.Warn(
			"unable to record stage completion",
			"stage", stage.String(),
			"err", err,
		)
	}
}

// fail moves the run to the failed state and wraps the error
func (o *Orchestrator) fail(r *run, stage progress.Stage, err error) error {
	last := r.machine.state

	if failErr := r.machine.fail(); failErr != nil {
		err = errors.Join(err, failErr)
	}

	r.logger.Error(
		"report run failed",
		"stage", stage.String(),
		"state", last.String(),
		"err", err,
	)

	return &RunError{
		Err:   err,
		Stage: stage,
		State: last,
	}
}
