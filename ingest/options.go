package ingest

import (
	"log/slog"
	"time"

	"github.com/sig-0/largestbanks/progress"
)

type Option func(o *Orchestrator)

// WithLogger specifies the logger for the orchestrator
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

// WithEvents specifies the sink receiving stage-completed events.
// Defaults to discarding them
func WithEvents(s progress.Sink) Option {
	return func(o *Orchestrator) {
		o.events = s
	}
}

// WithDocumentSource overrides the source document fetcher.
// Defaults to an HTTP / file fetcher using the configured timeout
func WithDocumentSource(s DocumentSource) Option {
	return func(o *Orchestrator) {
		o.documents = s
	}
}

// WithTableSource overrides the source table parser.
// Defaults to an HTML parser using the configured table selector
func WithTableSource(s TableSource) Option {
	return func(o *Orchestrator) {
		o.tables = s
	}
}

// WithRateSource overrides the exchange rate table loader
func WithRateSource(s RateSource) Option {
	return func(o *Orchestrator) {
		o.rates = s
	}
}

// WithFlatSink overrides the flat-file report writer
func WithFlatSink(s FlatSink) Option {
	return func(o *Orchestrator) {
		o.flat = s
	}
}

// WithConnector overrides the relational store connector
func WithConnector(c Connector) Option {
	return func(o *Orchestrator) {
		o.connector = c
	}
}

// WithClock specifies the time source of emitted events
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}
