package ingest

import (
	"context"

	"github.com/sig-0/largestbanks/ingest/config"
	"github.com/sig-0/largestbanks/provider/rates"
	"github.com/sig-0/largestbanks/storage"
	"github.com/sig-0/largestbanks/storage/types"
)

// DocumentSource fetches the raw source document for an address
type DocumentSource interface {
	// Fetch returns the document at the given address
	Fetch(ctx context.Context, address string) ([]byte, error)
}

// TableSource extracts the ranked table from a fetched document
type TableSource interface {
	// Parse parses the first matching table of the document
	Parse(doc []byte) (*types.Table, error)
}

// RateSource loads the run's exchange rate table
type RateSource interface {
	// Load loads the rate table at the given path
	Load(path string) (*rates.Table, error)
}

// FlatSink writes the report to a flat file
type FlatSink interface {
	// Write replaces the file at the given path with the report
	Write(path string, banks []*types.EnrichedBank) error
}

// Connector opens the relational report store
type Connector interface {
	// Connect opens a connection to the given database target.
	// The caller owns the connection and must close it
	Connect(ctx context.Context, target config.Database) (storage.Conn, error)
}
