package ingest

import (
	"context"

	"github.com/sig-0/largestbanks/ingest/config"
	"github.com/sig-0/largestbanks/provider/rates"
	"github.com/sig-0/largestbanks/storage"
	"github.com/sig-0/largestbanks/storage/csv"
	"github.com/sig-0/largestbanks/storage/sql"
	"github.com/sig-0/largestbanks/storage/types"
)

// fileRates loads the rate table from a CSV file
type fileRates struct{}

func (fileRates) Load(path string) (*rates.Table, error) {
	return rates.LoadFile(path)
}

// csvSink writes the report as a CSV file
type csvSink struct{}

func (csvSink) Write(path string, banks []*types.EnrichedBank) error {
	return csv.Write(path, banks)
}

// sqlConnector opens the relational store over database/sql
type sqlConnector struct{}

func (sqlConnector) Connect(ctx context.Context, target config.Database) (storage.Conn, error) {
	s, err := sql.Open(ctx, target.Driver, target.DSN, target.Table)
	if err != nil {
		return nil, err
	}

	return s, nil
}
