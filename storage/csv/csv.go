// Package csv persists the bank report as a flat CSV file.
//
// The file carries a zero-based positional row_id column, followed by the
// report columns. Writes go to a temporary file in the destination directory
// that is renamed over the target, so a failed write never leaves a
// truncated report behind.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sig-0/largestbanks/storage"
	"github.com/sig-0/largestbanks/storage/types"
)

// Header is the flat-file report header
var Header = []string{
	"row_id",
	"Name",
	"MC_USD_Billion",
	"MC_EUR_Billion",
	"MC_GBP_Billion",
	"MC_INR_Billion",
}

var errInvalidHeader = errors.New("invalid report header")

// Write writes the report to the given path, replacing any previous content
func Write(path string, banks []*types.EnrichedBank) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: unable to create temp file: %w", storage.ErrPersistence, err)
	}

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = Encode(tmp, banks); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrPersistence, err)
	}

	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: unable to sync report: %w", storage.ErrPersistence, err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: unable to close report: %w", storage.ErrPersistence, err)
	}

	// CreateTemp uses 0600, reports are meant to be shared
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("%w: unable to set report mode: %w", storage.ErrPersistence, err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: unable to replace report: %w", storage.ErrPersistence, err)
	}

	return nil
}

// Encode writes the CSV report to the given writer
func Encode(w io.Writer, banks []*types.EnrichedBank) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("unable to write header: %w", err)
	}

	for i, bank := range banks {
		record := []string{
			strconv.Itoa(i),
			bank.Name,
			formatFloat(bank.MarketCapUSD),
			formatFloat(bank.MarketCapEUR),
			formatFloat(bank.MarketCapGBP),
			formatFloat(bank.MarketCapINR),
		}

		if err := writer.Write(record); err != nil {
			return fmt.Errorf("unable to write row %d: %w", i, err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return fmt.Errorf("unable to flush report: %w", err)
	}

	return nil
}

// Read reads back a report written by Write
func Read(path string) ([]*types.EnrichedBank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to open report: %w", storage.ErrPersistence, err)
	}
	defer f.Close()

	banks, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrPersistence, err)
	}

	return banks, nil
}

// Decode parses a CSV report from the given reader
func Decode(r io.Reader) ([]*types.EnrichedBank, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(Header)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("unable to read header: %w", err)
	}

	for i := range Header {
		if header[i] != Header[i] {
			return nil, fmt.Errorf("%w: %q", errInvalidHeader, header)
		}
	}

	banks := make([]*types.EnrichedBank, 0, 16)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("unable to read row %d: %w", len(banks), err)
		}

		values := make([]float64, 4)

		for i := range values {
			values[i], err = strconv.ParseFloat(record[i+2], 64)
			if err != nil {
				return nil, fmt.Errorf(
					"unable to parse %s in row %d: %w",
					Header[i+2],
					len(banks),
					err,
				)
			}
		}

		banks = append(banks, &types.EnrichedBank{
			Bank: types.Bank{
				Name:         record[1],
				MarketCapUSD: values[0],
			},
			MarketCapEUR: values[1],
			MarketCapGBP: values[2],
			MarketCapINR: values[3],
		})
	}

	return banks, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
