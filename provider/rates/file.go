package rates

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/sig-0/largestbanks/storage/types"
)

var ErrInvalidTable = errors.New("invalid rate table")

var (
	currencyHeaders = []string{"currency", "code", "currency code", "currency_code", "symbol"}
	rateHeaders     = []string{"rate", "exchange rate", "exchange_rate", "usd rate"}
)

// LoadFile reads the rate table from the CSV file at the given path
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open rate table: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read parses a CSV rate table. The header must name a currency code column
// and a rate column; any other columns are ignored
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrInvalidTable)
		}

		return nil, fmt.Errorf("%w: unable to read header: %w", ErrInvalidTable, err)
	}

	codeIdx, rateIdx := -1, -1

	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))

		switch {
		case codeIdx < 0 && slices.Contains(currencyHeaders, h):
			codeIdx = i
		case rateIdx < 0 && slices.Contains(rateHeaders, h):
			rateIdx = i
		}
	}

	if codeIdx < 0 || rateIdx < 0 {
		return nil, fmt.Errorf(
			"%w: header %q lacks a currency or rate column",
			ErrInvalidTable,
			header,
		)
	}

	var (
		entries = make([]Entry, 0, 8)
		line    = 1
	)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		line++

		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidTable, line, err)
		}

		if len(record) <= codeIdx || len(record) <= rateIdx {
			return nil, fmt.Errorf("%w: line %d is too short", ErrInvalidTable, line)
		}

		code := strings.ToUpper(strings.TrimSpace(record[codeIdx]))
		if code == "" {
			continue
		}

		rate, err := strconv.ParseFloat(strings.TrimSpace(record[rateIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: unable to parse rate: %w", ErrInvalidTable, line, err)
		}

		if math.IsNaN(rate) || math.IsInf(rate, 0) {
			return nil, fmt.Errorf("%w: line %d: %w: %g", ErrInvalidTable, line, ErrNonFiniteRate, rate)
		}

		entries = append(entries, Entry{
			Currency: types.Currency(code),
			Rate:     rate,
		})
	}

	t, err := New(entries...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTable, err)
	}

	return t, nil
}
