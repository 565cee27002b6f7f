package extract

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/sig-0/largestbanks/storage/types"
)

var (
	ErrExtraction = errors.New("unable to extract banks")

	errNoTable       = errors.New("no table to extract from")
	errMissingColumn = errors.New("missing column")
	errShortRow      = errors.New("row is missing cells")
	errEmptyName     = errors.New("empty bank name")
	errInvalidCap    = errors.New("invalid market cap")
	errTooFewRows    = errors.New("too few rows")
)

var (
	footnoteRegex = regexp.MustCompile(`\[[^\]]*\]`)
	headerRegex   = regexp.MustCompile(`[^a-z0-9$]+`)
)

// Extract turns the parsed source table into the ranked bank sequence.
// Row order is the ranking and is kept as is. When topN is positive
// the result is capped to topN banks, and a shorter table is an error
func Extract(table *types.Table, topN int) ([]*types.Bank, error) {
	if table == nil || len(table.Columns) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, errNoTable)
	}

	nameIdx, capIdx := -1, -1

	for i, column := range table.Columns {
		h := normalizeHeader(column)

		switch {
		case nameIdx < 0 && isNameHeader(h):
			nameIdx = i
		case capIdx < 0 && isMarketCapHeader(h):
			capIdx = i
		}
	}

	if nameIdx < 0 {
		return nil, fmt.Errorf("%w: %w: bank name in %q", ErrExtraction, errMissingColumn, table.Columns)
	}

	if capIdx < 0 {
		return nil, fmt.Errorf("%w: %w: USD market cap in %q", ErrExtraction, errMissingColumn, table.Columns)
	}

	rows := table.Rows
	if topN > 0 {
		if len(rows) < topN {
			return nil, fmt.Errorf(
				"%w: %w: want %d, have %d",
				ErrExtraction,
				errTooFewRows,
				topN,
				len(rows),
			)
		}

		rows = rows[:topN]
	}

	banks := make([]*types.Bank, 0, len(rows))

	for i, row := range rows {
		if len(row) <= nameIdx || len(row) <= capIdx {
			return nil, fmt.Errorf("%w: %w: row %d", ErrExtraction, errShortRow, i)
		}

		name := cleanCell(row[nameIdx])
		if name == "" {
			return nil, fmt.Errorf("%w: %w: row %d", ErrExtraction, errEmptyName, i)
		}

		marketCap, err := parseMarketCap(row[capIdx])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d (%s): %w", ErrExtraction, i, name, err)
		}

		banks = append(banks, &types.Bank{
			Name:         name,
			MarketCapUSD: marketCap,
		})
	}

	return banks, nil
}

// parseMarketCap parses a market cap cell, expressed in billions
func parseMarketCap(s string) (float64, error) {
	s = cleanCell(s)
	s = strings.TrimPrefix(s, "US$")
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if s == "" {
		return 0, errInvalidCap
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errInvalidCap, s)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, fmt.Errorf("%w: %q is not a non-negative number", errInvalidCap, s)
	}

	return f, nil
}

// cleanCell drops footnote markers and collapses whitespace
func cleanCell(s string) string {
	s = footnoteRegex.ReplaceAllString(s, "")

	return strings.Join(strings.Fields(s), " ")
}

// normalizeHeader reduces header text to its lowercase alphanumeric
// words, so "Market cap (US$ billion)[1]" becomes "market cap us$ billion"
func normalizeHeader(s string) string {
	s = footnoteRegex.ReplaceAllString(strings.ToLower(s), "")

	return strings.TrimSpace(headerRegex.ReplaceAllString(s, " "))
}

func isNameHeader(h string) bool {
	switch h {
	case "name", "bank", "bank name", "institution", "company":
		return true
	}

	return strings.Contains(h, "bank") && strings.Contains(h, "name")
}

func isMarketCapHeader(h string) bool {
	compact := strings.ReplaceAll(h, " ", "")

	if !strings.Contains(compact, "marketcap") && !strings.HasPrefix(compact, "mc") {
		return false
	}

	return strings.Contains(h, "usd") || strings.Contains(h, "us$") || strings.Contains(h, "$")
}
