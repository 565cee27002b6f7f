package rates

import (
	"errors"
	"fmt"
	"math"

	"github.com/sig-0/largestbanks/storage/types"
)

var (
	ErrMissingRate     = errors.New("missing exchange rate")
	ErrNonPositiveRate = errors.New("non-positive exchange rate")
	ErrNonFiniteRate   = errors.New("non-finite exchange rate")
	ErrDuplicateRate   = errors.New("duplicate exchange rate")
)

// Entry is a single currency rate, expressed as target-currency units per USD
type Entry struct {
	Currency types.Currency
	Rate     float64
}

// Table is a read-only, code-keyed exchange rate table.
// The source order is retained for display purposes only
type Table struct {
	rates map[types.Currency]float64
	order []types.Currency
}

// New creates a new rate table from the given entries.
// A currency may only appear once
func New(entries ...Entry) (*Table, error) {
	t := &Table{
		rates: make(map[types.Currency]float64, len(entries)),
		order: make([]types.Currency, 0, len(entries)),
	}

	for _, e := range entries {
		if _, ok := t.rates[e.Currency]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRate, e.Currency)
		}

		t.rates[e.Currency] = e.Rate
		t.order = append(t.order, e.Currency)
	}

	return t, nil
}

// Rate returns the rate for the given currency code
func (t *Table) Rate(c types.Currency) (float64, error) {
	rate, ok := t.rates[c]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingRate, c)
	}

	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, fmt.Errorf("%w: %s = %g", ErrNonFiniteRate, c, rate)
	}

	if rate <= 0 {
		return 0, fmt.Errorf("%w: %s = %g", ErrNonPositiveRate, c, rate)
	}

	return rate, nil
}

// Require verifies the table holds a valid rate for every given currency
func (t *Table) Require(cs ...types.Currency) error {
	errs := make([]error, 0)

	for _, c := range cs {
		if _, err := t.Rate(c); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Currencies returns the currencies in the table, in source order
func (t *Table) Currencies() []types.Currency {
	out := make([]types.Currency, len(t.order))
	copy(out, t.order)

	return out
}

// Len returns the number of rates in the table
func (t *Table) Len() int {
	return len(t.order)
}
