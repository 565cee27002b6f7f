package convert

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/sig-0/largestbanks/provider/currencies"
	"github.com/sig-0/largestbanks/provider/rates"
	"github.com/sig-0/largestbanks/storage/types"
)

// Places is the number of decimal places derived market caps are rounded to
const Places = 3

var (
	ErrConversion = errors.New("unable to convert market caps")

	errNilRates = errors.New("no rate table")
	errNilBank  = errors.New("nil bank record")
	errBadUSD   = errors.New("non-finite USD market cap")
)

// Convert converts the USD market cap of every bank into each required currency.
// Rates are looked up by currency code. The output matches the input order
// one-to-one, and nothing is returned if any rate is missing or invalid
func Convert(banks []*types.Bank, table *rates.Table) ([]*types.EnrichedBank, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: %w", ErrConversion, errNilRates)
	}

	// Validate every required rate up front
	if err := table.Require(currencies.Required()...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConversion, err)
	}

	var (
		eur, _ = table.Rate(currencies.EUR)
		gbp, _ = table.Rate(currencies.GBP)
		inr, _ = table.Rate(currencies.INR)
	)

	out := make([]*types.EnrichedBank, 0, len(banks))

	for i, bank := range banks {
		if bank == nil {
			return nil, fmt.Errorf("%w: %w at %d", ErrConversion, errNilBank, i)
		}

		if math.IsNaN(bank.MarketCapUSD) || math.IsInf(bank.MarketCapUSD, 0) {
			return nil, fmt.Errorf("%w: %w at %d", ErrConversion, errBadUSD, i)
		}

		out = append(out, &types.EnrichedBank{
			Bank:         *bank,
			MarketCapEUR: Amount(bank.MarketCapUSD, eur),
			MarketCapGBP: Amount(bank.MarketCapUSD, gbp),
			MarketCapINR: Amount(bank.MarketCapUSD, inr),
		})
	}

	return out, nil
}

// Amount returns usd * rate, rounded half-to-even to Places decimal places.
// The product is computed exactly on the shortest decimal form of both inputs,
// so 432.92 * 0.93 is 402.6156 and rounds to 402.616
func Amount(usd, rate float64) float64 {
	v, _ := decimal.NewFromFloat(usd).
		Mul(decimal.NewFromFloat(rate)).
		RoundBank(Places).
		Float64()

	return v
}
