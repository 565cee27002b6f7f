package types

type Currency string

func (c Currency) String() string {
	return string(c)
}

// Bank is a single ranked bank, as extracted from the source table.
// Market capitalization is expressed in billions of USD
type Bank struct {
	Name         string  `json:"name"`
	MarketCapUSD float64 `json:"mc_usd_billion"`
}

// EnrichedBank is a Bank carrying its market capitalization
// converted into the derived report currencies
type EnrichedBank struct {
	Bank

	MarketCapEUR float64 `json:"mc_eur_billion"`
	MarketCapGBP float64 `json:"mc_gbp_billion"`
	MarketCapINR float64 `json:"mc_inr_billion"`
}

// Table is an ordered, parsed tabular document.
// Rows keep the source order and are not guaranteed to match the column count
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Page wraps the results for pagination
type Page[T any] struct {
	Results []T   `json:"results"`
	Total   int64 `json:"total"`
}
