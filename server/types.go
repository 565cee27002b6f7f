package server

import "github.com/sig-0/largestbanks/storage/types"

// BankResponse is a single ranked report entry
type BankResponse struct {
	*types.EnrichedBank

	Rank int `json:"rank"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Banks  int    `json:"banks"`
}

type CurrenciesResponse struct {
	Results []types.Currency `json:"results"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
