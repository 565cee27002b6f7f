package currencies

import "github.com/sig-0/largestbanks/storage/types"

var (
	USD types.Currency = "USD"
	EUR types.Currency = "EUR"
	GBP types.Currency = "GBP"
	INR types.Currency = "INR"
)

// Required lists the currencies every report is converted into,
// in report column order
func Required() []types.Currency {
	return []types.Currency{EUR, GBP, INR}
}
