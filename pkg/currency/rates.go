package currency

import "github.com/shopspring/decimal"

// RateEntry is one row of the exchange-rate source: the price of one unit of
// Name expressed in the base currency.
type RateEntry struct {
	Title string  `json:"title"`
	Name  Code    `json:"name"`
	Value float64 `json:"value"`
}

// RateTable maps a currency code to its rate against Base.
type RateTable map[Code]decimal.Decimal

// NewRateTable builds a table from rate source entries. Entries with an
// invalid code or a non-positive value are skipped. Base is always present
// with rate 1.
func NewRateTable(entries []RateEntry) RateTable {
	t := make(RateTable, len(entries)+1)
	for _, e := range entries {
		code := Normalize(string(e.Name))
		if !code.IsValid() || e.Value <= 0 {
			continue
		}
		t[code] = decimal.NewFromFloat(e.Value)
	}
	t[Base] = decimal.NewFromInt(1)
	return t
}

// Rate returns the rate of code against Base.
func (t RateTable) Rate(code Code) (decimal.Decimal, bool) {
	if code == Base {
		return decimal.NewFromInt(1), true
	}
	r, ok := t[code]
	if !ok || !r.IsPositive() {
		return decimal.Zero, false
	}
	return r, true
}

// DefaultRates is served when the rate source is unreachable.
func DefaultRates() RateTable {
	return RateTable{
		RUB: decimal.NewFromInt(1),
		USD: decimal.RequireFromString("95.00"),
		CNY: decimal.RequireFromString("13.50"),
	}
}
