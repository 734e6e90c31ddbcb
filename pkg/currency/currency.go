// Package currency defines currency codes, the rate table and the converter
// used for cross-currency transfers.
package currency

import "strings"

// Code is an ISO 4217 style currency code (e.g. "RUB", "USD").
type Code string

const (
	RUB Code = "RUB"
	USD Code = "USD"
	CNY Code = "CNY"
)

// Base is the currency every rate is quoted against. Its rate is always 1.
const Base = RUB

// Supported lists the currencies accounts can be opened in.
var Supported = []Code{RUB, USD, CNY}

// String returns the code as a string.
func (c Code) String() string { return string(c) }

// IsValid reports whether c is three uppercase ASCII letters.
func (c Code) IsValid() bool {
	if len(c) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if c[i] < 'A' || c[i] > 'Z' {
			return false
		}
	}
	return true
}

// IsSupported reports whether c is one of the Supported currencies.
func (c Code) IsSupported() bool {
	for _, s := range Supported {
		if s == c {
			return true
		}
	}
	return false
}

// Normalize trims and upper-cases a user supplied code.
func Normalize(s string) Code {
	return Code(strings.ToUpper(strings.TrimSpace(s)))
}
