package currency

import (
	"errors"
	"fmt"

	"github.com/amirasaad/bankdemo/pkg/money"
)

// ErrRateNotFound is returned when a currency has no rate in the table.
// The wrapped message reads "Exchange rate not found for <CODE>".
var ErrRateNotFound = errors.New("Exchange rate not found") //nolint:staticcheck

// Convert converts amount from one currency to another through the base
// currency: amount * rate(from) / rate(to), rounded half-up to whole units.
// Same-currency conversion returns amount unchanged.
func Convert(amount money.Money, from, to Code, rates RateTable) (money.Money, error) {
	if from == to {
		return amount, nil
	}
	fromRate, ok := rates.Rate(from)
	if !ok {
		return money.Zero, fmt.Errorf("%w for %s", ErrRateNotFound, from)
	}
	toRate, ok := rates.Rate(to)
	if !ok {
		return money.Zero, fmt.Errorf("%w for %s", ErrRateNotFound, to)
	}
	return amount.MulDivRound(fromRate, toRate, 0)
}
