package domain

import (
	"github.com/amirasaad/bankdemo/pkg/currency"
	"github.com/amirasaad/bankdemo/pkg/money"
)

// TransferRequest moves Value (denominated in FromCurrency) from the
// initiator's FromCurrency account to ToLogin's ToCurrency account.
type TransferRequest struct {
	FromCurrency currency.Code `json:"fromCurrency"`
	ToCurrency   currency.Code `json:"toCurrency"`
	Value        money.Money   `json:"value"`
	ToLogin      string        `json:"toLogin"`
}

// Validate returns initiator-side error messages for a malformed request.
func (r TransferRequest) Validate() []string {
	var errs []string
	if !r.Value.IsPositive() {
		errs = append(errs, MsgAmountMustBePositive)
	}
	if !r.FromCurrency.IsValid() {
		errs = append(errs, MsgInvalidSourceCurrency)
	}
	if !r.ToCurrency.IsValid() {
		errs = append(errs, MsgInvalidTargetCurrency)
	}
	if r.ToLogin == "" {
		errs = append(errs, MsgRecipientRequired)
	}
	return errs
}

// TransferResult is the outcome of a transfer. OwnErrors are attributable to
// the initiator, CounterpartErrors to the named recipient. Success is true
// exactly when both lists are empty.
type TransferResult struct {
	Success           bool     `json:"success"`
	OwnErrors         []string `json:"transferErrors,omitempty"`
	CounterpartErrors []string `json:"transferOtherErrors,omitempty"`
}

// TransferSucceeded returns a successful result.
func TransferSucceeded() TransferResult {
	return TransferResult{Success: true}
}

// TransferFailed returns a result carrying whichever error buckets are
// non-empty.
func TransferFailed(own, counterpart []string) TransferResult {
	r := TransferResult{}
	if len(own) > 0 {
		r.OwnErrors = own
	}
	if len(counterpart) > 0 {
		r.CounterpartErrors = counterpart
	}
	r.Success = r.OwnErrors == nil && r.CounterpartErrors == nil
	return r
}

// TransferOwnError returns a failed result with a single initiator-side error.
func TransferOwnError(msg string) TransferResult {
	return TransferFailed([]string{msg}, nil)
}
