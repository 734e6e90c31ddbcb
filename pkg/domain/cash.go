package domain

import (
	"strings"

	"github.com/amirasaad/bankdemo/pkg/currency"
	"github.com/amirasaad/bankdemo/pkg/money"
)

// CashAction is the direction of a cash operation.
type CashAction string

const (
	CashDeposit  CashAction = "DEPOSIT"
	CashWithdraw CashAction = "WITHDRAW"
)

// CashRequest deposits or withdraws cash on one of the customer's accounts.
type CashRequest struct {
	Login    string        `json:"login"`
	Currency currency.Code `json:"currency"`
	Value    money.Money   `json:"value"`
	Action   CashAction    `json:"action"`
}

// Validate returns error messages for a malformed request.
func (r CashRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Login) == "" {
		errs = append(errs, MsgLoginRequired)
	}
	if !r.Currency.IsSupported() {
		errs = append(errs, MsgUnsupportedCurrency)
	}
	if !r.Value.IsPositive() {
		errs = append(errs, MsgAmountMustBePositive)
	}
	if r.Action != CashDeposit && r.Action != CashWithdraw {
		errs = append(errs, MsgInvalidAction)
	}
	return errs
}

// CashResult is the outcome of a cash operation.
type CashResult struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors,omitempty"`
}

// CashFailed returns a failed result.
func CashFailed(errs ...string) CashResult {
	return CashResult{Success: false, Errors: errs}
}
