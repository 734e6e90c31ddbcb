package domain

import "errors"

var (
	// ErrCustomerNotFound is returned by the account directory when no
	// customer exists for a login.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrAccountNotFound is returned when a customer has no open account in
	// the requested currency.
	ErrAccountNotFound = errors.New("account not found")
)

// User facing messages placed in transfer and cash results.
const (
	MsgFraudDetected              = "Fraud detected"
	MsgCustomerNotFound           = "Customer not found"
	MsgRecipientNotFound          = "Recipient not found"
	MsgSourceAccountNotFound      = "Source account not found"
	MsgDestinationAccountNotFound = "Destination account not found"
	MsgInsufficientFunds          = "Insufficient funds"
	MsgConversionFailed           = "Currency conversion failed: "
	MsgServiceUnavailable         = "Service unavailable, try later"
	MsgAmountMustBePositive       = "Amount must be positive"
	MsgInvalidSourceCurrency      = "Invalid source currency"
	MsgInvalidTargetCurrency      = "Invalid destination currency"
	MsgRecipientRequired          = "Recipient login is required"
	MsgLoginRequired              = "Login is required"
	MsgUnsupportedCurrency        = "Unsupported currency"
	MsgInvalidAction              = "Invalid action"
	MsgInvalidRequest             = "Invalid request"
)
