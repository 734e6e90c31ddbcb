package transfer

import (
	"github.com/amirasaad/bankdemo/pkg/currency"
	"github.com/amirasaad/bankdemo/pkg/domain"
	"github.com/amirasaad/bankdemo/pkg/money"
)

// TransferRequest is the body of POST /user/:login/transfer.
type TransferRequest struct {
	FromCurrency string      `json:"fromCurrency" validate:"required,oneof=RUB USD CNY"`
	ToCurrency   string      `json:"toCurrency" validate:"required,oneof=RUB USD CNY"`
	Value        money.Money `json:"value"`
	ToLogin      string      `json:"toLogin" validate:"required"`
}

// fieldMessages maps a failing field to the message placed in the result.
var fieldMessages = map[string]string{
	"FromCurrency": domain.MsgInvalidSourceCurrency,
	"ToCurrency":   domain.MsgInvalidTargetCurrency,
	"ToLogin":      domain.MsgRecipientRequired,
}

func (r *TransferRequest) normalize() {
	r.FromCurrency = currency.Normalize(r.FromCurrency).String()
	r.ToCurrency = currency.Normalize(r.ToCurrency).String()
}

func (r TransferRequest) toDomain() domain.TransferRequest {
	return domain.TransferRequest{
		FromCurrency: currency.Code(r.FromCurrency),
		ToCurrency:   currency.Code(r.ToCurrency),
		Value:        r.Value,
		ToLogin:      r.ToLogin,
	}
}
