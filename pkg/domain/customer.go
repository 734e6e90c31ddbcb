package domain

import (
	"github.com/amirasaad/bankdemo/pkg/currency"
	"github.com/amirasaad/bankdemo/pkg/money"
)

// Account is a customer's balance in one currency as reported by the account
// directory. An account with Exists == false is a placeholder for a currency
// the customer has not opened.
type Account struct {
	Currency currency.Code `json:"currencyCode"`
	Title    string        `json:"currencyTitle,omitempty"`
	Balance  money.Money   `json:"balance"`
	Exists   bool          `json:"exists"`
}

// Customer is an account directory record.
type Customer struct {
	ID        int64     `json:"id"`
	Login     string    `json:"login"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Birthdate string    `json:"birthdate,omitempty"`
	Accounts  []Account `json:"accounts"`
}

// FindAccount returns the open account in the given currency.
func (c *Customer) FindAccount(code currency.Code) (Account, bool) {
	if c == nil {
		return Account{}, false
	}
	for _, a := range c.Accounts {
		if a.Currency == code && a.Exists {
			return a, true
		}
	}
	return Account{}, false
}
