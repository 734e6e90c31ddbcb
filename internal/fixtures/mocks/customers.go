package mocks

import (
	"github.com/amirasaad/bankdemo/pkg/currency"
	"github.com/amirasaad/bankdemo/pkg/domain"
	"github.com/amirasaad/bankdemo/pkg/money"
)

// Customer builds a directory record named "Name <login>" with the given
// open accounts.
func Customer(id int64, login string, accounts ...domain.Account) *domain.Customer {
	return &domain.Customer{
		ID:       id,
		Login:    login,
		Name:     "Name " + login,
		Email:    login + "@example.com",
		Accounts: accounts,
	}
}

// Account builds an open account with the given balance.
func Account(code currency.Code, balance string) domain.Account {
	return domain.Account{
		Currency: code,
		Balance:  money.MustParse(balance),
		Exists:   true,
	}
}
