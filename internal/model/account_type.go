package model

import (
	"fmt"
	"strings"
)

// AccountType is the kind of an account. The string form is the GnuCash one.
type AccountType string

const (
	TypeCash       AccountType = "CASH"
	TypeBank       AccountType = "BANK"
	TypeCredit     AccountType = "CREDIT"
	TypeAsset      AccountType = "ASSET"
	TypeLiability  AccountType = "LIABILITY"
	TypeIncome     AccountType = "INCOME"
	TypeExpense    AccountType = "EXPENSE"
	TypePayable    AccountType = "PAYABLE"
	TypeReceivable AccountType = "RECEIVABLE"
	TypeEquity     AccountType = "EQUITY"
	TypeCurrency   AccountType = "CURRENCY"
	TypeStock      AccountType = "STOCK"
	TypeMutual     AccountType = "MUTUAL"
	TypeRoot       AccountType = "ROOT"
)

// Polarity is the normal balance side of an account type.
type Polarity int

const (
	DebitNormal Polarity = iota
	CreditNormal
)

func (p Polarity) String() string {
	if p == CreditNormal {
		return "CREDIT"
	}
	return "DEBIT"
}

var polarities = map[AccountType]Polarity{
	TypeCash:       DebitNormal,
	TypeBank:       DebitNormal,
	TypeAsset:      DebitNormal,
	TypeExpense:    DebitNormal,
	TypeReceivable: DebitNormal,
	TypeCurrency:   DebitNormal,
	TypeStock:      DebitNormal,
	TypeMutual:     DebitNormal,
	TypeRoot:       DebitNormal,
	TypeCredit:     CreditNormal,
	TypeLiability:  CreditNormal,
	TypeIncome:     CreditNormal,
	TypePayable:    CreditNormal,
	TypeEquity:     CreditNormal,
}

// AccountTypes lists every type in declaration order.
var AccountTypes = []AccountType{
	TypeCash, TypeBank, TypeCredit, TypeAsset, TypeLiability, TypeIncome,
	TypeExpense, TypePayable, TypeReceivable, TypeEquity, TypeCurrency,
	TypeStock, TypeMutual, TypeRoot,
}

// Polarity returns the normal balance side of t.
func (t AccountType) Polarity() Polarity {
	return polarities[t]
}

// Valid reports whether t is one of the known types.
func (t AccountType) Valid() bool {
	_, ok := polarities[t]
	return ok
}

// ParseAccountType accepts any letter case.
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("invalid account type '%s'", s)
	}
	return t, nil
}
