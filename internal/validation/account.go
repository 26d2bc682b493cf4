package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/money"
)

// MaxNameLen matches the limit enforced on model.Account.
const MaxNameLen = 100

// ValidateAccountName validates a basic account name (without checking existence)
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("account name can't be empty")
	}

	if strings.Contains(name, model.AccountSeparator) {
		return fmt.Errorf("account name cannot contain '%s' character", model.AccountSeparator)
	}

	if utf8.RuneCountInString(name) > MaxNameLen {
		return fmt.Errorf("account name too long (max %d characters)", MaxNameLen)
	}
	return nil
}

// NewAccountNameValidator returns a validator that checks both name format
// and that no sibling below parent already uses it. A nil parent means the
// top level.
func NewAccountNameValidator(parent *model.Account, accounts []*model.Account) func(string) error {
	taken := make(map[string]bool, len(accounts))
	for _, acc := range accounts {
		taken[acc.FullName] = true
	}

	return func(name string) error {
		if err := ValidateAccountName(name); err != nil {
			return err
		}
		fullName := model.BuildFullName(parent, strings.TrimSpace(name))
		if taken[fullName] {
			return fmt.Errorf("account '%s' already exists", fullName)
		}
		return nil
	}
}

// ValidateCommodity accepts ISO 4217 codes and tickers of up to 10
// letters or digits, in any case.
func ValidateCommodity(code string) error {
	code = strings.TrimSpace(strings.ToUpper(code))

	if code == "" {
		return fmt.Errorf("currency code is required")
	}
	if len(code) > 10 {
		return fmt.Errorf("commodity code '%s' is longer than 10 characters", code)
	}
	for _, c := range code {
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return fmt.Errorf("commodity code must contain only letters and digits")
		}
	}
	return nil
}

// NewAmountValidator checks an amount typed in currency. Zero passes unless
// positive is set; negative amounts never do.
func NewAmountValidator(currency string, positive bool) func(string) error {
	return func(input string) error {
		m, err := money.Parse(input, currency)
		if err != nil {
			return fmt.Errorf("invalid number format")
		}
		if m.IsNegative() {
			return fmt.Errorf("amount can't be negative")
		}
		if positive && m.IsZero() {
			return fmt.Errorf("amount must be greater than zero")
		}
		return nil
	}
}
