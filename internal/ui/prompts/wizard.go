package prompts

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/hance08/keabook/internal/money"
)

// PromptInitCurrency runs on the first start, before the account tree
// exists.
func PromptInitCurrency(currDefault string) (string, error) {
	selection := currDefault

	err := huh.NewSelect[string]().
		Title("Welcome to keabook! Please set the default currency of the book:").
		Description("It is used for the root account and the Opening Balances account.").
		Options(
			huh.NewOption("USD", "USD"),
			huh.NewOption("TWD", "TWD"),
			huh.NewOption("JPY", "JPY"),
			huh.NewOption("EUR", "EUR"),
			huh.NewOption("CNY", "CNY"),
			huh.NewOption("Other", "Other"),
		).
		Value(&selection).
		Run()
	if err != nil {
		return "", err
	}

	if selection != "Other" {
		return selection, nil
	}

	var customInput string
	err = huh.NewInput().
		Title("Please enter the currency code:").
		Description("Please use the ISO 4217 standard 3-letter currency code.").
		Value(&customInput).
		Validate(func(s string) error {
			if !money.IsCurrency(strings.ToUpper(strings.TrimSpace(s))) {
				return fmt.Errorf("'%s' is not an ISO 4217 currency", s)
			}
			return nil
		}).
		Run()
	if err != nil {
		return "", err
	}

	return strings.ToUpper(strings.TrimSpace(customInput)), nil
}
