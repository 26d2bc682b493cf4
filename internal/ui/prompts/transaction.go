package prompts

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/money"
	"github.com/hance08/keabook/internal/validation"
)

// PromptAccountSelection lets the user pick an account that can hold
// splits. Placeholders, hidden accounts and ROOT are left out. The
// returned value is the full name.
func PromptAccountSelection(accounts []*model.Account, message string, balanceOf func(*model.Account) (money.Money, bool)) (string, error) {
	var opts []huh.Option[string]
	for _, acc := range accounts {
		if acc.IsRoot() || acc.Placeholder || acc.Hidden {
			continue
		}
		display := acc.FullName
		if balanceOf != nil {
			if b, ok := balanceOf(acc); ok {
				display = fmt.Sprintf("%s (Balance: %s)", acc.FullName, b)
			}
		}
		opts = append(opts, huh.NewOption(display, acc.FullName))
	}
	if len(opts) == 0 {
		return "", fmt.Errorf("no account can receive splits, create one with 'keabook account create'")
	}

	var selected string
	err := huh.NewSelect[string]().
		Title(message).
		Options(opts...).
		Value(&selected).
		Height(15).
		Run()
	if err != nil {
		return "", err
	}
	return selected, nil
}

// PromptAmount asks for a positive amount in currency.
func PromptAmount(message, currency string) (money.Money, error) {
	var in string
	err := huh.NewInput().
		Title(message).
		Description("Decimal (12.50) or exact fraction (1/3)").
		Value(&in).
		Validate(validation.NewAmountValidator(currency, true)).
		Run()
	if err != nil {
		return money.Money{}, err
	}
	return money.Parse(in, currency)
}
