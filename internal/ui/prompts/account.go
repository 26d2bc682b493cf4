package prompts

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/money"
	"github.com/hance08/keabook/internal/validation"
)

var typeLabels = map[model.AccountType]string{
	model.TypeCash:       "Cash in wallet",
	model.TypeBank:       "Bank account",
	model.TypeCredit:     "Credit card",
	model.TypeAsset:      "Other assets",
	model.TypeLiability:  "Loans and other debts",
	model.TypeIncome:     "Income",
	model.TypeExpense:    "Expenses",
	model.TypePayable:    "Accounts payable",
	model.TypeReceivable: "Accounts receivable",
	model.TypeEquity:     "Equity (Advanced)",
	model.TypeCurrency:   "Currency trading",
	model.TypeStock:      "Stocks",
	model.TypeMutual:     "Mutual funds",
}

// PromptAccountType prompts for account type selection
func PromptAccountType() (model.AccountType, error) {
	var options []huh.Option[model.AccountType]
	for _, t := range model.AccountTypes {
		label, ok := typeLabels[t]
		if !ok {
			continue
		}
		options = append(options, huh.NewOption(fmt.Sprintf("%-10s %s", t, label), t))
	}

	selected := model.TypeBank
	err := huh.NewSelect[model.AccountType]().
		Title("Account Type:").
		Options(options...).
		Value(&selected).
		Height(len(options) + 2).
		Run()
	if err != nil {
		return "", fmt.Errorf("input cancelled: %w", err)
	}
	return selected, nil
}

// PromptParentAccount lets the user pick a parent by full name. The first
// option stands for a top-level account and returns "".
func PromptParentAccount(accounts []*model.Account) (*model.Account, error) {
	byUID := make(map[string]*model.Account, len(accounts))
	options := []huh.Option[string]{huh.NewOption("(top level)", "")}
	for _, acc := range accounts {
		if acc.IsRoot() || acc.Hidden {
			continue
		}
		byUID[acc.UID] = acc
		options = append(options, huh.NewOption(acc.FullName, acc.UID))
	}

	var selected string
	err := huh.NewSelect[string]().
		Title("Parent account:").
		Options(options...).
		Value(&selected).
		Height(10).
		Run()
	if err != nil {
		return nil, fmt.Errorf("input cancelled: %w", err)
	}
	return byUID[selected], nil
}

// PromptAccountName prompts for account name with validation
func PromptAccountName(validator func(string) error) (string, error) {
	return PromptInput("Account Name:", "", validator)
}

// PromptCurrency prompts for currency selection with common options
func PromptCurrency(defaultCurrency string, isInherited bool) (string, error) {
	commonCurrencies := []string{
		"USD - US Dollar",
		"EUR - Euro",
		"GBP - British Pound",
		"JPY - Japanese Yen",
		"CNY - Chinese Yuan",
		"TWD - Taiwan Dollar",
		"HKD - Hong Kong Dollar",
		"SGD - Singapore Dollar",
		"Other (Custom)",
	}

	message := fmt.Sprintf("Currency (default: %s):", defaultCurrency)
	if isInherited {
		message = fmt.Sprintf("Currency (inherited: %s):", defaultCurrency)
	}

	selected, err := PromptSelect(message, commonCurrencies, defaultCurrency)
	if err != nil {
		return "", fmt.Errorf("input cancelled: %w", err)
	}

	if selected == "Other (Custom)" {
		custom, err := PromptInput("Enter currency or commodity code:", "", validation.ValidateCommodity)
		if err != nil {
			return "", fmt.Errorf("input cancelled: %w", err)
		}
		return strings.ToUpper(custom), nil
	}

	return strings.Fields(selected)[0], nil
}

// PromptOpeningBalance asks for an optional opening balance in currency.
func PromptOpeningBalance(currency string) (money.Money, error) {
	in, err := PromptInput(fmt.Sprintf("Opening Balance in %s (press Enter for 0):", currency), "0", validation.NewAmountValidator(currency, false))
	if err != nil {
		return money.Money{}, err
	}
	return money.Parse(in, currency)
}
