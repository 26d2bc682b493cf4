package ui

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/money"
)

func PrintL1Title(format string, a ...any) {
	style := pterm.NewStyle(pterm.BgCyan, pterm.FgBlack, pterm.Bold)

	text := fmt.Sprintf(format, a...)

	paddedText := fmt.Sprintf(" %s   ", text)

	style.Println(paddedText)
}

func PrintL2Title(format string, a ...any) {
	style := pterm.NewStyle(pterm.FgCyan, pterm.Bold)

	text := fmt.Sprintf(format, a...)

	paddedText := fmt.Sprintf("# %s   ", text)

	style.Println(paddedText)
}

func Separator() {
	pterm.Println(pterm.Gray(strings.Repeat("-", 57)))
}

// TypeColor paints text by the kind of account: assets and income green,
// liabilities and expenses red, equity gray.
func TypeColor(typ model.AccountType, text string) string {
	switch typ {
	case model.TypeCash, model.TypeBank, model.TypeAsset, model.TypeReceivable,
		model.TypeStock, model.TypeMutual, model.TypeCurrency, model.TypeIncome:
		return pterm.Green(text)
	case model.TypeCredit, model.TypeLiability, model.TypePayable, model.TypeExpense:
		return pterm.Red(text)
	case model.TypeEquity:
		return pterm.Gray(text)
	}
	return text
}

// Amount formats m for a table cell. Zero-valued money prints as a dash.
func Amount(m money.Money) string {
	if m.Currency() == "" {
		return "-"
	}
	return m.String()
}
