package views

import (
	"time"

	"github.com/pterm/pterm"

	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/ui"
)

// RenderTransactionDetail prints the header and splits of tx. accounts maps
// UIDs to accounts; unknown UIDs are shown as is.
func RenderTransactionDetail(tx *model.Transaction, accounts map[string]*model.Account) error {
	exported := "No"
	if tx.Exported {
		exported = "Yes"
	}

	pterm.Println()
	ui.PrintL2Title("Transaction Info")
	infoData := pterm.TableData{
		{"Field", "Value"},
		{"UID", tx.UID},
		{"Date", tx.Timestamp.Local().Format(time.DateOnly)},
		{"Description", tx.Description},
		{"Currency", tx.Currency},
		{"Exported", exported},
	}
	if tx.Notes != "" {
		infoData = append(infoData, []string{"Notes", tx.Notes})
	}
	if err := pterm.DefaultTable.
		WithHasHeader().
		WithHeaderStyle(pterm.NewStyle(pterm.FgGray)).
		WithData(infoData).
		Render(); err != nil {
		return err
	}

	pterm.Println()
	ui.PrintL2Title("Splits")
	splitsData := pterm.TableData{
		{"Account", "Amount", "Side", "Effect", "Memo", "Reconciled"},
	}

	for _, split := range tx.Splits {
		accountName := split.AccountUID
		effect := "-"
		if acc, ok := accounts[split.AccountUID]; ok {
			accountName = ui.TypeColor(acc.Type, acc.FullName)
			effect = effectLabel(split, acc)
		}

		memo := split.Memo
		if memo == "" {
			memo = "-"
		}

		splitsData = append(splitsData, []string{
			accountName,
			split.Amount.String(),
			string(split.Type),
			effect,
			memo,
			split.ReconcileState,
		})
	}

	if err := pterm.DefaultTable.
		WithHasHeader().
		WithHeaderStyle(pterm.NewStyle(pterm.FgGray)).
		WithData(splitsData).
		Render(); err != nil {
		return err
	}

	if !tx.IsBalanced() {
		pterm.Warning.Println("Splits do not balance")
	}
	return nil
}

// effectLabel says whether the split raises or lowers the account balance.
func effectLabel(s *model.Split, acc *model.Account) string {
	if s.Effect(acc.Type.Polarity()).IsNegative() {
		return pterm.Red("decrease")
	}
	return pterm.Green("increase")
}
