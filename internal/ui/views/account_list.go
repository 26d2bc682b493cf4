package views

import (
	"strings"

	"github.com/pterm/pterm"

	"github.com/hance08/keabook/internal/app"
	"github.com/hance08/keabook/internal/ui"
)

type AccountTreeView struct {
	// Currency of the Total column.
	Currency   string
	ShowHidden bool
}

func NewAccountTreeView(currency string) *AccountTreeView {
	return &AccountTreeView{Currency: currency}
}

func (v *AccountTreeView) Render(rows []app.AccountBalance) error {
	tableData := pterm.TableData{{"Account", "Type", "Balance", "Total (" + v.Currency + ")"}}

	shown := 0
	for _, row := range rows {
		acc := row.Account
		if acc.Hidden && !v.ShowHidden {
			continue
		}
		shown++

		name := strings.Repeat("  ", row.Depth) + acc.Name
		if acc.Placeholder {
			name += pterm.Gray(" [placeholder]")
		}
		tableData = append(tableData, []string{
			ui.TypeColor(acc.Type, name),
			ui.TypeColor(acc.Type, string(acc.Type)),
			ui.Amount(row.Own),
			ui.TypeColor(acc.Type, ui.Amount(row.Total)),
		})
	}

	pterm.DefaultSection.Printf("Account Tree")
	if err := pterm.DefaultTable.WithHasHeader().WithRightAlignment().WithData(tableData).Render(); err != nil {
		return err
	}

	pterm.Info.Printf("Total: %d accounts\n", shown)

	return nil
}
