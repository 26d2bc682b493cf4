package views

import (
	"time"

	"github.com/pterm/pterm"

	"github.com/hance08/keabook/internal/app"
	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/ui"
)

type RegisterView struct{}

func NewRegisterView() *RegisterView {
	return &RegisterView{}
}

func (v *RegisterView) Render(acc *model.Account, entries []app.RegisterEntry) error {
	if len(entries) == 0 {
		pterm.Warning.Printf("No transactions found in %s\n", acc.FullName)
		return nil
	}

	pterm.DefaultSection.Printf("Register of %s", acc.FullName)

	tableData := pterm.TableData{
		{"Date", "Description", "Memo", "Amount", "Balance", "UID"},
	}

	for _, e := range entries {
		amount := e.Effect.String()
		if e.Effect.IsNegative() {
			amount = pterm.Red(amount)
		} else {
			amount = pterm.Green(amount)
		}
		running := ui.Amount(e.Running)
		if !e.Priced {
			running = pterm.Yellow("no price")
		}

		tableData = append(tableData, []string{
			e.Transaction.Timestamp.Local().Format(time.DateOnly),
			e.Transaction.Description,
			e.Split.Memo,
			amount,
			running,
			pterm.Gray(e.Transaction.UID),
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}
	pterm.Info.Printf("Total: %d entries\n", len(entries))
	return nil
}
