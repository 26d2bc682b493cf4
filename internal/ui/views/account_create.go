package views

import (
	"github.com/pterm/pterm"

	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/money"
	"github.com/hance08/keabook/internal/ui"
)

type AccountSummaryItem struct {
	FullName    string
	Type        model.AccountType
	Currency    string
	Opening     money.Money
	Placeholder bool
	Description string
}

func RenderAccountSummary(data AccountSummaryItem) error {
	ui.Separator()

	descStr := data.Description
	if descStr == "" {
		descStr = "None"
	}
	kind := "Regular"
	if data.Placeholder {
		kind = "Placeholder"
	}

	tableData := pterm.TableData{
		{pterm.Blue("Full Name"), data.FullName},
		{pterm.Blue("Type"), ui.TypeColor(data.Type, string(data.Type))},
		{pterm.Blue("Kind"), kind},
		{pterm.Blue("Currency"), data.Currency},
		{pterm.Blue("Opening Balance"), ui.Amount(data.Opening)},
		{pterm.Blue("Description"), descStr},
	}

	return pterm.DefaultTable.WithData(tableData).Render()
}

func RenderAccountSuccess(acc *model.Account) error {
	ui.Separator()

	tableData := pterm.TableData{
		{pterm.Blue("Account UID"), acc.UID},
		{pterm.Blue("Full Name"), acc.FullName},
	}

	if err := pterm.DefaultTable.WithData(tableData).Render(); err != nil {
		return err
	}

	pterm.Success.Print("Account created successfully!\n")

	return nil
}
