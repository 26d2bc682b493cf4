package views

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"

	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/ui"
)

func RenderTransactionDeletePreview(tx *model.Transaction) error {
	pterm.Warning.Printf("About to delete transaction %s:\n", tx.UID)

	deletionInfo := pterm.TableData{
		{"Date", tx.Timestamp.Local().Format(time.DateOnly)},
		{"Description", tx.Description},
		{"Splits", fmt.Sprint(len(tx.Splits))},
	}

	if err := pterm.DefaultTable.WithData(deletionInfo).Render(); err != nil {
		return err
	}
	pterm.Warning.Println("This action cannot be undone!")
	return nil
}

func RenderTransactionDeleteSuccess(uid string) {
	pterm.Success.Printf("Transaction %s deleted successfully\n", uid)
	ui.Separator()
}
