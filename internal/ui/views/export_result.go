package views

import (
	"github.com/pterm/pterm"

	"github.com/hance08/keabook/internal/ui"
)

func RenderExportResult(format string, paths []string, marked bool) {
	if len(paths) == 0 {
		pterm.Info.Println("Nothing to export")
		return
	}

	items := make([]pterm.BulletListItem, 0, len(paths))
	for _, p := range paths {
		items = append(items, pterm.BulletListItem{Level: 0, Text: p})
	}

	pterm.Success.Printf("Exported %s to %d file(s):\n", format, len(paths))
	_ = pterm.DefaultBulletList.WithItems(items).Render()
	if marked {
		pterm.Info.Println("Written transactions are marked as exported")
	}
	ui.Separator()
}
