package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/hance08/keabook/internal/app"
	"github.com/hance08/keabook/internal/export"
	"github.com/hance08/keabook/internal/ui"
	"github.com/hance08/keabook/internal/ui/views"
)

type exportFlags struct {
	Since        string
	All          bool
	MarkExported bool
	Name         string
	Force        bool
}

type exportRunner struct {
	app    *app.App
	format app.Format
	flags  *exportFlags
	cmd    *cobra.Command
}

func NewExportCmd(a *app.App) *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the book as GnuCash XML, QIF or OFX",
		Long: `Export the book into the configured export directory.

GnuCash XML always holds the whole book. QIF and OFX take the transactions
not yet marked by an earlier --mark-exported run, optionally starting at
--since. --all takes every transaction and ignores --since.`,
	}

	for _, f := range []struct {
		format app.Format
		short  string
	}{
		{app.FormatXML, "Export a GnuCash XML book"},
		{app.FormatQIF, "Export Quicken Interchange Format files, one per currency"},
		{app.FormatOFX, "Export an Open Financial Exchange statement"},
	} {
		exportCmd.AddCommand(newExportFormatCmd(a, f.format, f.short))
	}
	return exportCmd
}

func newExportFormatCmd(a *app.App, format app.Format, short string) *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   string(format),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &exportRunner{app: a, format: format, flags: flags, cmd: cmd}
			return runner.Run()
		},
	}
	cmd.Flags().StringVar(&flags.Since, "since", "", "Only transactions on or after this day (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&flags.All, "all", false, "Export every transaction, ignoring --since and earlier exports")
	cmd.Flags().BoolVar(&flags.MarkExported, "mark-exported", false, "Flag the written transactions as exported")
	cmd.Flags().StringVarP(&flags.Name, "name", "n", "", "Output file name inside the export directory")
	cmd.Flags().BoolVarP(&flags.Force, "force", "y", false, "Overwrite an existing file without asking")

	return cmd
}

func (r *exportRunner) Run() error {
	since, err := ui.ParseDate(r.flags.Since, time.Time{})
	if err != nil {
		return err
	}

	req := app.ExportRequest{
		Format: r.format,
		Name:   r.flags.Name,
		Options: export.Options{
			Since:        since,
			All:          r.flags.All,
			MarkExported: r.flags.MarkExported,
		},
	}
	if req.Name == "" {
		req.Name = r.format.DefaultName(r.app.Config.Export.Gzip)
	}

	if !r.flags.Force {
		req.Overwrite = confirmOverwrite
	}

	paths, err := r.app.Export(r.cmd.Context(), req)
	if err != nil {
		return err
	}
	views.RenderExportResult(string(r.format), paths, r.flags.MarkExported)
	return nil
}

// confirmOverwrite asks before an export replaces path. A multi-currency
// QIF export asks once for every file it would replace.
func confirmOverwrite(path string) (bool, error) {
	return ui.Confirm("%s already exists. Overwrite it?", path)
}
