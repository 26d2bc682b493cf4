package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hance08/keabook/internal/app"
	"github.com/hance08/keabook/internal/config"
	"github.com/hance08/keabook/internal/store"
	"github.com/hance08/keabook/internal/ui/views"
)

type infoRunner struct {
	app *app.App
	cmd *cobra.Command
}

func NewInfoCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:         "info",
		Short:       "Display application information",
		Long:        `Display current configuration, database path, and system details.`,
		Annotations: map[string]string{skipInit: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &infoRunner{
				app: a,
				cmd: cmd,
			}

			return runner.Run()
		},
	}
}

func (r *infoRunner) Run() error {
	ctx := r.cmd.Context()
	cfg := r.app.Config

	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = "(None, using defaults)"
	}

	dbExists := false
	if _, err := os.Stat(cfg.Database.Path); err == nil {
		dbExists = true
	}

	accounts, err := r.app.Service.Account.List(ctx)
	if err != nil {
		return err
	}
	txCount, err := r.app.Store.CountTransactions(ctx, store.RowFilter{})
	if err != nil {
		return err
	}

	items := views.SystemInfoItem{
		ConfigPath:      configPath,
		DBPath:          cfg.Database.Path,
		DBExists:        dbExists,
		DefaultCurrency: cfg.Defaults.Currency,
		AppDataDir:      appDataDirOrUnknown(),
		ExportDir:       cfg.Export.Dir,
		LogLevel:        cfg.Log.Level,
		Accounts:        len(accounts),
		Transactions:    txCount,
	}

	return views.RenderSystemInfo(items)
}

func appDataDirOrUnknown() string {
	dir, err := config.AppDataDir()
	if err != nil {
		return "Unknown"
	}
	return dir
}
