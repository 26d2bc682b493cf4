package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hance08/keabook/cmd/account"
	"github.com/hance08/keabook/cmd/transaction"
	"github.com/hance08/keabook/internal/app"
	"github.com/hance08/keabook/internal/config"
	"github.com/hance08/keabook/internal/errhandler"
	"github.com/hance08/keabook/internal/logging"
	"github.com/hance08/keabook/internal/service"
)

// skipInit marks commands that run on a ledger without a ROOT account.
const skipInit = "keabook/skip-init"

type rootFlags struct {
	cfgFile  string
	logLevel string
}

func Execute(migrations fs.FS) {
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " ERROR ",
		Style: pterm.NewStyle(pterm.BgLightRed, pterm.FgBlack),
	}

	flags := &rootFlags{}
	v := viper.New()
	application := &app.App{}
	var cleanup func()

	rootCmd := &cobra.Command{
		Use:   config.AppName,
		Short: "keabook is a double-entry bookkeeping CLI that exports to GnuCash, QIF and OFX",
		Long: `keabook keeps a double-entry ledger in a local SQLite database.

Accounts form a tree under a single root, every transaction balances, and the
book can be exported as GnuCash XML, QIF or OFX at any time.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, flags)
			if err != nil {
				return err
			}

			logger := logging.New(os.Stderr, cfg.Log.Level)
			cmd.SetContext(logging.Attach(cmd.Context(), logger))

			if cleanup, err = application.Open(cfg, migrations); err != nil {
				return err
			}
			if cmd.Annotations[skipInit] == "true" {
				return nil
			}
			return ensureRoot(cmd.Context(), application)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.cfgFile, "config", "c", "", "set the config file path")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override the log level (debug, info, warn, error)")

	rootCmd.AddCommand(account.NewAccountCmd(application))
	rootCmd.AddCommand(transaction.NewTransactionCmd(application))

	rootCmd.AddCommand(NewInitCmd(application, v))
	rootCmd.AddCommand(NewInfoCmd(application))
	rootCmd.AddCommand(NewAddCmd(application))
	rootCmd.AddCommand(NewPriceCmd(application))
	rootCmd.AddCommand(NewBalanceCmd(application))
	rootCmd.AddCommand(NewExportCmd(application))

	err := rootCmd.ExecuteContext(context.Background())
	if cleanup != nil {
		cleanup()
	}
	if err != nil {
		errhandler.HandleError(err)
	}
}

func loadConfig(v *viper.Viper, flags *rootFlags) (*config.Config, error) {
	appDir, err := config.AppDataDir()
	if err != nil {
		return nil, fmt.Errorf("error getting app dir: %w", err)
	}

	cfg, err := config.Load(v, flags.cfgFile, appDir)
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	return cfg, nil
}

// ensureRoot creates the account tree with the configured currency the
// first time a command touches the ledger.
func ensureRoot(ctx context.Context, a *app.App) error {
	_, err := a.Service.Account.Root(ctx)
	if !errors.Is(err, service.ErrNotInitialized) {
		return err
	}

	root, err := a.Service.Account.InitRoot(ctx, a.Config.Defaults.Currency)
	if err != nil {
		return fmt.Errorf("failed to initialize the ledger: %w", err)
	}
	zerolog.Ctx(ctx).Info().Str("currency", root.Currency).Msg("ledger initialized")
	pterm.Info.Printf("Initialized a new book in %s\n", root.Currency)
	return nil
}
