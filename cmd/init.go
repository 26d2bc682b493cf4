package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hance08/keabook/internal/app"
	"github.com/hance08/keabook/internal/money"
	"github.com/hance08/keabook/internal/service"
	"github.com/hance08/keabook/internal/ui/prompts"
)

type initRunner struct {
	app      *app.App
	v        *viper.Viper
	currency string
	cmd      *cobra.Command
}

func NewInitCmd(a *app.App, v *viper.Viper) *cobra.Command {
	runner := &initRunner{app: a, v: v}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the account tree of a new book",
		Long: `Create the root account and the Equity:Opening Balances account.

The currency is asked interactively unless --currency is given, and it is
saved as the default currency in the config file.`,
		Annotations: map[string]string{skipInit: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			runner.cmd = cmd
			return runner.Run()
		},
	}
	cmd.Flags().StringVar(&runner.currency, "currency", "", "ISO 4217 currency of the book")

	return cmd
}

func (r *initRunner) Run() error {
	ctx := r.cmd.Context()

	root, err := r.app.Service.Account.Root(ctx)
	if err == nil {
		pterm.Info.Printf("The book is already initialized in %s\n", root.Currency)
		return nil
	}
	if !errors.Is(err, service.ErrNotInitialized) {
		return err
	}

	currency := strings.ToUpper(strings.TrimSpace(r.currency))
	if currency == "" {
		if currency, err = prompts.PromptInitCurrency(r.app.Config.Defaults.Currency); err != nil {
			return err
		}
	}
	if !money.IsCurrency(currency) {
		return fmt.Errorf("'%s' is not an ISO 4217 currency", currency)
	}

	if currency != r.app.Config.Defaults.Currency {
		if err := r.saveCurrency(currency); err != nil {
			return err
		}
	}

	root, err = r.app.Service.Account.InitRoot(ctx, currency)
	if err != nil {
		return err
	}
	pterm.Success.Printf("Book initialized. Default currency set to: %s\n", root.Currency)
	return nil
}

func (r *initRunner) saveCurrency(currency string) error {
	r.app.Config.Defaults.Currency = currency
	if r.app.Config.ConfigPath == "" {
		return nil
	}

	r.v.Set("defaults.currency", currency)
	if err := r.v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to save config to file: %w", err)
	}
	return nil
}
