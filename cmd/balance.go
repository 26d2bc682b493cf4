package cmd

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hance08/keabook/internal/app"
	"github.com/hance08/keabook/internal/balance"
	"github.com/hance08/keabook/internal/ui"
	"github.com/hance08/keabook/internal/ui/views"
)

type balanceFlags struct {
	Currency string
	Start    string
	End      string
	All      bool
}

type balanceRunner struct {
	app   *app.App
	flags *balanceFlags
	cmd   *cobra.Command
}

func NewBalanceCmd(a *app.App) *cobra.Command {
	flags := &balanceFlags{}

	cmd := &cobra.Command{
		Use:   "balance [account]",
		Short: "Show account balances",
		Long: `Without an account, print the whole account tree with the balance of
each account and the total of its subtree in one currency.

With an account, print its balance over an optional date range and the total
of its subtree. Amounts without a price to the requested currency are left
out of the totals.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &balanceRunner{app: a, flags: flags, cmd: cmd}
			if len(args) == 0 {
				return runner.tree()
			}
			return runner.account(args[0])
		},
	}
	cmd.Flags().StringVar(&flags.Currency, "currency", "", "Currency of the totals, default is the book currency")
	cmd.Flags().StringVar(&flags.Start, "from", "", "First day included (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.End, "to", "", "Last day included (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&flags.All, "all", false, "Include hidden accounts")

	return cmd
}

func (r *balanceRunner) currency() string {
	if r.flags.Currency != "" {
		return strings.ToUpper(strings.TrimSpace(r.flags.Currency))
	}
	return r.app.Config.Defaults.Currency
}

func (r *balanceRunner) tree() error {
	end, err := ui.ParseDateBound(r.flags.End, true)
	if err != nil {
		return err
	}
	rows, err := r.app.Balances(r.cmd.Context(), r.currency(), end)
	if err != nil {
		return err
	}

	view := views.NewAccountTreeView(r.currency())
	view.ShowHidden = r.flags.All
	return view.Render(rows)
}

func (r *balanceRunner) account(ref string) error {
	ctx := r.cmd.Context()
	start, err := ui.ParseDateBound(r.flags.Start, false)
	if err != nil {
		return err
	}
	end, err := ui.ParseDateBound(r.flags.End, true)
	if err != nil {
		return err
	}

	acc, err := r.app.Service.Account.Resolve(ctx, ref)
	if err != nil {
		return err
	}
	agg := balance.New(r.app.Store, balance.WithBestEffort())
	own, err := agg.Balance(ctx, acc.UID, start, end)
	if err != nil {
		return err
	}
	total, err := agg.RecursiveBalanceAt(ctx, acc.UID, r.currency(), end)
	if err != nil {
		return err
	}

	tableData := pterm.TableData{
		{pterm.Blue("Account"), ui.TypeColor(acc.Type, acc.FullName)},
		{pterm.Blue("Type"), string(acc.Type)},
		{pterm.Blue("Balance"), own.String()},
		{pterm.Blue("Subtree Total"), total.String()},
	}
	return pterm.DefaultTable.WithData(tableData).Render()
}
