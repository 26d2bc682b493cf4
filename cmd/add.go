package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hance08/keabook/internal/app"
	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/money"
	"github.com/hance08/keabook/internal/service"
	"github.com/hance08/keabook/internal/ui"
	"github.com/hance08/keabook/internal/ui/prompts"
	"github.com/hance08/keabook/internal/ui/views"
)

type addFlags struct {
	Desc      string
	Amount    string
	From      string
	To        string
	Memo      string
	Timestamp string
}

type addRunner struct {
	app   *app.App
	flags *addFlags
	cmd   *cobra.Command
}

func NewAddCmd(a *app.App) *cobra.Command {
	flags := &addFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a two-split transaction",
		Long: `Record money moving from one account to another.

The amount is credited to --from and debited to --to. Use flags for quick
entry or run without flags for guided input. Transactions with more than two
splits are added with 'keabook transaction add'.

Examples:
  # Interactive mode
  keabook add

  # Quick mode with flags
  keabook add --desc "Buy Coffee" --amount 4.50 --from "Assets:Cash" --to "Expenses:Coffee"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &addRunner{
				app:   a,
				flags: flags,
				cmd:   cmd,
			}
			return runner.Run()
		},
	}
	cmd.Flags().StringVarP(&flags.Desc, "desc", "d", "", "Transaction description")
	cmd.Flags().StringVarP(&flags.Amount, "amount", "a", "", "Transaction amount (e.g. 150, 150.50 or 1/3)")
	cmd.Flags().StringVarP(&flags.From, "from", "f", "", "Source account full name (credited)")
	cmd.Flags().StringVarP(&flags.To, "to", "t", "", "Destination account full name (debited)")
	cmd.Flags().StringVarP(&flags.Memo, "memo", "m", "", "Memo of both splits")
	cmd.Flags().StringVar(&flags.Timestamp, "date", "", "Transaction date (YYYY-MM-DD), default is today")

	return cmd
}

func (r *addRunner) Run() error {
	hasFlags := r.cmd.Flags().Changed("amount") ||
		r.cmd.Flags().Changed("from") ||
		r.cmd.Flags().Changed("to")

	var (
		entry service.QuickEntry
		err   error
	)
	if hasFlags {
		entry, err = r.flagsMode()
	} else {
		entry, err = r.interactiveMode()
	}
	if err != nil {
		return err
	}

	tx, err := r.app.Service.Transaction.Quick(r.cmd.Context(), entry)
	if err != nil {
		return err
	}

	pterm.Success.Printf("Transaction created successfully! (UID: %s)\n", tx.UID)
	return r.render(tx)
}

func (r *addRunner) flagsMode() (service.QuickEntry, error) {
	if r.flags.Amount == "" || r.flags.From == "" || r.flags.To == "" {
		return service.QuickEntry{}, fmt.Errorf("when using flags, --amount, --from, and --to are all required")
	}

	from, err := r.app.Service.Account.Resolve(r.cmd.Context(), r.flags.From)
	if err != nil {
		return service.QuickEntry{}, fmt.Errorf("invalid --from account '%s': %w", r.flags.From, err)
	}
	amount, err := money.Parse(r.flags.Amount, from.Currency)
	if err != nil {
		return service.QuickEntry{}, fmt.Errorf("invalid amount: %w", err)
	}
	ts, err := ui.ParseDate(r.flags.Timestamp, r.app.Now())
	if err != nil {
		return service.QuickEntry{}, err
	}

	return service.QuickEntry{
		Description: r.flags.Desc,
		Amount:      amount,
		From:        r.flags.From,
		To:          r.flags.To,
		Memo:        r.flags.Memo,
		Timestamp:   ts,
	}, nil
}

func (r *addRunner) interactiveMode() (service.QuickEntry, error) {
	ctx := r.cmd.Context()
	accounts, err := r.app.Service.Account.List(ctx)
	if err != nil {
		return service.QuickEntry{}, fmt.Errorf("failed to load accounts: %w", err)
	}

	from, err := prompts.PromptAccountSelection(accounts, "From Account (credited):", nil)
	if err != nil {
		return service.QuickEntry{}, err
	}
	to, err := prompts.PromptAccountSelection(accounts, "To Account (debited):", nil)
	if err != nil {
		return service.QuickEntry{}, err
	}
	if from == to {
		return service.QuickEntry{}, fmt.Errorf("source and destination are the same account '%s'", from)
	}

	src, err := r.app.Service.Account.Resolve(ctx, from)
	if err != nil {
		return service.QuickEntry{}, err
	}
	amount, err := prompts.PromptAmount(fmt.Sprintf("Amount (%s):", src.Currency), src.Currency)
	if err != nil {
		return service.QuickEntry{}, err
	}

	description, err := prompts.PromptDescription("Transaction description (optional):", false)
	if err != nil {
		return service.QuickEntry{}, err
	}
	ts, err := prompts.PromptDate("Transaction Date (YYYY-MM-DD):", r.app.Now())
	if err != nil {
		return service.QuickEntry{}, err
	}

	return service.QuickEntry{
		Description: description,
		Amount:      amount,
		From:        from,
		To:          to,
		Timestamp:   ts,
	}, nil
}

func (r *addRunner) render(tx *model.Transaction) error {
	names, err := accountIndex(r.cmd, r.app)
	if err != nil {
		return err
	}
	return views.RenderTransactionDetail(tx, names)
}

// accountIndex maps every account UID to its account for the views.
func accountIndex(cmd *cobra.Command, a *app.App) (map[string]*model.Account, error) {
	accounts, err := a.Store.Accounts(cmd.Context())
	if err != nil {
		return nil, err
	}
	index := make(map[string]*model.Account, len(accounts))
	for _, acc := range accounts {
		index[acc.UID] = acc
	}
	return index, nil
}
