package transaction

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hance08/keabook/internal/app"
	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/ui"
	"github.com/hance08/keabook/internal/ui/views"
)

type addFlags struct {
	Desc     string
	Notes    string
	Currency string
	Date     string
	Splits   []string
}

type AddCommandRunner struct {
	app   *app.App
	flags *addFlags
	cmd   *cobra.Command
}

func NewAddCmd(a *app.App) *cobra.Command {
	flags := &addFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a transaction with any number of splits",
		Long: `Add a transaction from --split values of the form

  <amount>;<currency>;<account>;<DEBIT|CREDIT>[;<memo>]

The account is a full name or a UID. The splits must balance: the debits
equal the credits once converted into the transaction currency.`,
		Example: `  keabook tx add -d "Salary" \
    --split "3000;USD;Assets:Bank;DEBIT" \
    --split "3500;USD;Income:Salary;CREDIT" \
    --split "500;USD;Expenses:Tax;DEBIT;withholding"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &AddCommandRunner{app: a, flags: flags, cmd: cmd}
			return runner.Run()
		},
	}
	cmd.Flags().StringVarP(&flags.Desc, "desc", "d", "", "Transaction description")
	cmd.Flags().StringVar(&flags.Notes, "notes", "", "Transaction notes")
	cmd.Flags().StringVar(&flags.Currency, "currency", "", "Transaction currency, default is the book currency")
	cmd.Flags().StringVar(&flags.Date, "date", "", "Transaction date (YYYY-MM-DD), default is today")
	cmd.Flags().StringArrayVarP(&flags.Splits, "split", "s", nil, "Split as amount;currency;account;DEBIT|CREDIT[;memo], repeatable")
	_ = cmd.MarkFlagRequired("split")

	return cmd
}

func (r *AddCommandRunner) Run() error {
	ctx := r.cmd.Context()

	ts, err := ui.ParseDate(r.flags.Date, r.app.Now())
	if err != nil {
		return err
	}

	tx := model.NewTransaction(r.flags.Desc, r.flags.Currency, ts)
	tx.Notes = r.flags.Notes
	for _, raw := range r.flags.Splits {
		split, err := r.parseSplit(raw)
		if err != nil {
			return err
		}
		tx.AddSplit(split)
	}

	if err := r.app.Service.Transaction.Create(ctx, tx); err != nil {
		return err
	}

	pterm.Success.Printf("Transaction created successfully! (UID: %s)\n", tx.UID)
	index, err := accountIndex(r.cmd, r.app)
	if err != nil {
		return err
	}
	return views.RenderTransactionDetail(tx, index)
}

// parseSplit reads a split whose account field names the account instead of
// holding its UID.
func (r *AddCommandRunner) parseSplit(raw string) (*model.Split, error) {
	split, err := model.ParseSplit(raw)
	if err != nil {
		return nil, err
	}
	acc, err := r.app.Service.Account.Resolve(r.cmd.Context(), split.AccountUID)
	if err != nil {
		return nil, fmt.Errorf("split %q: %w", raw, err)
	}
	split.AccountUID = acc.UID
	return split, nil
}
