package transaction

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hance08/keabook/internal/app"
	"github.com/hance08/keabook/internal/ui"
	"github.com/hance08/keabook/internal/ui/prompts"
	"github.com/hance08/keabook/internal/ui/views"
)

type editFlags struct {
	Desc  string
	Notes string
	Date  string
}

type EditCommandRunner struct {
	app   *app.App
	flags *editFlags
	cmd   *cobra.Command
}

func NewEditCmd(a *app.App) *cobra.Command {
	flags := &editFlags{}

	cmd := &cobra.Command{
		Use:   "edit <transaction-uid>",
		Short: "Edit a transaction",
		Long: `Edit the description, notes or date of a transaction. Without flags the
fields are asked interactively. An edited transaction is exported again by
the next incremental export.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &EditCommandRunner{app: a, flags: flags, cmd: cmd}
			return runner.Run(args[0])
		},
	}
	cmd.Flags().StringVarP(&flags.Desc, "desc", "d", "", "New description")
	cmd.Flags().StringVar(&flags.Notes, "notes", "", "New notes")
	cmd.Flags().StringVar(&flags.Date, "date", "", "New date (YYYY-MM-DD)")

	return cmd
}

func (r *EditCommandRunner) Run(uid string) error {
	ctx := r.cmd.Context()

	tx, err := r.app.Service.Transaction.Get(ctx, uid)
	if err != nil {
		return err
	}

	changed := r.cmd.Flags().Changed
	if changed("desc") || changed("notes") || changed("date") {
		if changed("desc") {
			tx.Description = r.flags.Desc
		}
		if changed("notes") {
			tx.Notes = r.flags.Notes
		}
		if changed("date") {
			if tx.Timestamp, err = ui.ParseDate(r.flags.Date, tx.Timestamp); err != nil {
				return err
			}
		}
	} else {
		pterm.DefaultSection.Printf("Editing Transaction %s", tx.UID)
		desc, err := prompts.PromptInput("Description:", tx.Description, nil)
		if err != nil {
			return err
		}
		ts, err := prompts.PromptDate("Date (YYYY-MM-DD):", tx.Timestamp)
		if err != nil {
			return err
		}
		tx.Description, tx.Timestamp = desc, ts
	}

	if err := r.app.Service.Transaction.Update(ctx, tx); err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	pterm.Success.Printf("Transaction %s updated\n", tx.UID)
	index, err := accountIndex(r.cmd, r.app)
	if err != nil {
		return err
	}
	return views.RenderTransactionDetail(tx, index)
}
