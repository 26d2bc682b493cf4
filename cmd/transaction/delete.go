package transaction

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hance08/keabook/internal/app"
	"github.com/hance08/keabook/internal/ui"
	"github.com/hance08/keabook/internal/ui/views"
)

type DeleteCommandRunner struct {
	app *app.App
	cmd *cobra.Command
	yes bool
}

func NewDeleteCmd(a *app.App) *cobra.Command {
	runner := &DeleteCommandRunner{app: a}

	cmd := &cobra.Command{
		Use:   "delete <transaction-uid>",
		Short: "Delete a transaction",
		Long:  `Delete a transaction and all its splits. Reconciled transactions can't be deleted. This action cannot be undone.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner.cmd = cmd
			return runner.Run(args[0])
		},
	}
	cmd.Flags().BoolVarP(&runner.yes, "yes", "y", false, "Delete without asking")

	return cmd
}

func (r *DeleteCommandRunner) Run(uid string) error {
	ctx := r.cmd.Context()

	// Get transaction details first to show what will be deleted
	tx, err := r.app.Service.Transaction.Get(ctx, uid)
	if err != nil {
		return err
	}

	if !r.yes {
		if err := views.RenderTransactionDeletePreview(tx); err != nil {
			return err
		}
		ok, err := ui.Confirm("Do you want to delete this transaction?")
		if err != nil {
			return err
		}
		if !ok {
			pterm.Info.Println("Deletion cancelled")
			return nil
		}
	}

	if err := r.app.Service.Transaction.Delete(ctx, tx.UID); err != nil {
		return err
	}

	views.RenderTransactionDeleteSuccess(tx.UID)
	return nil
}
