package transaction

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hance08/keabook/internal/app"
	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/ui"
)

func NewClearCmd(a *app.App) *cobra.Command {
	var reconcile, undo bool

	cmd := &cobra.Command{
		Use:   "clear <transaction-uid>",
		Short: "Mark transaction as cleared",
		Long: `Mark every split of a transaction as cleared, or as reconciled with
--reconcile. --undo puts the splits back to not reconciled.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			state, label := model.Cleared, "cleared"
			switch {
			case undo:
				state, label = model.NotReconciled, "not reconciled"
			case reconcile:
				state, label = model.Reconciled, "reconciled"
			}

			tx, err := a.Service.Transaction.Get(ctx, args[0])
			if err != nil {
				return err
			}
			for _, s := range tx.Splits {
				s.ReconcileState = state
			}
			if err := a.Service.Transaction.Update(ctx, tx); err != nil {
				return err
			}

			pterm.Success.Printf("Transaction %s marked as %s\n", tx.UID, label)
			ui.Separator()
			return nil
		},
	}
	cmd.Flags().BoolVar(&reconcile, "reconcile", false, "Mark the splits as reconciled")
	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the splits as not reconciled")
	cmd.MarkFlagsMutuallyExclusive("reconcile", "undo")

	return cmd
}
