package account

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hance08/keabook/internal/app"
	"github.com/hance08/keabook/internal/ui"
)

type deleteRunner struct {
	app    *app.App
	cmd    *cobra.Command
	moveTo string
	yes    bool
}

func NewDeleteCmd(a *app.App) *cobra.Command {
	runner := &deleteRunner{app: a}

	cmd := &cobra.Command{
		Use:   "delete <account>",
		Short: "Delete an account",
		Long: `Delete an account. Its children move up to its parent. An account with
splits needs --move-to, an account in the same currency that takes them over.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner.cmd = cmd
			return runner.Run(args[0])
		},
	}
	cmd.Flags().StringVar(&runner.moveTo, "move-to", "", "Account receiving the splits of the deleted account")
	cmd.Flags().BoolVarP(&runner.yes, "yes", "y", false, "Delete without asking")

	return cmd
}

func (r *deleteRunner) Run(ref string) error {
	ctx := r.cmd.Context()
	acc, err := r.app.Service.Account.Resolve(ctx, ref)
	if err != nil {
		return err
	}
	n, err := r.app.Store.CountSplits(ctx, acc.UID)
	if err != nil {
		return err
	}

	if !r.yes {
		pterm.Warning.Printf("About to delete '%s' (%d splits)\n", acc.FullName, n)
		ok, err := ui.Confirm("Do you want to delete this account?")
		if err != nil {
			return err
		}
		if !ok {
			pterm.Info.Println("Deletion cancelled")
			return nil
		}
	}

	if err := r.app.Service.Account.Delete(ctx, acc.UID, r.moveTo); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	pterm.Success.Printf("Account '%s' deleted\n", acc.FullName)
	if n > 0 {
		pterm.Info.Printf("%d splits moved to '%s'\n", n, r.moveTo)
	}
	ui.Separator()
	return nil
}
