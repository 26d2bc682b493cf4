package account

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hance08/keabook/internal/app"
)

func NewRenameCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <account> <new-name>",
		Short: "Rename an account and update the full names below it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			acc, err := a.Service.Account.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.Service.Account.Rename(ctx, acc.UID, args[1]); err != nil {
				return err
			}
			pterm.Success.Printf("Account '%s' renamed to '%s'\n", acc.FullName, args[1])
			return nil
		},
	}
}

func NewMoveCmd(a *app.App) *cobra.Command {
	var top bool

	cmd := &cobra.Command{
		Use:   "move <account> [new-parent]",
		Short: "Move an account with its subtree below another parent",
		Example: `  keabook account move Checking Assets:Bank
  keabook account move Assets:Bank:Checking --top`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			acc, err := a.Service.Account.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			newParent := ""
			if len(args) == 2 {
				newParent = args[1]
			} else if !top {
				return fmt.Errorf("give the new parent or --top")
			}
			if err := a.Service.Account.Move(ctx, acc.UID, newParent); err != nil {
				return err
			}

			moved, err := a.Store.Account(ctx, acc.UID)
			if err != nil {
				return err
			}
			pterm.Success.Printf("Account '%s' is now '%s'\n", acc.FullName, moved.FullName)
			return nil
		},
	}
	cmd.Flags().BoolVar(&top, "top", false, "Move the account to the top level")

	return cmd
}

func NewPlaceholderCmd(a *app.App) *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "placeholder <account>",
		Short: "Mark an account as a placeholder that only groups children",
		Long: `Mark an account as a placeholder. Placeholders can't receive splits, so an
account that already has some is refused. Use --off to clear the flag.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			acc, err := a.Service.Account.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.Service.Account.SetPlaceholder(ctx, acc.UID, !off); err != nil {
				return err
			}
			if off {
				pterm.Success.Printf("Account '%s' accepts splits again\n", acc.FullName)
			} else {
				pterm.Success.Printf("Account '%s' is now a placeholder\n", acc.FullName)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&off, "off", false, "Clear the placeholder flag")

	return cmd
}
