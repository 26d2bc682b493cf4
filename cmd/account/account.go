package account

import (
	"github.com/spf13/cobra"

	"github.com/hance08/keabook/internal/app"
)

func NewAccountCmd(a *app.App) *cobra.Command {
	accountCmd := &cobra.Command{
		Use:     "account",
		Aliases: []string{"acc"},
		Short:   "Create, edit, delete accounts and show the list of all accounts.",
		Long: `Create, edit, delete accounts and show the list of all accounts.

Accounts are addressed by their full name, e.g. "Assets:Bank:Checking", or
by their UID.`,
	}

	accountCmd.AddCommand(NewCreateCmd(a))
	accountCmd.AddCommand(NewListCmd(a))
	accountCmd.AddCommand(NewRenameCmd(a))
	accountCmd.AddCommand(NewMoveCmd(a))
	accountCmd.AddCommand(NewPlaceholderCmd(a))
	accountCmd.AddCommand(NewDeleteCmd(a))
	accountCmd.AddCommand(NewVerifyCmd(a))

	return accountCmd
}
