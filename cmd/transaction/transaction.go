package transaction

import (
	"github.com/spf13/cobra"

	"github.com/hance08/keabook/internal/app"
	"github.com/hance08/keabook/internal/model"
)

func NewTransactionCmd(a *app.App) *cobra.Command {
	transactionCmd := &cobra.Command{
		Use:     "transaction",
		Aliases: []string{"tx"},
		Short:   "Manage transactions",
		Long:    "Manage transactions: add multi-split entries, view details, list a register, edit, reconcile or delete.",
	}

	transactionCmd.AddCommand(NewAddCmd(a))
	transactionCmd.AddCommand(NewShowCmd(a))
	transactionCmd.AddCommand(NewListCmd(a))
	transactionCmd.AddCommand(NewEditCmd(a))
	transactionCmd.AddCommand(NewClearCmd(a))
	transactionCmd.AddCommand(NewDeleteCmd(a))

	return transactionCmd
}

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
