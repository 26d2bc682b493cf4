package transaction

import (
	"github.com/spf13/cobra"

	"github.com/hance08/keabook/internal/app"
	"github.com/hance08/keabook/internal/ui/views"
)

type ShowCommandRunner struct {
	app *app.App
	cmd *cobra.Command
}

func NewShowCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <transaction-uid>",
		Short: "Show transaction details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &ShowCommandRunner{
				app: a,
				cmd: cmd,
			}
			return runner.Run(args)
		},
	}
}

func (r *ShowCommandRunner) Run(args []string) error {
	tx, err := r.app.Service.Transaction.Get(r.cmd.Context(), args[0])
	if err != nil {
		return err
	}

	index, err := accountIndex(r.cmd, r.app)
	if err != nil {
		return err
	}
	return views.RenderTransactionDetail(tx, index)
}
