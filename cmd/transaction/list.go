package transaction

import (
	"github.com/spf13/cobra"

	"github.com/hance08/keabook/internal/app"
	"github.com/hance08/keabook/internal/ui"
	"github.com/hance08/keabook/internal/ui/views"
)

type ListCommandRunner struct {
	app   *app.App
	cmd   *cobra.Command
	limit int
	since string
}

func NewListCmd(a *app.App) *cobra.Command {
	runner := &ListCommandRunner{app: a}

	cmd := &cobra.Command{
		Use:     "list <account>",
		Aliases: []string{"ls", "register"},
		Short:   "List the register of an account",
		Long:    `List the splits of an account in date order with the running balance.`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner.cmd = cmd
			return runner.Run(args[0])
		},
	}
	cmd.Flags().IntVarP(&runner.limit, "limit", "l", 20, "Show the last N entries, 0 for all")
	cmd.Flags().StringVar(&runner.since, "since", "", "Only entries on or after this day (YYYY-MM-DD)")

	return cmd
}

func (r *ListCommandRunner) Run(ref string) error {
	since, err := ui.ParseDateBound(r.since, false)
	if err != nil {
		return err
	}
	acc, entries, err := r.app.Register(r.cmd.Context(), ref, since, r.limit)
	if err != nil {
		return err
	}
	return views.NewRegisterView().Render(acc, entries)
}
