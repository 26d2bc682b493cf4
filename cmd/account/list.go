package account

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hance08/keabook/internal/app"
	"github.com/hance08/keabook/internal/ui"
)

type listRunner struct {
	app     *app.App
	cmd     *cobra.Command
	all     bool
	typ     string
	pattern string
}

func NewListCmd(a *app.App) *cobra.Command {
	runner := &listRunner{app: a}

	cmd := &cobra.Command{
		Use:     "list [pattern]",
		Aliases: []string{"ls"},
		Short:   "List accounts by full name",
		Long: `List accounts ordered by full name. A pattern keeps the accounts whose
full name contains it, ignoring case. Use 'keabook balance' for the tree with
balances.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner.cmd = cmd
			if len(args) == 1 {
				runner.pattern = args[0]
			}
			return runner.Run()
		},
	}
	cmd.Flags().BoolVar(&runner.all, "all", false, "Include hidden accounts")
	cmd.Flags().StringVarP(&runner.typ, "type", "t", "", "Only accounts of this type")

	return cmd
}

func (r *listRunner) Run() error {
	accounts, err := r.app.Service.Account.List(r.cmd.Context())
	if err != nil {
		return err
	}

	pattern := strings.ToLower(r.pattern)
	tableData := pterm.TableData{{"Full Name", "Type", "Currency", "Flags", "UID"}}
	for _, acc := range accounts {
		switch {
		case acc.Hidden && !r.all:
			continue
		case r.typ != "" && !strings.EqualFold(string(acc.Type), r.typ):
			continue
		case pattern != "" && !strings.Contains(strings.ToLower(acc.FullName), pattern):
			continue
		}

		var flags []string
		if acc.Placeholder {
			flags = append(flags, "placeholder")
		}
		if acc.Hidden {
			flags = append(flags, "hidden")
		}
		if acc.Favorite {
			flags = append(flags, "favorite")
		}
		tableData = append(tableData, []string{
			ui.TypeColor(acc.Type, acc.FullName),
			string(acc.Type),
			acc.Currency,
			strings.Join(flags, ","),
			pterm.Gray(acc.UID),
		})
	}

	pterm.DefaultSection.Printf("Account List")
	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}
	pterm.Info.Printf("Total: %d accounts\n", len(tableData)-1)
	return nil
}
