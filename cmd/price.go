package cmd

import (
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hance08/keabook/internal/app"
	"github.com/hance08/keabook/internal/ui"
)

type priceAddRunner struct {
	app  *app.App
	date string
	cmd  *cobra.Command
}

func NewPriceCmd(a *app.App) *cobra.Command {
	priceCmd := &cobra.Command{
		Use:   "price",
		Short: "Record and list exchange rates between commodities",
		Long: `Prices convert amounts between commodities. One price serves both
directions, so "price add EUR USD 1.10" also converts USD into EUR.`,
	}

	add := &priceAddRunner{app: a}
	addCmd := &cobra.Command{
		Use:     "add <commodity> <currency> <rate>",
		Short:   "Record the value of one unit of commodity in currency",
		Example: "  keabook price add EUR USD 1.10\n  keabook price add USD TWD 32.5 --date 2025-01-10",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			add.cmd = cmd
			return add.Run(args)
		},
	}
	addCmd.Flags().StringVar(&add.date, "date", "", "Price date (YYYY-MM-DD), default is today")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the recorded prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listPrices(cmd, a)
		},
	}

	priceCmd.AddCommand(addCmd, listCmd)
	return priceCmd
}

func (r *priceAddRunner) Run(args []string) error {
	at, err := ui.ParseDate(r.date, r.app.Now())
	if err != nil {
		return err
	}
	p, err := r.app.Service.Price.Add(r.cmd.Context(), args[0], args[1], args[2], at)
	if err != nil {
		return err
	}
	pterm.Success.Printf("1 %s = %s %s (%d/%d)\n", p.Commodity, p.Rate().FloatString(6), p.Currency, p.ValueNum, p.ValueDenom)
	return nil
}

func listPrices(cmd *cobra.Command, a *app.App) error {
	prices, err := a.Service.Price.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(prices) == 0 {
		pterm.Info.Println("No prices recorded")
		return nil
	}

	tableData := pterm.TableData{{"Date", "Commodity", "Currency", "Rate", "Exact"}}
	for _, p := range prices {
		tableData = append(tableData, []string{
			p.Timestamp.Local().Format(time.DateOnly),
			p.Commodity,
			p.Currency,
			p.Rate().FloatString(6),
			pterm.Gray(p.Rate().RatString()),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}
