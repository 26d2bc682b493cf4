package account

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hance08/keabook/internal/app"
)

func NewVerifyCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check the account tree for inconsistencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.Service.Account.Verify(cmd.Context())
			if err == nil {
				pterm.Success.Println("The account tree is consistent")
				return nil
			}

			var merr *multierror.Error
			if !errors.As(err, &merr) {
				return err
			}
			for _, e := range merr.Errors {
				pterm.Error.Println(e)
			}
			return fmt.Errorf("%d problems found in the account tree", len(merr.Errors))
		},
	}
}
