package account

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hance08/keabook/internal/app"
	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/money"
	"github.com/hance08/keabook/internal/service"
	"github.com/hance08/keabook/internal/ui/prompts"
	"github.com/hance08/keabook/internal/ui/views"
	"github.com/hance08/keabook/internal/validation"
)

type createFlags struct {
	Name        string
	Type        string
	Parent      string
	Currency    string
	Balance     string
	Description string
	Placeholder bool
	Color       string
	Transfer    string
}

// AccountCreator collects the answers for one new account
type AccountCreator struct {
	app     *app.App
	cmd     *cobra.Command
	input   service.AccountInput
	opening money.Money
}

func NewCreateCmd(a *app.App) *cobra.Command {
	flags := &createFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new account.",
		Long: `Create a new account under ROOT or under a parent account.

Without flags the account is built through interactive prompts. Asset and
liability accounts can start with an opening balance, booked against
Equity:Opening Balances.

Example: keabook account create -t BANK -n Checking -p Assets -b 1000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			creator := &AccountCreator{app: a, cmd: cmd}

			hasFlags := cmd.Flags().Changed("name") ||
				cmd.Flags().Changed("type") ||
				cmd.Flags().Changed("parent")
			if hasFlags {
				return creator.FlagsMode(flags)
			}
			return creator.InteractiveMode()
		},
	}
	cmd.Flags().StringVarP(&flags.Name, "name", "n", "", "Account name (without parent prefix)")
	cmd.Flags().StringVarP(&flags.Type, "type", "t", "", "Account type, one of "+typeList()+" (defaults to the parent's type)")
	cmd.Flags().StringVarP(&flags.Parent, "parent", "p", "", "Parent account full name, empty for a top-level account")
	cmd.Flags().StringVar(&flags.Currency, "currency", "", "Currency code (defaults to parent's currency or config default)")
	cmd.Flags().StringVarP(&flags.Balance, "balance", "b", "", "Opening balance, for balance sheet accounts only")
	cmd.Flags().StringVarP(&flags.Description, "description", "d", "", "Account description (optional)")
	cmd.Flags().BoolVar(&flags.Placeholder, "placeholder", false, "Account only groups children and holds no splits")
	cmd.Flags().StringVar(&flags.Color, "color", "", "Display color as #rrggbb (optional)")
	cmd.Flags().StringVar(&flags.Transfer, "transfer", "", "Default transfer account full name (optional)")

	return cmd
}

// FlagsMode builds an account from command-line flags
func (ac *AccountCreator) FlagsMode(flags *createFlags) error {
	ctx := ac.cmd.Context()
	if flags.Name == "" {
		return fmt.Errorf("--name is required")
	}

	ac.input = service.AccountInput{
		Name:        flags.Name,
		Parent:      flags.Parent,
		Currency:    flags.Currency,
		Description: flags.Description,
		Placeholder: flags.Placeholder,
		Color:       flags.Color,

		DefaultTransferAccount: flags.Transfer,
	}

	var parent *model.Account
	if flags.Parent != "" {
		p, err := ac.app.Service.Account.Resolve(ctx, flags.Parent)
		if err != nil {
			return fmt.Errorf("invalid parent '%s': %w", flags.Parent, err)
		}
		parent = p
	}

	switch {
	case flags.Type != "":
		t, err := model.ParseAccountType(flags.Type)
		if err != nil {
			return err
		}
		ac.input.Type = t
	case parent != nil:
		ac.input.Type = parent.Type
	default:
		return fmt.Errorf("--type is required for a top-level account")
	}

	if ac.input.Currency == "" && parent != nil {
		ac.input.Currency = parent.Currency
	}

	if flags.Balance != "" {
		opening, err := money.Parse(flags.Balance, ac.currency())
		if err != nil {
			return fmt.Errorf("invalid opening balance: %w", err)
		}
		ac.opening = opening
	}

	acc, err := ac.Save()
	if err != nil {
		return err
	}

	if err := ac.displaySummary(); err != nil {
		return err
	}
	return views.RenderAccountSuccess(acc)
}

// InteractiveMode builds an account through interactive prompts
func (ac *AccountCreator) InteractiveMode() error {
	ctx := ac.cmd.Context()
	accounts, err := ac.app.Service.Account.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve accounts: %w", err)
	}

	// Step 1: parent account, or top level
	parent, err := prompts.PromptParentAccount(accounts)
	if err != nil {
		return err
	}

	// Step 2: account type, inherited from the parent when there is one
	typ := model.TypeBank
	if parent != nil {
		typ = parent.Type
	} else if typ, err = prompts.PromptAccountType(); err != nil {
		return err
	}

	// Step 3: account name
	name, err := prompts.PromptAccountName(validation.NewAccountNameValidator(parent, accounts))
	if err != nil {
		return err
	}

	// Step 4: currency
	defaultCurrency := ac.app.Config.Defaults.Currency
	if parent != nil {
		defaultCurrency = parent.Currency
	}
	currency, err := prompts.PromptCurrency(defaultCurrency, parent != nil)
	if err != nil {
		return err
	}

	ac.input = service.AccountInput{Name: name, Type: typ, Currency: currency}
	if parent != nil {
		ac.input.Parent = parent.UID
	}

	// Step 5: opening balance
	if opensWithBalance(typ) {
		if ac.opening, err = prompts.PromptOpeningBalance(currency); err != nil {
			return err
		}
	}

	// Step 6: description
	if ac.input.Description, err = prompts.PromptDescription("Description (optional):", false); err != nil {
		return err
	}

	if err := ac.displaySummary(); err != nil {
		return err
	}

	confirm, err := prompts.PromptConfirm("Proceed with account creation?", true)
	if err != nil {
		return err
	}
	if !confirm {
		return fmt.Errorf("account creation cancelled")
	}

	acc, err := ac.Save()
	if err != nil {
		return err
	}
	return views.RenderAccountSuccess(acc)
}

// Save creates the account and books the opening balance, if any.
func (ac *AccountCreator) Save() (*model.Account, error) {
	ctx := ac.cmd.Context()

	acc, err := ac.app.Service.Account.Create(ctx, ac.input)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if ac.opening.Currency() != "" && !ac.opening.IsZero() {
		if _, err := ac.app.Service.Transaction.SetOpeningBalance(ctx, acc.UID, ac.opening, ac.app.Now()); err != nil {
			pterm.Warning.Printf("Account '%s' was created but its opening balance was not set\n", acc.FullName)
			return nil, fmt.Errorf("failed to set balance: %w", err)
		}
	}

	return acc, nil
}

func (ac *AccountCreator) currency() string {
	if ac.input.Currency != "" {
		return strings.ToUpper(ac.input.Currency)
	}
	return ac.app.Config.Defaults.Currency
}

func (ac *AccountCreator) displaySummary() error {
	fullName := ac.input.Name
	if ac.input.Parent != "" {
		if parent, err := ac.app.Service.Account.Resolve(ac.cmd.Context(), ac.input.Parent); err == nil {
			fullName = model.BuildFullName(parent, ac.input.Name)
		}
	}

	return views.RenderAccountSummary(views.AccountSummaryItem{
		FullName:    fullName,
		Type:        ac.input.Type,
		Currency:    ac.currency(),
		Opening:     ac.opening,
		Placeholder: ac.input.Placeholder,
		Description: ac.input.Description,
	})
}

// opensWithBalance lists the types that accept an opening balance.
func opensWithBalance(t model.AccountType) bool {
	switch t {
	case model.TypeIncome, model.TypeExpense, model.TypeEquity, model.TypeRoot:
		return false
	}
	return true
}

func typeList() string {
	names := make([]string, 0, len(model.AccountTypes))
	for _, t := range model.AccountTypes {
		if t != model.TypeRoot {
			names = append(names, string(t))
		}
	}
	return strings.Join(names, ", ")
}
