package model

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AccountSeparator joins account names into a full name.
const AccountSeparator = ":"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Account is one node of the chart of accounts. Optional references are
// empty strings when unset.
type Account struct {
	UID                       string      `validate:"required"`
	Name                      string      `validate:"required,max=100,excludes=:"`
	FullName                  string      `validate:"-"`
	Type                      AccountType `validate:"required"`
	Currency                  string      `validate:"required,alphanum,uppercase,max=10"`
	ParentUID                 string      `validate:"-"`
	Description               string      `validate:"max=500"`
	Placeholder               bool        `validate:"-"`
	Favorite                  bool        `validate:"-"`
	Hidden                    bool        `validate:"-"`
	Color                     string      `validate:"omitempty,hexcolor"`
	DefaultTransferAccountUID string      `validate:"-"`
}

// NewAccount returns an account with a fresh UID. The currency is always
// explicit, there is no ambient default.
func NewAccount(name string, typ AccountType, currency string) *Account {
	return &Account{
		UID:      NewUID(),
		Name:     strings.TrimSpace(name),
		Type:     typ,
		Currency: strings.ToUpper(strings.TrimSpace(currency)),
	}
}

// IsRoot reports whether the account is the top of the tree.
func (a *Account) IsRoot() bool { return a.Type == TypeRoot }

// Validate checks the account fields on their own. Tree-level rules (parent
// existence, cycles) are checked by the account service.
func (a *Account) Validate() error {
	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("account '%s': %w", a.Name, err)
	}
	if !a.Type.Valid() {
		return fmt.Errorf("account '%s': invalid account type '%s'", a.Name, a.Type)
	}
	if a.IsRoot() && a.ParentUID != "" {
		return fmt.Errorf("account '%s': ROOT account can't have a parent", a.Name)
	}
	if !a.IsRoot() && a.ParentUID == a.UID && a.UID != "" {
		return fmt.Errorf("account '%s': account can't be its own parent", a.Name)
	}
	return nil
}

// BuildFullName joins the parent full name and the account name. The ROOT
// account is never part of a full name.
func BuildFullName(parent *Account, name string) string {
	if parent == nil || parent.IsRoot() || parent.FullName == "" {
		return name
	}
	return parent.FullName + AccountSeparator + name
}
