package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/store"
)

type AccountService struct {
	repo   store.Repository
	config Config
}

func NewAccountService(repo store.Repository, cfg Config) *AccountService {
	return &AccountService{repo: repo, config: cfg}
}

// AccountInput describes a new account. An empty Parent places it directly
// below ROOT; an empty Currency takes the configured default.
// DefaultTransferAccount is resolved like Parent, by full name or UID.
type AccountInput struct {
	Name                   string
	Type                   model.AccountType
	Currency               string
	Parent                 string
	Description            string
	Placeholder            bool
	Favorite               bool
	Hidden                 bool
	Color                  string
	DefaultTransferAccount string
}

// InitRoot creates the ROOT account and the opening balance account. It is
// a no-op on an initialized ledger.
func (as *AccountService) InitRoot(ctx context.Context, currency string) (*model.Account, error) {
	if currency == "" {
		currency = as.config.DefaultCurrency
	}
	currency = strings.ToUpper(currency)

	var root *model.Account
	err := as.repo.ExecTx(ctx, func(repo store.Repository) error {
		existing, err := repo.RootAccount(ctx)
		if err == nil {
			root = existing
			return nil
		}
		if !errors.Is(err, store.ErrRecordNotFound) {
			return err
		}

		root = model.NewAccount(RootAccountName, model.TypeRoot, currency)
		if err := root.Validate(); err != nil {
			return err
		}
		if err := repo.CreateAccount(ctx, root); err != nil {
			return err
		}

		equity := model.NewAccount(EquityAccountName, model.TypeEquity, currency)
		equity.ParentUID = root.UID
		equity.FullName = model.BuildFullName(root, equity.Name)
		equity.Placeholder = true
		if err := repo.CreateAccount(ctx, equity); err != nil {
			return err
		}

		opening := model.NewAccount(OpeningBalanceAccountName, model.TypeEquity, currency)
		opening.ParentUID = equity.UID
		opening.FullName = model.BuildFullName(equity, opening.Name)
		return repo.CreateAccount(ctx, opening)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ledger: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("root", root.UID).Str("currency", root.Currency).Msg("ledger initialized")
	return root, nil
}

func (as *AccountService) Create(ctx context.Context, in AccountInput) (*model.Account, error) {
	if in.Type == model.TypeRoot {
		return nil, fmt.Errorf("account '%s': %w", in.Name, ErrRootAccount)
	}
	currency := in.Currency
	if currency == "" {
		currency = as.config.DefaultCurrency
	}

	parent, err := as.parent(ctx, as.repo, in.Parent)
	if err != nil {
		return nil, err
	}

	acc := model.NewAccount(in.Name, in.Type, currency)
	acc.ParentUID = parent.UID
	acc.FullName = model.BuildFullName(parent, acc.Name)
	acc.Description = strings.TrimSpace(in.Description)
	acc.Placeholder = in.Placeholder
	acc.Favorite = in.Favorite
	acc.Hidden = in.Hidden
	acc.Color = in.Color
	if in.DefaultTransferAccount != "" {
		transfer, err := resolve(ctx, as.repo, in.DefaultTransferAccount)
		if err != nil {
			return nil, fmt.Errorf("default transfer account: %w", err)
		}
		if transfer.IsRoot() {
			return nil, fmt.Errorf("default transfer account: %w: %w", ErrRootAccount, model.ErrInvalidAccountReference)
		}
		acc.DefaultTransferAccountUID = transfer.UID
	}
	if err := acc.Validate(); err != nil {
		return nil, err
	}

	if err := as.repo.CreateAccount(ctx, acc); err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Debug().Str("account", acc.FullName).Str("uid", acc.UID).Msg("account created")
	return acc, nil
}

// Resolve finds an account by UID or by full name.
func (as *AccountService) Resolve(ctx context.Context, ref string) (*model.Account, error) {
	return resolve(ctx, as.repo, ref)
}

func resolve(ctx context.Context, gw store.Repository, ref string) (*model.Account, error) {
	ref = strings.TrimSpace(ref)
	acc, err := gw.AccountByFullName(ctx, ref)
	if err == nil {
		return acc, nil
	}
	if !errors.Is(err, store.ErrRecordNotFound) {
		return nil, err
	}
	acc, err = gw.Account(ctx, ref)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, fmt.Errorf("account '%s': %w", ref, model.ErrInvalidAccountReference)
		}
		return nil, err
	}
	return acc, nil
}

func (as *AccountService) parent(ctx context.Context, repo store.Repository, ref string) (*model.Account, error) {
	if ref == "" {
		root, err := repo.RootAccount(ctx)
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, ErrNotInitialized
		}
		return root, err
	}
	return resolve(ctx, repo, ref)
}

// List returns every account except ROOT, ordered by full name.
func (as *AccountService) List(ctx context.Context) ([]*model.Account, error) {
	all, err := as.repo.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	accounts := make([]*model.Account, 0, len(all))
	for _, a := range all {
		if !a.IsRoot() {
			accounts = append(accounts, a)
		}
	}
	return accounts, nil
}

func (as *AccountService) Root(ctx context.Context) (*model.Account, error) {
	root, err := as.repo.RootAccount(ctx)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, ErrNotInitialized
	}
	return root, err
}

// Rename changes the account name and rewrites the full name of the whole
// subtree.
func (as *AccountService) Rename(ctx context.Context, uid, name string) error {
	return as.repo.ExecTx(ctx, func(repo store.Repository) error {
		acc, err := repo.Account(ctx, uid)
		if err != nil {
			return err
		}
		if acc.IsRoot() {
			return ErrRootAccount
		}
		acc.Name = strings.TrimSpace(name)
		if err := acc.Validate(); err != nil {
			return err
		}
		parent, err := repo.Account(ctx, acc.ParentUID)
		if err != nil {
			return err
		}
		return relink(ctx, repo, acc, parent)
	})
}

// Move re-parents the account. An empty newParent moves it below ROOT.
func (as *AccountService) Move(ctx context.Context, uid, newParent string) error {
	return as.repo.ExecTx(ctx, func(repo store.Repository) error {
		acc, err := repo.Account(ctx, uid)
		if err != nil {
			return err
		}
		if acc.IsRoot() {
			return ErrRootAccount
		}
		parent, err := as.parent(ctx, repo, newParent)
		if err != nil {
			return err
		}

		for p := parent; ; {
			if p.UID == acc.UID {
				return fmt.Errorf("move '%s' below '%s': %w", acc.FullName, parent.FullName, ErrAccountCycle)
			}
			if p.ParentUID == "" {
				break
			}
			if p, err = repo.Account(ctx, p.ParentUID); err != nil {
				return err
			}
		}

		acc.ParentUID = parent.UID
		return relink(ctx, repo, acc, parent)
	})
}

// relink stores acc with the full name derived from parent, then does the
// same for every descendant.
func relink(ctx context.Context, repo store.Repository, acc, parent *model.Account) error {
	acc.FullName = model.BuildFullName(parent, acc.Name)
	if err := repo.UpdateAccount(ctx, acc); err != nil {
		return err
	}
	children, err := repo.Children(ctx, acc.UID)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := relink(ctx, repo, child, acc); err != nil {
			return err
		}
	}
	return nil
}

// SetPlaceholder flags the account as a pure grouping node. An account that
// already owns splits can't become one.
func (as *AccountService) SetPlaceholder(ctx context.Context, uid string, placeholder bool) error {
	return as.repo.ExecTx(ctx, func(repo store.Repository) error {
		acc, err := repo.Account(ctx, uid)
		if err != nil {
			return err
		}
		if placeholder {
			n, err := repo.CountSplits(ctx, uid)
			if err != nil {
				return err
			}
			if n > 0 {
				return fmt.Errorf("account '%s' has %d splits: %w", acc.FullName, n, ErrAccountHasSplits)
			}
		}
		acc.Placeholder = placeholder
		return repo.UpdateAccount(ctx, acc)
	})
}

// Delete removes the account. Its splits move to moveTo, which is required
// when there are any, and its children move up to its parent. Accounts that
// used it as their default transfer account lose that setting.
func (as *AccountService) Delete(ctx context.Context, uid, moveTo string) error {
	return as.repo.ExecTx(ctx, func(repo store.Repository) error {
		acc, err := repo.Account(ctx, uid)
		if err != nil {
			return err
		}
		if acc.IsRoot() {
			return ErrRootAccount
		}

		n, err := repo.CountSplits(ctx, uid)
		if err != nil {
			return err
		}
		if n > 0 {
			if moveTo == "" {
				return fmt.Errorf("account '%s' has %d splits and no destination was given: %w", acc.FullName, n, ErrAccountHasSplits)
			}
			dest, err := resolve(ctx, repo, moveTo)
			if err != nil {
				return err
			}
			switch {
			case dest.UID == acc.UID, dest.IsRoot():
				return fmt.Errorf("can't move splits of '%s' to '%s': %w", acc.FullName, dest.FullName, model.ErrInvalidAccountReference)
			case dest.Placeholder:
				return fmt.Errorf("'%s' is a placeholder: %w", dest.FullName, model.ErrInvalidAccountReference)
			case dest.Currency != acc.Currency:
				return fmt.Errorf("can't move %s splits to '%s' held in %s: %w", acc.Currency, dest.FullName, dest.Currency, model.ErrInvalidAccountReference)
			}
			if err := repo.MoveSplits(ctx, acc.UID, dest.UID); err != nil {
				return err
			}
		}

		parent, err := repo.Account(ctx, acc.ParentUID)
		if err != nil {
			return err
		}
		children, err := repo.Children(ctx, acc.UID)
		if err != nil {
			return err
		}
		for _, child := range children {
			child.ParentUID = parent.UID
			if err := relink(ctx, repo, child, parent); err != nil {
				return err
			}
		}

		all, err := repo.Accounts(ctx)
		if err != nil {
			return err
		}
		for _, other := range all {
			if other.DefaultTransferAccountUID != acc.UID {
				continue
			}
			other.DefaultTransferAccountUID = ""
			if err := repo.UpdateAccount(ctx, other); err != nil {
				return err
			}
		}

		if err := repo.DeleteAccount(ctx, acc.UID); err != nil {
			return err
		}
		zerolog.Ctx(ctx).Debug().Str("account", acc.FullName).Int("moved_splits", n).Msg("account deleted")
		return nil
	})
}

// Verify checks the whole chart of accounts and reports every problem found.
func (as *AccountService) Verify(ctx context.Context) error {
	all, err := as.repo.Accounts(ctx)
	if err != nil {
		return err
	}

	byUID := make(map[string]*model.Account, len(all))
	for _, a := range all {
		byUID[a.UID] = a
	}

	var result *multierror.Error
	roots := 0
	for _, a := range all {
		if err := a.Validate(); err != nil {
			result = multierror.Append(result, err)
		}
		if a.IsRoot() {
			roots++
			continue
		}

		parent, ok := byUID[a.ParentUID]
		if !ok {
			result = multierror.Append(result, fmt.Errorf("account '%s': parent %q: %w", a.FullName, a.ParentUID, model.ErrInvalidAccountReference))
			continue
		}
		if want := model.BuildFullName(parent, a.Name); a.FullName != want {
			result = multierror.Append(result, fmt.Errorf("account '%s': full name should be '%s'", a.FullName, want))
		}
		if hasCycle(a, byUID) {
			result = multierror.Append(result, fmt.Errorf("account '%s': %w", a.FullName, ErrAccountCycle))
		}
		if a.DefaultTransferAccountUID != "" {
			if _, ok := byUID[a.DefaultTransferAccountUID]; !ok {
				result = multierror.Append(result, fmt.Errorf("account '%s': default transfer account %q: %w", a.FullName, a.DefaultTransferAccountUID, model.ErrInvalidAccountReference))
			}
		}
		if a.Placeholder {
			n, err := as.repo.CountSplits(ctx, a.UID)
			if err != nil {
				return err
			}
			if n > 0 {
				result = multierror.Append(result, fmt.Errorf("placeholder account '%s' has %d splits: %w", a.FullName, n, ErrAccountHasSplits))
			}
		}
	}
	if roots != 1 {
		result = multierror.Append(result, fmt.Errorf("found %d ROOT accounts, want exactly one", roots))
	}

	return result.ErrorOrNil()
}

func hasCycle(a *model.Account, byUID map[string]*model.Account) bool {
	seen := map[string]bool{a.UID: true}
	for p := byUID[a.ParentUID]; p != nil; p = byUID[p.ParentUID] {
		if seen[p.UID] {
			return true
		}
		seen[p.UID] = true
	}
	return false
}
