// Package storetest builds migrated SQLite ledgers for tests.
package storetest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/money"
	"github.com/hance08/keabook/internal/store"
)

// New opens an empty migrated store in a temporary directory.
func New(t testing.TB) *store.Store {
	t.Helper()
	s, err := store.NewStore(filepath.Join(t.TempDir(), "ledger.db"), store.Migrations)
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// Fixture seeds a ledger with fatal-on-error helpers.
type Fixture struct {
	T     testing.TB
	Store *store.Store
	Root  *model.Account
}

// NewFixture returns a store holding only a ROOT account in currency.
func NewFixture(t testing.TB, currency string) *Fixture {
	t.Helper()
	f := &Fixture{T: t, Store: New(t)}
	f.Root = &model.Account{UID: model.NewUID(), Name: "Root Account", Type: model.TypeRoot, Currency: currency}
	if err := f.Store.CreateAccount(context.Background(), f.Root); err != nil {
		t.Fatalf("CreateAccount(root) failed: %v", err)
	}
	return f
}

// Account creates an account under parent (ROOT when nil).
func (f *Fixture) Account(name string, typ model.AccountType, currency string, parent *model.Account, opts ...func(*model.Account)) *model.Account {
	f.T.Helper()
	if parent == nil {
		parent = f.Root
	}
	acc := model.NewAccount(name, typ, currency)
	acc.ParentUID = parent.UID
	acc.FullName = model.BuildFullName(parent, acc.Name)
	for _, opt := range opts {
		opt(acc)
	}
	if err := f.Store.CreateAccount(context.Background(), acc); err != nil {
		f.T.Fatalf("CreateAccount(%s) failed: %v", acc.FullName, err)
	}
	return acc
}

// Transaction stores a transaction without validating it, so tests can
// seed invalid data.
func (f *Fixture) Transaction(description string, ts time.Time, currency string, splits ...*model.Split) *model.Transaction {
	f.T.Helper()
	tx := model.NewTransaction(description, currency, ts)
	for _, s := range splits {
		tx.AddSplit(s)
	}
	if err := f.Store.CreateTransaction(context.Background(), tx); err != nil {
		f.T.Fatalf("CreateTransaction(%s) failed: %v", description, err)
	}
	return tx
}

// Save stores a prepared transaction.
func (f *Fixture) Save(tx *model.Transaction) *model.Transaction {
	f.T.Helper()
	if err := f.Store.CreateTransaction(context.Background(), tx); err != nil {
		f.T.Fatalf("CreateTransaction(%s) failed: %v", tx.Description, err)
	}
	return tx
}

// Transfer records a balanced two-split transaction moving amount from one
// account (credited) to another (debited).
func (f *Fixture) Transfer(description string, ts time.Time, amount money.Money, from, to *model.Account) *model.Transaction {
	f.T.Helper()
	credit := model.NewSplit(amount, from.UID, model.Credit)
	return f.Transaction(description, ts, amount.Currency(), credit, credit.CreatePair(to.UID))
}

// Price records the rate of commodity in currency.
func (f *Fixture) Price(commodity, currency, rate string, ts time.Time) *model.Price {
	f.T.Helper()
	m, err := money.Parse(rate, currency)
	if err != nil {
		f.T.Fatalf("bad rate %q: %v", rate, err)
	}
	p, err := model.NewPrice(commodity, currency, m.Rat(), ts)
	if err != nil {
		f.T.Fatalf("NewPrice failed: %v", err)
	}
	if err := f.Store.CreatePrice(context.Background(), p); err != nil {
		f.T.Fatalf("CreatePrice failed: %v", err)
	}
	return p
}
