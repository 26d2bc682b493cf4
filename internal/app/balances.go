package app

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hance08/keabook/internal/balance"
	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/money"
)

// AccountBalance is one row of the account tree.
type AccountBalance struct {
	Account *model.Account
	Depth   int
	// Own is the balance of the account alone, in its own currency.
	Own money.Money
	// Total covers the whole subtree, in the requested currency.
	Total money.Money
}

// Balances computes every account balance concurrently and returns the
// rows in tree order, parents before children. Own balances and totals
// stop at end when it is set. Totals skip amounts that have no price to
// currency.
func (a *App) Balances(ctx context.Context, currency string, end *time.Time) ([]AccountBalance, error) {
	accounts, err := a.Store.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	if currency == "" {
		currency = a.Config.Defaults.Currency
	}

	rows := treeRows(accounts)
	agg := balance.New(a.Store, balance.WithBestEffort())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := range rows {
		row := &rows[i]
		g.Go(func() error {
			own, err := agg.Balance(gctx, row.Account.UID, nil, end)
			if err != nil {
				return err
			}
			total, err := agg.RecursiveBalanceAt(gctx, row.Account.UID, currency, end)
			if err != nil {
				return err
			}
			row.Own, row.Total = own, total
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

// treeRows orders the accounts depth first from ROOT, ROOT excluded.
func treeRows(accounts []*model.Account) []AccountBalance {
	children := make(map[string][]*model.Account)
	var root *model.Account
	for _, acc := range accounts {
		if acc.IsRoot() {
			root = acc
			continue
		}
		children[acc.ParentUID] = append(children[acc.ParentUID], acc)
	}
	if root == nil {
		return nil
	}

	var rows []AccountBalance
	var walk func(parent string, depth int)
	walk = func(parent string, depth int) {
		for _, acc := range children[parent] {
			rows = append(rows, AccountBalance{Account: acc, Depth: depth})
			walk(acc.UID, depth+1)
		}
	}
	walk(root.UID, 0)
	return rows
}
