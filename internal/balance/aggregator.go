// Package balance computes account balances from the split rows of a
// ledger gateway.
package balance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/money"
	"github.com/hance08/keabook/internal/price"
	"github.com/hance08/keabook/internal/store"
)

// Aggregator only reads from the gateway, so concurrent calls against an
// unchanged ledger return identical results.
type Aggregator struct {
	gw         store.Gateway
	prices     *price.Resolver
	bestEffort bool
}

type Option func(*Aggregator)

// WithBestEffort skips contributions that cannot be converted instead of
// failing with price.ErrMissingPrice.
func WithBestEffort() Option {
	return func(a *Aggregator) { a.bestEffort = true }
}

// WithResolver overrides the resolver built from the gateway.
func WithResolver(r *price.Resolver) Option {
	return func(a *Aggregator) { a.prices = r }
}

func New(gw store.Gateway, opts ...Option) *Aggregator {
	a := &Aggregator{gw: gw}
	for _, opt := range opts {
		opt(a)
	}
	if a.prices == nil {
		a.prices = price.NewResolver(gw)
	}
	return a
}

// Balance sums the splits posted to one account inside the optional
// inclusive [start, end] window, interpreted with the account's polarity and expressed
// in the account's currency. Template transactions never count.
func (a *Aggregator) Balance(ctx context.Context, uid string, start, end *time.Time) (money.Money, error) {
	acc, err := a.account(ctx, uid)
	if err != nil {
		return money.Money{}, err
	}
	return a.own(ctx, acc, start, end)
}

// RecursiveBalance adds the balances of every descendant of uid, each
// converted into currency. The account itself contributes unless it is
// ROOT. Each account is interpreted with its own polarity.
func (a *Aggregator) RecursiveBalance(ctx context.Context, uid, currency string) (money.Money, error) {
	return a.RecursiveBalanceAt(ctx, uid, currency, nil)
}

// RecursiveBalanceAt is RecursiveBalance counting only the splits dated on
// or before end. A nil end counts everything.
func (a *Aggregator) RecursiveBalanceAt(ctx context.Context, uid, currency string, end *time.Time) (money.Money, error) {
	acc, err := a.account(ctx, uid)
	if err != nil {
		return money.Money{}, err
	}
	return a.subtree(ctx, acc, currency, end)
}

func (a *Aggregator) subtree(ctx context.Context, acc *model.Account, currency string, end *time.Time) (money.Money, error) {
	total := money.Zero(currency)

	if !acc.IsRoot() {
		own, err := a.own(ctx, acc, nil, end)
		if err != nil {
			return money.Money{}, err
		}
		converted, ok, err := a.convert(ctx, own, currency, acc.UID)
		if err != nil {
			return money.Money{}, err
		}
		if ok {
			total, _ = total.Add(converted)
		}
	}

	children, err := a.gw.Children(ctx, acc.UID)
	if err != nil {
		return money.Money{}, fmt.Errorf("failed to list children of %s: %w", acc.UID, err)
	}
	for _, child := range children {
		sub, err := a.subtree(ctx, child, currency, end)
		if err != nil {
			return money.Money{}, err
		}
		total, _ = total.Add(sub)
	}
	return total, nil
}

func (a *Aggregator) own(ctx context.Context, acc *model.Account, start, end *time.Time) (money.Money, error) {
	polarity := acc.Type.Polarity()
	total := money.Zero(acc.Currency)

	filter := store.RowFilter{AccountUID: acc.UID, Start: start, End: end}
	for row, err := range a.gw.SplitRows(ctx, filter) {
		if err != nil {
			return money.Money{}, fmt.Errorf("failed to read splits of %s: %w", acc.FullName, err)
		}
		effect, ok, err := a.convert(ctx, row.Split.Effect(polarity), acc.Currency, row.Split.UID)
		if err != nil {
			return money.Money{}, err
		}
		if ok {
			total, _ = total.Add(effect)
		}
	}
	return total, nil
}

// convert reports ok=false when a missing price was skipped in best-effort
// mode.
func (a *Aggregator) convert(ctx context.Context, m money.Money, to, uid string) (money.Money, bool, error) {
	converted, err := a.prices.Convert(ctx, m, to)
	if err == nil {
		return converted, true, nil
	}
	if a.bestEffort && errors.Is(err, price.ErrMissingPrice) {
		zerolog.Ctx(ctx).Warn().
			Str("uid", uid).
			Str("from", m.Currency()).
			Str("to", to).
			Msg("skipping contribution without a price")
		return money.Money{}, false, nil
	}
	return money.Money{}, false, fmt.Errorf("failed to convert %s: %w", uid, err)
}

func (a *Aggregator) account(ctx context.Context, uid string) (*model.Account, error) {
	acc, err := a.gw.Account(ctx, uid)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, fmt.Errorf("account %s: %w", uid, model.ErrInvalidAccountReference)
		}
		return nil, fmt.Errorf("failed to load account %s: %w", uid, err)
	}
	return acc, nil
}
