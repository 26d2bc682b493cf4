// Package price looks up recorded exchange rates and converts amounts
// between commodities.
package price

import (
	"context"
	"errors"
	"fmt"

	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/money"
	"github.com/hance08/keabook/internal/store"
)

var ErrMissingPrice = errors.New("missing price")

// Source is the part of the gateway the resolver reads.
type Source interface {
	Price(ctx context.Context, commodity, currency string) (*model.Price, error)
}

// Resolver is read-only and safe for concurrent use.
type Resolver struct {
	src Source
}

func NewResolver(src Source) *Resolver {
	return &Resolver{src: src}
}

// Lookup returns the most recent price of from expressed in to. Only the
// recorded direction is consulted: an inverse price is never inverted here.
func (r *Resolver) Lookup(ctx context.Context, from, to string) (model.Price, bool, error) {
	p, err := r.src.Price(ctx, from, to)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return model.Price{}, false, nil
		}
		return model.Price{}, false, fmt.Errorf("failed to look up price %s/%s: %w", from, to, err)
	}
	p.Reduce()
	return *p, true, nil
}

// Convert expresses amount in the to currency. The result is exact; callers
// round when they serialize.
func (r *Resolver) Convert(ctx context.Context, amount money.Money, to string) (money.Money, error) {
	from := amount.Currency()
	if from == to {
		return amount, nil
	}
	p, ok, err := r.Lookup(ctx, from, to)
	if err != nil {
		return money.Money{}, err
	}
	if !ok || p.ValueDenom == 0 {
		return money.Money{}, fmt.Errorf("%w: %s -> %s", ErrMissingPrice, from, to)
	}
	return amount.MulRat(p.Rate()).WithCurrency(to), nil
}

// Convertible reports whether a price is recorded between the two
// commodities in either direction. It is used to accept a split whose
// currency differs from its transaction.
func (r *Resolver) Convertible(ctx context.Context, a, b string) (bool, error) {
	if a == b {
		return true, nil
	}
	if _, ok, err := r.Lookup(ctx, a, b); err != nil || ok {
		return ok, err
	}
	_, ok, err := r.Lookup(ctx, b, a)
	return ok, err
}
