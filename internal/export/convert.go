package export

import (
	"context"
	"fmt"
	"math/big"

	"github.com/hance08/keabook/internal/money"
	"github.com/hance08/keabook/internal/price"
)

// ValueIn converts m into currency with the latest recorded price in either
// direction. The resolver never inverts a rate on its own, so the inverse
// is applied here, once, at full precision.
func ValueIn(ctx context.Context, prices *price.Resolver, m money.Money, currency string) (money.Money, error) {
	if m.Currency() == currency {
		return m, nil
	}
	p, ok, err := prices.Lookup(ctx, m.Currency(), currency)
	if err != nil {
		return money.Money{}, err
	}
	if ok {
		return m.MulRat(p.Rate()).WithCurrency(currency), nil
	}

	p, ok, err = prices.Lookup(ctx, currency, m.Currency())
	if err != nil {
		return money.Money{}, err
	}
	if !ok || p.ValueNum == 0 {
		return money.Money{}, fmt.Errorf("%w: %s -> %s", price.ErrMissingPrice, m.Currency(), currency)
	}
	return m.MulRat(new(big.Rat).Inv(p.Rate())).WithCurrency(currency), nil
}
