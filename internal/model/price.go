package model

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/hance08/keabook/internal/money"
)

// Price sources, as GnuCash names them.
const (
	PriceSourceUser     = "user:price"
	PriceSourceTransfer = "user:xfer-dialog"
)

// Price is the value of one unit of Commodity expressed in Currency.
type Price struct {
	UID        string
	Commodity  string
	Currency   string
	ValueNum   int64
	ValueDenom int64
	Source     string
	Timestamp  time.Time
}

// NewPrice builds a reduced price from an exact rate.
func NewPrice(commodity, currency string, rate *big.Rat, ts time.Time) (*Price, error) {
	if rate.Sign() <= 0 {
		return nil, fmt.Errorf("price %s/%s must be positive", commodity, currency)
	}
	if !rate.Num().IsInt64() || !rate.Denom().IsInt64() {
		return nil, fmt.Errorf("price %s/%s: %w: rate out of range", commodity, currency, money.ErrMalformedAmount)
	}
	return &Price{
		UID:        NewUID(),
		Commodity:  strings.ToUpper(commodity),
		Currency:   strings.ToUpper(currency),
		ValueNum:   rate.Num().Int64(),
		ValueDenom: rate.Denom().Int64(),
		Source:     PriceSourceUser,
		Timestamp:  ts,
	}, nil
}

// Rate returns the reduced exchange rate.
func (p *Price) Rate() *big.Rat {
	if p.ValueDenom == 0 {
		return new(big.Rat)
	}
	return big.NewRat(p.ValueNum, p.ValueDenom)
}

// Reduce divides numerator and denominator by their GCD in place.
func (p *Price) Reduce() {
	if p.ValueDenom == 0 {
		return
	}
	r := p.Rate()
	p.ValueNum = r.Num().Int64()
	p.ValueDenom = r.Denom().Int64()
}

// Value returns the rate as an amount of Currency.
func (p *Price) Value() money.Money {
	return money.FromBigRat(p.Rate(), p.Currency)
}
