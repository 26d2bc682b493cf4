package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/money"
	"github.com/hance08/keabook/internal/store"
)

type PriceService struct {
	repo   store.Repository
	config Config
}

func NewPriceService(repo store.Repository, cfg Config) *PriceService {
	return &PriceService{repo: repo, config: cfg}
}

// Add records that one unit of commodity is worth rate units of currency.
// The rate is a decimal ("1.0825") or a fraction ("433/400") and is stored
// reduced.
func (ps *PriceService) Add(ctx context.Context, commodity, currency, rate string, at time.Time) (*model.Price, error) {
	commodity = strings.ToUpper(strings.TrimSpace(commodity))
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if commodity == "" || currency == "" {
		return nil, fmt.Errorf("price needs a commodity and a currency")
	}
	if commodity == currency {
		return nil, fmt.Errorf("price of %s in itself is always 1", commodity)
	}

	value, err := money.Parse(rate, currency)
	if err != nil {
		return nil, fmt.Errorf("price %s/%s: %w", commodity, currency, err)
	}
	if at.IsZero() {
		at = ps.config.now()
	}

	p, err := model.NewPrice(commodity, currency, value.Rat(), at)
	if err != nil {
		return nil, err
	}
	if err := ps.repo.CreatePrice(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (ps *PriceService) List(ctx context.Context) ([]*model.Price, error) {
	return ps.repo.Prices(ctx)
}
