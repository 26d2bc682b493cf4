package app

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/money"
	"github.com/hance08/keabook/internal/price"
	"github.com/hance08/keabook/internal/store"
)

// RegisterEntry is one line of an account register.
type RegisterEntry struct {
	Transaction *model.Transaction
	Split       model.Split
	// Effect is the split amount signed by the account polarity.
	Effect money.Money
	// Running is the account balance after this entry, in the account
	// currency. It is zero-valued when a foreign split has no price.
	Running money.Money
	Priced  bool
}

// Register lists the splits posted to an account in date order with the
// running balance. Only the last limit entries are returned when limit > 0.
func (a *App) Register(ctx context.Context, accountRef string, since *time.Time, limit int) (*model.Account, []RegisterEntry, error) {
	acc, err := a.Service.Account.Resolve(ctx, accountRef)
	if err != nil {
		return nil, nil, err
	}

	var rows []store.SplitRow
	err = a.Store.ReadSnapshot(ctx, func(gw store.Gateway) error {
		for row, err := range gw.SplitRows(ctx, store.RowFilter{AccountUID: acc.UID}) {
			if err != nil {
				return err
			}
			rows = append(rows, row)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	// rows come grouped by transaction uid
	slices.SortStableFunc(rows, func(x, y store.SplitRow) int {
		return x.Timestamp.Compare(y.Timestamp)
	})

	prices := price.NewResolver(a.Store)
	polarity := acc.Type.Polarity()
	running := money.Zero(acc.Currency)

	var entries []RegisterEntry
	for _, row := range rows {
		effect := row.Split.Effect(polarity)
		entry := RegisterEntry{Transaction: row.Header(), Split: row.Split, Effect: effect}

		converted, err := prices.Convert(ctx, effect, acc.Currency)
		switch {
		case err == nil:
			running, _ = running.Add(converted)
			entry.Running, entry.Priced = running, true
		case errors.Is(err, price.ErrMissingPrice):
		default:
			return nil, nil, err
		}
		if since != nil && row.Timestamp.Before(*since) {
			continue
		}
		entries = append(entries, entry)
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return acc, entries, nil
}
