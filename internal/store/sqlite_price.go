package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hance08/keabook/internal/model"
)

const priceColumns = `uid, commodity, currency, value_num, value_denom, source, timestamp`

func (s *Store) CreatePrice(ctx context.Context, p *model.Price) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO prices (`+priceColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?);
    `, p.UID, p.Commodity, p.Currency, p.ValueNum, p.ValueDenom, p.Source, toMillis(p.Timestamp))
	if err != nil {
		return fmt.Errorf("failed to insert price %s/%s: %w", p.Commodity, p.Currency, err)
	}
	return nil
}

func (s *Store) Price(ctx context.Context, commodity, currency string) (*model.Price, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT `+priceColumns+`
        FROM prices
        WHERE commodity = ? AND currency = ?
        ORDER BY timestamp DESC, uid DESC
        LIMIT 1
    `, commodity, currency)

	p, err := scanPrice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("price %s/%s: %w", commodity, currency, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query price %s/%s: %w", commodity, currency, err)
	}
	return p, nil
}

func (s *Store) Prices(ctx context.Context) ([]*model.Price, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT `+priceColumns+`
        FROM prices
        ORDER BY commodity, currency, timestamp, uid
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var prices []*model.Price
	for rows.Next() {
		p, err := scanPrice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

func scanPrice(row scanner) (*model.Price, error) {
	p := &model.Price{}
	var ms int64
	if err := row.Scan(&p.UID, &p.Commodity, &p.Currency, &p.ValueNum, &p.ValueDenom, &p.Source, &ms); err != nil {
		return nil, err
	}
	p.Timestamp = fromMillis(ms)
	return p, nil
}
