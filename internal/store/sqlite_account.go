package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hance08/keabook/internal/model"
	sqlite "github.com/mattn/go-sqlite3"
)

const accountColumns = `uid, name, full_name, type, currency, parent_uid, description,
        placeholder, favorite, hidden, color, default_transfer_uid`

func (s *Store) CreateAccount(ctx context.Context, acc *model.Account) error {
	stmt, err := s.db.PrepareContext(ctx, `
        INSERT INTO accounts (`+accountColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
    `)
	if err != nil {
		return fmt.Errorf("failed to prepare SQL : %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	_, err = stmt.ExecContext(ctx,
		acc.UID, acc.Name, acc.FullName, string(acc.Type), acc.Currency,
		nullable(acc.ParentUID), acc.Description,
		boolInt(acc.Placeholder), boolInt(acc.Favorite), boolInt(acc.Hidden),
		acc.Color, acc.DefaultTransferAccountUID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to create account '%s': %w", acc.FullName, ErrAccountExists)
		}
		return fmt.Errorf("failed to executing SQL insertion : %w", err)
	}

	return nil
}

func (s *Store) UpdateAccount(ctx context.Context, acc *model.Account) error {
	res, err := s.db.ExecContext(ctx, `
        UPDATE accounts
        SET name = ?, full_name = ?, type = ?, currency = ?, parent_uid = ?,
            description = ?, placeholder = ?, favorite = ?, hidden = ?,
            color = ?, default_transfer_uid = ?
        WHERE uid = ?
    `,
		acc.Name, acc.FullName, string(acc.Type), acc.Currency, nullable(acc.ParentUID),
		acc.Description, boolInt(acc.Placeholder), boolInt(acc.Favorite), boolInt(acc.Hidden),
		acc.Color, acc.DefaultTransferAccountUID, acc.UID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to update account '%s': %w", acc.FullName, ErrAccountExists)
		}
		return fmt.Errorf("failed to update account: %w", err)
	}
	return expectAffected(res, "account", acc.UID)
}

func (s *Store) DeleteAccount(ctx context.Context, uid string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE uid = ?`, uid)
	if err != nil {
		var sqliteErr sqlite.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite.ErrConstraint {
			return fmt.Errorf("failed to delete account %s: %w", uid, ErrConstraintViolation)
		}
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return expectAffected(res, "account", uid)
}

func (s *Store) Account(ctx context.Context, uid string) (*model.Account, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE uid = ?`, uid)
	acc, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", uid, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query account %s: %w", uid, err)
	}
	return acc, nil
}

func (s *Store) AccountByFullName(ctx context.Context, fullName string) (*model.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE full_name = ? AND type != 'ROOT'`, fullName)
	acc, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account '%s': %w", fullName, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query account '%s': %w", fullName, err)
	}
	return acc, nil
}

func (s *Store) RootAccount(ctx context.Context) (*model.Account, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE type = 'ROOT'`)
	acc, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("root account: %w", ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query root account: %w", err)
	}
	return acc, nil
}

// Accounts returns every account, ROOT included, ordered by full name.
func (s *Store) Accounts(ctx context.Context) ([]*model.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT `+accountColumns+`
        FROM accounts
        ORDER BY type = 'ROOT' DESC, full_name, uid
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanAccounts(rows)
}

func (s *Store) Children(ctx context.Context, parentUID string) ([]*model.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT `+accountColumns+`
        FROM accounts
        WHERE parent_uid = ?
        ORDER BY name, uid
    `, parentUID)
	if err != nil {
		return nil, fmt.Errorf("failed to query children of %s: %w", parentUID, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanAccounts(rows)
}

func (s *Store) CurrencyCode(ctx context.Context, accountUID string) (string, error) {
	var currency string
	err := s.db.QueryRowContext(ctx, `SELECT currency FROM accounts WHERE uid = ?`, accountUID).Scan(&currency)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("account %s: %w", accountUID, ErrRecordNotFound)
		}
		return "", fmt.Errorf("failed to query currency of %s: %w", accountUID, err)
	}
	return currency, nil
}

func (s *Store) CountSplits(ctx context.Context, accountUID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM splits WHERE account_uid = ?`, accountUID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count splits of %s: %w", accountUID, err)
	}
	return n, nil
}

func (s *Store) MoveSplits(ctx context.Context, fromUID, toUID string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE splits SET account_uid = ? WHERE account_uid = ?`, toUID, fromUID)
	if err != nil {
		return fmt.Errorf("failed to move splits from %s to %s: %w", fromUID, toUID, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*model.Account, error) {
	acc := &model.Account{}
	var accType string
	var parentUID sql.NullString

	err := row.Scan(
		&acc.UID, &acc.Name, &acc.FullName, &accType, &acc.Currency,
		&parentUID, &acc.Description,
		&acc.Placeholder, &acc.Favorite, &acc.Hidden,
		&acc.Color, &acc.DefaultTransferAccountUID,
	)
	if err != nil {
		return nil, err
	}

	acc.Type = model.AccountType(accType)
	if parentUID.Valid {
		acc.ParentUID = parentUID.String
	}
	return acc, nil
}

func scanAccounts(rows *sql.Rows) ([]*model.Account, error) {
	var accounts []*model.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite.ErrConstraintPrimaryKey
	}
	return false
}

func expectAffected(res sql.Result, entity, uid string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, uid, ErrRecordNotFound)
	}
	return nil
}
