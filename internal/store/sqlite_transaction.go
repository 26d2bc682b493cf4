package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/money"
)

// CreateTransaction inserts a transaction and its splits atomically.
func (s *Store) CreateTransaction(ctx context.Context, tx *model.Transaction) error {
	return s.atomic(ctx, func(st *Store) error {
		_, err := st.db.ExecContext(ctx, `
            INSERT INTO transactions (uid, description, notes, timestamp, currency, exported, is_template, scheduled_action_uid)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?);
        `,
			tx.UID, tx.Description, tx.Notes, toMillis(tx.Timestamp), tx.Currency,
			boolInt(tx.Exported), boolInt(tx.Template), tx.ScheduledActionUID,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("transaction %s already exists: %w", tx.UID, ErrConstraintViolation)
			}
			return fmt.Errorf("failed to insert transaction: %w", err)
		}
		return st.insertSplits(ctx, tx)
	})
}

func (s *Store) insertSplits(ctx context.Context, tx *model.Transaction) error {
	stmt, err := s.db.PrepareContext(ctx, `
        INSERT INTO splits (uid, transaction_uid, account_uid, position, amount_num, amount_denom, currency, type, memo, reconcile_state)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
    `)
	if err != nil {
		return fmt.Errorf("failed to prepare split SQL: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for i, split := range tx.Splits {
		state := split.ReconcileState
		if state == "" {
			state = model.NotReconciled
		}
		_, err := stmt.ExecContext(ctx,
			split.UID, tx.UID, split.AccountUID, i,
			split.Amount.Num().String(), split.Amount.Denom().String(), split.Amount.Currency(),
			string(split.Type), split.Memo, state,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split (account_uid: %s): %w", split.AccountUID, err)
		}
	}
	return nil
}

// UpdateTransaction rewrites the header and replaces every split.
func (s *Store) UpdateTransaction(ctx context.Context, tx *model.Transaction) error {
	return s.atomic(ctx, func(st *Store) error {
		res, err := st.db.ExecContext(ctx, `
            UPDATE transactions
            SET description = ?, notes = ?, timestamp = ?, currency = ?, exported = ?, is_template = ?, scheduled_action_uid = ?
            WHERE uid = ?
        `,
			tx.Description, tx.Notes, toMillis(tx.Timestamp), tx.Currency,
			boolInt(tx.Exported), boolInt(tx.Template), tx.ScheduledActionUID, tx.UID,
		)
		if err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}
		if err := expectAffected(res, "transaction", tx.UID); err != nil {
			return err
		}
		if _, err := st.db.ExecContext(ctx, `DELETE FROM splits WHERE transaction_uid = ?`, tx.UID); err != nil {
			return fmt.Errorf("failed to delete splits: %w", err)
		}
		return st.insertSplits(ctx, tx)
	})
}

// DeleteTransaction removes the transaction; its splits cascade.
func (s *Store) DeleteTransaction(ctx context.Context, uid string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE uid = ?`, uid)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return expectAffected(res, "transaction", uid)
}

func (s *Store) MarkExported(ctx context.Context, uids []string) error {
	if len(uids) == 0 {
		return nil
	}
	return s.atomic(ctx, func(st *Store) error {
		stmt, err := st.db.PrepareContext(ctx, `UPDATE transactions SET exported = 1 WHERE uid = ?`)
		if err != nil {
			return fmt.Errorf("failed to prepare SQL: %w", err)
		}
		defer func() {
			_ = stmt.Close()
		}()
		for _, uid := range uids {
			if _, err := stmt.ExecContext(ctx, uid); err != nil {
				return fmt.Errorf("failed to mark %s exported: %w", uid, err)
			}
		}
		return nil
	})
}

func (s *Store) Transaction(ctx context.Context, uid string) (*model.Transaction, error) {
	var tx *model.Transaction
	for row, err := range s.SplitRows(ctx, RowFilter{Templates: AnyTransaction, transactionUID: uid}) {
		if err != nil {
			return nil, err
		}
		if tx == nil {
			tx = row.Header()
		}
		split := row.Split
		tx.Splits = append(tx.Splits, &split)
	}
	if tx != nil {
		return tx, nil
	}

	// a template may legitimately have no splits
	var ms int64
	tx = &model.Transaction{UID: uid}
	err := s.db.QueryRowContext(ctx, `
        SELECT description, notes, timestamp, currency, exported, is_template, scheduled_action_uid
        FROM transactions WHERE uid = ?
    `, uid).Scan(&tx.Description, &tx.Notes, &ms, &tx.Currency, &tx.Exported, &tx.Template, &tx.ScheduledActionUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("transaction %s: %w", uid, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}
	tx.Timestamp = fromMillis(ms)
	return tx, nil
}

// SplitRows streams the rows selected by f. The query is only run when the
// sequence is ranged over.
func (s *Store) SplitRows(ctx context.Context, f RowFilter) iter.Seq2[SplitRow, error] {
	return func(yield func(SplitRow, error) bool) {
		where, args := f.where()
		rows, err := s.db.QueryContext(ctx, `
            SELECT t.uid, t.description, t.notes, t.timestamp, t.currency, t.exported, t.is_template, t.scheduled_action_uid,
                   s.uid, s.account_uid, s.amount_num, s.amount_denom, s.currency, s.type, s.memo, s.reconcile_state
            FROM splits s
            INNER JOIN transactions t ON t.uid = s.transaction_uid
            `+where+`
            ORDER BY t.uid ASC, t.timestamp ASC, s.position ASC
        `, args...)
		if err != nil {
			yield(SplitRow{}, fmt.Errorf("failed to query split rows: %w", err))
			return
		}
		defer func() {
			_ = rows.Close()
		}()

		for rows.Next() {
			row, err := scanSplitRow(rows)
			if err != nil {
				yield(SplitRow{}, err)
				return
			}
			if !yield(row, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(SplitRow{}, fmt.Errorf("failed to read split rows: %w", err))
		}
	}
}

func (s *Store) CountTransactions(ctx context.Context, f RowFilter) (int, error) {
	where, args := f.where()
	var n int
	err := s.db.QueryRowContext(ctx, `
        SELECT COUNT(DISTINCT t.uid)
        FROM splits s
        INNER JOIN transactions t ON t.uid = s.transaction_uid
        `+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return n, nil
}

func (f RowFilter) where() (string, []any) {
	var conds []string
	var args []any

	switch f.Templates {
	case PostedOnly:
		conds = append(conds, "t.is_template = 0")
	case TemplatesOnly:
		conds = append(conds, "t.is_template = 1")
	}
	if f.transactionUID != "" {
		conds = append(conds, "t.uid = ?")
		args = append(args, f.transactionUID)
	}
	if f.AccountUID != "" {
		conds = append(conds, "s.account_uid = ?")
		args = append(args, f.AccountUID)
	}
	if f.InvolvingAccount != "" {
		conds = append(conds, "t.uid IN (SELECT transaction_uid FROM splits WHERE account_uid = ?)")
		args = append(args, f.InvolvingAccount)
	}
	if f.Start != nil {
		conds = append(conds, "t.timestamp >= ?")
		args = append(args, toMillis(*f.Start))
	}
	if f.End != nil {
		conds = append(conds, "t.timestamp <= ?")
		args = append(args, toMillis(*f.End))
	}
	if f.UnexportedOnly {
		conds = append(conds, "t.exported = 0")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func scanSplitRow(rows *sql.Rows) (SplitRow, error) {
	var (
		row                 SplitRow
		ms                  int64
		num, den, cur, kind string
	)
	err := rows.Scan(
		&row.TransactionUID, &row.Description, &row.Notes, &ms, &row.Currency,
		&row.Exported, &row.Template, &row.ScheduledActionUID,
		&row.Split.UID, &row.Split.AccountUID, &num, &den, &cur, &kind,
		&row.Split.Memo, &row.Split.ReconcileState,
	)
	if err != nil {
		return SplitRow{}, fmt.Errorf("failed to scan split row: %w", err)
	}

	amount, err := money.ParseFraction(num+"/"+den, cur)
	if err != nil {
		return SplitRow{}, fmt.Errorf("split %s: %w", row.Split.UID, err)
	}

	row.Timestamp = fromMillis(ms)
	row.Split.TransactionUID = row.TransactionUID
	row.Split.Amount = amount
	row.Split.Type = model.TransactionType(kind)
	return row, nil
}

// atomic runs fn in a SQL transaction unless the store already is one.
func (s *Store) atomic(ctx context.Context, fn func(*Store) error) error {
	if _, ok := s.db.(*sql.DB); !ok {
		return fn(s)
	}
	return s.ExecTx(ctx, func(r Repository) error {
		return fn(r.(*Store))
	})
}
