package export

import (
	"errors"
	"iter"

	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/store"
)

var ErrNonContiguous = errors.New("splits of a transaction are not contiguous")

// Transactions groups a flat row stream into transactions by watching for
// changes of the transaction UID. The stream must keep the splits of a
// transaction together, as the gateway ordering does; a UID that comes back
// after another transaction started fails with ErrNonContiguous.
//
// Every yielded transaction is validated, so an unbalanced single-currency
// transaction stops the sequence with model.ErrUnbalancedTransaction.
func Transactions(rows iter.Seq2[store.SplitRow, error]) iter.Seq2[*model.Transaction, error] {
	return func(yield func(*model.Transaction, error) bool) {
		var cur *model.Transaction
		closed := make(map[string]bool)

		flush := func() bool {
			if cur == nil {
				return true
			}
			closed[cur.UID] = true
			tx := cur
			cur = nil
			if err := tx.Validate(); err != nil {
				yield(nil, Fail("validate", tx.UID, err))
				return false
			}
			return yield(tx, nil)
		}

		for row, err := range rows {
			if err != nil {
				yield(nil, Fail("read", "", err))
				return
			}
			if cur == nil || row.TransactionUID != cur.UID {
				if !flush() {
					return
				}
				if closed[row.TransactionUID] {
					yield(nil, Fail("group", row.TransactionUID, ErrNonContiguous))
					return
				}
				cur = row.Header()
			}
			split := row.Split
			cur.Splits = append(cur.Splits, &split)
		}
		flush()
	}
}
