package gncxml

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hance08/keabook/internal/export"
	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/store"
)

func (g *Generator) writeTransactions(ctx context.Context, w *writer, announced int) error {
	n := 0
	for tx, err := range export.Transactions(g.gw.SplitRows(ctx, store.RowFilter{})) {
		if err != nil {
			return err
		}
		if err := export.Cancelled(ctx, "transactions"); err != nil {
			return err
		}
		if err := g.writeTransaction(ctx, w, tx, nil); err != nil {
			return export.Fail("transaction", tx.UID, err)
		}
		if err := w.flush(); err != nil {
			return export.Fail("transaction", tx.UID, err)
		}
		g.emitted = append(g.emitted, tx.UID)
		n++
	}
	if n != announced {
		return export.Fail("count", "", fmt.Errorf("wrote %d transactions but announced %d", n, announced))
	}
	zerolog.Ctx(ctx).Debug().Int("count", n).Msg("transactions written")
	return nil
}

// templateAccount is non-nil for template transactions: it maps each split to
// the template account it is written against.
func (g *Generator) writeTransaction(ctx context.Context, w *writer, tx *model.Transaction, templateAccount func(*model.Split) string) error {
	w.start("gnc:transaction", attr("version", "2.0.0"))
	w.guid("trn:id", tx.UID)
	w.start("trn:currency")
	commodityRef(w, tx.Currency)
	w.end("trn:currency")
	g.date(w, "trn:date-posted", tx.Timestamp)
	g.date(w, "trn:date-entered", g.now())
	w.text("trn:description", tx.Description)
	if templateAccount == nil {
		w.slots("trn:slots", transactionSlots(tx, g.loc))
	} else {
		w.slots("trn:slots", []slot{{key: "notes", kind: slotString, value: tx.Notes}})
	}

	w.start("trn:splits")
	for _, s := range tx.Splits {
		w.start("trn:split")
		w.guid("split:id", s.UID)
		w.optional("split:memo", s.Memo)
		w.text("split:reconciled-state", reconcileState(s))

		if templateAccount != nil {
			w.text("split:value", "0/1")
			w.text("split:quantity", "0/1")
			w.guid("split:account", templateAccount(s))
			w.slots("split:slots", schedSlots(s))
		} else {
			value, quantity, err := g.amounts(ctx, tx, s)
			if err != nil {
				return fmt.Errorf("split %s: %w", s.UID, err)
			}
			w.text("split:value", value)
			w.text("split:quantity", quantity)
			w.guid("split:account", s.AccountUID)
		}
		w.end("trn:split")
	}
	w.end("trn:splits")
	w.end("gnc:transaction")
	return nil
}

// amounts returns the split value in the transaction currency and its
// quantity in the split's own commodity, both signed with debits positive.
func (g *Generator) amounts(ctx context.Context, tx *model.Transaction, s *model.Split) (string, string, error) {
	signed := s.Value()
	quantity := signed.FractionString()
	if signed.Currency() == tx.Currency {
		return quantity, quantity, nil
	}
	value, err := export.ValueIn(ctx, g.prices, signed, tx.Currency)
	if err != nil {
		return "", "", err
	}
	return value.FractionString(), quantity, nil
}

func reconcileState(s *model.Split) string {
	if s.ReconcileState == "" {
		return model.NotReconciled
	}
	return s.ReconcileState
}
