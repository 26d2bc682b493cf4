package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/hance08/keabook/internal/money"
)

// Transaction groups splits that must balance. A template transaction is a
// pattern for scheduled entries and never contributes to balances.
type Transaction struct {
	UID                string
	Description        string
	Notes              string
	Timestamp          time.Time
	Currency           string `validate:"required,iso4217"`
	Splits             []*Split
	Exported           bool
	Template           bool
	ScheduledActionUID string
}

// NewTransaction returns an empty transaction with a fresh UID.
func NewTransaction(description, currency string, ts time.Time) *Transaction {
	return &Transaction{
		UID:         NewUID(),
		Description: strings.TrimSpace(description),
		Currency:    strings.ToUpper(strings.TrimSpace(currency)),
		Timestamp:   ts,
	}
}

// AddSplit attaches s to the transaction.
func (t *Transaction) AddSplit(s *Split) {
	s.TransactionUID = t.UID
	t.Splits = append(t.Splits, s)
}

// IsMultiCurrency reports whether the splits use more than one currency.
// Splits sharing a currency other than the transaction currency still have
// to balance.
func (t *Transaction) IsMultiCurrency() bool {
	return len(t.Currencies()) > 1
}

// Currencies returns the distinct split currencies in first-seen order.
func (t *Transaction) Currencies() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range t.Splits {
		c := s.Amount.Currency()
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// Imbalance returns the signed sum of the split values in the currency the
// splits share. It is only defined for single-currency transactions.
func (t *Transaction) Imbalance() (money.Money, error) {
	currency := t.Currency
	if len(t.Splits) > 0 {
		currency = t.Splits[0].Amount.Currency()
	}
	sum := money.Zero(currency)
	for _, s := range t.Splits {
		var err error
		sum, err = sum.Add(s.Value())
		if err != nil {
			return money.Money{}, fmt.Errorf("transaction %s: %w", t.UID, err)
		}
	}
	return sum, nil
}

// IsBalanced reports whether the transaction satisfies the zero-sum rule.
// Multi-currency transactions are exempt and always reported balanced.
func (t *Transaction) IsBalanced() bool {
	if t.IsMultiCurrency() {
		return true
	}
	imbalance, err := t.Imbalance()
	return err == nil && imbalance.IsZero()
}

// Validate checks the transaction and its splits on their own. Account
// references and price availability are checked by the transaction service.
func (t *Transaction) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("transaction %s: %w", t.UID, err)
	}
	if len(t.Splits) == 0 {
		if t.Template {
			return nil
		}
		return fmt.Errorf("transaction %s: %w", t.UID, ErrNoSplits)
	}
	for _, s := range t.Splits {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("transaction %s: %w", t.UID, err)
		}
		if s.TransactionUID != "" && s.TransactionUID != t.UID {
			return fmt.Errorf("transaction %s: split %s belongs to transaction %s", t.UID, s.UID, s.TransactionUID)
		}
	}
	if t.IsMultiCurrency() {
		return nil
	}
	imbalance, err := t.Imbalance()
	if err != nil {
		return err
	}
	if !imbalance.IsZero() {
		return fmt.Errorf("transaction %s: %w: splits sum to %s", t.UID, ErrUnbalancedTransaction, imbalance.PlainString())
	}
	return nil
}

// Clone copies the transaction and its splits.
func (t *Transaction) Clone() *Transaction {
	c := *t
	c.Splits = make([]*Split, len(t.Splits))
	for i, s := range t.Splits {
		c.Splits[i] = s.Clone()
	}
	return &c
}

// SplitsFor returns the splits posted to accountUID.
func (t *Transaction) SplitsFor(accountUID string) []*Split {
	var out []*Split
	for _, s := range t.Splits {
		if s.AccountUID == accountUID {
			out = append(out, s)
		}
	}
	return out
}

// Counterpart returns the other split of a simple two-split transaction when
// the two splits are a pair, and nil otherwise.
func (t *Transaction) Counterpart(s *Split) *Split {
	if len(t.Splits) != 2 {
		return nil
	}
	for _, other := range t.Splits {
		if other != s && other.UID != s.UID && other.IsPairOf(s) {
			return other
		}
	}
	return nil
}

// ViewFromOtherSide returns a copy of tx with every split side inverted: the
// same entry as seen from the counter account. tx is not modified.
func ViewFromOtherSide(tx *Transaction) *Transaction {
	c := tx.Clone()
	for _, s := range c.Splits {
		s.Type = s.Type.Invert()
	}
	return c
}
