package model

import (
	"fmt"
	"strings"

	"github.com/hance08/keabook/internal/money"
)

// TransactionType is the side of a split.
type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

// Invert returns the opposite side.
func (t TransactionType) Invert() TransactionType {
	if t == Debit {
		return Credit
	}
	return Debit
}

func (t TransactionType) Valid() bool { return t == Debit || t == Credit }

// ParseTransactionType accepts any letter case.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: got %q", ErrInvalidSplitType, s)
	}
	return t, nil
}

// Reconcile states, as written in GnuCash files.
const (
	NotReconciled = "n"
	Cleared       = "c"
	Reconciled    = "y"
)

// Split is one leg of a transaction. Amount is always a non-negative
// magnitude; the effect on the account comes from Type.
type Split struct {
	UID            string
	TransactionUID string
	AccountUID     string
	Amount         money.Money
	Type           TransactionType
	Memo           string
	ReconcileState string
}

// NewSplit stores the magnitude of amount. A negative amount is taken as
// the opposite side.
func NewSplit(amount money.Money, accountUID string, typ TransactionType) *Split {
	if amount.IsNegative() {
		typ = typ.Invert()
	}
	return &Split{
		UID:            NewUID(),
		AccountUID:     accountUID,
		Amount:         amount.Abs(),
		Type:           typ,
		ReconcileState: NotReconciled,
	}
}

// Value returns the amount signed with the ledger convention: debits are
// positive, credits negative. Transactions balance when these sum to zero.
func (s *Split) Value() money.Money {
	if s.Type == Credit {
		return s.Amount.Neg()
	}
	return s.Amount
}

// Effect returns the signed change the split makes to the displayed balance
// of an account with the given polarity.
func (s *Split) Effect(p Polarity) money.Money {
	if p == CreditNormal {
		return s.Value().Neg()
	}
	return s.Value()
}

// CreatePair builds the opposite split of identical magnitude in another
// account. It is the second leg of a simple two-account entry.
func (s *Split) CreatePair(accountUID string) *Split {
	return &Split{
		UID:            NewUID(),
		TransactionUID: s.TransactionUID,
		AccountUID:     accountUID,
		Amount:         s.Amount,
		Type:           s.Type.Invert(),
		Memo:           s.Memo,
		ReconcileState: NotReconciled,
	}
}

// IsPairOf reports whether both splits have the same magnitude and
// opposite sides.
func (s *Split) IsPairOf(other *Split) bool {
	if other == nil || s.Type == other.Type {
		return false
	}
	return s.Amount.Abs().Equal(other.Amount.Abs())
}

// Clone returns a deep enough copy: Money values are immutable.
func (s *Split) Clone() *Split {
	c := *s
	return &c
}

// Validate checks the split on its own.
func (s *Split) Validate() error {
	if s.AccountUID == "" {
		return fmt.Errorf("split %s: %w: empty account", s.UID, ErrInvalidAccountReference)
	}
	if !s.Type.Valid() {
		return fmt.Errorf("split %s: %w", s.UID, ErrInvalidSplitType)
	}
	if s.Amount.IsNegative() {
		return fmt.Errorf("split %s: %w", s.UID, ErrNegativeAmount)
	}
	if s.Amount.Currency() == "" {
		return fmt.Errorf("split %s: amount has no currency", s.UID)
	}
	return nil
}
