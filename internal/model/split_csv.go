package model

import (
	"fmt"
	"strings"

	"github.com/hance08/keabook/internal/money"
)

const csvSeparator = ";"

// CSV encodes the split as "<amount>;<currency>;<account-uid>;<DEBIT|CREDIT>[;<memo>]".
// The amount is written exactly: as a decimal when it terminates within the
// currency digits, as a fraction otherwise.
func (s *Split) CSV() string {
	fields := []string{
		exactAmount(s.Amount),
		s.Amount.Currency(),
		s.AccountUID,
		string(s.Type),
	}
	if s.Memo != "" {
		fields = append(fields, s.Memo)
	}
	return strings.Join(fields, csvSeparator)
}

func exactAmount(m money.Money) string {
	digits := m.FractionDigits()
	if m.Round(digits).Equal(m) {
		return m.PlainStringScale(digits)
	}
	return m.Rat().RatString()
}

// ParseSplit decodes a split produced by CSV. A fresh UID is generated.
func ParseSplit(csv string) (*Split, error) {
	return ParseSplitWithUID(csv, "")
}

// ParseSplitWithUID decodes a split and keeps uid when it is not empty.
func ParseSplitWithUID(csv, uid string) (*Split, error) {
	fields := strings.SplitN(csv, csvSeparator, 5)
	if len(fields) < 4 {
		return nil, fmt.Errorf("%w: expected at least 4 fields, got %d in %q", ErrMalformedSplit, len(fields), csv)
	}

	currency := strings.TrimSpace(fields[1])
	if currency == "" {
		return nil, fmt.Errorf("%w: empty currency in %q", ErrMalformedSplit, csv)
	}
	amount, err := money.Parse(fields[0], currency)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSplit, err)
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSplit, ErrNegativeAmount)
	}
	accountUID := strings.TrimSpace(fields[2])
	if accountUID == "" {
		return nil, fmt.Errorf("%w: empty account in %q", ErrMalformedSplit, csv)
	}
	typ, err := ParseTransactionType(fields[3])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSplit, err)
	}

	if uid == "" {
		uid = NewUID()
	}
	s := &Split{
		UID:            uid,
		AccountUID:     accountUID,
		Amount:         amount,
		Type:           typ,
		ReconcileState: NotReconciled,
	}
	if len(fields) == 5 {
		s.Memo = fields[4]
	}
	return s, nil
}
