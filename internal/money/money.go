// Package money provides an exact rational amount bound to a currency or
// commodity code.
//
// Values are immutable: every operation returns a new Money kept in reduced
// form. Combining two amounts of different currencies never converts
// implicitly, it fails with ErrCurrencyMismatch.
package money

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var (
	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrMalformedAmount  = errors.New("malformed amount")
	ErrDivisionByZero   = errors.New("division by zero")
)

// DefaultFractionDigits is used for commodities unknown to the ISO 4217 table.
const DefaultFractionDigits = 2

// Money is an exact amount of a single currency.
type Money struct {
	value *big.Rat // nil means zero
	cur   string
}

// Zero returns a zero amount of the given currency.
func Zero(currency string) Money {
	return Money{cur: currency}
}

// New builds a Money from a raw numerator and denominator.
func New(num, den int64, currency string) (Money, error) {
	if den == 0 {
		return Money{}, fmt.Errorf("%w: zero denominator", ErrMalformedAmount)
	}
	return Money{value: big.NewRat(num, den), cur: currency}, nil
}

// FromBigRat copies r into a new Money.
func FromBigRat(r *big.Rat, currency string) Money {
	return Money{value: new(big.Rat).Set(r), cur: currency}
}

// FromDecimal converts a decimal amount.
func FromDecimal(d decimal.Decimal, currency string) Money {
	return Money{value: d.Rat(), cur: currency}
}

// Parse reads a locale-free decimal string ("-12.50") or a fraction
// string ("-1250/100").
func Parse(s, currency string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, fmt.Errorf("%w: empty string", ErrMalformedAmount)
	}
	if strings.Contains(s, "/") {
		return ParseFraction(s, currency)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q: %v", ErrMalformedAmount, s, err)
	}
	return FromDecimal(d, currency), nil
}

// ParseFraction reads the "<num>/<den>" form used by GnuCash XML.
func ParseFraction(s, currency string) (Money, error) {
	numStr, denStr, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return Money{}, fmt.Errorf("%w: %q is not a fraction", ErrMalformedAmount, s)
	}
	num, ok := new(big.Int).SetString(strings.TrimSpace(numStr), 10)
	if !ok {
		return Money{}, fmt.Errorf("%w: bad numerator in %q", ErrMalformedAmount, s)
	}
	den, ok := new(big.Int).SetString(strings.TrimSpace(denStr), 10)
	if !ok || den.Sign() == 0 {
		return Money{}, fmt.Errorf("%w: bad denominator in %q", ErrMalformedAmount, s)
	}
	return Money{value: new(big.Rat).SetFrac(num, den), cur: currency}, nil
}

// MustParse is like Parse but panics on error. Meant for constants and tests.
func MustParse(s, currency string) Money {
	m, err := Parse(s, currency)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) rat() *big.Rat {
	if m.value == nil {
		return new(big.Rat)
	}
	return m.value
}

func (m Money) Currency() string { return m.cur }

// Rat returns a copy of the amount as a reduced rational.
func (m Money) Rat() *big.Rat { return new(big.Rat).Set(m.rat()) }

// Num returns the numerator of the reduced fraction.
func (m Money) Num() *big.Int { return new(big.Int).Set(m.rat().Num()) }

// Denom returns the denominator of the reduced fraction. It is always > 0.
func (m Money) Denom() *big.Int { return new(big.Int).Set(m.rat().Denom()) }

func (m Money) Sign() int        { return m.rat().Sign() }
func (m Money) IsZero() bool     { return m.rat().Sign() == 0 }
func (m Money) IsNegative() bool { return m.rat().Sign() < 0 }
func (m Money) IsPositive() bool { return m.rat().Sign() > 0 }

func (m Money) Neg() Money { return Money{value: new(big.Rat).Neg(m.rat()), cur: m.cur} }
func (m Money) Abs() Money { return Money{value: new(big.Rat).Abs(m.rat()), cur: m.cur} }

// WithCurrency re-tags the same amount with another currency. It is the only
// way to move an amount across currencies and is reserved for conversions
// that already applied an exchange rate.
func (m Money) WithCurrency(currency string) Money {
	return Money{value: m.Rat(), cur: currency}
}

func (m Money) check(n Money) error {
	if m.cur != n.cur {
		return fmt.Errorf("%w: %s != %s", ErrCurrencyMismatch, m.cur, n.cur)
	}
	return nil
}

func (m Money) Add(n Money) (Money, error) {
	if err := m.check(n); err != nil {
		return Money{}, err
	}
	return Money{value: new(big.Rat).Add(m.rat(), n.rat()), cur: m.cur}, nil
}

func (m Money) Sub(n Money) (Money, error) {
	if err := m.check(n); err != nil {
		return Money{}, err
	}
	return Money{value: new(big.Rat).Sub(m.rat(), n.rat()), cur: m.cur}, nil
}

// Cmp compares two amounts of the same currency.
func (m Money) Cmp(n Money) (int, error) {
	if err := m.check(n); err != nil {
		return 0, err
	}
	return m.rat().Cmp(n.rat()), nil
}

// Equal reports whether both currency and value are identical.
func (m Money) Equal(n Money) bool {
	return m.cur == n.cur && m.rat().Cmp(n.rat()) == 0
}

// Mul multiplies by a plain number.
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{value: new(big.Rat).Mul(m.rat(), factor.Rat()), cur: m.cur}
}

func (m Money) MulInt(factor int64) Money {
	return Money{value: new(big.Rat).Mul(m.rat(), new(big.Rat).SetInt64(factor)), cur: m.cur}
}

// MulRat multiplies by an exact rate.
func (m Money) MulRat(rate *big.Rat) Money {
	return Money{value: new(big.Rat).Mul(m.rat(), rate), cur: m.cur}
}

// Div divides by a plain number without any rounding.
func (m Money) Div(divisor decimal.Decimal) (Money, error) {
	if divisor.IsZero() {
		return Money{}, ErrDivisionByZero
	}
	return Money{value: new(big.Rat).Quo(m.rat(), divisor.Rat()), cur: m.cur}, nil
}

// DivRound divides and coerces the result to the currency fraction digits
// with banker's rounding.
func (m Money) DivRound(divisor decimal.Decimal) (Money, error) {
	q, err := m.Div(divisor)
	if err != nil {
		return Money{}, err
	}
	return q.Round(q.FractionDigits()), nil
}

// Round coerces the amount to the given number of fraction digits using
// round-half-even.
func (m Money) Round(digits int) Money {
	q := scaled(m.rat(), digits)
	return Money{value: new(big.Rat).SetFrac(q, pow10(digits)), cur: m.cur}
}

// FractionDigits returns the number of minor-unit digits of the currency.
func (m Money) FractionDigits() int { return FractionDigits(m.cur) }

// PlainString returns a locale-free decimal string with the currency's
// canonical fraction digits, e.g. "-23.50".
func (m Money) PlainString() string {
	return m.PlainStringScale(m.FractionDigits())
}

// PlainStringScale is PlainString with an explicit number of digits.
func (m Money) PlainStringScale(digits int) string {
	q := scaled(m.rat(), digits)
	return decimal.NewFromBigInt(q, -int32(digits)).StringFixed(int32(digits))
}

// FractionString returns "<value*scale>/<scale>" with scale being
// 10^FractionDigits of the currency, e.g. "-2350/100".
func (m Money) FractionString() string {
	return m.FractionStringScale(m.FractionDigits())
}

// FractionStringScale is FractionString with an explicit number of digits,
// used when the denominator comes from another currency.
func (m Money) FractionStringScale(digits int) string {
	return scaled(m.rat(), digits).String() + "/" + pow10(digits).String()
}

// String formats the amount for display using the currency template.
func (m Money) String() string {
	c := gomoney.GetCurrency(m.cur)
	if c == nil {
		return m.PlainString() + " " + m.cur
	}
	minor := scaled(m.rat(), c.Fraction)
	if !minor.IsInt64() {
		return m.PlainString() + " " + m.cur
	}
	return c.Formatter().Format(minor.Int64())
}

// FractionDigits returns the ISO 4217 minor unit digits of code, or
// DefaultFractionDigits for unknown commodities.
func FractionDigits(code string) int {
	if c := gomoney.GetCurrency(code); c != nil {
		return c.Fraction
	}
	return DefaultFractionDigits
}

// Scale returns 10^FractionDigits(code).
func Scale(code string) int64 {
	return pow10(FractionDigits(code)).Int64()
}

// IsCurrency reports whether code is a known ISO 4217 currency rather than
// a free-form commodity.
func IsCurrency(code string) bool {
	return gomoney.GetCurrency(code) != nil
}
