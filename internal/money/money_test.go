package money

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		currency string
		wantNum  string
		wantDen  string
	}{
		{name: "integer", input: "150", currency: "USD", wantNum: "150", wantDen: "1"},
		{name: "decimal reduced", input: "23.50", currency: "USD", wantNum: "47", wantDen: "2"},
		{name: "negative", input: "-0.005", currency: "USD", wantNum: "-1", wantDen: "200"},
		{name: "fraction", input: "-2350/100", currency: "USD", wantNum: "-47", wantDen: "2"},
		{name: "spaces", input: "  12.0 ", currency: "EUR", wantNum: "12", wantDen: "1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := Parse(tc.input, tc.currency)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tc.input, err)
			}
			if got := m.Num().String(); got != tc.wantNum {
				t.Errorf("Num() = %s, want %s", got, tc.wantNum)
			}
			if got := m.Denom().String(); got != tc.wantDen {
				t.Errorf("Denom() = %s, want %s", got, tc.wantDen)
			}
			if m.Currency() != tc.currency {
				t.Errorf("Currency() = %s, want %s", m.Currency(), tc.currency)
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, input := range []string{"", "abc", "1.2.3", "10/0", "x/10", "1/y"} {
		if _, err := Parse(input, "USD"); !errors.Is(err, ErrMalformedAmount) {
			t.Errorf("Parse(%q) error = %v, want ErrMalformedAmount", input, err)
		}
	}
}

func TestNew_ZeroDenominator(t *testing.T) {
	if _, err := New(1, 0, "USD"); !errors.Is(err, ErrMalformedAmount) {
		t.Errorf("New(1, 0) error = %v, want ErrMalformedAmount", err)
	}
}

func TestExactness(t *testing.T) {
	base := MustParse("10.00", "USD")
	half := MustParse("0.005", "USD").MulInt(2)

	sum, err := base.Add(half)
	if err != nil {
		t.Fatal(err)
	}
	if want := MustParse("10.01", "USD"); !sum.Equal(want) {
		t.Fatalf("10.00 + 0.005*2 = %s, want %s", sum.PlainString(), want.PlainString())
	}

	acc := sum
	for i := 0; i < 1000; i++ {
		acc, err = acc.Add(half)
		if err != nil {
			t.Fatal(err)
		}
		acc, err = acc.Sub(half)
		if err != nil {
			t.Fatal(err)
		}
	}
	if !acc.Equal(sum) {
		t.Errorf("after 1000 add/sub cycles got %s/%s, want %s/%s",
			acc.Num(), acc.Denom(), sum.Num(), sum.Denom())
	}
	if acc.Denom().Int64() != 100 {
		t.Errorf("Denom() = %s, want reduced 100", acc.Denom())
	}
}

func TestCurrencyMismatch(t *testing.T) {
	usd := MustParse("1", "USD")
	eur := MustParse("1", "EUR")

	if _, err := usd.Add(eur); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Add error = %v, want ErrCurrencyMismatch", err)
	}
	if _, err := usd.Sub(eur); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Sub error = %v, want ErrCurrencyMismatch", err)
	}
	if _, err := usd.Cmp(eur); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Cmp error = %v, want ErrCurrencyMismatch", err)
	}
	if usd.Equal(eur) {
		t.Error("1 USD must not equal 1 EUR")
	}
}

func TestFractionString(t *testing.T) {
	testCases := []struct {
		name  string
		money Money
		want  string
	}{
		{name: "usd credit", money: MustParse("-23.50", "USD"), want: "-2350/100"},
		{name: "usd debit", money: MustParse("23.5", "USD"), want: "2350/100"},
		{name: "yen has no minor unit", money: MustParse("1200", "JPY"), want: "1200/1"},
		{name: "dinar has three digits", money: MustParse("1.5", "KWD"), want: "1500/1000"},
		{name: "half even rounds down", money: MustParse("0.125", "USD"), want: "12/100"},
		{name: "half even rounds up", money: MustParse("0.135", "USD"), want: "14/100"},
		{name: "negative half even", money: MustParse("-0.125", "USD"), want: "-12/100"},
		{name: "zero", money: Zero("USD"), want: "0/100"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.money.FractionString(); got != tc.want {
				t.Errorf("FractionString() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPlainString(t *testing.T) {
	testCases := []struct {
		name  string
		money Money
		want  string
	}{
		{name: "pads digits", money: MustParse("23.5", "USD"), want: "23.50"},
		{name: "negative", money: MustParse("-23.5", "USD"), want: "-23.50"},
		{name: "third", money: MustParse("1/3", "USD"), want: "0.33"},
		{name: "yen", money: MustParse("10", "JPY"), want: "10"},
		{name: "unknown commodity defaults to two digits", money: MustParse("3.14159", "AAPL"), want: "3.14"},
		{name: "banker's rounding", money: MustParse("2.345", "EUR"), want: "2.34"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.money.PlainString(); got != tc.want {
				t.Errorf("PlainString() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDiv(t *testing.T) {
	m := MustParse("10", "USD")

	third, err := m.Div(decimal.NewFromInt(3))
	if err != nil {
		t.Fatal(err)
	}
	back := third.MulInt(3)
	if !back.Equal(m) {
		t.Errorf("10/3*3 = %s, want exactly 10", back.Rat())
	}

	rounded, err := MustParse("0.25", "USD").DivRound(decimal.NewFromInt(2))
	if err != nil {
		t.Fatal(err)
	}
	if want := MustParse("0.12", "USD"); !rounded.Equal(want) {
		t.Errorf("0.25/2 rounded = %s, want 0.12", rounded.PlainString())
	}

	if _, err := m.Div(decimal.Zero); !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("Div(0) error = %v, want ErrDivisionByZero", err)
	}
}

func TestNegAbs(t *testing.T) {
	m := MustParse("-4.20", "USD")
	if !m.Abs().Equal(MustParse("4.2", "USD")) {
		t.Errorf("Abs() = %s", m.Abs().PlainString())
	}
	if !m.Neg().Equal(MustParse("4.2", "USD")) {
		t.Errorf("Neg() = %s", m.Neg().PlainString())
	}
	if m.Sign() != -1 || !m.IsNegative() {
		t.Errorf("Sign() = %d, want -1", m.Sign())
	}
}

func TestZeroValue(t *testing.T) {
	var m Money
	if !m.IsZero() {
		t.Error("zero value must be zero")
	}
	if got := Zero("USD").FractionString(); got != "0/100" {
		t.Errorf("Zero FractionString() = %q", got)
	}
}
