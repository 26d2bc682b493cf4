package qif_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/hance08/keabook/internal/export"
	"github.com/hance08/keabook/internal/export/qif"
	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/money"
	"github.com/hance08/keabook/internal/store/storetest"
)

var day = time.Date(2025, time.January, 10, 9, 30, 0, 0, time.UTC)

func usd(s string) money.Money { return money.MustParse(s, "USD") }

func documents(t *testing.T, g *qif.Generator) []export.Document {
	t.Helper()
	var buf bytes.Buffer
	if err := g.Generate(context.Background(), &buf); err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	docs, err := g.Split(&buf)
	if err != nil {
		t.Fatalf("Split() failed: %v", err)
	}
	return docs
}

func TestGenerate_SampleScenario(t *testing.T) {
	f := storetest.NewFixture(t, "USD")
	alpha := f.Account("Alpha", model.TypeBank, "USD", nil)
	bravo := f.Account("Bravo", model.TypeExpense, "USD", nil)
	tx := f.Transfer("T1", day, usd("23.50"), alpha, bravo)

	g := qif.New(f.Store, export.Options{})
	docs := documents(t, g)
	if len(docs) != 1 || docs[0].Key != "USD" {
		t.Fatalf("documents = %+v", docs)
	}

	want := strings.Join([]string{
		"!Account",
		"NAlpha",
		"TBank",
		"^",
		"!Type:Bank",
		"D2025/1/10",
		"T-23.50",
		"PT1",
		"SBravo",
		"$-23.50",
		"^",
		"",
	}, "\n")
	if got := string(docs[0].Data); got != want {
		t.Errorf("document =\n%s\nwant\n%s", got, want)
	}
	if uids := g.TransactionUIDs(); len(uids) != 1 || uids[0] != tx.UID {
		t.Errorf("TransactionUIDs() = %v", uids)
	}
}

func TestGenerate_SplitsAndTransfers(t *testing.T) {
	f := storetest.NewFixture(t, "USD")
	bank := f.Account("Bank", model.TypeBank, "USD", nil)
	savings := f.Account("Savings", model.TypeAsset, "USD", nil)
	food := f.Account("Food", model.TypeExpense, "USD", nil)

	credit := model.NewSplit(usd("100"), bank.UID, model.Credit)
	toSavings := model.NewSplit(usd("60"), savings.UID, model.Debit)
	toFood := model.NewSplit(usd("40"), food.UID, model.Debit)
	toFood.Memo = "market\nstall"
	tx := model.NewTransaction("Payday split", "USD", day)
	tx.Notes = "monthly"
	tx.AddSplit(credit)
	tx.AddSplit(toSavings)
	tx.AddSplit(toFood)
	f.Save(tx)

	docs := documents(t, qif.New(f.Store, export.Options{}))
	got := string(docs[0].Data)
	for _, want := range []string{
		"T-100.00\n",
		"Mmonthly\n",
		"S[Savings]\n$-60.00\n",
		"SFood\nEmarket stall\n$-40.00\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("document is missing %q:\n%s", want, got)
		}
	}
	if strings.Count(got, "D2025/1/10") != 1 {
		t.Error("transaction written more than once")
	}
}

func TestGenerate_OneDocumentPerCurrency(t *testing.T) {
	f := storetest.NewFixture(t, "USD")
	usBank := f.Account("US Bank", model.TypeBank, "USD", nil)
	usFood := f.Account("US Food", model.TypeExpense, "USD", nil)
	euBank := f.Account("EU Bank", model.TypeBank, "EUR", nil)
	euFood := f.Account("EU Food", model.TypeExpense, "EUR", nil)
	f.Transfer("burger", day, usd("9"), usBank, usFood)
	f.Transfer("croissant", day, money.MustParse("2.40", "EUR"), euBank, euFood)

	docs := documents(t, qif.New(f.Store, export.Options{}))
	if len(docs) != 2 || docs[0].Key != "EUR" || docs[1].Key != "USD" {
		t.Fatalf("documents = %+v", docs)
	}
	for _, d := range docs {
		if strings.Contains(string(d.Data), "*") {
			t.Errorf("currency marker leaked into %s document", d.Key)
		}
	}
	if !strings.Contains(string(docs[0].Data), "Pcroissant") || strings.Contains(string(docs[0].Data), "Pburger") {
		t.Errorf("EUR document = %s", docs[0].Data)
	}

	fs := afero.NewMemMapFs()
	paths, err := export.NewPublisher(fs, "/exports").Publish(context.Background(), "ledger.qif", qif.New(f.Store, export.Options{}))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 || paths[0] != "/exports/ledger-EUR.qif" || paths[1] != "/exports/ledger-USD.qif" {
		t.Errorf("published %v", paths)
	}
}

func TestGenerate_Selection(t *testing.T) {
	f := storetest.NewFixture(t, "USD")
	bank := f.Account("Bank", model.TypeBank, "USD", nil)
	food := f.Account("Food", model.TypeExpense, "USD", nil)
	old := f.Transfer("old", day, usd("1"), bank, food)
	f.Transfer("new", day.AddDate(0, 1, 0), usd("2"), bank, food)
	if err := f.Store.MarkExported(context.Background(), []string{old.UID}); err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name string
		opts export.Options
		want []string
	}{
		{"unexported by default", export.Options{}, []string{"Pnew"}},
		{"all", export.Options{All: true}, []string{"Pold", "Pnew"}},
		{"since", export.Options{Since: day.AddDate(0, 0, 15)}, []string{"Pnew"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			docs := documents(t, qif.New(f.Store, tc.opts))
			var all string
			for _, d := range docs {
				all += string(d.Data)
			}
			if got := strings.Count(all, "\nP"); got != len(tc.want) {
				t.Errorf("wrote %d transactions, want %d:\n%s", got, len(tc.want), all)
			}
			for _, w := range tc.want {
				if !strings.Contains(all, w) {
					t.Errorf("missing %s", w)
				}
			}
		})
	}
}

func TestGenerate_EmptyLedger(t *testing.T) {
	f := storetest.NewFixture(t, "USD")
	docs := documents(t, qif.New(f.Store, export.Options{}))
	if len(docs) != 0 {
		t.Errorf("documents = %+v, want none", docs)
	}
}

func TestGenerate_UnbalancedAborts(t *testing.T) {
	f := storetest.NewFixture(t, "USD")
	a := f.Account("A", model.TypeBank, "USD", nil)
	b := f.Account("B", model.TypeExpense, "USD", nil)
	bad := f.Transaction("broken", day, "USD",
		model.NewSplit(usd("3"), a.UID, model.Credit),
		model.NewSplit(usd("2"), b.UID, model.Debit),
	)

	err := qif.New(f.Store, export.Options{}).Generate(context.Background(), io.Discard)
	var exportErr *export.Error
	if !errors.Is(err, model.ErrUnbalancedTransaction) || !errors.As(err, &exportErr) || exportErr.UID != bad.UID {
		t.Errorf("Generate() = %v, want unbalanced error for %s", err, bad.UID)
	}
}

func TestSplit_RejectsUnmarkedContent(t *testing.T) {
	g := qif.New(nil, export.Options{})
	if _, err := g.Split(strings.NewReader("!Account\n")); err == nil {
		t.Error("Split() accepted content without a currency marker")
	}
}

func TestAccountType(t *testing.T) {
	testCases := []struct {
		in   model.AccountType
		want string
	}{
		{model.TypeBank, "Bank"},
		{model.TypeCash, "Cash"},
		{model.TypeCredit, "CCard"},
		{model.TypeAsset, "Oth A"},
		{model.TypeReceivable, "Oth A"},
		{model.TypeLiability, "Oth L"},
		{model.TypePayable, "Oth L"},
		{model.TypeStock, "Invst"},
		{model.TypeExpense, "Bank"},
	}
	for _, tc := range testCases {
		if got := qif.AccountType(tc.in); got != tc.want {
			t.Errorf("AccountType(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
