package app

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/hance08/keabook/internal/config"
	"github.com/hance08/keabook/internal/export"
	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/money"
	"github.com/hance08/keabook/internal/service"
	"github.com/hance08/keabook/internal/store"
)

var day = time.Date(2025, time.January, 10, 9, 30, 0, 0, time.UTC)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.NewDefault()
	cfg.Database.Path = filepath.Join(t.TempDir(), "ledger.db")
	cfg.Export.Dir = "/exports"

	a, cleanup, err := NewApp(cfg, store.Migrations)
	if err != nil {
		t.Fatalf("NewApp() failed: %v", err)
	}
	t.Cleanup(cleanup)
	a.FS = afero.NewMemMapFs()
	a.Now = func() time.Time { return day }

	if _, err := a.Service.Account.InitRoot(context.Background(), ""); err != nil {
		t.Fatal(err)
	}
	return a
}

func (a *App) mustAccount(t *testing.T, name string, typ model.AccountType, parent string) *model.Account {
	t.Helper()
	acc, err := a.Service.Account.Create(context.Background(), service.AccountInput{Name: name, Type: typ, Parent: parent})
	if err != nil {
		t.Fatal(err)
	}
	return acc
}

func (a *App) mustQuick(t *testing.T, desc, amount, from, to string) *model.Transaction {
	t.Helper()
	tx, err := a.Service.Transaction.Quick(context.Background(), service.QuickEntry{
		Description: desc,
		Amount:      money.MustParse(amount, "USD"),
		From:        from,
		To:          to,
		Timestamp:   day,
	})
	if err != nil {
		t.Fatal(err)
	}
	return tx
}

func TestExport_Formats(t *testing.T) {
	a := newTestApp(t)
	a.mustAccount(t, "Alpha", model.TypeBank, "")
	a.mustAccount(t, "Bravo", model.TypeExpense, "")
	a.mustQuick(t, "T1", "23.50", "Alpha", "Bravo")

	testCases := []struct {
		format Format
		path   string
		want   string
	}{
		{FormatXML, "/exports/keabook.xml", "<split:value>-2350/100</split:value>"},
		{FormatQIF, "/exports/keabook.qif", "T-23.50"},
		{FormatOFX, "/exports/keabook.ofx", "<TRNAMT>-23.50"},
	}
	for _, tc := range testCases {
		t.Run(string(tc.format), func(t *testing.T) {
			paths, err := a.Export(context.Background(), ExportRequest{Format: tc.format, Options: export.Options{All: true}})
			if err != nil {
				t.Fatalf("Export() failed: %v", err)
			}
			if len(paths) != 1 || paths[0] != tc.path {
				t.Fatalf("Export() paths = %v", paths)
			}
			data, err := afero.ReadFile(a.FS, tc.path)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(string(data), tc.want) {
				t.Errorf("%s does not contain %q", tc.path, tc.want)
			}
		})
	}
}

func TestExport_MarkExported(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	a.mustAccount(t, "Bank", model.TypeBank, "")
	a.mustAccount(t, "Food", model.TypeExpense, "")
	first := a.mustQuick(t, "lunch", "9", "Bank", "Food")

	req := ExportRequest{Format: FormatQIF, Name: "run1.qif", Options: export.Options{MarkExported: true}}
	if paths, err := a.Export(ctx, req); err != nil || len(paths) != 1 {
		t.Fatalf("first Export() = %v, %v", paths, err)
	}
	got, err := a.Store.Transaction(ctx, first.UID)
	if err != nil || !got.Exported {
		t.Fatalf("transaction not marked exported: %+v, %v", got, err)
	}

	req.Name = "run2.qif"
	paths, err := a.Export(ctx, req)
	if err != nil || len(paths) != 0 {
		t.Errorf("second Export() = %v, %v, want nothing new", paths, err)
	}

	a.mustQuick(t, "dinner", "20", "Bank", "Food")
	req.Name = "run3.qif"
	if _, err := a.Export(ctx, req); err != nil {
		t.Fatal(err)
	}
	data, _ := afero.ReadFile(a.FS, "/exports/run3.qif")
	if !strings.Contains(string(data), "Pdinner") || strings.Contains(string(data), "Plunch") {
		t.Errorf("incremental export =\n%s", data)
	}
}

func TestExport_FailureMarksNothing(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	a.mustAccount(t, "Bank", model.TypeBank, "")
	a.mustAccount(t, "Food", model.TypeExpense, "")
	tx := a.mustQuick(t, "lunch", "9", "Bank", "Food")
	a.Config.Export.OFXFormat = "json"

	if _, err := a.Export(ctx, ExportRequest{Format: FormatOFX, Options: export.Options{MarkExported: true}}); err == nil {
		t.Fatal("Export() succeeded with a bad OFX format")
	}
	got, _ := a.Store.Transaction(ctx, tx.UID)
	if got.Exported {
		t.Error("failed export marked the transaction")
	}
	if names, _ := afero.ReadDir(a.FS, "/exports"); len(names) != 0 {
		t.Errorf("files left behind: %v", names)
	}
}

func TestBalances(t *testing.T) {
	a := newTestApp(t)
	a.mustAccount(t, "Assets", model.TypeAsset, "")
	a.mustAccount(t, "Bank", model.TypeBank, "Assets")
	a.mustAccount(t, "Food", model.TypeExpense, "")
	a.mustQuick(t, "lunch", "12.50", "Assets:Bank", "Food")
	if _, err := a.Service.Transaction.SetOpeningBalance(context.Background(), "Assets:Bank", money.MustParse("100", "USD"), day); err != nil {
		t.Fatal(err)
	}

	rows, err := a.Balances(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("Balances() failed: %v", err)
	}

	want := []struct {
		name  string
		depth int
		own   string
		total string
	}{
		{"Assets", 0, "0.00", "87.50"},
		{"Assets:Bank", 1, "87.50", "87.50"},
		{"Equity", 0, "0.00", "100.00"},
		{"Equity:Opening Balances", 1, "100.00", "100.00"},
		{"Food", 0, "12.50", "12.50"},
	}
	if len(rows) != len(want) {
		t.Fatalf("Balances() returned %d rows, want %d", len(rows), len(want))
	}
	for i, w := range want {
		r := rows[i]
		if r.Account.FullName != w.name || r.Depth != w.depth || r.Own.PlainString() != w.own || r.Total.PlainString() != w.total {
			t.Errorf("row %d = %s depth %d own %s total %s, want %+v",
				i, r.Account.FullName, r.Depth, r.Own.PlainString(), r.Total.PlainString(), w)
		}
	}
}

func TestBalances_EndBound(t *testing.T) {
	a := newTestApp(t)
	a.mustAccount(t, "Bank", model.TypeBank, "")
	a.mustAccount(t, "Food", model.TypeExpense, "")
	a.mustQuick(t, "lunch", "12.50", "Bank", "Food")

	dayBefore := day.Add(-24 * time.Hour)
	testCases := []struct {
		name string
		end  *time.Time
		bank string
		food string
	}{
		{"unbounded", nil, "-12.50", "12.50"},
		{"before the lunch", &dayBefore, "0.00", "0.00"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rows, err := a.Balances(context.Background(), "", tc.end)
			if err != nil {
				t.Fatalf("Balances() failed: %v", err)
			}
			want := map[string]string{"Bank": tc.bank, "Food": tc.food}
			for _, r := range rows {
				w, ok := want[r.Account.FullName]
				if !ok {
					continue
				}
				if r.Own.PlainString() != w || r.Total.PlainString() != w {
					t.Errorf("%s own %s total %s, want %s", r.Account.FullName, r.Own.PlainString(), r.Total.PlainString(), w)
				}
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"XML": FormatXML, "gnucash": FormatXML, "qif": FormatQIF, " ofx": FormatOFX} {
		if got, err := ParseFormat(in); err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("csv"); err == nil {
		t.Error("ParseFormat(csv) succeeded")
	}
}

func TestRegister(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	a.mustAccount(t, "Bank", model.TypeBank, "")
	a.mustAccount(t, "Food", model.TypeExpense, "")
	if _, err := a.Service.Transaction.SetOpeningBalance(ctx, "Bank", money.MustParse("50", "USD"), day.Add(-24*time.Hour)); err != nil {
		t.Fatal(err)
	}
	a.mustQuick(t, "lunch", "12.50", "Bank", "Food")
	a.mustQuick(t, "dinner", "20", "Bank", "Food")

	acc, entries, err := a.Register(ctx, "Bank", nil, 0)
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if acc.FullName != "Bank" || len(entries) != 3 {
		t.Fatalf("Register() = %s with %d entries", acc.FullName, len(entries))
	}
	if got := entries[0].Transaction.Description; got != service.OpeningBalanceMemo {
		t.Errorf("first entry = %q, want the opening balance", got)
	}
	if got := entries[2].Running.PlainString(); got != "17.50" {
		t.Errorf("running balance = %s, want 17.50", got)
	}

	_, last, err := a.Register(ctx, "Bank", nil, 1)
	if err != nil || len(last) != 1 || last[0].Effect.PlainString() != "-20.00" {
		t.Errorf("Register(limit 1) = %+v, %v", last, err)
	}
}
