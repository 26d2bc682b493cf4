package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hance08/keabook/internal/balance"
	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/money"
	"github.com/hance08/keabook/internal/price"
	"github.com/hance08/keabook/internal/service"
	"github.com/hance08/keabook/internal/store"
	"github.com/hance08/keabook/internal/store/storetest"
)

var day = time.Date(2025, time.January, 10, 9, 30, 0, 0, time.UTC)

func usd(s string) money.Money { return money.MustParse(s, "USD") }

type ledger struct {
	t     *testing.T
	ctx   context.Context
	store *store.Store
	svc   *service.Service
}

func newLedger(t *testing.T) *ledger {
	t.Helper()
	s := storetest.New(t)
	l := &ledger{
		t:     t,
		ctx:   context.Background(),
		store: s,
		svc:   service.NewService(s, service.Config{DefaultCurrency: "USD", Now: func() time.Time { return day }}),
	}
	if _, err := l.svc.Account.InitRoot(l.ctx, ""); err != nil {
		t.Fatalf("InitRoot() failed: %v", err)
	}
	return l
}

func (l *ledger) account(name string, typ model.AccountType, parent string) *model.Account {
	l.t.Helper()
	acc, err := l.svc.Account.Create(l.ctx, service.AccountInput{Name: name, Type: typ, Parent: parent})
	if err != nil {
		l.t.Fatalf("Create(%s) failed: %v", name, err)
	}
	return acc
}

func (l *ledger) fullName(uid string) string {
	l.t.Helper()
	acc, err := l.store.Account(l.ctx, uid)
	if err != nil {
		l.t.Fatal(err)
	}
	return acc.FullName
}

func TestInitRoot(t *testing.T) {
	l := newLedger(t)

	root, err := l.svc.Account.Root(l.ctx)
	if err != nil || root.Currency != "USD" || root.Name != service.RootAccountName {
		t.Fatalf("Root() = %+v, %v", root, err)
	}
	again, err := l.svc.Account.InitRoot(l.ctx, "EUR")
	if err != nil || again.UID != root.UID {
		t.Errorf("second InitRoot() = %+v, %v", again, err)
	}

	opening, err := l.svc.Account.Resolve(l.ctx, "Equity:Opening Balances")
	if err != nil {
		t.Fatalf("opening balance account missing: %v", err)
	}
	if opening.Type != model.TypeEquity || opening.Placeholder {
		t.Errorf("opening balance account = %+v", opening)
	}
	if err := l.svc.Account.Verify(l.ctx); err != nil {
		t.Errorf("Verify() on a fresh ledger = %v", err)
	}
}

func TestAccount_NotInitialized(t *testing.T) {
	svc := service.NewService(storetest.New(t), service.Config{DefaultCurrency: "USD"})
	_, err := svc.Account.Create(context.Background(), service.AccountInput{Name: "Bank", Type: model.TypeBank})
	if !errors.Is(err, service.ErrNotInitialized) {
		t.Errorf("Create() = %v, want ErrNotInitialized", err)
	}
}

func TestAccount_Create(t *testing.T) {
	l := newLedger(t)
	l.account("Assets", model.TypeAsset, "")

	testCases := []struct {
		name    string
		in      service.AccountInput
		want    string
		wantErr error
	}{
		{
			name: "nested with default currency",
			in:   service.AccountInput{Name: "Bank", Type: model.TypeBank, Parent: "Assets"},
			want: "Assets:Bank",
		},
		{
			name:    "duplicate",
			in:      service.AccountInput{Name: "Bank", Type: model.TypeBank, Parent: "Assets"},
			wantErr: store.ErrAccountExists,
		},
		{
			name:    "unknown parent",
			in:      service.AccountInput{Name: "Bank", Type: model.TypeBank, Parent: "Nowhere"},
			wantErr: model.ErrInvalidAccountReference,
		},
		{
			name:    "second root",
			in:      service.AccountInput{Name: "Other", Type: model.TypeRoot},
			wantErr: service.ErrRootAccount,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			acc, err := l.svc.Account.Create(l.ctx, tc.in)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Create() = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() failed: %v", err)
			}
			if acc.FullName != tc.want || acc.Currency != "USD" {
				t.Errorf("Create() = %+v", acc)
			}
		})
	}

	if _, err := l.svc.Account.Create(l.ctx, service.AccountInput{Name: "a:b", Type: model.TypeBank}); err == nil {
		t.Error("Create() accepted a name containing the separator")
	}
}

func TestAccount_DefaultTransferAccount(t *testing.T) {
	l := newLedger(t)
	bank := l.account("Bank", model.TypeBank, "")
	l.account("Old Bank", model.TypeBank, "")

	card, err := l.svc.Account.Create(l.ctx, service.AccountInput{Name: "Card", Type: model.TypeCredit, DefaultTransferAccount: "Bank"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if card.DefaultTransferAccountUID != bank.UID {
		t.Errorf("default transfer = %q, want %q", card.DefaultTransferAccountUID, bank.UID)
	}
	stored, err := l.store.Account(l.ctx, card.UID)
	if err != nil || stored.DefaultTransferAccountUID != bank.UID {
		t.Errorf("stored default transfer = %+v, %v", stored, err)
	}

	if _, err := l.svc.Account.Create(l.ctx, service.AccountInput{Name: "Loan", Type: model.TypeLiability, DefaultTransferAccount: "Nowhere"}); !errors.Is(err, model.ErrInvalidAccountReference) {
		t.Errorf("Create() with an unknown transfer account = %v", err)
	}

	wallet, err := l.svc.Account.Create(l.ctx, service.AccountInput{Name: "Wallet", Type: model.TypeCash, DefaultTransferAccount: "Old Bank"})
	if err != nil {
		t.Fatal(err)
	}
	old, _ := l.svc.Account.Resolve(l.ctx, "Old Bank")
	if err := l.svc.Account.Delete(l.ctx, old.UID, ""); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	got, err := l.store.Account(l.ctx, wallet.UID)
	if err != nil || got.DefaultTransferAccountUID != "" {
		t.Errorf("default transfer after delete = %+v, %v", got, err)
	}
	if err := l.svc.Account.Verify(l.ctx); err != nil {
		t.Errorf("Verify() = %v", err)
	}
}

func TestAccount_RenameAndMove(t *testing.T) {
	l := newLedger(t)
	l.account("Assets", model.TypeAsset, "")
	bank := l.account("Bank", model.TypeBank, "Assets")
	checking := l.account("Checking", model.TypeBank, "Assets:Bank")
	other := l.account("Other", model.TypeAsset, "")

	if err := l.svc.Account.Rename(l.ctx, bank.UID, "Banks"); err != nil {
		t.Fatalf("Rename() failed: %v", err)
	}
	if got := l.fullName(checking.UID); got != "Assets:Banks:Checking" {
		t.Errorf("after rename, child full name = %q", got)
	}

	if err := l.svc.Account.Move(l.ctx, bank.UID, other.UID); err != nil {
		t.Fatalf("Move() failed: %v", err)
	}
	if got := l.fullName(checking.UID); got != "Other:Banks:Checking" {
		t.Errorf("after move, child full name = %q", got)
	}

	if err := l.svc.Account.Move(l.ctx, bank.UID, ""); err != nil {
		t.Fatalf("Move() to top level failed: %v", err)
	}
	if got := l.fullName(checking.UID); got != "Banks:Checking" {
		t.Errorf("after move to top, child full name = %q", got)
	}

	for _, target := range []string{bank.UID, checking.UID} {
		if err := l.svc.Account.Move(l.ctx, bank.UID, target); !errors.Is(err, service.ErrAccountCycle) {
			t.Errorf("Move() below %s = %v, want ErrAccountCycle", target, err)
		}
	}
	if got := l.fullName(checking.UID); got != "Banks:Checking" {
		t.Errorf("failed move changed the tree: %q", got)
	}

	if err := l.svc.Account.Verify(l.ctx); err != nil {
		t.Errorf("Verify() = %v", err)
	}
}

func TestAccount_SetPlaceholder(t *testing.T) {
	l := newLedger(t)
	bank := l.account("Bank", model.TypeBank, "")
	l.account("Food", model.TypeExpense, "")
	group := l.account("Group", model.TypeAsset, "")

	if err := l.svc.Account.SetPlaceholder(l.ctx, group.UID, true); err != nil {
		t.Fatalf("SetPlaceholder() failed: %v", err)
	}
	if _, err := l.svc.Transaction.Quick(l.ctx, service.QuickEntry{Description: "lunch", Amount: usd("12"), From: "Bank", To: "Food"}); err != nil {
		t.Fatal(err)
	}
	if err := l.svc.Account.SetPlaceholder(l.ctx, bank.UID, true); !errors.Is(err, service.ErrAccountHasSplits) {
		t.Errorf("SetPlaceholder() on an account with splits = %v", err)
	}
}

func TestAccount_Delete(t *testing.T) {
	l := newLedger(t)
	bank := l.account("Bank", model.TypeBank, "")
	savings := l.account("Savings", model.TypeBank, "")
	l.account("Food", model.TypeExpense, "")
	sub := l.account("Sub", model.TypeBank, "Bank")
	if _, err := l.svc.Transaction.Quick(l.ctx, service.QuickEntry{Description: "lunch", Amount: usd("12"), From: "Bank", To: "Food"}); err != nil {
		t.Fatal(err)
	}

	if err := l.svc.Account.Delete(l.ctx, bank.UID, ""); !errors.Is(err, service.ErrAccountHasSplits) {
		t.Fatalf("Delete() without destination = %v", err)
	}
	if err := l.svc.Account.Delete(l.ctx, bank.UID, "Bank"); !errors.Is(err, model.ErrInvalidAccountReference) {
		t.Fatalf("Delete() into itself = %v", err)
	}

	if err := l.svc.Account.Delete(l.ctx, bank.UID, "Savings"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := l.store.Account(l.ctx, bank.UID); !errors.Is(err, store.ErrRecordNotFound) {
		t.Errorf("account still present: %v", err)
	}
	if got := l.fullName(sub.UID); got != "Sub" {
		t.Errorf("child was not re-parented: %q", got)
	}

	bal, err := balance.New(l.store).Balance(l.ctx, savings.UID, nil, nil)
	if err != nil || !bal.Equal(usd("-12")) {
		t.Errorf("splits not moved: balance = %v, %v", bal, err)
	}

	root, _ := l.svc.Account.Root(l.ctx)
	if err := l.svc.Account.Delete(l.ctx, root.UID, ""); !errors.Is(err, service.ErrRootAccount) {
		t.Errorf("Delete(ROOT) = %v", err)
	}
}

func TestAccount_VerifyReportsEveryProblem(t *testing.T) {
	l := newLedger(t)
	bank := l.account("Bank", model.TypeBank, "")
	food := l.account("Food", model.TypeExpense, "")
	if _, err := l.svc.Transaction.Quick(l.ctx, service.QuickEntry{Description: "lunch", Amount: usd("1"), From: "Bank", To: "Food"}); err != nil {
		t.Fatal(err)
	}

	bank.Placeholder = true
	food.FullName = "Wrong"
	for _, a := range []*model.Account{bank, food} {
		if err := l.store.UpdateAccount(l.ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	err := l.svc.Account.Verify(l.ctx)
	if err == nil {
		t.Fatal("Verify() found nothing")
	}
	msg := err.Error()
	if !strings.Contains(msg, "2 errors occurred") || !strings.Contains(msg, "'Wrong'") || !strings.Contains(msg, "placeholder account 'Bank'") {
		t.Errorf("Verify() = %v", err)
	}
	if !errors.Is(err, service.ErrAccountHasSplits) {
		t.Errorf("Verify() lost the cause: %v", err)
	}
}

func TestTransaction_Create(t *testing.T) {
	l := newLedger(t)
	bank := l.account("Bank", model.TypeBank, "")
	food := l.account("Food", model.TypeExpense, "")
	group, err := l.svc.Account.Create(l.ctx, service.AccountInput{Name: "Group", Type: model.TypeExpense, Placeholder: true})
	if err != nil {
		t.Fatal(err)
	}
	euros, err := l.svc.Account.Create(l.ctx, service.AccountInput{Name: "Euros", Type: model.TypeBank, Currency: "EUR"})
	if err != nil {
		t.Fatal(err)
	}
	root, _ := l.svc.Account.Root(l.ctx)

	build := func(splits ...*model.Split) *model.Transaction {
		tx := model.NewTransaction("test", "USD", time.Time{})
		for _, s := range splits {
			tx.AddSplit(s)
		}
		return tx
	}

	testCases := []struct {
		name    string
		tx      *model.Transaction
		wantErr error
	}{
		{
			name: "balanced",
			tx:   build(model.NewSplit(usd("5"), bank.UID, model.Credit), model.NewSplit(usd("5"), food.UID, model.Debit)),
		},
		{
			name:    "unbalanced",
			tx:      build(model.NewSplit(usd("5"), bank.UID, model.Credit), model.NewSplit(usd("4"), food.UID, model.Debit)),
			wantErr: model.ErrUnbalancedTransaction,
		},
		{
			name:    "unknown account",
			tx:      build(model.NewSplit(usd("5"), bank.UID, model.Credit), model.NewSplit(usd("5"), "nope", model.Debit)),
			wantErr: model.ErrInvalidAccountReference,
		},
		{
			name:    "placeholder account",
			tx:      build(model.NewSplit(usd("5"), bank.UID, model.Credit), model.NewSplit(usd("5"), group.UID, model.Debit)),
			wantErr: model.ErrInvalidAccountReference,
		},
		{
			name:    "root account",
			tx:      build(model.NewSplit(usd("5"), bank.UID, model.Credit), model.NewSplit(usd("5"), root.UID, model.Debit)),
			wantErr: model.ErrInvalidAccountReference,
		},
		{
			name:    "no splits",
			tx:      build(),
			wantErr: model.ErrNoSplits,
		},
		{
			name:    "foreign split without a price",
			tx:      build(model.NewSplit(money.MustParse("4", "EUR"), euros.UID, model.Credit), model.NewSplit(usd("5"), food.UID, model.Debit)),
			wantErr: price.ErrMissingPrice,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := l.svc.Transaction.Create(l.ctx, tc.tx)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Create() = %v, want %v", err, tc.wantErr)
				}
				if _, err := l.store.Transaction(l.ctx, tc.tx.UID); !errors.Is(err, store.ErrRecordNotFound) {
					t.Errorf("rejected transaction was stored: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() failed: %v", err)
			}
			got, err := l.svc.Transaction.Get(l.ctx, tc.tx.UID)
			if err != nil || !got.Timestamp.Equal(day) || len(got.Splits) != 2 {
				t.Errorf("Get() = %+v, %v", got, err)
			}
		})
	}
}

func TestTransaction_ForeignSplitWithPrice(t *testing.T) {
	l := newLedger(t)
	euros, err := l.svc.Account.Create(l.ctx, service.AccountInput{Name: "Euros", Type: model.TypeBank, Currency: "EUR"})
	if err != nil {
		t.Fatal(err)
	}
	food := l.account("Food", model.TypeExpense, "")

	// Only the USD -> EUR direction is recorded; either direction is enough.
	if _, err := l.svc.Price.Add(l.ctx, "USD", "EUR", "0.8", day); err != nil {
		t.Fatal(err)
	}
	tx := model.NewTransaction("dinner abroad", "USD", day)
	tx.AddSplit(model.NewSplit(money.MustParse("8", "EUR"), euros.UID, model.Credit))
	tx.AddSplit(model.NewSplit(usd("10"), food.UID, model.Debit))
	if err := l.svc.Transaction.Create(l.ctx, tx); err != nil {
		t.Errorf("Create() = %v", err)
	}
}

func TestTransaction_SplitCurrencies(t *testing.T) {
	l := newLedger(t)
	euros, err := l.svc.Account.Create(l.ctx, service.AccountInput{Name: "Euros", Type: model.TypeBank, Currency: "EUR"})
	if err != nil {
		t.Fatal(err)
	}
	cafe, err := l.svc.Account.Create(l.ctx, service.AccountInput{Name: "Cafe", Type: model.TypeExpense, Currency: "EUR"})
	if err != nil {
		t.Fatal(err)
	}
	food := l.account("Food", model.TypeExpense, "")
	if _, err := l.svc.Price.Add(l.ctx, "EUR", "USD", "1.10", day); err != nil {
		t.Fatal(err)
	}

	build := func(splits ...*model.Split) *model.Transaction {
		tx := model.NewTransaction("abroad", "USD", day)
		for _, s := range splits {
			tx.AddSplit(s)
		}
		return tx
	}
	eur := func(s string) money.Money { return money.MustParse(s, "EUR") }

	testCases := []struct {
		name    string
		tx      *model.Transaction
		wantErr error
	}{
		{
			name: "shared foreign currency balanced",
			tx:   build(model.NewSplit(eur("10"), cafe.UID, model.Debit), model.NewSplit(eur("10"), euros.UID, model.Credit)),
		},
		{
			name:    "shared foreign currency unbalanced",
			tx:      build(model.NewSplit(eur("10"), cafe.UID, model.Debit), model.NewSplit(eur("3"), euros.UID, model.Credit)),
			wantErr: model.ErrUnbalancedTransaction,
		},
		{
			name:    "amount not in the account currency",
			tx:      build(model.NewSplit(eur("10"), food.UID, model.Debit), model.NewSplit(eur("10"), euros.UID, model.Credit)),
			wantErr: model.ErrInvalidAccountReference,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := l.svc.Transaction.Create(l.ctx, tc.tx)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("Create() failed: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Create() = %v, want %v", err, tc.wantErr)
			}
			if _, err := l.store.Transaction(l.ctx, tc.tx.UID); !errors.Is(err, store.ErrRecordNotFound) {
				t.Errorf("rejected transaction was stored: %v", err)
			}
		})
	}
}

func TestTransaction_ForeignOpeningBalance(t *testing.T) {
	l := newLedger(t)
	euros, err := l.svc.Account.Create(l.ctx, service.AccountInput{Name: "Euros", Type: model.TypeBank, Currency: "EUR"})
	if err != nil {
		t.Fatal(err)
	}

	for range 2 {
		if _, err := l.svc.Transaction.SetOpeningBalance(l.ctx, "Euros", money.MustParse("40", "EUR"), day); err != nil {
			t.Fatalf("SetOpeningBalance() failed: %v", err)
		}
	}

	opening, err := l.svc.Account.Resolve(l.ctx, "Equity:Opening Balances - EUR")
	if err != nil {
		t.Fatalf("EUR opening balance account missing: %v", err)
	}
	if opening.Currency != "EUR" || opening.Type != model.TypeEquity {
		t.Errorf("opening account = %+v", opening)
	}
	agg := balance.New(l.store)
	for acc, want := range map[*model.Account]string{euros: "80.00", opening: "80.00"} {
		got, err := agg.Balance(l.ctx, acc.UID, nil, nil)
		if err != nil || got.PlainString() != want {
			t.Errorf("Balance(%s) = %s, %v, want %s", acc.FullName, got.PlainString(), err, want)
		}
	}
}

func TestTransaction_Quick(t *testing.T) {
	l := newLedger(t)
	alpha := l.account("Alpha", model.TypeBank, "")
	bravo := l.account("Bravo", model.TypeExpense, "")

	tx, err := l.svc.Transaction.Quick(l.ctx, service.QuickEntry{
		Description: "T1",
		Amount:      usd("23.50"),
		From:        "Alpha",
		To:          bravo.UID,
		Memo:        "coffee",
	})
	if err != nil {
		t.Fatalf("Quick() failed: %v", err)
	}
	if len(tx.Splits) != 2 || !tx.Splits[0].IsPairOf(tx.Splits[1]) || tx.Splits[1].Memo != "coffee" {
		t.Errorf("Quick() splits = %+v", tx.Splits)
	}

	agg := balance.New(l.store)
	for acc, want := range map[*model.Account]string{alpha: "-23.50", bravo: "23.50"} {
		got, err := agg.Balance(l.ctx, acc.UID, nil, nil)
		if err != nil || got.PlainString() != want {
			t.Errorf("Balance(%s) = %v, %v, want %s", acc.Name, got.PlainString(), err, want)
		}
	}

	if _, err := l.svc.Transaction.Quick(l.ctx, service.QuickEntry{Amount: usd("1"), From: "Alpha", To: "Nowhere"}); !errors.Is(err, model.ErrInvalidAccountReference) {
		t.Errorf("Quick() to an unknown account = %v", err)
	}
}

func TestTransaction_Update(t *testing.T) {
	l := newLedger(t)
	l.account("Bank", model.TypeBank, "")
	food := l.account("Food", model.TypeExpense, "")
	fun := l.account("Fun", model.TypeExpense, "")

	tx, err := l.svc.Transaction.Quick(l.ctx, service.QuickEntry{Description: "night out", Amount: usd("30"), From: "Bank", To: "Food"})
	if err != nil {
		t.Fatal(err)
	}
	if err := l.store.MarkExported(l.ctx, []string{tx.UID}); err != nil {
		t.Fatal(err)
	}

	edited := tx.Clone()
	edited.Description = "dinner and a movie"
	edited.Splits[1].Amount = usd("18")
	movie := model.NewSplit(usd("12"), fun.UID, model.Debit)
	edited.AddSplit(movie)
	if err := l.svc.Transaction.Update(l.ctx, edited); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	got, err := l.svc.Transaction.Get(l.ctx, tx.UID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Description != "dinner and a movie" || len(got.Splits) != 3 || got.Exported {
		t.Errorf("Get() after update = %+v", got)
	}
	if s := got.SplitsFor(food.UID); len(s) != 1 || !s[0].Amount.Equal(usd("18")) {
		t.Errorf("food split = %+v", s)
	}

	broken := got.Clone()
	broken.Splits = broken.Splits[:2]
	if err := l.svc.Transaction.Update(l.ctx, broken); !errors.Is(err, model.ErrUnbalancedTransaction) {
		t.Fatalf("Update() with unbalanced splits = %v", err)
	}
	if again, _ := l.svc.Transaction.Get(l.ctx, tx.UID); len(again.Splits) != 3 {
		t.Errorf("rejected update changed the transaction: %+v", again)
	}

	missing := model.NewTransaction("ghost", "USD", day)
	if err := l.svc.Transaction.Update(l.ctx, missing); !errors.Is(err, store.ErrRecordNotFound) {
		t.Errorf("Update() of an unknown transaction = %v", err)
	}
}

func TestTransaction_Delete(t *testing.T) {
	l := newLedger(t)
	l.account("Bank", model.TypeBank, "")
	l.account("Food", model.TypeExpense, "")

	tx, err := l.svc.Transaction.Quick(l.ctx, service.QuickEntry{Description: "lunch", Amount: usd("9"), From: "Bank", To: "Food"})
	if err != nil {
		t.Fatal(err)
	}
	reconciled, err := l.svc.Transaction.Quick(l.ctx, service.QuickEntry{Description: "rent", Amount: usd("900"), From: "Bank", To: "Food"})
	if err != nil {
		t.Fatal(err)
	}
	reconciled.Splits[0].ReconcileState = model.Reconciled
	if err := l.store.UpdateTransaction(l.ctx, reconciled); err != nil {
		t.Fatal(err)
	}

	if err := l.svc.Transaction.Delete(l.ctx, tx.UID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := l.svc.Transaction.Get(l.ctx, tx.UID); !errors.Is(err, store.ErrRecordNotFound) {
		t.Errorf("deleted transaction still readable: %v", err)
	}
	if err := l.svc.Transaction.Delete(l.ctx, reconciled.UID); !errors.Is(err, service.ErrReconciled) {
		t.Errorf("Delete() of a reconciled transaction = %v", err)
	}
}

func TestTransaction_SetOpeningBalance(t *testing.T) {
	l := newLedger(t)
	bank := l.account("Bank", model.TypeBank, "")
	card := l.account("Card", model.TypeCredit, "")
	food := l.account("Food", model.TypeExpense, "")

	testCases := []struct {
		name    string
		account *model.Account
		amount  string
		want    string
		wantErr error
	}{
		{name: "asset", account: bank, amount: "1000", want: "1000.00"},
		{name: "liability", account: card, amount: "250.10", want: "250.10"},
		{name: "expense refused", account: food, amount: "5", wantErr: service.ErrOpeningBalanceType},
	}
	agg := balance.New(l.store)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tx, err := l.svc.Transaction.SetOpeningBalance(l.ctx, tc.account.FullName, usd(tc.amount), day)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("SetOpeningBalance() = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SetOpeningBalance() failed: %v", err)
			}
			if tx.Description != service.OpeningBalanceMemo {
				t.Errorf("description = %q", tx.Description)
			}
			got, err := agg.Balance(l.ctx, tc.account.UID, nil, nil)
			if err != nil || got.PlainString() != tc.want {
				t.Errorf("Balance() = %s, %v, want %s", got.PlainString(), err, tc.want)
			}
		})
	}

	if tx, err := l.svc.Transaction.SetOpeningBalance(l.ctx, "Bank", usd("0"), day); tx != nil || err != nil {
		t.Errorf("zero opening balance = %v, %v", tx, err)
	}

	// Equity shows what was put in the books: assets minus liabilities.
	opening, _ := l.svc.Account.Resolve(l.ctx, "Equity:Opening Balances")
	got, err := agg.Balance(l.ctx, opening.UID, nil, nil)
	if err != nil || got.PlainString() != "749.90" {
		t.Errorf("opening balances equity = %s, %v", got.PlainString(), err)
	}
}

func TestPrice_Add(t *testing.T) {
	l := newLedger(t)

	testCases := []struct {
		name      string
		commodity string
		currency  string
		rate      string
		wantNum   int64
		wantDenom int64
		wantErr   bool
	}{
		{name: "decimal", commodity: "eur", currency: "usd", rate: "1.25", wantNum: 5, wantDenom: 4},
		{name: "fraction", commodity: "GBP", currency: "USD", rate: "254/200", wantNum: 127, wantDenom: 100},
		{name: "same commodity", commodity: "USD", currency: "USD", rate: "1", wantErr: true},
		{name: "zero", commodity: "JPY", currency: "USD", rate: "0", wantErr: true},
		{name: "garbage", commodity: "JPY", currency: "USD", rate: "abc", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := l.svc.Price.Add(l.ctx, tc.commodity, tc.currency, tc.rate, time.Time{})
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Add() = %+v, want error", p)
				}
				return
			}
			if err != nil {
				t.Fatalf("Add() failed: %v", err)
			}
			if p.ValueNum != tc.wantNum || p.ValueDenom != tc.wantDenom || !p.Timestamp.Equal(day) {
				t.Errorf("Add() = %+v", p)
			}
		})
	}

	prices, err := l.svc.Price.List(l.ctx)
	if err != nil || len(prices) != 2 {
		t.Errorf("List() = %v, %v", prices, err)
	}
}
