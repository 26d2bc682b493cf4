package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/money"
	"github.com/hance08/keabook/internal/price"
	"github.com/hance08/keabook/internal/store"
)

type TransactionService struct {
	repo   store.Repository
	prices *price.Resolver
	config Config
}

func NewTransactionService(repo store.Repository, prices *price.Resolver, cfg Config) *TransactionService {
	return &TransactionService{repo: repo, prices: prices, config: cfg}
}

// QuickEntry is a simple two-account entry: Amount leaves From and
// arrives in To.
type QuickEntry struct {
	Description string
	Amount      money.Money
	From        string
	To          string
	Memo        string
	Timestamp   time.Time
}

// Create validates tx against the ledger and stores it. A zero timestamp
// means now.
func (ts *TransactionService) Create(ctx context.Context, tx *model.Transaction) error {
	if tx.Timestamp.IsZero() {
		tx.Timestamp = ts.config.now()
	}
	if tx.Currency == "" {
		tx.Currency = ts.config.DefaultCurrency
	}
	if err := ts.validate(ctx, ts.repo, tx); err != nil {
		return err
	}
	if err := ts.repo.CreateTransaction(ctx, tx); err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("uid", tx.UID).Int("splits", len(tx.Splits)).Msg("transaction created")
	return nil
}

// Quick records a QuickEntry as a pair of splits. The accounts may be
// given by UID or full name.
func (ts *TransactionService) Quick(ctx context.Context, in QuickEntry) (*model.Transaction, error) {
	from, err := resolve(ctx, ts.repo, in.From)
	if err != nil {
		return nil, err
	}
	to, err := resolve(ctx, ts.repo, in.To)
	if err != nil {
		return nil, err
	}

	tx := model.NewTransaction(in.Description, in.Amount.Currency(), in.Timestamp)
	credit := model.NewSplit(in.Amount, from.UID, model.Credit)
	credit.Memo = strings.TrimSpace(in.Memo)
	tx.AddSplit(credit)
	tx.AddSplit(credit.CreatePair(to.UID))

	if err := ts.Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func (ts *TransactionService) Get(ctx context.Context, uid string) (*model.Transaction, error) {
	return ts.repo.Transaction(ctx, uid)
}

// Update replaces the header and the splits of an existing transaction in
// one SQL transaction. An edited transaction is exported again by the next
// incremental export.
func (ts *TransactionService) Update(ctx context.Context, tx *model.Transaction) error {
	return ts.repo.ExecTx(ctx, func(repo store.Repository) error {
		old, err := repo.Transaction(ctx, tx.UID)
		if err != nil {
			return err
		}
		if old.Template != tx.Template {
			return fmt.Errorf("transaction %s: can't turn a template into a posted transaction or back", tx.UID)
		}
		for _, s := range tx.Splits {
			s.TransactionUID = tx.UID
		}
		if err := ts.validate(ctx, repo, tx); err != nil {
			return err
		}
		tx.Exported = false
		return repo.UpdateTransaction(ctx, tx)
	})
}

// Delete removes the transaction and its splits. Reconciled transactions
// are kept.
func (ts *TransactionService) Delete(ctx context.Context, uid string) error {
	return ts.repo.ExecTx(ctx, func(repo store.Repository) error {
		tx, err := repo.Transaction(ctx, uid)
		if err != nil {
			return err
		}
		for _, s := range tx.Splits {
			if s.ReconcileState == model.Reconciled {
				return fmt.Errorf("transaction %s can't be deleted: %w", uid, ErrReconciled)
			}
		}
		return repo.DeleteTransaction(ctx, uid)
	})
}

// SetOpeningBalance books amount against the opening balance account so
// that the account shows it as its balance. A zero amount records nothing.
func (ts *TransactionService) SetOpeningBalance(ctx context.Context, accountRef string, amount money.Money, at time.Time) (*model.Transaction, error) {
	if amount.IsZero() {
		return nil, nil
	}
	acc, err := resolve(ctx, ts.repo, accountRef)
	if err != nil {
		return nil, err
	}
	switch acc.Type {
	case model.TypeIncome, model.TypeExpense, model.TypeEquity, model.TypeRoot:
		return nil, fmt.Errorf("account '%s' is %s: %w", acc.FullName, acc.Type, ErrOpeningBalanceType)
	}

	side := model.Debit
	if acc.Type.Polarity() == model.CreditNormal {
		side = model.Credit
	}

	var tx *model.Transaction
	err = ts.repo.ExecTx(ctx, func(repo store.Repository) error {
		opening, err := openingAccount(ctx, repo, amount.Currency())
		if err != nil {
			return fmt.Errorf("can not find the opening balance account, failed to set the balance of '%s': %w", acc.FullName, err)
		}

		split := model.NewSplit(amount, acc.UID, side)
		split.Memo = OpeningBalanceMemo

		tx = model.NewTransaction(OpeningBalanceMemo, amount.Currency(), at)
		if tx.Timestamp.IsZero() {
			tx.Timestamp = ts.config.now()
		}
		tx.AddSplit(split)
		tx.AddSplit(split.CreatePair(opening.UID))

		if err := ts.validate(ctx, repo, tx); err != nil {
			return err
		}
		return repo.CreateTransaction(ctx, tx)
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// openingAccount returns the opening balance account for currency. The one
// created with the ledger holds the ROOT currency; other currencies get a
// sibling named after the currency, created on first use.
func openingAccount(ctx context.Context, repo store.Repository, currency string) (*model.Account, error) {
	fullName := EquityAccountName + model.AccountSeparator + OpeningBalanceAccountName
	opening, err := repo.AccountByFullName(ctx, fullName)
	if err != nil || opening.Currency == currency {
		return opening, err
	}

	sibling, err := repo.AccountByFullName(ctx, fullName+" - "+currency)
	if err == nil {
		return sibling, nil
	}
	if !errors.Is(err, store.ErrRecordNotFound) {
		return nil, err
	}
	equity, err := repo.Account(ctx, opening.ParentUID)
	if err != nil {
		return nil, err
	}
	sibling = model.NewAccount(OpeningBalanceAccountName+" - "+currency, model.TypeEquity, currency)
	sibling.ParentUID = equity.UID
	sibling.FullName = model.BuildFullName(equity, sibling.Name)
	if err := sibling.Validate(); err != nil {
		return nil, err
	}
	if err := repo.CreateAccount(ctx, sibling); err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Debug().Str("account", sibling.FullName).Msg("opening balance account created")
	return sibling, nil
}

// validate checks tx on its own, then against the ledger: every split must
// name an existing account that can hold splits and be in that account's
// currency, and a split in another currency needs a recorded price to the
// transaction currency.
func (ts *TransactionService) validate(ctx context.Context, repo store.Repository, tx *model.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	prices := ts.prices
	if repo != ts.repo {
		prices = price.NewResolver(repo)
	}

	for i, s := range tx.Splits {
		acc, err := repo.Account(ctx, s.AccountUID)
		if err != nil {
			return fmt.Errorf("split #%d: account %s: %w", i+1, s.AccountUID, model.ErrInvalidAccountReference)
		}
		if acc.IsRoot() {
			return fmt.Errorf("split #%d: %w: %w", i+1, ErrRootAccount, model.ErrInvalidAccountReference)
		}
		if acc.Placeholder {
			return fmt.Errorf("split #%d: '%s' is a placeholder: %w", i+1, acc.FullName, model.ErrInvalidAccountReference)
		}
		cur := s.Amount.Currency()
		if cur != acc.Currency {
			return fmt.Errorf("split #%d: amount in %s posted to '%s' held in %s: %w", i+1, cur, acc.FullName, acc.Currency, model.ErrInvalidAccountReference)
		}

		ok, err := prices.Convertible(ctx, cur, tx.Currency)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("split #%d: %w: %s -> %s", i+1, price.ErrMissingPrice, cur, tx.Currency)
		}
	}
	return nil
}
