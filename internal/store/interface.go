package store

import (
	"context"
	"iter"
	"time"

	"github.com/hance08/keabook/internal/model"
)

// Gateway is the read contract the ledger core depends on.
type Gateway interface {
	Account(ctx context.Context, uid string) (*model.Account, error)
	Accounts(ctx context.Context) ([]*model.Account, error)
	Children(ctx context.Context, parentUID string) ([]*model.Account, error)
	CurrencyCode(ctx context.Context, accountUID string) (string, error)

	// Price returns the most recent price recorded for the pair, in that
	// direction only, or ErrRecordNotFound.
	Price(ctx context.Context, commodity, currency string) (*model.Price, error)
	Prices(ctx context.Context) ([]*model.Price, error)

	// SplitRows streams joined transaction/split rows ordered by
	// (transaction uid, timestamp, split position) ascending. The sequence
	// is single-pass.
	SplitRows(ctx context.Context, filter RowFilter) iter.Seq2[SplitRow, error]
	CountTransactions(ctx context.Context, filter RowFilter) (int, error)
}

// Repository is the full persistence contract used by the services.
type Repository interface {
	Gateway

	// Account Operations
	CreateAccount(ctx context.Context, acc *model.Account) error
	UpdateAccount(ctx context.Context, acc *model.Account) error
	DeleteAccount(ctx context.Context, uid string) error
	AccountByFullName(ctx context.Context, fullName string) (*model.Account, error)
	RootAccount(ctx context.Context) (*model.Account, error)
	CountSplits(ctx context.Context, accountUID string) (int, error)
	MoveSplits(ctx context.Context, fromUID, toUID string) error

	// Transaction Operations
	CreateTransaction(ctx context.Context, tx *model.Transaction) error
	Transaction(ctx context.Context, uid string) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, tx *model.Transaction) error
	DeleteTransaction(ctx context.Context, uid string) error
	MarkExported(ctx context.Context, uids []string) error

	// Price Operations
	CreatePrice(ctx context.Context, p *model.Price) error

	ExecTx(ctx context.Context, fn func(Repository) error) error
	ReadSnapshot(ctx context.Context, fn func(Gateway) error) error
	Close() error
}

// TemplateMode selects posted or template transactions.
type TemplateMode int

const (
	PostedOnly TemplateMode = iota
	TemplatesOnly
	AnyTransaction
)

// RowFilter narrows SplitRows. The zero value selects every split of every
// posted transaction.
type RowFilter struct {
	// AccountUID keeps only the splits posted to this account.
	AccountUID string
	// InvolvingAccount keeps every split of the transactions that touch
	// this account.
	InvolvingAccount string
	Start            *time.Time
	End              *time.Time
	Templates        TemplateMode
	UnexportedOnly   bool

	transactionUID string
}

// SplitRow is one split joined with its transaction header.
type SplitRow struct {
	TransactionUID     string
	Description        string
	Notes              string
	Timestamp          time.Time
	Currency           string
	Exported           bool
	Template           bool
	ScheduledActionUID string

	Split model.Split
}

// Header returns the transaction fields of the row without splits.
func (r SplitRow) Header() *model.Transaction {
	return &model.Transaction{
		UID:                r.TransactionUID,
		Description:        r.Description,
		Notes:              r.Notes,
		Timestamp:          r.Timestamp,
		Currency:           r.Currency,
		Exported:           r.Exported,
		Template:           r.Template,
		ScheduledActionUID: r.ScheduledActionUID,
	}
}
