package service

import (
	"errors"
	"time"

	"github.com/hance08/keabook/internal/price"
	"github.com/hance08/keabook/internal/store"
)

const (
	RootAccountName           = "Root Account"
	EquityAccountName         = "Equity"
	OpeningBalanceAccountName = "Opening Balances"
	OpeningBalanceMemo        = "Opening Balance"
)

var (
	ErrNotInitialized     = errors.New("ledger is not initialized, run 'keabook init' first")
	ErrRootAccount        = errors.New("operation not allowed on the ROOT account")
	ErrAccountCycle       = errors.New("account can't be moved below itself")
	ErrAccountHasSplits   = errors.New("account owns splits")
	ErrReconciled         = errors.New("transaction has reconciled splits")
	ErrOpeningBalanceType = errors.New("only balance sheet accounts can have an opening balance")
)

// Config carries the settings the services read. The default currency is
// only used when a caller leaves the currency empty.
type Config struct {
	DefaultCurrency string
	Now             func() time.Time
}

func (c Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

type Service struct {
	Account     *AccountService
	Transaction *TransactionService
	Price       *PriceService
}

func NewService(repo store.Repository, cfg Config) *Service {
	prices := price.NewResolver(repo)
	return &Service{
		Account:     NewAccountService(repo, cfg),
		Transaction: NewTransactionService(repo, prices, cfg),
		Price:       NewPriceService(repo, cfg),
	}
}
