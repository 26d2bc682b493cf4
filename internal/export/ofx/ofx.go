// Package ofx writes bank statements in Open Financial Exchange format,
// one statement per account.
package ofx

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hance08/keabook/internal/balance"
	"github.com/hance08/keabook/internal/export"
	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/money"
	"github.com/hance08/keabook/internal/store"
)

// Format selects the OFX 1.x SGML or the OFX 2.x XML dialect.
type Format string

const (
	SGML Format = "sgml"
	XML  Format = "xml"
)

// ParseFormat accepts "sgml" or "xml" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case SGML, XML:
		return f, nil
	}
	return "", fmt.Errorf("unknown OFX format '%s', want sgml or xml", s)
}

// DateFormat is the layout of every OFX date.
const DateFormat = "20060102150405"

// BankID identifies the ledger as the financial institution.
const BankID = "keabook"

// maxNameLength is the NAME element limit of the format.
const maxNameLength = 32

type Generator struct {
	gw     store.Gateway
	agg    *balance.Aggregator
	opts   export.Options
	format Format
	now    func() time.Time
	loc    *time.Location

	emitted []string
}

type Option func(*Generator)

func WithFormat(f Format) Option {
	return func(g *Generator) { g.format = f }
}

// WithClock sets the clock for the server date and the ledger balance date.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(g *Generator) { g.loc = loc }
}

func New(gw store.Gateway, opts export.Options, options ...Option) *Generator {
	g := &Generator{
		gw:     gw,
		opts:   opts,
		format: SGML,
		now:    time.Now,
		loc:    time.UTC,
	}
	for _, opt := range options {
		opt(g)
	}
	g.agg = balance.New(gw)
	return g
}

// TransactionUIDs returns the transactions written by the last run.
func (g *Generator) TransactionUIDs() []string { return g.emitted }

type entry struct {
	tx    *model.Transaction
	split *model.Split
}

type statement struct {
	account *model.Account
	entries []entry
	balance money.Money
}

func (g *Generator) Generate(ctx context.Context, w io.Writer) error {
	log := zerolog.Ctx(ctx)
	g.emitted = nil
	now := g.now()

	list, err := g.gw.Accounts(ctx)
	if err != nil {
		return export.Fail("accounts", "", err)
	}
	accounts := make(map[string]*model.Account, len(list))
	statements := make(map[string]*statement)
	for _, a := range list {
		accounts[a.UID] = a
	}

	// Balances are taken before the rows are read so they describe the same
	// moment as DTASOF.
	for _, a := range list {
		if a.IsRoot() {
			continue
		}
		bal, err := g.agg.Balance(ctx, a.UID, nil, &now)
		if err != nil {
			return export.Fail("balance", a.UID, err)
		}
		statements[a.UID] = &statement{account: a, balance: bal}
	}

	for tx, err := range export.Transactions(g.gw.SplitRows(ctx, g.opts.Filter())) {
		if err != nil {
			return err
		}
		if err := export.Cancelled(ctx, "ofx"); err != nil {
			return err
		}
		for _, s := range tx.Splits {
			st, ok := statements[s.AccountUID]
			if !ok {
				return export.Fail("ofx", tx.UID, fmt.Errorf("split %s: %w", s.UID, model.ErrInvalidAccountReference))
			}
			st.entries = append(st.entries, entry{tx: tx, split: s})
		}
		g.emitted = append(g.emitted, tx.UID)
	}

	var selected []*statement
	for _, st := range statements {
		if len(st.entries) > 0 {
			selected = append(selected, st)
		}
	}
	sort.Slice(selected, func(i, j int) bool {
		return selected[i].account.FullName < selected[j].account.FullName
	})

	ow := &writer{w: bufio.NewWriter(w), format: g.format}
	ow.header()
	ow.open("OFX")
	ow.open("SIGNONMSGSRSV1")
	ow.open("SONRS")
	ow.status()
	ow.leaf("DTSERVER", g.date(now))
	ow.leaf("LANGUAGE", "ENG")
	ow.close("SONRS")
	ow.close("SIGNONMSGSRSV1")

	ow.open("BANKMSGSRSV1")
	for _, st := range selected {
		if err := export.Cancelled(ctx, "ofx"); err != nil {
			return err
		}
		g.writeStatement(ow, st, accounts, now)
		log.Debug().Str("account", st.account.FullName).Int("entries", len(st.entries)).Msg("ofx statement written")
	}
	ow.close("BANKMSGSRSV1")
	ow.close("OFX")

	if err := ow.w.Flush(); err != nil {
		return export.Fail("ofx", "", err)
	}
	return nil
}

func (g *Generator) writeStatement(ow *writer, st *statement, accounts map[string]*model.Account, now time.Time) {
	acc := st.account
	polarity := acc.Type.Polarity()

	sort.SliceStable(st.entries, func(i, j int) bool {
		a, b := st.entries[i].tx, st.entries[j].tx
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		return a.UID < b.UID
	})
	start := st.entries[0].tx.Timestamp
	end := st.entries[len(st.entries)-1].tx.Timestamp

	ow.open("STMTTRNRS")
	ow.leaf("TRNUID", acc.UID)
	ow.status()
	ow.open("STMTRS")
	ow.leaf("CURDEF", acc.Currency)
	bankAccount(ow, "BANKACCTFROM", acc)

	ow.open("BANKTRANLIST")
	ow.leaf("DTSTART", g.date(start))
	ow.leaf("DTEND", g.date(end))
	for _, e := range st.entries {
		amount := e.split.Effect(polarity)
		ow.open("STMTTRN")
		ow.leaf("TRNTYPE", transactionType(amount))
		ow.leaf("DTPOSTED", g.date(e.tx.Timestamp))
		ow.leaf("TRNAMT", amount.PlainString())
		ow.leaf("FITID", e.split.UID)
		if e.tx.Description != "" {
			ow.leaf("NAME", truncate(e.tx.Description, maxNameLength))
		}
		if memo := memoOf(e); memo != "" {
			ow.leaf("MEMO", memo)
		}
		if other := e.tx.Counterpart(e.split); other != nil {
			if counter, ok := accounts[other.AccountUID]; ok {
				bankAccount(ow, "BANKACCTTO", counter)
			}
		}
		ow.close("STMTTRN")
	}
	ow.close("BANKTRANLIST")

	ow.open("LEDGERBAL")
	ow.leaf("BALAMT", st.balance.PlainString())
	ow.leaf("DTASOF", g.date(now))
	ow.close("LEDGERBAL")
	ow.close("STMTRS")
	ow.close("STMTTRNRS")
}

func bankAccount(ow *writer, element string, acc *model.Account) {
	ow.open(element)
	ow.leaf("BANKID", BankID)
	ow.leaf("ACCTID", acc.UID)
	ow.leaf("ACCTTYPE", AccountType(acc.Type))
	ow.close(element)
}

// AccountType maps an account type to an OFX ACCTTYPE.
func AccountType(t model.AccountType) string {
	switch t {
	case model.TypeCredit, model.TypeLiability:
		return "CREDITLINE"
	case model.TypeBank, model.TypeAsset:
		return "SAVINGS"
	case model.TypeMutual, model.TypeStock, model.TypeEquity, model.TypeCurrency:
		return "MONEYMRKT"
	default:
		return "CHECKING"
	}
}

func transactionType(amount money.Money) string {
	if amount.IsNegative() {
		return "DEBIT"
	}
	return "CREDIT"
}

func memoOf(e entry) string {
	if e.split.Memo != "" {
		return e.split.Memo
	}
	return e.tx.Notes
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func (g *Generator) date(t time.Time) string {
	return t.In(g.loc).Format(DateFormat)
}
