// Package qif writes the ledger in Quicken Interchange Format. QIF has no
// notion of currency, so one run produces one document per currency.
package qif

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hance08/keabook/internal/export"
	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/money"
	"github.com/hance08/keabook/internal/price"
	"github.com/hance08/keabook/internal/store"
)

// DateFormat is the layout of D lines.
const DateFormat = "2006/1/2"

// currencyMarker starts a currency section in the raw output. It never
// reaches a published file.
const currencyMarker = "*"

// Line prefixes fixed by the format.
const (
	prefixDate        = "D"
	prefixAmount      = "T"
	prefixPayee       = "P"
	prefixMemo        = "M"
	prefixName        = "N"
	prefixType        = "T"
	prefixSplitTarget = "S"
	prefixSplitMemo   = "E"
	prefixSplitAmount = "$"
	endOfEntry        = "^"
)

type Generator struct {
	gw      store.Gateway
	prices  *price.Resolver
	opts    export.Options
	emitted []string
}

func New(gw store.Gateway, opts export.Options) *Generator {
	return &Generator{gw: gw, prices: price.NewResolver(gw), opts: opts}
}

// TransactionUIDs returns the transactions written by the last run.
func (g *Generator) TransactionUIDs() []string { return g.emitted }

// listing is the transactions shown under one account.
type listing struct {
	account *model.Account
	txs     []*model.Transaction
}

// Generate writes every selected transaction once, under the account of its
// first split, grouped by that account's currency. Each currency section
// starts with a marker line consumed by Split.
func (g *Generator) Generate(ctx context.Context, w io.Writer) error {
	log := zerolog.Ctx(ctx)
	g.emitted = nil

	accounts, err := g.accounts(ctx)
	if err != nil {
		return err
	}

	byAccount := make(map[string]*listing)
	for tx, err := range export.Transactions(g.gw.SplitRows(ctx, g.opts.Filter())) {
		if err != nil {
			return err
		}
		if err := export.Cancelled(ctx, "qif"); err != nil {
			return err
		}
		uid := tx.Splits[0].AccountUID
		acc, ok := accounts[uid]
		if !ok {
			return export.Fail("qif", tx.UID, fmt.Errorf("split account %s: %w", uid, model.ErrInvalidAccountReference))
		}
		l := byAccount[uid]
		if l == nil {
			l = &listing{account: acc}
			byAccount[uid] = l
		}
		l.txs = append(l.txs, tx)
	}

	byCurrency := make(map[string][]*listing)
	for _, l := range byAccount {
		byCurrency[l.account.Currency] = append(byCurrency[l.account.Currency], l)
	}
	currencies := make([]string, 0, len(byCurrency))
	for c := range byCurrency {
		currencies = append(currencies, c)
	}
	sort.Strings(currencies)

	bw := bufio.NewWriter(w)
	for _, cur := range currencies {
		listings := byCurrency[cur]
		sort.Slice(listings, func(i, j int) bool {
			return listings[i].account.FullName < listings[j].account.FullName
		})
		line(bw, currencyMarker, cur)
		for _, l := range listings {
			if err := export.Cancelled(ctx, "qif"); err != nil {
				return err
			}
			if err := g.writeListing(ctx, bw, l, accounts); err != nil {
				return err
			}
		}
		log.Debug().Str("currency", cur).Int("accounts", len(listings)).Msg("qif section written")
	}
	if err := bw.Flush(); err != nil {
		return export.Fail("qif", "", err)
	}
	return nil
}

func (g *Generator) accounts(ctx context.Context) (map[string]*model.Account, error) {
	list, err := g.gw.Accounts(ctx)
	if err != nil {
		return nil, export.Fail("accounts", "", err)
	}
	m := make(map[string]*model.Account, len(list))
	for _, a := range list {
		m[a.UID] = a
	}
	return m, nil
}

func (g *Generator) writeListing(ctx context.Context, w *bufio.Writer, l *listing, accounts map[string]*model.Account) error {
	qifType := AccountType(l.account.Type)
	line(w, "!Account")
	line(w, prefixName, l.account.FullName)
	line(w, prefixType, qifType)
	line(w, endOfEntry)
	line(w, "!Type:", qifType)

	sort.SliceStable(l.txs, func(i, j int) bool {
		if !l.txs[i].Timestamp.Equal(l.txs[j].Timestamp) {
			return l.txs[i].Timestamp.Before(l.txs[j].Timestamp)
		}
		return l.txs[i].UID < l.txs[j].UID
	})
	for _, tx := range l.txs {
		if err := g.writeTransaction(ctx, w, l.account, tx, accounts); err != nil {
			return export.Fail("qif", tx.UID, err)
		}
		g.emitted = append(g.emitted, tx.UID)
	}
	return nil
}

// writeTransaction writes one entry seen from acc. T is the signed total of
// acc's splits; every other split becomes an S/E/$ group whose amounts add
// up to T.
func (g *Generator) writeTransaction(ctx context.Context, w *bufio.Writer, acc *model.Account, tx *model.Transaction, accounts map[string]*model.Account) error {
	total := money.Zero(acc.Currency)
	var others []*model.Split
	for _, s := range tx.Splits {
		if s.AccountUID != acc.UID {
			others = append(others, s)
			continue
		}
		v, err := export.ValueIn(ctx, g.prices, s.Value(), acc.Currency)
		if err != nil {
			return err
		}
		total, _ = total.Add(v)
	}

	line(w, prefixDate, tx.Timestamp.Format(DateFormat))
	line(w, prefixAmount, total.PlainString())
	if tx.Description != "" {
		line(w, prefixPayee, clean(tx.Description))
	}
	if tx.Notes != "" {
		line(w, prefixMemo, clean(tx.Notes))
	}
	for _, s := range others {
		target, ok := accounts[s.AccountUID]
		if !ok {
			return fmt.Errorf("split %s: %w", s.UID, model.ErrInvalidAccountReference)
		}
		v, err := export.ValueIn(ctx, g.prices, s.Value().Neg(), acc.Currency)
		if err != nil {
			return fmt.Errorf("split %s: %w", s.UID, err)
		}
		line(w, prefixSplitTarget, category(target))
		if s.Memo != "" {
			line(w, prefixSplitMemo, clean(s.Memo))
		}
		line(w, prefixSplitAmount, v.PlainString())
	}
	line(w, endOfEntry)
	return nil
}

// AccountType maps an account type to the QIF section type.
func AccountType(t model.AccountType) string {
	switch t {
	case model.TypeCash:
		return "Cash"
	case model.TypeCredit:
		return "CCard"
	case model.TypeAsset, model.TypeReceivable:
		return "Oth A"
	case model.TypeLiability, model.TypePayable:
		return "Oth L"
	case model.TypeStock, model.TypeMutual:
		return "Invst"
	default:
		return "Bank"
	}
}

// category names a split target: income and expense accounts are QIF
// categories, every other account is a bracketed transfer account.
func category(a *model.Account) string {
	if a.Type == model.TypeIncome || a.Type == model.TypeExpense {
		return a.FullName
	}
	return "[" + a.FullName + "]"
}

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func line(w *bufio.Writer, parts ...string) {
	for _, p := range parts {
		_, _ = w.WriteString(p)
	}
	_ = w.WriteByte('\n')
}

// Split cuts the raw output at currency markers. Marker lines are dropped.
func (g *Generator) Split(r io.Reader) ([]export.Document, error) {
	var docs []export.Document
	var cur *strings.Builder
	var key string

	flush := func() {
		if cur != nil {
			docs = append(docs, export.Document{Key: key, Data: []byte(cur.String())})
		}
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		text := sc.Text()
		if strings.HasPrefix(text, currencyMarker) {
			flush()
			key = strings.TrimPrefix(text, currencyMarker)
			cur = &strings.Builder{}
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("qif content before the first currency marker: %q", text)
		}
		cur.WriteString(text)
		cur.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()
	return docs, nil
}
