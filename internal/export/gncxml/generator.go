// Package gncxml writes the ledger as an uncompressed or gzipped GnuCash XML
// book.
package gncxml

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"

	"github.com/hance08/keabook/internal/export"
	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/money"
	"github.com/hance08/keabook/internal/price"
	"github.com/hance08/keabook/internal/store"
)

// DateFormat is the layout of every ts:date element.
const DateFormat = "2006-01-02 15:04:05 -0700"

const (
	spaceISO      = "ISO4217"
	spaceOther    = "NONISO"
	spaceTemplate = "template"
)

var namespaces = []struct{ prefix, uri string }{
	{"gnc", "http://www.gnucash.org/XML/gnc"},
	{"act", "http://www.gnucash.org/XML/act"},
	{"book", "http://www.gnucash.org/XML/book"},
	{"cd", "http://www.gnucash.org/XML/cd"},
	{"cmdty", "http://www.gnucash.org/XML/cmdty"},
	{"price", "http://www.gnucash.org/XML/price"},
	{"slot", "http://www.gnucash.org/XML/slot"},
	{"split", "http://www.gnucash.org/XML/split"},
	{"sx", "http://www.gnucash.org/XML/sx"},
	{"trn", "http://www.gnucash.org/XML/trn"},
	{"ts", "http://www.gnucash.org/XML/ts"},
}

// Generator must be given a gateway that reads one consistent snapshot, as
// the count-data header has to match the bodies written after it.
type Generator struct {
	gw        store.Gateway
	prices    *price.Resolver
	bookUID   string
	now       func() time.Time
	loc       *time.Location
	gzip      bool
	templates bool

	emitted []string
}

type Option func(*Generator)

// WithBookUID fixes the otherwise random book GUID.
func WithBookUID(uid string) Option {
	return func(g *Generator) { g.bookUID = uid }
}

// WithClock sets the clock used for date-entered stamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithLocation sets the zone dates are written in. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(g *Generator) { g.loc = loc }
}

func WithGzip(enabled bool) Option {
	return func(g *Generator) { g.gzip = enabled }
}

// WithTemplates controls the template-transactions section. On by default.
func WithTemplates(enabled bool) Option {
	return func(g *Generator) { g.templates = enabled }
}

func New(gw store.Gateway, opts ...Option) *Generator {
	g := &Generator{
		gw:        gw,
		prices:    price.NewResolver(gw),
		now:       time.Now,
		loc:       time.UTC,
		templates: true,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.bookUID == "" {
		g.bookUID = model.NewUID()
	}
	return g
}

// TransactionUIDs returns the posted transactions written by the last run.
func (g *Generator) TransactionUIDs() []string { return g.emitted }

// book is everything read up front, before the first byte is written.
type book struct {
	accounts    []*model.Account
	prices      []*model.Price
	commodities []string
	posted      int
	templates   int
}

func (g *Generator) Generate(ctx context.Context, w io.Writer) error {
	log := zerolog.Ctx(ctx)
	g.emitted = nil

	b, err := g.load(ctx)
	if err != nil {
		return err
	}
	log.Debug().
		Str("book", g.bookUID).
		Int("accounts", len(b.accounts)).
		Int("transactions", b.posted).
		Int("templates", b.templates).
		Msg("writing gnucash book")

	out := w
	var zw *gzip.Writer
	if g.gzip {
		zw = gzip.NewWriter(w)
		out = zw
	}

	if err := g.write(ctx, newWriter(out), b); err != nil {
		if zw != nil {
			_ = zw.Close()
		}
		return err
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return export.Fail("compress", "", err)
		}
	}

	log.Debug().Int("transactions", len(g.emitted)).Msg("gnucash book written")
	return nil
}

func (g *Generator) load(ctx context.Context) (*book, error) {
	accounts, err := g.gw.Accounts(ctx)
	if err != nil {
		return nil, export.Fail("accounts", "", err)
	}
	ordered, err := treeOrder(accounts)
	if err != nil {
		return nil, err
	}
	prices, err := g.gw.Prices(ctx)
	if err != nil {
		return nil, export.Fail("prices", "", err)
	}
	posted, err := g.gw.CountTransactions(ctx, store.RowFilter{})
	if err != nil {
		return nil, export.Fail("count", "", err)
	}

	b := &book{accounts: ordered, prices: prices, posted: posted}
	if g.templates {
		b.templates, err = g.gw.CountTransactions(ctx, store.RowFilter{Templates: store.TemplatesOnly})
		if err != nil {
			return nil, export.Fail("count", "", err)
		}
	}

	seen := make(map[string]bool)
	for _, a := range accounts {
		seen[a.Currency] = true
	}
	for _, p := range prices {
		seen[p.Commodity] = true
		seen[p.Currency] = true
	}
	for c := range seen {
		b.commodities = append(b.commodities, c)
	}
	sort.Strings(b.commodities)
	if b.templates > 0 {
		b.commodities = append(b.commodities, spaceTemplate)
	}
	return b, nil
}

// treeOrder lists the accounts depth first from ROOT so every parent comes
// before its children. Siblings keep the gateway order.
func treeOrder(accounts []*model.Account) ([]*model.Account, error) {
	var root *model.Account
	children := make(map[string][]*model.Account)
	for _, a := range accounts {
		if a.IsRoot() {
			root = a
			continue
		}
		children[a.ParentUID] = append(children[a.ParentUID], a)
	}
	if root == nil {
		return nil, export.Fail("accounts", "", fmt.Errorf("ledger has no ROOT account"))
	}

	ordered := make([]*model.Account, 0, len(accounts))
	var walk func(a *model.Account)
	walk = func(a *model.Account) {
		ordered = append(ordered, a)
		for _, c := range children[a.UID] {
			walk(c)
		}
	}
	walk(root)

	if len(ordered) != len(accounts) {
		reached := make(map[string]bool, len(ordered))
		for _, a := range ordered {
			reached[a.UID] = true
		}
		for _, a := range accounts {
			if !reached[a.UID] {
				return nil, export.Fail("accounts", a.UID, fmt.Errorf("account '%s' is not reachable from ROOT", a.FullName))
			}
		}
	}
	return ordered, nil
}

func (g *Generator) write(ctx context.Context, w *writer, b *book) error {
	w.header()

	attrs := make([]xml.Attr, 0, len(namespaces))
	for _, ns := range namespaces {
		attrs = append(attrs, attr("xmlns:"+ns.prefix, ns.uri))
	}
	w.start("gnc-v2", attrs...)
	w.count("book", 1)

	w.start("gnc:book", attr("version", "2.0.0"))
	w.guid("book:id", g.bookUID)
	w.count("commodity", len(b.commodities))
	w.count("account", len(b.accounts))
	w.count("transaction", b.posted)

	for _, c := range b.commodities {
		writeCommodity(w, c)
	}
	if len(b.prices) > 0 {
		w.start("gnc:pricedb", attr("version", "1"))
		for _, p := range b.prices {
			g.writePrice(w, p)
		}
		w.end("gnc:pricedb")
	}
	for _, a := range b.accounts {
		writeAccount(w, a)
	}
	if err := w.flush(); err != nil {
		return export.Fail("accounts", "", err)
	}

	if err := g.writeTransactions(ctx, w, b.posted); err != nil {
		return err
	}
	if b.templates > 0 {
		if err := g.writeTemplates(ctx, w, b); err != nil {
			return err
		}
	}

	w.end("gnc:book")
	w.end("gnc-v2")
	if err := w.flush(); err != nil {
		return export.Fail("book", g.bookUID, err)
	}
	return nil
}

func (w *writer) count(kind string, n int) {
	w.text("gnc:count-data", strconv.Itoa(n), attr("cd:type", kind))
}

// commodityRef writes the space/id pair that names a commodity.
func commodityRef(w *writer, code string) {
	switch {
	case code == spaceTemplate:
		w.text("cmdty:space", spaceTemplate)
	case money.IsCurrency(code):
		w.text("cmdty:space", spaceISO)
	default:
		w.text("cmdty:space", spaceOther)
	}
	w.text("cmdty:id", code)
}

func writeCommodity(w *writer, code string) {
	w.start("gnc:commodity", attr("version", "2.0.0"))
	commodityRef(w, code)
	switch {
	case code == spaceTemplate:
		w.text("cmdty:name", spaceTemplate)
		w.text("cmdty:xcode", spaceTemplate)
		w.text("cmdty:fraction", "1")
	case !money.IsCurrency(code):
		w.text("cmdty:name", code)
		w.text("cmdty:fraction", strconv.FormatInt(money.Scale(code), 10))
	}
	w.end("gnc:commodity")
}

func (g *Generator) writePrice(w *writer, p *model.Price) {
	p.Reduce()
	w.start("price")
	w.guid("price:id", p.UID)
	w.start("price:commodity")
	commodityRef(w, p.Commodity)
	w.end("price:commodity")
	w.start("price:currency")
	commodityRef(w, p.Currency)
	w.end("price:currency")
	g.date(w, "price:time", p.Timestamp)
	w.optional("price:source", p.Source)
	w.text("price:value", fmt.Sprintf("%d/%d", p.ValueNum, p.ValueDenom))
	w.end("price")
}

func (g *Generator) date(w *writer, name string, t time.Time) {
	w.start(name)
	w.text("ts:date", t.In(g.loc).Format(DateFormat))
	w.end(name)
}
