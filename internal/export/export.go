// Package export holds what the interchange-format writers share: the
// generator contract, grouping of split rows into transactions, the typed
// export error and the publisher that makes output visible atomically.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hance08/keabook/internal/store"
)

// Generator writes one export run to w. It must stop at the next
// transaction boundary once ctx is done.
type Generator interface {
	Generate(ctx context.Context, w io.Writer) error
}

// Document is one published file of a multi-document export.
type Document struct {
	// Key is appended to the file stem, e.g. "USD" for "ledger-USD.qif".
	Key  string
	Data []byte
}

// Splitter is implemented by generators whose raw output carries internal
// markers that divide it into several documents.
type Splitter interface {
	Split(r io.Reader) ([]Document, error)
}

// Recorder is implemented by generators that can report which posted
// transactions they emitted, so the caller can flag them as exported.
type Recorder interface {
	TransactionUIDs() []string
}

// Options selects what a QIF or OFX run covers. GnuCash XML always writes
// the whole book.
type Options struct {
	// Since keeps transactions posted at or after this time.
	Since time.Time
	// All disables both Since and the unexported-only default.
	All bool
	// MarkExported flags the emitted transactions after a successful
	// publish.
	MarkExported bool
}

// Filter translates the options into a row filter for posted transactions.
func (o Options) Filter() store.RowFilter {
	var f store.RowFilter
	if o.All {
		return f
	}
	f.UnexportedOnly = true
	if !o.Since.IsZero() {
		since := o.Since
		f.Start = &since
	}
	return f
}

// Error aborts an export run. UID names the transaction or account being
// written when the failure happened, if any.
type Error struct {
	Op  string
	UID string
	Err error
}

func (e *Error) Error() string {
	if e.UID == "" {
		return fmt.Sprintf("export %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("export %s %s: %v", e.Op, e.UID, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Fail wraps err as an *Error unless it already is one.
func Fail(op, uid string, err error) error {
	if err == nil {
		return nil
	}
	var exportErr *Error
	if errors.As(err, &exportErr) {
		return err
	}
	return &Error{Op: op, UID: uid, Err: err}
}

// Cancelled returns a wrapped context error once ctx is done.
func Cancelled(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return &Error{Op: op, Err: err}
	}
	return nil
}
