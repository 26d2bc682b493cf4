package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hance08/keabook/internal/export"
	"github.com/hance08/keabook/internal/export/gncxml"
	"github.com/hance08/keabook/internal/export/ofx"
	"github.com/hance08/keabook/internal/export/qif"
	"github.com/hance08/keabook/internal/store"
)

type Format string

const (
	FormatXML Format = "xml"
	FormatQIF Format = "qif"
	FormatOFX Format = "ofx"
)

// DefaultName is the file name used when the caller gives none.
func (f Format) DefaultName(gzip bool) string {
	switch f {
	case FormatXML:
		if gzip {
			return "keabook.gnucash"
		}
		return "keabook.xml"
	default:
		return "keabook." + string(f)
	}
}

type ExportRequest struct {
	Format  Format
	Name    string
	Options export.Options
	// Overwrite is asked before an existing file is replaced. Nil replaces
	// without asking.
	Overwrite export.OverwriteFunc
}

// Export generates the requested file inside one read snapshot, publishes
// it into the configured export directory and, when asked, flags the
// written transactions as exported.
func (a *App) Export(ctx context.Context, req ExportRequest) ([]string, error) {
	log := zerolog.Ctx(ctx)
	if req.Name == "" {
		req.Name = req.Format.DefaultName(a.Config.Export.Gzip)
	}
	pub := export.NewPublisher(a.FS, a.Config.Export.Dir).WithOverwrite(req.Overwrite)

	var (
		paths []string
		uids  []string
	)
	err := a.Store.ReadSnapshot(ctx, func(gw store.Gateway) error {
		gen, err := a.generator(gw, req)
		if err != nil {
			return err
		}
		log.Debug().Str("format", string(req.Format)).Str("name", req.Name).Msg("export started")
		if paths, err = pub.Publish(ctx, req.Name, gen); err != nil {
			return err
		}
		if rec, ok := gen.(export.Recorder); ok {
			uids = rec.TransactionUIDs()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if req.Options.MarkExported {
		if err := a.Store.MarkExported(ctx, uids); err != nil {
			return paths, fmt.Errorf("export published but failed to mark transactions: %w", err)
		}
	}
	log.Debug().Int("files", len(paths)).Int("transactions", len(uids)).Msg("export finished")
	return paths, nil
}

func (a *App) generator(gw store.Gateway, req ExportRequest) (export.Generator, error) {
	switch req.Format {
	case FormatXML:
		return gncxml.New(gw,
			gncxml.WithGzip(a.Config.Export.Gzip),
			gncxml.WithClock(a.Now),
		), nil
	case FormatQIF:
		return qif.New(gw, req.Options), nil
	case FormatOFX:
		format, err := ofx.ParseFormat(a.Config.Export.OFXFormat)
		if err != nil {
			return nil, err
		}
		return ofx.New(gw, req.Options, ofx.WithFormat(format), ofx.WithClock(a.Now)), nil
	}
	return nil, fmt.Errorf("unknown export format '%s'", req.Format)
}

// ParseFormat accepts xml, gnucash, qif or ofx in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatXML, FormatQIF, FormatOFX:
		return f, nil
	case "gnucash":
		return FormatXML, nil
	}
	return "", fmt.Errorf("unknown export format '%s', want xml, qif or ofx", s)
}
