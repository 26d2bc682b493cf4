package gncxml

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hance08/keabook/internal/export"
	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/store"
)

// writeTemplates writes the template-transactions section: a template ROOT,
// one template account per template transaction and the transactions, whose
// splits point at the template account and carry the real account and
// amounts in a sched-xaction frame.
func (g *Generator) writeTemplates(ctx context.Context, w *writer, b *book) error {
	rootUID := model.DerivedUID(b.accounts[0].UID, "template-root")

	var templates []*model.Transaction
	for tx, err := range export.Transactions(g.gw.SplitRows(ctx, store.RowFilter{Templates: store.TemplatesOnly})) {
		if err != nil {
			return err
		}
		if err := export.Cancelled(ctx, "templates"); err != nil {
			return err
		}
		templates = append(templates, tx)
	}

	w.start("gnc:template-transactions")
	writeTemplateAccount(w, "Template Root", rootUID, model.TypeRoot, "")
	for _, tx := range templates {
		writeTemplateAccount(w, templateName(tx), templateAccountUID(tx), model.TypeBank, rootUID)
	}
	for _, tx := range templates {
		accountUID := templateAccountUID(tx)
		err := g.writeTransaction(ctx, w, tx, func(*model.Split) string { return accountUID })
		if err != nil {
			return export.Fail("template", tx.UID, err)
		}
		if err := w.flush(); err != nil {
			return export.Fail("template", tx.UID, err)
		}
	}
	w.end("gnc:template-transactions")

	zerolog.Ctx(ctx).Debug().Int("count", len(templates)).Msg("template transactions written")
	return nil
}

// templateName is the scheduled action the template belongs to, which is
// how GnuCash names template accounts.
func templateName(tx *model.Transaction) string {
	if tx.ScheduledActionUID != "" {
		return tx.ScheduledActionUID
	}
	return tx.UID
}

func templateAccountUID(tx *model.Transaction) string {
	return model.DerivedUID(tx.UID, "template-account")
}
