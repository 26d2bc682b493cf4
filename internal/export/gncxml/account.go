package gncxml

import (
	"strconv"

	"github.com/hance08/keabook/internal/model"
	"github.com/hance08/keabook/internal/money"
)

func writeAccount(w *writer, a *model.Account) {
	w.start("gnc:account", attr("version", "2.0.0"))
	w.text("act:name", a.Name)
	w.guid("act:id", a.UID)
	w.text("act:type", string(a.Type))
	w.start("act:commodity")
	commodityRef(w, a.Currency)
	w.end("act:commodity")
	w.text("act:commodity-scu", strconv.FormatInt(money.Scale(a.Currency), 10))
	w.optional("act:description", a.Description)
	w.slots("act:slots", accountSlots(a))
	if a.ParentUID != "" {
		w.guid("act:parent", a.ParentUID)
	}
	w.end("gnc:account")
}

// writeTemplateAccount writes an account of the template tree. Template
// accounts carry no real commodity.
func writeTemplateAccount(w *writer, name, uid string, typ model.AccountType, parentUID string) {
	w.start("gnc:account", attr("version", "2.0.0"))
	w.text("act:name", name)
	w.guid("act:id", uid)
	w.text("act:type", string(typ))
	w.start("act:commodity")
	commodityRef(w, spaceTemplate)
	w.end("act:commodity")
	w.text("act:commodity-scu", "1")
	if parentUID != "" {
		w.guid("act:parent", parentUID)
	}
	w.end("gnc:account")
}
