package gncxml

import (
	"time"

	"github.com/hance08/keabook/internal/model"
)

type slotKind string

const (
	slotString  slotKind = "string"
	slotGUID    slotKind = "guid"
	slotGDate   slotKind = "gdate"
	slotNumeric slotKind = "numeric"
	slotFrame   slotKind = "frame"
)

// slot is a key/type/value triple. Frames hold nested slots instead of a
// value.
type slot struct {
	key   string
	kind  slotKind
	value string
	frame []slot
}

func (s slot) empty() bool {
	if s.kind == slotFrame {
		return len(s.frame) == 0
	}
	return s.value == ""
}

// slots drops empty values and writes the rest in order under container.
func (w *writer) slots(container string, list []slot) {
	var kept []slot
	for _, s := range list {
		if !s.empty() {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return
	}
	w.start(container)
	w.slotList(kept)
	w.end(container)
}

func (w *writer) slotList(list []slot) {
	for _, s := range list {
		if s.empty() {
			continue
		}
		w.start("slot")
		w.text("slot:key", s.key)
		switch s.kind {
		case slotFrame:
			w.start("slot:value", attr("type", string(s.kind)))
			w.slotList(s.frame)
			w.end("slot:value")
		case slotGDate:
			w.start("slot:value", attr("type", string(s.kind)))
			w.text("gdate", s.value)
			w.end("slot:value")
		default:
			w.text("slot:value", s.value, attr("type", string(s.kind)))
		}
		w.end("slot")
	}
}

func flag(b bool) string {
	if b {
		return "true"
	}
	return ""
}

func accountSlots(a *model.Account) []slot {
	return []slot{
		{key: "color", kind: slotString, value: a.Color},
		{key: "default_transfer_account", kind: slotGUID, value: a.DefaultTransferAccountUID},
		{key: "favorite", kind: slotString, value: flag(a.Favorite)},
		{key: "hidden", kind: slotString, value: flag(a.Hidden)},
		{key: "placeholder", kind: slotString, value: flag(a.Placeholder)},
	}
}

func transactionSlots(tx *model.Transaction, loc *time.Location) []slot {
	return []slot{
		{key: "date-posted", kind: slotGDate, value: tx.Timestamp.In(loc).Format(time.DateOnly)},
		{key: "notes", kind: slotString, value: tx.Notes},
		{key: "exported", kind: slotString, value: flag(tx.Exported)},
		{key: "from-sched-xaction", kind: slotGUID, value: tx.ScheduledActionUID},
	}
}

// schedSlots describes a template split: the real account it will post to
// and its amount as a formula and as a numeric, per side.
func schedSlots(s *model.Split) []slot {
	zero := "0/1"
	credit, debit := zero, zero
	var creditFormula, debitFormula string
	if s.Type == model.Credit {
		credit, creditFormula = s.Amount.FractionString(), s.Amount.PlainString()
	} else {
		debit, debitFormula = s.Amount.FractionString(), s.Amount.PlainString()
	}
	return []slot{{
		key:  "sched-xaction",
		kind: slotFrame,
		frame: []slot{
			{key: "account", kind: slotGUID, value: s.AccountUID},
			{key: "credit-formula", kind: slotString, value: creditFormula},
			{key: "credit-numeric", kind: slotNumeric, value: credit},
			{key: "debit-formula", kind: slotString, value: debitFormula},
			{key: "debit-numeric", kind: slotNumeric, value: debit},
		},
	}}
}
