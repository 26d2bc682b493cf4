package gncxml

import (
	"encoding/xml"
	"io"
)

// writer emits prefixed element names verbatim. The first error sticks and
// every later call is a no-op, so callers check once at the end.
type writer struct {
	enc *xml.Encoder
	err error
}

func newWriter(w io.Writer) *writer {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return &writer{enc: enc}
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func (w *writer) token(t xml.Token) {
	if w.err != nil {
		return
	}
	w.err = w.enc.EncodeToken(t)
}

func (w *writer) header() {
	w.token(xml.ProcInst{Target: "xml", Inst: []byte(`version="1.0" encoding="utf-8"`)})
}

func (w *writer) start(name string, attrs ...xml.Attr) {
	w.token(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs})
}

func (w *writer) end(name string) {
	w.token(xml.EndElement{Name: xml.Name{Local: name}})
}

// text writes <name attrs>value</name>.
func (w *writer) text(name, value string, attrs ...xml.Attr) {
	w.start(name, attrs...)
	if value != "" {
		w.token(xml.CharData(value))
	}
	w.end(name)
}

// optional writes the element only when value is not empty.
func (w *writer) optional(name, value string) {
	if value != "" {
		w.text(name, value)
	}
}

func (w *writer) guid(name, uid string) {
	w.text(name, uid, attr("type", "guid"))
}

func (w *writer) flush() error {
	if w.err != nil {
		return w.err
	}
	return w.enc.Flush()
}
