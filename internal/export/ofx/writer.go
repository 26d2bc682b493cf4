package ofx

import (
	"bufio"
	"strings"
)

const sgmlHeader = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

`

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<?OFX OFXHEADER="200" VERSION="211" SECURITY="NONE" OLDFILEUID="NONE" NEWFILEUID="NONE"?>
`

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\r", " ", "\n", " ")

// writer emits OFX elements. SGML leaves have no end tag, XML ones do.
// Write errors stick in the bufio.Writer and surface on Flush.
type writer struct {
	w      *bufio.Writer
	format Format
}

func (o *writer) header() {
	if o.format == XML {
		_, _ = o.w.WriteString(xmlHeader)
		return
	}
	_, _ = o.w.WriteString(sgmlHeader)
}

func (o *writer) open(name string) {
	_, _ = o.w.WriteString("<" + name + ">\n")
}

func (o *writer) close(name string) {
	_, _ = o.w.WriteString("</" + name + ">\n")
}

func (o *writer) leaf(name, value string) {
	_, _ = o.w.WriteString("<" + name + ">" + escaper.Replace(value))
	if o.format == XML {
		_, _ = o.w.WriteString("</" + name + ">")
	}
	_ = o.w.WriteByte('\n')
}

func (o *writer) status() {
	o.open("STATUS")
	o.leaf("CODE", "0")
	o.leaf("SEVERITY", "INFO")
	o.close("STATUS")
}
