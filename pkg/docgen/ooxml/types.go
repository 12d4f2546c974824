package ooxml

import (
	"encoding/xml"
	"strings"
)

// Namespace URIs used by WordprocessingML documents.
const (
	NSMain          = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	NSWordML2010    = "http://schemas.microsoft.com/office/word/2010/wordml"
	NSWordML2012    = "http://schemas.microsoft.com/office/word/2012/wordml"
	NSRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// builtinPrefixes resolves well-known namespace URIs when a document does not
// declare its own prefix for them.
var builtinPrefixes = map[string]string{
	NSMain:          "w",
	NSWordML2010:    "w14",
	NSWordML2012:    "w15",
	NSRelationships: "r",
	"http://schemas.openxmlformats.org/markup-compatibility/2006": "mc",
	"http://www.w3.org/XML/1998/namespace":                        "xml",
}

// Namespaces tracks the namespace declarations of a part's root element so
// that captured raw XML can be written back with the prefixes the template
// used. encoding/xml expands prefixes to URIs during decoding; this is the
// reverse mapping.
type Namespaces struct {
	prefixByURI map[string]string
	rootAttrs   []xml.Attr
}

func newNamespaces(rootAttrs []xml.Attr) *Namespaces {
	ns := &Namespaces{
		prefixByURI: make(map[string]string),
		rootAttrs:   rootAttrs,
	}
	for _, attr := range rootAttrs {
		if attr.Name.Space == "xmlns" {
			ns.prefixByURI[attr.Value] = attr.Name.Local
		}
	}
	return ns
}

// Prefix returns the declared prefix for a namespace URI, falling back to the
// conventional WordprocessingML prefixes.
func (ns *Namespaces) Prefix(uri string) string {
	if ns != nil {
		if p, ok := ns.prefixByURI[uri]; ok {
			return p
		}
	}
	return builtinPrefixes[uri]
}

// qname renders an expanded xml.Name back to its prefixed form.
func (ns *Namespaces) qname(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	if n.Space == "xmlns" {
		return "xmlns:" + n.Local
	}
	if p := ns.Prefix(n.Space); p != "" {
		return p + ":" + n.Local
	}
	return n.Local
}

// xmlWriter builds part XML. All typed elements write themselves through it
// with explicit prefixed names, mirroring how the source templates are
// serialized by Word.
type xmlWriter struct {
	b  strings.Builder
	ns *Namespaces
}

func newXMLWriter(ns *Namespaces) *xmlWriter {
	return &xmlWriter{ns: ns}
}

type attr struct {
	name  string
	value string
}

func (w *xmlWriter) start(name string, attrs ...attr) {
	w.b.WriteByte('<')
	w.b.WriteString(name)
	for _, a := range attrs {
		w.writeAttr(a)
	}
	w.b.WriteByte('>')
}

func (w *xmlWriter) empty(name string, attrs ...attr) {
	w.b.WriteByte('<')
	w.b.WriteString(name)
	for _, a := range attrs {
		w.writeAttr(a)
	}
	w.b.WriteString("/>")
}

func (w *xmlWriter) end(name string) {
	w.b.WriteString("</")
	w.b.WriteString(name)
	w.b.WriteByte('>')
}

func (w *xmlWriter) text(s string) {
	xml.EscapeText(&w.b, []byte(s))
}

func (w *xmlWriter) raw(s string) {
	w.b.WriteString(s)
}

func (w *xmlWriter) writeAttr(a attr) {
	w.b.WriteByte(' ')
	w.b.WriteString(a.name)
	w.b.WriteString(`="`)
	xml.EscapeText(&w.b, []byte(a.value))
	w.b.WriteByte('"')
}

func (w *xmlWriter) String() string {
	return w.b.String()
}

// captureElement consumes the element opened by start and returns it, with
// its whole subtree, as prefixed XML text. Used for everything the model does
// not type explicitly so unknown content round-trips untouched.
func captureElement(d *xml.Decoder, start xml.StartElement, ns *Namespaces) (string, error) {
	var b strings.Builder
	writeRawStartTag(&b, start, ns)
	depth := 1
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			writeRawStartTag(&b, t, ns)
		case xml.EndElement:
			depth--
			b.WriteString("</")
			b.WriteString(ns.qname(t.Name))
			b.WriteByte('>')
		case xml.CharData:
			xml.EscapeText(&b, []byte(t))
		}
	}
	return b.String(), nil
}

func writeRawStartTag(b *strings.Builder, t xml.StartElement, ns *Namespaces) {
	b.WriteByte('<')
	b.WriteString(ns.qname(t.Name))
	for _, a := range t.Attr {
		b.WriteByte(' ')
		b.WriteString(ns.qname(a.Name))
		b.WriteString(`="`)
		xml.EscapeText(b, []byte(a.Value))
		b.WriteByte('"')
	}
	b.WriteByte('>')
}

// attrValue returns the local-name attribute value from a start element.
func attrValue(t xml.StartElement, local string) string {
	for _, a := range t.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
