package ooxml

import (
	"encoding/xml"
	"fmt"
	"io"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// BodyElement is a block-level element of the document body, a table cell, or
// a structured-document-tag content area.
type BodyElement interface {
	isBodyElement()
	write(w *xmlWriter)
	CloneElement() BodyElement
}

// RawBlock is a block-level element preserved verbatim.
type RawBlock struct {
	Content string
}

func (RawBlock) isBodyElement() {}

func (r *RawBlock) write(w *xmlWriter) {
	w.raw(r.Content)
}

// CloneElement implements BodyElement.
func (r *RawBlock) CloneElement() BodyElement {
	return &RawBlock{Content: r.Content}
}

// Document is the parsed main document part (word/document.xml).
type Document struct {
	Body *Body
	ns   *Namespaces
}

// Body holds the block-level content of the document.
type Body struct {
	Elements []BodyElement
	// SectPr is the trailing section-properties element, preserved verbatim.
	SectPr string
}

// Namespaces returns the namespace declarations of the document root.
func (d *Document) Namespaces() *Namespaces {
	return d.ns
}

// Parse reads word/document.xml into the typed model.
func Parse(r io.Reader) (*Document, error) {
	d := xml.NewDecoder(r)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("document has no root element")
		}
		if err != nil {
			return nil, fmt.Errorf("parsing document: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "document" {
			return nil, fmt.Errorf("unexpected root element <%s>", start.Name.Local)
		}
		return parseDocument(d, start)
	}
}

func parseDocument(d *xml.Decoder, root xml.StartElement) (*Document, error) {
	doc := &Document{ns: newNamespaces(root.Attr)}
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return doc, nil
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "body" {
				body, err := parseBody(d, t, doc.ns)
				if err != nil {
					return nil, err
				}
				doc.Body = body
			} else if err := d.Skip(); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if t.Name.Local == "document" {
				return doc, nil
			}
		}
	}
}

func parseBody(d *xml.Decoder, start xml.StartElement, ns *Namespaces) (*Body, error) {
	body := &Body{}
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sectPr":
				raw, err := captureElement(d, t, ns)
				if err != nil {
					return nil, err
				}
				body.SectPr = raw
			default:
				elem, err := parseBodyElement(d, t, ns)
				if err != nil {
					return nil, err
				}
				body.Elements = append(body.Elements, elem)
			}
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return body, nil
			}
		}
	}
}

// parseBodyElement dispatches one block-level element.
func parseBodyElement(d *xml.Decoder, t xml.StartElement, ns *Namespaces) (BodyElement, error) {
	switch t.Name.Local {
	case "p":
		return parseParagraph(d, t, ns)
	case "tbl":
		return parseTable(d, t, ns)
	case "sdt":
		return parseSDT(d, t, ns)
	case "bookmarkStart":
		bm := &BookmarkStart{ID: atoiDefault(attrValue(t, "id"), 0), Name: attrValue(t, "name")}
		if err := d.Skip(); err != nil {
			return nil, err
		}
		return bm, nil
	case "bookmarkEnd":
		bm := &BookmarkEnd{ID: atoiDefault(attrValue(t, "id"), 0)}
		if err := d.Skip(); err != nil {
			return nil, err
		}
		return bm, nil
	default:
		raw, err := captureElement(d, t, ns)
		if err != nil {
			return nil, err
		}
		return &RawBlock{Content: raw}, nil
	}
}

// Marshal serializes the document back to part XML, including the XML header
// and the root element with the attributes the template declared.
func (d *Document) Marshal() ([]byte, error) {
	if d.Body == nil {
		return nil, fmt.Errorf("document has no body")
	}
	w := newXMLWriter(d.ns)
	w.raw(xmlHeader)
	w.raw("<w:document")
	for _, a := range d.ns.rootAttrs {
		w.writeAttr(attr{name: d.ns.qname(a.Name), value: a.Value})
	}
	w.raw(">")
	w.start("w:body")
	for _, el := range d.Body.Elements {
		el.write(w)
	}
	if d.Body.SectPr != "" {
		w.raw(d.Body.SectPr)
	}
	w.end("w:body")
	w.end("w:document")
	return []byte(w.String()), nil
}

// BookmarkStart marks the opening boundary of a named bookmark.
type BookmarkStart struct {
	ID   int
	Name string
}

func (BookmarkStart) isBodyElement() {}

func (b *BookmarkStart) write(w *xmlWriter) {
	w.empty("w:bookmarkStart", attr{"w:id", itoa(b.ID)}, attr{"w:name", b.Name})
}

// CloneElement implements BodyElement.
func (b *BookmarkStart) CloneElement() BodyElement {
	c := *b
	return &c
}

// BookmarkEnd closes the bookmark with the matching id.
type BookmarkEnd struct {
	ID int
}

func (BookmarkEnd) isBodyElement() {}

func (b *BookmarkEnd) write(w *xmlWriter) {
	w.empty("w:bookmarkEnd", attr{"w:id", itoa(b.ID)})
}

// CloneElement implements BodyElement.
func (b *BookmarkEnd) CloneElement() BodyElement {
	c := *b
	return &c
}

func itoa(v int) string {
	return fmt.Sprintf("%d", v)
}

func atoiDefault(s string, def int) int {
	var v int
	if _, err := fmt.Sscanf(s, "%d", &v); err != nil {
		return def
	}
	return v
}
