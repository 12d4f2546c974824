package ooxml

import (
	"encoding/xml"
	"strings"
)

// ParagraphChild is an inline-level element of a paragraph.
type ParagraphChild interface {
	isParagraphChild()
	write(w *xmlWriter)
	cloneChild() ParagraphChild
}

// RawParagraphChild preserves inline content the model does not type.
type RawParagraphChild struct {
	Content string
}

func (RawParagraphChild) isParagraphChild() {}

func (r *RawParagraphChild) write(w *xmlWriter) {
	w.raw(r.Content)
}

func (r *RawParagraphChild) cloneChild() ParagraphChild {
	return &RawParagraphChild{Content: r.Content}
}

func (b *BookmarkStart) isParagraphChild() {}

func (b *BookmarkStart) cloneChild() ParagraphChild {
	c := *b
	return &c
}

func (b *BookmarkEnd) isParagraphChild() {}

func (b *BookmarkEnd) cloneChild() ParagraphChild {
	c := *b
	return &c
}

func (r *Run) cloneChild() ParagraphChild {
	return r.Clone()
}

// NumberingReference is a w:numPr: the list instance and indentation level a
// paragraph belongs to.
type NumberingReference struct {
	Level int
	NumID int
}

// ParagraphProperties is a partially typed w:pPr.
type ParagraphProperties struct {
	Style         string
	Numbering     *NumberingReference
	RunProperties *RunProperties
	Raw           []string
}

// IsZero reports whether the properties would serialize to an empty w:pPr.
func (pp *ParagraphProperties) IsZero() bool {
	return pp == nil || (pp.Style == "" && pp.Numbering == nil && pp.RunProperties.IsZero() && len(pp.Raw) == 0)
}

func (pp *ParagraphProperties) write(w *xmlWriter) {
	if pp.IsZero() {
		return
	}
	w.start("w:pPr")
	if pp.Style != "" {
		w.empty("w:pStyle", attr{"w:val", pp.Style})
	}
	if pp.Numbering != nil {
		w.start("w:numPr")
		w.empty("w:ilvl", attr{"w:val", itoa(pp.Numbering.Level)})
		w.empty("w:numId", attr{"w:val", itoa(pp.Numbering.NumID)})
		w.end("w:numPr")
	}
	for _, raw := range pp.Raw {
		w.raw(raw)
	}
	if !pp.RunProperties.IsZero() {
		pp.RunProperties.write(w)
	}
	w.end("w:pPr")
}

// Clone returns a deep copy.
func (pp *ParagraphProperties) Clone() *ParagraphProperties {
	if pp == nil {
		return nil
	}
	c := *pp
	c.Raw = append([]string(nil), pp.Raw...)
	c.RunProperties = pp.RunProperties.Clone()
	if pp.Numbering != nil {
		n := *pp.Numbering
		c.Numbering = &n
	}
	return &c
}

func parseParagraphProperties(d *xml.Decoder, start xml.StartElement, ns *Namespaces) (*ParagraphProperties, error) {
	pp := &ParagraphProperties{}
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pStyle":
				pp.Style = attrValue(t, "val")
				if err := d.Skip(); err != nil {
					return nil, err
				}
			case "numPr":
				ref, err := parseNumberingReference(d, t)
				if err != nil {
					return nil, err
				}
				pp.Numbering = ref
			case "rPr":
				rp, err := parseRunProperties(d, t, ns)
				if err != nil {
					return nil, err
				}
				pp.RunProperties = rp
			default:
				raw, err := captureElement(d, t, ns)
				if err != nil {
					return nil, err
				}
				pp.Raw = append(pp.Raw, raw)
			}
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return pp, nil
			}
		}
	}
}

func parseNumberingReference(d *xml.Decoder, start xml.StartElement) (*NumberingReference, error) {
	ref := &NumberingReference{}
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "ilvl":
				ref.Level = atoiDefault(attrValue(t, "val"), 0)
			case "numId":
				ref.NumID = atoiDefault(attrValue(t, "val"), 0)
			}
			if err := d.Skip(); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return ref, nil
			}
		}
	}
}

// Paragraph is a w:p element.
type Paragraph struct {
	Properties *ParagraphProperties
	Content    []ParagraphChild
}

func (Paragraph) isBodyElement() {}

// Runs returns the run children of the paragraph in order.
func (p *Paragraph) Runs() []*Run {
	var out []*Run
	for _, c := range p.Content {
		if r, ok := c.(*Run); ok {
			out = append(out, r)
		}
	}
	return out
}

// GetText returns the concatenated text of all runs and hyperlinks.
func (p *Paragraph) GetText() string {
	var b strings.Builder
	for _, c := range p.Content {
		switch child := c.(type) {
		case *Run:
			b.WriteString(child.GetText())
		case *Hyperlink:
			b.WriteString(child.GetText())
		}
	}
	return b.String()
}

func (p *Paragraph) write(w *xmlWriter) {
	w.start("w:p")
	if p.Properties != nil {
		p.Properties.write(w)
	}
	for _, c := range p.Content {
		c.write(w)
	}
	w.end("w:p")
}

// Clone returns a deep copy.
func (p *Paragraph) Clone() *Paragraph {
	c := &Paragraph{Properties: p.Properties.Clone()}
	for _, child := range p.Content {
		c.Content = append(c.Content, child.cloneChild())
	}
	return c
}

// CloneElement implements BodyElement.
func (p *Paragraph) CloneElement() BodyElement {
	return p.Clone()
}

func parseParagraph(d *xml.Decoder, start xml.StartElement, ns *Namespaces) (*Paragraph, error) {
	p := &Paragraph{}
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				pp, err := parseParagraphProperties(d, t, ns)
				if err != nil {
					return nil, err
				}
				p.Properties = pp
			case "r":
				run, err := parseRun(d, t, ns)
				if err != nil {
					return nil, err
				}
				p.Content = append(p.Content, run)
			case "hyperlink":
				link, err := parseHyperlink(d, t, ns)
				if err != nil {
					return nil, err
				}
				p.Content = append(p.Content, link)
			case "bookmarkStart":
				p.Content = append(p.Content, &BookmarkStart{
					ID:   atoiDefault(attrValue(t, "id"), 0),
					Name: attrValue(t, "name"),
				})
				if err := d.Skip(); err != nil {
					return nil, err
				}
			case "bookmarkEnd":
				p.Content = append(p.Content, &BookmarkEnd{ID: atoiDefault(attrValue(t, "id"), 0)})
				if err := d.Skip(); err != nil {
					return nil, err
				}
			default:
				raw, err := captureElement(d, t, ns)
				if err != nil {
					return nil, err
				}
				p.Content = append(p.Content, &RawParagraphChild{Content: raw})
			}
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return p, nil
			}
		}
	}
}

// Hyperlink is a w:hyperlink element. Anchor links target a bookmark inside
// the document; external links carry a relationship id.
type Hyperlink struct {
	Anchor  string
	RelID   string
	History string
	Runs    []*Run
}

func (Hyperlink) isParagraphChild() {}

func (h *Hyperlink) write(w *xmlWriter) {
	var attrs []attr
	if h.RelID != "" {
		attrs = append(attrs, attr{"r:id", h.RelID})
	}
	if h.Anchor != "" {
		attrs = append(attrs, attr{"w:anchor", h.Anchor})
	}
	if h.History != "" {
		attrs = append(attrs, attr{"w:history", h.History})
	}
	w.start("w:hyperlink", attrs...)
	for _, r := range h.Runs {
		r.write(w)
	}
	w.end("w:hyperlink")
}

func (h *Hyperlink) cloneChild() ParagraphChild {
	c := &Hyperlink{Anchor: h.Anchor, RelID: h.RelID, History: h.History}
	for _, r := range h.Runs {
		c.Runs = append(c.Runs, r.Clone())
	}
	return c
}

// GetText returns the concatenated text of the hyperlink runs.
func (h *Hyperlink) GetText() string {
	var b strings.Builder
	for _, r := range h.Runs {
		b.WriteString(r.GetText())
	}
	return b.String()
}

func parseHyperlink(d *xml.Decoder, start xml.StartElement, ns *Namespaces) (*Hyperlink, error) {
	h := &Hyperlink{
		Anchor:  attrValue(start, "anchor"),
		RelID:   attrValue(start, "id"),
		History: attrValue(start, "history"),
	}
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "r" {
				run, err := parseRun(d, t, ns)
				if err != nil {
					return nil, err
				}
				h.Runs = append(h.Runs, run)
			} else if err := d.Skip(); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return h, nil
			}
		}
	}
}
