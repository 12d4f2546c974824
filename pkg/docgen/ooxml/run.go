package ooxml

import (
	"encoding/xml"
	"strings"
)

// RunChild is an element inside a run: text, a line break, or preserved raw
// content such as tabs and drawings.
type RunChild interface {
	isRunChild()
	write(w *xmlWriter)
	cloneChild() RunChild
}

// Text is a w:t element.
type Text struct {
	Value string
}

func (Text) isRunChild() {}

func (t *Text) write(w *xmlWriter) {
	if needsSpacePreserve(t.Value) {
		w.start("w:t", attr{"xml:space", "preserve"})
	} else {
		w.start("w:t")
	}
	w.text(t.Value)
	w.end("w:t")
}

func (t *Text) cloneChild() RunChild {
	c := *t
	return &c
}

func needsSpacePreserve(s string) bool {
	return s != strings.TrimSpace(s)
}

// Break is a w:br element.
type Break struct{}

func (Break) isRunChild() {}

func (b *Break) write(w *xmlWriter) {
	w.empty("w:br")
}

func (b *Break) cloneChild() RunChild {
	return &Break{}
}

// RawRunChild preserves run content the model does not type.
type RawRunChild struct {
	Content string
}

func (RawRunChild) isRunChild() {}

func (r *RawRunChild) write(w *xmlWriter) {
	w.raw(r.Content)
}

func (r *RawRunChild) cloneChild() RunChild {
	return &RawRunChild{Content: r.Content}
}

// RunProperties is a partially typed w:rPr. The style reference, bold, italic
// and color are typed because the engine clears placeholder styling and marks
// erroneous controls; everything else is preserved verbatim.
type RunProperties struct {
	Style  string
	Bold   bool
	Italic bool
	Color  string
	Raw    []string
}

// IsZero reports whether the properties would serialize to an empty w:rPr.
func (rp *RunProperties) IsZero() bool {
	return rp == nil || (rp.Style == "" && !rp.Bold && !rp.Italic && rp.Color == "" && len(rp.Raw) == 0)
}

func (rp *RunProperties) write(w *xmlWriter) {
	if rp.IsZero() {
		return
	}
	w.start("w:rPr")
	if rp.Style != "" {
		w.empty("w:rStyle", attr{"w:val", rp.Style})
	}
	if rp.Bold {
		w.empty("w:b")
	}
	if rp.Italic {
		w.empty("w:i")
	}
	if rp.Color != "" {
		w.empty("w:color", attr{"w:val", rp.Color})
	}
	for _, raw := range rp.Raw {
		w.raw(raw)
	}
	w.end("w:rPr")
}

// Clone returns a deep copy.
func (rp *RunProperties) Clone() *RunProperties {
	if rp == nil {
		return nil
	}
	c := *rp
	c.Raw = append([]string(nil), rp.Raw...)
	return &c
}

func parseRunProperties(d *xml.Decoder, start xml.StartElement, ns *Namespaces) (*RunProperties, error) {
	rp := &RunProperties{}
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "rStyle":
				rp.Style = attrValue(t, "val")
				if err := d.Skip(); err != nil {
					return nil, err
				}
			case "b":
				rp.Bold = attrValue(t, "val") != "false" && attrValue(t, "val") != "0"
				if err := d.Skip(); err != nil {
					return nil, err
				}
			case "i":
				rp.Italic = attrValue(t, "val") != "false" && attrValue(t, "val") != "0"
				if err := d.Skip(); err != nil {
					return nil, err
				}
			case "color":
				rp.Color = attrValue(t, "val")
				if err := d.Skip(); err != nil {
					return nil, err
				}
			default:
				raw, err := captureElement(d, t, ns)
				if err != nil {
					return nil, err
				}
				rp.Raw = append(rp.Raw, raw)
			}
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return rp, nil
			}
		}
	}
}

// Run is a w:r element.
type Run struct {
	Properties *RunProperties
	Content    []RunChild
}

func (Run) isParagraphChild() {}

// Texts returns the text children of the run in order.
func (r *Run) Texts() []*Text {
	var out []*Text
	for _, c := range r.Content {
		if t, ok := c.(*Text); ok {
			out = append(out, t)
		}
	}
	return out
}

// GetText returns the concatenated text content of the run.
func (r *Run) GetText() string {
	var b strings.Builder
	for _, c := range r.Content {
		if t, ok := c.(*Text); ok {
			b.WriteString(t.Value)
		}
	}
	return b.String()
}

func (r *Run) write(w *xmlWriter) {
	w.start("w:r")
	if r.Properties != nil {
		r.Properties.write(w)
	}
	for _, c := range r.Content {
		c.write(w)
	}
	w.end("w:r")
}

// Clone returns a deep copy.
func (r *Run) Clone() *Run {
	c := &Run{Properties: r.Properties.Clone()}
	for _, child := range r.Content {
		c.Content = append(c.Content, child.cloneChild())
	}
	return c
}

func parseRun(d *xml.Decoder, start xml.StartElement, ns *Namespaces) (*Run, error) {
	run := &Run{}
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "rPr":
				rp, err := parseRunProperties(d, t, ns)
				if err != nil {
					return nil, err
				}
				run.Properties = rp
			case "t":
				var text Text
				if err := decodeText(d, t, &text); err != nil {
					return nil, err
				}
				run.Content = append(run.Content, &text)
			case "br":
				run.Content = append(run.Content, &Break{})
				if err := d.Skip(); err != nil {
					return nil, err
				}
			default:
				raw, err := captureElement(d, t, ns)
				if err != nil {
					return nil, err
				}
				run.Content = append(run.Content, &RawRunChild{Content: raw})
			}
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return run, nil
			}
		}
	}
}

// decodeText collects the character data of a w:t element.
func decodeText(d *xml.Decoder, start xml.StartElement, out *Text) error {
	var b strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				out.Value = b.String()
				return nil
			}
		case xml.StartElement:
			if err := d.Skip(); err != nil {
				return err
			}
		}
	}
}
