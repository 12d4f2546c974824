package ooxml

import (
	"encoding/xml"
	"fmt"
	"io"
)

// Numbering is the parsed numbering part (word/numbering.xml). Definitions
// already present in the template are preserved verbatim; definitions the
// engine generates are typed.
type Numbering struct {
	ns *Namespaces
	// Raw preserves part children that are neither abstractNum nor num
	// (numPicBullet and friends); the schema places them first.
	Raw          []string
	AbstractNums []*AbstractNum
	Nums         []*Num
}

// AbstractNum is a w:abstractNum list definition.
type AbstractNum struct {
	ID int
	// InnerRaw holds the verbatim children of a definition parsed from the
	// template. Generated definitions leave it empty and carry Levels.
	InnerRaw string
	Levels   []Level
}

// Level is one generated w:lvl definition.
type Level struct {
	Index         int
	Start         int
	Format        string
	Text          string
	Font          string
	IndentLeft    int
	IndentHanging int
}

// Num is a w:num list instance referencing an abstract definition.
type Num struct {
	ID         int
	AbstractID int
}

// NewNumbering returns an empty numbering part with the standard namespace
// declarations, used when a template has no word/numbering.xml and the
// population generates lists.
func NewNumbering() *Numbering {
	attrs := []xml.Attr{
		{Name: xml.Name{Space: "xmlns", Local: "w"}, Value: NSMain},
	}
	return &Numbering{ns: newNamespaces(attrs)}
}

// ParseNumbering reads word/numbering.xml into the model.
func ParseNumbering(r io.Reader) (*Numbering, error) {
	d := xml.NewDecoder(r)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("numbering part has no root element")
		}
		if err != nil {
			return nil, fmt.Errorf("parsing numbering part: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "numbering" {
			return nil, fmt.Errorf("unexpected root element <%s>", start.Name.Local)
		}
		return parseNumbering(d, start)
	}
}

func parseNumbering(d *xml.Decoder, root xml.StartElement) (*Numbering, error) {
	n := &Numbering{ns: newNamespaces(root.Attr)}
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "abstractNum":
				an := &AbstractNum{ID: atoiDefault(attrValue(t, "abstractNumId"), 0)}
				inner, err := captureInner(d, t, n.ns)
				if err != nil {
					return nil, err
				}
				an.InnerRaw = inner
				n.AbstractNums = append(n.AbstractNums, an)
			case "num":
				num, err := parseNum(d, t)
				if err != nil {
					return nil, err
				}
				n.Nums = append(n.Nums, num)
			default:
				raw, err := captureElement(d, t, n.ns)
				if err != nil {
					return nil, err
				}
				n.Raw = append(n.Raw, raw)
			}
		case xml.EndElement:
			if t.Name.Local == "numbering" {
				return n, nil
			}
		}
	}
}

// captureInner captures the children of the element opened by start, without
// the element's own tags.
func captureInner(d *xml.Decoder, start xml.StartElement, ns *Namespaces) (string, error) {
	w := newXMLWriter(ns)
	for {
		tok, err := d.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			raw, err := captureElement(d, t, ns)
			if err != nil {
				return "", err
			}
			w.raw(raw)
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return w.String(), nil
			}
		}
	}
}

func parseNum(d *xml.Decoder, start xml.StartElement) (*Num, error) {
	num := &Num{ID: atoiDefault(attrValue(start, "numId"), 0)}
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "abstractNumId" {
				num.AbstractID = atoiDefault(attrValue(t, "val"), 0)
			}
			if err := d.Skip(); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return num, nil
			}
		}
	}
}

// MaxAbstractID returns the highest abstract definition id, or -1 when none.
func (n *Numbering) MaxAbstractID() int {
	max := -1
	for _, an := range n.AbstractNums {
		if an.ID > max {
			max = an.ID
		}
	}
	return max
}

// MaxNumID returns the highest instance id, or -1 when none.
func (n *Numbering) MaxNumID() int {
	max := -1
	for _, num := range n.Nums {
		if num.ID > max {
			max = num.ID
		}
	}
	return max
}

// IsEmpty reports whether the part carries no definitions at all.
func (n *Numbering) IsEmpty() bool {
	return len(n.AbstractNums) == 0 && len(n.Nums) == 0 && len(n.Raw) == 0
}

// Marshal serializes the numbering part.
func (n *Numbering) Marshal() ([]byte, error) {
	w := newXMLWriter(n.ns)
	w.raw(xmlHeader)
	w.raw("<w:numbering")
	for _, a := range n.ns.rootAttrs {
		w.writeAttr(attr{name: n.ns.qname(a.Name), value: a.Value})
	}
	w.raw(">")
	for _, raw := range n.Raw {
		w.raw(raw)
	}
	for _, an := range n.AbstractNums {
		an.write(w)
	}
	for _, num := range n.Nums {
		w.start("w:num", attr{"w:numId", itoa(num.ID)})
		w.empty("w:abstractNumId", attr{"w:val", itoa(num.AbstractID)})
		w.end("w:num")
	}
	w.end("w:numbering")
	return []byte(w.String()), nil
}

func (an *AbstractNum) write(w *xmlWriter) {
	w.start("w:abstractNum", attr{"w:abstractNumId", itoa(an.ID)})
	if an.InnerRaw != "" {
		w.raw(an.InnerRaw)
	} else {
		w.empty("w:multiLevelType", attr{"w:val", "hybridMultilevel"})
		for _, lvl := range an.Levels {
			lvl.write(w)
		}
	}
	w.end("w:abstractNum")
}

func (l Level) write(w *xmlWriter) {
	w.start("w:lvl", attr{"w:ilvl", itoa(l.Index)})
	w.empty("w:start", attr{"w:val", itoa(l.Start)})
	w.empty("w:numFmt", attr{"w:val", l.Format})
	w.empty("w:lvlText", attr{"w:val", l.Text})
	w.empty("w:lvlJc", attr{"w:val", "left"})
	w.start("w:pPr")
	w.empty("w:ind", attr{"w:left", itoa(l.IndentLeft)}, attr{"w:hanging", itoa(l.IndentHanging)})
	w.end("w:pPr")
	if l.Font != "" {
		w.start("w:rPr")
		w.empty("w:rFonts", attr{"w:ascii", l.Font}, attr{"w:hAnsi", l.Font}, attr{"w:hint", "default"})
		w.end("w:rPr")
	}
	w.end("w:lvl")
}
