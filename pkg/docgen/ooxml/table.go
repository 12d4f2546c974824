package ooxml

import (
	"encoding/xml"
)

// Table is a w:tbl element. Only the row/cell structure is typed, so the
// engine can reach content controls placed inside cells; properties and grid
// are preserved verbatim.
type Table struct {
	PropertiesRaw string
	GridRaw       string
	Rows          []*TableRow
	// TrailingRaw preserves any tbl children that are not rows.
	TrailingRaw []string
}

func (Table) isBodyElement() {}

func (t *Table) write(w *xmlWriter) {
	w.start("w:tbl")
	if t.PropertiesRaw != "" {
		w.raw(t.PropertiesRaw)
	}
	if t.GridRaw != "" {
		w.raw(t.GridRaw)
	}
	for _, row := range t.Rows {
		row.write(w)
	}
	for _, raw := range t.TrailingRaw {
		w.raw(raw)
	}
	w.end("w:tbl")
}

// CloneElement implements BodyElement.
func (t *Table) CloneElement() BodyElement {
	c := &Table{
		PropertiesRaw: t.PropertiesRaw,
		GridRaw:       t.GridRaw,
		TrailingRaw:   append([]string(nil), t.TrailingRaw...),
	}
	for _, row := range t.Rows {
		c.Rows = append(c.Rows, row.clone())
	}
	return c
}

// TableRow is a w:tr element.
type TableRow struct {
	PropertiesRaw string
	Cells         []*TableCell
}

func (r *TableRow) write(w *xmlWriter) {
	w.start("w:tr")
	if r.PropertiesRaw != "" {
		w.raw(r.PropertiesRaw)
	}
	for _, cell := range r.Cells {
		cell.write(w)
	}
	w.end("w:tr")
}

func (r *TableRow) clone() *TableRow {
	c := &TableRow{PropertiesRaw: r.PropertiesRaw}
	for _, cell := range r.Cells {
		c.Cells = append(c.Cells, cell.clone())
	}
	return c
}

// TableCell is a w:tc element holding block-level content.
type TableCell struct {
	PropertiesRaw string
	Elements      []BodyElement
}

func (c *TableCell) write(w *xmlWriter) {
	w.start("w:tc")
	if c.PropertiesRaw != "" {
		w.raw(c.PropertiesRaw)
	}
	for _, el := range c.Elements {
		el.write(w)
	}
	w.end("w:tc")
}

func (c *TableCell) clone() *TableCell {
	out := &TableCell{PropertiesRaw: c.PropertiesRaw}
	for _, el := range c.Elements {
		out.Elements = append(out.Elements, el.CloneElement())
	}
	return out
}

func parseTable(d *xml.Decoder, start xml.StartElement, ns *Namespaces) (*Table, error) {
	tbl := &Table{}
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tblPr":
				raw, err := captureElement(d, t, ns)
				if err != nil {
					return nil, err
				}
				tbl.PropertiesRaw = raw
			case "tblGrid":
				raw, err := captureElement(d, t, ns)
				if err != nil {
					return nil, err
				}
				tbl.GridRaw = raw
			case "tr":
				row, err := parseTableRow(d, t, ns)
				if err != nil {
					return nil, err
				}
				tbl.Rows = append(tbl.Rows, row)
			default:
				raw, err := captureElement(d, t, ns)
				if err != nil {
					return nil, err
				}
				tbl.TrailingRaw = append(tbl.TrailingRaw, raw)
			}
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return tbl, nil
			}
		}
	}
}

func parseTableRow(d *xml.Decoder, start xml.StartElement, ns *Namespaces) (*TableRow, error) {
	row := &TableRow{}
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "trPr":
				raw, err := captureElement(d, t, ns)
				if err != nil {
					return nil, err
				}
				row.PropertiesRaw = raw
			case "tc":
				cell, err := parseTableCell(d, t, ns)
				if err != nil {
					return nil, err
				}
				row.Cells = append(row.Cells, cell)
			default:
				if err := d.Skip(); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return row, nil
			}
		}
	}
}

func parseTableCell(d *xml.Decoder, start xml.StartElement, ns *Namespaces) (*TableCell, error) {
	cell := &TableCell{}
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "tcPr" {
				raw, err := captureElement(d, t, ns)
				if err != nil {
					return nil, err
				}
				cell.PropertiesRaw = raw
				continue
			}
			elem, err := parseBodyElement(d, t, ns)
			if err != nil {
				return nil, err
			}
			cell.Elements = append(cell.Elements, elem)
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return cell, nil
			}
		}
	}
}
