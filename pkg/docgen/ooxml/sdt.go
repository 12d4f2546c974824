package ooxml

import (
	"encoding/xml"
)

// Control-type marker element names that can appear inside w:sdtPr. The local
// name is recorded regardless of namespace (w, w14, w15).
const (
	MarkerText                 = "text"
	MarkerRichText             = "richText"
	MarkerRepeatingSection     = "repeatingSection"
	MarkerRepeatingSectionItem = "repeatingSectionItem"
	MarkerEquation             = "equation"
	MarkerPicture              = "picture"
	MarkerCitation             = "citation"
	MarkerComboBox             = "comboBox"
	MarkerDropDownList         = "dropDownList"
	MarkerDate                 = "date"
	MarkerDocPartObj           = "docPartObj"
	MarkerDocPartList          = "docPartList"
	MarkerGroup                = "group"
	MarkerCheckbox             = "checkbox"
)

// sdtMarkerNames is the set of sdtPr children treated as control-type markers.
var sdtMarkerNames = map[string]bool{
	MarkerText:                 true,
	MarkerRichText:             true,
	MarkerRepeatingSection:     true,
	MarkerRepeatingSectionItem: true,
	MarkerEquation:             true,
	MarkerPicture:              true,
	MarkerCitation:             true,
	MarkerComboBox:             true,
	MarkerDropDownList:         true,
	MarkerDate:                 true,
	MarkerDocPartObj:           true,
	MarkerDocPartList:          true,
	MarkerGroup:                true,
	MarkerCheckbox:             true,
}

// SDTProperties is the w:sdtPr of a structured document tag.
type SDTProperties struct {
	// HasTag distinguishes a missing w:tag element from an empty tag value.
	HasTag             bool
	Tag                string
	ID                 int
	Alias              string
	ShowingPlaceholder bool
	// Markers lists the local names of control-type marker elements found in
	// the properties, in document order.
	Markers []string
	// Raw preserves marker elements and any untyped property verbatim.
	Raw []string
}

// HasMarker reports whether the given control-type marker is present.
func (sp *SDTProperties) HasMarker(name string) bool {
	for _, m := range sp.Markers {
		if m == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (sp *SDTProperties) Clone() *SDTProperties {
	c := *sp
	c.Markers = append([]string(nil), sp.Markers...)
	c.Raw = append([]string(nil), sp.Raw...)
	return &c
}

// SDT is a block-level structured document tag (content control).
type SDT struct {
	// Properties is nil when the control carries no w:sdtPr at all.
	Properties *SDTProperties
	// EndPr preserves w:sdtEndPr verbatim.
	EndPr string
	// Content holds the block-level children of w:sdtContent.
	Content []BodyElement
}

func (SDT) isBodyElement() {}

// Tag returns the binding tag, or "" when absent.
func (s *SDT) Tag() string {
	if s.Properties == nil {
		return ""
	}
	return s.Properties.Tag
}

func (s *SDT) write(w *xmlWriter) {
	w.start("w:sdt")
	if s.Properties != nil {
		sp := s.Properties
		w.start("w:sdtPr")
		if sp.Alias != "" {
			w.empty("w:alias", attr{"w:val", sp.Alias})
		}
		if sp.HasTag {
			w.empty("w:tag", attr{"w:val", sp.Tag})
		}
		if sp.ID != 0 {
			w.empty("w:id", attr{"w:val", itoa(sp.ID)})
		}
		if sp.ShowingPlaceholder {
			w.empty("w:showingPlcHdr")
		}
		for _, raw := range sp.Raw {
			w.raw(raw)
		}
		w.end("w:sdtPr")
	}
	if s.EndPr != "" {
		w.raw(s.EndPr)
	}
	w.start("w:sdtContent")
	for _, el := range s.Content {
		el.write(w)
	}
	w.end("w:sdtContent")
	w.end("w:sdt")
}

// Clone returns a deep copy of the control and its subtree.
func (s *SDT) Clone() *SDT {
	c := &SDT{EndPr: s.EndPr}
	if s.Properties != nil {
		c.Properties = s.Properties.Clone()
	}
	for _, el := range s.Content {
		c.Content = append(c.Content, el.CloneElement())
	}
	return c
}

// CloneElement implements BodyElement.
func (s *SDT) CloneElement() BodyElement {
	return s.Clone()
}

// StripIDs removes the unique w:id from this control and every descendant
// control, so a cloned subtree is structurally independent of its origin.
func (s *SDT) StripIDs() {
	if s.Properties != nil {
		s.Properties.ID = 0
	}
	stripIDs(s.Content)
}

func stripIDs(elements []BodyElement) {
	for _, el := range elements {
		switch e := el.(type) {
		case *SDT:
			e.StripIDs()
		case *Table:
			for _, row := range e.Rows {
				for _, cell := range row.Cells {
					stripIDs(cell.Elements)
				}
			}
		}
	}
}

func parseSDT(d *xml.Decoder, start xml.StartElement, ns *Namespaces) (*SDT, error) {
	s := &SDT{}
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sdtPr":
				sp, err := parseSDTProperties(d, t, ns)
				if err != nil {
					return nil, err
				}
				s.Properties = sp
			case "sdtEndPr":
				raw, err := captureElement(d, t, ns)
				if err != nil {
					return nil, err
				}
				s.EndPr = raw
			case "sdtContent":
				content, err := parseSDTContent(d, t, ns)
				if err != nil {
					return nil, err
				}
				s.Content = content
			default:
				if err := d.Skip(); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return s, nil
			}
		}
	}
}

func parseSDTProperties(d *xml.Decoder, start xml.StartElement, ns *Namespaces) (*SDTProperties, error) {
	sp := &SDTProperties{}
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "tag":
				sp.HasTag = true
				sp.Tag = attrValue(t, "val")
				if err := d.Skip(); err != nil {
					return nil, err
				}
			case t.Name.Local == "id":
				sp.ID = atoiDefault(attrValue(t, "val"), 0)
				if err := d.Skip(); err != nil {
					return nil, err
				}
			case t.Name.Local == "alias":
				sp.Alias = attrValue(t, "val")
				if err := d.Skip(); err != nil {
					return nil, err
				}
			case t.Name.Local == "showingPlcHdr":
				sp.ShowingPlaceholder = true
				if err := d.Skip(); err != nil {
					return nil, err
				}
			case sdtMarkerNames[t.Name.Local]:
				sp.Markers = append(sp.Markers, t.Name.Local)
				raw, err := captureElement(d, t, ns)
				if err != nil {
					return nil, err
				}
				sp.Raw = append(sp.Raw, raw)
			default:
				raw, err := captureElement(d, t, ns)
				if err != nil {
					return nil, err
				}
				sp.Raw = append(sp.Raw, raw)
			}
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return sp, nil
			}
		}
	}
}

func parseSDTContent(d *xml.Decoder, start xml.StartElement, ns *Namespaces) ([]BodyElement, error) {
	var elements []BodyElement
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			elem, err := parseBodyElement(d, t, ns)
			if err != nil {
				return nil, err
			}
			elements = append(elements, elem)
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return elements, nil
			}
		}
	}
}
