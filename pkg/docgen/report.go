package docgen

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/CUSTIS-public/docgen/pkg/docgen/ooxml"
)

const errorColor = "FF0000"

// renderErrorReport prepends a visible error report to the document body.
// Each entry links to a bookmark wrapped around the offending control, and
// the control's runs are highlighted so the failure is visible in place.
func renderErrorReport(doc *ooxml.Document, records []ErrorRecord) {
	if len(records) == 0 || doc.Body == nil {
		return
	}

	nextID := maxBookmarkID(doc.Body.Elements) + 1
	report := make([]ooxml.BodyElement, 0, len(records)+1)
	report = append(report, reportHeading(len(records)))

	for _, rec := range records {
		name := reportBookmarkName()
		if rec.Control != nil && bookmarkControl(&doc.Body.Elements, rec.Control, nextID, name) {
			markControl(rec.Control)
			report = append(report, reportEntry(rec.Message, name))
			nextID++
			continue
		}
		// Control removed or not in the body; entry without a link
		report = append(report, reportEntry(rec.Message, ""))
	}

	doc.Body.Elements = append(report, doc.Body.Elements...)
}

// reportBookmarkName generates a unique bookmark name. Word caps bookmark
// names at 40 characters and forbids hyphens.
func reportBookmarkName() string {
	return "populationError_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

func reportHeading(count int) *ooxml.Paragraph {
	noun := "errors"
	if count == 1 {
		noun = "error"
	}
	return &ooxml.Paragraph{
		Content: []ooxml.ParagraphChild{
			&ooxml.Run{
				Properties: &ooxml.RunProperties{Bold: true, Color: errorColor},
				Content: []ooxml.RunChild{
					&ooxml.Text{Value: fmt.Sprintf("%d %s occurred while populating this document:", count, noun)},
				},
			},
		},
	}
}

func reportEntry(message, anchor string) *ooxml.Paragraph {
	run := &ooxml.Run{
		Properties: &ooxml.RunProperties{Color: errorColor},
		Content:    []ooxml.RunChild{&ooxml.Text{Value: message}},
	}
	if anchor == "" {
		return &ooxml.Paragraph{Content: []ooxml.ParagraphChild{run}}
	}
	return &ooxml.Paragraph{
		Content: []ooxml.ParagraphChild{
			&ooxml.Hyperlink{Anchor: anchor, Runs: []*ooxml.Run{run}},
		},
	}
}

// bookmarkControl wraps the target control in a bookmark within whatever
// slice owns it, searching the body, control content and table cells.
func bookmarkControl(parent *[]ooxml.BodyElement, target *ooxml.SDT, id int, name string) bool {
	elements := *parent
	for i, el := range elements {
		if el == ooxml.BodyElement(target) {
			out := make([]ooxml.BodyElement, 0, len(elements)+2)
			out = append(out, elements[:i]...)
			out = append(out, &ooxml.BookmarkStart{ID: id, Name: name}, target, &ooxml.BookmarkEnd{ID: id})
			out = append(out, elements[i+1:]...)
			*parent = out
			return true
		}
		switch e := el.(type) {
		case *ooxml.SDT:
			if bookmarkControl(&e.Content, target, id, name) {
				return true
			}
		case *ooxml.Table:
			for _, row := range e.Rows {
				for _, cell := range row.Cells {
					if bookmarkControl(&cell.Elements, target, id, name) {
						return true
					}
				}
			}
		}
	}
	return false
}

// maxBookmarkID scans the tree for the highest bookmark id already in use.
func maxBookmarkID(elements []ooxml.BodyElement) int {
	max := 0
	for _, el := range elements {
		switch e := el.(type) {
		case *ooxml.BookmarkStart:
			if e.ID > max {
				max = e.ID
			}
		case *ooxml.Paragraph:
			for _, c := range e.Content {
				if bm, ok := c.(*ooxml.BookmarkStart); ok && bm.ID > max {
					max = bm.ID
				}
			}
		case *ooxml.SDT:
			if m := maxBookmarkID(e.Content); m > max {
				max = m
			}
		case *ooxml.Table:
			for _, row := range e.Rows {
				for _, cell := range row.Cells {
					if m := maxBookmarkID(cell.Elements); m > max {
						max = m
					}
				}
			}
		}
	}
	return max
}

// markControl highlights every run inside the control.
func markControl(sdt *ooxml.SDT) {
	markElements(sdt.Content)
}

func markElements(elements []ooxml.BodyElement) {
	for _, el := range elements {
		switch e := el.(type) {
		case *ooxml.Paragraph:
			for _, r := range e.Runs() {
				markRun(r)
			}
		case *ooxml.SDT:
			markElements(e.Content)
		case *ooxml.Table:
			for _, row := range e.Rows {
				for _, cell := range row.Cells {
					markElements(cell.Elements)
				}
			}
		}
	}
}

func markRun(r *ooxml.Run) {
	if r.Properties == nil {
		r.Properties = &ooxml.RunProperties{}
	}
	r.Properties.Bold = true
	r.Properties.Color = errorColor
}
