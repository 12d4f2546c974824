package docgen

import (
	"strings"

	"github.com/CUSTIS-public/docgen/pkg/docgen/ooxml"
)

// placeholderStyle is the run style Word puts on unfilled placeholder text.
const placeholderStyle = "PlaceholderText"

// setPlainText replaces the content of a plain/rich text control with a
// single run holding value. The control's first paragraph survives so its
// formatting carries over; extra paragraphs and runs are dropped.
func setPlainText(sdt *ooxml.SDT, value string, newlinesToBreaks bool) error {
	var para *ooxml.Paragraph
	for _, el := range sdt.Content {
		if p, ok := el.(*ooxml.Paragraph); ok {
			para = p
			break
		}
	}
	if para == nil {
		return NewStructureError("control has incorrect structure: no paragraph to hold text")
	}

	var run *ooxml.Run
	if runs := para.Runs(); len(runs) > 0 {
		run = runs[0]
	} else {
		run = &ooxml.Run{}
		if para.Properties != nil {
			run.Properties = para.Properties.RunProperties.Clone()
		}
	}

	run.Content = textChildren(value, newlinesToBreaks)
	clearPlaceholderStyle(sdt, para, run)

	para.Content = []ooxml.ParagraphChild{run}
	sdt.Content = []ooxml.BodyElement{para}
	return nil
}

// textChildren builds the run content for a substituted value. With
// newlinesToBreaks set, embedded line breaks become w:br elements; otherwise
// the value goes in verbatim.
func textChildren(value string, newlinesToBreaks bool) []ooxml.RunChild {
	if !newlinesToBreaks || !strings.ContainsAny(value, "\r\n") {
		return []ooxml.RunChild{&ooxml.Text{Value: value}}
	}

	value = strings.ReplaceAll(value, "\r\n", "\n")
	value = strings.ReplaceAll(value, "\r", "\n")

	var out []ooxml.RunChild
	for i, segment := range strings.Split(value, "\n") {
		if i > 0 {
			out = append(out, &ooxml.Break{})
		}
		if segment != "" {
			out = append(out, &ooxml.Text{Value: segment})
		}
	}
	if len(out) == 0 {
		out = []ooxml.RunChild{&ooxml.Text{Value: ""}}
	}
	return out
}

// setRichText replaces the content of a control with converted paragraphs.
func setRichText(sdt *ooxml.SDT, blocks []*ooxml.Paragraph) {
	if len(blocks) == 0 {
		// sdtContent must not be empty
		blocks = []*ooxml.Paragraph{{}}
	}
	content := make([]ooxml.BodyElement, len(blocks))
	for i, b := range blocks {
		content[i] = b
	}
	sdt.Content = content
	if sdt.Properties != nil {
		sdt.Properties.ShowingPlaceholder = false
	}
}

// clearPlaceholderStyle removes the placeholder marker and styling after a
// control has been filled.
func clearPlaceholderStyle(sdt *ooxml.SDT, para *ooxml.Paragraph, run *ooxml.Run) {
	if sdt.Properties != nil {
		sdt.Properties.ShowingPlaceholder = false
	}
	if run.Properties != nil && run.Properties.Style == placeholderStyle {
		run.Properties.Style = ""
	}
	if para.Properties != nil && para.Properties.RunProperties != nil &&
		para.Properties.RunProperties.Style == placeholderStyle {
		para.Properties.RunProperties.Style = ""
	}
}
