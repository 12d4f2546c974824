package docgen

import (
	"strings"
	"testing"

	"github.com/CUSTIS-public/docgen/pkg/docgen/ooxml"
)

func parseSDTXML(t *testing.T, controlXML string) *ooxml.SDT {
	t.Helper()
	doc := parseBodyXML(t, controlXML)
	sdt, ok := doc.Body.Elements[0].(*ooxml.SDT)
	if !ok {
		t.Fatalf("first body element is %T, want *ooxml.SDT", doc.Body.Elements[0])
	}
	return sdt
}

func TestSetPlainTextReplacesRun(t *testing.T) {
	sdt := parseSDTXML(t, textControlXML("name", "placeholder"))

	if err := setPlainText(sdt, "value", true); err != nil {
		t.Fatalf("setPlainText failed: %v", err)
	}

	para := sdt.Content[0].(*ooxml.Paragraph)
	if got := para.GetText(); got != "value" {
		t.Errorf("text = %q, want %q", got, "value")
	}
	if len(para.Runs()) != 1 {
		t.Errorf("got %d runs, want 1", len(para.Runs()))
	}
}

func TestSetPlainTextCollapsesMultipleRuns(t *testing.T) {
	sdt := parseSDTXML(t, sdtXML("name", `<w:text/>`,
		`<w:p><w:r><w:t>one</w:t></w:r><w:r><w:t>two</w:t></w:r><w:r><w:t>three</w:t></w:r></w:p>`))

	if err := setPlainText(sdt, "value", true); err != nil {
		t.Fatalf("setPlainText failed: %v", err)
	}

	para := sdt.Content[0].(*ooxml.Paragraph)
	if len(para.Runs()) != 1 {
		t.Errorf("got %d runs, want 1", len(para.Runs()))
	}
	if got := para.GetText(); got != "value" {
		t.Errorf("text = %q, want %q", got, "value")
	}
}

func TestSetPlainTextCreatesRunWhenMissing(t *testing.T) {
	sdt := parseSDTXML(t, sdtXML("name", `<w:text/>`, `<w:p></w:p>`))

	if err := setPlainText(sdt, "value", true); err != nil {
		t.Fatalf("setPlainText failed: %v", err)
	}
	if got := sdt.Content[0].(*ooxml.Paragraph).GetText(); got != "value" {
		t.Errorf("text = %q, want %q", got, "value")
	}
}

func TestSetPlainTextWithoutParagraphFails(t *testing.T) {
	sdt := parseSDTXML(t, sdtXML("name", `<w:text/>`, ``))

	err := setPlainText(sdt, "value", true)
	if err == nil {
		t.Fatal("expected error for control without a paragraph")
	}
	if !IsStructureError(err) {
		t.Errorf("got %T, want StructureError", err)
	}
}

func TestSetPlainTextNewlinesToBreaks(t *testing.T) {
	sdt := parseSDTXML(t, textControlXML("name", "placeholder"))

	if err := setPlainText(sdt, "line1\r\nline2\nline3", true); err != nil {
		t.Fatalf("setPlainText failed: %v", err)
	}

	run := sdt.Content[0].(*ooxml.Paragraph).Runs()[0]
	breaks := 0
	for _, c := range run.Content {
		if _, ok := c.(*ooxml.Break); ok {
			breaks++
		}
	}
	if breaks != 2 {
		t.Errorf("got %d breaks, want 2", breaks)
	}
	if got := run.GetText(); got != "line1line2line3" {
		t.Errorf("text segments = %q", got)
	}
}

func TestSetPlainTextNewlinesKeptLiteral(t *testing.T) {
	sdt := parseSDTXML(t, textControlXML("name", "placeholder"))

	if err := setPlainText(sdt, "line1\nline2", false); err != nil {
		t.Fatalf("setPlainText failed: %v", err)
	}
	run := sdt.Content[0].(*ooxml.Paragraph).Runs()[0]
	if len(run.Content) != 1 {
		t.Fatalf("got %d run children, want 1", len(run.Content))
	}
	if got := run.GetText(); got != "line1\nline2" {
		t.Errorf("text = %q", got)
	}
}

func TestSetPlainTextClearsPlaceholderStyling(t *testing.T) {
	sdt := parseSDTXML(t, sdtXML("name", `<w:text/><w:showingPlcHdr/>`,
		`<w:p><w:pPr><w:rPr><w:rStyle w:val="PlaceholderText"/></w:rPr></w:pPr>`+
			`<w:r><w:rPr><w:rStyle w:val="PlaceholderText"/></w:rPr><w:t>Click here</w:t></w:r></w:p>`))

	if !sdt.Properties.ShowingPlaceholder {
		t.Fatal("fixture should start in placeholder state")
	}
	if err := setPlainText(sdt, "value", true); err != nil {
		t.Fatalf("setPlainText failed: %v", err)
	}

	if sdt.Properties.ShowingPlaceholder {
		t.Error("showing-placeholder flag not cleared")
	}
	para := sdt.Content[0].(*ooxml.Paragraph)
	run := para.Runs()[0]
	if run.Properties != nil && run.Properties.Style == placeholderStyle {
		t.Error("run placeholder style not cleared")
	}
	if para.Properties != nil && para.Properties.RunProperties != nil &&
		para.Properties.RunProperties.Style == placeholderStyle {
		t.Error("paragraph placeholder style not cleared")
	}
}

func TestSetRichTextReplacesContent(t *testing.T) {
	sdt := parseSDTXML(t, richControlXML("body", "placeholder"))

	blocks := convertHTML("<p>a</p><p>b</p>", newTestAllocator())
	setRichText(sdt, blocks)

	if len(sdt.Content) != 2 {
		t.Fatalf("content has %d elements, want 2", len(sdt.Content))
	}
	var texts []string
	for _, el := range sdt.Content {
		texts = append(texts, el.(*ooxml.Paragraph).GetText())
	}
	if strings.Join(texts, "|") != "a|b" {
		t.Errorf("texts = %v", texts)
	}
}

func TestSetRichTextEmptyKeepsOneParagraph(t *testing.T) {
	sdt := parseSDTXML(t, richControlXML("body", "placeholder"))
	setRichText(sdt, nil)
	if len(sdt.Content) != 1 {
		t.Fatalf("content has %d elements, want 1 empty paragraph", len(sdt.Content))
	}
}
