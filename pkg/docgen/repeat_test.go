package docgen

import (
	"strings"
	"testing"

	"github.com/CUSTIS-public/docgen/pkg/docgen/ooxml"
)

func TestRepeatingExpandsArray(t *testing.T) {
	doc := parseBodyXML(t,
		repeatingControlXML("people", textControlXML("name", "placeholder")))
	w := runTestWalker(t, doc, TemplateData{
		"people": []interface{}{
			map[string]interface{}{"name": "Alice"},
			map[string]interface{}{"name": "Bob"},
		},
	})

	if w.collector.HasErrors() {
		t.Fatalf("unexpected errors: %s", w.collector.Error())
	}

	section := doc.Body.Elements[0].(*ooxml.SDT)
	if len(section.Content) != 2 {
		t.Fatalf("section has %d items, want 2", len(section.Content))
	}
	for i, el := range section.Content {
		item, ok := el.(*ooxml.SDT)
		if !ok {
			t.Fatalf("item %d is %T, want *ooxml.SDT", i, el)
		}
		if !item.Properties.HasMarker(ooxml.MarkerRepeatingSectionItem) {
			t.Errorf("item %d lost its item marker", i)
		}
	}
	if got := bodyText(doc); got != "AliceBob" {
		t.Errorf("body text = %q, want %q", got, "AliceBob")
	}
}

func TestRepeatingNonArrayValue(t *testing.T) {
	doc := parseBodyXML(t,
		repeatingControlXML("people", textControlXML("name", "placeholder")))
	w := runTestWalker(t, doc, TemplateData{"people": "not an array"})

	if w.collector.Len() != 1 {
		t.Fatalf("got %d errors, want 1", w.collector.Len())
	}
	if !strings.Contains(w.collector.Records()[0].Message, "array") {
		t.Errorf("message = %q", w.collector.Records()[0].Message)
	}
	// Content untouched: the single template item with its placeholder
	section := doc.Body.Elements[0].(*ooxml.SDT)
	if len(section.Content) != 1 || bodyText(doc) != "placeholder" {
		t.Errorf("content was modified: %q", bodyText(doc))
	}
}

func TestRepeatingMissingItemTemplate(t *testing.T) {
	doc := parseBodyXML(t,
		sdtXML("people", `<w15:repeatingSection/>`, `<w:p><w:r><w:t>loose</w:t></w:r></w:p>`))
	w := runTestWalker(t, doc, TemplateData{"people": []interface{}{}})

	if w.collector.Len() != 1 {
		t.Fatalf("got %d errors, want 1: %s", w.collector.Len(), w.collector.Error())
	}
	if !strings.Contains(w.collector.Records()[0].Message, "item template") {
		t.Errorf("message = %q", w.collector.Records()[0].Message)
	}
	if got := bodyText(doc); got != "loose" {
		t.Errorf("content must stay untouched, got %q", got)
	}
}

func TestRepeatingElementNotObject(t *testing.T) {
	doc := parseBodyXML(t,
		repeatingControlXML("people", textControlXML("name", "placeholder")))
	w := runTestWalker(t, doc, TemplateData{
		"people": []interface{}{
			map[string]interface{}{"name": "Alice"},
			float64(5),
		},
	})

	if w.collector.Len() != 1 {
		t.Fatalf("got %d errors, want 1: %s", w.collector.Len(), w.collector.Error())
	}

	section := doc.Body.Elements[0].(*ooxml.SDT)
	if len(section.Content) != 1 {
		t.Fatalf("section has %d items, want 1 (bad element skipped)", len(section.Content))
	}
	if got := bodyText(doc); got != "Alice" {
		t.Errorf("body text = %q, want %q", got, "Alice")
	}
}

func TestRepeatingEmptyArray(t *testing.T) {
	doc := parseBodyXML(t,
		repeatingControlXML("people", textControlXML("name", "placeholder")))
	w := runTestWalker(t, doc, TemplateData{"people": []interface{}{}})

	if w.collector.HasErrors() {
		t.Fatalf("unexpected errors: %s", w.collector.Error())
	}
	section := doc.Body.Elements[0].(*ooxml.SDT)
	if len(section.Content) != 0 {
		t.Errorf("section has %d items, want 0", len(section.Content))
	}
}

func TestRepeatingStripsControlIDs(t *testing.T) {
	inner := `<w:sdt><w:sdtPr><w:tag w:val="name"/><w:id w:val="123456"/><w:text/></w:sdtPr>` +
		`<w:sdtContent><w:p><w:r><w:t>placeholder</w:t></w:r></w:p></w:sdtContent></w:sdt>`
	doc := parseBodyXML(t, repeatingControlXML("people", inner))
	w := runTestWalker(t, doc, TemplateData{
		"people": []interface{}{
			map[string]interface{}{"name": "Alice"},
			map[string]interface{}{"name": "Bob"},
		},
	})

	if w.collector.HasErrors() {
		t.Fatalf("unexpected errors: %s", w.collector.Error())
	}
	section := doc.Body.Elements[0].(*ooxml.SDT)
	for i, el := range section.Content {
		item := el.(*ooxml.SDT)
		child := item.Content[0].(*ooxml.SDT)
		if child.Properties.ID != 0 {
			t.Errorf("item %d kept control id %d", i, child.Properties.ID)
		}
	}
}

func TestRepeatingNestedSections(t *testing.T) {
	inner := textControlXML("team", "t") +
		repeatingControlXML("members", textControlXML("name", "m"))
	doc := parseBodyXML(t, repeatingControlXML("teams", inner))

	w := runTestWalker(t, doc, TemplateData{
		"teams": []interface{}{
			map[string]interface{}{
				"team": "Red",
				"members": []interface{}{
					map[string]interface{}{"name": "Alice"},
				},
			},
			map[string]interface{}{
				"team": "Blue",
				"members": []interface{}{
					map[string]interface{}{"name": "Bob"},
					map[string]interface{}{"name": "Carol"},
				},
			},
		},
	})

	if w.collector.HasErrors() {
		t.Fatalf("unexpected errors: %s", w.collector.Error())
	}
	if got := bodyText(doc); got != "RedAliceBlueBobCarol" {
		t.Errorf("body text = %q", got)
	}
}

func TestRepeatingScopeDoesNotLeakAcrossElements(t *testing.T) {
	doc := parseBodyXML(t,
		repeatingControlXML("people", textControlXML("name", "placeholder")))
	w := runTestWalker(t, doc, TemplateData{
		"people": []interface{}{
			map[string]interface{}{"name": "Alice"},
			map[string]interface{}{}, // no name field
		},
	})

	// The second element must fail its own lookup instead of seeing the
	// first element's data
	if w.collector.Len() != 1 {
		t.Fatalf("got %d errors, want 1: %s", w.collector.Len(), w.collector.Error())
	}
	if got := bodyText(doc); strings.Count(got, "Alice") != 1 {
		t.Errorf("body text = %q", got)
	}
}
