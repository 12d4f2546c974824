package docgen

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"sort"
	"strings"
	"testing"

	"github.com/CUSTIS-public/docgen/pkg/docgen/ooxml"
)

// Helpers shared by the package tests: builders for in-memory DOCX packages
// and for the content-control XML they hold.

const testContentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const testPackageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const testDocumentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>`

// documentPartXML wraps body content in a minimal main part.
func documentPartXML(bodyXML string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:w15="http://schemas.microsoft.com/office/word/2012/wordml"><w:body>` +
		bodyXML + `</w:body></w:document>`
}

// buildDocx assembles an in-memory package around the given body content.
func buildDocx(t *testing.T, bodyXML string) []byte {
	t.Helper()
	return buildDocxWithParts(t, bodyXML, nil)
}

// buildDocxWithParts assembles an in-memory package with extra or replaced
// parts.
func buildDocxWithParts(t *testing.T, bodyXML string, extra map[string]string) []byte {
	t.Helper()

	parts := map[string]string{
		"[Content_Types].xml":          testContentTypesXML,
		"_rels/.rels":                  testPackageRelsXML,
		"word/_rels/document.xml.rels": testDocumentRelsXML,
		"word/document.xml":            documentPartXML(bodyXML),
	}
	for name, content := range extra {
		parts[name] = content
	}

	names := make([]string, 0, len(parts))
	for name := range parts {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		fw, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to create part %s: %v", name, err)
		}
		if _, err := fw.Write([]byte(parts[name])); err != nil {
			t.Fatalf("failed to write part %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close package: %v", err)
	}
	return buf.Bytes()
}

// escapeAttr escapes a string for use inside an XML attribute value.
func escapeAttr(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// sdtXML builds a content control with the given tag, extra sdtPr content
// (markers) and content area.
func sdtXML(tag, markers, contentXML string) string {
	return `<w:sdt><w:sdtPr><w:tag w:val="` + escapeAttr(tag) + `"/>` + markers +
		`</w:sdtPr><w:sdtContent>` + contentXML + `</w:sdtContent></w:sdt>`
}

// textControlXML builds a plain text control holding placeholder text.
func textControlXML(tag, placeholder string) string {
	return sdtXML(tag, `<w:text/>`,
		`<w:p><w:r><w:t>`+placeholder+`</w:t></w:r></w:p>`)
}

// richControlXML builds a control with no type marker, the rich text default.
func richControlXML(tag, placeholder string) string {
	return sdtXML(tag, ``,
		`<w:p><w:r><w:t>`+placeholder+`</w:t></w:r></w:p>`)
}

// repeatingControlXML builds a repeating section wrapping one item template.
func repeatingControlXML(tag, itemContentXML string) string {
	item := `<w:sdt><w:sdtPr><w15:repeatingSectionItem/></w:sdtPr><w:sdtContent>` +
		itemContentXML + `</w:sdtContent></w:sdt>`
	return sdtXML(tag, `<w15:repeatingSection/>`, item)
}

// parseBodyXML parses a document built from the given body content.
func parseBodyXML(t *testing.T, bodyXML string) *ooxml.Document {
	t.Helper()
	doc, err := ooxml.Parse(strings.NewReader(documentPartXML(bodyXML)))
	if err != nil {
		t.Fatalf("failed to parse document: %v", err)
	}
	return doc
}

// runTestWalker walks the parsed document against data and returns the
// walker for collector and allocator assertions.
func runTestWalker(t *testing.T, doc *ooxml.Document, data TemplateData) *walker {
	t.Helper()
	alloc := newNumberingAllocator(ooxml.NewNumbering())
	w := newWalker(alloc, DefaultConfig())
	w.walkBody(doc.Body, NewScope(data))
	return w
}

// bodyText concatenates the visible text of the whole body.
func bodyText(doc *ooxml.Document) string {
	var b strings.Builder
	collectText(doc.Body.Elements, &b)
	return b.String()
}

func collectText(elements []ooxml.BodyElement, b *strings.Builder) {
	for _, el := range elements {
		switch e := el.(type) {
		case *ooxml.Paragraph:
			b.WriteString(e.GetText())
		case *ooxml.SDT:
			collectText(e.Content, b)
		case *ooxml.Table:
			for _, row := range e.Rows {
				for _, cell := range row.Cells {
					collectText(cell.Elements, b)
				}
			}
		}
	}
}
