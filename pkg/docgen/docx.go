package docgen

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	documentPartName     = "word/document.xml"
	numberingPartName    = "word/numbering.xml"
	contentTypesPartName = "[Content_Types].xml"
	documentRelsPartName = "word/_rels/document.xml.rels"

	numberingContentType      = "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"
	numberingRelationshipType = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
)

// DocxReader handles reading and parsing DOCX files
type DocxReader struct {
	reader *zip.Reader
	Parts  map[string]*zip.File
}

// Relationship represents a relationship in the DOCX package
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// Relationships represents the collection of relationships
type Relationships struct {
	XMLName      xml.Name       `xml:"Relationships"`
	Namespace    string         `xml:"xmlns,attr"`
	Relationship []Relationship `xml:"Relationship"`
}

type contentTypeDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type contentTypeOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type contentTypes struct {
	XMLName   xml.Name              `xml:"Types"`
	Namespace string                `xml:"xmlns,attr"`
	Defaults  []contentTypeDefault  `xml:"Default"`
	Overrides []contentTypeOverride `xml:"Override"`
}

// NewDocxReader creates a new DOCX reader
func NewDocxReader(r io.ReaderAt, size int64) (*DocxReader, error) {
	zipReader, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read zip file: %w", err)
	}

	dr := &DocxReader{
		reader: zipReader,
		Parts:  make(map[string]*zip.File),
	}

	// Index all parts by name
	for _, file := range zipReader.File {
		dr.Parts[file.Name] = file
	}

	// Check if this is a valid DOCX file by looking for required parts
	if _, ok := dr.Parts[documentPartName]; !ok {
		return nil, fmt.Errorf("not a valid DOCX file: missing %s", documentPartName)
	}

	return dr, nil
}

// DocxReaderFromFile creates a DocxReader from a file path
func DocxReaderFromFile(path string) (*DocxReader, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	reader := bytes.NewReader(content)
	return NewDocxReader(reader, int64(len(content)))
}

// GetPart retrieves the content of a specific part
func (dr *DocxReader) GetPart(partName string) ([]byte, error) {
	file, ok := dr.Parts[partName]
	if !ok {
		return nil, fmt.Errorf("part %s not found", partName)
	}

	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open part %s: %w", partName, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read part %s: %w", partName, err)
	}

	return content, nil
}

// HasPart reports whether a part exists in the package
func (dr *DocxReader) HasPart(partName string) bool {
	_, ok := dr.Parts[partName]
	return ok
}

// GetDocumentXML retrieves the content of word/document.xml
func (dr *DocxReader) GetDocumentXML() (string, error) {
	content, err := dr.GetPart(documentPartName)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// GetNumberingXML retrieves word/numbering.xml. The part is optional; ok is
// false when the template carries no numbering definitions.
func (dr *DocxReader) GetNumberingXML() (string, bool, error) {
	if !dr.HasPart(numberingPartName) {
		return "", false, nil
	}
	content, err := dr.GetPart(numberingPartName)
	if err != nil {
		return "", false, err
	}
	return string(content), true, nil
}

// ListParts returns a list of all part names in the DOCX
func (dr *DocxReader) ListParts() []string {
	parts := make([]string, 0, len(dr.Parts))
	for name := range dr.Parts {
		parts = append(parts, name)
	}
	return parts
}

// writeDocx writes a DOCX package to w by copying every part of the source
// package, substituting the parts named in replacements. Replacement parts
// missing from the source are appended as new entries.
func writeDocx(w io.Writer, source []byte, replacements map[string][]byte) error {
	zipReader, err := zip.NewReader(bytes.NewReader(source), int64(len(source)))
	if err != nil {
		return fmt.Errorf("failed to read source zip: %w", err)
	}

	zw := zip.NewWriter(w)
	sourceNames := make(map[string]bool, len(zipReader.File))
	for _, file := range zipReader.File {
		sourceNames[file.Name] = true
	}

	for _, file := range zipReader.File {
		fw, err := zw.Create(file.Name)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", file.Name, err)
		}

		if replacement, ok := replacements[file.Name]; ok {
			if _, err := fw.Write(replacement); err != nil {
				return fmt.Errorf("failed to write %s: %w", file.Name, err)
			}
			continue
		}

		fr, err := file.Open()
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", file.Name, err)
		}
		_, err = io.Copy(fw, fr)
		fr.Close()
		if err != nil {
			return fmt.Errorf("failed to copy %s: %w", file.Name, err)
		}
	}

	// New parts not present in the source package
	for name, content := range replacements {
		if sourceNames[name] {
			continue
		}
		fw, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", name, err)
		}
		if _, err := fw.Write(content); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	return zw.Close()
}

// parseRelationships parses a .rels part
func parseRelationships(content []byte) (*Relationships, error) {
	var rels Relationships
	if err := xml.Unmarshal(content, &rels); err != nil {
		return nil, fmt.Errorf("failed to parse relationships: %w", err)
	}
	return &rels, nil
}

// addNumberingRelationship ensures the document part references the numbering
// part, returning the updated .rels content.
func addNumberingRelationship(relsContent []byte) ([]byte, error) {
	rels, err := parseRelationships(relsContent)
	if err != nil {
		return nil, err
	}

	maxID := 0
	for _, rel := range rels.Relationship {
		if rel.Type == numberingRelationshipType {
			// Already wired
			return relsContent, nil
		}
		if id, ok := strings.CutPrefix(rel.ID, "rId"); ok {
			if n, err := strconv.Atoi(id); err == nil && n > maxID {
				maxID = n
			}
		}
	}

	rels.Relationship = append(rels.Relationship, Relationship{
		ID:     fmt.Sprintf("rId%d", maxID+1),
		Type:   numberingRelationshipType,
		Target: "numbering.xml",
	})
	rels.Namespace = "http://schemas.openxmlformats.org/package/2006/relationships"

	output, err := xml.Marshal(rels)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal relationships: %w", err)
	}
	return append([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n"), output...), nil
}

// addNumberingContentType registers the numbering part in
// [Content_Types].xml, returning the updated content.
func addNumberingContentType(ctContent []byte) ([]byte, error) {
	var types contentTypes
	if err := xml.Unmarshal(ctContent, &types); err != nil {
		return nil, fmt.Errorf("failed to parse content types: %w", err)
	}

	for _, o := range types.Overrides {
		if o.PartName == "/"+numberingPartName {
			return ctContent, nil
		}
	}

	types.Overrides = append(types.Overrides, contentTypeOverride{
		PartName:    "/" + numberingPartName,
		ContentType: numberingContentType,
	})
	types.Namespace = "http://schemas.openxmlformats.org/package/2006/content-types"

	output, err := xml.Marshal(&types)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal content types: %w", err)
	}
	return append([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n"), output...), nil
}
