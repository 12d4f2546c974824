package docgen

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/CUSTIS-public/docgen/pkg/docgen/ooxml"
)

// PreparedTemplate is a parsed, validated template ready for repeated
// population. Preparation is read-only; each Populate call builds a fresh
// document tree from the original part XML, so one prepared template can be
// populated concurrently and repeatedly.
type PreparedTemplate struct {
	source       []byte
	reader       *DocxReader
	documentXML  string
	numberingXML string
	hasNumbering bool
	path         string
	config       *Config
}

// PopulationResult is the outcome of one population pass: the rewritten
// document tree, the numbering part it references, and every per-control
// failure collected along the way.
type PopulationResult struct {
	Document  *ooxml.Document
	Numbering *ooxml.Numbering
	Errors    *ErrorCollector

	template          *PreparedTemplate
	numberingModified bool
}

func prepareTemplate(content []byte, path string, config *Config) (*PreparedTemplate, error) {
	reader, err := NewDocxReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, NewDocumentError("open", path, err)
	}

	documentXML, err := reader.GetDocumentXML()
	if err != nil {
		return nil, NewDocumentError("open", path, err)
	}

	// Validate the main part up front so population failures are limited to
	// per-control errors
	doc, err := ooxml.Parse(strings.NewReader(documentXML))
	if err != nil {
		return nil, NewDocumentError("parse", path, err)
	}
	if doc.Body == nil {
		return nil, NewDocumentError("parse", path, errors.New("document has no body"))
	}

	numberingXML, hasNumbering, err := reader.GetNumberingXML()
	if err != nil {
		return nil, NewDocumentError("parse", path, err)
	}

	if config == nil {
		config = GetGlobalConfig()
	}

	return &PreparedTemplate{
		source:       content,
		reader:       reader,
		documentXML:  documentXML,
		numberingXML: numberingXML,
		hasNumbering: hasNumbering,
		path:         path,
		config:       config,
	}, nil
}

// Populate fills the template with the given data and returns the result.
// Per-control failures never fail the call; they are collected on the result.
// The only error returned is a structurally unusable template.
func (pt *PreparedTemplate) Populate(data TemplateData) (*PopulationResult, error) {
	doc, err := ooxml.Parse(strings.NewReader(pt.documentXML))
	if err != nil {
		return nil, NewDocumentError("populate", pt.path, err)
	}
	if doc.Body == nil {
		return nil, NewDocumentError("populate", pt.path, errors.New("document has no body"))
	}

	var numbering *ooxml.Numbering
	if pt.hasNumbering {
		numbering, err = ooxml.ParseNumbering(strings.NewReader(pt.numberingXML))
		if err != nil {
			return nil, NewDocumentError("populate", pt.path, err)
		}
	} else {
		numbering = ooxml.NewNumbering()
	}

	alloc := newNumberingAllocator(numbering)
	w := newWalker(alloc, pt.config)
	w.walkBody(doc.Body, NewScope(data))

	if w.collector.HasErrors() {
		logger := GetLogger().WithField("template", pt.path)
		for _, rec := range w.collector.Records() {
			logger.Warn("population error: %s", rec.Message)
		}
		if pt.config.RenderErrorReport {
			renderErrorReport(doc, w.collector.Records())
		}
	}

	return &PopulationResult{
		Document:          doc,
		Numbering:         numbering,
		Errors:            w.collector,
		template:          pt,
		numberingModified: alloc.Modified(),
	}, nil
}

// Path returns the file path the template was prepared from, or "".
func (pt *PreparedTemplate) Path() string {
	return pt.path
}

// Close releases the prepared template. The template must not be populated
// afterwards.
func (pt *PreparedTemplate) Close() error {
	pt.source = nil
	pt.reader = nil
	return nil
}

// Save writes the populated document as a complete package. Every part of
// the source template is carried over untouched except the main document
// part and, when lists were generated, the numbering part with its
// content-type and relationship registrations.
func (r *PopulationResult) Save(w io.Writer) error {
	documentXML, err := r.Document.Marshal()
	if err != nil {
		return NewDocumentError("save", r.template.path, err)
	}

	replacements := map[string][]byte{
		documentPartName: documentXML,
	}

	if r.numberingModified {
		numberingXML, err := r.Numbering.Marshal()
		if err != nil {
			return NewDocumentError("save", r.template.path, err)
		}
		replacements[numberingPartName] = numberingXML

		if !r.template.hasNumbering {
			if err := r.registerNumberingPart(replacements); err != nil {
				return err
			}
		}
	}

	if err := writeDocx(w, r.template.source, replacements); err != nil {
		return NewDocumentError("save", r.template.path, err)
	}
	return nil
}

// SaveToFile writes the populated document to path.
func (r *PopulationResult) SaveToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return NewDocumentError("save", path, err)
	}
	defer f.Close()

	if err := r.Save(f); err != nil {
		return err
	}
	return f.Close()
}

// registerNumberingPart wires a freshly created numbering part into the
// package: a content-type override and a relationship from the main part.
func (r *PopulationResult) registerNumberingPart(replacements map[string][]byte) error {
	ctContent, err := r.template.reader.GetPart(contentTypesPartName)
	if err != nil {
		return NewDocumentError("save", r.template.path, err)
	}
	updatedCT, err := addNumberingContentType(ctContent)
	if err != nil {
		return NewDocumentError("save", r.template.path, err)
	}
	replacements[contentTypesPartName] = updatedCT

	var relsContent []byte
	if r.template.reader.HasPart(documentRelsPartName) {
		relsContent, err = r.template.reader.GetPart(documentRelsPartName)
		if err != nil {
			return NewDocumentError("save", r.template.path, err)
		}
	} else {
		relsContent = []byte(fmt.Sprintf(
			`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n"+
				`<Relationships xmlns="%s"></Relationships>`,
			"http://schemas.openxmlformats.org/package/2006/relationships"))
	}
	updatedRels, err := addNumberingRelationship(relsContent)
	if err != nil {
		return NewDocumentError("save", r.template.path, err)
	}
	replacements[documentRelsPartName] = updatedRels

	return nil
}
