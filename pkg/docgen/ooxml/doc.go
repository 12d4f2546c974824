// Package ooxml implements the WordprocessingML object model used by docgen.
//
// The package parses word/document.xml and word/numbering.xml into typed
// structures with owned child collections. Only the elements the population
// engine needs are fully typed (paragraphs, runs, structured document tags,
// tables, bookmarks, numbering definitions); everything else is captured
// verbatim during parsing and written back unchanged, so a populated document
// keeps all formatting the template carried.
//
// The model is a plain tree: children are owned slices, there are no parent
// or sibling back-references, and cloning a subtree is a deep value copy.
package ooxml
