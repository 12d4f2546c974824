// Package docgen populates DOCX templates built with content controls.
//
// A template is a regular Word document whose content controls carry binding
// tags. The engine resolves each tag against a JSON data tree and rewrites
// the control in place: plain text controls receive the string form of the
// value, rich text controls receive paragraphs converted from an HTML
// fragment, and repeating section controls are expanded once per element of
// a bound array. Tags prefixed with "visible:" evaluate a boolean condition
// and remove the control when it is false.
//
// Basic usage:
//
//	tpl, err := docgen.PrepareFile("template.docx")
//	if err != nil {
//		return err
//	}
//	result, err := tpl.Populate(data)
//	if err != nil {
//		return err
//	}
//	if result.Errors.HasErrors() {
//		log.Println(result.Errors)
//	}
//	return result.SaveToFile("out.docx")
//
// A failure on one control never aborts population; it is recorded on the
// result and processing continues with the remaining controls.
package docgen
