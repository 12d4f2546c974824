package docgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/CUSTIS-public/docgen/pkg/docgen/ooxml"
)

// visiblePrefix marks a tag as a visibility condition instead of a binding.
const visiblePrefix = "visible:"

// controlKind classifies a content control once, from its property markers.
type controlKind int

const (
	kindPlainText controlKind = iota
	kindRichText
	kindRepeatingSection
	kindUnsupported
)

// unsupportedControlMarkers lists the marker elements that make a control
// ineligible as a binding target.
var unsupportedControlMarkers = []string{
	ooxml.MarkerEquation,
	ooxml.MarkerPicture,
	ooxml.MarkerCitation,
	ooxml.MarkerComboBox,
	ooxml.MarkerDropDownList,
	ooxml.MarkerDate,
	ooxml.MarkerDocPartObj,
	ooxml.MarkerDocPartList,
	ooxml.MarkerGroup,
	ooxml.MarkerCheckbox,
}

// classifyControl derives the control kind from the property markers. A
// control with no explicit marker counts as rich text; some rich text
// controls in the wild carry none.
func classifyControl(props *ooxml.SDTProperties) (controlKind, []string) {
	var offending []string
	for _, m := range unsupportedControlMarkers {
		if props.HasMarker(m) {
			offending = append(offending, m)
		}
	}
	if len(offending) > 0 {
		return kindUnsupported, offending
	}
	switch {
	case props.HasMarker(ooxml.MarkerText):
		return kindPlainText, nil
	case props.HasMarker(ooxml.MarkerRepeatingSection):
		return kindRepeatingSection, nil
	default:
		return kindRichText, nil
	}
}

// controlSite pairs a control with the element slice that owns it, so a
// visibility-false control can be spliced out of its parent.
type controlSite struct {
	sdt    *ooxml.SDT
	parent *[]ooxml.BodyElement
}

// walker drives one population pass over a document. Every failure is caught
// at the control boundary and recorded; the walk never aborts on a bad
// placeholder.
type walker struct {
	collector        *ErrorCollector
	alloc            *numberingAllocator
	newlinesToBreaks bool
	logger           *Logger
}

func newWalker(alloc *numberingAllocator, config *Config) *walker {
	return &walker{
		collector:        NewErrorCollector(),
		alloc:            alloc,
		newlinesToBreaks: config.NewlinesToBreaks,
		logger:           GetLogger().WithField("component", "walker"),
	}
}

// walkBody processes every first-level content control of the document body
// in document order.
func (w *walker) walkBody(body *ooxml.Body, scope *Scope) {
	for _, site := range findControls(&body.Elements) {
		w.processControl(site, scope)
	}
}

// findControls returns the first-level content controls reachable from the
// given elements: direct children plus controls inside table cells. It never
// descends into a control's own content; nested controls are discovered when
// their ancestor is processed.
func findControls(parent *[]ooxml.BodyElement) []controlSite {
	var sites []controlSite
	for _, el := range *parent {
		switch e := el.(type) {
		case *ooxml.SDT:
			sites = append(sites, controlSite{sdt: e, parent: parent})
		case *ooxml.Table:
			for _, row := range e.Rows {
				for _, cell := range row.Cells {
					sites = append(sites, findControls(&cell.Elements)...)
				}
			}
		}
	}
	return sites
}

func (w *walker) processControl(site controlSite, scope *Scope) {
	sdt := site.sdt
	defer func() {
		if r := recover(); r != nil {
			w.collector.RecordError(RecoverError(r), sdt)
		}
	}()

	props := sdt.Properties
	if props == nil {
		w.collector.Record("control has no properties", sdt)
		return
	}
	if !props.HasTag {
		w.collector.Record(fmt.Sprintf("control '%s' has no tag", controlName(sdt)), sdt)
		return
	}
	tag := strings.TrimSpace(props.Tag)
	if tag == "" {
		w.collector.Record(fmt.Sprintf("control '%s' has an empty tag", controlName(sdt)), sdt)
		return
	}

	kind, offending := classifyControl(props)
	if kind == kindUnsupported {
		w.collector.Record(fmt.Sprintf("control '%s' has unsupported type: %s", tag, strings.Join(offending, ", ")), sdt)
		return
	}

	if condition, ok := cutVisiblePrefix(tag); ok {
		w.applyVisibility(site, condition, kind, scope)
		return
	}

	value, found, err := scope.Lookup(tag)
	if err != nil {
		w.collector.RecordError(NewBindingError(tag, "lookup failed", err), sdt)
		return
	}
	if !found {
		w.collector.RecordError(NewBindingError(tag, "no data matched the tag", nil), sdt)
		return
	}

	w.logger.Debug("populating control '%s'", tag)

	switch kind {
	case kindRepeatingSection:
		w.expandRepeating(sdt, tag, value, scope)
	case kindPlainText:
		if err := setPlainText(sdt, FormatValue(value), w.newlinesToBreaks); err != nil {
			w.collector.RecordError(err, sdt)
		}
	default:
		setRichText(sdt, convertHTML(FormatValue(value), w.alloc))
	}
}

// applyVisibility evaluates a visible: condition. A false condition removes
// the control with its whole subtree; a true one processes the children
// exactly as if the wrapper were absent.
func (w *walker) applyVisibility(site controlSite, condition string, kind controlKind, scope *Scope) {
	sdt := site.sdt
	if kind == kindRepeatingSection {
		w.collector.Record(
			fmt.Sprintf("conditional tag '%s' can only apply to plain or rich text controls", sdt.Tag()), sdt)
		return
	}

	visible, err := EvaluateCondition(condition, scope)
	if err != nil {
		w.collector.RecordError(err, sdt)
		return
	}
	if !visible {
		w.logger.Debug("hiding control '%s'", sdt.Tag())
		removeElement(site.parent, sdt)
		return
	}
	for _, child := range findControls(&sdt.Content) {
		w.processControl(child, scope)
	}
}

// cutVisiblePrefix strips the case-insensitive visible: prefix, returning
// the trimmed condition.
func cutVisiblePrefix(tag string) (string, bool) {
	if len(tag) < len(visiblePrefix) || !strings.EqualFold(tag[:len(visiblePrefix)], visiblePrefix) {
		return "", false
	}
	return strings.TrimSpace(tag[len(visiblePrefix):]), true
}

// removeElement splices target out of the parent slice by identity.
func removeElement(parent *[]ooxml.BodyElement, target ooxml.BodyElement) {
	elements := *parent
	for i, el := range elements {
		if el == target {
			*parent = append(elements[:i], elements[i+1:]...)
			return
		}
	}
}

// controlName names a control for error messages when the tag is unusable.
func controlName(sdt *ooxml.SDT) string {
	if sdt.Properties != nil {
		if sdt.Properties.Tag != "" {
			return sdt.Properties.Tag
		}
		if sdt.Properties.Alias != "" {
			return sdt.Properties.Alias
		}
		if sdt.Properties.ID != 0 {
			return "id " + strconv.Itoa(sdt.Properties.ID)
		}
	}
	return "unnamed"
}
