package docgen

import (
	"fmt"

	"github.com/CUSTIS-public/docgen/pkg/docgen/ooxml"
)

// expandRepeating clones the repeating section's item template once per
// element of the bound array and populates each clone against that element.
// Population is idempotent: the content area is rebuilt from the canonical
// template every time, so repeated runs never accumulate duplicate items.
func (w *walker) expandRepeating(sdt *ooxml.SDT, tag string, value interface{}, scope *Scope) {
	elements, ok := asArray(value)
	if !ok {
		w.collector.RecordError(NewBindingError(tag, "repeating section requires an array value", nil), sdt)
		return
	}

	template := findItemTemplate(sdt)
	if template == nil {
		w.collector.RecordError(
			NewStructureError(fmt.Sprintf("repeating section '%s' has no item template", tag)), sdt)
		return
	}

	// Detach the template from the live tree before rewriting the content
	// area, and strip control ids so every materialized copy is independent
	template = template.Clone()
	template.StripIDs()

	content := make([]ooxml.BodyElement, 0, len(elements))
	for i, element := range elements {
		obj, isObject := asObject(element)
		if !isObject {
			w.collector.RecordError(
				NewBindingError(tag, fmt.Sprintf("array element %d is not an object", i), nil), sdt)
			continue
		}

		item := template.Clone()
		content = append(content, item)

		itemScope := scope.childScope(obj)
		for _, child := range findControls(&item.Content) {
			w.processControl(child, itemScope)
		}
	}

	sdt.Content = content
	if sdt.Properties != nil {
		sdt.Properties.ShowingPlaceholder = false
	}
}

// findItemTemplate locates the section's single item template: the first
// child control carrying the repeating-section-item marker.
func findItemTemplate(sdt *ooxml.SDT) *ooxml.SDT {
	for _, el := range sdt.Content {
		item, ok := el.(*ooxml.SDT)
		if ok && item.Properties != nil && item.Properties.HasMarker(ooxml.MarkerRepeatingSectionItem) {
			return item
		}
	}
	return nil
}
