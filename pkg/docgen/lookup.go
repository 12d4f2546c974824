package docgen

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// TemplateData represents the data tree a template is populated from. It is
// the shape encoding/json produces for an object: values are strings,
// numbers, booleans, nested objects and arrays.
type TemplateData map[string]interface{}

// ParseData decodes a JSON object into TemplateData.
func ParseData(content []byte) (TemplateData, error) {
	var data TemplateData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("failed to parse data: %w", err)
	}
	return data, nil
}

// Scope is the data subtree currently visible for tag resolution. The root
// scope wraps the whole data tree; every repeating-section iteration rebinds
// a child scope around one array element. Scopes nest and never leak
// sideways: a child scope cannot see its siblings' elements.
type Scope struct {
	data interface{}
}

// NewScope creates the root binding scope.
func NewScope(data TemplateData) *Scope {
	return &Scope{data: map[string]interface{}(data)}
}

// childScope rebinds resolution around one element of a repeated array.
func (s *Scope) childScope(element map[string]interface{}) *Scope {
	return &Scope{data: element}
}

// Lookup resolves a tag or operand against the scope. Direct key lookup is
// tried first; anything else is delegated to the JSON-path collaborator.
// found is false when the data simply has no match; err is set when the
// lookup itself failed (malformed path and similar).
func (s *Scope) Lookup(expr string) (value interface{}, found bool, err error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, false, nil
	}

	if m, ok := s.data.(map[string]interface{}); ok {
		if v, exists := m[expr]; exists {
			return v, true, nil
		}
	}

	path := expr
	if !strings.HasPrefix(path, "$") {
		path = "$." + path
	}

	v, lookupErr := jsonpath.Get(path, s.data)
	if lookupErr != nil {
		// The jsonpath collaborator reports "no match" as an error; a path
		// that fails to parse surfaces the same way. Either way the tag did
		// not resolve; the caller decides how loudly to report it.
		return nil, false, lookupErr
	}

	// A path with several matches yields a slice; single matches come back
	// as the value itself, which is exactly the array-wrapping rule.
	return v, true, nil
}

// FormatValue converts a resolved value to its string representation
func FormatValue(value interface{}) string {
	if value == nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return v
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", v)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', 10, 32)
	case float64:
		// 'g' with precision 15 removes the trailing zeros JSON numbers pick
		// up on the round-trip through float64
		return strconv.FormatFloat(v, 'g', 15, 64)
	case bool:
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// asArray normalizes a resolved value to an array, when it is one.
func asArray(value interface{}) ([]interface{}, bool) {
	switch v := value.(type) {
	case []interface{}:
		return v, true
	case []map[string]interface{}:
		out := make([]interface{}, len(v))
		for i, e := range v {
			out[i] = e
		}
		return out, true
	default:
		return nil, false
	}
}

// asObject normalizes a resolved value to an object, when it is one.
func asObject(value interface{}) (map[string]interface{}, bool) {
	switch v := value.(type) {
	case map[string]interface{}:
		return v, true
	case TemplateData:
		return v, true
	default:
		return nil, false
	}
}
