package docgen

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseData(t *testing.T) {
	data, err := ParseData([]byte(`{"name": "doc", "count": 3, "items": [{"x": 1}]}`))
	if err != nil {
		t.Fatalf("ParseData failed: %v", err)
	}
	if data["name"] != "doc" {
		t.Errorf("name = %v, want doc", data["name"])
	}
	if data["count"] != float64(3) {
		t.Errorf("count = %v, want 3", data["count"])
	}
}

func TestParseDataInvalid(t *testing.T) {
	if _, err := ParseData([]byte(`{broken`)); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestScopeLookup(t *testing.T) {
	scope := NewScope(TemplateData{
		"name": "doc",
		"a": map[string]interface{}{
			"b": "nested",
		},
		"items": []interface{}{
			map[string]interface{}{"x": "first"},
			map[string]interface{}{"x": "second"},
		},
		"weird.key": "direct",
	})

	t.Run("direct key", func(t *testing.T) {
		v, found, err := scope.Lookup("name")
		if err != nil || !found {
			t.Fatalf("Lookup(name) = %v, %v, %v", v, found, err)
		}
		if v != "doc" {
			t.Errorf("value = %v, want doc", v)
		}
	})

	t.Run("direct key wins over path syntax", func(t *testing.T) {
		v, found, _ := scope.Lookup("weird.key")
		if !found || v != "direct" {
			t.Errorf("Lookup(weird.key) = %v, %v, want direct key match", v, found)
		}
	})

	t.Run("nested path", func(t *testing.T) {
		v, found, err := scope.Lookup("a.b")
		if err != nil || !found {
			t.Fatalf("Lookup(a.b) = %v, %v, %v", v, found, err)
		}
		if v != "nested" {
			t.Errorf("value = %v, want nested", v)
		}
	})

	t.Run("wildcard path wraps matches into an array", func(t *testing.T) {
		v, found, err := scope.Lookup("$.items[*].x")
		if err != nil || !found {
			t.Fatalf("Lookup = %v, %v, %v", v, found, err)
		}
		arr, ok := asArray(v)
		if !ok {
			t.Fatalf("expected array result, got %T", v)
		}
		if diff := cmp.Diff([]interface{}{"first", "second"}, arr); diff != "" {
			t.Errorf("array mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing field", func(t *testing.T) {
		_, found, _ := scope.Lookup("missing")
		if found {
			t.Error("Lookup(missing) reported found")
		}
	})

	t.Run("empty expression", func(t *testing.T) {
		_, found, err := scope.Lookup("")
		if found || err != nil {
			t.Errorf("Lookup(\"\") = found=%v err=%v", found, err)
		}
	})
}

func TestChildScopeIsolation(t *testing.T) {
	root := NewScope(TemplateData{
		"rootOnly": "yes",
	})
	child := root.childScope(map[string]interface{}{"itemField": "x"})

	if _, found, _ := child.Lookup("itemField"); !found {
		t.Error("child scope should see its element's fields")
	}
	if _, found, _ := child.Lookup("rootOnly"); found {
		t.Error("child scope must not see the root scope's fields")
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{name: "nil", in: nil, want: ""},
		{name: "string", in: "text", want: "text"},
		{name: "int", in: 42, want: "42"},
		{name: "whole float", in: float64(10), want: "10"},
		{name: "fractional float", in: float64(1.5), want: "1.5"},
		{name: "bool", in: true, want: "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.in); got != tt.want {
				t.Errorf("FormatValue(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAsArray(t *testing.T) {
	if _, ok := asArray("not an array"); ok {
		t.Error("string should not normalize to an array")
	}
	arr, ok := asArray([]interface{}{1, 2})
	if !ok || len(arr) != 2 {
		t.Errorf("asArray([]interface{}) = %v, %v", arr, ok)
	}
	arr, ok = asArray([]map[string]interface{}{{"a": 1}})
	if !ok || len(arr) != 1 {
		t.Errorf("asArray([]map) = %v, %v", arr, ok)
	}
}

func TestAsObject(t *testing.T) {
	if _, ok := asObject([]interface{}{}); ok {
		t.Error("array should not normalize to an object")
	}
	obj, ok := asObject(map[string]interface{}{"a": 1})
	if !ok || obj["a"] != 1 {
		t.Errorf("asObject(map) = %v, %v", obj, ok)
	}
	obj, ok = asObject(TemplateData{"b": 2})
	if !ok || obj["b"] != 2 {
		t.Errorf("asObject(TemplateData) = %v, %v", obj, ok)
	}
}
