package docgen

import (
	"strings"
	"testing"
)

func conditionScope() *Scope {
	return NewScope(TemplateData{
		"numField":  float64(10),
		"strField":  "str",
		"boolField": true,
		"zeroField": float64(0),
		"nested": map[string]interface{}{
			"flag": false,
		},
	})
}

func TestEvaluateCondition(t *testing.T) {
	scope := conditionScope()

	tests := []struct {
		name    string
		expr    string
		want    bool
		wantErr bool
	}{
		{name: "null literal", expr: "null", want: false},
		{name: "negated null", expr: "!null", want: true},
		{name: "empty expression", expr: "", want: false},
		{name: "int equality with field", expr: "numField == 10", want: true},
		{name: "int inequality with field", expr: "numField != 10", want: false},
		{name: "string equality quoted", expr: "strField == 'str'", want: true},
		{name: "string equality double quoted", expr: `strField == "str"`, want: true},
		{name: "unquoted right resolves as field", expr: "strField == str", want: false},
		{name: "ordering less", expr: "1 < numField", want: true},
		{name: "ordering greater", expr: "numField > 100", want: false},
		{name: "ordering less equal", expr: "numField <= 10", want: true},
		{name: "ordering greater equal", expr: "numField >= 11", want: false},
		{name: "ordering type mismatch", expr: "'1' < numField", wantErr: true},
		{name: "truthy int field", expr: "numField", want: true},
		{name: "truthy zero field", expr: "zeroField", want: false},
		{name: "truthy bool field", expr: "boolField", want: true},
		{name: "truthy string field", expr: "strField", want: true},
		{name: "truthy missing field", expr: "missingField", want: false},
		{name: "negated missing field", expr: "!missingField", want: true},
		{name: "bool literal true", expr: "true", want: true},
		{name: "bool literal false", expr: "false", want: false},
		{name: "int literal zero", expr: "0", want: false},
		{name: "nested path operand", expr: "nested.flag == false", want: true},
		{name: "null comparison with missing field", expr: "missingField == null", want: true},
		{name: "cross type equality is false", expr: "numField == '10'", want: false},
		{name: "empty left operand", expr: "== 10", wantErr: true},
		{name: "empty right operand", expr: "numField <", wantErr: true},
		{name: "double negation", expr: "!!boolField", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvaluateCondition(tt.expr, scope)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("EvaluateCondition(%q) expected error, got %v", tt.expr, got)
				}
				if !IsConditionError(err) {
					t.Fatalf("EvaluateCondition(%q) expected ConditionError, got %T", tt.expr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("EvaluateCondition(%q) unexpected error: %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("EvaluateCondition(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluateConditionTypeErrorNamesTypes(t *testing.T) {
	_, err := EvaluateCondition("'1' < numField", conditionScope())
	if err == nil {
		t.Fatal("expected error for ordering on mixed types")
	}
	msg := err.Error()
	if !strings.Contains(msg, "string") || !strings.Contains(msg, "int") {
		t.Errorf("error should name both operand types, got: %s", msg)
	}
}

func TestEvaluateOperand(t *testing.T) {
	scope := conditionScope()

	tests := []struct {
		name string
		in   string
		want conditionToken
	}{
		{name: "empty", in: "", want: nullToken()},
		{name: "null literal mixed case", in: "NULL", want: nullToken()},
		{name: "field int", in: "numField", want: intToken(10)},
		{name: "field string", in: "strField", want: stringToken("str")},
		{name: "field bool", in: "boolField", want: boolToken(true)},
		{name: "int literal", in: "42", want: intToken(42)},
		{name: "negative int literal", in: "-7", want: intToken(-7)},
		{name: "bool literal", in: "false", want: boolToken(false)},
		{name: "single quoted literal", in: "'hello'", want: stringToken("hello")},
		{name: "double quoted literal", in: `"hello"`, want: stringToken("hello")},
		{name: "unresolved field", in: "nothing.here", want: nullToken()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evaluateOperand(tt.in, scope)
			if err != nil {
				t.Fatalf("evaluateOperand(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("evaluateOperand(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}
