package docgen

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorTypePredicates(t *testing.T) {
	binding := NewBindingError("tag", "no match", nil)
	condition := NewConditionError("a < b", "bad types")
	structure := NewStructureError("no paragraph")

	if !IsBindingError(binding) || IsBindingError(condition) {
		t.Error("IsBindingError misclassifies")
	}
	if !IsConditionError(condition) || IsConditionError(structure) {
		t.Error("IsConditionError misclassifies")
	}
	if !IsStructureError(structure) || IsStructureError(binding) {
		t.Error("IsStructureError misclassifies")
	}
}

func TestBindingErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewBindingError("tag", "lookup failed", cause)
	if !errors.Is(err, cause) {
		t.Error("cause not reachable through Unwrap")
	}
	if !strings.Contains(err.Error(), "tag") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestDocumentErrorMessage(t *testing.T) {
	err := NewDocumentError("open", "a.docx", errors.New("no such file"))
	msg := err.Error()
	if !strings.Contains(msg, "open") || !strings.Contains(msg, "a.docx") {
		t.Errorf("message = %q", msg)
	}
}

func TestRecoverError(t *testing.T) {
	if err := RecoverError(errors.New("inner")); !strings.Contains(err.Error(), "inner") {
		t.Errorf("error value: %v", err)
	}
	if err := RecoverError("text panic"); !strings.Contains(err.Error(), "text panic") {
		t.Errorf("string value: %v", err)
	}
	if err := RecoverError(42); !strings.Contains(err.Error(), "42") {
		t.Errorf("other value: %v", err)
	}
}

func TestErrorCollector(t *testing.T) {
	c := NewErrorCollector()
	if c.HasErrors() || c.Len() != 0 {
		t.Error("fresh collector should be empty")
	}

	c.Record("first problem", nil)
	c.RecordError(NewStructureError("second problem"), nil)
	c.RecordError(nil, nil) // ignored

	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	if got := c.Records()[0].Message; got != "first problem" {
		t.Errorf("first message = %q", got)
	}

	summary := c.Error()
	if !strings.Contains(summary, "2 population errors") {
		t.Errorf("summary = %q", summary)
	}
	if !strings.Contains(summary, "second problem") {
		t.Errorf("summary = %q", summary)
	}
}

func TestErrorCollectorSingleMessage(t *testing.T) {
	c := NewErrorCollector()
	c.Record("only one", nil)
	if c.Error() != "only one" {
		t.Errorf("Error() = %q", c.Error())
	}
}
