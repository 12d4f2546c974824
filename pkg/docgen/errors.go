package docgen

import (
	"fmt"
	"strings"

	"github.com/CUSTIS-public/docgen/pkg/docgen/ooxml"
)

// DocumentError represents an error during document container operations
type DocumentError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *DocumentError) Error() string {
	if e.Path != "" && e.Cause != nil {
		return fmt.Sprintf("document error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	} else if e.Path != "" {
		return fmt.Sprintf("document error during %s of '%s'", e.Operation, e.Path)
	} else if e.Cause != nil {
		return fmt.Sprintf("document error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("document error during %s", e.Operation)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// NewDocumentError creates a new document error
func NewDocumentError(operation, path string, cause error) error {
	return &DocumentError{
		Operation: operation,
		Path:      path,
		Cause:     cause,
	}
}

// BindingError represents a failure to resolve a tag against the data
type BindingError struct {
	Tag     string
	Message string
	Cause   error
}

func (e *BindingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("binding error for tag '%s': %s: %v", e.Tag, e.Message, e.Cause)
	}
	return fmt.Sprintf("binding error for tag '%s': %s", e.Tag, e.Message)
}

func (e *BindingError) Unwrap() error {
	return e.Cause
}

// NewBindingError creates a new binding error
func NewBindingError(tag, message string, cause error) error {
	return &BindingError{Tag: tag, Message: message, Cause: cause}
}

// ConditionError represents a malformed or type-incompatible visibility condition
type ConditionError struct {
	Expression string
	Message    string
}

func (e *ConditionError) Error() string {
	return fmt.Sprintf("condition error in '%s': %s", e.Expression, e.Message)
}

// NewConditionError creates a new condition error
func NewConditionError(expression, message string) error {
	return &ConditionError{Expression: expression, Message: message}
}

// StructureError represents content-control content that has the wrong shape
// for the requested operation (missing run, missing repeating template, ...)
type StructureError struct {
	Message string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("structure error: %s", e.Message)
}

// NewStructureError creates a new structure error
func NewStructureError(message string) error {
	return &StructureError{Message: message}
}

// IsBindingError checks if an error is a binding error
func IsBindingError(err error) bool {
	_, ok := err.(*BindingError)
	return ok
}

// IsConditionError checks if an error is a condition error
func IsConditionError(err error) bool {
	_, ok := err.(*ConditionError)
	return ok
}

// IsStructureError checks if an error is a structure error
func IsStructureError(err error) bool {
	_, ok := err.(*StructureError)
	return ok
}

// RecoverError converts a panic recovery value to an error
func RecoverError(r interface{}) error {
	switch v := r.(type) {
	case error:
		return fmt.Errorf("panic recovered: %w", v)
	case string:
		return fmt.Errorf("panic recovered: %s", v)
	default:
		return fmt.Errorf("panic recovered: %v", v)
	}
}

// ErrorRecord ties a population failure to the content control it occurred on.
type ErrorRecord struct {
	Message string
	Control *ooxml.SDT
}

// ErrorCollector accumulates per-control failures during a population walk.
// A failure never aborts the walk; it is recorded here and processing
// continues with sibling controls.
type ErrorCollector struct {
	records []ErrorRecord
}

// NewErrorCollector creates an empty collector
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{}
}

// Record adds a failure for the given control
func (c *ErrorCollector) Record(message string, control *ooxml.SDT) {
	c.records = append(c.records, ErrorRecord{Message: message, Control: control})
}

// RecordError adds a failure from an error value
func (c *ErrorCollector) RecordError(err error, control *ooxml.SDT) {
	if err == nil {
		return
	}
	c.Record(err.Error(), control)
}

// Len returns the number of recorded failures
func (c *ErrorCollector) Len() int {
	return len(c.records)
}

// HasErrors reports whether any failure was recorded
func (c *ErrorCollector) HasErrors() bool {
	return len(c.records) > 0
}

// Records returns the recorded failures in the order they occurred
func (c *ErrorCollector) Records() []ErrorRecord {
	return c.records
}

func (c *ErrorCollector) Error() string {
	if len(c.records) == 0 {
		return "no errors"
	}
	if len(c.records) == 1 {
		return c.records[0].Message
	}
	var parts []string
	parts = append(parts, fmt.Sprintf("%d population errors:", len(c.records)))
	for i, rec := range c.records {
		parts = append(parts, fmt.Sprintf("  [%d] %s", i+1, rec.Message))
	}
	return strings.Join(parts, "\n")
}
