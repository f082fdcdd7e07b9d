package schema

import (
	"fmt"
	"strings"
)

// ValidationError is a single schema violation.
type ValidationError struct {
	// Path is the dot-separated path to the invalid value.
	Path string

	// Message describes what's wrong.
	Message string

	// Value is the invalid value (may be nil).
	Value any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors collects violations in the order they were found.
type ValidationErrors struct {
	Errors []*ValidationError
}

// Error implements the error interface.
func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e.Errors), strings.Join(msgs, "\n  - "))
}

// Add appends a violation.
func (e *ValidationErrors) Add(path, message string, value any) {
	e.Errors = append(e.Errors, &ValidationError{
		Path:    path,
		Message: message,
		Value:   value,
	})
}

// HasErrors reports whether anything was collected.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// First returns the first violation, or nil.
func (e *ValidationErrors) First() *ValidationError {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[0]
}

// AsError returns nil when empty, otherwise e.
func (e *ValidationErrors) AsError() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// NewRequiredError reports a missing required member.
func NewRequiredError(path string) *ValidationError {
	return &ValidationError{Path: path, Message: "required property is missing"}
}

// NewTypeError reports a type mismatch.
func NewTypeError(path string, expected Types, actual any) *ValidationError {
	return &ValidationError{
		Path:    path,
		Message: fmt.Sprintf("expected %s, got %s", expected, typeName(actual)),
		Value:   actual,
	}
}

// NewEnumError reports a value outside the allowed set.
func NewEnumError(path string, value any, allowed []any) *ValidationError {
	return &ValidationError{
		Path:    path,
		Message: fmt.Sprintf("value %v is not one of %v", value, allowed),
		Value:   value,
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return TypeNull
	case string:
		return TypeString
	case bool:
		return TypeBoolean
	case map[string]any:
		return TypeObject
	}
	if isNumber(v) {
		return TypeNumber
	}
	if toSlice(v) != nil {
		return TypeArray
	}
	return fmt.Sprintf("%T", v)
}
