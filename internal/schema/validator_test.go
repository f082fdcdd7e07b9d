package schema

import (
	"errors"
	"strings"
	"testing"
)

const npmSchema = `{
	"type": "object",
	"required": ["script"],
	"properties": {
		"script": {"type": "string", "minLength": 1},
		"path": {"type": "string"},
		"flags": {"type": "array", "items": {"type": "string"}},
		"mode": {"enum": ["install", "run"]},
		"retries": {"type": "integer"}
	}
}`

func mustParse(t *testing.T, src string) *Schema {
	t.Helper()
	s, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return s
}

func TestParse_TypeForms(t *testing.T) {
	s := mustParse(t, `{"type": ["string", "null"]}`)
	if !s.Type.Is(TypeString) || !s.Type.Is(TypeNull) {
		t.Errorf("Type = %v, want string and null", s.Type)
	}
	if s.Type.Is(TypeObject) {
		t.Error("Type.Is(object) = true, want false")
	}
	if got := s.Type.String(); got != "[string null]" {
		t.Errorf("Type.String() = %q, want %q", got, "[string null]")
	}

	s = mustParse(t, `{"type": "object"}`)
	if len(s.Type) != 1 || s.Type[0] != TypeObject {
		t.Errorf("Type = %v, want [object]", s.Type)
	}

	if _, err := Parse([]byte(`{"type": 3}`)); err == nil {
		t.Error("expected error for numeric type, got nil")
	}
}

func TestFromMap(t *testing.T) {
	s, err := FromMap(map[string]any{
		"type":     "object",
		"required": []any{"script"},
	})
	if err != nil {
		t.Fatalf("FromMap() error = %v", err)
	}
	if !s.IsRequired("script") {
		t.Error("IsRequired(script) = false, want true")
	}
	if s.IsRequired("path") {
		t.Error("IsRequired(path) = true, want false")
	}

	s, err = FromMap(nil)
	if err != nil {
		t.Fatalf("FromMap(nil) error = %v", err)
	}
	if s != nil {
		t.Errorf("FromMap(nil) = %+v, want nil", s)
	}
}

func TestValidator_Valid(t *testing.T) {
	v := NewValidator(mustParse(t, npmSchema))

	err := v.Validate(map[string]any{
		"script":  "build",
		"flags":   []any{"--silent"},
		"mode":    "run",
		"retries": float64(2),
	})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidator_Violations(t *testing.T) {
	tests := []struct {
		name  string
		value map[string]any
		path  string
	}{
		{"missing required", map[string]any{"path": "web"}, "script"},
		{"wrong type", map[string]any{"script": 12}, "script"},
		{"too short", map[string]any{"script": ""}, "script"},
		{"bad item", map[string]any{"script": "b", "flags": []any{true}}, "flags[0]"},
		{"bad enum", map[string]any{"script": "b", "mode": "publish"}, "mode"},
		{"not integer", map[string]any{"script": "b", "retries": 1.5}, "retries"},
	}

	v := NewValidator(mustParse(t, npmSchema))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.value)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var verrs *ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("error type = %T, want *ValidationErrors", err)
			}
			if got := verrs.First().Path; got != tt.path {
				t.Errorf("first path = %q, want %q", got, tt.path)
			}
		})
	}
}

func TestValidator_AdditionalProperties(t *testing.T) {
	s := mustParse(t, `{"type": "object", "additionalProperties": false, "properties": {"a": {"type": "string"}}}`)
	err := NewValidator(s).Validate(map[string]any{"a": "x", "b": "y"})
	if err == nil {
		t.Fatal("expected error for undeclared property, got nil")
	}
	if !strings.Contains(err.Error(), "b: unknown property") {
		t.Errorf("error = %q, want it to mention b: unknown property", err)
	}

	open := mustParse(t, `{"type": "object", "properties": {"a": {"type": "string"}}}`)
	if err := NewValidator(open).Validate(map[string]any{"b": 1}); err != nil {
		t.Errorf("open schema: unexpected error: %v", err)
	}
	if err := NewValidator(open).WithStrictMode(true).Validate(map[string]any{"b": 1}); err == nil {
		t.Error("strict mode: expected error, got nil")
	}
}

func TestValidator_Pattern(t *testing.T) {
	s := mustParse(t, `{"properties": {"target": {"type": "string", "pattern": "^[a-z]+$"}}}`)
	v := NewValidator(s)

	if err := v.Validate(map[string]any{"target": "all"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := v.Validate(map[string]any{"target": "ALL"}); err == nil {
		t.Error("expected error for ALL, got nil")
	}
	// Cached pattern path.
	if err := v.Validate(map[string]any{"target": "x1"}); err == nil {
		t.Error("expected error for x1, got nil")
	}
}

func TestValidator_NilSchema(t *testing.T) {
	if err := NewValidator(nil).Validate(map[string]any{"anything": true}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := &ValidationErrors{}
	if got := errs.Error(); got != "no validation errors" {
		t.Errorf("Error() = %q", got)
	}
	if errs.AsError() != nil {
		t.Error("AsError() on empty errors should be nil")
	}

	errs.Add("a", "bad", nil)
	if got := errs.Error(); got != "a: bad" {
		t.Errorf("Error() = %q, want %q", got, "a: bad")
	}

	errs.Add("", "worse", nil)
	want := "2 validation errors:\n  - a: bad\n  - worse"
	if got := errs.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
