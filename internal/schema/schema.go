// Package schema describes and validates the properties a task type
// expects.
//
// Task-type contributors publish a JSON-Schema subset for the properties
// of their tasks (type, properties, required, enum, items, pattern,
// additionalProperties, string length bounds). A configuring task is
// checked against that schema before it is accepted.
package schema

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Type names understood by the validator.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
	TypeNull    = "null"
)

// Schema is a property schema for a task type.
type Schema struct {
	Description string `json:"description,omitempty"`

	// Type is one or more allowed type names.
	Type Types `json:"type,omitempty"`

	// Properties defines object members (for type object).
	Properties map[string]*Schema `json:"properties,omitempty"`

	// AdditionalProperties controls whether undeclared members are allowed.
	AdditionalProperties *bool `json:"additionalProperties,omitempty"`

	// Required lists members that must be present.
	Required []string `json:"required,omitempty"`

	// Items is the element schema for arrays.
	Items *Schema `json:"items,omitempty"`

	// Enum lists the allowed values.
	Enum []any `json:"enum,omitempty"`

	MinLength *int `json:"minLength,omitempty"`
	MaxLength *int `json:"maxLength,omitempty"`

	// Pattern is a regular expression strings must match.
	Pattern string `json:"pattern,omitempty"`
}

// Types is a single type name or a list of them.
type Types []string

// UnmarshalJSON accepts a string or an array of strings.
func (t *Types) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = Types{single}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("type must be string or array of strings: %w", err)
	}
	*t = list
	return nil
}

// MarshalJSON writes a single type as a string.
func (t Types) MarshalJSON() ([]byte, error) {
	if len(t) == 1 {
		return json.Marshal(t[0])
	}
	return json.Marshal([]string(t))
}

// Is reports whether typ is one of the allowed types.
func (t Types) Is(typ string) bool {
	return slices.Contains(t, typ)
}

// String returns the type list for messages.
func (t Types) String() string {
	if len(t) == 1 {
		return t[0]
	}
	return fmt.Sprintf("%v", []string(t))
}

// Parse reads a schema from JSON.
func Parse(data []byte) (*Schema, error) {
	s := &Schema{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	return s, nil
}

// FromMap converts a decoded document fragment into a schema.
func FromMap(m map[string]any) (*Schema, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}
	return Parse(data)
}

// IsRequired reports whether name is a required member.
func (s *Schema) IsRequired(name string) bool {
	return s != nil && slices.Contains(s.Required, name)
}

// AllowsAdditionalProperties reports whether undeclared members are allowed.
func (s *Schema) AllowsAdditionalProperties() bool {
	if s.AdditionalProperties == nil {
		return true
	}
	return *s.AdditionalProperties
}
