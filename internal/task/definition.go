package task

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/taskconfig/internal/schema"
)

// TaskDefinition is the contract a contributed task type publishes.
type TaskDefinition struct {
	// ExtensionID identifies the contributor.
	ExtensionID string `json:"extensionId" validate:"required"`

	// TaskType is the value of "type" that selects this definition.
	TaskType string `json:"type" validate:"required"`

	// Properties describes the type-specific properties. May be nil.
	Properties *schema.Schema `json:"properties,omitempty"`

	// Check replaces schema validation when set.
	Check func(definition map[string]any) error `json:"-"`
}

// Validate checks a configuring task's properties with the contributor's
// capability: Check if set, otherwise the Properties schema. The "type"
// member selected this definition and is not passed on.
func (d *TaskDefinition) Validate(definition map[string]any) error {
	props := make(map[string]any, len(definition))
	for k, v := range definition {
		if k != propType {
			props[k] = v
		}
	}

	if d.Check != nil {
		return d.Check(props)
	}
	if d.Properties == nil {
		return nil
	}
	return schema.NewValidator(d.Properties).Validate(props)
}

// Key builds the keyed identifier for definition: the type followed by
// the required properties in name order.
func (d *TaskDefinition) Key(definition map[string]any) string {
	parts := []string{d.TaskType}
	if d.Properties != nil {
		required := append([]string(nil), d.Properties.Required...)
		sort.Strings(required)
		for _, name := range required {
			if v, ok := definition[name]; ok {
				parts = append(parts, fmt.Sprintf("%s=%v", name, v))
			}
		}
	}
	return strings.Join(parts, ",")
}

// lookupDefinition finds the definition registered for typ.
func lookupDefinition(types []TaskDefinition, typ string) *TaskDefinition {
	if typ == "" {
		return nil
	}
	for i := range types {
		if types[i].TaskType == typ {
			return &types[i]
		}
	}
	return nil
}
