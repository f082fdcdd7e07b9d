package schema

import (
	"fmt"
	"regexp"
	"sort"
	"sync"
	"unicode/utf8"
)

// Validator checks values against a schema.
type Validator struct {
	schema *Schema

	// strict rejects members the schema does not declare.
	strict bool

	patternCache sync.Map // map[string]*regexp.Regexp
}

// NewValidator creates a validator for s.
func NewValidator(s *Schema) *Validator {
	return &Validator{schema: s}
}

// WithStrictMode makes undeclared members errors even when the schema
// allows additional properties.
func (v *Validator) WithStrictMode(strict bool) *Validator {
	v.strict = strict
	return v
}

// Validate checks an object against the schema. Violations are returned
// as *ValidationErrors; nil means the value is valid.
func (v *Validator) Validate(value map[string]any) error {
	if v.schema == nil {
		return nil
	}
	errs := &ValidationErrors{}
	v.validateValue("", value, v.schema, errs)
	return errs.AsError()
}

func (v *Validator) validateValue(path string, value any, s *Schema, errs *ValidationErrors) {
	if s == nil {
		return
	}

	if len(s.Enum) > 0 && !containsValue(s.Enum, value) {
		errs.Errors = append(errs.Errors, NewEnumError(path, value, s.Enum))
		return
	}

	if len(s.Type) == 0 {
		// Untyped schemas still constrain objects through their members.
		if obj, ok := value.(map[string]any); ok && (len(s.Properties) > 0 || len(s.Required) > 0) {
			v.validateObject(path, obj, s, errs)
		}
		return
	}

	for _, typ := range s.Type {
		if !matchesType(value, typ) {
			continue
		}
		switch typ {
		case TypeString:
			v.validateString(path, value.(string), s, errs)
		case TypeArray:
			v.validateArray(path, toSlice(value), s, errs)
		case TypeObject:
			v.validateObject(path, value.(map[string]any), s, errs)
		}
		return
	}
	errs.Errors = append(errs.Errors, NewTypeError(path, s.Type, value))
}

func (v *Validator) validateString(path, value string, s *Schema, errs *ValidationErrors) {
	n := utf8.RuneCountInString(value)
	if s.MinLength != nil && n < *s.MinLength {
		errs.Add(path, fmt.Sprintf("string length %d is less than minimum %d", n, *s.MinLength), value)
	}
	if s.MaxLength != nil && n > *s.MaxLength {
		errs.Add(path, fmt.Sprintf("string length %d is greater than maximum %d", n, *s.MaxLength), value)
	}
	if s.Pattern != "" && !v.matchPattern(value, s.Pattern) {
		errs.Add(path, fmt.Sprintf("value does not match pattern: %s", s.Pattern), value)
	}
}

func (v *Validator) validateArray(path string, items []any, s *Schema, errs *ValidationErrors) {
	if s.Items == nil {
		return
	}
	for i, item := range items {
		v.validateValue(fmt.Sprintf("%s[%d]", path, i), item, s.Items, errs)
	}
}

func (v *Validator) validateObject(path string, obj map[string]any, s *Schema, errs *ValidationErrors) {
	for _, req := range s.Required {
		if _, ok := obj[req]; !ok {
			errs.Errors = append(errs.Errors, NewRequiredError(joinPath(path, req)))
		}
	}

	// Sorted so the first reported error is stable.
	names := make([]string, 0, len(obj))
	for name := range obj {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		propPath := joinPath(path, name)
		if prop, ok := s.Properties[name]; ok {
			v.validateValue(propPath, obj[name], prop, errs)
		} else if v.strict || !s.AllowsAdditionalProperties() {
			errs.Add(propPath, "unknown property", obj[name])
		}
	}
}

func (v *Validator) matchPattern(value, pattern string) bool {
	if cached, ok := v.patternCache.Load(pattern); ok {
		return cached.(*regexp.Regexp).MatchString(value)
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	v.patternCache.Store(pattern, re)
	return re.MatchString(value)
}

func matchesType(value any, typ string) bool {
	switch typ {
	case TypeString:
		_, ok := value.(string)
		return ok
	case TypeNumber:
		return isNumber(value)
	case TypeInteger:
		return isInteger(value)
	case TypeBoolean:
		_, ok := value.(bool)
		return ok
	case TypeArray:
		return toSlice(value) != nil
	case TypeObject:
		_, ok := value.(map[string]any)
		return ok
	case TypeNull:
		return value == nil
	default:
		return false
	}
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	default:
		return false
	}
}

func isInteger(v any) bool {
	switch val := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float32:
		return float32(int32(val)) == val
	case float64:
		return float64(int64(val)) == val
	default:
		return false
	}
}

func toFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case float32:
		return float64(val), true
	case float64:
		return val, true
	default:
		return 0, false
	}
}

func toSlice(v any) []any {
	switch val := v.(type) {
	case []any:
		return val
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out
	default:
		return nil
	}
}

func containsValue(allowed []any, value any) bool {
	for _, a := range allowed {
		if valuesEqual(a, value) {
			return true
		}
	}
	return false
}

func valuesEqual(a, b any) bool {
	if fa, ok := toFloat64(a); ok {
		fb, ok := toFloat64(b)
		return ok && fa == fb
	}
	switch a.(type) {
	case nil, string, bool:
		return a == b
	}
	return false
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}
