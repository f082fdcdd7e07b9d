package task

import (
	"fmt"
	"strings"

	"github.com/dshills/taskconfig/internal/diag"
)

// Property names of a task entry.
const (
	propLabel          = "label"
	propTaskName       = "taskName"
	propType           = "type"
	propCommand        = "command"
	propArgs           = "args"
	propOptions        = "options"
	propPresentation   = "presentation"
	propGroup          = "group"
	propProblemMatcher = "problemMatcher"
	propDependsOn      = "dependsOn"
	propDependsOrder   = "dependsOrder"
	propDetail         = "detail"
	propIsBackground   = "isBackground"
	propPromptOnClose  = "promptOnClose"
	propHide           = "hide"
	propRunOptions     = "runOptions"
	propIcon           = "icon"
)

var platformKeys = []string{string(PlatformWindows), string(PlatformOSX), string(PlatformLinux)}

// commonProps are the properties every task understands; whatever else a
// configuring task carries belongs to its task type.
var commonProps = map[string]bool{
	propLabel:          true,
	propTaskName:       true,
	propPresentation:   true,
	propGroup:          true,
	propProblemMatcher: true,
	propDependsOn:      true,
	propDependsOrder:   true,
	propDetail:         true,
	propIsBackground:   true,
	propPromptOnClose:  true,
	propHide:           true,
	propRunOptions:     true,
	propIcon:           true,
}

// fields reads optional properties of one object, reporting values of the
// wrong shape as warnings.
type fields struct {
	obj    map[string]any
	path   string
	report func(diag.Diagnostic)
}

func (f *fields) at(key string) string {
	if f.path == "" {
		return key
	}
	return f.path + "." + key
}

func (f *fields) has(key string) bool {
	_, ok := f.obj[key]
	return ok
}

func (f *fields) warn(key, format string, args ...any) {
	f.report(diag.Warnf(diag.KindInvalidProperty, f.at(key), format, args...))
}

func (f *fields) str(key string) (string, bool) {
	v, ok := f.obj[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		f.warn(key, "%s must be a string; the property is ignored", key)
		return "", false
	}
	return s, true
}

func (f *fields) boolean(key string) (bool, bool) {
	v, ok := f.obj[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	if !ok {
		f.warn(key, "%s must be a boolean; the property is ignored", key)
		return false, false
	}
	return b, true
}

func (f *fields) object(key string) (*fields, bool) {
	v, ok := f.obj[key]
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	if !ok {
		f.warn(key, "%s must be an object; the property is ignored", key)
		return nil, false
	}
	return &fields{obj: m, path: f.at(key), report: f.report}, true
}

// enum reads a string property restricted to allowed values.
func enum[T ~string](f *fields, key string, allowed ...T) (T, bool) {
	s, ok := f.str(key)
	if !ok {
		return "", false
	}
	for _, a := range allowed {
		if string(a) == s {
			return a, true
		}
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	f.warn(key, "'%s' is not a valid %s value; expected one of %s", s, key, strings.Join(names, ", "))
	return "", false
}

// stringList reads a string or an array of strings.
func (f *fields) stringList(key string) ([]string, bool) {
	v, ok := f.obj[key]
	if !ok {
		return nil, false
	}
	switch val := v.(type) {
	case string:
		return []string{val}, true
	case []string:
		return append([]string(nil), val...), true
	case []any:
		out := make([]string, 0, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				f.report(diag.Warnf(diag.KindInvalidProperty, fmt.Sprintf("%s[%d]", f.at(key), i),
					"%s entries must be strings; the entry is ignored", key))
				continue
			}
			out = append(out, s)
		}
		return out, true
	}
	f.warn(key, "%s must be a string or an array of strings; the property is ignored", key)
	return nil, false
}

// toInt converts decoded JSON, YAML or TOML numbers.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// withPlatform returns obj with the override section for p merged over
// it and every platform section removed. obj is not modified.
func withPlatform(obj map[string]any, p Platform, path string, report func(diag.Diagnostic)) map[string]any {
	out := make(map[string]any, len(obj))
	for k, v := range obj {
		out[k] = v
	}
	for _, k := range platformKeys {
		delete(out, k)
	}

	raw, ok := obj[string(p)]
	if !ok {
		return out
	}
	override, ok := raw.(map[string]any)
	if !ok {
		f := &fields{path: path, report: report}
		f.warn(string(p), "%s must be an object; the platform override is ignored", p)
		return out
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
