package matcher

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dshills/taskconfig/internal/diag"
)

// Inline definition keys beyond the overridable properties.
const (
	keyBase       = "base"
	keyLabel      = "label"
	keyName       = "name"
	keyPattern    = "pattern"
	keyFilePrefix = "filePrefix"
)

// resolveInline turns an inline definition object into a matcher. With a
// base reference the remaining keys override the referenced matcher.
// Without one the object is taken as-is and must carry at least one
// matcher property; needPattern additionally demands a usable pattern.
func (r *resolver) resolveInline(obj map[string]any, path string, needPattern bool) (ProblemMatcher, bool) {
	var m ProblemMatcher
	known, badPattern := false, false

	if base, ok := obj[keyBase]; ok {
		s, isString := base.(string)
		if !isString {
			r.fail(diag.KindInvalidMatcherReference, joinKey(path, keyBase),
				"the base of a problem matcher must be a reference string")
			return ProblemMatcher{}, false
		}
		resolved, ok := r.resolveReference(s, joinKey(path, keyBase))
		if !ok {
			return ProblemMatcher{}, false
		}
		m = resolved
	}

	for _, key := range sortedKeys(obj) {
		value := obj[key]
		switch key {
		case keyBase, keyName:
		case keyLabel, keyFilePrefix:
			s, ok := value.(string)
			if !ok {
				r.fail(diag.KindInvalidMatcher, joinKey(path, key), "%s must be a string", key)
				continue
			}
			known = true
			if key == keyLabel {
				m.Label = s
			} else {
				m.FilePrefix = s
			}
		case keyPattern:
			known = true
			patterns, msg := parsePatterns(value)
			if msg != "" {
				r.fail(diag.KindInvalidMatcher, joinKey(path, key), "%s", msg)
				badPattern = true
				continue
			}
			m.Patterns = patterns
		case PropApplyTo, PropSeverity, PropFileLocation, PropOwner, PropSource:
			known = true
			r.override(&m, key, value, joinKey(path, key))
		}
	}

	if _, hasBase := obj[keyBase]; hasBase {
		return m, true
	}
	if badPattern {
		return ProblemMatcher{}, false
	}
	if !known {
		r.fail(diag.KindInvalidMatcher, path,
			"a problem matcher must define matcher properties or reference a base matcher")
		return ProblemMatcher{}, false
	}
	if needPattern && len(m.Patterns) == 0 {
		r.fail(diag.KindInvalidMatcher, path,
			"a problem matcher must define a pattern or reference a base matcher")
		return ProblemMatcher{}, false
	}
	return m, true
}

// parsePatterns reads a pattern object or an array of them.
func parsePatterns(value any) ([]Pattern, string) {
	var items []any
	switch v := value.(type) {
	case map[string]any:
		items = []any{v}
	case []any:
		items = v
	default:
		return nil, "pattern must be an object or an array of objects"
	}
	if len(items) == 0 {
		return nil, "pattern must not be empty"
	}

	patterns := make([]Pattern, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Sprintf("pattern[%d] must be an object", i)
		}
		p, msg := parsePattern(obj)
		if msg != "" {
			if len(items) > 1 {
				msg = fmt.Sprintf("pattern[%d]: %s", i, msg)
			}
			return nil, msg
		}
		patterns = append(patterns, p)
	}
	return patterns, ""
}

func parsePattern(obj map[string]any) (Pattern, string) {
	re, _ := obj["regexp"].(string)
	if strings.TrimSpace(re) == "" {
		return Pattern{}, "a pattern must define a regexp"
	}
	if _, err := regexp.Compile(re); err != nil {
		return Pattern{}, fmt.Sprintf("invalid regexp %q: %v", re, err)
	}

	p := Pattern{Regexp: re}
	if kind, ok := obj["kind"].(string); ok {
		switch PatternKind(kind) {
		case PatternKindLocation, PatternKindFile:
			p.Kind = PatternKind(kind)
		default:
			return Pattern{}, fmt.Sprintf("'%s' is not a valid pattern kind", kind)
		}
	}

	groups := []struct {
		key string
		dst *int
	}{
		{"file", &p.File},
		{"location", &p.Line},
		{"line", &p.Line},
		{"column", &p.Column},
		{"endLine", &p.EndLine},
		{"endColumn", &p.EndColumn},
		{"severity", &p.Severity},
		{"code", &p.Code},
		{"message", &p.Message},
	}
	for _, g := range groups {
		raw, ok := obj[g.key]
		if !ok {
			continue
		}
		n, ok := toGroup(raw)
		if !ok {
			return Pattern{}, fmt.Sprintf("%s must be a non-negative capture group index", g.key)
		}
		*g.dst = n
	}
	if loop, ok := obj["loop"].(bool); ok {
		p.Loop = loop
	}
	return p, ""
}

func toGroup(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, n >= 0
	case int64:
		return int(n), n >= 0
	case float64:
		if n < 0 || n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// ParseNamed builds a registry entry from a declaration object. The
// declaration may itself use a base reference resolved against reg;
// otherwise it must define a usable pattern.
func ParseNamed(name string, obj map[string]any, reg Registry) (*NamedProblemMatcher, []diag.Diagnostic) {
	r := &resolver{registry: reg}
	m, ok := r.resolveInline(obj, name, true)
	if !ok {
		return nil, r.result.Errors
	}
	return &NamedProblemMatcher{Name: trimPrefix(name), ProblemMatcher: m}, r.result.Errors
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func joinKey(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
