package matcher

import (
	"fmt"

	"github.com/dshills/taskconfig/internal/diag"
)

// Result is the outcome of resolving a problemMatcher value.
type Result struct {
	// Value holds the matchers that resolved, in input order.
	Value []ProblemMatcher
	// Errors holds one diagnostic per problem found.
	Errors []diag.Diagnostic
}

// Resolve resolves raw against reg.
//
// raw is a reference string, an inline definition object, an already
// resolved ProblemMatcher, or a slice of any of these.
func Resolve(raw any, reg Registry) Result {
	return ResolveAt(raw, reg, "")
}

// ResolveAt is Resolve with path prefixed to every diagnostic.
func ResolveAt(raw any, reg Registry, path string) Result {
	r := &resolver{registry: reg}

	switch v := raw.(type) {
	case nil:
	case []any:
		for i, item := range v {
			r.resolveOne(item, indexPath(path, i))
		}
	case []string:
		for i, item := range v {
			r.resolveOne(item, indexPath(path, i))
		}
	case []map[string]any:
		for i, item := range v {
			r.resolveOne(item, indexPath(path, i))
		}
	case []ProblemMatcher:
		for i, item := range v {
			r.resolveOne(item, indexPath(path, i))
		}
	default:
		r.resolveOne(raw, path)
	}
	return r.result
}

type resolver struct {
	registry Registry
	result   Result
}

func (r *resolver) resolveOne(spec any, path string) {
	switch v := spec.(type) {
	case string:
		if m, ok := r.resolveReference(v, path); ok {
			r.result.Value = append(r.result.Value, m)
		}
	case map[string]any:
		if m, ok := r.resolveInline(v, path, false); ok {
			r.result.Value = append(r.result.Value, m)
		}
	case ProblemMatcher:
		r.result.Value = append(r.result.Value, v.Clone())
	case *ProblemMatcher:
		if v != nil {
			r.result.Value = append(r.result.Value, v.Clone())
		}
	case *NamedProblemMatcher:
		if v != nil {
			r.result.Value = append(r.result.Value, v.ProblemMatcher.Clone())
		}
	default:
		r.fail(diag.KindInvalidMatcher, path,
			"a problem matcher must be a string reference or an object, got %T", spec)
	}
}

func (r *resolver) resolveReference(s string, path string) (ProblemMatcher, bool) {
	ref, err := ParseReference(s)
	if err != nil {
		r.fail(diag.KindInvalidMatcherReference, path, "problem matcher reference '%s' %v", s, err)
		return ProblemMatcher{}, false
	}

	named, ok := r.registry.Lookup(ref.Name)
	if !ok {
		r.fail(diag.KindUnknownMatcherReference, path, "%s%s is not a known problem matcher", ReferencePrefix, ref.Name)
		return ProblemMatcher{}, false
	}

	m := named.ProblemMatcher.Clone()
	for _, o := range ref.Overrides {
		r.override(&m, o.Key, o.Value, path)
	}
	return m, true
}

func (r *resolver) override(m *ProblemMatcher, key string, value any, path string) {
	if msg, ok := applyOverride(m, key, value); !ok {
		r.fail(diag.KindInvalidOverride, path, "%s", msg)
	}
}

func (r *resolver) fail(kind diag.Kind, path, format string, args ...any) {
	r.result.Errors = append(r.result.Errors, diag.Errorf(kind, path, format, args...))
}

func indexPath(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}
