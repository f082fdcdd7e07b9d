package matcher

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ReferencePrefix marks a string as a named-matcher reference.
	ReferencePrefix = "$"

	overrideDelimiter = "?"
	overrideSeparator = "&"
)

// Override property names.
const (
	PropApplyTo      = "applyTo"
	PropSeverity     = "severity"
	PropFileLocation = "fileLocation"
	PropOwner        = "owner"
	PropSource       = "source"
)

// Override is one key=value pair from a reference's override fragment.
type Override struct {
	Key   string
	Value string
}

// Reference is a parsed "$name?key=value&..." string.
type Reference struct {
	Name      string
	Overrides []Override
}

// String formats the reference back into its textual form.
func (r Reference) String() string {
	var b strings.Builder
	b.WriteString(ReferencePrefix)
	b.WriteString(r.Name)
	for i, o := range r.Overrides {
		if i == 0 {
			b.WriteString(overrideDelimiter)
		} else {
			b.WriteString(overrideSeparator)
		}
		b.WriteString(o.Key)
		b.WriteString("=")
		b.WriteString(o.Value)
	}
	return b.String()
}

var (
	errMissingPrefix = errors.New("must start with " + ReferencePrefix)
	errEmptyName     = errors.New("names no problem matcher")
)

// ParseReference splits a reference into its base name and override
// pairs. Pairs without "=" are kept with an empty value and rejected when
// applied; empty pairs are skipped.
func ParseReference(s string) (Reference, error) {
	if !strings.HasPrefix(s, ReferencePrefix) {
		return Reference{}, errMissingPrefix
	}

	name, fragment, _ := strings.Cut(s[len(ReferencePrefix):], overrideDelimiter)
	name = strings.TrimSpace(name)
	if name == "" {
		return Reference{}, errEmptyName
	}

	ref := Reference{Name: name}
	for _, pair := range strings.Split(fragment, overrideSeparator) {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		ref.Overrides = append(ref.Overrides, Override{
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
		})
	}
	return ref, nil
}

// applyOverride sets one overridable property on m. On failure m is left
// untouched and a message describing the problem is returned.
func applyOverride(m *ProblemMatcher, key string, value any) (string, bool) {
	switch key {
	case PropApplyTo:
		s, _ := value.(string)
		a, ok := ParseApplyTo(s)
		if !ok {
			return invalidValue(key, value, ApplyToAllDocuments, ApplyToOpenDocuments, ApplyToClosedDocuments), false
		}
		m.ApplyTo = a
	case PropSeverity:
		s, _ := value.(string)
		sev, ok := ParseSeverity(s)
		if !ok {
			return invalidValue(key, value, SeverityError, SeverityWarning, SeverityInfo), false
		}
		m.Severity = sev
	case PropFileLocation:
		kind, prefix, ok := parseFileLocationValue(value)
		if !ok {
			return invalidValue(key, value, FileLocationAbsolute, FileLocationRelative, FileLocationAutoDetect, FileLocationSearch), false
		}
		m.FileLocation = kind
		m.FilePrefix = prefix
	case PropOwner, PropSource:
		s, ok := value.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return fmt.Sprintf("the %s override must be a non-empty string", key), false
		}
		if key == PropOwner {
			m.Owner = s
		} else {
			m.Source = s
		}
	default:
		return fmt.Sprintf("'%s' is not an overridable problem matcher property", key), false
	}
	return "", true
}

// parseFileLocationValue accepts "kind" or ["kind", "prefix"].
func parseFileLocationValue(value any) (FileLocation, string, bool) {
	switch v := value.(type) {
	case string:
		fl, ok := ParseFileLocation(v)
		return fl, "", ok
	case []any:
		if len(v) == 0 || len(v) > 2 {
			return "", "", false
		}
		s, _ := v[0].(string)
		fl, ok := ParseFileLocation(s)
		if !ok {
			return "", "", false
		}
		if len(v) == 1 {
			return fl, "", true
		}
		prefix, ok := v[1].(string)
		return fl, prefix, ok
	case []string:
		items := make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
		return parseFileLocationValue(items)
	}
	return "", "", false
}

func invalidValue[T ~string](key string, value any, allowed ...T) string {
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return fmt.Sprintf("'%v' is not a valid %s value; expected one of %s", value, key, strings.Join(names, ", "))
}
