// Package matcher resolves the problemMatcher property of task
// definitions.
//
// A problemMatcher value is a "$name" reference to a registered matcher,
// an inline definition object, or an array of either. References may
// carry an override fragment:
//
//	"$tsc"
//	"$tsc?applyTo=closedDocuments&severity=warning"
//	{"base": "$tsc", "applyTo": "closedDocuments"}
//
// Overridable properties are applyTo, severity, fileLocation, owner and
// source. Resolution never fails as a whole: unknown references and bad
// overrides are returned as diagnostics next to whatever did resolve.
package matcher

import (
	"slices"
)

// ApplyTo selects which documents a matcher's problems apply to.
type ApplyTo string

const (
	// ApplyToAllDocuments applies problems to every document.
	ApplyToAllDocuments ApplyTo = "allDocuments"
	// ApplyToOpenDocuments applies problems to open documents only.
	ApplyToOpenDocuments ApplyTo = "openDocuments"
	// ApplyToClosedDocuments applies problems to closed documents only.
	ApplyToClosedDocuments ApplyTo = "closedDocuments"
)

// ParseApplyTo validates an applyTo value.
func ParseApplyTo(s string) (ApplyTo, bool) {
	switch a := ApplyTo(s); a {
	case ApplyToAllDocuments, ApplyToOpenDocuments, ApplyToClosedDocuments:
		return a, true
	}
	return "", false
}

// Severity is the severity assigned to matched problems.
type Severity string

const (
	// SeverityError is an error.
	SeverityError Severity = "error"
	// SeverityWarning is a warning.
	SeverityWarning Severity = "warning"
	// SeverityInfo is informational.
	SeverityInfo Severity = "info"
)

// ParseSeverity validates a severity value.
func ParseSeverity(s string) (Severity, bool) {
	switch sev := Severity(s); sev {
	case SeverityError, SeverityWarning, SeverityInfo:
		return sev, true
	}
	return "", false
}

// FileLocation says how file paths in tool output are interpreted.
type FileLocation string

const (
	// FileLocationAbsolute means paths are absolute.
	FileLocationAbsolute FileLocation = "absolute"
	// FileLocationRelative means paths are relative to FilePrefix or the working directory.
	FileLocationRelative FileLocation = "relative"
	// FileLocationAutoDetect tries absolute first, then relative.
	FileLocationAutoDetect FileLocation = "autoDetect"
	// FileLocationSearch searches the workspace for the file.
	FileLocationSearch FileLocation = "search"
)

// ParseFileLocation validates a fileLocation kind.
func ParseFileLocation(s string) (FileLocation, bool) {
	switch fl := FileLocation(s); fl {
	case FileLocationAbsolute, FileLocationRelative, FileLocationAutoDetect, FileLocationSearch:
		return fl, true
	}
	return "", false
}

// PatternKind says whether a pattern reports a location or a whole file.
type PatternKind string

const (
	// PatternKindLocation reports a position inside a file.
	PatternKindLocation PatternKind = "location"
	// PatternKindFile reports a problem on the whole file.
	PatternKindFile PatternKind = "file"
)

// Pattern is a regular expression plus the capture groups holding each
// problem field. A group index of 0 means the field is not captured,
// except Message where 0 selects the whole line.
type Pattern struct {
	Regexp    string      `json:"regexp"`
	Kind      PatternKind `json:"kind,omitempty"`
	File      int         `json:"file,omitempty"`
	Line      int         `json:"line,omitempty"`
	Column    int         `json:"column,omitempty"`
	EndLine   int         `json:"endLine,omitempty"`
	EndColumn int         `json:"endColumn,omitempty"`
	Severity  int         `json:"severity,omitempty"`
	Code      int         `json:"code,omitempty"`
	Message   int         `json:"message,omitempty"`
	Loop      bool        `json:"loop,omitempty"`
}

// ProblemMatcher is a resolved, concrete matcher configuration. Fields
// left at their zero value were not defined by the source.
type ProblemMatcher struct {
	Label        string       `json:"label,omitempty"`
	Owner        string       `json:"owner,omitempty"`
	Source       string       `json:"source,omitempty"`
	ApplyTo      ApplyTo      `json:"applyTo,omitempty"`
	Severity     Severity     `json:"severity,omitempty"`
	FileLocation FileLocation `json:"fileLocation,omitempty"`
	FilePrefix   string       `json:"filePrefix,omitempty"`
	Patterns     []Pattern    `json:"pattern,omitempty"`
}

// Clone returns a deep copy.
func (m ProblemMatcher) Clone() ProblemMatcher {
	m.Patterns = slices.Clone(m.Patterns)
	return m
}

// NamedProblemMatcher is a registry entry.
type NamedProblemMatcher struct {
	// Name is the reference name without the "$" prefix.
	Name string `json:"name"`
	ProblemMatcher
}

// Registry maps matcher names (without "$") to named matchers.
type Registry map[string]*NamedProblemMatcher

// Lookup finds a matcher by name. A leading "$" is ignored.
func (r Registry) Lookup(name string) (*NamedProblemMatcher, bool) {
	if r == nil {
		return nil, false
	}
	m, ok := r[trimPrefix(name)]
	return m, ok && m != nil
}

// Add registers m under its name, replacing any previous entry.
func (r Registry) Add(m *NamedProblemMatcher) {
	m.Name = trimPrefix(m.Name)
	r[m.Name] = m
}

// Names returns the registered names with their "$" prefix, sorted.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, ReferencePrefix+name)
	}
	slices.Sort(names)
	return names
}

// Merge returns a new registry holding r's entries overlaid by others'.
func (r Registry) Merge(others ...Registry) Registry {
	out := make(Registry, len(r))
	for k, v := range r {
		out[k] = v
	}
	for _, o := range others {
		for k, v := range o {
			out[k] = v
		}
	}
	return out
}

func trimPrefix(name string) string {
	if len(name) > 0 && name[0] == '$' {
		return name[1:]
	}
	return name
}
