// Package diag carries the diagnostics produced while parsing task
// configuration.
//
// Parsing never aborts on bad input. Every problem is delivered to a
// Reporter, which exposes the four-level capability set used by the
// task subsystem (Info, Warn, Error, Fatal). Reporters that also implement
// Recorder receive the full structured Diagnostic instead of only the
// message text.
package diag

import (
	"fmt"
	"strings"
)

// Severity indicates how serious a diagnostic is.
type Severity uint8

const (
	// SeverityInfo is informational.
	SeverityInfo Severity = iota
	// SeverityWarning marks a problem that was recovered from without loss.
	SeverityWarning
	// SeverityError marks a problem that caused input to be ignored.
	SeverityError
	// SeverityFatal marks a problem that prevents any further processing.
	SeverityFatal
)

// String returns the lower-case severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Kind categorizes a diagnostic.
type Kind string

const (
	// KindMissingLabel: an entry has neither label nor taskName.
	KindMissingLabel Kind = "missing-label"
	// KindMissingCommand: a custom task has no command.
	KindMissingCommand Kind = "missing-command"
	// KindInvalidEntry: a task entry is not an object.
	KindInvalidEntry Kind = "invalid-entry"
	// KindUnknownMatcherReference: a $name reference is not registered.
	KindUnknownMatcherReference Kind = "unknown-matcher-reference"
	// KindInvalidMatcherReference: a string reference is malformed.
	KindInvalidMatcherReference Kind = "invalid-matcher-reference"
	// KindInvalidOverride: an override key or value is not recognized.
	KindInvalidOverride Kind = "invalid-override"
	// KindInvalidMatcher: an inline matcher is not usable.
	KindInvalidMatcher Kind = "invalid-matcher"
	// KindInvalidProperty: an optional task property has a bad value.
	KindInvalidProperty Kind = "invalid-property"
	// KindInvalidTaskProperties: a configuring task fails its type's schema.
	KindInvalidTaskProperties Kind = "invalid-task-properties"
	// KindInvalidDocument: the tasks document itself is malformed.
	KindInvalidDocument Kind = "invalid-document"
)

// Diagnostic is a single reported problem.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Kind     Kind     `json:"kind,omitempty"`
	// Path locates the offending value, e.g. "tasks[2].problemMatcher".
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	if d.Path == "" {
		return d.Message
	}
	return fmt.Sprintf("%s: %s", d.Path, d.Message)
}

// String formats the diagnostic with its severity.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Severity, d.Error())
}

// Errorf builds an error-severity diagnostic.
func Errorf(kind Kind, path, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Kind:     kind,
		Path:     path,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Warnf builds a warning-severity diagnostic.
func Warnf(kind Kind, path, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Kind:     kind,
		Path:     path,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Join renders a list of diagnostics one per line.
func Join(diags []Diagnostic) string {
	lines := make([]string, 0, len(diags))
	for _, d := range diags {
		lines = append(lines, d.String())
	}
	return strings.Join(lines, "\n")
}

// HasErrors reports whether any diagnostic is an error or worse.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity >= SeverityError {
			return true
		}
	}
	return false
}
