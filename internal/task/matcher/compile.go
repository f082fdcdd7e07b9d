package matcher

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Problem is a problem extracted from a line of tool output.
type Problem struct {
	File      string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
	Severity  Severity
	Code      string
	Message   string
	// Owner is the owning tool, from the matcher.
	Owner string
	// Source is a human-readable origin label, from the matcher.
	Source string
}

// CompiledMatcher is a resolved matcher with its patterns compiled.
type CompiledMatcher struct {
	matcher  ProblemMatcher
	patterns []*compiledPattern
}

type compiledPattern struct {
	regex   *regexp.Regexp
	pattern Pattern
}

// ErrNoPatterns is returned by Compile for a matcher without patterns.
var ErrNoPatterns = errors.New("problem matcher has no patterns")

// Compile compiles every pattern of m.
func Compile(m ProblemMatcher) (*CompiledMatcher, error) {
	if len(m.Patterns) == 0 {
		return nil, ErrNoPatterns
	}
	compiled := &CompiledMatcher{
		matcher:  m.Clone(),
		patterns: make([]*compiledPattern, 0, len(m.Patterns)),
	}

	for i, p := range m.Patterns {
		re, err := regexp.Compile(p.Regexp)
		if err != nil {
			return nil, fmt.Errorf("pattern %d: %w", i, err)
		}
		compiled.patterns = append(compiled.patterns, &compiledPattern{
			regex:   re,
			pattern: p,
		})
	}

	return compiled, nil
}

// Matcher returns the matcher configuration this was compiled from.
func (c *CompiledMatcher) Matcher() ProblemMatcher {
	return c.matcher.Clone()
}

// Match tries each pattern in order against line and extracts the first
// problem found.
func (c *CompiledMatcher) Match(line string) (Problem, bool) {
	for _, p := range c.patterns {
		matches := p.regex.FindStringSubmatch(line)
		if matches == nil {
			continue
		}

		problem := Problem{
			Owner:  c.matcher.Owner,
			Source: c.matcher.Source,
		}

		problem.File = group(matches, p.pattern.File)
		if p.pattern.Kind != PatternKindFile {
			problem.Line = intGroup(matches, p.pattern.Line)
			problem.Column = intGroup(matches, p.pattern.Column)
			problem.EndLine = intGroup(matches, p.pattern.EndLine)
			problem.EndColumn = intGroup(matches, p.pattern.EndColumn)
		}
		problem.Code = group(matches, p.pattern.Code)

		if p.pattern.Message > 0 {
			problem.Message = group(matches, p.pattern.Message)
		} else {
			problem.Message = matches[0]
		}

		if p.pattern.Severity > 0 && p.pattern.Severity < len(matches) {
			problem.Severity = severityFromText(matches[p.pattern.Severity])
		} else {
			problem.Severity = c.matcher.Severity
			if problem.Severity == "" {
				problem.Severity = SeverityError
			}
		}

		return problem, true
	}

	return Problem{}, false
}

func group(matches []string, idx int) string {
	if idx > 0 && idx < len(matches) {
		return matches[idx]
	}
	return ""
}

func intGroup(matches []string, idx int) int {
	if n, err := strconv.Atoi(group(matches, idx)); err == nil {
		return n
	}
	return 0
}

func severityFromText(s string) Severity {
	switch strings.ToLower(s) {
	case "error", "fatal":
		return SeverityError
	case "warning", "warn":
		return SeverityWarning
	case "info", "note":
		return SeverityInfo
	default:
		return SeverityError
	}
}
