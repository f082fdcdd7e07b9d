package matcher

// Builtins returns a fresh registry with the bundled named matchers.
func Builtins() Registry {
	reg := make(Registry)
	for _, m := range builtinMatchers() {
		reg.Add(m)
	}
	return reg
}

func builtinMatchers() []*NamedProblemMatcher {
	return []*NamedProblemMatcher{
		// GCC/Clang style: file:line:column: severity: message
		{
			Name: "gcc",
			ProblemMatcher: ProblemMatcher{
				Label:        "GCC compiler problems",
				Owner:        "gcc",
				FileLocation: FileLocationRelative,
				Patterns: []Pattern{
					{
						Regexp:   `^(.+):(\d+):(\d+):\s*(error|warning|note):\s*(.+)$`,
						File:     1,
						Line:     2,
						Column:   3,
						Severity: 4,
						Message:  5,
					},
					{
						Regexp:   `^(.+):(\d+):\s*(error|warning|note):\s*(.+)$`,
						File:     1,
						Line:     2,
						Severity: 3,
						Message:  4,
					},
				},
			},
		},
		// Go compiler: file:line:column: message
		{
			Name: "go",
			ProblemMatcher: ProblemMatcher{
				Label:        "Go compiler problems",
				Owner:        "go",
				Severity:     SeverityError,
				FileLocation: FileLocationRelative,
				Patterns: []Pattern{
					{
						Regexp:  `^(.+):(\d+):(\d+):\s*(.+)$`,
						File:    1,
						Line:    2,
						Column:  3,
						Message: 4,
					},
					{
						Regexp:  `^(.+):(\d+):\s*(.+)$`,
						File:    1,
						Line:    2,
						Message: 3,
					},
				},
			},
		},
		// Go test failures reported as indented file:line: message
		{
			Name: "go-test",
			ProblemMatcher: ProblemMatcher{
				Label:        "Go test failures",
				Owner:        "go-test",
				Severity:     SeverityError,
				FileLocation: FileLocationRelative,
				Patterns: []Pattern{
					{
						Regexp:  `^\s*(.+):(\d+):\s*(.+)$`,
						File:    1,
						Line:    2,
						Message: 3,
					},
				},
			},
		},
		// TypeScript: file(line,col): severity code: message
		{
			Name: "tsc",
			ProblemMatcher: ProblemMatcher{
				Label:        "TypeScript problems",
				Owner:        "typescript",
				Source:       "ts",
				ApplyTo:      ApplyToClosedDocuments,
				FileLocation: FileLocationRelative,
				Patterns: []Pattern{
					{
						Regexp:   `^(.+)\((\d+),(\d+)\):\s*(error|warning)\s+(\w+):\s*(.+)$`,
						File:     1,
						Line:     2,
						Column:   3,
						Severity: 4,
						Code:     5,
						Message:  6,
					},
				},
			},
		},
		// ESLint compact: file: line N, col N, Severity - message
		{
			Name: "eslint-compact",
			ProblemMatcher: ProblemMatcher{
				Label:        "ESLint compact problems",
				Owner:        "eslint",
				Source:       "eslint",
				FileLocation: FileLocationRelative,
				Patterns: []Pattern{
					{
						Regexp:   `^(.+):\s*line\s+(\d+),\s*col\s+(\d+),\s*(Error|Warning)\s*-\s*(.+)$`,
						File:     1,
						Line:     2,
						Column:   3,
						Severity: 4,
						Message:  5,
					},
				},
			},
		},
		// ESLint stylish: an indented "line:col  severity  message  rule" row
		{
			Name: "eslint-stylish",
			ProblemMatcher: ProblemMatcher{
				Label:        "ESLint stylish problems",
				Owner:        "eslint",
				Source:       "eslint",
				FileLocation: FileLocationRelative,
				Patterns: []Pattern{
					{
						Regexp:   `^\s+(\d+):(\d+)\s+(error|warning)\s+(.+?)\s+(\S+)$`,
						Line:     1,
						Column:   2,
						Severity: 3,
						Message:  4,
						Code:     5,
						Loop:     true,
					},
				},
			},
		},
		// pylint: file:line:column: code: message
		{
			Name: "pylint",
			ProblemMatcher: ProblemMatcher{
				Label:        "Pylint problems",
				Owner:        "pylint",
				Severity:     SeverityWarning,
				FileLocation: FileLocationRelative,
				Patterns: []Pattern{
					{
						Regexp:  `^(.+):(\d+):(\d+):\s*([A-Z]\d+):\s*(.+)$`,
						File:    1,
						Line:    2,
						Column:  3,
						Code:    4,
						Message: 5,
					},
				},
			},
		},
		// rustc location line: --> file:line:col
		{
			Name: "rustc",
			ProblemMatcher: ProblemMatcher{
				Label:        "Rust compiler problems",
				Owner:        "rustc",
				Severity:     SeverityError,
				FileLocation: FileLocationRelative,
				Patterns: []Pattern{
					{
						Regexp: `^\s*-->\s*(.+):(\d+):(\d+)$`,
						File:   1,
						Line:   2,
						Column: 3,
					},
				},
			},
		},
		// Generic: file:line: message
		{
			Name: "generic",
			ProblemMatcher: ProblemMatcher{
				Label:        "Generic file:line problems",
				Owner:        "generic",
				Severity:     SeverityError,
				FileLocation: FileLocationRelative,
				Patterns: []Pattern{
					{
						Regexp:  `^(.+):(\d+):\s*(.+)$`,
						File:    1,
						Line:    2,
						Message: 3,
					},
				},
			},
		},
	}
}
