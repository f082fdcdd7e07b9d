// Package config provides the configuration of the taskcheck tool.
//
// Settings are resolved in layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← TASKCHECK_LOG_LEVEL, ...
//	├─────────────────────────────┤
//	│  2. Config File             │  ← --config taskcheck.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Scalar settings go through viper. The problem_matchers and task_types
// sections are read from the same file with the document loader so that
// their keys keep their case.
//
// # Configuration Files
//
// Any format the loader understands may be used:
//
//	# taskcheck.yaml
//	log_level: debug
//	platform: linux
//	problem_matchers:
//	  make:
//	    owner: make
//	    pattern:
//	      regexp: '^make: \*\*\* \[(.*)\] Error (\d+)$'
//	      file: 1
//	      message: 0
//	task_types:
//	  - extension_id: vscode.npm
//	    type: npm
//	    required: [script]
//	    properties:
//	      script: {type: string}
//	      path: {type: string}
//
// # Error Handling
//
// The package defines several error types:
//
//   - ErrFileNotFound: Configuration file doesn't exist
//   - ErrValidationFailed: A setting fails validation
//   - ValidationError: One failed setting, wrapping ErrValidationFailed
package config
