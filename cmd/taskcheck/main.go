// Package main is the entry point for taskcheck.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dshills/taskconfig/internal/cli"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := cli.NewRootCommand(fmt.Sprintf("%s (commit %s, built %s)", version, commit, date))
	if err := root.Execute(); err != nil {
		// Diagnostics were already printed.
		if errors.Is(err, cli.ErrDiagnostics) {
			return 1
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}
