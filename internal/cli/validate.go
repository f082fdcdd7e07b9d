package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/taskconfig/internal/config/loader"
	"github.com/dshills/taskconfig/internal/diag"
	"github.com/dshills/taskconfig/internal/identity"
	"github.com/dshills/taskconfig/internal/task"
)

// fileReport is the outcome of checking one document.
type fileReport struct {
	File        string            `json:"file"`
	Version     string            `json:"version,omitempty"`
	Tasks       *task.ParseResult `json:"tasks,omitempty"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
}

func (r *fileReport) count(sev diag.Severity) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == sev || (sev == diag.SeverityError && d.Severity == diag.SeverityFatal) {
			n++
		}
	}
	return n
}

func newValidateCommand(s *session) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Parse task documents and report problems",
		Long: `Parse each task document, resolve its problem matchers and print
every diagnostic. Workspace files (*.code-workspace) are read from their
"tasks" section.

The command exits with a non-zero status when any error was reported.

Examples:
  taskcheck validate .vscode/tasks.json
  taskcheck validate --format json tasks.yaml other.toml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			// IDs are keyed by (source, label), so files of the same source
			// that define the same label get the same ID.
			ids := identity.NewUUIDMap(identity.Namespace)
			reports := make([]*fileReport, 0, len(args))
			failed := false
			for _, file := range args {
				r := s.check(file, ids)
				if diag.HasErrors(r.Diagnostics) {
					failed = true
				}
				reports = append(reports, r)
			}

			out := cmd.OutOrStdout()
			if format == formatJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(reports); err != nil {
					return fmt.Errorf("encoding report: %w", err)
				}
			} else {
				writeReports(out, reports)
			}

			if failed {
				return ErrDiagnostics
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", formatText, "output format (text or json)")
	return cmd
}

// check loads and parses one document.
func (s *session) check(file string, ids identity.Allocator) *fileReport {
	report := &fileReport{File: file, Diagnostics: []diag.Diagnostic{}}
	log := s.logger.With("file", file)

	l := loader.New()
	source := s.cfg.TaskSource()
	if strings.EqualFold(filepath.Ext(file), ".code-workspace") {
		l.Section = "tasks"
		source = task.SourceWorkspaceFile
	}

	doc, err := l.Load(file)
	if err != nil {
		log.Debug("document not loaded", "error", err)
		report.Diagnostics = append(report.Diagnostics, diag.Diagnostic{
			Severity: diag.SeverityFatal,
			Kind:     diag.KindInvalidDocument,
			Message:  err.Error(),
		})
		return report
	}

	collector := diag.NewCollector()
	var reporter diag.Reporter = collector
	if s.logger.Enabled(context.Background(), slog.LevelDebug) {
		reporter = diag.Multi{collector, diag.NewLogReporter(log)}
	}

	ctx := &task.ParseContext{
		Reporter:        reporter,
		ProblemMatchers: s.registry,
		IDs:             ids,
		Platform:        s.cfg.TaskPlatform(),
	}
	res := task.ParseDocument(doc, ctx, source, s.types)

	report.Version = res.Version
	report.Tasks = res
	report.Diagnostics = append(report.Diagnostics, collector.Diagnostics()...)
	log.Debug("document parsed",
		"custom", len(res.Custom),
		"configuring", len(res.Configured),
		"diagnostics", len(report.Diagnostics),
	)
	return report
}

func writeReports(w io.Writer, reports []*fileReport) {
	st := newStyles(w)
	totalErrors, totalWarnings := 0, 0

	for _, r := range reports {
		fmt.Fprintln(w, st.header.Render(r.File))
		for _, d := range r.Diagnostics {
			st.writeDiagnostic(w, d)
		}

		errs, warns := r.count(diag.SeverityError), r.count(diag.SeverityWarning)
		totalErrors += errs
		totalWarnings += warns

		var tasks string
		if r.Tasks != nil {
			tasks = joinNonEmpty(
				plural(len(r.Tasks.Custom), "custom task"),
				plural(len(r.Tasks.Configured), "configuring task"),
			)
		}
		summary := joinNonEmpty(tasks, plural(errs, "error"), plural(warns, "warning"))
		style := st.ok
		switch {
		case errs > 0:
			style = st.err
		case warns > 0:
			style = st.warning
		}
		fmt.Fprintln(w, "  "+style.Render(summary))
	}

	if len(reports) > 1 {
		fmt.Fprintln(w, st.header.Render(fmt.Sprintf("%s checked: %s, %s",
			plural(len(reports), "file"), plural(totalErrors, "error"), plural(totalWarnings, "warning"))))
	}
}
