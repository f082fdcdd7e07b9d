package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/taskconfig/internal/diag"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
)

func checkFormat(format string) error {
	switch format {
	case formatText, formatJSON:
		return nil
	}
	return fmt.Errorf("unknown format %q (want %s or %s)", format, formatText, formatJSON)
}

// styles renders for one writer; colors are dropped when it is not a
// terminal.
type styles struct {
	header  lipgloss.Style
	cell    lipgloss.Style
	path    lipgloss.Style
	muted   lipgloss.Style
	ok      lipgloss.Style
	info    lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		header:  r.NewStyle().Bold(true),
		cell:    r.NewStyle(),
		path:    r.NewStyle().Foreground(lipgloss.Color("6")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		ok:      r.NewStyle().Foreground(lipgloss.Color("2")),
		info:    r.NewStyle().Foreground(lipgloss.Color("4")),
		warning: r.NewStyle().Foreground(lipgloss.Color("3")),
		err:     r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}

func (s styles) severity(sev diag.Severity) lipgloss.Style {
	switch sev {
	case diag.SeverityInfo:
		return s.info
	case diag.SeverityWarning:
		return s.warning
	default:
		return s.err
	}
}

// writeDiagnostic prints one diagnostic as "  severity  path  message".
func (s styles) writeDiagnostic(w io.Writer, d diag.Diagnostic) {
	sev := fmt.Sprintf("%-7s", d.Severity)
	line := "  " + s.severity(d.Severity).Render(sev) + "  "
	if d.Path != "" {
		line += s.path.Render(d.Path) + "  "
	}
	line += d.Message
	if d.Kind != "" {
		line += " " + s.muted.Render("("+string(d.Kind)+")")
	}
	fmt.Fprintln(w, line)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func joinNonEmpty(parts ...string) string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
