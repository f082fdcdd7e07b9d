package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/dshills/taskconfig/internal/task/matcher"
)

func newMatchersCommand(s *session) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "matchers",
		Short: "List the named problem matchers",
		Long: `List the problem matchers that "$name" references resolve against:
the built-in matchers plus those declared in the configuration file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if format == formatJSON {
				return writeMatchersJSON(out, s.registry)
			}
			return writeMatchers(out, s.registry)
		},
	}

	cmd.Flags().StringVar(&format, "format", formatText, "output format (text or json)")
	return cmd
}

func writeMatchers(w io.Writer, reg matcher.Registry) error {
	st := newStyles(w)
	rows := make([][]string, 0, len(reg))
	for _, name := range reg.Names() {
		m, _ := reg.Lookup(name)
		applyTo := string(m.ApplyTo)
		if applyTo == "" {
			applyTo = string(matcher.ApplyToAllDocuments)
		}
		rows = append(rows, []string{name, m.Owner, applyTo, strconv.Itoa(len(m.Patterns)), m.Label})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.muted).
		Headers("NAME", "OWNER", "APPLIES TO", "PATTERNS", "LABEL").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return st.header.Padding(0, 1)
			case col == 0:
				return st.path.Padding(0, 1)
			}
			return st.cell.Padding(0, 1)
		}).
		Rows(rows...)

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func writeMatchersJSON(w io.Writer, reg matcher.Registry) error {
	list := make([]*matcher.NamedProblemMatcher, 0, len(reg))
	for _, name := range reg.Names() {
		m, _ := reg.Lookup(name)
		list = append(list, m)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(list); err != nil {
		return fmt.Errorf("encoding matchers: %w", err)
	}
	return nil
}
