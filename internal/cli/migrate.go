package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/taskconfig/internal/config/loader"
	"github.com/dshills/taskconfig/internal/task"
)

// errNotJSON is returned by migrate for YAML and TOML documents.
var errNotJSON = errors.New("migrate rewrites JSON task documents only")

func newMigrateCommand(s *session) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "migrate FILE",
		Short: "Rewrite legacy task properties",
		Long: `Rewrite a JSON task document to the current format: legacy "taskName"
properties become "label" (also inside windows/osx/linux sections) and the
version is set to ` + task.DocumentVersion + `.

The rewritten document is printed unless --write is given. Comments are
not preserved in a rewritten document.

Examples:
  taskcheck migrate .vscode/tasks.json
  taskcheck migrate --write .vscode/tasks.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := args[0]
			format, err := loader.DetectFormat(file)
			if err != nil {
				return err
			}
			if format != loader.FormatJSON {
				return fmt.Errorf("%s: %w", file, errNotJSON)
			}

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("reading %s: %w", file, err)
			}
			if _, err := loader.DecodeJSON(file, data, ""); err != nil {
				return err
			}

			prefix := ""
			if strings.EqualFold(filepath.Ext(file), ".code-workspace") {
				prefix = "tasks"
			}
			out, changes, err := migrateDocument(data, prefix)
			if err != nil {
				return fmt.Errorf("migrating %s: %w", file, err)
			}

			st := newStyles(cmd.ErrOrStderr())
			for _, c := range changes {
				fmt.Fprintln(cmd.ErrOrStderr(), "  "+st.info.Render("migrated")+"  "+c)
			}
			s.logger.Debug("migration computed", "file", file, "changes", len(changes))

			if !write {
				_, err := cmd.OutOrStdout().Write(out)
				return err
			}
			if len(changes) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), st.ok.Render(file+" is up to date"))
				return nil
			}
			info, err := os.Stat(file)
			if err != nil {
				return fmt.Errorf("stat %s: %w", file, err)
			}
			if err := os.WriteFile(file, out, info.Mode().Perm()); err != nil {
				return fmt.Errorf("writing %s: %w", file, err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), st.ok.Render(fmt.Sprintf("%s: %s written", file, plural(len(changes), "change"))))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite the file in place")
	return cmd
}

// migrateDocument rewrites the legacy properties of a JSON task document
// whose tasks live under prefix (empty for tasks.json). It returns data
// unchanged when there is nothing to migrate.
func migrateDocument(data []byte, prefix string) ([]byte, []string, error) {
	clean := loader.Standardize(data)
	out := clean
	var changes []string

	versionPath := joinPath(prefix, "version")
	if v := gjson.GetBytes(clean, versionPath); v.String() != task.DocumentVersion {
		var err error
		if out, err = sjson.SetBytes(out, versionPath, task.DocumentVersion); err != nil {
			return nil, nil, err
		}
		from := "missing"
		if v.Exists() {
			from = v.String()
		}
		changes = append(changes, fmt.Sprintf("%s: %s -> %s", versionPath, from, task.DocumentVersion))
	}

	tasksPath := joinPath(prefix, "tasks")
	tasks := gjson.GetBytes(clean, tasksPath)
	if tasks.IsArray() {
		for i, t := range tasks.Array() {
			entry := fmt.Sprintf("%s.%d", tasksPath, i)
			sections := []string{""}
			for _, p := range []task.Platform{task.PlatformWindows, task.PlatformOSX, task.PlatformLinux} {
				if t.Get(string(p)).IsObject() {
					sections = append(sections, string(p))
				}
			}
			for _, sec := range sections {
				obj := t
				if sec != "" {
					obj = t.Get(sec)
				}
				var err error
				out, changes, err = renameLegacyLabel(out, changes, obj, joinPath(entry, sec))
				if err != nil {
					return nil, nil, err
				}
			}
		}
	}

	if len(changes) == 0 {
		return data, nil, nil
	}
	return pretty.PrettyOptions(out, &pretty.Options{Width: 80, Indent: "\t"}), changes, nil
}

// renameLegacyLabel moves taskName to label in the object at path. An
// existing label wins and the taskName is dropped.
func renameLegacyLabel(out []byte, changes []string, obj gjson.Result, path string) ([]byte, []string, error) {
	name := obj.Get("taskName")
	if !name.Exists() {
		return out, changes, nil
	}

	var err error
	if !obj.Get("label").Exists() {
		if out, err = sjson.SetBytes(out, path+".label", name.Value()); err != nil {
			return nil, nil, err
		}
		changes = append(changes, fmt.Sprintf("%s: taskName %q -> label", path, name.String()))
	} else {
		changes = append(changes, fmt.Sprintf("%s: taskName %q dropped, label is set", path, name.String()))
	}
	if out, err = sjson.DeleteBytes(out, path+".taskName"); err != nil {
		return nil, nil, err
	}
	return out, changes, nil
}

func joinPath(prefix, key string) string {
	switch {
	case prefix == "":
		return key
	case key == "":
		return prefix
	}
	return prefix + "." + key
}
