// Package cli provides the command-line interface for taskcheck.
package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dshills/taskconfig/internal/config"
	"github.com/dshills/taskconfig/internal/logging"
	"github.com/dshills/taskconfig/internal/task"
	"github.com/dshills/taskconfig/internal/task/matcher"
)

// ErrDiagnostics is returned when a checked document reported errors.
// The diagnostics have already been printed.
var ErrDiagnostics = errors.New("task documents contain errors")

// Flag names shared by every command.
const (
	flagConfig   = "config"
	flagLogLevel = "log-level"
	flagPlatform = "platform"
)

// session is what every command works with once the configuration is
// loaded.
type session struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry matcher.Registry
	types    []task.TaskDefinition
}

// NewRootCommand creates the root command for taskcheck.
func NewRootCommand(version string) *cobra.Command {
	var configPath string
	s := &session{}

	root := &cobra.Command{
		Use:   "taskcheck",
		Short: "Validate task configuration documents",
		Long: `taskcheck parses tasks.json style task documents, resolves their
problem matchers and reports every problem it finds without stopping
at the first one.

JSON (with comments), YAML and TOML documents are accepted.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.load(cmd, configPath)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configPath, flagConfig, "", "path to a taskcheck configuration file")
	flags.String(flagLogLevel, "", "log level (debug, info, warn, error)")
	flags.String(flagPlatform, "", "platform overrides to apply (windows, osx, linux)")

	root.AddCommand(
		newValidateCommand(s),
		newMatchersCommand(s),
		newMigrateCommand(s),
	)
	return root
}

func (s *session) load(cmd *cobra.Command, configPath string) error {
	v := viper.New()
	flags := cmd.Root().PersistentFlags()
	for key, name := range map[string]string{
		config.KeyLogLevel: flagLogLevel,
		config.KeyPlatform: flagPlatform,
	} {
		if f := flags.Lookup(name); f != nil && f.Changed {
			v.Set(key, f.Value.String())
		}
	}

	cfg, err := config.LoadWith(v, configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	s.cfg = cfg
	s.logger = logging.New(logging.Options{
		Level:  cfg.Level(),
		Format: logging.ParseFormat(cfg.LogFormat),
		Output: cmd.ErrOrStderr(),
	})

	reg, diags := cfg.Registry()
	for _, d := range diags {
		s.logger.Warn("ignoring problem matcher", "path", d.Path, "error", d.Message)
	}
	s.registry = reg

	types, err := cfg.TaskDefinitions()
	if err != nil {
		return fmt.Errorf("loading task types: %w", err)
	}
	s.types = types

	s.logger.Debug("configuration loaded",
		"config", configPath,
		"platform", cfg.TaskPlatform(),
		"matchers", len(reg),
		"task_types", len(types),
	)
	return nil
}
