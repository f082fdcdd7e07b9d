package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/dshills/taskconfig/internal/config/loader"
	"github.com/dshills/taskconfig/internal/diag"
	"github.com/dshills/taskconfig/internal/logging"
	"github.com/dshills/taskconfig/internal/schema"
	"github.com/dshills/taskconfig/internal/task"
	"github.com/dshills/taskconfig/internal/task/matcher"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "TASKCHECK"

// Setting keys.
const (
	KeyLogLevel  = "log_level"
	KeyLogFormat = "log_format"
	KeyPlatform  = "platform"
	KeySource    = "source"

	sectionProblemMatchers = "problem_matchers"
	sectionTaskTypes       = "task_types"
)

// Config is the taskcheck configuration.
type Config struct {
	LogLevel  string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" validate:"oneof=text json"`

	// Platform selects the windows/osx/linux task overrides. Empty means
	// the platform taskcheck runs on.
	Platform string `mapstructure:"platform" validate:"omitempty,oneof=windows osx linux"`

	// Source is the configuration source recorded on parsed tasks.
	Source string `mapstructure:"source" validate:"oneof=tasks.json workspace user"`

	// ProblemMatchers declares named matchers in addition to the
	// built-ins, keyed by name without the "$".
	ProblemMatchers map[string]map[string]any `mapstructure:"-"`

	// TaskTypes registers contributed task types.
	TaskTypes []TaskType `mapstructure:"-" validate:"dive"`
}

// TaskType declares a contributed task type.
type TaskType struct {
	ExtensionID string `json:"extension_id" validate:"required"`
	Type        string `json:"type" validate:"required"`

	// Required lists the properties a task of this type must set. They
	// also form the task's key.
	Required []string `json:"required"`

	// Properties maps property names to schema fragments.
	Properties map[string]any `json:"properties"`

	// AdditionalProperties rejects undeclared properties when false.
	AdditionalProperties *bool `json:"additional_properties"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Source:    string(task.SourceTasksJSON),
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyLogFormat, d.LogFormat)
	v.SetDefault(KeyPlatform, d.Platform)
	v.SetDefault(KeySource, d.Source)
}

// Load reads the configuration from defaults, the file at path (when not
// empty) and TASKCHECK_* environment variables, then validates it.
func Load(path string) (*Config, error) {
	return LoadWith(viper.New(), path)
}

// LoadWith is Load using a caller-supplied viper instance, so command
// line flags bound to v take part.
func LoadWith(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)

	var raw map[string]any
	if path != "" {
		if _, err := loader.DetectFormat(path); err != nil {
			return nil, err
		}
		var err error
		raw, err = loader.New().Load(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
			return nil, err
		}
		if err := v.MergeConfigMap(scalars(raw)); err != nil {
			return nil, fmt.Errorf("merging config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.readSections(raw); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// scalars drops the sections viper must not see; it lowercases keys.
func scalars(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, val := range raw {
		if k == sectionProblemMatchers || k == sectionTaskTypes {
			continue
		}
		out[k] = val
	}
	return out
}

func (c *Config) readSections(raw map[string]any) error {
	if pm, ok := raw[sectionProblemMatchers]; ok {
		obj, ok := pm.(map[string]any)
		if !ok {
			return &ValidationError{Path: sectionProblemMatchers, Message: "must be a table of matchers", Value: pm}
		}
		c.ProblemMatchers = make(map[string]map[string]any, len(obj))
		for name, decl := range obj {
			m, ok := decl.(map[string]any)
			if !ok {
				return &ValidationError{Path: sectionProblemMatchers + "." + name, Message: "must be a table", Value: decl}
			}
			c.ProblemMatchers[name] = m
		}
	}

	if tt, ok := raw[sectionTaskTypes]; ok {
		data, err := json.Marshal(tt)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", sectionTaskTypes, err)
		}
		if err := json.Unmarshal(data, &c.TaskTypes); err != nil {
			return &ValidationError{Path: sectionTaskTypes, Message: err.Error(), Value: tt}
		}
	}
	return nil
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		return fromValidator(err)
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"mapstructure", "json"} {
			name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return ""
	})
	return v
}

// Level returns the slog level for LogLevel.
func (c *Config) Level() slog.Level {
	return logging.ParseLevel(c.LogLevel)
}

// TaskPlatform returns the configured platform or the current one.
func (c *Config) TaskPlatform() task.Platform {
	if p, ok := task.ParsePlatform(c.Platform); ok {
		return p
	}
	return task.CurrentPlatform()
}

// TaskSource returns the configured source, defaulting to tasks.json.
func (c *Config) TaskSource() task.ConfigSource {
	if s, ok := task.ParseConfigSource(c.Source); ok {
		return s
	}
	return task.SourceTasksJSON
}

// Registry returns the built-in matchers merged with the configured
// ones. Declarations are processed in name order and may use earlier
// ones, or the built-ins, as their base. A declaration that fails is
// left out and its diagnostics returned.
func (c *Config) Registry() (matcher.Registry, []diag.Diagnostic) {
	reg := matcher.Builtins()
	names := make([]string, 0, len(c.ProblemMatchers))
	for name := range c.ProblemMatchers {
		names = append(names, name)
	}
	sort.Strings(names)

	var diags []diag.Diagnostic
	for _, name := range names {
		m, errs := matcher.ParseNamed(name, c.ProblemMatchers[name], reg)
		diags = append(diags, errs...)
		if m != nil {
			reg.Add(m)
		}
	}
	return reg, diags
}

// TaskDefinitions converts the configured task types.
func (c *Config) TaskDefinitions() ([]task.TaskDefinition, error) {
	validate := newValidator()
	defs := make([]task.TaskDefinition, 0, len(c.TaskTypes))
	for i, tt := range c.TaskTypes {
		def := task.TaskDefinition{
			ExtensionID: tt.ExtensionID,
			TaskType:    tt.Type,
		}
		if len(tt.Properties) > 0 || len(tt.Required) > 0 || tt.AdditionalProperties != nil {
			props := map[string]any{"type": schema.TypeObject}
			if len(tt.Properties) > 0 {
				props["properties"] = tt.Properties
			}
			if len(tt.Required) > 0 {
				props["required"] = tt.Required
			}
			if tt.AdditionalProperties != nil {
				props["additionalProperties"] = *tt.AdditionalProperties
			}
			s, err := schema.FromMap(props)
			if err != nil {
				return nil, &ValidationError{
					Path:    fmt.Sprintf("%s[%d].properties", sectionTaskTypes, i),
					Message: err.Error(),
					Value:   tt.Properties,
				}
			}
			def.Properties = s
		}
		if err := validate.Struct(&def); err != nil {
			return nil, fromValidator(err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}
