package task

import (
	"github.com/dshills/taskconfig/internal/task/matcher"
)

// Kind discriminates the two task variants.
type Kind string

const (
	// KindCustom is a self-contained task with its own command.
	KindCustom Kind = "custom"
	// KindConfiguring is a task whose execution is owned by a task-type contributor.
	KindConfiguring Kind = "configuring"
)

// ConfigSource identifies which configuration a task came from.
type ConfigSource string

const (
	// SourceTasksJSON is a folder's tasks.json file.
	SourceTasksJSON ConfigSource = "tasks.json"
	// SourceWorkspaceFile is the tasks section of a workspace file.
	SourceWorkspaceFile ConfigSource = "workspace"
	// SourceUser is the user-level tasks configuration.
	SourceUser ConfigSource = "user"
)

// ParseConfigSource validates a source name.
func ParseConfigSource(s string) (ConfigSource, bool) {
	switch src := ConfigSource(s); src {
	case SourceTasksJSON, SourceWorkspaceFile, SourceUser:
		return src, true
	}
	return "", false
}

// RuntimeType says how a custom task's command is launched.
type RuntimeType string

const (
	// RuntimeShell runs the command through a shell.
	RuntimeShell RuntimeType = "shell"
	// RuntimeProcess runs the command directly.
	RuntimeProcess RuntimeType = "process"
)

// GroupKind categorizes tasks.
type GroupKind string

const (
	// GroupBuild contains build tasks.
	GroupBuild GroupKind = "build"
	// GroupTest contains test tasks.
	GroupTest GroupKind = "test"
	// GroupNone means the task belongs to no group.
	GroupNone GroupKind = "none"
)

// Group places a task in a group, optionally as the group's default.
type Group struct {
	Kind      GroupKind `json:"kind"`
	IsDefault bool      `json:"isDefault,omitempty"`
}

// RevealKind controls when the task's terminal is revealed.
type RevealKind string

// Reveal kinds.
const (
	RevealAlways RevealKind = "always"
	RevealSilent RevealKind = "silent"
	RevealNever  RevealKind = "never"
)

// RevealProblemsKind controls when the problems view is revealed.
type RevealProblemsKind string

// Reveal-problems kinds.
const (
	RevealProblemsAlways    RevealProblemsKind = "always"
	RevealProblemsOnProblem RevealProblemsKind = "onProblem"
	RevealProblemsNever     RevealProblemsKind = "never"
)

// PanelKind controls terminal reuse between tasks.
type PanelKind string

// Panel kinds.
const (
	PanelShared    PanelKind = "shared"
	PanelDedicated PanelKind = "dedicated"
	PanelNew       PanelKind = "new"
)

// Presentation configures how a running task is shown.
type Presentation struct {
	Reveal           RevealKind         `json:"reveal,omitempty"`
	RevealProblems   RevealProblemsKind `json:"revealProblems,omitempty"`
	Echo             bool               `json:"echo"`
	Focus            bool               `json:"focus"`
	Panel            PanelKind          `json:"panel,omitempty"`
	ShowReuseMessage bool               `json:"showReuseMessage"`
	Clear            bool               `json:"clear"`
	Close            bool               `json:"close"`
	// Group names a terminal split group.
	Group string `json:"group,omitempty"`
}

// DefaultPresentation is used when neither the task nor the globals say
// otherwise.
func DefaultPresentation() Presentation {
	return Presentation{
		Reveal:           RevealAlways,
		RevealProblems:   RevealProblemsNever,
		Echo:             true,
		Panel:            PanelShared,
		ShowReuseMessage: true,
	}
}

// ShellConfig overrides the shell used for shell tasks.
type ShellConfig struct {
	Executable string   `json:"executable,omitempty"`
	Args       []string `json:"args,omitempty"`
}

// CommandOptions configures a custom task's process.
type CommandOptions struct {
	Cwd   string            `json:"cwd,omitempty"`
	Env   map[string]string `json:"env,omitempty"`
	Shell *ShellConfig      `json:"shell,omitempty"`
}

func (o CommandOptions) clone() CommandOptions {
	out := CommandOptions{Cwd: o.Cwd}
	if o.Env != nil {
		out.Env = make(map[string]string, len(o.Env))
		for k, v := range o.Env {
			out.Env[k] = v
		}
	}
	if o.Shell != nil {
		sh := *o.Shell
		sh.Args = append([]string(nil), o.Shell.Args...)
		out.Shell = &sh
	}
	return out
}

// DependsOrder says how dependencies are run.
type DependsOrder string

const (
	// DependsParallel runs dependencies concurrently.
	DependsParallel DependsOrder = "parallel"
	// DependsSequence runs dependencies one after another.
	DependsSequence DependsOrder = "sequence"
)

// RunOn says when a task runs automatically.
type RunOn string

const (
	// RunOnDefault runs the task only when invoked.
	RunOnDefault RunOn = "default"
	// RunOnFolderOpen runs the task when its folder is opened.
	RunOnFolderOpen RunOn = "folderOpen"
)

// RunOptions contains run behavior settings.
type RunOptions struct {
	// InstanceLimit is the max concurrent instances.
	InstanceLimit int `json:"instanceLimit"`

	RunOn RunOn `json:"runOn"`

	// ReevaluateOnRerun re-resolves variables when the task is rerun.
	ReevaluateOnRerun bool `json:"reevaluateOnRerun"`
}

// DefaultRunOptions returns the run options of a task that sets none.
func DefaultRunOptions() RunOptions {
	return RunOptions{
		InstanceLimit:     1,
		RunOn:             RunOnDefault,
		ReevaluateOnRerun: true,
	}
}

// Common holds the fields shared by both task variants.
type Common struct {
	// ID is the allocated identifier, stable for (Source, Label).
	ID string `json:"id"`

	// Label is the task's display name.
	Label string `json:"_label"`

	Source ConfigSource `json:"source"`

	Group           *Group                   `json:"group,omitempty"`
	Presentation    Presentation             `json:"presentation"`
	ProblemMatchers []matcher.ProblemMatcher `json:"problemMatchers,omitempty"`
	DependsOn       []string                 `json:"dependsOn,omitempty"`
	DependsOrder    DependsOrder             `json:"dependsOrder,omitempty"`
	Detail          string                   `json:"detail,omitempty"`
	IsBackground    bool                     `json:"isBackground,omitempty"`
	PromptOnClose   bool                     `json:"promptOnClose"`
	Hide            bool                     `json:"hide,omitempty"`
	RunOptions      RunOptions               `json:"runOptions"`
}

// Info returns the shared fields.
func (c *Common) Info() *Common {
	return c
}

// Task is either a *CustomTask or a *ConfiguringTask.
type Task interface {
	Kind() Kind
	Info() *Common
}

// CustomTask is a fully self-contained task.
type CustomTask struct {
	Common

	Type    RuntimeType    `json:"type"`
	Command string         `json:"command"`
	Args    []string       `json:"args,omitempty"`
	Options CommandOptions `json:"options"`
}

// Kind implements Task.
func (t *CustomTask) Kind() Kind {
	return KindCustom
}

// ConfiguringTask customizes a task provided by a task-type contributor.
type ConfiguringTask struct {
	Common

	// Type is the contributed task type.
	Type string `json:"type"`

	// ExtensionID identifies the contributor of Type.
	ExtensionID string `json:"extensionId"`

	// Key identifies the contributed task this configures: the type plus
	// its required properties, e.g. "npm,script=build".
	Key string `json:"key"`

	// Definition holds the type-specific properties, including "type".
	Definition map[string]any `json:"definition"`
}

// Kind implements Task.
func (t *ConfiguringTask) Kind() Kind {
	return KindConfiguring
}

// ParseResult holds the accepted tasks of one parse, partitioned by kind.
type ParseResult struct {
	Custom     []*CustomTask      `json:"custom"`
	Configured []*ConfiguringTask `json:"configured"`

	// Version is the document version, set by ParseDocument.
	Version string `json:"version,omitempty"`

	all []Task
}

// All returns every accepted task in input order.
func (r *ParseResult) All() []Task {
	out := make([]Task, len(r.all))
	copy(out, r.all)
	return out
}

// Len returns the number of accepted tasks.
func (r *ParseResult) Len() int {
	return len(r.Custom) + len(r.Configured)
}

func (r *ParseResult) addCustom(t *CustomTask) {
	r.Custom = append(r.Custom, t)
	r.all = append(r.all, t)
}

func (r *ParseResult) addConfigured(t *ConfiguringTask) {
	r.Configured = append(r.Configured, t)
	r.all = append(r.all, t)
}

var (
	_ Task = (*CustomTask)(nil)
	_ Task = (*ConfiguringTask)(nil)
)
