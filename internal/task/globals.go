package task

import (
	"github.com/dshills/taskconfig/internal/diag"
	"github.com/dshills/taskconfig/internal/task/matcher"
)

// Globals are document-wide defaults for properties a task omits.
type Globals struct {
	// Options is the base for custom tasks' options.
	Options CommandOptions

	// Presentation is the base for every task's presentation. Nil uses
	// DefaultPresentation.
	Presentation *Presentation

	// ProblemMatchers apply to custom tasks without a problemMatcher.
	ProblemMatchers []matcher.ProblemMatcher
}

func (g Globals) presentation() Presentation {
	if g.Presentation == nil {
		return DefaultPresentation()
	}
	return *g.Presentation
}

// ParseGlobals reads the top-level options, presentation and
// problemMatcher properties of a tasks document. Problems are reported
// to ctx and the offending property is ignored.
func ParseGlobals(raw map[string]any, ctx *ParseContext) Globals {
	if ctx == nil {
		ctx = &ParseContext{}
	}
	f := &fields{obj: raw, report: ctx.report}

	var g Globals
	if opts, ok := f.object(propOptions); ok {
		g.Options = parseOptions(opts, CommandOptions{})
	}
	if pres, ok := f.object(propPresentation); ok {
		p := parsePresentation(pres, DefaultPresentation())
		g.Presentation = &p
	}
	if v, ok := raw[propProblemMatcher]; ok {
		res := matcher.ResolveAt(v, ctx.ProblemMatchers, propProblemMatcher)
		reportAll(ctx.report, res.Errors)
		g.ProblemMatchers = res.Value
	}
	return g
}

func parseOptions(f *fields, base CommandOptions) CommandOptions {
	out := base.clone()

	if cwd, ok := f.str("cwd"); ok {
		out.Cwd = cwd
	}
	if env, ok := f.object("env"); ok {
		if out.Env == nil {
			out.Env = make(map[string]string, len(env.obj))
		}
		for _, name := range sortedKeys(env.obj) {
			if s, ok := env.str(name); ok {
				out.Env[name] = s
			}
		}
	}
	if shell, ok := f.object("shell"); ok {
		sh := ShellConfig{}
		if out.Shell != nil {
			sh = *out.Shell
		}
		if exe, ok := shell.str("executable"); ok {
			sh.Executable = exe
		}
		if args, ok := shell.stringList("args"); ok {
			sh.Args = args
		}
		out.Shell = &sh
	}
	return out
}

func parsePresentation(f *fields, base Presentation) Presentation {
	p := base
	if v, ok := enum(f, "reveal", RevealAlways, RevealSilent, RevealNever); ok {
		p.Reveal = v
	}
	if v, ok := enum(f, "revealProblems", RevealProblemsAlways, RevealProblemsOnProblem, RevealProblemsNever); ok {
		p.RevealProblems = v
	}
	if v, ok := enum(f, "panel", PanelShared, PanelDedicated, PanelNew); ok {
		p.Panel = v
	}
	if v, ok := f.boolean("echo"); ok {
		p.Echo = v
	}
	if v, ok := f.boolean("focus"); ok {
		p.Focus = v
	}
	if v, ok := f.boolean("showReuseMessage"); ok {
		p.ShowReuseMessage = v
	}
	if v, ok := f.boolean("clear"); ok {
		p.Clear = v
	}
	if v, ok := f.boolean("close"); ok {
		p.Close = v
	}
	if v, ok := f.str("group"); ok {
		p.Group = v
	}
	return p
}

func reportAll(report func(diag.Diagnostic), diags []diag.Diagnostic) {
	for _, d := range diags {
		report(d)
	}
}
