package task

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/taskconfig/internal/diag"
	"github.com/dshills/taskconfig/internal/identity"
	"github.com/dshills/taskconfig/internal/schema"
	"github.com/dshills/taskconfig/internal/task/matcher"
)

// Parse converts raw task entries into typed tasks.
//
// An entry whose type is registered in types becomes a ConfiguringTask;
// every other entry becomes a CustomTask and must define a command. An
// entry that fails validation is reported once to ctx.Reporter and left
// out of the result; parsing always continues with the next entry. Each
// accepted task gets an identifier from ctx.IDs keyed by (source, label).
func Parse(entries []any, globals Globals, ctx *ParseContext, source ConfigSource, types []TaskDefinition) *ParseResult {
	if ctx == nil {
		ctx = &ParseContext{}
	}
	p := &parser{
		ctx:     ctx,
		globals: globals,
		source:  source,
		types:   types,
		ids:     ctx.IDs,
	}
	if p.ids == nil {
		p.ids = identity.NewUUIDMap(identity.Namespace)
	}
	if s, ok := p.ids.(interface{ Start() }); ok {
		s.Start()
	}

	result := &ParseResult{
		Custom:     []*CustomTask{},
		Configured: []*ConfiguringTask{},
	}
	for i, entry := range entries {
		p.parseEntry(i, entry, result)
	}
	return result
}

type parser struct {
	ctx     *ParseContext
	globals Globals
	source  ConfigSource
	types   []TaskDefinition
	ids     identity.Allocator
}

func (p *parser) parseEntry(index int, entry any, result *ParseResult) {
	path := fmt.Sprintf("tasks[%d]", index)

	raw, ok := entry.(map[string]any)
	if !ok {
		p.ctx.report(diag.Errorf(diag.KindInvalidEntry, path,
			"task #%d is not an object. The task will be ignored.", index+1))
		return
	}
	obj := withPlatform(raw, p.ctx.platform(), path, p.ctx.report)

	label, ok := displayName(obj)
	if !ok {
		p.ctx.report(diag.Errorf(diag.KindMissingLabel, path,
			"a task must provide a label property. The task #%d will be ignored.", index+1))
		return
	}

	typ, _ := obj[propType].(string)
	if def := lookupDefinition(p.types, typ); def != nil {
		if t := p.configuring(obj, path, label, def); t != nil {
			result.addConfigured(t)
		}
		return
	}
	if t := p.custom(obj, path, label); t != nil {
		result.addCustom(t)
	}
}

// displayName prefers label over the legacy taskName.
func displayName(obj map[string]any) (string, bool) {
	for _, key := range []string{propLabel, propTaskName} {
		if s, ok := obj[key].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s, true
			}
		}
	}
	return "", false
}

func (p *parser) custom(obj map[string]any, path, label string) *CustomTask {
	command, ok := parseCommand(obj[propCommand])
	if !ok {
		p.ctx.report(diag.Errorf(diag.KindMissingCommand, path,
			"the task '%s' doesn't define a command. The task will be ignored.", label))
		return nil
	}

	f := &fields{obj: obj, path: path, report: p.ctx.report}
	t := &CustomTask{
		Type:    RuntimeShell,
		Command: command,
		Options: p.globals.Options.clone(),
	}
	if typ, _ := obj[propType].(string); typ == string(RuntimeProcess) {
		t.Type = RuntimeProcess
	}
	t.Args = p.parseArgs(f)
	if opts, ok := f.object(propOptions); ok {
		t.Options = parseOptions(opts, p.globals.Options)
	}

	p.fillCommon(&t.Common, f, label)
	if !f.has(propProblemMatcher) && len(p.globals.ProblemMatchers) > 0 {
		t.ProblemMatchers = make([]matcher.ProblemMatcher, len(p.globals.ProblemMatchers))
		for i, m := range p.globals.ProblemMatchers {
			t.ProblemMatchers[i] = m.Clone()
		}
	}
	return t
}

func (p *parser) configuring(obj map[string]any, path, label string, def *TaskDefinition) *ConfiguringTask {
	definition := make(map[string]any)
	for k, v := range obj {
		if !commonProps[k] {
			definition[k] = v
		}
	}

	if err := def.Validate(definition); err != nil {
		p.ctx.report(diag.Errorf(diag.KindInvalidTaskProperties, path,
			"the task '%s' does not match the properties of task type '%s': %v. The task will be ignored.",
			label, def.TaskType, firstProblem(err)))
		return nil
	}

	f := &fields{obj: obj, path: path, report: p.ctx.report}
	t := &ConfiguringTask{
		Type:        def.TaskType,
		ExtensionID: def.ExtensionID,
		Key:         def.Key(definition),
		Definition:  definition,
	}
	p.fillCommon(&t.Common, f, label)
	return t
}

// firstProblem narrows a schema failure to its first violation.
func firstProblem(err error) error {
	var verrs *schema.ValidationErrors
	if errors.As(err, &verrs) && verrs.HasErrors() {
		return verrs.First()
	}
	return err
}

// fillCommon parses the properties shared by both variants and assigns
// the task's identity.
func (p *parser) fillCommon(c *Common, f *fields, label string) {
	c.Label = label
	c.Source = p.source
	c.ID = p.ids.ID(string(p.source), label)
	c.Presentation = p.globals.presentation()
	c.PromptOnClose = true
	c.RunOptions = DefaultRunOptions()

	if pres, ok := f.object(propPresentation); ok {
		c.Presentation = parsePresentation(pres, c.Presentation)
	}
	if v, ok := f.obj[propGroup]; ok {
		c.Group = parseGroup(f, v)
	}
	if v, ok := f.obj[propProblemMatcher]; ok {
		res := matcher.ResolveAt(v, p.ctx.ProblemMatchers, f.at(propProblemMatcher))
		reportAll(p.ctx.report, res.Errors)
		c.ProblemMatchers = res.Value
	}
	if deps, ok := f.stringList(propDependsOn); ok {
		c.DependsOn = deps
	}
	if order, ok := enum(f, propDependsOrder, DependsParallel, DependsSequence); ok {
		c.DependsOrder = order
	}
	if detail, ok := f.str(propDetail); ok {
		c.Detail = detail
	}
	if v, ok := f.boolean(propIsBackground); ok {
		c.IsBackground = v
	}
	if v, ok := f.boolean(propPromptOnClose); ok {
		c.PromptOnClose = v
	}
	if v, ok := f.boolean(propHide); ok {
		c.Hide = v
	}
	if ro, ok := f.object(propRunOptions); ok {
		c.RunOptions = parseRunOptions(ro, c.RunOptions)
	}
}

// parseCommand accepts a non-empty string or an array of strings joined
// by spaces.
func parseCommand(v any) (string, bool) {
	switch cmd := v.(type) {
	case string:
		cmd = strings.TrimSpace(cmd)
		return cmd, cmd != ""
	case []any:
		parts := make([]string, 0, len(cmd))
		for _, item := range cmd {
			s, ok := item.(string)
			if !ok {
				return "", false
			}
			if s = strings.TrimSpace(s); s != "" {
				parts = append(parts, s)
			}
		}
		joined := strings.Join(parts, " ")
		return joined, joined != ""
	}
	return "", false
}

// parseArgs accepts strings and {value, quoting} objects.
func (p *parser) parseArgs(f *fields) []string {
	v, ok := f.obj[propArgs]
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		f.warn(propArgs, "args must be an array; the property is ignored")
		return nil
	}

	args := make([]string, 0, len(items))
	for i, item := range items {
		switch a := item.(type) {
		case string:
			args = append(args, a)
		case map[string]any:
			if s, ok := a["value"].(string); ok {
				args = append(args, s)
				continue
			}
			f.report(badArg(f, i))
		default:
			f.report(badArg(f, i))
		}
	}
	return args
}

func badArg(f *fields, i int) diag.Diagnostic {
	return diag.Warnf(diag.KindInvalidProperty, fmt.Sprintf("%s[%d]", f.at(propArgs), i),
		"an argument must be a string or an object with a string value; the argument is ignored")
}

func parseGroup(f *fields, v any) *Group {
	switch g := v.(type) {
	case string:
		kind, ok := enum(f, propGroup, GroupBuild, GroupTest, GroupNone)
		if !ok || kind == GroupNone {
			return nil
		}
		return &Group{Kind: kind}
	case map[string]any:
		gf := &fields{obj: g, path: f.at(propGroup), report: f.report}
		kind, ok := enum(gf, "kind", GroupBuild, GroupTest, GroupNone)
		if !ok || kind == GroupNone {
			if !gf.has("kind") {
				gf.warn("kind", "a group must define a kind; the group is ignored")
			}
			return nil
		}
		group := &Group{Kind: kind}
		if def, ok := gf.boolean("isDefault"); ok {
			group.IsDefault = def
		}
		return group
	}
	f.warn(propGroup, "group must be a string or an object; the property is ignored")
	return nil
}

func parseRunOptions(f *fields, base RunOptions) RunOptions {
	ro := base
	if v, ok := f.obj["instanceLimit"]; ok {
		if n, ok := toInt(v); ok && n > 0 {
			ro.InstanceLimit = n
		} else {
			f.warn("instanceLimit", "instanceLimit must be a positive integer; the property is ignored")
		}
	}
	if runOn, ok := enum(f, "runOn", RunOnDefault, RunOnFolderOpen); ok {
		ro.RunOn = runOn
	}
	if v, ok := f.boolean("reevaluateOnRerun"); ok {
		ro.ReevaluateOnRerun = v
	}
	return ro
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
