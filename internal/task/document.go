package task

import "github.com/dshills/taskconfig/internal/diag"

// DocumentVersion is the tasks document format this package understands.
const DocumentVersion = "2.0.0"

const (
	propVersion = "version"
	propTasks   = "tasks"
)

// ParseDocument parses a whole tasks document: its version, top-level
// platform overrides, global defaults and the tasks array.
//
// A missing or unexpected version is a warning; parsing proceeds with the
// current format. A tasks property that is not an array is an error and
// yields an empty result.
func ParseDocument(doc map[string]any, ctx *ParseContext, source ConfigSource, types []TaskDefinition) *ParseResult {
	if ctx == nil {
		ctx = &ParseContext{}
	}
	doc = withPlatform(doc, ctx.platform(), "", ctx.report)

	version, _ := doc[propVersion].(string)
	switch {
	case version == "":
		ctx.report(diag.Warnf(diag.KindInvalidDocument, propVersion,
			"the document does not declare a version; assuming %s", DocumentVersion))
	case version != DocumentVersion:
		ctx.report(diag.Warnf(diag.KindInvalidDocument, propVersion,
			"version %q is not supported; the document is read as %s", version, DocumentVersion))
	}

	globals := ParseGlobals(doc, ctx)

	var entries []any
	if raw, ok := doc[propTasks]; ok && raw != nil {
		list, ok := raw.([]any)
		if !ok {
			ctx.report(diag.Errorf(diag.KindInvalidDocument, propTasks,
				"tasks must be an array; no tasks were read"))
			return &ParseResult{
				Custom:     []*CustomTask{},
				Configured: []*ConfiguringTask{},
				Version:    version,
			}
		}
		entries = list
	}

	result := Parse(entries, globals, ctx, source, types)
	result.Version = version
	return result
}
