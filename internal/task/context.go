package task

import (
	"runtime"

	"github.com/dshills/taskconfig/internal/diag"
	"github.com/dshills/taskconfig/internal/identity"
	"github.com/dshills/taskconfig/internal/task/matcher"
)

// Platform names the operating-system override section applied to tasks.
type Platform string

// Platforms with override sections.
const (
	PlatformWindows Platform = "windows"
	PlatformOSX     Platform = "osx"
	PlatformLinux   Platform = "linux"
)

// ParsePlatform validates a platform name.
func ParsePlatform(s string) (Platform, bool) {
	switch p := Platform(s); p {
	case PlatformWindows, PlatformOSX, PlatformLinux:
		return p, true
	}
	return "", false
}

// CurrentPlatform maps runtime.GOOS to a Platform.
func CurrentPlatform() Platform {
	switch runtime.GOOS {
	case "windows":
		return PlatformWindows
	case "darwin":
		return PlatformOSX
	default:
		return PlatformLinux
	}
}

// ParseContext bundles the collaborators of one parse call.
type ParseContext struct {
	// Reporter receives every diagnostic. Nil discards them.
	Reporter diag.Reporter

	// ProblemMatchers resolves "$name" references.
	ProblemMatchers matcher.Registry

	// IDs allocates task identifiers. Nil uses a fresh UUIDMap.
	IDs identity.Allocator

	// Platform selects the windows/osx/linux override section. Empty
	// uses CurrentPlatform.
	Platform Platform
}

// NewParseContext creates a context with the built-in matchers, a fresh
// identifier map and the current platform.
func NewParseContext(reporter diag.Reporter) *ParseContext {
	return &ParseContext{
		Reporter:        reporter,
		ProblemMatchers: matcher.Builtins(),
		IDs:             identity.NewUUIDMap(identity.Namespace),
		Platform:        CurrentPlatform(),
	}
}

func (c *ParseContext) report(d diag.Diagnostic) {
	diag.Emit(c.Reporter, d)
}

func (c *ParseContext) platform() Platform {
	if c.Platform == "" {
		return CurrentPlatform()
	}
	return c.Platform
}
