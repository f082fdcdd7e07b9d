package diag

import (
	"context"
	"log/slog"
	"sync"
)

// Reporter receives diagnostic messages.
type Reporter interface {
	Info(message string)
	Warn(message string)
	Error(message string)
	Fatal(message string)
}

// Recorder is implemented by reporters that keep structured diagnostics.
type Recorder interface {
	Record(d Diagnostic)
}

// Emit delivers d to r. Recorders get the whole diagnostic; plain
// reporters get the message routed by severity.
func Emit(r Reporter, d Diagnostic) {
	if r == nil {
		return
	}
	if rec, ok := r.(Recorder); ok {
		rec.Record(d)
		return
	}
	msg := d.Error()
	switch d.Severity {
	case SeverityInfo:
		r.Info(msg)
	case SeverityWarning:
		r.Warn(msg)
	case SeverityFatal:
		r.Fatal(msg)
	default:
		r.Error(msg)
	}
}

// Collector accumulates every diagnostic it receives, in order.
type Collector struct {
	mu    sync.Mutex
	diags []Diagnostic
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Info records an informational message.
func (c *Collector) Info(message string) {
	c.Record(Diagnostic{Severity: SeverityInfo, Message: message})
}

// Warn records a warning.
func (c *Collector) Warn(message string) {
	c.Record(Diagnostic{Severity: SeverityWarning, Message: message})
}

// Error records an error.
func (c *Collector) Error(message string) {
	c.Record(Diagnostic{Severity: SeverityError, Message: message})
}

// Fatal records a fatal error.
func (c *Collector) Fatal(message string) {
	c.Record(Diagnostic{Severity: SeverityFatal, Message: message})
}

// Record implements Recorder.
func (c *Collector) Record(d Diagnostic) {
	c.mu.Lock()
	c.diags = append(c.diags, d)
	c.mu.Unlock()
}

// Diagnostics returns a copy of the recorded diagnostics.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.diags))
	copy(out, c.diags)
	return out
}

// Len returns the number of recorded diagnostics.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.diags)
}

// HasErrors reports whether an error or fatal diagnostic was recorded.
func (c *Collector) HasErrors() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return HasErrors(c.diags)
}

// Count returns the number of diagnostics with the given severity.
func (c *Collector) Count(sev Severity) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, d := range c.diags {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// Clear drops all recorded diagnostics.
func (c *Collector) Clear() {
	c.mu.Lock()
	c.diags = nil
	c.mu.Unlock()
}

// LastMessage is a single-slot reporter: each call overwrites the
// previously stored message. It is useful in tests that only care about
// the most recent report; use Collector everywhere else.
type LastMessage struct {
	Message  string
	Severity Severity
	// Reported is false until the first message arrives.
	Reported bool
}

// Info stores an informational message.
func (l *LastMessage) Info(message string) { l.set(SeverityInfo, message) }

// Warn stores a warning.
func (l *LastMessage) Warn(message string) { l.set(SeverityWarning, message) }

// Error stores an error.
func (l *LastMessage) Error(message string) { l.set(SeverityError, message) }

// Fatal stores a fatal error.
func (l *LastMessage) Fatal(message string) { l.set(SeverityFatal, message) }

// Clear resets the slot.
func (l *LastMessage) Clear() {
	*l = LastMessage{}
}

func (l *LastMessage) set(sev Severity, message string) {
	l.Message = message
	l.Severity = sev
	l.Reported = true
}

// LogReporter forwards diagnostics to a structured logger.
type LogReporter struct {
	logger *slog.Logger
}

// NewLogReporter creates a reporter writing to logger. A nil logger uses
// slog.Default().
func NewLogReporter(logger *slog.Logger) *LogReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogReporter{logger: logger}
}

// Info logs at info level.
func (l *LogReporter) Info(message string) {
	l.Record(Diagnostic{Severity: SeverityInfo, Message: message})
}

// Warn logs at warn level.
func (l *LogReporter) Warn(message string) {
	l.Record(Diagnostic{Severity: SeverityWarning, Message: message})
}

// Error logs at error level.
func (l *LogReporter) Error(message string) {
	l.Record(Diagnostic{Severity: SeverityError, Message: message})
}

// Fatal logs at error level with fatal=true. It does not exit.
func (l *LogReporter) Fatal(message string) {
	l.Record(Diagnostic{Severity: SeverityFatal, Message: message})
}

// Record implements Recorder.
func (l *LogReporter) Record(d Diagnostic) {
	attrs := []slog.Attr{}
	if d.Kind != "" {
		attrs = append(attrs, slog.String("kind", string(d.Kind)))
	}
	if d.Path != "" {
		attrs = append(attrs, slog.String("path", d.Path))
	}

	level := slog.LevelError
	switch d.Severity {
	case SeverityInfo:
		level = slog.LevelInfo
	case SeverityWarning:
		level = slog.LevelWarn
	case SeverityFatal:
		attrs = append(attrs, slog.Bool("fatal", true))
	}
	l.logger.LogAttrs(context.Background(), level, d.Message, attrs...)
}

// Multi fans diagnostics out to several reporters.
type Multi []Reporter

// Info forwards to every reporter.
func (m Multi) Info(message string) {
	m.Record(Diagnostic{Severity: SeverityInfo, Message: message})
}

// Warn forwards to every reporter.
func (m Multi) Warn(message string) {
	m.Record(Diagnostic{Severity: SeverityWarning, Message: message})
}

// Error forwards to every reporter.
func (m Multi) Error(message string) {
	m.Record(Diagnostic{Severity: SeverityError, Message: message})
}

// Fatal forwards to every reporter.
func (m Multi) Fatal(message string) {
	m.Record(Diagnostic{Severity: SeverityFatal, Message: message})
}

// Record implements Recorder.
func (m Multi) Record(d Diagnostic) {
	for _, r := range m {
		Emit(r, d)
	}
}

var (
	_ Recorder = (*Collector)(nil)
	_ Recorder = (*LogReporter)(nil)
	_ Recorder = Multi(nil)
	_ Reporter = (*LastMessage)(nil)
)
