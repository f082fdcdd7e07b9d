package diag

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		sev  Severity
		want string
	}{
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityFatal, "fatal"},
		{Severity(42), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.sev.String())
	}
}

func TestDiagnostic_Error(t *testing.T) {
	d := Errorf(KindMissingCommand, "tasks[0]", "the task '%s' doesn't define a command", "build")
	assert.Equal(t, "tasks[0]: the task 'build' doesn't define a command", d.Error())
	assert.Equal(t, "error: tasks[0]: the task 'build' doesn't define a command", d.String())

	d.Path = ""
	assert.Equal(t, "the task 'build' doesn't define a command", d.Error())
}

func TestCollector_AccumulatesInOrder(t *testing.T) {
	c := NewCollector()
	c.Info("one")
	c.Warn("two")
	c.Error("three")
	Emit(c, Errorf(KindMissingLabel, "tasks[3]", "four"))

	diags := c.Diagnostics()
	require.Len(t, diags, 4)
	assert.Equal(t, "one", diags[0].Message)
	assert.Equal(t, SeverityWarning, diags[1].Severity)
	assert.Equal(t, KindMissingLabel, diags[3].Kind)
	assert.Equal(t, "tasks[3]", diags[3].Path)
	assert.True(t, c.HasErrors())
	assert.Equal(t, 2, c.Count(SeverityError))

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.HasErrors())
}

func TestLastMessage_KeepsMostRecent(t *testing.T) {
	var l LastMessage
	assert.False(t, l.Reported)

	Emit(&l, Errorf(KindMissingLabel, "", "first"))
	Emit(&l, Warnf(KindInvalidProperty, "tasks[1]", "second"))

	assert.True(t, l.Reported)
	assert.Equal(t, "tasks[1]: second", l.Message)
	assert.Equal(t, SeverityWarning, l.Severity)

	l.Clear()
	assert.Empty(t, l.Message)
	assert.False(t, l.Reported)
}

func TestLogReporter_WritesStructuredRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := NewLogReporter(logger)

	Emit(r, Errorf(KindUnknownMatcherReference, "tasks[0].problemMatcher", "$fake is not a known problem matcher"))
	r.Fatal("boom")

	out := buf.String()
	assert.Contains(t, out, `"kind":"unknown-matcher-reference"`)
	assert.Contains(t, out, `"path":"tasks[0].problemMatcher"`)
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, `"fatal":true`)
}

func TestMulti_FansOut(t *testing.T) {
	c := NewCollector()
	var l LastMessage
	m := Multi{c, &l}

	m.Warn("careful")
	Emit(m, Errorf(KindMissingCommand, "", "no command"))

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "no command", l.Message)
	assert.Equal(t, SeverityError, l.Severity)
}

func TestEmit_NilReporter(t *testing.T) {
	assert.NotPanics(t, func() {
		Emit(nil, Errorf(KindMissingLabel, "", "ignored"))
	})
}

func TestHasErrors(t *testing.T) {
	assert.False(t, HasErrors(nil))
	assert.False(t, HasErrors([]Diagnostic{Warnf(KindInvalidProperty, "", "w")}))
	assert.True(t, HasErrors([]Diagnostic{{Severity: SeverityFatal, Message: "f"}}))
}

func TestDiagnostic_JSON(t *testing.T) {
	data, err := json.Marshal(Errorf(KindMissingLabel, "tasks[0]", "no label"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"severity":"error","kind":"missing-label","path":"tasks[0]","message":"no label"}`, string(data))
}
