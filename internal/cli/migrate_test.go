package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const legacyDoc = `{
	// old style
	"version": "0.1.0",
	"tasks": [
		{"taskName": "build", "command": "make", "windows": {"taskName": "build-win"}},
		{"taskName": "old", "label": "new", "command": "make test"},
		{"label": "lint", "command": "make lint"}
	]
}`

func TestMigrateDocument(t *testing.T) {
	out, changes, err := migrateDocument([]byte(legacyDoc), "")
	require.NoError(t, err)

	require.True(t, gjson.ValidBytes(out))
	assert.Equal(t, "2.0.0", gjson.GetBytes(out, "version").String())
	assert.Equal(t, "build", gjson.GetBytes(out, "tasks.0.label").String())
	assert.False(t, gjson.GetBytes(out, "tasks.0.taskName").Exists())
	assert.Equal(t, "build-win", gjson.GetBytes(out, "tasks.0.windows.label").String())
	assert.Equal(t, "new", gjson.GetBytes(out, "tasks.1.label").String())
	assert.False(t, gjson.GetBytes(out, "tasks.1.taskName").Exists())
	assert.Equal(t, "lint", gjson.GetBytes(out, "tasks.2.label").String())
	assert.Len(t, changes, 4)
}

func TestMigrateDocument_UpToDate(t *testing.T) {
	doc := []byte(`{
	// keep me
	"version": "2.0.0",
	"tasks": [{"label": "build", "command": "make"}]
}`)

	out, changes, err := migrateDocument(doc, "")
	require.NoError(t, err)
	assert.Empty(t, changes)
	assert.Equal(t, doc, out)
}

func TestMigrateDocument_Workspace(t *testing.T) {
	doc := []byte(`{"folders": [], "tasks": {"version": "2.0.0", "tasks": [{"taskName": "a", "command": "a"}]}}`)

	out, changes, err := migrateDocument(doc, "tasks")
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "a", gjson.GetBytes(out, "tasks.tasks.0.label").String())
	assert.True(t, gjson.GetBytes(out, "folders").IsArray())
}

func TestMigrateCommand_Print(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "tasks.json", legacyDoc)

	stdout, stderr, err := execute(t, "migrate", doc)
	require.NoError(t, err)
	assert.Equal(t, "build", gjson.Get(stdout, "tasks.0.label").String())
	assert.Contains(t, stderr, "migrated")

	data, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.Equal(t, legacyDoc, string(data), "file untouched without --write")
}

func TestMigrateCommand_Write(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "tasks.json", legacyDoc)

	_, stderr, err := execute(t, "migrate", "--write", doc)
	require.NoError(t, err)
	assert.Contains(t, stderr, "4 changes written")

	data, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", gjson.GetBytes(data, "version").String())

	_, _, err = execute(t, "validate", doc)
	assert.NoError(t, err)
}

func TestMigrateCommand_RejectsYAML(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "tasks.yaml", "version: 0.1.0\n")

	_, _, err := execute(t, "migrate", doc)
	assert.ErrorIs(t, err, errNotJSON)
}
