package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodDoc = `{
	// build tasks
	"version": "2.0.0",
	"tasks": [
		{"label": "build", "command": "go build ./...", "problemMatcher": "$go"},
		{"label": "lint", "type": "npm", "script": "lint", "command": "npm run lint"},
	]
}`

const badDoc = `{
	"version": "2.0.0",
	"tasks": [
		{"command": "make"},
		{"label": "test"},
		{"label": "vet", "command": "go vet", "problemMatcher": "$nope"}
	]
}`

func TestValidate_Clean(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "tasks.json", goodDoc)

	stdout, _, err := execute(t, "validate", doc)

	require.NoError(t, err)
	assert.Contains(t, stdout, doc)
	assert.Contains(t, stdout, "2 custom tasks")
	assert.Contains(t, stdout, "0 errors")
}

func TestValidate_ConfiguredTaskTypes(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "taskcheck.yaml", `
task_types:
  - extension_id: vscode.npm
    type: npm
    required: [script]
`)
	doc := writeFile(t, dir, "tasks.json", goodDoc)

	stdout, _, err := execute(t, "--config", cfg, "validate", doc)

	require.NoError(t, err)
	assert.Contains(t, stdout, "1 custom task,")
	assert.Contains(t, stdout, "1 configuring task")
}

func TestValidate_ClosedTaskTypeSchema(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "taskcheck.yaml", `
task_types:
  - extension_id: vscode.npm
    type: npm
    required: [script]
    properties:
      script: {type: string}
    additional_properties: false
`)
	doc := writeFile(t, dir, "tasks.json", `{
	"version": "2.0.0",
	"tasks": [
		{"label": "bundle", "type": "npm", "script": "build", "group": "build"},
		{"label": "stray", "type": "npm", "script": "lint", "cwd": "web"}
	]
}`)

	stdout, _, err := execute(t, "--config", cfg, "validate", doc)

	assert.ErrorIs(t, err, ErrDiagnostics)
	assert.Contains(t, stdout, "1 configuring task")
	assert.Contains(t, stdout, "the task 'stray' does not match the properties of task type 'npm'")
	assert.NotContains(t, stdout, "'bundle'")
	assert.Contains(t, stdout, "1 error")
}

func TestValidate_ReportsErrors(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "tasks.json", badDoc)

	stdout, _, err := execute(t, "validate", doc)

	assert.ErrorIs(t, err, ErrDiagnostics)
	assert.Contains(t, stdout, "a task must provide a label property")
	assert.Contains(t, stdout, "the task 'test' doesn't define a command")
	assert.Contains(t, stdout, "$nope is not a known problem matcher")
	assert.Contains(t, stdout, "3 errors")
}

func TestValidate_JSONFormat(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", goodDoc)
	bad := writeFile(t, dir, "bad.yaml", "version: \"2.0.0\"\ntasks:\n  - command: make\n")

	stdout, _, err := execute(t, "validate", "--format", "json", good, bad)
	assert.ErrorIs(t, err, ErrDiagnostics)

	var reports []struct {
		File        string `json:"file"`
		Version     string `json:"version"`
		Diagnostics []struct {
			Severity string `json:"severity"`
			Kind     string `json:"kind"`
			Path     string `json:"path"`
		} `json:"diagnostics"`
		Tasks struct {
			Custom []struct {
				Label string `json:"_label"`
				ID    string `json:"id"`
			} `json:"custom"`
		} `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &reports))
	require.Len(t, reports, 2)

	assert.Equal(t, good, reports[0].File)
	assert.Equal(t, "2.0.0", reports[0].Version)
	assert.Empty(t, reports[0].Diagnostics)
	require.Len(t, reports[0].Tasks.Custom, 2)
	assert.Equal(t, "build", reports[0].Tasks.Custom[0].Label)
	assert.NotEmpty(t, reports[0].Tasks.Custom[0].ID)

	require.Len(t, reports[1].Diagnostics, 1)
	assert.Equal(t, "error", reports[1].Diagnostics[0].Severity)
	assert.Equal(t, "missing-label", reports[1].Diagnostics[0].Kind)
	assert.Equal(t, "tasks[0]", reports[1].Diagnostics[0].Path)
}

func TestValidate_SameLabelAcrossFilesSharesID(t *testing.T) {
	dir := t.TempDir()
	doc := `{"version": "2.0.0", "tasks": [{"label": "build", "command": "make"}]}`
	one := writeFile(t, dir, "one.json", doc)
	two := writeFile(t, dir, "two.json", doc)

	stdout, _, err := execute(t, "validate", "--format", "json", one, two)
	require.NoError(t, err)

	var reports []struct {
		Tasks struct {
			Custom []struct {
				ID string `json:"id"`
			} `json:"custom"`
		} `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &reports))
	require.Len(t, reports, 2)
	require.Len(t, reports[0].Tasks.Custom, 1)
	require.Len(t, reports[1].Tasks.Custom, 1)
	assert.NotEmpty(t, reports[0].Tasks.Custom[0].ID)
	assert.Equal(t, reports[0].Tasks.Custom[0].ID, reports[1].Tasks.Custom[0].ID)
}

func TestValidate_UnreadableDocument(t *testing.T) {
	dir := t.TempDir()
	broken := writeFile(t, dir, "tasks.json", `{"tasks": [}`)

	stdout, _, err := execute(t, "validate", broken, dir+"/missing.json")

	assert.ErrorIs(t, err, ErrDiagnostics)
	assert.Contains(t, stdout, "parse error in")
	assert.Contains(t, stdout, "missing.json")
	assert.Contains(t, stdout, "2 files checked")
}

func TestValidate_WorkspaceFile(t *testing.T) {
	dir := t.TempDir()
	ws := writeFile(t, dir, "app.code-workspace", `{
	"folders": [{"path": "."}],
	"tasks": {"version": "2.0.0", "tasks": [{"label": "serve", "command": "npm start"}]}
}`)

	stdout, _, err := execute(t, "validate", "--format", "json", ws)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"source": "workspace"`)
	assert.Contains(t, stdout, `"_label": "serve"`)
}

func TestValidate_PlatformFlag(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "tasks.json", `{
	"version": "2.0.0",
	"tasks": [{"label": "open", "command": "xdg-open .", "windows": {"command": "explorer ."}}]
}`)

	stdout, _, err := execute(t, "--platform", "windows", "validate", "--format", "json", doc)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"command": "explorer ."`)
}

func TestValidate_BadFormat(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "tasks.json", goodDoc)

	_, _, err := execute(t, "validate", "--format", "xml", doc)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDiagnostics)
}

func TestValidate_RequiresFiles(t *testing.T) {
	_, _, err := execute(t, "validate")
	assert.Error(t, err)
}
