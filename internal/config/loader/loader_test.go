package loader

import (
	"errors"
	"io/fs"
	"reflect"
	"strings"
	"testing"
	"time"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) Open(name string) (fs.File, error) {
	return nil, fs.ErrNotExist
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{".vscode/tasks.json", FormatJSON},
		{"tasks.JSONC", FormatJSON},
		{"project.code-workspace", FormatJSON},
		{"tasks.yaml", FormatYAML},
		{"tasks.yml", FormatYAML},
		{"tasks.toml", FormatTOML},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			if err != nil {
				t.Fatalf("DetectFormat() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFormat() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := DetectFormat("tasks.ini"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("DetectFormat(tasks.ini) error = %v, want ErrUnsupportedFormat", err)
	}
}

func firstTask(t *testing.T, doc map[string]any, count int) map[string]any {
	t.Helper()
	tasks, ok := doc["tasks"].([]any)
	if !ok {
		t.Fatalf("tasks = %T, want []any", doc["tasks"])
	}
	if len(tasks) != count {
		t.Fatalf("len(tasks) = %d, want %d", len(tasks), count)
	}
	task, ok := tasks[0].(map[string]any)
	if !ok {
		t.Fatalf("tasks[0] = %T, want map[string]any", tasks[0])
	}
	return task
}

func TestLoader_LoadJSONC(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/ws/.vscode/tasks.json", `{
	// See https://go.microsoft.com/fwlink/?LinkId=733558
	"version": "2.0.0",
	"tasks": [
		{
			"label": "build", /* inline */
			"command": "make",
			"args": ["-j", 4,],
		},
	],
}`)

	doc, err := NewWithFS(memfs).Load("/ws/.vscode/tasks.json")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if doc["version"] != "2.0.0" {
		t.Errorf("version = %v, want 2.0.0", doc["version"])
	}
	task := firstTask(t, doc, 1)
	if task["label"] != "build" {
		t.Errorf("label = %v, want build", task["label"])
	}
	if want := []any{"-j", 4.0}; !reflect.DeepEqual(task["args"], want) {
		t.Errorf("args = %v, want %v", task["args"], want)
	}
}

func TestLoader_LoadYAML(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/tasks.yaml", `
version: "2.0.0"
tasks:
  - label: test
    command: go test ./...
    runOptions:
      instanceLimit: 2
`)

	doc, err := NewWithFS(memfs).Load("/tasks.yaml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	task := firstTask(t, doc, 1)
	if task["command"] != "go test ./..." {
		t.Errorf("command = %v", task["command"])
	}
	run, _ := task["runOptions"].(map[string]any)
	if run["instanceLimit"] != 2 {
		t.Errorf("instanceLimit = %v, want 2", run["instanceLimit"])
	}
}

func TestLoader_LoadTOML(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/tasks.toml", `
version = "2.0.0"

[[tasks]]
label = "lint"
command = "golangci-lint run"
problemMatcher = ["$go"]

[[tasks]]
label = "fmt"
command = "gofmt -l ."
`)

	doc, err := NewWithFS(memfs).Load("/tasks.toml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	first := firstTask(t, doc, 2)
	if first["label"] != "lint" {
		t.Errorf("label = %v, want lint", first["label"])
	}
	if want := []any{"$go"}; !reflect.DeepEqual(first["problemMatcher"], want) {
		t.Errorf("problemMatcher = %v, want %v", first["problemMatcher"], want)
	}
}

func TestLoader_Missing(t *testing.T) {
	_, err := NewWithFS(NewMemFS()).Load("/nope.json")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load() error = %v, want fs.ErrNotExist", err)
	}
}

func TestLoader_Section(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/app.code-workspace", `{
	"folders": [{"path": "."}],
	"tasks": {"version": "2.0.0", "tasks": []}
}`)

	l := NewWithFS(memfs)
	l.Section = "tasks"
	doc, err := l.Load("/app.code-workspace")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc["version"] != "2.0.0" {
		t.Errorf("version = %v, want 2.0.0", doc["version"])
	}

	l.Section = "launch"
	_, err = l.Load("/app.code-workspace")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if !strings.Contains(perr.Message, "launch") {
		t.Errorf("Message = %q, want it to mention launch", perr.Message)
	}
}

func TestLoader_LoadFromReader(t *testing.T) {
	doc, err := New().LoadFromReader(strings.NewReader(`{"version": "2.0.0"}`), FormatJSON)
	if err != nil {
		t.Fatalf("LoadFromReader() error = %v", err)
	}
	if doc["version"] != "2.0.0" {
		t.Errorf("version = %v, want 2.0.0", doc["version"])
	}

	_, err = New().LoadFromReader(strings.NewReader(`x`), Format("ini"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestDecodeJSON_SyntaxErrorPosition(t *testing.T) {
	data := []byte("{\n  \"version\": \"2.0.0\"\n  \"tasks\": []\n}")

	_, err := DecodeJSON("tasks.json", data, "")

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if perr.Path != "tasks.json" {
		t.Errorf("Path = %q, want tasks.json", perr.Path)
	}
	if perr.Line != 3 {
		t.Errorf("Line = %d, want 3", perr.Line)
	}
	if !strings.Contains(perr.Error(), "line 3") {
		t.Errorf("Error() = %q, want it to mention line 3", perr.Error())
	}
}

func TestDecodeJSON_NotObject(t *testing.T) {
	_, err := DecodeJSON("tasks.json", []byte(`[1, 2]`), "")

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if !strings.Contains(perr.Message, "must be a JSON object") {
		t.Errorf("Message = %q", perr.Message)
	}
}

func TestDecodeYAML_Invalid(t *testing.T) {
	_, err := DecodeYAML("tasks.yaml", []byte("tasks: [unclosed"))

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if perr.Unwrap() == nil {
		t.Error("Unwrap() = nil, want the YAML error")
	}
}

func TestDecodeTOML_InvalidPosition(t *testing.T) {
	_, err := DecodeTOML("tasks.toml", []byte("version = \"2.0.0\"\nlabel = = 1\n"))

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if perr.Line != 2 {
		t.Errorf("Line = %d, want 2", perr.Line)
	}
}

func TestDecodeEmptyDocuments(t *testing.T) {
	doc, err := DecodeYAML("empty.yaml", nil)
	if err != nil {
		t.Fatalf("DecodeYAML() error = %v", err)
	}
	if len(doc) != 0 {
		t.Errorf("DecodeYAML(nil) = %v, want empty", doc)
	}

	doc, err = DecodeTOML("empty.toml", nil)
	if err != nil {
		t.Fatalf("DecodeTOML() error = %v", err)
	}
	if len(doc) != 0 {
		t.Errorf("DecodeTOML(nil) = %v, want empty", doc)
	}
}

func TestStandardize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "line comment",
			input: "{\"a\": 1 // one\n}",
			want:  "{\"a\": 1       \n}",
		},
		{
			name:  "block comment keeps newlines",
			input: "{/* a\nb */\"a\": 1}",
			want:  "{    \n    \"a\": 1}",
		},
		{
			name:  "trailing commas",
			input: `{"a": [1, 2,], }`,
			want:  `{"a": [1, 2 ]  }`,
		},
		{
			name:  "comment markers inside strings",
			input: `{"url": "http://x/*y*/", "s": "a,]"}`,
			want:  `{"url": "http://x/*y*/", "s": "a,]"}`,
		},
		{
			name:  "escaped quote",
			input: `{"q": "say \"//hi\""}`,
			want:  `{"q": "say \"//hi\""}`,
		},
		{
			name:  "comma before comment then bracket",
			input: "[1, // last\n]",
			want:  "[1" + strings.Repeat(" ", 9) + "\n]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(Standardize([]byte(tt.input))); got != tt.want {
				t.Errorf("Standardize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPosition(t *testing.T) {
	data := []byte("ab\ncd\nef")

	tests := []struct {
		offset   int
		line     int
		col      int
		checkCol bool
	}{
		{0, 1, 1, true},
		{4, 2, 2, true},
		{100, 3, 0, false},
	}
	for _, tt := range tests {
		line, col := position(data, tt.offset)
		if line != tt.line {
			t.Errorf("position(%d) line = %d, want %d", tt.offset, line, tt.line)
		}
		if tt.checkCol && col != tt.col {
			t.Errorf("position(%d) column = %d, want %d", tt.offset, col, tt.col)
		}
	}
}
