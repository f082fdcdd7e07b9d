// Package loader reads task documents from disk into untyped maps.
//
// Documents may be JSON (comments and trailing commas allowed, as in
// tasks.json), YAML or TOML. The format is chosen from the file
// extension. Decoded values keep the shapes the task parser expects:
// objects become map[string]any and arrays become []any.
package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for files whose extension selects no
// decoder.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Format is a task document encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// DetectFormat picks the format for path from its extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc", ".code-workspace":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
}

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	fs.FS
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// Open implements fs.FS.
func (OSFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}

// Loader reads task documents.
type Loader struct {
	fs FileSystem

	// Section, when set, selects a nested object of a JSON document by
	// gjson path, e.g. "tasks" for a workspace file.
	Section string
}

// New creates a loader backed by the OS file system.
func New() *Loader {
	return &Loader{fs: DefaultFS()}
}

// NewWithFS creates a loader with a custom file system.
func NewWithFS(fsys FileSystem) *Loader {
	return &Loader{fs: fsys}
}

// Load reads and decodes the document at path. A missing file yields an
// error wrapping fs.ErrNotExist.
func (l *Loader) Load(path string) (map[string]any, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading task document %s: %w", path, err)
	}
	return l.decode(format, path, data)
}

// LoadFromReader decodes a document of the given format from r.
func (l *Loader) LoadFromReader(r io.Reader, format Format) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading task document: %w", err)
	}
	return l.decode(format, "<reader>", data)
}

func (l *Loader) decode(format Format, source string, data []byte) (map[string]any, error) {
	switch format {
	case FormatJSON:
		return DecodeJSON(source, data, l.Section)
	case FormatYAML:
		return DecodeYAML(source, data)
	case FormatTOML:
		return DecodeTOML(source, data)
	}
	return nil, fmt.Errorf("%s: %w: %q", source, ErrUnsupportedFormat, format)
}

// ParseError represents an error while parsing a task document.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int) (line, column int) {
	if offset > len(data) {
		offset = len(data)
	}
	line, column = 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			column = 1
			continue
		}
		column++
	}
	return line, column
}
