package loader

import (
	"encoding/json"
	"errors"

	"github.com/tidwall/gjson"
)

// DecodeJSON decodes a JSON document that may contain comments and
// trailing commas. A non-empty section selects a nested object by gjson
// path.
func DecodeJSON(source string, data []byte, section string) (map[string]any, error) {
	clean := Standardize(data)
	if !gjson.ValidBytes(clean) {
		return nil, syntaxError(source, clean)
	}

	res := gjson.ParseBytes(clean)
	if section != "" {
		res = res.Get(section)
		if !res.Exists() {
			return nil, &ParseError{Path: source, Message: "section " + section + " not found"}
		}
	}
	if !res.IsObject() {
		return nil, &ParseError{Path: source, Message: "document must be a JSON object"}
	}

	doc, _ := res.Value().(map[string]any)
	return doc, nil
}

// syntaxError locates the first syntax error in data.
func syntaxError(source string, data []byte) error {
	var v any
	err := json.Unmarshal(data, &v)
	if err == nil {
		return &ParseError{Path: source, Message: "invalid JSON"}
	}
	perr := &ParseError{Path: source, Message: err.Error(), Err: err}
	var serr *json.SyntaxError
	if errors.As(err, &serr) {
		perr.Line, perr.Column = position(data, int(serr.Offset))
	}
	return perr
}

// Standardize turns JSON with comments and trailing commas into plain
// JSON. Removed bytes become spaces so offsets, lines and columns in
// the result match the input.
func Standardize(data []byte) []byte {
	out := make([]byte, len(data))
	copy(out, data)

	for i := 0; i < len(out); i++ {
		switch out[i] {
		case '"':
			i = skipString(out, i)
		case '/':
			if i+1 >= len(out) {
				continue
			}
			switch out[i+1] {
			case '/':
				for ; i < len(out) && out[i] != '\n'; i++ {
					out[i] = ' '
				}
			case '*':
				out[i], out[i+1] = ' ', ' '
				for i += 2; i < len(out); i++ {
					if out[i] == '*' && i+1 < len(out) && out[i+1] == '/' {
						out[i], out[i+1] = ' ', ' '
						i++
						break
					}
					if out[i] != '\n' {
						out[i] = ' '
					}
				}
			}
		case ',':
			if j := nextToken(out, i+1); j < len(out) && (out[j] == '}' || out[j] == ']') {
				out[i] = ' '
			}
		}
	}
	return out
}

// skipString returns the index of the closing quote of the string
// starting at i.
func skipString(data []byte, i int) int {
	for i++; i < len(data); i++ {
		switch data[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return i
}

// nextToken returns the index of the next byte that is neither
// whitespace nor part of a comment.
func nextToken(data []byte, i int) int {
	for i < len(data) {
		switch {
		case data[i] == ' ' || data[i] == '\t' || data[i] == '\r' || data[i] == '\n':
			i++
		case data[i] == '/' && i+1 < len(data) && data[i+1] == '/':
			for i < len(data) && data[i] != '\n' {
				i++
			}
		case data[i] == '/' && i+1 < len(data) && data[i+1] == '*':
			i += 2
			for i+1 < len(data) && !(data[i] == '*' && data[i+1] == '/') {
				i++
			}
			i += 2
		default:
			return i
		}
	}
	return i
}
