package loader

import (
	"errors"

	"github.com/pelletier/go-toml/v2"
)

// DecodeTOML decodes a TOML task document. Tasks are written as an
// array of tables:
//
//	version = "2.0.0"
//
//	[[tasks]]
//	label = "build"
//	command = "make"
func DecodeTOML(source string, data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return nil, perr
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}
