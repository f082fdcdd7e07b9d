package loader

import (
	"gopkg.in/yaml.v3"
)

// DecodeYAML decodes a YAML task document.
func DecodeYAML(source string, data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}
