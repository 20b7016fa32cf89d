package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"fjacquet/finance-dashboard/internal/categorizer"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Supported keyword configuration formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

var errNotMapping = errors.New("keyword configuration must be an object")

// ParseKeywordMap decodes a keyword configuration, keeping document order.
//
// Two shapes are accepted and may be mixed:
//
//	{"amazon": "Shopping", "uber": "Transportation"}
//	{"Dining": ["coffee", "restaurant"]}
//
// A scalar value maps its key as a keyword; a list value maps every item to
// the key as a category.
func ParseKeywordMap(data []byte, format string) (categorizer.KeywordMap, error) {
	if strings.TrimSpace(string(data)) == "" {
		return categorizer.KeywordMap{}, nil
	}
	switch format {
	case FormatTOML:
		return parseTOML(data)
	case FormatJSON:
		return parseJSON(data)
	case FormatYAML:
		return parseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported keyword configuration format %q", format)
	}
}

func parseYAML(data []byte) (categorizer.KeywordMap, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding keyword configuration: %w", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, errNotMapping
	}

	km := categorizer.KeywordMap{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		switch value.Kind {
		case yaml.ScalarNode:
			km = km.Add(key.Value, value.Value)
		case yaml.SequenceNode:
			for _, item := range value.Content {
				if item.Kind != yaml.ScalarNode {
					return nil, fmt.Errorf("line %d: keywords of %q must be strings", item.Line, key.Value)
				}
				km = km.Add(item.Value, key.Value)
			}
		default:
			return nil, fmt.Errorf("line %d: unsupported value for %q", value.Line, key.Value)
		}
	}
	return km, nil
}

// parseJSON walks the token stream so keys keep their document order.
func parseJSON(data []byte) (categorizer.KeywordMap, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decoding keyword configuration: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errNotMapping
	}

	km := categorizer.KeywordMap{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decoding keyword configuration: %w", err)
		}
		key, _ := tok.(string)

		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("decoding value of %q: %w", key, err)
		}
		switch v := value.(type) {
		case string:
			km = km.Add(key, v)
		case []interface{}:
			for _, item := range v {
				keyword, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("keywords of %q must be strings", key)
				}
				km = km.Add(keyword, key)
			}
		default:
			return nil, fmt.Errorf("unsupported value for %q", key)
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decoding keyword configuration: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("decoding keyword configuration: unexpected data after object")
	}
	return km, nil
}

func parseTOML(data []byte) (categorizer.KeywordMap, error) {
	var raw map[string]interface{}
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("decoding keyword configuration: %w", err)
	}

	km := categorizer.KeywordMap{}
	for _, key := range md.Keys() {
		if len(key) != 1 {
			return nil, fmt.Errorf("nested key %s is not supported", key.String())
		}
		name := key[0]
		switch v := raw[name].(type) {
		case string:
			km = km.Add(name, v)
		case []interface{}:
			for _, item := range v {
				keyword, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("keywords of %q must be strings", name)
				}
				km = km.Add(keyword, name)
			}
		default:
			return nil, fmt.Errorf("unsupported value for %q", name)
		}
	}
	return km, nil
}
