package sobject

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// decodeJSON parses JSON text into the engine's wire tree: *Mapping for
// objects (preserving key order), []any for arrays, int64 for integral
// numbers, float64 otherwise, and nil for null.
func decodeJSON(r io.Reader) (any, error) {
	dec := gojson.NewDecoder(r)
	dec.UseNumber()
	value, err := decodeJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return value, nil
}

func decodeJSONValue(dec *gojson.Decoder) (any, error) {
	token, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("unexpected end of input")
		}
		return nil, err
	}
	return decodeJSONToken(dec, token)
}

func decodeJSONToken(dec *gojson.Decoder, token gojson.Token) (any, error) {
	switch t := token.(type) {
	case gojson.Delim:
		switch t {
		case '{':
			mapping := NewMapping()
			for dec.More() {
				keyToken, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyToken.(string)
				if !ok {
					return nil, fmt.Errorf("object key is not a string: %v", keyToken)
				}
				value, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				mapping.Set(key, value)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return mapping, nil
		case '[':
			items := []any{}
			for dec.More() {
				value, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				items = append(items, value)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return items, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t)
	case string:
		return t, nil
	case gojson.Number:
		return decodeNumber(string(t))
	case bool:
		return t, nil
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("unexpected token %v", token)
}

// decodeNumber keeps integral numbers as int64 so round-trips do not turn
// integers into floats.
func decodeNumber(text string) (any, error) {
	if !strings.ContainsAny(text, ".eE") {
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return n, nil
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", text)
	}
	return f, nil
}

// decodeYAML parses YAML text into the same wire tree as decodeJSON,
// walking yaml.Node so mapping order is preserved.
func decodeYAML(data []byte) (any, error) {
	var document yaml.Node
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, err
	}
	if document.Kind == 0 || len(document.Content) == 0 {
		return nil, nil
	}
	return yamlNodeValue(document.Content[0])
}

func yamlNodeValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return yamlNodeValue(node.Content[0])
	case yaml.MappingNode:
		mapping := NewMapping()
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf(
					"line %d: mapping keys must be scalars", keyNode.Line)
			}
			value, err := yamlNodeValue(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			mapping.Set(keyNode.Value, value)
		}
		return mapping, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			value, err := yamlNodeValue(child)
			if err != nil {
				return nil, err
			}
			items = append(items, value)
		}
		return items, nil
	case yaml.ScalarNode:
		return yamlScalarValue(node)
	case yaml.AliasNode:
		return yamlNodeValue(node.Alias)
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node", node.Line)
}

func yamlScalarValue(node *yaml.Node) (any, error) {
	switch node.Tag {
	case "!!null":
		return nil, nil
	case "!!bool":
		return strconv.ParseBool(node.Value)
	case "!!int":
		return strconv.ParseInt(node.Value, 10, 64)
	case "!!float":
		return strconv.ParseFloat(node.Value, 64)
	default:
		return node.Value, nil
	}
}
