package sobject

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
)

// Format names a serialization text format.
type Format string

const (
	FormatJSON Format = "json"
	// FormatYAML is accepted on input only; output is always JSON.
	FormatYAML Format = "yaml"
)

// SerializeOption configures Serialize.
type SerializeOption func(*serializeConfig)

type serializeConfig struct {
	indent int
}

// WithIndent pretty-prints with the given indentation width. Zero means
// compact output.
func WithIndent(width int) SerializeOption {
	return func(cfg *serializeConfig) { cfg.indent = width }
}

// Serialize marshals a value and renders the resulting tree as JSON text.
// Mapping keys are written in order. A model's before/after serialize hooks
// wrap the rendering.
func Serialize(value any, opts ...SerializeOption) (string, error) {
	var cfg serializeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	var h *ModelHooks
	if m, ok := value.(Model); ok {
		h = commonHooksOf(m)
	}
	tree, err := Marshal(value)
	if err != nil {
		return "", err
	}
	if h != nil && h.BeforeSerialize != nil {
		tree, err = h.BeforeSerialize(tree)
		if err != nil {
			return "", err
		}
	}
	b := &strings.Builder{}
	if err := encodeJSON(b, tree, cfg.indent, 0); err != nil {
		return "", err
	}
	text := b.String()
	if h != nil && h.AfterSerialize != nil {
		return h.AfterSerialize(text)
	}
	return text, nil
}

func encodeJSON(b *strings.Builder, value any, indent, depth int) error {
	switch v := value.(type) {
	case nil:
		b.WriteString("null")
	case *NullType:
		b.WriteString("null")
	case string, bool, float64:
		encoded, err := gojson.Marshal(v)
		if err != nil {
			return err
		}
		b.Write(encoded)
	case int:
		b.WriteString(strconv.Itoa(v))
	case int64:
		b.WriteString(strconv.FormatInt(v, 10))
	case *Mapping:
		if v.Len() == 0 {
			b.WriteString("{}")
			return nil
		}
		b.WriteByte('{')
		for i, key := range v.Keys() {
			if i > 0 {
				b.WriteByte(',')
			}
			writeNewlineIndent(b, indent, depth+1)
			encodedKey, err := gojson.Marshal(key)
			if err != nil {
				return err
			}
			b.Write(encodedKey)
			b.WriteByte(':')
			if indent > 0 {
				b.WriteByte(' ')
			}
			item, _ := v.Get(key)
			if err := encodeJSON(b, item, indent, depth+1); err != nil {
				return err
			}
		}
		writeNewlineIndent(b, indent, depth)
		b.WriteByte('}')
	case []any:
		if len(v) == 0 {
			b.WriteString("[]")
			return nil
		}
		b.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				b.WriteByte(',')
			}
			writeNewlineIndent(b, indent, depth+1)
			if err := encodeJSON(b, item, indent, depth+1); err != nil {
				return err
			}
		}
		writeNewlineIndent(b, indent, depth)
		b.WriteByte(']')
	default:
		// The tree comes from Marshal, which only emits the cases above;
		// reaching here means an unmarshalled tree was passed directly.
		marshalled, err := Marshal(value)
		if err != nil {
			return err
		}
		if sameDynamicType(marshalled, value) {
			return fmt.Errorf("sobject: cannot serialize %s", represent(value))
		}
		return encodeJSON(b, marshalled, indent, depth)
	}
	return nil
}

func sameDynamicType(a, b any) bool {
	return fmt.Sprintf("%T", a) == fmt.Sprintf("%T", b)
}

func writeNewlineIndent(b *strings.Builder, indent, depth int) {
	if indent <= 0 {
		return
	}
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", indent*depth))
}

// Deserialize parses serialized text in the named format into a wire tree:
// *Mapping, []any, primitives, or nil.
func Deserialize(data []byte, format Format) (any, error) {
	switch format {
	case FormatJSON:
		value, err := decodeJSON(bytes.NewReader(data))
		if err != nil {
			return nil, &DeserializeError{Data: string(data), Message: "invalid JSON", Cause: err}
		}
		return value, nil
	case FormatYAML:
		value, err := decodeYAML(data)
		if err != nil {
			return nil, &DeserializeError{Data: string(data), Message: "invalid YAML", Cause: err}
		}
		return value, nil
	}
	return nil, fmt.Errorf("sobject: unsupported format %q", format)
}

// DeserializeReader is Deserialize over a stream.
func DeserializeReader(r io.Reader, format Format) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Deserialize(data, format)
}

// DetectFormat deserializes text whose format is unknown, trying JSON first
// and falling back to YAML.
func DetectFormat(data []byte) (any, Format, error) {
	value, err := decodeJSON(bytes.NewReader(data))
	if err == nil {
		return value, FormatJSON, nil
	}
	value, yamlErr := decodeYAML(data)
	if yamlErr == nil {
		return value, FormatYAML, nil
	}
	return nil, "", &DeserializeError{
		Data:    string(data),
		Message: "the data could not be parsed as JSON or YAML",
		Cause:   err,
	}
}
