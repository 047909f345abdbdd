package sobject

import (
	"encoding/base64"
	"sort"
)

// Marshal converts an in-memory value (model instance, primitive, container)
// into a JSON-representable tree: *Mapping, []any, primitives, or nil. The
// Null sentinel becomes nil, which serialization renders as an explicit
// null; absent object properties are omitted before marshal is ever called.
func Marshal(value any, opts ...Option) (any, error) {
	cfg := applyOptions(opts)
	return marshal(value, cfg)
}

func marshal(value any, cfg engineConfig) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string, bool, int, int64, float64:
		return v, nil
	case *NullType:
		return nil, nil
	case *UndefinedType:
		return nil, newTypeError("sobject.Undefined cannot be marshalled")
	case Model:
		return v.marshalModel()
	}
	if cfg.types.Len() > 0 {
		return marshalTyped(value, cfg)
	}
	switch v := value.(type) {
	case Date:
		return FormatDate(v), nil
	case DateTime:
		return FormatDateTime(v), nil
	case []byte:
		return base64.StdEncoding.EncodeToString(v), nil
	case *Mapping:
		out := NewMapping()
		for _, key := range v.Keys() {
			item, _ := v.Get(key)
			marshalled, err := marshal(item, engineConfig{})
			if err != nil {
				return nil, err
			}
			out.Set(key, marshalled)
		}
		return out, nil
	case map[string]any:
		// Plain maps carry no order of their own; sort for determinism.
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		out := NewMapping()
		for _, key := range keys {
			marshalled, err := marshal(v[key], engineConfig{})
			if err != nil {
				return nil, err
			}
			out.Set(key, marshalled)
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			marshalled, err := marshal(item, engineConfig{})
			if err != nil {
				return nil, err
			}
			out[i] = marshalled
		}
		return out, nil
	}
	err := newUnmarshalError(value, nil, "the value cannot be marshalled")
	return nil, &UnmarshalValueError{UnmarshalError: err}
}

// marshalTyped attempts each candidate in order; the first that does not
// fail wins.
func marshalTyped(value any, cfg engineConfig) (any, error) {
	var firstErr error
	for _, candidate := range cfg.types.Items() {
		marshalled, err := marshalCandidate(candidate, value, cfg)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		return marshalled, nil
	}
	base := newUnmarshalError(value, cfg.types, "")
	if firstErr != nil {
		base.Message = firstErr.Error()
	}
	return nil, &UnmarshalTypeError{UnmarshalError: base}
}

func marshalCandidate(candidate Type, value any, cfg engineConfig) (any, error) {
	switch c := candidate.(type) {
	case *NullType:
		if value == Null || value == nil {
			return nil, nil
		}
		return nil, newTypeError("expected null, got %s", represent(value))
	case Kind:
		if conformsToKind(value, c) {
			return marshal(value, engineConfig{})
		}
		return nil, newTypeError("expected %s, got %s", c, represent(value))
	case *Class:
		if m, ok := value.(Model); ok && m.Class().IsSubclassOf(c) {
			return m.marshalModel()
		}
		return nil, newTypeError("expected an instance of %s, got %s", c.Name(), represent(value))
	case PropertyDescriptor:
		return marshalProperty(c, value)
	}
	return nil, newTypeError("unrecognized type descriptor %s", represent(candidate))
}

// marshalProperty applies per-property semantics around the generic engine,
// mirroring the dispatch order of unmarshalProperty.
func marshalProperty(property PropertyDescriptor, value any) (any, error) {
	if value == nil || value == Null {
		return nil, nil
	}
	switch p := property.(type) {
	case *DateProperty:
		if d, ok := value.(Date); ok {
			return p.formatDate(d)
		}
		return nil, newTypeError("expected a date, got %s", represent(value))
	case *DateTimeProperty:
		if t, ok := value.(DateTime); ok {
			return p.formatDateTime(t)
		}
		return nil, newTypeError("expected a datetime, got %s", represent(value))
	case *BytesProperty:
		switch v := value.(type) {
		case []byte:
			return base64.StdEncoding.EncodeToString(v), nil
		case string:
			return v, nil
		}
		return nil, newTypeError("expected bytes, got %s", represent(value))
	case *ArrayProperty:
		return Marshal(value, WithTypes(p.Types()), WithItemTypes(p.ItemTypes))
	case *DictionaryProperty:
		return Marshal(value, WithTypes(p.Types()), WithValueTypes(p.ValueTypes))
	case *EnumeratedProperty:
		return Marshal(value, WithTypes(p.Types()))
	}
	return Marshal(value, WithTypes(property.Base().Types()))
}
