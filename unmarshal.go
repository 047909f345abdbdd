package sobject

import (
	"encoding/base64"
	"strings"
)

// Option configures a Marshal, Unmarshal or Validate call. Options are
// applied in order; the last occurrence of an option wins.
type Option func(*engineConfig)

type engineConfig struct {
	types      *Types
	itemTypes  *Types
	valueTypes *Types
}

// WithTypes restricts the value to the given candidate types, tried in
// order.
func WithTypes(types *Types) Option {
	return func(cfg *engineConfig) { cfg.types = types }
}

// WithItemTypes threads item types through to array construction.
func WithItemTypes(types *Types) Option {
	return func(cfg *engineConfig) { cfg.itemTypes = types }
}

// WithValueTypes threads value types through to dictionary construction.
func WithValueTypes(types *Types) Option {
	return func(cfg *engineConfig) { cfg.valueTypes = types }
}

func applyOptions(opts []Option) engineConfig {
	var cfg engineConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Unmarshal converts wire-shaped data (primitives, ordered mappings,
// sequences) into model instances or typed primitives. A nil input becomes
// the Null sentinel. An already-typed model instance is returned unchanged.
// When candidate types are supplied, they are tried in declaration order;
// an object candidate constructed with extraneous attributes is held back in
// favor of later candidates, and the candidate with the fewest extraneous
// attributes wins when none is exact.
func Unmarshal(data any, opts ...Option) (any, error) {
	cfg := applyOptions(opts)
	return unmarshal(data, cfg)
}

func unmarshal(data any, cfg engineConfig) (any, error) {
	if data == Undefined {
		return nil, newTypeError("sobject.Undefined cannot be unmarshalled")
	}
	if m, ok := data.(Model); ok && m.Meta() != nil {
		return m, nil
	}
	if cfg.types.Len() == 0 {
		return unmarshalUntyped(data, cfg)
	}
	return unmarshalTyped(data, cfg)
}

// unmarshalUntyped infers a generic container shape when no candidate types
// were supplied.
func unmarshalUntyped(data any, cfg engineConfig) (any, error) {
	switch d := data.(type) {
	case nil:
		return Null, nil
	case *NullType:
		return Null, nil
	case *Dictionary:
		if cfg.valueTypes != nil {
			if err := retypeDictionary(d, cfg.valueTypes); err != nil {
				return nil, err
			}
		}
		return d, nil
	case *Array:
		if cfg.itemTypes != nil {
			if err := retypeArray(d, cfg.itemTypes); err != nil {
				return nil, err
			}
		}
		return d, nil
	case Model:
		return d, nil
	case *Mapping, map[string]any:
		return NewDictionary(nil, d, WithValueTypes(cfg.valueTypes))
	case []any:
		return NewArray(nil, d, WithItemTypes(cfg.itemTypes))
	case string, bool, int, int64, float64, []byte, Date, DateTime:
		return d, nil
	}
	err := newUnmarshalError(data, nil, "")
	return nil, &UnmarshalValueError{UnmarshalError: err}
}

// retypeDictionary re-routes every stored value through the new value types.
func retypeDictionary(d *Dictionary, valueTypes *Types) error {
	meta, _ := d.WritableMeta().(*DictionaryMeta)
	meta.ValueTypes = valueTypes
	for _, key := range d.Keys() {
		value, _ := d.Get(key)
		if err := d.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}

// retypeArray re-routes every item through the new item types.
func retypeArray(a *Array, itemTypes *Types) error {
	meta, _ := a.WritableMeta().(*ArrayMeta)
	meta.ItemTypes = itemTypes
	for i := 0; i < a.Len(); i++ {
		if err := a.SetIndex(i, a.Get(i)); err != nil {
			return err
		}
	}
	return nil
}

// unmarshalTyped is the polymorphic resolver.
func unmarshalTyped(data any, cfg engineConfig) (any, error) {
	var firstErr error
	var errorTexts []string
	var best any
	bestExtra := -1
	for _, candidate := range cfg.types.Items() {
		value, err := unmarshalCandidate(candidate, data, cfg)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			errorTexts = append(errorTexts, err.Error())
			continue
		}
		if obj, ok := value.(*Object); ok {
			if extra := obj.extraCount(); extra > 0 {
				if bestExtra < 0 || extra < bestExtra {
					best = value
					bestExtra = extra
				}
				continue
			}
		}
		return value, nil
	}
	if best != nil {
		return best, nil
	}
	message := strings.Join(errorTexts, "\n\n")
	base := newUnmarshalError(data, cfg.types, message)
	if firstErr == nil || isTypeError(firstErr) {
		return nil, &UnmarshalTypeError{UnmarshalError: base}
	}
	return nil, &UnmarshalValueError{UnmarshalError: base}
}

func unmarshalCandidate(candidate Type, data any, cfg engineConfig) (any, error) {
	switch c := candidate.(type) {
	case *NullType:
		if data == nil || data == Null {
			return Null, nil
		}
		return nil, newTypeError("expected null, got %s", represent(data))
	case Kind:
		if conformsToKind(data, c) {
			return data, nil
		}
		return nil, newTypeError("expected %s, got %s", c, represent(data))
	case *Class:
		return unmarshalClass(c, data, cfg)
	case PropertyDescriptor:
		return unmarshalProperty(c, data)
	}
	return nil, newTypeError("unrecognized type descriptor %s", represent(candidate))
}

func unmarshalClass(class *Class, data any, cfg engineConfig) (any, error) {
	if m, ok := data.(Model); ok && m.Class().IsSubclassOf(class) {
		return m, nil
	}
	if h := class.Hooks(); h != nil {
		if before := h.common().BeforeUnmarshal; before != nil {
			substituted, err := before(data)
			if err != nil {
				return nil, err
			}
			data = substituted
		}
	}
	var instance Model
	var err error
	switch class.Kind() {
	case ObjectContainer:
		if !isMappingShaped(data) {
			return nil, newTypeError(
				"%s cannot be constructed from %s", class.Name(), represent(data))
		}
		instance, err = NewObject(class, data)
	case ArrayContainer:
		if !isSequenceShaped(data) {
			return nil, newTypeError(
				"%s cannot be constructed from %s", class.Name(), represent(data))
		}
		instance, err = NewArray(class, data, WithItemTypes(cfg.itemTypes))
	case DictionaryContainer:
		if !isMappingShaped(data) {
			return nil, newTypeError(
				"%s cannot be constructed from %s", class.Name(), represent(data))
		}
		instance, err = NewDictionary(class, data, WithValueTypes(cfg.valueTypes))
	}
	if err != nil {
		return nil, err
	}
	if h := class.Hooks(); h != nil {
		if after := h.common().AfterUnmarshal; after != nil {
			return after(instance)
		}
	}
	return instance, nil
}

func isMappingShaped(data any) bool {
	switch data.(type) {
	case *Mapping, map[string]any:
		return true
	}
	return false
}

func isSequenceShaped(data any) bool {
	_, ok := data.([]any)
	return ok
}

// unmarshalProperty applies per-property semantics around the generic
// engine. Dispatch order is fixed: date, datetime, bytes, array, dictionary,
// enumerated, then the generic fallback. A descriptor combining two of these
// behaviors would resolve to the earlier case.
func unmarshalProperty(property PropertyDescriptor, data any) (any, error) {
	switch p := property.(type) {
	case *DateProperty:
		switch v := data.(type) {
		case Date:
			return v, nil
		case string:
			parsed, err := p.parseDate(v)
			if err != nil {
				base := newUnmarshalError(data, p.Types(), err.Error())
				return nil, &UnmarshalValueError{UnmarshalError: base}
			}
			return parsed, nil
		}
		return nil, newTypeError("expected a date string, got %s", represent(data))
	case *DateTimeProperty:
		switch v := data.(type) {
		case DateTime:
			return v, nil
		case string:
			parsed, err := p.parseDateTime(v)
			if err != nil {
				base := newUnmarshalError(data, p.Types(), err.Error())
				return nil, &UnmarshalValueError{UnmarshalError: base}
			}
			return parsed, nil
		}
		return nil, newTypeError("expected a datetime string, got %s", represent(data))
	case *BytesProperty:
		switch v := data.(type) {
		case []byte:
			return v, nil
		case string:
			decoded, err := base64.StdEncoding.DecodeString(v)
			if err != nil {
				base := newUnmarshalError(data, p.Types(), err.Error())
				return nil, &UnmarshalValueError{UnmarshalError: base}
			}
			return decoded, nil
		}
		return nil, newTypeError("expected base64 text or bytes, got %s", represent(data))
	case *ArrayProperty:
		return Unmarshal(data, WithTypes(p.Types()), WithItemTypes(p.ItemTypes))
	case *DictionaryProperty:
		return Unmarshal(data, WithTypes(p.Types()), WithValueTypes(p.ValueTypes))
	case *EnumeratedProperty:
		if !p.contains(data) {
			base := newUnmarshalError(data, p.Types(),
				"the value must be one of: "+represent(p.Values))
			return nil, &UnmarshalValueError{UnmarshalError: base}
		}
		return Unmarshal(data, WithTypes(p.Types()))
	}
	base := property.Base()
	return Unmarshal(convertNilElements(data), WithTypes(base.Types()))
}

// convertNilElements rewrites explicit nulls inside raw sequences and
// mappings to Null so they survive as values instead of vanishing as
// absent.
func convertNilElements(data any) any {
	switch v := data.(type) {
	case []any:
		converted := make([]any, len(v))
		for i, item := range v {
			if item == nil {
				converted[i] = Null
			} else {
				converted[i] = item
			}
		}
		return converted
	case *Mapping:
		converted := NewMapping()
		for _, key := range v.Keys() {
			value, _ := v.Get(key)
			if value == nil {
				value = Null
			}
			converted.Set(key, value)
		}
		return converted
	case map[string]any:
		converted := make(map[string]any, len(v))
		for key, value := range v {
			if value == nil {
				converted[key] = Null
			} else {
				converted[key] = value
			}
		}
		return converted
	}
	return data
}
