package sobject

import (
	"fmt"
	"io"
	"sort"
)

// Dictionary wraps an ordered string-keyed mapping. Set is the sole mutation
// choke point: every value passes through the unmarshal engine against the
// declared value types. Explicit nulls are stored as the Null sentinel; a Go
// nil never survives unmarshalling, and finding one afterwards is an
// internal invariant violation.
type Dictionary struct {
	modelState
	keys   []string
	values map[string]any
}

// NewDictionary constructs an instance of a dictionary class from raw data:
// nil, a decoded *Mapping or map, serialized text, or another *Dictionary. A
// nil class means the generic DictionaryClass. WithValueTypes attaches
// instance-level value types.
func NewDictionary(class *Class, data any, opts ...Option) (*Dictionary, error) {
	if class == nil {
		class = DictionaryClass
	}
	if class.Kind() != DictionaryContainer {
		return nil, newTypeError("class %q is not a dictionary class", class.Name())
	}
	d := &Dictionary{
		modelState: modelState{class: class},
		values:     map[string]any{},
	}
	cfg := applyOptions(opts)
	if cfg.valueTypes != nil {
		d.meta = &DictionaryMeta{ValueTypes: cfg.valueTypes}
	}
	if data == nil {
		return d, nil
	}
	switch source := data.(type) {
	case *Dictionary:
		for _, key := range source.keys {
			if err := d.Set(key, source.values[key]); err != nil {
				return nil, err
			}
		}
	case *Mapping:
		for _, key := range source.Keys() {
			value, _ := source.Get(key)
			if err := d.Set(key, value); err != nil {
				return nil, err
			}
		}
	case map[string]any:
		keys := make([]string, 0, len(source))
		for key := range source {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if err := d.Set(key, source[key]); err != nil {
				return nil, err
			}
		}
	case string:
		return newDictionaryFromText(class, []byte(source), d.meta)
	case []byte:
		return newDictionaryFromText(class, source, d.meta)
	case io.Reader:
		text, err := io.ReadAll(source)
		if err != nil {
			return nil, err
		}
		return newDictionaryFromText(class, text, d.meta)
	default:
		return nil, newTypeError(
			"cannot construct %s from %s", class.Name(), represent(data))
	}
	return d, nil
}

func newDictionaryFromText(class *Class, text []byte, meta Meta) (*Dictionary, error) {
	tree, _, err := DetectFormat(text)
	if err != nil {
		return nil, err
	}
	mapping, ok := tree.(*Mapping)
	if !ok {
		return nil, newTypeError(
			"cannot construct %s from non-mapping data: %s",
			class.Name(), represent(tree))
	}
	d := &Dictionary{
		modelState: modelState{class: class, meta: meta},
		values:     map[string]any{},
	}
	for _, key := range mapping.Keys() {
		value, _ := mapping.Get(key)
		if err := d.Set(key, value); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Dictionary) dictionaryHooks() *DictionaryHooks {
	h, _ := d.Hooks().(*DictionaryHooks)
	return h
}

// ValueTypes returns the effective value types, nil when unconstrained.
func (d *Dictionary) ValueTypes() *Types {
	if meta, ok := d.Meta().(*DictionaryMeta); ok {
		return meta.ValueTypes
	}
	return nil
}

// Set stores a value under key, unmarshalling it against the declared value
// types. Use the Null sentinel, never nil, for an explicit null value.
func (d *Dictionary) Set(key string, value any) error {
	h := d.dictionaryHooks()
	if h != nil && h.BeforeSetitem != nil {
		var err error
		key, value, err = h.BeforeSetitem(d, key, value)
		if err != nil {
			return err
		}
	}
	unmarshalled, err := Unmarshal(value, WithTypes(d.ValueTypes()))
	if err != nil {
		return &UnmarshalKeyError{
			Key:     key,
			Message: fmt.Sprintf("errors encountered in attempting to unmarshal the value under %q:\n%v", key, err),
			Cause:   err,
		}
	}
	if unmarshalled == nil {
		return fmt.Errorf(
			"sobject: internal error: unmarshalling the value under %q produced nil; "+
				"explicit nulls must be represented by sobject.Null", key)
	}
	if _, exists := d.values[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.values[key] = unmarshalled
	if h != nil && h.AfterSetitem != nil {
		return h.AfterSetitem(d, key, unmarshalled)
	}
	return nil
}

// Get returns the value stored under key.
func (d *Dictionary) Get(key string) (any, bool) {
	value, ok := d.values[key]
	return value, ok
}

// Delete removes the entry under key.
func (d *Dictionary) Delete(key string) {
	if _, exists := d.values[key]; !exists {
		return
	}
	delete(d.values, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (d *Dictionary) Keys() []string { return append([]string(nil), d.keys...) }

// Len returns the number of entries.
func (d *Dictionary) Len() int { return len(d.keys) }

func (d *Dictionary) marshalModel() (any, error) {
	target := d
	h := commonHooksOf(d)
	if h != nil && h.BeforeMarshal != nil {
		substituted, err := h.BeforeMarshal(d)
		if err != nil {
			return nil, err
		}
		if sd, ok := substituted.(*Dictionary); ok {
			target = sd
		}
	}
	valueTypes := target.ValueTypes()
	out := NewMapping()
	for _, key := range target.keys {
		marshalled, err := Marshal(target.values[key], WithTypes(valueTypes))
		if err != nil {
			return nil, annotateIndex(err, key)
		}
		out.Set(key, marshalled)
	}
	if h != nil && h.AfterMarshal != nil {
		return h.AfterMarshal(out)
	}
	return out, nil
}

// Equal reports structural equality: same class, same key set, pairwise
// equal values. Key order does not participate.
func (d *Dictionary) Equal(other Model) bool {
	od, ok := other.(*Dictionary)
	if !ok || od.class != d.class || len(od.keys) != len(d.keys) {
		return false
	}
	for key, value := range d.values {
		otherValue, present := od.values[key]
		if !present || !valuesEqual(value, otherValue) {
			return false
		}
	}
	return true
}

// DeepCopy duplicates the instance and every value.
func (d *Dictionary) DeepCopy() Model {
	cp := &Dictionary{
		keys:   append([]string(nil), d.keys...),
		values: make(map[string]any, len(d.values)),
	}
	d.copyStateInto(&cp.modelState)
	for key, value := range d.values {
		cp.values[key] = deepCopyValue(value)
	}
	return cp
}

func (d *Dictionary) String() string {
	text, err := Serialize(d, WithIndent(4))
	if err != nil {
		return fmt.Sprintf("<%s: %v>", d.class.Name(), err)
	}
	return text
}
