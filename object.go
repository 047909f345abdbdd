package sobject

import (
	"errors"
	"fmt"
	"io"
	"sort"
)

// Object wraps a metadata-declared set of named attributes. Every assignment
// passes through the unmarshal engine; wire keys with no declared property
// land in an extra bucket, which validation reports and the polymorphic
// resolver uses to rank candidate classes.
type Object struct {
	modelState
	values map[string]any
	extra  *Mapping
}

// NewObject constructs an instance of an object class from raw data: nil for
// an empty instance, a decoded *Mapping or map, serialized text, or another
// *Object to copy from. A nil class means the generic ObjectClass.
func NewObject(class *Class, data any) (*Object, error) {
	if class == nil {
		class = ObjectClass
	}
	if class.Kind() != ObjectContainer {
		return nil, newTypeError("class %q is not an object class", class.Name())
	}
	o := &Object{
		modelState: modelState{class: class},
		values:     map[string]any{},
		extra:      NewMapping(),
	}
	if data == nil {
		return o, nil
	}
	switch d := data.(type) {
	case *Object:
		// The copy carries the source's instance-level metadata and hooks,
		// so properties declared only on the source instance stay declared.
		d.copyStateInto(&o.modelState)
		o.class = class
		if meta, ok := d.Meta().(*ObjectMeta); ok {
			for _, attr := range meta.Properties.Keys() {
				if value, present := d.values[attr]; present {
					if err := o.Set(attr, value); err != nil {
						return nil, err
					}
				}
			}
		}
		for _, key := range d.extra.Keys() {
			value, _ := d.extra.Get(key)
			if err := o.SetKey(key, value); err != nil {
				return nil, err
			}
		}
	case *Mapping:
		for _, key := range d.Keys() {
			value, _ := d.Get(key)
			if err := o.SetKey(key, nullForNil(value)); err != nil {
				return nil, err
			}
		}
	case map[string]any:
		keys := make([]string, 0, len(d))
		for key := range d {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if err := o.SetKey(key, nullForNil(d[key])); err != nil {
				return nil, err
			}
		}
	case string:
		return newObjectFromText(class, []byte(d))
	case []byte:
		return newObjectFromText(class, d)
	case io.Reader:
		text, err := io.ReadAll(d)
		if err != nil {
			return nil, err
		}
		return newObjectFromText(class, text)
	default:
		return nil, newTypeError(
			"cannot construct %s from %s", class.Name(), represent(data))
	}
	return o, nil
}

// nullForNil converts a decoded wire null into the Null sentinel so it is
// stored as a value. A nil handed to Set directly still clears the attribute.
func nullForNil(v any) any {
	if v == nil {
		return Null
	}
	return v
}

func newObjectFromText(class *Class, text []byte) (*Object, error) {
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
	return NewObject(class, mapping)
}

func (o *Object) objectHooks() *ObjectHooks {
	h, _ := o.Hooks().(*ObjectHooks)
	return h
}

func (o *Object) objectMeta() *ObjectMeta {
	m, _ := o.Meta().(*ObjectMeta)
	return m
}

// Set assigns a value to the attribute name. Declared attributes are
// unmarshalled against their property's types first; a nil value clears the
// attribute; an undeclared name is stored in the extra bucket.
func (o *Object) Set(name string, value any) error {
	h := o.objectHooks()
	if h != nil && h.BeforeSetattr != nil {
		var err error
		name, value, err = h.BeforeSetattr(o, name, value)
		if err != nil {
			return err
		}
	}
	if err := o.store(name, value); err != nil {
		return err
	}
	if h != nil && h.AfterSetattr != nil {
		return h.AfterSetattr(o, name, value)
	}
	return nil
}

func (o *Object) store(name string, value any) error {
	meta := o.objectMeta()
	if prop, ok := meta.propertyByAttribute(name); ok {
		if value == nil {
			delete(o.values, name)
			return nil
		}
		unmarshalled, err := unmarshalProperty(prop, value)
		if err != nil {
			return annotateParameter(err, fmt.Sprintf("%s.%s", o.class.Name(), name))
		}
		o.values[name] = unmarshalled
		return nil
	}
	if value == nil {
		o.extra.Delete(name)
		return nil
	}
	unmarshalled, err := Unmarshal(value)
	if err != nil {
		return annotateParameter(err, fmt.Sprintf("%s.%s", o.class.Name(), name))
	}
	o.extra.Set(name, unmarshalled)
	return nil
}

// SetKey assigns a value addressed by wire key, resolving the key to a
// declared property by its wire name.
func (o *Object) SetKey(key string, value any) error {
	h := o.objectHooks()
	if h != nil && h.BeforeSetitem != nil {
		var err error
		key, value, err = h.BeforeSetitem(o, key, value)
		if err != nil {
			return err
		}
	}
	attr, ok := o.objectMeta().attributeByKey(key)
	if !ok {
		attr = key
	}
	if err := o.store(attr, value); err != nil {
		return err
	}
	if h != nil && h.AfterSetitem != nil {
		return h.AfterSetitem(o, key, value)
	}
	return nil
}

// Get returns the value of the attribute name, nil when absent. Undeclared
// names are looked up in the extra bucket.
func (o *Object) Get(name string) any {
	if value, present := o.values[name]; present {
		return value
	}
	value, _ := o.extra.Get(name)
	return value
}

// GetKey returns the value addressed by wire key.
func (o *Object) GetKey(key string) any {
	if attr, ok := o.objectMeta().attributeByKey(key); ok {
		return o.values[attr]
	}
	value, _ := o.extra.Get(key)
	return value
}

// Extra returns the bucket of values assigned under names with no declared
// property.
func (o *Object) Extra() *Mapping { return o.extra }

func (o *Object) extraCount() int { return o.extra.Len() }

func (o *Object) marshalModel() (any, error) {
	target := o
	h := commonHooksOf(o)
	if h != nil && h.BeforeMarshal != nil {
		substituted, err := h.BeforeMarshal(o)
		if err != nil {
			return nil, err
		}
		if so, ok := substituted.(*Object); ok {
			target = so
		}
	}
	out := NewMapping()
	if meta := target.objectMeta(); meta != nil {
		for _, attr := range meta.Properties.Keys() {
			prop, _ := meta.Properties.Get(attr)
			value, present := target.values[attr]
			if !present || value == nil {
				continue
			}
			marshalled, err := marshalProperty(prop, value)
			if err != nil {
				return nil, annotateParameter(err, fmt.Sprintf("%s.%s", target.class.Name(), attr))
			}
			out.Set(effectiveName(prop, attr), marshalled)
		}
	}
	if h != nil && h.AfterMarshal != nil {
		return h.AfterMarshal(out)
	}
	return out, nil
}

// Equal reports structural equality: same class, same declared values, same
// extras.
func (o *Object) Equal(other Model) bool {
	oo, ok := other.(*Object)
	if !ok || oo.class != o.class {
		return false
	}
	if len(o.values) != len(oo.values) {
		return false
	}
	for name, value := range o.values {
		otherValue, present := oo.values[name]
		if !present || !valuesEqual(value, otherValue) {
			return false
		}
	}
	return o.extra.Equal(oo.extra)
}

// DeepCopy duplicates the instance, its values, and any instance-level
// metadata or hooks.
func (o *Object) DeepCopy() Model {
	cp := &Object{
		values: make(map[string]any, len(o.values)),
		extra:  o.extra.DeepCopy(),
	}
	o.copyStateInto(&cp.modelState)
	for name, value := range o.values {
		cp.values[name] = deepCopyValue(value)
	}
	return cp
}

func (o *Object) String() string {
	text, err := Serialize(o, WithIndent(4))
	if err != nil {
		return fmt.Sprintf("<%s: %v>", o.class.Name(), err)
	}
	return text
}

// propertyByAttribute looks up a declared property by attribute name.
func (m *ObjectMeta) propertyByAttribute(name string) (PropertyDescriptor, bool) {
	if m == nil {
		return nil, false
	}
	return m.Properties.Get(name)
}

// attributeByKey resolves a wire key to the attribute name it is declared
// under.
func (m *ObjectMeta) attributeByKey(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	for _, attr := range m.Properties.Keys() {
		prop, _ := m.Properties.Get(attr)
		if effectiveName(prop, attr) == key {
			return attr, true
		}
	}
	return "", false
}

func annotateParameter(err error, parameter string) error {
	var ute *UnmarshalTypeError
	if errors.As(err, &ute) {
		if ute.Parameter == "" {
			ute.Parameter = parameter
		}
		return err
	}
	var uve *UnmarshalValueError
	if errors.As(err, &uve) {
		if uve.Parameter == "" {
			uve.Parameter = parameter
		}
		return err
	}
	return err
}

func annotateIndex(err error, index any) error {
	var ute *UnmarshalTypeError
	if errors.As(err, &ute) {
		if ute.Index == nil {
			ute.Index = index
		}
		return err
	}
	var uve *UnmarshalValueError
	if errors.As(err, &uve) {
		if uve.Index == nil {
			uve.Index = index
		}
		return err
	}
	return err
}
