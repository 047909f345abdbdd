package sobject

import (
	"strconv"
	"strings"
)

// Meta is the metadata attached to a model class or instance: declared
// properties for objects, item types for arrays, value types for
// dictionaries. A single Meta may be shared by reference across a class and
// its subclasses until one of them mutates it; the writable accessors on
// Class and the containers deep-copy before handing out a mutable reference.
type Meta interface {
	// DeepCopy duplicates the metadata, cloning contained descriptors.
	DeepCopy() Meta
	containerKind() ContainerKind
}

// ObjectMeta declares an object's named properties.
type ObjectMeta struct {
	Properties *Properties
}

// NewObjectMeta returns an ObjectMeta with an empty property mapping.
func NewObjectMeta() *ObjectMeta {
	return &ObjectMeta{Properties: NewProperties()}
}

func (m *ObjectMeta) containerKind() ContainerKind { return ObjectContainer }

func (m *ObjectMeta) DeepCopy() Meta {
	return &ObjectMeta{Properties: m.Properties.DeepCopy()}
}

// ArrayMeta declares the admissible item types of an array.
type ArrayMeta struct {
	ItemTypes *Types
}

func (m *ArrayMeta) containerKind() ContainerKind { return ArrayContainer }

func (m *ArrayMeta) DeepCopy() Meta {
	return &ArrayMeta{ItemTypes: m.ItemTypes.DeepCopy()}
}

// DictionaryMeta declares the admissible value types of a dictionary.
type DictionaryMeta struct {
	ValueTypes *Types
}

func (m *DictionaryMeta) containerKind() ContainerKind { return DictionaryContainer }

func (m *DictionaryMeta) DeepCopy() Meta {
	return &DictionaryMeta{ValueTypes: m.ValueTypes.DeepCopy()}
}

func newEmptyMeta(kind ContainerKind) Meta {
	switch kind {
	case ObjectContainer:
		return NewObjectMeta()
	case ArrayContainer:
		return &ArrayMeta{}
	case DictionaryContainer:
		return &DictionaryMeta{}
	}
	return nil
}

func checkMetaKind(meta Meta, kind ContainerKind) error {
	if meta == nil {
		return nil
	}
	if meta.containerKind() != kind {
		return newTypeError(
			"metadata of kind %s cannot be assigned to a %s class",
			meta.containerKind(), kind)
	}
	return nil
}

// CopyMetaTo deep-copies the source class's effective metadata and hooks onto
// the target class. Container kinds must match.
func CopyMetaTo(source, target *Class) error {
	if source.Kind() != target.Kind() {
		return newTypeError(
			"cannot copy metadata between container kinds %s and %s",
			source.Kind(), target.Kind())
	}
	if m := source.Meta(); m != nil {
		if err := target.SetMeta(m.DeepCopy()); err != nil {
			return err
		}
	}
	if h := source.Hooks(); h != nil {
		if err := target.SetHooks(h.DeepCopy()); err != nil {
			return err
		}
	}
	return nil
}

// escapePointerSegment escapes a JSON Pointer reference token.
func escapePointerSegment(segment string) string {
	segment = strings.ReplaceAll(segment, "~", "~0")
	return strings.ReplaceAll(segment, "/", "~1")
}

// SetPointer stamps a JSON Pointer onto the model and, recursively, onto
// every nested model reachable through its values.
func SetPointer(m Model, pointer string) {
	m.setPointer(pointer)
	switch c := m.(type) {
	case *Object:
		meta, _ := c.Meta().(*ObjectMeta)
		if meta == nil {
			return
		}
		for _, attr := range meta.Properties.Keys() {
			prop, _ := meta.Properties.Get(attr)
			if nested, ok := c.values[attr].(Model); ok {
				SetPointer(nested, pointer+"/"+escapePointerSegment(effectiveName(prop, attr)))
			}
		}
	case *Array:
		for i, item := range c.items {
			if nested, ok := item.(Model); ok {
				SetPointer(nested, pointer+"/"+strconv.Itoa(i))
			}
		}
	case *Dictionary:
		for _, key := range c.keys {
			if nested, ok := c.values[key].(Model); ok {
				SetPointer(nested, pointer+"/"+escapePointerSegment(key))
			}
		}
	}
}

// SetURL stamps a source URL onto the model and every nested model.
func SetURL(m Model, url string) {
	m.setURL(url)
	switch c := m.(type) {
	case *Object:
		for _, value := range c.values {
			if nested, ok := value.(Model); ok {
				SetURL(nested, url)
			}
		}
	case *Array:
		for _, item := range c.items {
			if nested, ok := item.(Model); ok {
				SetURL(nested, url)
			}
		}
	case *Dictionary:
		for _, value := range c.values {
			if nested, ok := value.(Model); ok {
				SetURL(nested, url)
			}
		}
	}
}
