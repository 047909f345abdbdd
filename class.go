package sobject

import "fmt"

// ContainerKind distinguishes the three model container shapes.
type ContainerKind int

const (
	ObjectContainer ContainerKind = iota + 1
	ArrayContainer
	DictionaryContainer
)

func (k ContainerKind) String() string {
	switch k {
	case ObjectContainer:
		return "object"
	case ArrayContainer:
		return "array"
	case DictionaryContainer:
		return "dictionary"
	}
	return fmt.Sprintf("ContainerKind(%d)", int(k))
}

// Class is a runtime model-class descriptor. Classes form single-inheritance
// chains; metadata and hooks are looked up along the chain and copied on
// first write, so a subclass never mutates an ancestor's declarations.
type Class struct {
	name  string
	kind  ContainerKind
	base  *Class
	meta  Meta
	hooks Hooks
}

// The generic root classes. Instances constructed without an explicit class
// belong to one of these.
var (
	ObjectClass     = &Class{name: "sobject.Object", kind: ObjectContainer}
	ArrayClass      = &Class{name: "sobject.Array", kind: ArrayContainer}
	DictionaryClass = &Class{name: "sobject.Dictionary", kind: DictionaryContainer}
)

func newClass(name string, kind ContainerKind, base, root *Class) *Class {
	if base == nil {
		base = root
	}
	if base.kind != kind {
		panic(fmt.Sprintf(
			"sobject: %s class %q cannot extend %s class %q",
			kind, name, base.kind, base.name))
	}
	return &Class{name: name, kind: kind, base: base}
}

// NewObjectClass declares an object class. A nil base extends the generic
// ObjectClass.
func NewObjectClass(name string, base *Class) *Class {
	return newClass(name, ObjectContainer, base, ObjectClass)
}

// NewArrayClass declares an array class. A nil base extends the generic
// ArrayClass.
func NewArrayClass(name string, base *Class) *Class {
	return newClass(name, ArrayContainer, base, ArrayClass)
}

// NewDictionaryClass declares a dictionary class. A nil base extends the
// generic DictionaryClass.
func NewDictionaryClass(name string, base *Class) *Class {
	return newClass(name, DictionaryContainer, base, DictionaryClass)
}

func (c *Class) isTypeDescriptor() {}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Kind returns the container shape of the class.
func (c *Class) Kind() ContainerKind { return c.kind }

// Base returns the direct base class, nil for the generic roots.
func (c *Class) Base() *Class { return c.base }

// IsSubclassOf reports whether c is other or derives from it.
func (c *Class) IsSubclassOf(other *Class) bool {
	for cl := c; cl != nil; cl = cl.base {
		if cl == other {
			return true
		}
	}
	return false
}

// Meta returns the effective metadata: the class's own, or the nearest
// ancestor's. The result may be shared and must not be mutated; use
// WritableMeta for that.
func (c *Class) Meta() Meta {
	for cl := c; cl != nil; cl = cl.base {
		if cl.meta != nil {
			return cl.meta
		}
	}
	return nil
}

// WritableMeta returns metadata that is safe to mutate directly. Metadata
// inherited from or shared by reference with an ancestor is deep-copied onto
// c first; a class with no metadata anywhere gets a fresh empty instance.
func (c *Class) WritableMeta() Meta {
	m := c.Meta()
	if m == nil {
		m = newEmptyMeta(c.kind)
		c.meta = m
		return m
	}
	if c.meta == nil || (c.base != nil && c.base.Meta() == m) {
		cp := m.DeepCopy()
		c.meta = cp
		return cp
	}
	return m
}

// SetMeta replaces the class's own metadata wholesale. The metadata kind must
// match the class kind.
func (c *Class) SetMeta(meta Meta) error {
	if err := checkMetaKind(meta, c.kind); err != nil {
		return err
	}
	c.meta = meta
	return nil
}

// Hooks returns the effective hook bundle, walking the base chain. The
// result may be shared; use WritableHooks before mutating.
func (c *Class) Hooks() Hooks {
	for cl := c; cl != nil; cl = cl.base {
		if cl.hooks != nil {
			return cl.hooks
		}
	}
	return nil
}

// WritableHooks returns a hook bundle safe to mutate, following the same
// copy-on-write discipline as WritableMeta.
func (c *Class) WritableHooks() Hooks {
	h := c.Hooks()
	if h == nil {
		h = newEmptyHooks(c.kind)
		c.hooks = h
		return h
	}
	if c.hooks == nil || (c.base != nil && c.base.Hooks() == h) {
		cp := h.DeepCopy()
		c.hooks = cp
		return cp
	}
	return h
}

// SetHooks replaces the class's own hook bundle wholesale.
func (c *Class) SetHooks(hooks Hooks) error {
	if err := checkHooksKind(hooks, c.kind); err != nil {
		return err
	}
	c.hooks = hooks
	return nil
}

// New constructs an instance of the class from raw data: nil, decoded wire
// trees, serialized text, or another model instance.
func (c *Class) New(data any, opts ...Option) (Model, error) {
	switch c.kind {
	case ObjectContainer:
		return NewObject(c, data)
	case ArrayContainer:
		return NewArray(c, data, opts...)
	case DictionaryContainer:
		return NewDictionary(c, data, opts...)
	}
	return nil, fmt.Errorf("sobject: class %q has unknown kind", c.name)
}

func (c *Class) String() string { return c.name }
