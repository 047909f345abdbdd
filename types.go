package sobject

import "fmt"

// Type is a single type descriptor held by a Types collection: a primitive
// Kind, a property descriptor, a model *Class, or the Null sentinel. The set
// is closed; every legal descriptor is defined in this package, so element
// validity is enforced at compile time.
type Type interface {
	isTypeDescriptor()
}

// Kind tags the marshallable primitive types.
type Kind int

const (
	KindString Kind = iota + 1
	KindInteger
	KindNumber
	KindBoolean
	KindBytes
	KindDate
	KindDateTime
)

func (k Kind) isTypeDescriptor() {}

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindBytes:
		return "bytes"
	case KindDate:
		return "date"
	case KindDateTime:
		return "datetime"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// conformsToKind reports whether a wire value is an instance of the primitive
// type k names. Integers do not conform to KindNumber; a number property
// declares both kinds instead.
func conformsToKind(value any, k Kind) bool {
	switch k {
	case KindString:
		_, ok := value.(string)
		return ok
	case KindInteger:
		switch value.(type) {
		case int, int64:
			return true
		}
		return false
	case KindNumber:
		_, ok := value.(float64)
		return ok
	case KindBoolean:
		_, ok := value.(bool)
		return ok
	case KindBytes:
		_, ok := value.([]byte)
		return ok
	case KindDate:
		_, ok := value.(Date)
		return ok
	case KindDateTime:
		_, ok := value.(DateTime)
		return ok
	}
	return false
}

// Types is an ordered sequence of type descriptors. Order is semantically
// meaningful: the unmarshal resolver tries candidates first to last.
// Duplicates are permitted. The immutable variant is shared safely across
// every instance of a class; the mutable variant accepts Append.
type Types struct {
	items   []Type
	mutable bool
}

// NewTypes returns an immutable Types holding the given descriptors.
func NewTypes(items ...Type) *Types {
	return &Types{items: append([]Type(nil), items...)}
}

// NewMutableTypes returns an appendable Types holding the given descriptors.
func NewMutableTypes(items ...Type) *Types {
	return &Types{items: append([]Type(nil), items...), mutable: true}
}

// Mutable reports whether Append is permitted.
func (t *Types) Mutable() bool { return t.mutable }

// Len returns the number of descriptors.
func (t *Types) Len() int {
	if t == nil {
		return 0
	}
	return len(t.items)
}

// Get returns the descriptor at position i.
func (t *Types) Get(i int) Type { return t.items[i] }

// Items returns a copy of the descriptor sequence.
func (t *Types) Items() []Type {
	if t == nil {
		return nil
	}
	return append([]Type(nil), t.items...)
}

// Append adds descriptors to a mutable collection. Appending to an immutable
// collection fails.
func (t *Types) Append(items ...Type) error {
	if !t.mutable {
		return newTypeError("sobject.Types is immutable; use NewMutableTypes for an appendable collection")
	}
	t.items = append(t.items, items...)
	return nil
}

// Contains reports whether the collection holds the descriptor. Kinds,
// classes and the Null sentinel compare by identity; property descriptors by
// pointer.
func (t *Types) Contains(item Type) bool {
	if t == nil {
		return false
	}
	for _, existing := range t.items {
		if existing == item {
			return true
		}
	}
	return false
}

// Equal reports structural equality: same descriptors in the same order.
func (t *Types) Equal(other *Types) bool {
	if t.Len() != other.Len() {
		return false
	}
	for i, item := range t.items {
		if other.items[i] != item {
			return false
		}
	}
	return true
}

// DeepCopy duplicates the collection. Property descriptors are cloned;
// kinds, classes and sentinels are shared since they carry no per-collection
// state.
func (t *Types) DeepCopy() *Types {
	if t == nil {
		return nil
	}
	items := make([]Type, len(t.items))
	for i, item := range t.items {
		if pd, ok := item.(PropertyDescriptor); ok {
			items[i] = pd.cloneProperty()
		} else {
			items[i] = item
		}
	}
	return &Types{items: items, mutable: t.mutable}
}
