package sobject

import (
	"fmt"
	"io"
	"sort"
)

// Array wraps a mutable ordered sequence. Append, SetIndex, Insert and
// Extend route each value through the unmarshal engine against the declared
// item types; Sort, Reverse, Remove, Pop and Clear operate on already
// validated values directly.
type Array struct {
	modelState
	items []any
}

// NewArray constructs an instance of an array class from raw data: nil, a
// decoded []any, serialized text, or another *Array. A nil class means the
// generic ArrayClass. WithItemTypes attaches instance-level item types.
func NewArray(class *Class, data any, opts ...Option) (*Array, error) {
	if class == nil {
		class = ArrayClass
	}
	if class.Kind() != ArrayContainer {
		return nil, newTypeError("class %q is not an array class", class.Name())
	}
	a := &Array{modelState: modelState{class: class}}
	cfg := applyOptions(opts)
	if cfg.itemTypes != nil {
		a.meta = &ArrayMeta{ItemTypes: cfg.itemTypes}
	}
	if data == nil {
		return a, nil
	}
	switch d := data.(type) {
	case *Array:
		if err := a.Extend(d.items...); err != nil {
			return nil, err
		}
	case []any:
		if err := a.Extend(d...); err != nil {
			return nil, err
		}
	case string:
		return newArrayFromText(class, []byte(d), a.meta)
	case []byte:
		return newArrayFromText(class, d, a.meta)
	case io.Reader:
		text, err := io.ReadAll(d)
		if err != nil {
			return nil, err
		}
		return newArrayFromText(class, text, a.meta)
	default:
		return nil, newTypeError(
			"cannot construct %s from %s", class.Name(), represent(data))
	}
	return a, nil
}

func newArrayFromText(class *Class, text []byte, meta Meta) (*Array, error) {
	tree, _, err := DetectFormat(text)
	if err != nil {
		return nil, err
	}
	items, ok := tree.([]any)
	if !ok {
		return nil, newTypeError(
			"cannot construct %s from non-sequence data: %s",
			class.Name(), represent(tree))
	}
	a := &Array{modelState: modelState{class: class, meta: meta}}
	if err := a.Extend(items...); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Array) arrayHooks() *ArrayHooks {
	h, _ := a.Hooks().(*ArrayHooks)
	return h
}

// ItemTypes returns the effective item types, nil when unconstrained.
func (a *Array) ItemTypes() *Types {
	if meta, ok := a.Meta().(*ArrayMeta); ok {
		return meta.ItemTypes
	}
	return nil
}

func (a *Array) unmarshalItem(value any, index int) (any, error) {
	unmarshalled, err := Unmarshal(value, WithTypes(a.ItemTypes()))
	if err != nil {
		return nil, annotateIndex(err, index)
	}
	return unmarshalled, nil
}

// Append adds a value to the end of the sequence.
func (a *Array) Append(value any) error {
	h := a.arrayHooks()
	if h != nil && h.BeforeAppend != nil {
		var err error
		value, err = h.BeforeAppend(a, value)
		if err != nil {
			return err
		}
	}
	unmarshalled, err := a.unmarshalItem(value, len(a.items))
	if err != nil {
		return err
	}
	a.items = append(a.items, unmarshalled)
	if h != nil && h.AfterAppend != nil {
		return h.AfterAppend(a, unmarshalled)
	}
	return nil
}

// Extend appends each value in order.
func (a *Array) Extend(values ...any) error {
	for _, value := range values {
		if err := a.Append(value); err != nil {
			return err
		}
	}
	return nil
}

// SetIndex replaces the value at an existing position.
func (a *Array) SetIndex(index int, value any) error {
	h := a.arrayHooks()
	if h != nil && h.BeforeSetitem != nil {
		var err error
		index, value, err = h.BeforeSetitem(a, index, value)
		if err != nil {
			return err
		}
	}
	if index < 0 || index >= len(a.items) {
		return fmt.Errorf("sobject: index %d out of range [0, %d)", index, len(a.items))
	}
	unmarshalled, err := a.unmarshalItem(value, index)
	if err != nil {
		return err
	}
	a.items[index] = unmarshalled
	if h != nil && h.AfterSetitem != nil {
		return h.AfterSetitem(a, index, unmarshalled)
	}
	return nil
}

// Insert places a value at the given position, shifting later items right.
func (a *Array) Insert(index int, value any) error {
	if index < 0 || index > len(a.items) {
		return fmt.Errorf("sobject: index %d out of range [0, %d]", index, len(a.items))
	}
	unmarshalled, err := a.unmarshalItem(value, index)
	if err != nil {
		return err
	}
	a.items = append(a.items, nil)
	copy(a.items[index+1:], a.items[index:])
	a.items[index] = unmarshalled
	return nil
}

// Get returns the value at position index.
func (a *Array) Get(index int) any { return a.items[index] }

// Len returns the number of items.
func (a *Array) Len() int { return len(a.items) }

// Items returns a copy of the backing sequence.
func (a *Array) Items() []any { return append([]any(nil), a.items...) }

// Pop removes and returns the last item.
func (a *Array) Pop() (any, error) {
	if len(a.items) == 0 {
		return nil, fmt.Errorf("sobject: pop from empty array")
	}
	last := a.items[len(a.items)-1]
	a.items = a.items[:len(a.items)-1]
	return last, nil
}

// Remove deletes the first item structurally equal to value.
func (a *Array) Remove(value any) error {
	for i, item := range a.items {
		if valuesEqual(item, value) {
			a.items = append(a.items[:i], a.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("sobject: value not found: %s", represent(value))
}

// Reverse reverses the sequence in place.
func (a *Array) Reverse() {
	for i, j := 0, len(a.items)-1; i < j; i, j = i+1, j-1 {
		a.items[i], a.items[j] = a.items[j], a.items[i]
	}
}

// Sort orders the sequence in place using the given comparison.
func (a *Array) Sort(less func(a, b any) bool) {
	sort.SliceStable(a.items, func(i, j int) bool {
		return less(a.items[i], a.items[j])
	})
}

// Clear removes every item.
func (a *Array) Clear() { a.items = nil }

func (a *Array) marshalModel() (any, error) {
	target := a
	h := commonHooksOf(a)
	if h != nil && h.BeforeMarshal != nil {
		substituted, err := h.BeforeMarshal(a)
		if err != nil {
			return nil, err
		}
		if sa, ok := substituted.(*Array); ok {
			target = sa
		}
	}
	itemTypes := target.ItemTypes()
	out := make([]any, len(target.items))
	for i, item := range target.items {
		marshalled, err := Marshal(item, WithTypes(itemTypes))
		if err != nil {
			return nil, annotateIndex(err, i)
		}
		out[i] = marshalled
	}
	if h != nil && h.AfterMarshal != nil {
		return h.AfterMarshal(out)
	}
	return out, nil
}

// Equal reports structural equality: same class, same length, pairwise equal
// items.
func (a *Array) Equal(other Model) bool {
	oa, ok := other.(*Array)
	if !ok || oa.class != a.class || len(oa.items) != len(a.items) {
		return false
	}
	for i, item := range a.items {
		if !valuesEqual(item, oa.items[i]) {
			return false
		}
	}
	return true
}

// DeepCopy duplicates the instance and every item.
func (a *Array) DeepCopy() Model {
	cp := &Array{items: make([]any, len(a.items))}
	a.copyStateInto(&cp.modelState)
	for i, item := range a.items {
		cp.items[i] = deepCopyValue(item)
	}
	return cp
}

func (a *Array) String() string {
	text, err := Serialize(a, WithIndent(4))
	if err != nil {
		return fmt.Sprintf("<%s: %v>", a.class.Name(), err)
	}
	return text
}
