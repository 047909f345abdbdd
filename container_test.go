package sobject_test

import (
	"errors"
	"testing"

	sobject "github.com/reoring/sobject"
)

func TestMappingOrderAndOverwrite(t *testing.T) {
	m := sobject.NewMapping()
	m.Set("b", 1)
	m.Set("a", 2)
	m.Set("c", 3)
	m.Set("a", 4) // overwrite keeps the original position

	keys := m.Keys()
	want := []string{"b", "a", "c"}
	for i, key := range want {
		if keys[i] != key {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
	if got, _ := m.Get("a"); got != 4 {
		t.Errorf("a = %v, want the overwritten value", got)
	}

	m.Delete("a")
	if m.Len() != 2 {
		t.Fatalf("len = %d after delete", m.Len())
	}
	if _, ok := m.Get("a"); ok {
		t.Fatal("a must be gone after delete")
	}
}

func TestMappingEqualIgnoresKeyOrder(t *testing.T) {
	a := sobject.NewMapping()
	a.Set("x", int64(1))
	a.Set("y", int64(2))
	b := sobject.NewMapping()
	b.Set("y", int64(2))
	b.Set("x", int64(1))
	if !a.Equal(b) {
		t.Fatal("mappings with the same entries must compare equal regardless of order")
	}
	b.Set("y", int64(3))
	if a.Equal(b) {
		t.Fatal("mappings with different values must not compare equal")
	}
}

func TestPropertiesOrderAndOverwrite(t *testing.T) {
	p := sobject.NewProperties()
	p.Set("b", sobject.NewStringProperty(sobject.PropertySpec{}))
	p.Set("a", sobject.NewStringProperty(sobject.PropertySpec{}))
	p.Set("b", sobject.NewIntegerProperty(sobject.PropertySpec{}))

	keys := p.Keys()
	if keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("keys = %v, overwrite must keep the original position", keys)
	}
	got, _ := p.Get("b")
	if _, ok := got.(*sobject.IntegerProperty); !ok {
		t.Fatalf("b = %T, want the overwritten descriptor", got)
	}
}

func TestTypesImmutability(t *testing.T) {
	frozen := sobject.NewTypes(sobject.KindString)
	if err := frozen.Append(sobject.KindInteger); err == nil {
		t.Fatal("appending to an immutable type set must fail")
	}
	if frozen.Len() != 1 {
		t.Fatalf("len = %d, the failed append must not change the set", frozen.Len())
	}

	mutable := sobject.NewMutableTypes(sobject.KindString)
	if err := mutable.Append(sobject.KindInteger); err != nil {
		t.Fatalf("Append on a mutable set: %v", err)
	}
	if mutable.Len() != 2 {
		t.Fatalf("len = %d, want 2", mutable.Len())
	}
}

func TestTypedPropertySetTypesRejected(t *testing.T) {
	p := sobject.NewStringProperty(sobject.PropertySpec{})
	if err := p.SetTypes(sobject.NewTypes(sobject.KindInteger)); err == nil {
		t.Fatal("a typed property variant must reject replacing its types")
	}
	g := sobject.NewProperty(sobject.PropertySpec{})
	if err := g.SetTypes(sobject.NewTypes(sobject.KindInteger)); err != nil {
		t.Fatalf("SetTypes on a generic property: %v", err)
	}
	// The replacement is held as a mutable collection even when the caller
	// hands in an immutable one.
	if err := g.Types().Append(sobject.KindString); err != nil {
		t.Fatalf("Append on the replaced types: %v", err)
	}
	if g.Types().Len() != 2 {
		t.Fatalf("len = %d, want 2", g.Types().Len())
	}
}

func TestDictionaryValueTypes(t *testing.T) {
	d, err := sobject.NewDictionary(nil, nil,
		sobject.WithValueTypes(sobject.NewTypes(sobject.KindInteger)))
	if err != nil {
		t.Fatalf("NewDictionary: %v", err)
	}
	if err := d.Set("n", int64(1)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	err = d.Set("s", "nope")
	if err == nil {
		t.Fatal("expected an error for a value outside the declared types")
	}
	var ke *sobject.UnmarshalKeyError
	if !errors.As(err, &ke) {
		t.Fatalf("error is %T, want *sobject.UnmarshalKeyError", err)
	}
	if ke.Key != "s" {
		t.Errorf("key = %q, want s", ke.Key)
	}
}

func TestDictionaryKeyOrder(t *testing.T) {
	mapping := sobject.NewMapping()
	mapping.Set("z", int64(1))
	mapping.Set("a", int64(2))
	d, err := sobject.NewDictionary(nil, mapping)
	if err != nil {
		t.Fatalf("NewDictionary: %v", err)
	}
	keys := d.Keys()
	if keys[0] != "z" || keys[1] != "a" {
		t.Fatalf("keys = %v, want insertion order", keys)
	}

	d.Delete("z")
	if d.Len() != 1 {
		t.Fatalf("len = %d after delete", d.Len())
	}
	if _, ok := d.Get("z"); ok {
		t.Fatal("z must be gone after delete")
	}
}

func TestArrayItemTypes(t *testing.T) {
	a, err := sobject.NewArray(nil, nil,
		sobject.WithItemTypes(sobject.NewTypes(sobject.KindString)))
	if err != nil {
		t.Fatalf("NewArray: %v", err)
	}
	if err := a.Append("ok"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := a.Append(int64(1)); err == nil {
		t.Fatal("expected an error for an item outside the declared types")
	}
	if a.Len() != 1 {
		t.Fatalf("len = %d, the failed append must not add an item", a.Len())
	}
}

func TestArraySequenceOperations(t *testing.T) {
	a, err := sobject.NewArray(nil, []any{"b", "c"})
	if err != nil {
		t.Fatalf("NewArray: %v", err)
	}
	if err := a.Insert(0, "a"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := a.SetIndex(2, "z"); err != nil {
		t.Fatalf("SetIndex: %v", err)
	}
	if err := a.SetIndex(3, "w"); err == nil {
		t.Fatal("expected an out-of-range error")
	}

	items := a.Items()
	if items[0] != "a" || items[1] != "b" || items[2] != "z" {
		t.Fatalf("items = %v", items)
	}

	last, err := a.Pop()
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if last != "z" {
		t.Fatalf("popped = %v, want z", last)
	}

	if err := a.Remove("a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := a.Remove("missing"); err == nil {
		t.Fatal("expected an error removing an absent value")
	}

	if err := a.Extend("m", "k"); err != nil {
		t.Fatalf("Extend: %v", err)
	}
	a.Sort(func(x, y any) bool { return x.(string) < y.(string) })
	items = a.Items()
	if items[0] != "b" || items[1] != "k" || items[2] != "m" {
		t.Fatalf("sorted items = %v", items)
	}
	a.Reverse()
	if a.Get(0) != "m" {
		t.Fatalf("reversed head = %v", a.Get(0))
	}
	a.Clear()
	if a.Len() != 0 {
		t.Fatalf("len = %d after clear", a.Len())
	}
}

func TestArrayEqualAndDeepCopy(t *testing.T) {
	a, err := sobject.NewArray(nil, []any{"x", int64(1)})
	if err != nil {
		t.Fatalf("NewArray: %v", err)
	}
	cp := a.DeepCopy().(*sobject.Array)
	if !cp.Equal(a) {
		t.Fatal("a deep copy must be structurally equal")
	}
	if err := cp.Append("y"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if cp.Equal(a) || a.Len() != 2 {
		t.Fatal("mutating the copy leaked into the original")
	}
}

func TestDateParseFormat(t *testing.T) {
	d, err := sobject.ParseDate("2024-06-01")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d != sobject.NewDate(2024, 6, 1) {
		t.Fatalf("d = %v", d)
	}
	if sobject.FormatDate(d) != "2024-06-01" {
		t.Fatalf("formatted = %s", sobject.FormatDate(d))
	}
	if _, err := sobject.ParseDate("June 1, 2024"); err == nil {
		t.Fatal("expected an error for a non-ISO date")
	}

	dt, err := sobject.ParseDateTime("2024-06-01T12:30:00.5Z")
	if err != nil {
		t.Fatalf("ParseDateTime: %v", err)
	}
	if sobject.FormatDateTime(dt) != "2024-06-01T12:30:00.5Z" {
		t.Fatalf("formatted = %s", sobject.FormatDateTime(dt))
	}
}

func TestClassKindMismatch(t *testing.T) {
	arrayClass := sobject.NewArrayClass("Seq", nil)
	if _, err := sobject.NewObject(arrayClass, nil); err == nil {
		t.Fatal("expected an error constructing an object from an array class")
	}
	objectClass := sobject.NewObjectClass("Obj", nil)
	if err := objectClass.SetMeta(&sobject.ArrayMeta{}); err == nil {
		t.Fatal("expected an error assigning array metadata to an object class")
	}
}

func TestClassNewDispatches(t *testing.T) {
	class := newAccountClass(t)
	m, err := class.New(map[string]any{"name": "alice"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := m.(*sobject.Object); !ok {
		t.Fatalf("New = %T, want *sobject.Object", m)
	}
	if !m.Class().IsSubclassOf(sobject.ObjectClass) {
		t.Fatal("every object class must derive from the generic ObjectClass")
	}
}
