package sobject_test

import (
	"testing"

	sobject "github.com/reoring/sobject"
)

func TestMarshalRoundTrip(t *testing.T) {
	class := newAccountClass(t)
	o, err := sobject.NewObject(class, map[string]any{
		"name":         "alice",
		"age":          int64(7),
		"account-kind": "personal",
	})
	if err != nil {
		t.Fatalf("NewObject: %v", err)
	}

	tree, err := sobject.Marshal(o)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	mapping, ok := tree.(*sobject.Mapping)
	if !ok {
		t.Fatalf("Marshal = %T, want *sobject.Mapping", tree)
	}
	keys := mapping.Keys()
	want := []string{"name", "age", "account-kind"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i, key := range want {
		if keys[i] != key {
			t.Fatalf("keys = %v, want declaration order %v", keys, want)
		}
	}

	back, err := sobject.Unmarshal(tree, sobject.WithTypes(sobject.NewTypes(class)))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.(*sobject.Object).Equal(o) {
		t.Fatal("unmarshal(marshal(o)) is not structurally equal to o")
	}
}

func TestMarshalNullVersusAbsent(t *testing.T) {
	class := sobject.NewObjectClass("Profile", nil)
	meta := sobject.NewObjectMeta()
	meta.Properties.Set("name", sobject.NewStringProperty(sobject.PropertySpec{}))
	meta.Properties.Set("nickname", sobject.NewProperty(sobject.PropertySpec{
		Types: sobject.NewTypes(sobject.Null, sobject.KindString),
	}))
	if err := class.SetMeta(meta); err != nil {
		t.Fatalf("SetMeta: %v", err)
	}

	o, err := sobject.NewObject(class, nil)
	if err != nil {
		t.Fatalf("NewObject: %v", err)
	}
	if err := o.Set("name", "alice"); err != nil {
		t.Fatalf("Set name: %v", err)
	}
	if err := o.Set("nickname", sobject.Null); err != nil {
		t.Fatalf("Set nickname to Null: %v", err)
	}

	tree, err := sobject.Marshal(o)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	mapping := tree.(*sobject.Mapping)
	value, present := mapping.Get("nickname")
	if !present {
		t.Fatal("a Null-valued property must appear in the marshalled tree")
	}
	if value != nil {
		t.Fatalf("nickname = %v, want nil (an explicit null)", value)
	}

	text, err := sobject.Serialize(o)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if text != `{"name":"alice","nickname":null}` {
		t.Fatalf("serialized = %s", text)
	}
}

func TestMarshalAbsentPropertyOmitted(t *testing.T) {
	class := newAccountClass(t)
	o, err := sobject.NewObject(class, map[string]any{"name": "alice"})
	if err != nil {
		t.Fatalf("NewObject: %v", err)
	}
	tree, err := sobject.Marshal(o)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if _, present := tree.(*sobject.Mapping).Get("age"); present {
		t.Fatal("an absent property must be omitted from the marshalled tree")
	}
}

func TestMarshalBytesBase64RoundTrip(t *testing.T) {
	class := sobject.NewObjectClass("Blob2", nil)
	meta := sobject.NewObjectMeta()
	meta.Properties.Set("data", sobject.NewBytesProperty(sobject.PropertySpec{}))
	if err := class.SetMeta(meta); err != nil {
		t.Fatalf("SetMeta: %v", err)
	}
	o, err := sobject.NewObject(class, map[string]any{"data": []byte{0x00, 0xFF}})
	if err != nil {
		t.Fatalf("NewObject: %v", err)
	}
	tree, err := sobject.Marshal(o)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	encoded, _ := tree.(*sobject.Mapping).Get("data")
	if encoded != "AP8=" {
		t.Fatalf("data = %v, want AP8=", encoded)
	}

	back, err := sobject.NewObject(class, map[string]any{"data": encoded})
	if err != nil {
		t.Fatalf("NewObject from marshalled tree: %v", err)
	}
	if !back.Equal(o) {
		t.Fatal("bytes did not survive the round trip")
	}
}

func TestMarshalDateFormatting(t *testing.T) {
	tree, err := sobject.Marshal(map[string]any{
		"day": sobject.NewDate(2024, 6, 1),
	})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	day, _ := tree.(*sobject.Mapping).Get("day")
	if day != "2024-06-01" {
		t.Fatalf("day = %v, want 2024-06-01", day)
	}
}

func TestMarshalPlainMapKeysSorted(t *testing.T) {
	tree, err := sobject.Marshal(map[string]any{
		"zebra":    int64(1),
		"aardvark": int64(2),
		"mongoose": int64(3),
	})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	keys := tree.(*sobject.Mapping).Keys()
	want := []string{"aardvark", "mongoose", "zebra"}
	for i, key := range want {
		if keys[i] != key {
			t.Fatalf("keys = %v, want sorted %v", keys, want)
		}
	}
}

func TestMarshalNullBecomesNil(t *testing.T) {
	got, err := sobject.Marshal(sobject.Null)
	if err != nil {
		t.Fatalf("Marshal(Null): %v", err)
	}
	if got != nil {
		t.Fatalf("Marshal(Null) = %v, want nil", got)
	}
}
