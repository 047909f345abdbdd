package codegen

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/reoring/sobject"
)

func mustParse(t *testing.T, src []byte) {
	t.Helper()
	fset := token.NewFileSet()
	if _, err := parser.ParseFile(fset, "generated.go", src, parser.AllErrors); err != nil {
		t.Fatalf("generated source does not parse: %v\n%s", err, src)
	}
}

func TestSourceObject(t *testing.T) {
	meta := sobject.NewObjectMeta()
	meta.Properties.Set("id", sobject.NewStringProperty(sobject.PropertySpec{Required: true}))
	meta.Properties.Set("count", sobject.NewIntegerProperty(sobject.PropertySpec{}))
	meta.Properties.Set("ratio", sobject.NewNumberProperty(sobject.PropertySpec{Name: "the-ratio"}))
	meta.Properties.Set("state", sobject.NewEnumeratedProperty(
		sobject.PropertySpec{Types: sobject.NewTypes(sobject.KindString)},
		"open", "closed"))
	meta.Properties.Set("tags", sobject.NewArrayProperty(
		sobject.PropertySpec{}, sobject.NewTypes(sobject.KindString)))

	src, err := Source("inventory-item", meta, "models")
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	mustParse(t, src)

	text := string(src)
	for _, want := range []string{
		"package models",
		`var InventoryItemClass = sobject.NewObjectClass("inventory-item", nil)`,
		`meta.Properties.Set("id", sobject.NewStringProperty(sobject.PropertySpec{Required: true}))`,
		`meta.Properties.Set("ratio", sobject.NewNumberProperty(sobject.PropertySpec{Name: "the-ratio"}))`,
		`sobject.NewEnumeratedProperty(sobject.PropertySpec{Types: sobject.NewTypes(sobject.KindString)}, "open", "closed")`,
		`sobject.NewArrayProperty(sobject.PropertySpec{}, sobject.NewTypes(sobject.KindString))`,
		"func NewInventoryItem(data any) (*sobject.Object, error)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("generated source is missing %q:\n%s", want, text)
		}
	}
}

func TestSourcePreservesPropertyOrder(t *testing.T) {
	meta := sobject.NewObjectMeta()
	meta.Properties.Set("zebra", sobject.NewStringProperty(sobject.PropertySpec{}))
	meta.Properties.Set("aardvark", sobject.NewStringProperty(sobject.PropertySpec{}))

	src, err := Source("Ordered", meta, "models")
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	text := string(src)
	if strings.Index(text, `"zebra"`) > strings.Index(text, `"aardvark"`) {
		t.Fatalf("properties were reordered:\n%s", text)
	}
}

func TestSourceVersionedProperty(t *testing.T) {
	meta := sobject.NewObjectMeta()
	meta.Properties.Set("legacy", sobject.NewStringProperty(sobject.PropertySpec{
		Versions: []*sobject.Version{sobject.MustVersion("api<2")},
	}))

	src, err := Source("Versioned", meta, "models")
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	mustParse(t, src)
	if !strings.Contains(string(src), `sobject.MustVersion("api<2")`) {
		t.Fatalf("version constraint was not rendered:\n%s", src)
	}
}

func TestSourceArrayAndDictionary(t *testing.T) {
	arraySrc, err := Source("Names", &sobject.ArrayMeta{
		ItemTypes: sobject.NewTypes(sobject.KindString),
	}, "models")
	if err != nil {
		t.Fatalf("Source (array): %v", err)
	}
	mustParse(t, arraySrc)
	if !strings.Contains(string(arraySrc),
		"meta := &sobject.ArrayMeta{ItemTypes: sobject.NewTypes(sobject.KindString)}") {
		t.Errorf("array metadata was not rendered:\n%s", arraySrc)
	}
	if !strings.Contains(string(arraySrc), "func NewNames(data any) (*sobject.Array, error)") {
		t.Errorf("array constructor was not rendered:\n%s", arraySrc)
	}

	dictSrc, err := Source("Labels", &sobject.DictionaryMeta{
		ValueTypes: sobject.NewTypes(sobject.KindString, sobject.Null),
	}, "models")
	if err != nil {
		t.Fatalf("Source (dictionary): %v", err)
	}
	mustParse(t, dictSrc)
	if !strings.Contains(string(dictSrc), "sobject.NewTypes(sobject.KindString, sobject.Null)") {
		t.Errorf("dictionary value types were not rendered:\n%s", dictSrc)
	}
}

func TestSourceClassReference(t *testing.T) {
	item := sobject.NewObjectClass("Item", nil)
	meta := sobject.NewObjectMeta()
	meta.Properties.Set("items", sobject.NewArrayProperty(
		sobject.PropertySpec{}, sobject.NewTypes(item)))

	src, err := Source("Order", meta, "models")
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	if !strings.Contains(string(src), "sobject.NewTypes(ItemClass)") {
		t.Fatalf("class reference was not rendered as an identifier:\n%s", src)
	}
}

func TestSourceRejectsCustomDateFuncs(t *testing.T) {
	prop := sobject.NewDateProperty(sobject.PropertySpec{})
	prop.Parse = sobject.ParseDate
	meta := sobject.NewObjectMeta()
	meta.Properties.Set("when", prop)

	if _, err := Source("Event", meta, "models"); err == nil {
		t.Fatal("expected an error for a non-renderable parse function")
	}
}

func TestIdentifier(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"inventory-item", "InventoryItem"},
		{"api/v2 order", "ApiV2Order"},
		{"Order", "Order"},
	}
	for _, c := range cases {
		got, err := identifier(c.name)
		if err != nil {
			t.Fatalf("identifier(%q): %v", c.name, err)
		}
		if got != c.want {
			t.Errorf("identifier(%q) = %q, want %q", c.name, got, c.want)
		}
	}
	if _, err := identifier("---"); err == nil {
		t.Error("expected an error for a name with no identifier characters")
	}
}
