// Package codegen renders class metadata back into Go source. Given a class
// name and its metadata, Source produces a compilable file declaring the
// class variable, an init function that populates the metadata, and a typed
// constructor, so models assembled at runtime (for example from a parsed API
// description) can be frozen into a generated package.
package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"github.com/reoring/sobject"
)

// Config holds configuration for source generation.
type Config struct {
	// PackageName is the package clause of the generated file.
	PackageName string
	// ModulePath is the import path of the sobject module. It is only
	// needed when generating into a vendored or forked copy.
	ModulePath string
}

// DefaultConfig returns the configuration used by Source.
func DefaultConfig() Config {
	return Config{
		PackageName: "models",
		ModulePath:  "github.com/reoring/sobject",
	}
}

// Source generates a Go source file declaring a model class named name with
// the given metadata, in package pkg. The generated file contains a
// `<Name>Class` variable, an init function populating its metadata, and a
// `New<Name>` constructor. Classes referenced inside the metadata are
// rendered as `<Name>Class` identifiers and must be generated into the same
// package.
func Source(name string, meta sobject.Meta, pkg string) ([]byte, error) {
	cfg := DefaultConfig()
	if pkg != "" {
		cfg.PackageName = pkg
	}
	g := &generator{config: cfg}
	return g.generate(name, meta)
}

type generator struct {
	config Config
}

// templateData holds everything the class template needs.
type templateData struct {
	PackageName string
	ModulePath  string
	ClassName   string
	VarName     string
	Constructor string
	Container   string
	MetaStmts   []string
}

func (g *generator) generate(name string, meta sobject.Meta) ([]byte, error) {
	varName, err := identifier(name)
	if err != nil {
		return nil, err
	}

	data := &templateData{
		PackageName: g.config.PackageName,
		ModulePath:  g.config.ModulePath,
		ClassName:   name,
		VarName:     varName,
	}

	switch m := meta.(type) {
	case *sobject.ObjectMeta:
		data.Constructor = "NewObjectClass"
		data.Container = "Object"
		data.MetaStmts, err = g.objectMetaStmts(m)
	case *sobject.ArrayMeta:
		data.Constructor = "NewArrayClass"
		data.Container = "Array"
		data.MetaStmts, err = g.arrayMetaStmts(m)
	case *sobject.DictionaryMeta:
		data.Constructor = "NewDictionaryClass"
		data.Container = "Dictionary"
		data.MetaStmts, err = g.dictionaryMetaStmts(m)
	default:
		return nil, fmt.Errorf("codegen: unsupported metadata %T", meta)
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := classTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		// Return the unformatted source so the caller can inspect it.
		return buf.Bytes(), fmt.Errorf("formatting code: %w", err)
	}
	return formatted, nil
}

// objectMetaStmts renders the statements of the init function for an object
// class: one Properties.Set call per declared property, in declaration order.
func (g *generator) objectMetaStmts(m *sobject.ObjectMeta) ([]string, error) {
	stmts := []string{"meta := sobject.NewObjectMeta()"}
	if m.Properties != nil {
		for _, attr := range m.Properties.Keys() {
			prop, _ := m.Properties.Get(attr)
			expr, err := g.propertyExpr(prop)
			if err != nil {
				return nil, fmt.Errorf("property %q: %w", attr, err)
			}
			stmts = append(stmts, fmt.Sprintf(
				"meta.Properties.Set(%s, %s)", strconv.Quote(attr), expr))
		}
	}
	return stmts, nil
}

func (g *generator) arrayMetaStmts(m *sobject.ArrayMeta) ([]string, error) {
	expr, err := g.typesExpr(m.ItemTypes)
	if err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("meta := &sobject.ArrayMeta{ItemTypes: %s}", expr)}, nil
}

func (g *generator) dictionaryMetaStmts(m *sobject.DictionaryMeta) ([]string, error) {
	expr, err := g.typesExpr(m.ValueTypes)
	if err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("meta := &sobject.DictionaryMeta{ValueTypes: %s}", expr)}, nil
}

// propertyExpr renders a property descriptor as a constructor call.
func (g *generator) propertyExpr(property sobject.PropertyDescriptor) (string, error) {
	spec, err := g.propertySpecExpr(property)
	if err != nil {
		return "", err
	}
	switch p := property.(type) {
	case *sobject.StringProperty:
		return fmt.Sprintf("sobject.NewStringProperty(%s)", spec), nil
	case *sobject.IntegerProperty:
		return fmt.Sprintf("sobject.NewIntegerProperty(%s)", spec), nil
	case *sobject.NumberProperty:
		return fmt.Sprintf("sobject.NewNumberProperty(%s)", spec), nil
	case *sobject.BooleanProperty:
		return fmt.Sprintf("sobject.NewBooleanProperty(%s)", spec), nil
	case *sobject.BytesProperty:
		return fmt.Sprintf("sobject.NewBytesProperty(%s)", spec), nil
	case *sobject.DateProperty:
		if p.Parse != nil || p.Format != nil {
			return "", fmt.Errorf("custom date parse/format functions cannot be rendered to source")
		}
		return fmt.Sprintf("sobject.NewDateProperty(%s)", spec), nil
	case *sobject.DateTimeProperty:
		if p.Parse != nil || p.Format != nil {
			return "", fmt.Errorf("custom datetime parse/format functions cannot be rendered to source")
		}
		return fmt.Sprintf("sobject.NewDateTimeProperty(%s)", spec), nil
	case *sobject.EnumeratedProperty:
		values := make([]string, 0, len(p.Values))
		for _, v := range p.Values {
			lit, err := g.literal(v)
			if err != nil {
				return "", err
			}
			values = append(values, lit)
		}
		if len(values) == 0 {
			return fmt.Sprintf("sobject.NewEnumeratedProperty(%s)", spec), nil
		}
		return fmt.Sprintf("sobject.NewEnumeratedProperty(%s, %s)",
			spec, strings.Join(values, ", ")), nil
	case *sobject.ArrayProperty:
		items, err := g.typesExpr(p.ItemTypes)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("sobject.NewArrayProperty(%s, %s)", spec, items), nil
	case *sobject.DictionaryProperty:
		values, err := g.typesExpr(p.ValueTypes)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("sobject.NewDictionaryProperty(%s, %s)", spec, values), nil
	case *sobject.Property:
		return fmt.Sprintf("sobject.NewProperty(%s)", spec), nil
	}
	return "", fmt.Errorf("unsupported property descriptor %T", property)
}

// propertySpecExpr renders the PropertySpec literal for a descriptor,
// omitting zero-valued fields. Typed variants fix their own types, so the
// Types field is only rendered for descriptors that accept one.
func (g *generator) propertySpecExpr(property sobject.PropertyDescriptor) (string, error) {
	base := property.Base()
	var fields []string
	if base.Name != "" {
		fields = append(fields, fmt.Sprintf("Name: %s", strconv.Quote(base.Name)))
	}
	if base.Required {
		fields = append(fields, "Required: true")
	}
	if len(base.Versions) > 0 {
		versions := make([]string, 0, len(base.Versions))
		for _, v := range base.Versions {
			versions = append(versions, fmt.Sprintf(
				"sobject.MustVersion(%s)", strconv.Quote(v.String())))
		}
		fields = append(fields, fmt.Sprintf(
			"Versions: []*sobject.Version{%s}", strings.Join(versions, ", ")))
	}
	if acceptsSpecTypes(property) && base.Types() != nil {
		expr, err := g.typesExpr(base.Types())
		if err != nil {
			return "", err
		}
		fields = append(fields, fmt.Sprintf("Types: %s", expr))
	}
	return fmt.Sprintf("sobject.PropertySpec{%s}", strings.Join(fields, ", ")), nil
}

// acceptsSpecTypes reports whether the descriptor's constructor honors
// PropertySpec.Types. The typed variants declare their own and ignore it.
func acceptsSpecTypes(property sobject.PropertyDescriptor) bool {
	switch property.(type) {
	case *sobject.Property,
		*sobject.EnumeratedProperty,
		*sobject.ArrayProperty,
		*sobject.DictionaryProperty:
		return true
	}
	return false
}

// typesExpr renders a candidate type set as a NewTypes or NewMutableTypes
// call. A nil set renders as nil.
func (g *generator) typesExpr(types *sobject.Types) (string, error) {
	if types == nil {
		return "nil", nil
	}
	items := make([]string, 0, types.Len())
	for _, t := range types.Items() {
		expr, err := g.typeExpr(t)
		if err != nil {
			return "", err
		}
		items = append(items, expr)
	}
	constructor := "sobject.NewTypes"
	if types.Mutable() {
		constructor = "sobject.NewMutableTypes"
	}
	return fmt.Sprintf("%s(%s)", constructor, strings.Join(items, ", ")), nil
}

func (g *generator) typeExpr(t sobject.Type) (string, error) {
	switch c := t.(type) {
	case *sobject.NullType:
		return "sobject.Null", nil
	case sobject.Kind:
		return g.kindExpr(c)
	case *sobject.Class:
		return g.classExpr(c)
	case sobject.PropertyDescriptor:
		return g.propertyExpr(c)
	}
	return "", fmt.Errorf("unsupported type descriptor %T", t)
}

func (g *generator) kindExpr(kind sobject.Kind) (string, error) {
	switch kind {
	case sobject.KindString:
		return "sobject.KindString", nil
	case sobject.KindInteger:
		return "sobject.KindInteger", nil
	case sobject.KindNumber:
		return "sobject.KindNumber", nil
	case sobject.KindBoolean:
		return "sobject.KindBoolean", nil
	case sobject.KindBytes:
		return "sobject.KindBytes", nil
	case sobject.KindDate:
		return "sobject.KindDate", nil
	case sobject.KindDateTime:
		return "sobject.KindDateTime", nil
	}
	return "", fmt.Errorf("unsupported kind %v", kind)
}

// classExpr renders a class reference. The generic roots live in the sobject
// package; any other class is assumed to be generated into the same package
// under the identifier derived from its name.
func (g *generator) classExpr(class *sobject.Class) (string, error) {
	switch class {
	case sobject.ObjectClass:
		return "sobject.ObjectClass", nil
	case sobject.ArrayClass:
		return "sobject.ArrayClass", nil
	case sobject.DictionaryClass:
		return "sobject.DictionaryClass", nil
	}
	name, err := identifier(class.Name())
	if err != nil {
		return "", err
	}
	return name + "Class", nil
}

// literal renders an enumerated value as a Go literal.
func (g *generator) literal(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "nil", nil
	case *sobject.NullType:
		return "sobject.Null", nil
	case string:
		return strconv.Quote(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return fmt.Sprintf("int64(%d)", v), nil
	case float64:
		text := strconv.FormatFloat(v, 'g', -1, 64)
		if !strings.ContainsAny(text, ".eE") {
			text += ".0"
		}
		return text, nil
	}
	return "", fmt.Errorf("unsupported enumerated value %T", value)
}

// identifier derives an exported Go identifier from a class name: word
// separators and package qualifiers are dropped, each word is capitalized.
func identifier(name string) (string, error) {
	var b strings.Builder
	upperNext := true
	for _, r := range name {
		switch {
		case unicode.IsLetter(r):
			if upperNext {
				r = unicode.ToUpper(r)
				upperNext = false
			}
			b.WriteRune(r)
		case unicode.IsDigit(r) && b.Len() > 0:
			b.WriteRune(r)
			upperNext = true
		default:
			upperNext = true
		}
	}
	ident := b.String()
	if ident == "" || !token.IsIdentifier(ident) {
		return "", fmt.Errorf("cannot derive a Go identifier from class name %q", name)
	}
	return ident, nil
}

var classTemplate = template.Must(template.New("class").Parse(`// Code generated by sobject/codegen. DO NOT EDIT.

package {{.PackageName}}

import (
	sobject "{{.ModulePath}}"
)

// {{.VarName}}Class describes the {{.ClassName}} model.
var {{.VarName}}Class = sobject.{{.Constructor}}({{printf "%q" .ClassName}}, nil)

func init() {
{{range .MetaStmts}}	{{.}}
{{end}}	if err := {{.VarName}}Class.SetMeta(meta); err != nil {
		panic(err)
	}
}

// New{{.VarName}} constructs a {{.ClassName}} instance from raw data.
func New{{.VarName}}(data any) (*sobject.{{.Container}}, error) {
	m, err := {{.VarName}}Class.New(data)
	if err != nil {
		return nil, err
	}
	return m.(*sobject.{{.Container}}), nil
}
`))
