package sobject

// PropertyDescriptor is implemented by *Property and its typed variants. The
// set is closed: new descriptor kinds belong in this package, next to the
// engine dispatch that must know about them.
type PropertyDescriptor interface {
	Type
	Base() *Property
	cloneProperty() PropertyDescriptor
}

// PropertySpec carries the construction parameters shared by every property
// variant.
type PropertySpec struct {
	// Name is the wire name. When empty, the attribute name under which the
	// property is registered in an ObjectMeta is used.
	Name     string
	Required bool
	Versions []*Version
	// Types restricts admissible values. nil means any marshallable type.
	// Typed variants (string, integer, ...) fix their own types and ignore
	// this field.
	Types *Types
}

// Property describes one field's contract: admissible types, an optional wire
// name, a required flag and version constraints. The typed variants embed it.
type Property struct {
	Name     string
	Required bool
	Versions []*Version

	types       *Types
	typesFrozen bool
}

// NewProperty returns a generic property admitting any of the given types, or
// any marshallable type when spec.Types is nil.
func NewProperty(spec PropertySpec) *Property {
	return &Property{
		Name:     spec.Name,
		Required: spec.Required,
		Versions: spec.Versions,
		types:    spec.Types,
	}
}

func (p *Property) isTypeDescriptor() {}

// Base returns the shared portion of the descriptor.
func (p *Property) Base() *Property { return p }

// Types returns the admissible types, nil meaning any marshallable type.
func (p *Property) Types() *Types { return p.types }

// SetTypes replaces the admissible types; the replacement is held as a
// mutable collection. Typed property variants declare their types at
// definition time and reject replacement.
func (p *Property) SetTypes(types *Types) error {
	if p.typesFrozen {
		return newTypeError("property types are declared immutable and cannot be replaced")
	}
	if types == nil {
		p.types = nil
		return nil
	}
	p.types = NewMutableTypes(types.Items()...)
	return nil
}

func (p *Property) cloneBase() Property {
	cp := *p
	if len(p.Versions) > 0 {
		cp.Versions = make([]*Version, len(p.Versions))
		for i, v := range p.Versions {
			cp.Versions[i] = v.DeepCopy()
		}
	}
	if !p.typesFrozen {
		cp.types = p.types.DeepCopy()
	}
	return cp
}

func (p *Property) cloneProperty() PropertyDescriptor {
	cp := p.cloneBase()
	return &cp
}

// effectiveName returns the wire name for a property registered under the
// given attribute name.
func effectiveName(p PropertyDescriptor, attribute string) string {
	if name := p.Base().Name; name != "" {
		return name
	}
	return attribute
}

// Shared by all instances of a typed variant; immutable, so sharing is safe.
var (
	stringPropertyTypes   = NewTypes(KindString)
	integerPropertyTypes  = NewTypes(KindInteger)
	numberPropertyTypes   = NewTypes(KindNumber, KindInteger)
	booleanPropertyTypes  = NewTypes(KindBoolean)
	bytesPropertyTypes    = NewTypes(KindBytes)
	datePropertyTypes     = NewTypes(KindDate)
	dateTimePropertyTypes = NewTypes(KindDateTime)
)

func frozenBase(spec PropertySpec, types *Types) Property {
	return Property{
		Name:        spec.Name,
		Required:    spec.Required,
		Versions:    spec.Versions,
		types:       types,
		typesFrozen: true,
	}
}

// StringProperty admits string values.
type StringProperty struct{ Property }

func NewStringProperty(spec PropertySpec) *StringProperty {
	return &StringProperty{Property: frozenBase(spec, stringPropertyTypes)}
}

func (p *StringProperty) cloneProperty() PropertyDescriptor {
	return &StringProperty{Property: p.cloneBase()}
}

// IntegerProperty admits integer values.
type IntegerProperty struct{ Property }

func NewIntegerProperty(spec PropertySpec) *IntegerProperty {
	return &IntegerProperty{Property: frozenBase(spec, integerPropertyTypes)}
}

func (p *IntegerProperty) cloneProperty() PropertyDescriptor {
	return &IntegerProperty{Property: p.cloneBase()}
}

// NumberProperty admits floating-point and integer values.
type NumberProperty struct{ Property }

func NewNumberProperty(spec PropertySpec) *NumberProperty {
	return &NumberProperty{Property: frozenBase(spec, numberPropertyTypes)}
}

func (p *NumberProperty) cloneProperty() PropertyDescriptor {
	return &NumberProperty{Property: p.cloneBase()}
}

// BooleanProperty admits boolean values.
type BooleanProperty struct{ Property }

func NewBooleanProperty(spec PropertySpec) *BooleanProperty {
	return &BooleanProperty{Property: frozenBase(spec, booleanPropertyTypes)}
}

func (p *BooleanProperty) cloneProperty() PropertyDescriptor {
	return &BooleanProperty{Property: p.cloneBase()}
}

// BytesProperty admits byte strings, carried on the wire as base64.
type BytesProperty struct{ Property }

func NewBytesProperty(spec PropertySpec) *BytesProperty {
	return &BytesProperty{Property: frozenBase(spec, bytesPropertyTypes)}
}

func (p *BytesProperty) cloneProperty() PropertyDescriptor {
	return &BytesProperty{Property: p.cloneBase()}
}

// DateProperty admits calendar dates, carried on the wire as strings. Parse
// and Format override the ISO 8601 defaults.
type DateProperty struct {
	Property
	Parse  func(string) (Date, error)
	Format func(Date) (string, error)
}

func NewDateProperty(spec PropertySpec) *DateProperty {
	return &DateProperty{Property: frozenBase(spec, datePropertyTypes)}
}

func (p *DateProperty) cloneProperty() PropertyDescriptor {
	return &DateProperty{Property: p.cloneBase(), Parse: p.Parse, Format: p.Format}
}

func (p *DateProperty) parseDate(s string) (Date, error) {
	if p.Parse != nil {
		return p.Parse(s)
	}
	return ParseDate(s)
}

func (p *DateProperty) formatDate(d Date) (string, error) {
	if p.Format != nil {
		return p.Format(d)
	}
	return FormatDate(d), nil
}

// DateTimeProperty admits timestamps, carried on the wire as strings. Parse
// and Format override the RFC 3339 defaults.
type DateTimeProperty struct {
	Property
	Parse  func(string) (DateTime, error)
	Format func(DateTime) (string, error)
}

func NewDateTimeProperty(spec PropertySpec) *DateTimeProperty {
	return &DateTimeProperty{Property: frozenBase(spec, dateTimePropertyTypes)}
}

func (p *DateTimeProperty) cloneProperty() PropertyDescriptor {
	return &DateTimeProperty{Property: p.cloneBase(), Parse: p.Parse, Format: p.Format}
}

func (p *DateTimeProperty) parseDateTime(s string) (DateTime, error) {
	if p.Parse != nil {
		return p.Parse(s)
	}
	return ParseDateTime(s)
}

func (p *DateTimeProperty) formatDateTime(t DateTime) (string, error) {
	if p.Format != nil {
		return p.Format(t)
	}
	return FormatDateTime(t), nil
}

// EnumeratedProperty restricts values to a declared set.
type EnumeratedProperty struct {
	Property
	Values []any
}

func NewEnumeratedProperty(spec PropertySpec, values ...any) *EnumeratedProperty {
	return &EnumeratedProperty{
		Property: Property{
			Name:     spec.Name,
			Required: spec.Required,
			Versions: spec.Versions,
			types:    spec.Types,
		},
		Values: values,
	}
}

func (p *EnumeratedProperty) cloneProperty() PropertyDescriptor {
	return &EnumeratedProperty{
		Property: p.cloneBase(),
		Values:   append([]any(nil), p.Values...),
	}
}

func (p *EnumeratedProperty) contains(value any) bool {
	for _, candidate := range p.Values {
		if valuesEqual(candidate, value) {
			return true
		}
	}
	return false
}

// ArrayProperty admits arrays whose items conform to ItemTypes.
type ArrayProperty struct {
	Property
	ItemTypes *Types
}

func NewArrayProperty(spec PropertySpec, itemTypes *Types) *ArrayProperty {
	return &ArrayProperty{
		Property: Property{
			Name:     spec.Name,
			Required: spec.Required,
			Versions: spec.Versions,
			types:    spec.Types,
		},
		ItemTypes: itemTypes,
	}
}

func (p *ArrayProperty) cloneProperty() PropertyDescriptor {
	return &ArrayProperty{Property: p.cloneBase(), ItemTypes: p.ItemTypes.DeepCopy()}
}

// DictionaryProperty admits dictionaries whose values conform to ValueTypes.
type DictionaryProperty struct {
	Property
	ValueTypes *Types
}

func NewDictionaryProperty(spec PropertySpec, valueTypes *Types) *DictionaryProperty {
	return &DictionaryProperty{
		Property: Property{
			Name:     spec.Name,
			Required: spec.Required,
			Versions: spec.Versions,
			types:    spec.Types,
		},
		ValueTypes: valueTypes,
	}
}

func (p *DictionaryProperty) cloneProperty() PropertyDescriptor {
	return &DictionaryProperty{Property: p.cloneBase(), ValueTypes: p.ValueTypes.DeepCopy()}
}
