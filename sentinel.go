package sobject

// NullType is the type of the Null singleton. It has no state; the value is
// compared by identity only.
type NullType struct{ _ byte }

// Null represents an explicit JSON null, as distinct from a Go nil, which the
// engine treats as "absent". Marshalling Null emits null; a property whose
// value is nil is omitted from output entirely.
var Null = &NullType{}

func (*NullType) String() string { return "null" }

func (*NullType) isTypeDescriptor() {}

// UndefinedType is the type of the Undefined singleton.
type UndefinedType struct{ _ byte }

// Undefined marks "no argument supplied" in places where nil is a meaningful
// value. It never appears in wire data and is rejected by the engine.
var Undefined = &UndefinedType{}

func (*UndefinedType) String() string { return "undefined" }
