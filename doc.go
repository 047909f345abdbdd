// Package sobject maps between JSON-shaped data and typed in-memory model
// instances. It provides:
//
// - Object/Array/Dictionary containers whose mutations are routed through
//   the unmarshal engine so stored values always conform to declared types
// - A marshal/unmarshal engine with polymorphic type resolution over
//   ordered candidate lists, breaking ties by fewest extraneous attributes
// - Class- and instance-level metadata (properties, item types, value
//   types) with copy-on-write inheritance across a class hierarchy
// - A stable error model via Issues (JSON Pointer, code, message)
// - JSON serialization and JSON/YAML deserialization
//
// Design policy:
// - Keep the mutually recursive core (containers, engine, metadata) in the
//   root package; put source generation under codegen/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	class := sobject.NewObjectClass("Point", nil)
//	meta := sobject.NewObjectMeta()
//	meta.Properties.Set("x", sobject.NewIntegerProperty(sobject.PropertySpec{Required: true}))
//	_ = class.SetMeta(meta)
//
//	v, err := sobject.Unmarshal(tree, sobject.WithTypes(sobject.NewTypes(class)))
//	text, err := sobject.Serialize(v, sobject.WithIndent(2))
package sobject
