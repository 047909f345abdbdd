package sobject

import "fmt"

// ApplyVersion rewrites a model instance's metadata for a concrete version
// of a specification: properties and type alternatives gated on other
// versions of that specification are pruned from the instance-level
// metadata. A pruned property that currently holds a value fails with a
// *VersionError. The rewrite recurses into nested model values.
func ApplyVersion(m Model, specification, number string) error {
	parsed, err := ParseVersionNumber(number)
	if err != nil {
		return err
	}
	return applyVersion(m, specification, parsed)
}

func applyVersion(m Model, specification string, number []int) error {
	switch c := m.(type) {
	case *Object:
		if err := applyVersionObject(c, specification, number); err != nil {
			return err
		}
		for _, value := range c.values {
			if nested, ok := value.(Model); ok {
				if err := applyVersion(nested, specification, number); err != nil {
					return err
				}
			}
		}
	case *Array:
		if itemTypes := c.ItemTypes(); itemTypes != nil {
			filtered, changed := filterVersionedTypes(itemTypes, specification, number)
			if changed {
				meta, _ := c.WritableMeta().(*ArrayMeta)
				meta.ItemTypes = filtered
			}
		}
		for _, item := range c.items {
			if nested, ok := item.(Model); ok {
				if err := applyVersion(nested, specification, number); err != nil {
					return err
				}
			}
		}
	case *Dictionary:
		if valueTypes := c.ValueTypes(); valueTypes != nil {
			filtered, changed := filterVersionedTypes(valueTypes, specification, number)
			if changed {
				meta, _ := c.WritableMeta().(*DictionaryMeta)
				meta.ValueTypes = filtered
			}
		}
		for _, value := range c.values {
			if nested, ok := value.(Model); ok {
				if err := applyVersion(nested, specification, number); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func applyVersionObject(o *Object, specification string, number []int) error {
	meta := o.objectMeta()
	if meta == nil {
		return nil
	}
	type rewrite struct {
		attr     string
		property PropertyDescriptor // nil means removal
	}
	var rewrites []rewrite
	for _, attr := range meta.Properties.Keys() {
		prop, _ := meta.Properties.Get(attr)
		if !versionApplies(prop.Base().Versions, specification, number) {
			if value, present := o.values[attr]; present && value != nil {
				return &VersionError{Message: fmt.Sprintf(
					"the property `%s.%s` holds a value but is not applicable to %s version %s",
					o.class.Name(), attr, specification, formatVersionNumber(number))}
			}
			rewrites = append(rewrites, rewrite{attr: attr})
			continue
		}
		if types := prop.Base().Types(); types != nil {
			filtered, changed := filterVersionedTypes(types, specification, number)
			if changed {
				clone := prop.cloneProperty()
				clone.Base().types = filtered
				clone.Base().typesFrozen = false
				rewrites = append(rewrites, rewrite{attr: attr, property: clone})
			}
		}
	}
	if len(rewrites) == 0 {
		return nil
	}
	writable, _ := o.WritableMeta().(*ObjectMeta)
	for _, rw := range rewrites {
		if rw.property == nil {
			writable.Properties.Delete(rw.attr)
			delete(o.values, rw.attr)
		} else {
			writable.Properties.Set(rw.attr, rw.property)
		}
	}
	return nil
}

// versionApplies reports whether constraints leave the carrier applicable to
// the given version: true when no constraint names the specification, or
// when at least one naming it matches the number.
func versionApplies(versions []*Version, specification string, number []int) bool {
	named := false
	for _, v := range versions {
		if v.Specification != specification {
			continue
		}
		named = true
		if v.MatchesNumber(number) {
			return true
		}
	}
	return !named
}

// filterVersionedTypes drops property alternatives gated on non-matching
// versions of the specification.
func filterVersionedTypes(types *Types, specification string, number []int) (*Types, bool) {
	kept := make([]Type, 0, types.Len())
	changed := false
	for _, candidate := range types.Items() {
		if pd, ok := candidate.(PropertyDescriptor); ok {
			if !versionApplies(pd.Base().Versions, specification, number) {
				changed = true
				continue
			}
		}
		kept = append(kept, candidate)
	}
	if !changed {
		return types, false
	}
	if types.Mutable() {
		return NewMutableTypes(kept...), true
	}
	return NewTypes(kept...), true
}
