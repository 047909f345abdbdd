package sobject

import "fmt"

// Validate checks a model instance (or a plain value against candidate
// types) and reports every violation at once as a *ValidationError. A nil
// return means the value is valid. Hook errors propagate unmodified.
func Validate(value any, opts ...Option) error {
	issues, err := ValidationIssues(value, opts...)
	if err != nil {
		return err
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// ValidationIssues is the advisory form of Validate: violations are returned
// as issues rather than an error. The error return carries only hook
// failures.
func ValidationIssues(value any, opts ...Option) (Issues, error) {
	cfg := applyOptions(opts)
	if m, ok := value.(Model); ok {
		return m.validateModel("", nil)
	}
	if cfg.types.Len() > 0 && !conforms(value, cfg.types) {
		return Issues{{
			Code: CodeInvalidType,
			Message: fmt.Sprintf(
				"the value does not match any of the expected types: %s",
				represent(value)),
		}}, nil
	}
	return nil, nil
}

// conforms reports whether a stored value matches at least one candidate.
// Empty candidate sets admit anything.
func conforms(value any, types *Types) bool {
	if types.Len() == 0 {
		return true
	}
	for _, candidate := range types.Items() {
		if conformsToType(value, candidate) {
			return true
		}
	}
	return false
}

func conformsToType(value any, t Type) bool {
	switch c := t.(type) {
	case *NullType:
		return value == Null
	case Kind:
		return conformsToKind(value, c)
	case *Class:
		m, ok := value.(Model)
		return ok && m.Class().IsSubclassOf(c)
	case PropertyDescriptor:
		return conformsToProperty(value, c)
	}
	return false
}

func conformsToProperty(value any, property PropertyDescriptor) bool {
	switch p := property.(type) {
	case *DateProperty:
		_, ok := value.(Date)
		return ok
	case *DateTimeProperty:
		_, ok := value.(DateTime)
		return ok
	case *BytesProperty:
		_, ok := value.([]byte)
		return ok
	case *ArrayProperty:
		_, ok := value.(*Array)
		return ok
	case *DictionaryProperty:
		_, ok := value.(*Dictionary)
		return ok
	case *EnumeratedProperty:
		return p.contains(value)
	}
	return conforms(value, property.Base().Types())
}

func (o *Object) validateModel(path string, issues Issues) (Issues, error) {
	target := o
	h := commonHooksOf(o)
	if h != nil && h.BeforeValidate != nil {
		substituted, err := h.BeforeValidate(o)
		if err != nil {
			return issues, err
		}
		if so, ok := substituted.(*Object); ok {
			target = so
		}
	}
	if meta := target.objectMeta(); meta != nil {
		for _, attr := range meta.Properties.Keys() {
			prop, _ := meta.Properties.Get(attr)
			base := prop.Base()
			propPath := path + "/" + escapePointerSegment(effectiveName(prop, attr))
			value, present := target.values[attr]
			if !present || value == nil {
				if base.Required {
					issues = AppendIssues(issues, Issue{
						Path: propPath,
						Code: CodeRequired,
						Message: fmt.Sprintf(
							"missing required property `%s.%s`",
							target.class.Name(), attr),
						Params: map[string]any{"property": attr},
					})
				}
				continue
			}
			if value == Null {
				if t := base.Types(); t != nil && !t.Contains(Null) {
					issues = AppendIssues(issues, Issue{
						Path: propPath,
						Code: CodeNullNotAllowed,
						Message: fmt.Sprintf(
							"a null value is not permitted for `%s.%s`",
							target.class.Name(), attr),
						Params: map[string]any{"property": attr},
					})
				}
				continue
			}
			if !conformsToProperty(value, prop) {
				issues = AppendIssues(issues, Issue{
					Path: propPath,
					Code: CodeInvalidType,
					Message: fmt.Sprintf(
						"the value of `%s.%s` does not match its declared types: %s",
						target.class.Name(), attr, represent(value)),
					Params: map[string]any{"property": attr},
				})
			}
			if nested, ok := value.(Model); ok {
				var err error
				issues, err = nested.validateModel(propPath, issues)
				if err != nil {
					return issues, err
				}
			}
		}
	}
	for _, key := range target.extra.Keys() {
		issues = AppendIssues(issues, Issue{
			Path: path + "/" + escapePointerSegment(key),
			Code: CodeExtraAttribute,
			Message: fmt.Sprintf(
				"extraneous attribute `%s` on `%s`", key, target.class.Name()),
			Params: map[string]any{"attribute": key},
		})
	}
	if h != nil && h.AfterValidate != nil {
		if err := h.AfterValidate(target); err != nil {
			return issues, err
		}
	}
	return issues, nil
}

func (a *Array) validateModel(path string, issues Issues) (Issues, error) {
	target := a
	h := commonHooksOf(a)
	if h != nil && h.BeforeValidate != nil {
		substituted, err := h.BeforeValidate(a)
		if err != nil {
			return issues, err
		}
		if sa, ok := substituted.(*Array); ok {
			target = sa
		}
	}
	itemTypes := target.ItemTypes()
	for i, item := range target.items {
		itemPath := fmt.Sprintf("%s/%d", path, i)
		if !conforms(item, itemTypes) {
			issues = AppendIssues(issues, Issue{
				Path: itemPath,
				Code: CodeInvalidType,
				Message: fmt.Sprintf(
					"the item at index %d does not match the declared item types: %s",
					i, represent(item)),
			})
		}
		if nested, ok := item.(Model); ok {
			var err error
			issues, err = nested.validateModel(itemPath, issues)
			if err != nil {
				return issues, err
			}
		}
	}
	if h != nil && h.AfterValidate != nil {
		if err := h.AfterValidate(target); err != nil {
			return issues, err
		}
	}
	return issues, nil
}

func (d *Dictionary) validateModel(path string, issues Issues) (Issues, error) {
	target := d
	h := commonHooksOf(d)
	if h != nil && h.BeforeValidate != nil {
		substituted, err := h.BeforeValidate(d)
		if err != nil {
			return issues, err
		}
		if sd, ok := substituted.(*Dictionary); ok {
			target = sd
		}
	}
	valueTypes := target.ValueTypes()
	for _, key := range target.keys {
		value := target.values[key]
		valuePath := path + "/" + escapePointerSegment(key)
		if !conforms(value, valueTypes) {
			issues = AppendIssues(issues, Issue{
				Path: valuePath,
				Code: CodeInvalidType,
				Message: fmt.Sprintf(
					"the value under %q does not match the declared value types: %s",
					key, represent(value)),
			})
		}
		if nested, ok := value.(Model); ok {
			var err error
			issues, err = nested.validateModel(valuePath, issues)
			if err != nil {
				return issues, err
			}
		}
	}
	if h != nil && h.AfterValidate != nil {
		if err := h.AfterValidate(target); err != nil {
			return issues, err
		}
	}
	return issues, nil
}
