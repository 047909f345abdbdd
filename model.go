package sobject

// Model is implemented by the three container types. Instances carry an
// optional JSON Pointer locating them in a containment tree and an optional
// source URL, both stamped recursively by SetPointer and SetURL.
type Model interface {
	// Class returns the runtime class descriptor of the instance.
	Class() *Class
	// Meta returns the effective metadata: the instance's own override when
	// present, else the class's. The result may be shared; mutate only what
	// WritableMeta returns.
	Meta() Meta
	// WritableMeta returns an instance-level metadata override that is safe
	// to mutate, creating it from the class metadata on first use.
	WritableMeta() Meta
	// SetMeta replaces the instance-level metadata wholesale.
	SetMeta(Meta) error
	// Hooks returns the effective hook bundle, instance before class.
	Hooks() Hooks
	// WritableHooks returns an instance-level hook override safe to mutate.
	WritableHooks() Hooks
	// SetHooks replaces the instance-level hook bundle wholesale.
	SetHooks(Hooks) error
	// Pointer returns the JSON Pointer assigned via SetPointer.
	Pointer() string
	// URL returns the source URL assigned via SetURL.
	URL() string
	// DeepCopy duplicates the instance, its values, and any instance-level
	// metadata or hooks.
	DeepCopy() Model
	// Equal reports structural equality with another instance of the same
	// concrete container type and class.
	Equal(Model) bool

	setPointer(string)
	setURL(string)
	marshalModel() (any, error)
	validateModel(path string, issues Issues) (Issues, error)
}

// modelState is the state shared by Object, Array and Dictionary.
type modelState struct {
	class   *Class
	meta    Meta
	hooks   Hooks
	pointer string
	url     string
}

func (s *modelState) Class() *Class { return s.class }

func (s *modelState) Pointer() string { return s.pointer }

func (s *modelState) URL() string { return s.url }

func (s *modelState) setPointer(p string) { s.pointer = p }

func (s *modelState) setURL(u string) { s.url = u }

func (s *modelState) Meta() Meta {
	if s.meta != nil {
		return s.meta
	}
	return s.class.Meta()
}

// WritableMeta deep-copies the effective metadata into an instance-level
// override on first use, so the class declarations stay untouched. Unlike
// Class.WritableMeta this never assigns anything to the class itself; the
// generic root classes stay pristine.
func (s *modelState) WritableMeta() Meta {
	if s.meta == nil {
		if m := s.class.Meta(); m != nil {
			s.meta = m.DeepCopy()
		} else {
			s.meta = newEmptyMeta(s.class.Kind())
		}
	}
	return s.meta
}

func (s *modelState) SetMeta(meta Meta) error {
	if err := checkMetaKind(meta, s.class.Kind()); err != nil {
		return err
	}
	s.meta = meta
	return nil
}

func (s *modelState) Hooks() Hooks {
	if s.hooks != nil {
		return s.hooks
	}
	return s.class.Hooks()
}

func (s *modelState) WritableHooks() Hooks {
	if s.hooks == nil {
		if h := s.class.Hooks(); h != nil {
			s.hooks = h.DeepCopy()
		} else {
			s.hooks = newEmptyHooks(s.class.Kind())
		}
	}
	return s.hooks
}

func (s *modelState) SetHooks(hooks Hooks) error {
	if err := checkHooksKind(hooks, s.class.Kind()); err != nil {
		return err
	}
	s.hooks = hooks
	return nil
}

// copyStateInto carries instance-level metadata, hooks, pointer and url onto
// a duplicate.
func (s *modelState) copyStateInto(dst *modelState) {
	dst.class = s.class
	if s.meta != nil {
		dst.meta = s.meta.DeepCopy()
	}
	if s.hooks != nil {
		dst.hooks = s.hooks.DeepCopy()
	}
	dst.pointer = s.pointer
	dst.url = s.url
}

// deepCopyValue duplicates a stored value. Models copy deeply; slices and
// mappings copy element by element; scalars and sentinels are shared.
func deepCopyValue(v any) any {
	switch value := v.(type) {
	case Model:
		return value.DeepCopy()
	case *Mapping:
		return value.DeepCopy()
	case []any:
		items := make([]any, len(value))
		for i, item := range value {
			items[i] = deepCopyValue(item)
		}
		return items
	case map[string]any:
		m := make(map[string]any, len(value))
		for k, item := range value {
			m[k] = deepCopyValue(item)
		}
		return m
	case []byte:
		return append([]byte(nil), value...)
	}
	return v
}

// valuesEqual reports structural equality between two stored or wire values.
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case Model:
		bv, ok := b.(Model)
		return ok && av.Equal(bv)
	case *Mapping:
		bv, ok := b.(*Mapping)
		return ok && av.Equal(bv)
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valuesEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bValue, present := bv[k]
			if !present || !valuesEqual(v, bValue) {
				return false
			}
		}
		return true
	case []byte:
		bv, ok := b.([]byte)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
		return true
	case DateTime:
		bv, ok := b.(DateTime)
		return ok && av.Equal(bv)
	case int:
		// Normalize int against int64 so hand-constructed and decoded
		// values compare equal.
		return integersEqual(int64(av), b)
	case int64:
		return integersEqual(av, b)
	}
	return a == b
}

func integersEqual(a int64, b any) bool {
	switch bv := b.(type) {
	case int:
		return a == int64(bv)
	case int64:
		return a == bv
	}
	return false
}
