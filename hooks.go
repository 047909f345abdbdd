package sobject

// ModelHooks holds the lifecycle callbacks common to every container kind.
// Before-hooks may substitute the value they receive; a non-nil error from
// any hook propagates unmodified to the caller of the triggering operation.
type ModelHooks struct {
	BeforeMarshal   func(Model) (Model, error)
	AfterMarshal    func(any) (any, error)
	BeforeUnmarshal func(any) (any, error)
	AfterUnmarshal  func(Model) (Model, error)
	BeforeSerialize func(any) (any, error)
	AfterSerialize  func(string) (string, error)
	BeforeValidate  func(Model) (Model, error)
	AfterValidate   func(Model) error
}

// Hooks is the hook bundle attached to a model class or instance. The same
// class/instance precedence and copy-on-write rules apply as for Meta.
type Hooks interface {
	DeepCopy() Hooks
	common() *ModelHooks
	containerKind() ContainerKind
}

// ObjectHooks adds the attribute- and item-assignment callbacks of Object.
type ObjectHooks struct {
	ModelHooks
	BeforeSetattr func(o *Object, name string, value any) (string, any, error)
	AfterSetattr  func(o *Object, name string, value any) error
	BeforeSetitem func(o *Object, key string, value any) (string, any, error)
	AfterSetitem  func(o *Object, key string, value any) error
}

func (h *ObjectHooks) common() *ModelHooks          { return &h.ModelHooks }
func (h *ObjectHooks) containerKind() ContainerKind { return ObjectContainer }

// DeepCopy duplicates the bundle. Callbacks are copied by reference.
func (h *ObjectHooks) DeepCopy() Hooks {
	cp := *h
	return &cp
}

// ArrayHooks adds the item-assignment and append callbacks of Array.
type ArrayHooks struct {
	ModelHooks
	BeforeSetitem func(a *Array, index int, value any) (int, any, error)
	AfterSetitem  func(a *Array, index int, value any) error
	BeforeAppend  func(a *Array, value any) (any, error)
	AfterAppend   func(a *Array, value any) error
}

func (h *ArrayHooks) common() *ModelHooks          { return &h.ModelHooks }
func (h *ArrayHooks) containerKind() ContainerKind { return ArrayContainer }

func (h *ArrayHooks) DeepCopy() Hooks {
	cp := *h
	return &cp
}

// DictionaryHooks adds the item-assignment callbacks of Dictionary.
type DictionaryHooks struct {
	ModelHooks
	BeforeSetitem func(d *Dictionary, key string, value any) (string, any, error)
	AfterSetitem  func(d *Dictionary, key string, value any) error
}

func (h *DictionaryHooks) common() *ModelHooks          { return &h.ModelHooks }
func (h *DictionaryHooks) containerKind() ContainerKind { return DictionaryContainer }

func (h *DictionaryHooks) DeepCopy() Hooks {
	cp := *h
	return &cp
}

func newEmptyHooks(kind ContainerKind) Hooks {
	switch kind {
	case ObjectContainer:
		return &ObjectHooks{}
	case ArrayContainer:
		return &ArrayHooks{}
	case DictionaryContainer:
		return &DictionaryHooks{}
	}
	return nil
}

func checkHooksKind(hooks Hooks, kind ContainerKind) error {
	if hooks == nil {
		return nil
	}
	if hooks.containerKind() != kind {
		return newTypeError(
			"hooks of kind %s cannot be assigned to a %s class",
			hooks.containerKind(), kind)
	}
	return nil
}

// commonHooksOf returns the shared hook slots of a model, or nil when the
// model carries no hooks.
func commonHooksOf(m Model) *ModelHooks {
	if h := m.Hooks(); h != nil {
		return h.common()
	}
	return nil
}
