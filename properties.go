package sobject

// Properties is an insertion-ordered mapping from attribute name to property
// descriptor. Keys are unique; overwriting keeps the original position.
type Properties struct {
	keys   []string
	values map[string]PropertyDescriptor
}

// NewProperties returns an empty Properties.
func NewProperties() *Properties {
	return &Properties{values: map[string]PropertyDescriptor{}}
}

// Set registers a property under an attribute name.
func (p *Properties) Set(name string, property PropertyDescriptor) {
	if _, exists := p.values[name]; !exists {
		p.keys = append(p.keys, name)
	}
	p.values[name] = property
}

// Get returns the property registered under the attribute name.
func (p *Properties) Get(name string) (PropertyDescriptor, bool) {
	if p == nil {
		return nil, false
	}
	property, ok := p.values[name]
	return property, ok
}

// Delete removes the property registered under the attribute name.
func (p *Properties) Delete(name string) {
	if _, exists := p.values[name]; !exists {
		return
	}
	delete(p.values, name)
	for i, key := range p.keys {
		if key == name {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the attribute names in insertion order.
func (p *Properties) Keys() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.keys...)
}

// Len returns the number of registered properties.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// DeepCopy duplicates the mapping and clones every descriptor.
func (p *Properties) DeepCopy() *Properties {
	if p == nil {
		return nil
	}
	cp := NewProperties()
	for _, key := range p.keys {
		cp.Set(key, p.values[key].cloneProperty())
	}
	return cp
}
