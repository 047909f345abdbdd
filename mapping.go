package sobject

// Mapping is the ordered key/value form the engine uses for JSON objects on
// the wire: deserialization produces it, marshal emits it, and serialization
// writes its pairs in order. A nil stored value renders as an explicit JSON
// null.
type Mapping struct {
	keys   []string
	values map[string]any
}

// NewMapping returns an empty Mapping.
func NewMapping() *Mapping {
	return &Mapping{values: map[string]any{}}
}

// MappingOf returns a Mapping populated from alternating key/value pairs, in
// the order given. It panics on an odd number of arguments or a non-string
// key; it is intended for literals in tests and generated code.
func MappingOf(pairs ...any) *Mapping {
	if len(pairs)%2 != 0 {
		panic("sobject.MappingOf: odd number of arguments")
	}
	m := NewMapping()
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic("sobject.MappingOf: keys must be strings")
		}
		m.Set(key, pairs[i+1])
	}
	return m
}

// Set stores a value under key. A repeated key keeps its original position.
func (m *Mapping) Set(key string, value any) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	value, ok := m.values[key]
	return value, ok
}

// Delete removes the entry under key.
func (m *Mapping) Delete(key string) {
	if _, exists := m.values[key]; !exists {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Equal reports equality of key sets and pairwise values. Key order does not
// participate.
func (m *Mapping) Equal(other *Mapping) bool {
	if m.Len() != other.Len() {
		return false
	}
	for key, value := range m.values {
		otherValue, ok := other.values[key]
		if !ok || !valuesEqual(value, otherValue) {
			return false
		}
	}
	return true
}

// DeepCopy duplicates the mapping and every value.
func (m *Mapping) DeepCopy() *Mapping {
	cp := NewMapping()
	for _, key := range m.keys {
		cp.Set(key, deepCopyValue(m.values[key]))
	}
	return cp
}
