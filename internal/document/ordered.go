package document

import "iter"

// OrderedMap is a string-keyed map that remembers insertion order.
type OrderedMap[V any] struct {
	keys  []string
	index map[string]int
	vals  []V
}

// Set inserts or replaces key. A replaced key keeps its original position.
func (m *OrderedMap[V]) Set(key string, v V) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[key]; ok {
		m.vals[i] = v
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, v)
}

func (m *OrderedMap[V]) Get(key string) (V, bool) {
	i, ok := m.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return m.vals[i], true
}

func (m *OrderedMap[V]) Has(key string) bool {
	_, ok := m.index[key]
	return ok
}

func (m *OrderedMap[V]) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order. READONLY
func (m *OrderedMap[V]) Keys() []string {
	return m.keys
}

// All iterates entries in insertion order.
func (m *OrderedMap[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for i, k := range m.keys {
			if !yield(k, m.vals[i]) {
				return
			}
		}
	}
}
