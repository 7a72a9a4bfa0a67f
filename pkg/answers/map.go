package answers

import "sort"

// Lookup is the read side of an answer set, enough for visibility and
// validation.
type Lookup interface {
	Get(id string) (Value, bool)
}

// Map stores answers keyed by field id. Empty values are not stored, so Get
// reports ok only for answered fields. A Map is owned by one session and is
// not safe for concurrent use.
type Map struct {
	values map[string]Value
}

// NewMap returns an empty answer set.
func NewMap() *Map {
	return &Map{values: make(map[string]Value)}
}

// Get returns the answer for id.
func (m *Map) Get(id string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	v, ok := m.values[id]
	return v, ok
}

// Set stores v for id; an empty value removes the entry.
func (m *Map) Set(id string, v Value) {
	if m.values == nil {
		m.values = make(map[string]Value)
	}
	if v.IsEmpty() {
		delete(m.values, id)
		return
	}
	m.values[id] = v
}

// Delete removes the answer for id.
func (m *Map) Delete(id string) {
	if m == nil {
		return
	}
	delete(m.values, id)
}

// Len reports the number of answered fields.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.values)
}

// Keys returns the answered field ids in sorted order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns an independent copy. Values are immutable so a shallow copy
// of the map suffices.
func (m *Map) Clone() *Map {
	out := NewMap()
	if m == nil {
		return out
	}
	for k, v := range m.values {
		out.values[k] = v
	}
	return out
}

// Snapshot returns the answers as a plain map.
func (m *Map) Snapshot() map[string]Value {
	out := make(map[string]Value)
	if m == nil {
		return out
	}
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// MapOf builds a Lookup from plain values, mainly for tests and previews.
type MapOf map[string]Value

// Get implements Lookup.
func (m MapOf) Get(id string) (Value, bool) {
	v, ok := m[id]
	if !ok || v.IsEmpty() {
		return Value{}, false
	}
	return v, true
}
