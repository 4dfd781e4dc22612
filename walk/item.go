package walk

import (
	"fmt"
	"iter"
)

// PathKey is the well-known metadata key under which walkers record a
// human-readable display path for each item they produce. The engine never
// reads or writes it; it is a convention shared by the adapters in jsonwalk
// and diffwalk and surfaced through [Event.Path].
const PathKey = "path"

// Item wraps one visited value together with its metadata and a reference to
// the parent item that produced it. The value and parent are fixed at
// construction; only the metadata may change afterwards.
//
// Items form the hierarchy relation of a walk: the root item wraps the value
// passed to [Handle], and every child is created through [Item.NewChild] by
// the walker enumerating its parent's children.
type Item struct {
	value  any
	meta   *Metadata
	parent *Item
}

// NewItem creates a root item for value. The item has no parent and empty
// metadata.
func NewItem(value any) *Item {
	return &Item{value: value}
}

// NewChild creates a child item for value with this item as its parent.
// The child starts with empty metadata.
func (it *Item) NewChild(value any) *Item {
	return &Item{value: value, parent: it}
}

// Value returns the wrapped value. It may be nil.
func (it *Item) Value() any {
	return it.value
}

// Parent returns the item this one was derived from, or nil for a root item.
func (it *Item) Parent() *Item {
	return it.parent
}

// Meta returns the item's metadata store, creating it on first use.
func (it *Item) Meta() *Metadata {
	if it.meta == nil {
		it.meta = &Metadata{}
	}
	return it.meta
}

// Put stores a metadata value and returns the item for chaining.
func (it *Item) Put(key string, value any) *Item {
	it.Meta().Put(key, value)
	return it
}

// Get returns the metadata value stored under key.
func (it *Item) Get(key string) (any, bool) {
	if it.meta == nil {
		return nil, false
	}
	return it.meta.Get(key)
}

// Remove deletes the metadata value stored under key and returns it.
func (it *Item) Remove(key string) (any, bool) {
	if it.meta == nil {
		return nil, false
	}
	return it.meta.Delete(key)
}

// Path returns the display path recorded under [PathKey], or "" if the item's
// walker did not record one.
func (it *Item) Path() string {
	if v, ok := it.Get(PathKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// String implements fmt.Stringer for debugging output.
func (it *Item) String() string {
	return fmt.Sprintf("Item{value: %v, meta: %v}", it.value, it.meta)
}

// Metadata is an insertion-ordered string-keyed store. Writing to an existing
// key replaces the value but keeps the key's original position.
//
// Metadata is not safe for concurrent use; it is owned by the walk that
// created its item.
type Metadata struct {
	keys   []string
	values map[string]any
}

// Put stores value under key.
func (m *Metadata) Put(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m *Metadata) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Delete removes key and returns the value it held.
func (m *Metadata) Delete(key string) (any, bool) {
	v, ok := m.values[key]
	if !ok {
		return nil, false
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return v, true
}

// Len returns the number of stored keys.
func (m *Metadata) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order. The returned slice is a copy.
func (m *Metadata) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// All iterates over the entries in insertion order.
func (m *Metadata) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// String implements fmt.Stringer for debugging output.
func (m *Metadata) String() string {
	return fmt.Sprintf("%v", m.values)
}
