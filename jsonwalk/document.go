package jsonwalk

import (
	"fmt"
	"iter"
	"strings"
)

// Object is an insertion-ordered JSON/YAML mapping. Go's built-in maps do
// not preserve field order, so parsed documents use Object to keep children
// in document order, which the engine's ordering guarantees depend on.
//
// Writing to an existing field replaces its value but keeps the field's
// original position.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject creates an empty Object.
func NewObject() *Object {
	return &Object{}
}

// Put stores value under key and returns the object for chaining.
func (o *Object) Put(key string, value any) *Object {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
	return o
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Len returns the number of fields.
func (o *Object) Len() int {
	return len(o.keys)
}

// Keys returns the field names in document order. The returned slice is a
// copy.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Fields iterates over the fields in document order.
func (o *Object) Fields() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range o.keys {
			if !yield(k, o.values[k]) {
				return
			}
		}
	}
}

// String implements fmt.Stringer for debugging output.
func (o *Object) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, k := range o.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", k, o.values[k])
	}
	b.WriteString("}")
	return b.String()
}

// Array is an ordered JSON/YAML sequence. Elements may be scalars, *Object,
// or nested Array values.
type Array []any
