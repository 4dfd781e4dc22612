package walk

import "fmt"

// walkerSlot holds the walker that will process an item's children, shared
// between one dispatch step and the event handed to handlers so that a
// handler can redirect dispatch. Access is serialized by the engine's step
// discipline.
type walkerSlot struct {
	walker Walker
}

func (s *walkerSlot) get() Walker { return s.walker }

// Event is the per-item notification delivered to handlers. It is a
// read-only view over the visited item plus a mutable slot holding the
// walker, if any, that will process the item's descendants.
//
// An Event is only valid for the duration of the handler invocation it was
// passed to.
type Event struct {
	item  *Item
	level *Level
	slot  *walkerSlot
}

// Value returns the visited value. It may be nil.
func (e *Event) Value() any {
	return e.item.Value()
}

// Item returns the visited item.
func (e *Event) Item() *Item {
	return e.item
}

// Meta returns the visited item's metadata.
func (e *Event) Meta() *Metadata {
	return e.item.Meta()
}

// Path returns the display path recorded by the item's walker under
// [PathKey], or "" if none was recorded.
func (e *Event) Path() string {
	return e.item.Path()
}

// Depth returns the item's depth: 0 for the root value's own children,
// increasing by one per nested level.
func (e *Event) Depth() int {
	return e.level.ctx.Depth() - 1
}

// Level returns the level the item was pulled from.
func (e *Event) Level() *Level {
	return e.level
}

// Context returns the walk's context.
func (e *Event) Context() *Context {
	return e.level.ctx
}

// End terminates the walk. Shorthand for Context().End().
func (e *Event) End() {
	e.level.ctx.End()
}

// HasWalker reports whether a walker is set to process this item's children.
func (e *Event) HasWalker() bool {
	return e.slot.walker != nil
}

// Walker returns the walker set to process this item's children, or nil.
func (e *Event) Walker() Walker {
	return e.slot.walker
}

// SetWalker overrides which walker will process this item's children once
// all handlers for the item have run. Setting nil suppresses descent.
func (e *Event) SetWalker(w Walker) {
	e.slot.walker = w
}

// String implements fmt.Stringer for debugging output.
func (e *Event) String() string {
	return fmt.Sprintf("Event{value: %v, path: %q, depth: %d}", e.Value(), e.Path(), e.Depth())
}
