package walk

import (
	"fmt"
	"iter"
	"reflect"
	"sync"

	"github.com/objwalk/objwalk/owerrors"
)

// Walker teaches the engine how to traverse one concrete value type: which
// runtime type it matches and how to enumerate that type's children, in a
// defined and stable order.
//
// Concrete walkers embed [Base], which supplies the registry of child
// walkers, the handler and callback registration methods, and the default
// FiresEntryEvent behavior. A minimal walker implements only Type and
// Children:
//
//	type TeamWalker struct {
//		walk.Base
//	}
//
//	func (w *TeamWalker) Type() reflect.Type {
//		return reflect.TypeOf((*Team)(nil))
//	}
//
//	func (w *TeamWalker) Children(item *walk.Item, c *walk.Context) iter.Seq[*walk.Item] {
//		team := item.Value().(*Team)
//		return func(yield func(*walk.Item) bool) {
//			for _, m := range team.Members {
//				if !yield(item.NewChild(m)) {
//					return
//				}
//			}
//		}
//	}
type Walker interface {
	// Type returns the exact runtime type this walker matches. Registry
	// lookup is by exact type, not assignability: a value of a different
	// concrete type never matches, even if it implements the same
	// interfaces.
	Type() reflect.Type

	// Children produces the ordered children of item's value, which is
	// guaranteed to be of this walker's Type. Each call may start a fresh
	// sequence, but any returned sequence is consumed at most once, left
	// to right. An empty composite yields an empty sequence.
	Children(item *Item, c *Context) iter.Seq[*Item]

	// FiresEntryEvent reports whether a composite value matched by this
	// walker generates an event of its own before its children are
	// processed. Base returns false: only descendants generate events.
	FiresEntryEvent() bool

	// base anchors the walker to its embedded Base. Having an unexported
	// method here means walkers must embed Base rather than reimplement
	// the registration surface.
	base() *Base
}

// LevelEnterer is an optional interface for walkers that want a hook when the
// engine opens a new level for one of their values, before any of the level's
// items are processed.
type LevelEnterer interface {
	EnterLevel(lvl *Level)
}

// Handler is an event handler invoked once per fired item. Returning a
// non-nil error fails the walk: the error is recorded as the walk's cause and
// no further items are processed.
type Handler func(ev *Event) error

// Base carries the registration state shared by all walkers: the type-keyed
// registry of child walkers, the event handler list, and the end-of-walk
// callbacks. Embed it (by value) in every concrete walker.
//
// The zero value is ready to use. Registration is safe for concurrent use,
// but the expected pattern is to fully configure a walker before handing it
// to [Handle]; a configured walker is then safely shareable across many
// concurrent walks.
type Base struct {
	mu       sync.Mutex
	registry map[reflect.Type]Walker
	handlers []Handler
	endFn    func(*Context)
	errFn    func(*Context)
}

func (b *Base) base() *Base { return b }

// FiresEntryEvent implements the Walker default: composite values matched by
// a walker do not generate events of their own.
func (b *Base) FiresEntryEvent() bool { return false }

// Register adds child walkers to this walker's registry, keyed by their
// declared Type. Registering two walkers for the same type is a configuration
// error; on error the registry is left with the walkers registered so far.
func (b *Base) Register(children ...Walker) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, child := range children {
		if child == nil {
			return &owerrors.ConfigError{Message: "nil walker"}
		}
		typ := child.Type()
		if typ == nil {
			return &owerrors.ConfigError{
				Walker:  fmt.Sprintf("%T", child),
				Message: "walker declares no type",
			}
		}
		if b.registry == nil {
			b.registry = make(map[reflect.Type]Walker)
		}
		if _, dup := b.registry[typ]; dup {
			return &owerrors.ConfigError{
				Walker:  fmt.Sprintf("%T", child),
				Type:    typ.String(),
				Message: "walker already registered",
			}
		}
		b.registry[typ] = child
	}
	return nil
}

// OnEvent registers an event handler. All registered handlers are invoked per
// fired item, in registration order.
func (b *Base) OnEvent(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// OnEnd registers the callback invoked when a walk started by this walker
// ends successfully. At most one is active; the last registration wins.
func (b *Base) OnEnd(fn func(*Context)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.endFn = fn
}

// OnError registers the callback invoked when a walk started by this walker
// ends with a recorded cause. At most one is active; the last registration
// wins.
func (b *Base) OnError(fn func(*Context)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.errFn = fn
}

// route inspects the finished walk's outcome and invokes exactly one of the
// success/error callbacks, if registered.
func (b *Base) route(c *Context) {
	b.mu.Lock()
	endFn, errFn := b.endFn, b.errFn
	b.mu.Unlock()
	if c.Success() {
		if endFn != nil {
			endFn(c)
		}
	} else if errFn != nil {
		errFn(c)
	}
}

// lookup returns the walker registered for typ, or nil.
func (b *Base) lookup(typ reflect.Type) Walker {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.registry[typ]
}

// snapshotHandlers returns the current handler list.
func (b *Base) snapshotHandlers() []Handler {
	b.mu.Lock()
	defer b.mu.Unlock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	return handlers
}

// Handle starts a walk over value using w and the walkers registered on it,
// and returns the walk's Context. The value is wrapped in a fresh root Item.
//
// Handle drives the walk as far as it can before returning: unless a handler
// paused it, the returned Context is already ended and can be inspected with
// [Context.Success], [Context.Failed] and [Context.Cause]. A paused Context
// stays live until [Context.Resume] (possibly from another goroutine) lets
// the walk run to completion.
//
// Handler failures do not propagate out of Handle; register an error callback
// with [Base.OnError] or inspect the Context.
func Handle(w Walker, value any, opts ...Option) *Context {
	return HandleItem(w, NewItem(value), opts...)
}

// HandleItem is like [Handle] but walks a caller-built root item, which may
// already carry metadata.
func HandleItem(w Walker, root *Item, opts ...Option) *Context {
	c := newContext(w, root, opts...)
	c.logger.Debug("walk starting", "root_type", fmt.Sprintf("%T", root.Value()))
	if err := c.descend(w, root); err != nil {
		c.fail(err)
	}
	c.drive()
	return c
}

// Delegate opens a new level for item's children using w, inside an already
// running walk. It is what the engine itself uses to descend after an event
// fires, exposed so handlers and walkers can splice a sub-walk in manually.
// The new level is drained before the walk returns to item's siblings.
//
// Delegating into an ended walk returns [owerrors.ErrWalkEnded].
func Delegate(w Walker, item *Item, c *Context) error {
	if c.Ended() {
		return owerrors.ErrWalkEnded
	}
	c.push(w, item)
	return nil
}
