package walk

import (
	"fmt"
	"reflect"

	"sync"

	"github.com/google/uuid"

	"github.com/objwalk/objwalk/owerrors"
)

// Context is the engine instance for one walk. It owns the explicit stack of
// open Levels, the walker registry and handler list captured from the walker
// that started the walk, the context-scoped data store, and the walk's
// control state.
//
// The explicit stack is the sole source of truth for "where traversal is":
// pausing retains nothing but the stack and the flags, so a paused walk holds
// no goroutine and can be resumed from any other goroutine, continuing at the
// exact level and position where it stopped.
//
// All control methods are safe for concurrent use. The engine serializes the
// logical steps of the walk itself; user code (handlers, child sequences,
// hooks) always runs outside the engine's internal lock.
type Context struct {
	mu       sync.Mutex
	stack    []*Level
	paused   bool
	ended    bool
	tornDown bool
	driving  bool
	cause    error
	data     map[string]any
	endFns   []func(*Context)
	routed   map[*Base]bool

	rootBase *Base
	handlers []Handler
	root     *Item
	id       string
	logger   Logger
}

func newContext(w Walker, root *Item, opts ...Option) *Context {
	cfg := config{logger: NopLogger{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	id := uuid.NewString()
	c := &Context{
		rootBase: w.base(),
		handlers: w.base().snapshotHandlers(),
		root:     root,
		id:       id,
		logger:   cfg.logger.With("walk_id", id),
		routed:   make(map[*Base]bool),
	}
	if len(cfg.data) > 0 {
		c.data = make(map[string]any, len(cfg.data))
		for k, v := range cfg.data {
			c.data[k] = v
		}
	}
	return c
}

// ID returns the walk's unique identifier, present on every log record the
// engine emits for this walk.
func (c *Context) ID() string {
	return c.id
}

// Logger returns the logger the walk was configured with.
func (c *Context) Logger() Logger {
	return c.logger
}

// Root returns the root item the walk started from.
func (c *Context) Root() *Item {
	return c.root
}

// Depth returns the number of levels currently on the stack.
func (c *Context) Depth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.stack)
}

// CurrentLevel returns the deepest open level, or nil when the stack is
// empty.
func (c *Context) CurrentLevel() *Level {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.stack) == 0 {
		return nil
	}
	return c.stack[len(c.stack)-1]
}

// Ended reports whether the walk has ended. Once true it never reverts.
func (c *Context) Ended() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ended
}

// Paused reports whether the walk is currently paused.
func (c *Context) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Success reports whether no cause has been recorded for the walk.
func (c *Context) Success() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cause == nil
}

// Failed reports whether a cause has been recorded for the walk.
func (c *Context) Failed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cause != nil
}

// Cause returns the walk's recorded failure, or nil. The first failure wins;
// later failures are only logged.
func (c *Context) Cause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cause
}

// Put stores a context-scoped value and returns the context for chaining.
func (c *Context) Put(key string, value any) *Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = make(map[string]any)
	}
	c.data[key] = value
	return c
}

// Get returns the context-scoped value stored under key.
func (c *Context) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok
}

// Remove deletes the context-scoped value stored under key and returns it.
func (c *Context) Remove(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if ok {
		delete(c.data, key)
	}
	return v, ok
}

// Data returns a snapshot of the context-scoped store.
func (c *Context) Data() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := make(map[string]any, len(c.data))
	for k, v := range c.data {
		snapshot[k] = v
	}
	return snapshot
}

// OnEnd registers a callback invoked when the walk ends, after all open
// levels have been unwound, regardless of outcome. Callbacks run in
// registration order. Registering after the walk has ended has no effect.
func (c *Context) OnEnd(fn func(*Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endFns = append(c.endFns, fn)
}

// Pause suspends the walk at its current position. The walk stops before the
// next item is processed; remaining handlers for the item being fired are
// skipped. No goroutine or call stack is retained while paused. Pausing an
// ended or already paused walk is a no-op.
func (c *Context) Pause() {
	c.mu.Lock()
	if c.ended || c.paused {
		c.mu.Unlock()
		return
	}
	c.paused = true
	c.mu.Unlock()
	c.logger.Debug("walk paused")
}

// Resume continues a paused walk from exactly where it stopped. It may be
// called from any goroutine; the walk continues on the calling goroutine.
// Resuming an ended or non-paused walk is a no-op.
func (c *Context) Resume() {
	c.mu.Lock()
	if c.ended || !c.paused {
		c.mu.Unlock()
		return
	}
	c.paused = false
	c.mu.Unlock()
	c.logger.Debug("walk resumed")
	c.drive()
}

// End terminates the walk. Every still-open level is popped with its
// exit-level and end hooks run, no further items are processed, and the
// end-of-walk callbacks fire. End is idempotent and safe to call from inside
// a handler or from another goroutine. The walk's outcome is whatever was
// recorded before End: success unless a cause had been set.
func (c *Context) End() {
	c.mu.Lock()
	if c.ended {
		c.mu.Unlock()
		return
	}
	c.ended = true
	driving := c.driving
	c.mu.Unlock()
	c.logger.Debug("walk ending")
	if !driving {
		c.teardown()
	}
}

// SkipLevel abandons the remaining items of the deepest open level: the level
// is popped and its exit-level hook runs. The walk continues with the parent
// level's next item. While the drive loop is active the level is only marked
// and the loop pops it at its next checkpoint, so a skip from another
// goroutine never touches the level's pull iterator mid-step. A no-op once
// the walk has ended or when no level is open.
func (c *Context) SkipLevel() {
	c.mu.Lock()
	if c.ended || len(c.stack) == 0 {
		c.mu.Unlock()
		return
	}
	lvl := c.stack[len(c.stack)-1]
	if c.driving {
		lvl.skip = true
		c.mu.Unlock()
		c.logger.Debug("level skip requested")
		return
	}
	c.stack = c.stack[:len(c.stack)-1]
	c.mu.Unlock()
	c.logger.Debug("level skipped", "depth", c.Depth())
	c.closeLevel(lvl, false)
}

// push opens a new level for item's children produced by w, and registers
// w's end-of-walk routing the first time w participates in this walk.
func (c *Context) push(w Walker, item *Item) {
	c.routeOnce(w)

	lvl := newLevel(c, item, w.Children(item, c))

	c.mu.Lock()
	if c.ended {
		c.mu.Unlock()
		lvl.release()
		return
	}
	var parent *Level
	if len(c.stack) > 0 {
		parent = c.stack[len(c.stack)-1]
	}
	c.mu.Unlock()

	if le, ok := w.(LevelEnterer); ok {
		le.EnterLevel(lvl)
	}
	if parent != nil && parent.enterFn != nil {
		parent.enterFn(lvl)
	}

	c.mu.Lock()
	if c.ended {
		c.mu.Unlock()
		lvl.release()
		return
	}
	c.stack = append(c.stack, lvl)
	c.mu.Unlock()
}

// routeOnce registers w's success/error routing as an end-of-walk callback,
// exactly once per walker per walk.
func (c *Context) routeOnce(w Walker) {
	b := w.base()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.routed[b] {
		return
	}
	c.routed[b] = true
	c.endFns = append(c.endFns, b.route)
}

// drive advances the walk until it ends or pauses. Only one drive loop is
// active at a time; a second caller returns immediately and the active loop
// picks up any state change at its next checkpoint.
func (c *Context) drive() {
	c.mu.Lock()
	if c.driving {
		c.mu.Unlock()
		return
	}
	c.driving = true
	for !c.ended && !c.paused {
		if len(c.stack) == 0 {
			c.ended = true
			break
		}
		lvl := c.stack[len(c.stack)-1]
		if lvl.skip {
			c.stack = c.stack[:len(c.stack)-1]
			c.mu.Unlock()
			c.closeLevel(lvl, false)
			c.mu.Lock()
			continue
		}
		c.mu.Unlock()

		item, ok, err := c.pullItem(lvl)
		switch {
		case err != nil:
			c.fail(err)
		case !ok:
			c.popLevel(lvl)
		default:
			if err := c.step(item, lvl); err != nil {
				c.fail(err)
			}
		}

		c.mu.Lock()
	}
	ended := c.ended
	c.driving = false
	c.mu.Unlock()
	if ended {
		c.teardown()
	}
}

// step processes one pulled item: resolve a candidate walker by the value's
// exact runtime type, fire handlers if the firing rules say so, then delegate
// to the (possibly handler-overridden) walker while the walk is still active.
func (c *Context) step(item *Item, lvl *Level) error {
	var candidate Walker
	if v := item.Value(); v != nil {
		typ := reflect.TypeOf(v)
		candidate = c.rootBase.lookup(typ)
		if candidate == nil {
			c.logger.Debug("no walker registered for type", "type", typ.String(), "path", item.Path())
		}
	}

	slot := &walkerSlot{walker: candidate}

	// Fire only if the value is a leaf from the engine's point of view, or
	// its walker opted into entry events.
	if candidate == nil || candidate.FiresEntryEvent() {
		ev := &Event{item: item, level: lvl, slot: slot}
		for _, h := range c.handlers {
			if !c.active() {
				break
			}
			if err := c.invoke(h, ev); err != nil {
				return &owerrors.HandlerError{
					Path:  item.Path(),
					Depth: c.Depth() - 1,
					Cause: err,
				}
			}
		}
	}

	if !c.active() {
		return nil
	}
	if w := slot.get(); w != nil {
		return c.descend(w, item)
	}
	return nil
}

// pullItem advances lvl's sequence, converting a panic raised by the walker's
// child sequence into an error so it becomes the walk's cause instead of
// escaping to the caller of Handle or Resume.
func (c *Context) pullItem(lvl *Level) (item *Item, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = owerrors.Recovered(r)
		}
	}()
	item, ok = lvl.pull()
	return item, ok, nil
}

// descend opens the child level for item via w, converting a panic from the
// walker's Children call or an enter-level hook into an error.
func (c *Context) descend(w Walker, item *Item) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = owerrors.Recovered(r)
		}
	}()
	c.push(w, item)
	return nil
}

// invoke runs one handler, converting a panic into an error.
func (c *Context) invoke(h Handler, ev *Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = owerrors.Recovered(r)
		}
	}()
	return h(ev)
}

// fail records err as the walk's cause and requests termination. The first
// cause wins; an error surfacing after the walk was already ended is logged
// and dropped.
func (c *Context) fail(err error) {
	c.mu.Lock()
	if c.ended || c.cause != nil {
		c.mu.Unlock()
		c.logger.Error("error after walk outcome was decided", "error", err)
		return
	}
	c.cause = err
	c.ended = true
	c.mu.Unlock()
	c.logger.Error("walk failed", "error", err)
}

func (c *Context) active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.ended && !c.paused
}

// popLevel removes lvl if it is still the top of the stack and runs its
// exit hook. A concurrent End may already have unwound it.
func (c *Context) popLevel(lvl *Level) {
	c.mu.Lock()
	n := len(c.stack)
	if n == 0 || c.stack[n-1] != lvl {
		c.mu.Unlock()
		return
	}
	c.stack = c.stack[:n-1]
	c.mu.Unlock()
	c.closeLevel(lvl, false)
}

// closeLevel releases the level's sequence and runs its hooks. Hook failures
// never fail the walk; they are reported through the logger only.
func (c *Context) closeLevel(lvl *Level, atEnd bool) {
	lvl.release()
	if lvl.exitFn != nil {
		c.safeHook("exit-level", func() { lvl.exitFn() })
	}
	if atEnd && lvl.endFn != nil {
		c.safeHook("level-end", func() { lvl.endFn(c) })
	}
}

// teardown unwinds every still-open level and runs the end-of-walk
// callbacks. It runs exactly once per walk.
func (c *Context) teardown() {
	c.mu.Lock()
	if c.tornDown {
		c.mu.Unlock()
		return
	}
	c.tornDown = true
	c.mu.Unlock()

	for {
		c.mu.Lock()
		n := len(c.stack)
		if n == 0 {
			c.mu.Unlock()
			break
		}
		lvl := c.stack[n-1]
		c.stack = c.stack[:n-1]
		c.mu.Unlock()
		c.closeLevel(lvl, true)
	}

	c.mu.Lock()
	fns := c.endFns
	c.endFns = nil
	success := c.cause == nil
	c.mu.Unlock()

	c.logger.Debug("walk ended", "success", success)
	for _, fn := range fns {
		c.safeEndFn(fn)
	}
}

// safeHook runs a level hook, logging a panic as a teardown error. The
// walk's recorded cause is never replaced by a hook failure.
func (c *Context) safeHook(stage string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			terr := &owerrors.TeardownError{Stage: stage, Cause: owerrors.Recovered(r)}
			c.logger.Error("hook failed during teardown", "error", terr)
		}
	}()
	fn()
}

// safeEndFn runs an end-of-walk callback under the same policy as safeHook.
func (c *Context) safeEndFn(fn func(*Context)) {
	defer func() {
		if r := recover(); r != nil {
			terr := &owerrors.TeardownError{Stage: "end-callback", Cause: owerrors.Recovered(r)}
			c.logger.Error("end callback failed", "error", terr)
		}
	}()
	fn(c)
}

// String implements fmt.Stringer for debugging output.
func (c *Context) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("Context{id: %s, depth: %d, paused: %t, ended: %t}", c.id, len(c.stack), c.paused, c.ended)
}
