package walk

import "iter"

// Level represents one open frontier of a walk: the not-yet-visited children
// of one composite value. The engine keeps an explicit stack of levels; the
// top of the stack is the frontier currently being drained.
//
// A level's item sequence is consumed at most once, strictly left to right,
// and a level is popped exactly once: when its sequence is exhausted, when a
// handler skips it, or when the walk ends early.
//
// Levels carry their own key/value store for state scoped to one depth, and
// three optional hooks. Hooks and level data are owned by the walk's single
// logical thread; they must not be touched from outside it.
type Level struct {
	ctx    *Context
	parent *Item

	next func() (*Item, bool)
	stop func()

	// skip marks the level for removal at the drive loop's next checkpoint.
	// Guarded by ctx.mu.
	skip bool

	data map[string]any

	enterFn func(*Level)
	exitFn  func()
	endFn   func(*Context)
}

func newLevel(c *Context, parent *Item, seq iter.Seq[*Item]) *Level {
	next, stop := iter.Pull(seq)
	return &Level{ctx: c, parent: parent, next: next, stop: stop}
}

// pull returns the next pending item, or ok=false once the sequence is
// exhausted. Calls are serialized by the context's drive discipline.
func (l *Level) pull() (*Item, bool) {
	return l.next()
}

// release stops the underlying sequence. Safe to call more than once.
func (l *Level) release() {
	l.stop()
}

// Context returns the walk this level belongs to.
func (l *Level) Context() *Context {
	return l.ctx
}

// Parent returns the item whose children this level holds.
func (l *Level) Parent() *Item {
	return l.parent
}

// OnEnterLevel registers a hook fired when a deeper level is entered from
// this one, receiving the new level before any of its items are processed.
func (l *Level) OnEnterLevel(fn func(*Level)) {
	l.enterFn = fn
}

// OnExitLevel registers a hook fired exactly once when this level is popped,
// whether by exhaustion, [Context.SkipLevel], or early termination.
func (l *Level) OnExitLevel(fn func()) {
	l.exitFn = fn
}

// OnEnd registers a hook fired during walk teardown if this level is still
// open when the walk ends. Levels already popped do not receive it.
func (l *Level) OnEnd(fn func(*Context)) {
	l.endFn = fn
}

// Put stores a level-scoped value and returns the level for chaining.
func (l *Level) Put(key string, value any) *Level {
	if l.data == nil {
		l.data = make(map[string]any)
	}
	l.data[key] = value
	return l
}

// Get returns the level-scoped value stored under key.
func (l *Level) Get(key string) (any, bool) {
	v, ok := l.data[key]
	return v, ok
}

// Remove deletes the level-scoped value stored under key and returns it.
func (l *Level) Remove(key string) (any, bool) {
	v, ok := l.data[key]
	if ok {
		delete(l.data, key)
	}
	return v, ok
}

// Data returns the level's backing store, creating it on first use. Mutations
// are visible to later hooks and handlers at this depth.
func (l *Level) Data() map[string]any {
	if l.data == nil {
		l.data = make(map[string]any)
	}
	return l.data
}
