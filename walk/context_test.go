package walk

import (
	"errors"
	"iter"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/objwalk/objwalk/owerrors"
)

// box is a second composite type for dispatch-override tests. No walker for
// it is registered by default, so boxes fire as leaves.
type box struct {
	items []any
}

type boxWalker struct {
	Base
}

func (w *boxWalker) Type() reflect.Type { return reflect.TypeOf((*box)(nil)) }

func (w *boxWalker) Children(item *Item, c *Context) iter.Seq[*Item] {
	b := item.Value().(*box)
	return func(yield func(*Item) bool) {
		for _, v := range b.items {
			if !yield(item.NewChild(v)) {
				return
			}
		}
	}
}

// faultyWalker's child sequence panics on its first pull.
type faultyWalker struct {
	Base
}

func (w *faultyWalker) Type() reflect.Type { return reflect.TypeOf((*box)(nil)) }

func (w *faultyWalker) Children(item *Item, c *Context) iter.Seq[*Item] {
	return func(yield func(*Item) bool) {
		panic("child sequence blew up")
	}
}

// eagerFaultyWalker panics while building the child sequence.
type eagerFaultyWalker struct {
	Base
}

func (w *eagerFaultyWalker) Type() reflect.Type { return reflect.TypeOf((*box)(nil)) }

func (w *eagerFaultyWalker) Children(item *Item, c *Context) iter.Seq[*Item] {
	panic("cannot enumerate children")
}

// recordLogger captures log messages for assertions. Attribute values are
// dropped; tests match on the message text only.
type recordLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *recordLogger) log(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, msg)
}

func (l *recordLogger) Debug(msg string, _ ...any) { l.log(msg) }
func (l *recordLogger) Info(msg string, _ ...any)  { l.log(msg) }
func (l *recordLogger) Warn(msg string, _ ...any)  { l.log(msg) }
func (l *recordLogger) Error(msg string, _ ...any) { l.log(msg) }
func (l *recordLogger) With(_ ...any) Logger       { return l }

func (l *recordLogger) contains(sub string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.msgs {
		if strings.Contains(m, sub) {
			return true
		}
	}
	return false
}

func TestDepthFirstPreOrder(t *testing.T) {
	root := &tree{name: "root", children: []any{
		"a",
		&tree{name: "sub", children: []any{
			"b",
			&tree{name: "deep", children: []any{"c"}},
			"d",
		}},
		"e",
	}}

	w := newTreeWalker(t)
	var got []any
	collect(w, &got)

	c := Handle(w, root)

	require.True(t, c.Success())
	// A deeper level drains completely before its opener's next sibling.
	assert.Equal(t, []any{"a", "b", "c", "d", "e"}, got)
}

func TestCompositesFireNoEventByDefault(t *testing.T) {
	w := newTreeWalker(t)
	var got []any
	collect(w, &got)

	Handle(w, &tree{name: "root", children: []any{
		&tree{name: "sub", children: []any{"x"}},
	}})

	assert.Equal(t, []any{"x"}, got)
}

func TestFiresEntryEvent(t *testing.T) {
	sub := &tree{name: "sub", children: []any{"x"}}

	w := &treeWalker{entry: true}
	require.NoError(t, w.Register(w))
	var got []any
	collect(w, &got)

	Handle(w, &tree{name: "root", children: []any{"a", sub}})

	// The composite fires before its children: pre-order.
	assert.Equal(t, []any{"a", sub, "x"}, got)
}

func TestEventDepthAndPath(t *testing.T) {
	root := &tree{name: "root", children: []any{
		"x",
		&tree{name: "sub", children: []any{"y"}},
	}}

	w := newTreeWalker(t)
	depths := make(map[any]int)
	paths := make(map[any]string)
	w.OnEvent(func(ev *Event) error {
		depths[ev.Value()] = ev.Depth()
		paths[ev.Value()] = ev.Item().Parent().Path()
		return nil
	})

	Handle(w, root)

	assert.Equal(t, 0, depths["x"])
	assert.Equal(t, 1, depths["y"])
	assert.Equal(t, "", paths["x"])
	assert.Equal(t, ".sub", paths["y"])
}

func TestEndStopsWalkEarly(t *testing.T) {
	w := newTreeWalker(t)
	var got []any
	var ended int
	w.OnEnd(func(*Context) { ended++ })
	w.OnEvent(func(ev *Event) error {
		got = append(got, ev.Value())
		if len(got) == 2 {
			ev.End()
		}
		return nil
	})

	c := Handle(w, &tree{name: "root", children: []any{"a", "b", "c", "d"}})

	assert.True(t, c.Ended())
	// Ending early is not a failure.
	assert.True(t, c.Success())
	assert.Equal(t, []any{"a", "b"}, got)
	assert.Equal(t, 1, ended)
}

func TestPauseResumeSameGoroutine(t *testing.T) {
	build := func() *tree {
		return &tree{name: "root", children: []any{
			"a",
			&tree{name: "sub", children: []any{"b", "c"}},
			"d",
		}}
	}

	// Reference run without interruption.
	ref := newTreeWalker(t)
	var want []any
	collect(ref, &want)
	Handle(ref, build())

	w := newTreeWalker(t)
	var got []any
	w.OnEvent(func(ev *Event) error {
		got = append(got, ev.Value())
		if len(got) == 2 {
			ev.Context().Pause()
		}
		return nil
	})

	c := Handle(w, build())

	require.True(t, c.Paused())
	require.False(t, c.Ended())
	require.Equal(t, []any{"a", "b"}, got)

	c.Resume()

	assert.True(t, c.Ended())
	assert.True(t, c.Success())
	assert.Equal(t, want, got)
}

func TestResumeFromAnotherGoroutine(t *testing.T) {
	w := newTreeWalker(t)
	var mu sync.Mutex
	var got []any
	w.OnEvent(func(ev *Event) error {
		mu.Lock()
		got = append(got, ev.Value())
		n := len(got)
		mu.Unlock()
		if n == 1 {
			ev.Context().Pause()
		}
		return nil
	})

	c := Handle(w, &tree{name: "root", children: []any{"a", "b", "c"}})
	require.True(t, c.Paused())

	done := make(chan struct{})
	c.OnEnd(func(*Context) { close(done) })
	go c.Resume()
	<-done

	assert.True(t, c.Ended())
	assert.True(t, c.Success())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []any{"a", "b", "c"}, got)
}

func TestHandlerErrorFailsWalk(t *testing.T) {
	sentinel := errors.New("bad value")

	w := newTreeWalker(t)
	var got []any
	w.OnEvent(func(ev *Event) error {
		got = append(got, ev.Value())
		if ev.Value() == "b" {
			return sentinel
		}
		return nil
	})

	c := Handle(w, &tree{name: "root", children: []any{
		"a",
		&tree{name: "sub", children: []any{"b", "c"}},
		"d",
	}})

	assert.True(t, c.Ended())
	assert.True(t, c.Failed())
	assert.Equal(t, []any{"a", "b"}, got)

	assert.ErrorIs(t, c.Cause(), owerrors.ErrHandler)
	assert.ErrorIs(t, c.Cause(), sentinel)

	var herr *owerrors.HandlerError
	require.ErrorAs(t, c.Cause(), &herr)
	assert.Equal(t, 1, herr.Depth)
}

func TestHandlerPanicFailsWalk(t *testing.T) {
	w := newTreeWalker(t)
	w.OnEvent(func(ev *Event) error {
		if ev.Value() == "b" {
			panic("unexpected shape")
		}
		return nil
	})

	c := Handle(w, &tree{name: "root", children: []any{"a", "b", "c"}})

	assert.True(t, c.Failed())
	assert.ErrorIs(t, c.Cause(), owerrors.ErrHandler)
	assert.Contains(t, c.Cause().Error(), "unexpected shape")
}

func TestErrorSkipsLaterHandlers(t *testing.T) {
	w := newTreeWalker(t)
	var second int
	w.OnEvent(func(*Event) error { return errors.New("first wins") })
	w.OnEvent(func(*Event) error { second++; return nil })

	c := Handle(w, &tree{name: "root", children: []any{"a"}})

	assert.True(t, c.Failed())
	assert.Zero(t, second)
}

func TestSkipLevel(t *testing.T) {
	w := newTreeWalker(t)
	var got []any
	w.OnEvent(func(ev *Event) error {
		got = append(got, ev.Value())
		if ev.Value() == "b1" {
			ev.Context().SkipLevel()
		}
		return nil
	})

	c := Handle(w, &tree{name: "root", children: []any{
		"a",
		&tree{name: "sub", children: []any{"b1", "b2", "b3"}},
		"c",
	}})

	require.True(t, c.Success())
	assert.Equal(t, []any{"a", "b1", "c"}, got)
}

func TestWalkerChildrenPanicBecomesCause(t *testing.T) {
	w := newTreeWalker(t)
	require.NoError(t, w.Register(&faultyWalker{}))

	var got []any
	var failed, exits int
	collect(w, &got)
	w.OnEvent(func(ev *Event) error {
		ev.Level().OnExitLevel(func() { exits++ })
		return nil
	})
	w.OnError(func(c *Context) {
		failed++
		assert.Error(t, c.Cause())
	})

	c := Handle(w, &tree{name: "root", children: []any{"a", &box{}, "z"}})

	assert.True(t, c.Ended())
	assert.True(t, c.Failed())
	assert.Contains(t, c.Cause().Error(), "child sequence blew up")
	assert.Equal(t, []any{"a"}, got)
	assert.Equal(t, 1, failed)
	// The root level was still unwound with its exit hook run.
	assert.Equal(t, 1, exits)
}

func TestWalkerPanicDuringDescentBecomesCause(t *testing.T) {
	w := newTreeWalker(t)
	require.NoError(t, w.Register(&eagerFaultyWalker{}))
	var got []any
	collect(w, &got)

	c := Handle(w, &tree{name: "root", children: []any{"a", &box{}, "z"}})

	assert.True(t, c.Failed())
	assert.Contains(t, c.Cause().Error(), "cannot enumerate children")
	assert.Equal(t, []any{"a"}, got)
}

func TestWalkerPanicAtRootIsContained(t *testing.T) {
	w := &eagerFaultyWalker{}
	var failed int
	w.OnError(func(*Context) { failed++ })

	c := Handle(w, &box{items: []any{"a"}})

	require.NotNil(t, c)
	assert.True(t, c.Ended())
	assert.True(t, c.Failed())
	assert.Contains(t, c.Cause().Error(), "cannot enumerate children")
	assert.Equal(t, 1, failed)
}

func TestSetWalkerOverridesDispatch(t *testing.T) {
	inner := &box{items: []any{"x", "y"}}

	w := newTreeWalker(t)
	bw := &boxWalker{}
	var got []any
	w.OnEvent(func(ev *Event) error {
		got = append(got, ev.Value())
		if _, ok := ev.Value().(*box); ok {
			require.False(t, ev.HasWalker())
			ev.SetWalker(bw)
		}
		return nil
	})

	c := Handle(w, &tree{name: "root", children: []any{"a", inner, "c"}})

	require.True(t, c.Success())
	assert.Equal(t, []any{"a", inner, "x", "y", "c"}, got)
}

func TestSetWalkerNilSuppressesDescent(t *testing.T) {
	sub := &tree{name: "sub", children: []any{"hidden"}}

	w := &treeWalker{entry: true}
	require.NoError(t, w.Register(w))
	var got []any
	w.OnEvent(func(ev *Event) error {
		got = append(got, ev.Value())
		if ev.Value() == sub {
			require.True(t, ev.HasWalker())
			ev.SetWalker(nil)
		}
		return nil
	})

	c := Handle(w, &tree{name: "root", children: []any{"a", sub}})

	require.True(t, c.Success())
	assert.Equal(t, []any{"a", sub}, got)
}

func TestSkipLevelFromAnotherGoroutine(t *testing.T) {
	w := newTreeWalker(t)
	var got []any
	w.OnEvent(func(ev *Event) error {
		got = append(got, ev.Value())
		if ev.Value() == "b1" {
			done := make(chan struct{})
			go func() {
				ev.Context().SkipLevel()
				close(done)
			}()
			<-done
		}
		return nil
	})

	c := Handle(w, &tree{name: "root", children: []any{
		&tree{name: "sub", children: []any{"b1", "b2", "b3"}},
		"z",
	}})

	require.True(t, c.Success())
	assert.Equal(t, []any{"b1", "z"}, got)
}

func TestSkipLevelWhilePaused(t *testing.T) {
	w := newTreeWalker(t)
	var got []any
	w.OnEvent(func(ev *Event) error {
		got = append(got, ev.Value())
		if ev.Value() == "b1" {
			ev.Context().Pause()
		}
		return nil
	})

	c := Handle(w, &tree{name: "root", children: []any{
		&tree{name: "sub", children: []any{"b1", "b2"}},
		"z",
	}})
	require.True(t, c.Paused())

	// No drive loop is active, so the level closes immediately.
	c.SkipLevel()
	require.Equal(t, 1, c.Depth())

	c.Resume()

	assert.True(t, c.Success())
	assert.Equal(t, []any{"b1", "z"}, got)
}

func TestPauseResumeWithinHandler(t *testing.T) {
	sub := &tree{name: "sub", children: []any{"x"}}

	w := &treeWalker{entry: true}
	require.NoError(t, w.Register(w))
	var first, second []any
	w.OnEvent(func(ev *Event) error {
		first = append(first, ev.Value())
		if ev.Value() == sub {
			ev.Context().Pause()
			require.True(t, ev.Context().Paused())
			ev.Context().Resume()
		}
		return nil
	})
	w.OnEvent(func(ev *Event) error {
		second = append(second, ev.Value())
		return nil
	})

	c := Handle(w, &tree{name: "root", children: []any{"a", sub, "z"}})

	assert.True(t, c.Ended())
	assert.True(t, c.Success())
	// Resuming inside the same handler invocation leaves nothing paused: the
	// item's later handlers still fire and its children still descend.
	assert.Equal(t, []any{"a", sub, "x", "z"}, first)
	assert.Equal(t, first, second)
}

func TestControlsAreIdempotent(t *testing.T) {
	w := newTreeWalker(t)
	var ended int
	w.OnEnd(func(*Context) { ended++ })

	c := Handle(w, &tree{name: "root", children: []any{"a"}})
	require.True(t, c.Ended())

	c.End()
	c.End()
	c.Pause()
	c.Resume()

	assert.True(t, c.Ended())
	assert.False(t, c.Paused())
	assert.Equal(t, 1, ended)
}

func TestLevelHooksOnEarlyEnd(t *testing.T) {
	var exits, ends int

	w := newTreeWalker(t)
	w.OnEvent(func(ev *Event) error {
		if ev.Value() == "b" {
			ev.Level().OnExitLevel(func() { exits++ })
			ev.Level().OnEnd(func(*Context) { ends++ })
			ev.End()
		}
		return nil
	})

	c := Handle(w, &tree{name: "root", children: []any{
		&tree{name: "sub", children: []any{"b", "never"}},
	}})

	assert.True(t, c.Success())
	// The still-open level is unwound exactly once, with both hooks run.
	assert.Equal(t, 1, exits)
	assert.Equal(t, 1, ends)
}

func TestTeardownHookPanicIsLoggedOnly(t *testing.T) {
	logger := &recordLogger{}

	w := newTreeWalker(t)
	w.OnEvent(func(ev *Event) error {
		ev.Level().OnExitLevel(func() { panic("hook broke") })
		return nil
	})

	c := Handle(w, &tree{name: "root", children: []any{"a"}}, WithLogger(logger))

	assert.True(t, c.Success())
	assert.Nil(t, c.Cause())
	assert.True(t, logger.contains("hook failed during teardown"))
}

func TestEndCallbackPanicIsLoggedOnly(t *testing.T) {
	logger := &recordLogger{}

	w := newTreeWalker(t)
	var after int
	w.OnEvent(func(ev *Event) error {
		ev.Context().OnEnd(func(*Context) { panic("callback broke") })
		ev.Context().OnEnd(func(*Context) { after++ })
		return nil
	})

	c := Handle(w, &tree{name: "root", children: []any{"a"}}, WithLogger(logger))

	assert.True(t, c.Success())
	// Later callbacks still run after an earlier one panics.
	assert.Equal(t, 1, after)
	assert.True(t, logger.contains("end callback failed"))
}

func TestContextData(t *testing.T) {
	seed := map[string]any{"tenant": "acme"}

	w := newTreeWalker(t)
	w.OnEvent(func(ev *Event) error {
		c := ev.Context()
		v, ok := c.Get("tenant")
		require.True(t, ok)
		require.Equal(t, "acme", v)
		c.Put("seen", ev.Value())
		return nil
	})

	c := Handle(w, &tree{name: "root", children: []any{"a"}}, WithContextData(seed))

	// The seed map was copied at start.
	seed["tenant"] = "other"
	v, ok := c.Get("tenant")
	require.True(t, ok)
	assert.Equal(t, "acme", v)

	assert.Equal(t, map[string]any{"tenant": "acme", "seen": "a"}, c.Data())

	removed, ok := c.Remove("seen")
	require.True(t, ok)
	assert.Equal(t, "a", removed)
	_, ok = c.Get("seen")
	assert.False(t, ok)
}

func TestContextOnEndOrder(t *testing.T) {
	w := newTreeWalker(t)
	var order []string
	w.OnEvent(func(ev *Event) error {
		ev.Context().OnEnd(func(*Context) { order = append(order, "first") })
		ev.Context().OnEnd(func(*Context) { order = append(order, "second") })
		return nil
	})

	c := Handle(w, &tree{name: "root", children: []any{"a"}})

	require.True(t, c.Ended())
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestContextIDIsUnique(t *testing.T) {
	w := newTreeWalker(t)
	a := Handle(w, &tree{name: "root"})
	b := Handle(w, &tree{name: "root"})

	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestSharedWalkerConcurrentWalks(t *testing.T) {
	w := newTreeWalker(t)
	var mu sync.Mutex
	counts := make(map[string]int)
	w.OnEvent(func(ev *Event) error {
		mu.Lock()
		counts[ev.Value().(string)]++
		mu.Unlock()
		return nil
	})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := Handle(w, &tree{name: "root", children: []any{"a", "b"}})
			assert.True(t, c.Success())
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, map[string]int{"a": 8, "b": 8}, counts)
}
