// Package walk implements a pausable, event-driven traversal engine for
// hierarchical data of any shape.
//
// The engine visits the nodes of a nested structure depth-first and fires one
// event per visited node to the handlers registered on the walker that
// started the walk. Traversal position is tracked by an explicit stack of
// [Level] values rather than by the native call stack, which is what allows a
// walk to be suspended indefinitely and resumed later, from any goroutine,
// without holding a blocked goroutine in between.
//
// # Core Types
//
//   - [Item]: one visited value plus its metadata and parent link
//   - [Walker]: pluggable behavior that enumerates one value type's children
//   - [Level]: the live frontier of one composite value's unvisited children
//   - [Context]: the engine instance owning the stack and control state
//   - [Event]: the per-item notification delivered to handlers
//
// # Starting a Walk
//
// Configure a walker, register handlers, and call [Handle]:
//
//	w := jsonwalk.NewObjectWalker()
//	w.OnEvent(func(ev *walk.Event) error {
//		fmt.Printf("%s = %v\n", ev.Path(), ev.Value())
//		return nil
//	})
//	ctx := walk.Handle(w, doc)
//	if ctx.Failed() {
//		log.Fatal(ctx.Cause())
//	}
//
// # Dispatch Rules
//
// When the engine pulls an item, it looks up the item's value type in the
// registry of the walker that started the walk. Dispatch is by exact runtime
// type; subtypes and interface implementations do not match.
//
//   - No walker registered: the value is a leaf and an event fires for it.
//   - A walker is registered and its FiresEntryEvent is false (the default):
//     no event fires for the value itself, only for its descendants.
//   - A walker is registered and FiresEntryEvent is true: an event fires for
//     the value first, then its children are processed.
//
// Handlers can redirect dispatch for a single item with [Event.SetWalker]
// before the engine descends.
//
// # Flow Control
//
// The walk's state machine moves between active, paused, and ended:
//
//   - [Context.Pause] suspends the walk; nothing but the explicit stack is
//     retained while paused.
//   - [Context.Resume] continues at the exact position recorded by the
//     stack. It may be called from any goroutine, at any later time.
//   - [Context.SkipLevel] abandons the remaining siblings at the deepest
//     open level.
//   - [Context.End] terminates the walk, unwinding every open level.
//
// Ending is monotonic: once ended, all control calls are no-ops. Handlers
// not yet fired for the item being processed when the walk pauses or ends
// are skipped, not deferred.
//
// # Error Handling
//
// A handler failing (returning an error or panicking) fails the walk: the
// failure is recorded as the walk's cause, wrapped in
// [owerrors.HandlerError], every open level is unwound with its exit hooks
// run, and the walker's OnError callback fires instead of OnEnd. A panic
// raised by a walker's child sequence or by an enter-level hook is contained
// the same way and becomes the cause; nothing ever propagates out of [Handle]
// or [Context.Resume]. The first cause always wins; failures surfacing after
// the outcome was decided, including panics from teardown hooks, are only
// logged.
//
// [Handle] itself never returns handler failures. Inspect the returned
// Context or register callbacks:
//
//	w.OnEnd(func(c *walk.Context) { log.Println("walk done") })
//	w.OnError(func(c *walk.Context) { log.Println("walk failed:", c.Cause()) })
//
// # Ordering Guarantees
//
// Children of one value are visited in the order their walker produces them.
// Handlers for one item run in registration order. Once a deeper level is
// opened it is fully drained (or the walk pauses/ends) before the remaining
// siblings at the level that opened it are processed: traversal is strict
// depth-first, pre-order with respect to entry events.
//
// # Concurrency
//
// A walk is logically single-threaded: exactly one step is in progress at
// any instant, and there is no parallel fan-out. Control methods are safe to
// call from other goroutines; the engine serializes them against the walk's
// steps. A configured walker is read-only during walks and may be shared by
// any number of concurrent walks, each with its own Context.
package walk
