// Package objwalk provides a pausable, event-driven traversal engine for
// arbitrarily shaped hierarchical data.
//
// objwalk visits every node of a nested structure (records, sequences, or any
// user-defined composite type) and fires one event per visited node to
// caller-supplied handlers. The traversal can be paused, resumed, skipped, or
// ended from inside a handler, including asynchronously from a different
// goroutine than the one that started the walk.
//
// # Overview
//
// The library consists of four packages:
//
//   - walk: the traversal engine (items, levels, contexts, walkers, events)
//   - jsonwalk: walkers for JSON/YAML documents and plain Go maps
//   - diffwalk: structural diffing plus a walker over the resulting changes
//   - owerrors: structured error types shared by the other packages
//
// # Installation
//
// Install the library using go get:
//
//	go get github.com/objwalk/objwalk
//
// # Quick Start
//
// Walk a parsed JSON document and print every leaf:
//
//	import (
//		"github.com/objwalk/objwalk/jsonwalk"
//		"github.com/objwalk/objwalk/walk"
//	)
//
//	doc, err := jsonwalk.ParseString(`{"name": "Ada", "tags": ["pioneer"]}`)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	w := jsonwalk.NewObjectWalker()
//	w.OnEvent(func(ev *walk.Event) error {
//		fmt.Printf("%s = %v\n", ev.Path(), ev.Value())
//		return nil
//	})
//	ctx := walk.Handle(w, doc)
//	fmt.Println("success:", ctx.Success())
//
// # Flow Control
//
// Handlers receive a [walk.Event] and may control the walk through it:
//
//   - ev.End() ends the walk; remaining nodes are not visited
//   - ev.Context().Pause() suspends the walk at the current position
//   - ev.Context().SkipLevel() abandons the remaining siblings at this depth
//   - ev.SetWalker(w) redirects which walker processes the node's children
//
// A paused walk holds no goroutine and no native call stack; calling
// [walk.Context.Resume] from any goroutine continues at the exact node where
// the walk left off.
//
// # Custom Walkers
//
// A walker teaches the engine how to enumerate the children of one concrete
// type. Embed [walk.Base] and implement Type and Children:
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
//
// See the walk package documentation for the full contract.
//
// # Error Handling
//
// Handler failures never propagate out of [walk.Handle] as a return value.
// Inspect the finished context instead, or register callbacks:
//
//	w.OnEnd(func(c *walk.Context) { log.Println("done") })
//	w.OnError(func(c *walk.Context) { log.Println("failed:", c.Cause()) })
//
// The owerrors package provides errors.Is/errors.As support for the error
// values the engine produces.
package objwalk
