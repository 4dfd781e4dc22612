// Package diffwalk computes structural diffs between two documents in the
// jsonwalk document model and exposes the result to the walk engine.
//
// # Quick Start
//
// Parse two documents, diff them, and walk the changes:
//
//	before, _ := jsonwalk.ParseString(`{"name": "a", "size": 1}`)
//	after, _ := jsonwalk.ParseString(`{"name": "b", "size": 1, "tag": "x"}`)
//
//	diffs := diffwalk.Diff(before, after)
//
//	w := diffwalk.NewDifferencesWalker()
//	w.OnEvent(func(ev *walk.Event) error {
//		fmt.Println(ev.Value().(diffwalk.Change))
//		return nil
//	})
//	walk.Handle(w, diffs)
//	// Output:
//	// .name [modified] value changed from a to b
//	// .tag [added] field "tag" added
//
// # Comparison Rules
//
//   - Objects are compared field by field. Shared and removed fields report
//     in source document order, additions in target document order.
//   - Arrays are compared positionally; length differences report as
//     additions or removals at the trailing indexes.
//   - Plain maps are compared in collated key order, matching the order
//     jsonwalk.MapWalker walks them in.
//   - Values of different shapes, and unequal scalars, report as a single
//     modification at their path.
//
// Paths use the same "."/"[i]" convention as the jsonwalk walkers, so a
// change's path matches the path an event for that element would carry.
package diffwalk
