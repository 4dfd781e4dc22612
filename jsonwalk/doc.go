// Package jsonwalk provides walkers for JSON and YAML documents.
//
// The package defines an order-preserving document model ([Object], [Array])
// plus walkers that teach the walk engine how to descend through it. Because
// Go maps do not preserve field order, [Parse] decodes documents into this
// model rather than into map[string]any, so that events always fire in
// document order.
//
// # Quick Start
//
// Parse a document and print every leaf with its path:
//
//	doc, err := jsonwalk.ParseString(`{"a": "x", "b": {"c": "y"}}`)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	w := jsonwalk.NewObjectWalker()
//	w.OnEvent(func(ev *walk.Event) error {
//		fmt.Printf("%s = %v\n", ev.Path(), ev.Value())
//		return nil
//	})
//	walk.Handle(w, doc)
//	// Output:
//	// .a = x
//	// .b.c = y
//
// # Path Convention
//
// Each child item records a display path under [walk.PathKey]:
//
//   - the document root is "."
//   - a field access appends ".<field>"
//   - an indexed access appends "[<index>]"
//
// For example ".users[0].name" addresses the name field of the first
// element of the top-level users array.
//
// # Walkers
//
//   - [ObjectWalker]: fields of an *Object in document order
//   - [ArrayWalker]: elements of an Array in positional order
//   - [MapWalker]: entries of a plain map[string]any in collated key order,
//     since Go randomizes map iteration
//
// [NewObjectWalker] and [NewArrayWalker] return walkers pre-wired with all
// three as child walkers, so arbitrarily nested documents descend without
// further configuration. Zero-value walkers carry no children and treat
// every nested composite as a leaf.
package jsonwalk
