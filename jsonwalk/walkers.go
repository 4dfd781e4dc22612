package jsonwalk

import (
	"iter"
	"reflect"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/objwalk/objwalk/internal/pathutil"
	"github.com/objwalk/objwalk/walk"
)

// basePath returns the display path recorded on item, or the root path for
// items without one.
func basePath(item *walk.Item) string {
	if p := item.Path(); p != "" {
		return p
	}
	return pathutil.Root
}

// ObjectWalker enumerates the fields of an [Object] in document order. Each
// child's display path is the parent path plus ".<field>".
type ObjectWalker struct {
	walk.Base
}

// NewObjectWalker creates an ObjectWalker wired for arbitrarily nested
// documents: nested objects, arrays, and plain map[string]any values all
// descend instead of firing as leaves.
func NewObjectWalker() *ObjectWalker {
	w := &ObjectWalker{}
	// The three child types are distinct, so registration cannot collide.
	_ = w.Register(new(ObjectWalker), new(ArrayWalker), new(MapWalker))
	return w
}

// Type implements walk.Walker.
func (w *ObjectWalker) Type() reflect.Type {
	return reflect.TypeOf((*Object)(nil))
}

// Children implements walk.Walker.
func (w *ObjectWalker) Children(item *walk.Item, c *walk.Context) iter.Seq[*walk.Item] {
	obj := item.Value().(*Object)
	path := basePath(item)
	return func(yield func(*walk.Item) bool) {
		for field, value := range obj.Fields() {
			child := item.NewChild(value).Put(walk.PathKey, pathutil.Field(path, field))
			if !yield(child) {
				return
			}
		}
	}
}

// ArrayWalker enumerates the elements of an [Array] in positional order.
// Each child's display path is the parent path plus "[<index>]".
type ArrayWalker struct {
	walk.Base
}

// NewArrayWalker creates an ArrayWalker wired for arbitrarily nested
// documents, mirroring [NewObjectWalker] with an array at the root.
func NewArrayWalker() *ArrayWalker {
	w := &ArrayWalker{}
	_ = w.Register(new(ObjectWalker), new(ArrayWalker), new(MapWalker))
	return w
}

// Type implements walk.Walker.
func (w *ArrayWalker) Type() reflect.Type {
	return reflect.TypeOf(Array{})
}

// Children implements walk.Walker.
func (w *ArrayWalker) Children(item *walk.Item, c *walk.Context) iter.Seq[*walk.Item] {
	arr := item.Value().(Array)
	path := basePath(item)
	return func(yield func(*walk.Item) bool) {
		for i, value := range arr {
			child := item.NewChild(value).Put(walk.PathKey, pathutil.Index(path, i))
			if !yield(child) {
				return
			}
		}
	}
}

// MapWalker enumerates the entries of a plain map[string]any. Go map
// iteration order is randomized, so children are produced in collated key
// order (root collation, Unicode default ordering) to keep walks over plain
// maps reproducible. Paths follow the same ".<field>" convention as
// [ObjectWalker].
type MapWalker struct {
	walk.Base
}

// Type implements walk.Walker.
func (w *MapWalker) Type() reflect.Type {
	return reflect.TypeOf(map[string]any{})
}

// Children implements walk.Walker.
func (w *MapWalker) Children(item *walk.Item, c *walk.Context) iter.Seq[*walk.Item] {
	m := item.Value().(map[string]any)
	path := basePath(item)
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	collate.New(language.Und).SortStrings(keys)
	return func(yield func(*walk.Item) bool) {
		for _, field := range keys {
			child := item.NewChild(m[field]).Put(walk.PathKey, pathutil.Field(path, field))
			if !yield(child) {
				return
			}
		}
	}
}
