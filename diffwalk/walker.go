package diffwalk

import (
	"iter"
	"reflect"

	"github.com/objwalk/objwalk/walk"
)

// DifferencesWalker feeds a [Differences] result through the walk engine: one
// event fires per change, in report order, with the change's path recorded as
// the item's display path. Handlers receive the [Change] as the event value.
type DifferencesWalker struct {
	walk.Base
}

// NewDifferencesWalker creates a DifferencesWalker.
func NewDifferencesWalker() *DifferencesWalker {
	return &DifferencesWalker{}
}

// Type implements walk.Walker.
func (w *DifferencesWalker) Type() reflect.Type {
	return reflect.TypeOf((*Differences)(nil))
}

// Children implements walk.Walker.
func (w *DifferencesWalker) Children(item *walk.Item, c *walk.Context) iter.Seq[*walk.Item] {
	diffs := item.Value().(*Differences)
	return func(yield func(*walk.Item) bool) {
		for change := range diffs.All() {
			child := item.NewChild(change).Put(walk.PathKey, change.Path)
			if !yield(child) {
				return
			}
		}
	}
}
