package diffwalk

import (
	"fmt"
	"iter"
	"reflect"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/objwalk/objwalk/internal/pathutil"
	"github.com/objwalk/objwalk/jsonwalk"
)

// ChangeType indicates whether a change is an addition, removal, or modification
type ChangeType string

const (
	// ChangeTypeAdded indicates a new element was added
	ChangeTypeAdded ChangeType = "added"
	// ChangeTypeRemoved indicates an element was removed
	ChangeTypeRemoved ChangeType = "removed"
	// ChangeTypeModified indicates an existing element was changed
	ChangeTypeModified ChangeType = "modified"
)

// Change represents a single difference between two documents
type Change struct {
	// Path is the display path of the changed element (e.g., ".users[0].name")
	Path string
	// Type indicates if this is an addition, removal, or modification
	Type ChangeType
	// OldValue is the value in the source document (nil for additions)
	OldValue any
	// NewValue is the value in the target document (nil for removals)
	NewValue any
	// Message is a human-readable description of the change
	Message string
}

// String returns a formatted string representation of the change
func (c Change) String() string {
	return fmt.Sprintf("%s [%s] %s", c.Path, c.Type, c.Message)
}

// Differences is the ordered set of changes between two documents. For each
// object, modifications and removals appear in the source's document order
// and additions follow in the target's document order; array changes report
// positionally.
type Differences struct {
	changes []Change
}

// Len returns the number of changes.
func (d *Differences) Len() int {
	return len(d.changes)
}

// Empty reports whether the documents were semantically identical.
func (d *Differences) Empty() bool {
	return len(d.changes) == 0
}

// Changes returns the changes as a slice. The returned slice is a copy.
func (d *Differences) Changes() []Change {
	out := make([]Change, len(d.changes))
	copy(out, d.changes)
	return out
}

// All iterates over the changes in order.
func (d *Differences) All() iter.Seq[Change] {
	return func(yield func(Change) bool) {
		for _, c := range d.changes {
			if !yield(c) {
				return
			}
		}
	}
}

func (d *Differences) add(c Change) {
	d.changes = append(d.changes, c)
}

// Diff compares two documents in the jsonwalk document model (*Object, Array,
// map[string]any, scalars) and reports every semantic difference. Comparison
// descends depth-first; paths follow the same "."/"[i]" convention the
// jsonwalk walkers record on visited items.
func Diff(source, target any) *Differences {
	d := &Differences{}
	diffValues(source, target, pathutil.Root, d)
	return d
}

// diffValues dispatches on the shape of the two values at path.
func diffValues(source, target any, path string, result *Differences) {
	switch src := source.(type) {
	case *jsonwalk.Object:
		if tgt, ok := target.(*jsonwalk.Object); ok {
			diffObjects(src, tgt, path, result)
			return
		}
	case jsonwalk.Array:
		if tgt, ok := target.(jsonwalk.Array); ok {
			diffArrays(src, tgt, path, result)
			return
		}
	case map[string]any:
		if tgt, ok := target.(map[string]any); ok {
			diffMaps(src, tgt, path, result)
			return
		}
	}
	if !reflect.DeepEqual(source, target) {
		result.add(Change{
			Path:     path,
			Type:     ChangeTypeModified,
			OldValue: source,
			NewValue: target,
			Message:  fmt.Sprintf("value changed from %v to %v", source, target),
		})
	}
}

// diffObjects compares two ordered objects field by field. Shared and removed
// fields are reported in source document order, additions in target order.
func diffObjects(source, target *jsonwalk.Object, path string, result *Differences) {
	for field, srcValue := range source.Fields() {
		fieldPath := pathutil.Field(path, field)
		if tgtValue, ok := target.Get(field); ok {
			diffValues(srcValue, tgtValue, fieldPath, result)
		} else {
			result.add(Change{
				Path:     fieldPath,
				Type:     ChangeTypeRemoved,
				OldValue: srcValue,
				Message:  fmt.Sprintf("field %q removed", field),
			})
		}
	}
	for field, tgtValue := range target.Fields() {
		if _, ok := source.Get(field); !ok {
			result.add(Change{
				Path:     pathutil.Field(path, field),
				Type:     ChangeTypeAdded,
				NewValue: tgtValue,
				Message:  fmt.Sprintf("field %q added", field),
			})
		}
	}
}

// diffArrays compares two sequences positionally.
func diffArrays(source, target jsonwalk.Array, path string, result *Differences) {
	shared := min(len(source), len(target))
	for i := 0; i < shared; i++ {
		diffValues(source[i], target[i], pathutil.Index(path, i), result)
	}
	for i := shared; i < len(source); i++ {
		result.add(Change{
			Path:     pathutil.Index(path, i),
			Type:     ChangeTypeRemoved,
			OldValue: source[i],
			Message:  fmt.Sprintf("element %d removed", i),
		})
	}
	for i := shared; i < len(target); i++ {
		result.add(Change{
			Path:     pathutil.Index(path, i),
			Type:     ChangeTypeAdded,
			NewValue: target[i],
			Message:  fmt.Sprintf("element %d added", i),
		})
	}
}

// diffMaps compares two plain maps in collated key order, matching the
// ordering jsonwalk.MapWalker uses when walking them.
func diffMaps(source, target map[string]any, path string, result *Differences) {
	keys := make([]string, 0, len(source)+len(target))
	seen := make(map[string]bool, len(source)+len(target))
	for k := range source {
		keys = append(keys, k)
		seen[k] = true
	}
	for k := range target {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	collate.New(language.Und).SortStrings(keys)

	for _, field := range keys {
		fieldPath := pathutil.Field(path, field)
		srcValue, inSource := source[field]
		tgtValue, inTarget := target[field]
		switch {
		case inSource && inTarget:
			diffValues(srcValue, tgtValue, fieldPath, result)
		case inSource:
			result.add(Change{
				Path:     fieldPath,
				Type:     ChangeTypeRemoved,
				OldValue: srcValue,
				Message:  fmt.Sprintf("field %q removed", field),
			})
		default:
			result.add(Change{
				Path:     fieldPath,
				Type:     ChangeTypeAdded,
				NewValue: tgtValue,
				Message:  fmt.Sprintf("field %q added", field),
			})
		}
	}
}
