// Package pathutil composes the display paths recorded by the document
// walkers.
//
// The root of a document is ".", descending into a named field appends
// ".<field>", and descending into a sequence element appends "[<index>]". A
// trailing dot is collapsed before a field is appended so paths never contain
// doubled separators:
//
//	Field(".", "a")      // ".a"
//	Field(".a", "b")     // ".a.b"
//	Index(".", 0)        // ".[0]"
//	Index(".a", 2)       // ".a[2]"
package pathutil

import (
	"strconv"
	"strings"
)

// Root is the display path of a document's root value.
const Root = "."

// Field returns the path of a named field under parent.
func Field(parent, name string) string {
	return strings.TrimSuffix(parent, ".") + "." + name
}

// Index returns the path of a sequence element under parent.
func Index(parent string, i int) string {
	return parent + "[" + strconv.Itoa(i) + "]"
}
