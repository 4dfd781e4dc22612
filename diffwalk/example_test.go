package diffwalk_test

import (
	"fmt"
	"log"

	"github.com/objwalk/objwalk/diffwalk"
	"github.com/objwalk/objwalk/jsonwalk"
	"github.com/objwalk/objwalk/walk"
)

func ExampleDiff() {
	before, err := jsonwalk.ParseString(`{"name": "a", "size": 1}`)
	if err != nil {
		log.Fatal(err)
	}
	after, err := jsonwalk.ParseString(`{"name": "b", "size": 1, "tag": "x"}`)
	if err != nil {
		log.Fatal(err)
	}

	for c := range diffwalk.Diff(before, after).All() {
		fmt.Println(c)
	}
	// Output:
	// .name [modified] value changed from a to b
	// .tag [added] field "tag" added
}

func ExampleNewDifferencesWalker() {
	before, _ := jsonwalk.ParseString(`{"replicas": 2}`)
	after, _ := jsonwalk.ParseString(`{"replicas": 5}`)

	w := diffwalk.NewDifferencesWalker()
	w.OnEvent(func(ev *walk.Event) error {
		change := ev.Value().(diffwalk.Change)
		fmt.Printf("%s: %v -> %v\n", change.Path, change.OldValue, change.NewValue)
		return nil
	})
	walk.Handle(w, diffwalk.Diff(before, after))
	// Output:
	// .replicas: 2 -> 5
}
