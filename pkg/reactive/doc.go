// Package reactive provides the dependency-tracking core of vbind.
//
// A plain data tree is wrapped into a Store. Every property of every nested
// mapping gets its own Dep (dependency set). A Tracker observes one dotted
// path: reading the path with the tracker as the active reader subscribes
// the tracker to every Dep the path traverses, and a later write to any of
// those properties re-evaluates the tracker, which fires its callback when
// the observed value changed.
//
// # Core Types
//
// Store wraps the data tree and resolves dotted paths:
//
//	store, _ := reactive.Wrap(map[string]any{
//	    "school": map[string]any{"name": "vbind"},
//	})
//	v, _ := store.Get("school.name")   // untracked read
//	_ = store.Set("school.name", "x")  // notifies subscribers
//
// Tracker observes a path and calls back on change:
//
//	t, _ := reactive.NewTracker(store, "school.name", func(v any) error {
//	    fmt.Println("name is now", v)
//	    return nil
//	})
//
// # Explicit Read Context
//
// There is no global "current listener". A tracked read always names its
// tracker explicitly (Store.Observe, Reader). Computed getters receive a
// Reader bound to whichever tracker is evaluating them, so reads made inside
// the getter are attributed to that tracker.
//
// # Concurrency
//
// A Store is single-threaded. Writes notify synchronously, in subscription
// order, before Set returns; writes made from inside a callback cascade
// depth-first. Callers that share a Store across goroutines must serialize
// access themselves.
//
// # Limitations
//
// Sequences are wrapped as ordinary objects keyed by index; there is no
// interception of append-style mutation. Assigning a new mapping re-wraps it
// recursively on every write, which is fine for small trees.
package reactive
