package reactive

// Reader is the explicit read context handed to computed getters. Reads made
// through it subscribe the tracker it was created for; a zero tracker makes
// every read untracked.
type Reader struct {
	tracker *Tracker
	root    *Object
}

// Get resolves a dotted path relative to the store root.
func (r Reader) Get(path string) (any, error) {
	return resolve(r.root, r.tracker, path)
}

// Value is like Get but returns nil when the path cannot be resolved.
func (r Reader) Value(path string) any {
	v, err := r.Get(path)
	if err != nil {
		return nil
	}
	return v
}

// Snapshot returns a plain copy of the whole tree, subscribing the tracker to
// every property it visits.
func (r Reader) Snapshot() map[string]any {
	if r.root == nil {
		return nil
	}
	m, _ := r.root.tracked(r.tracker).(map[string]any)
	return m
}

// Tracking reports whether reads are attributed to a tracker.
func (r Reader) Tracking() bool {
	return r.tracker != nil
}
