package reactive

// Callback receives the new value observed by a Tracker.
type Callback func(value any) error

// Tracker observes a single dotted path of a Store and invokes its callback
// whenever a re-evaluation finds a different value.
type Tracker struct {
	id    uint64
	store *Store
	path  string
	cb    Callback
	value any

	// joined records the dependency sets this tracker is subscribed to, so a
	// re-evaluation only subscribes to sets it has not seen before.
	joined map[uint64]struct{}
}

// NewTracker creates a tracker and performs its first tracked read, which
// subscribes it to the path and records the baseline value. The callback is
// not invoked for the baseline.
func NewTracker(store *Store, path string, cb Callback) (*Tracker, error) {
	t := &Tracker{
		id:     nextID(),
		store:  store,
		path:   path,
		cb:     cb,
		joined: make(map[uint64]struct{}),
	}
	v, err := store.Observe(t, path)
	if err != nil {
		return nil, err
	}
	t.value = v
	store.rt.observer.TrackerCreated(path)
	return t, nil
}

// ID returns the unique identifier for this tracker.
func (t *Tracker) ID() uint64 {
	return t.id
}

// Path returns the observed path.
func (t *Tracker) Path() string {
	return t.path
}

// Value returns the last observed value.
func (t *Tracker) Value() any {
	return t.value
}

// Reevaluate re-reads the path. If the value differs from the baseline, the
// baseline is updated and the callback runs with the new value. Equal values
// never fire the callback.
func (t *Tracker) Reevaluate() error {
	v, err := t.store.Observe(t, t.path)
	if err != nil {
		return &CallbackError{Path: t.path, Err: err}
	}
	if same(v, t.value) {
		return nil
	}
	t.value = v
	if t.cb == nil {
		return nil
	}
	if err := t.cb(v); err != nil {
		return &CallbackError{Path: t.path, Value: v, Err: err}
	}
	return nil
}

// depend subscribes t to d unless it already is.
func (t *Tracker) depend(d *Dep) {
	if _, ok := t.joined[d.id]; ok {
		return
	}
	t.joined[d.id] = struct{}{}
	d.AddSubscriber(t)
}

// Deps returns the number of dependency sets t is subscribed to.
func (t *Tracker) Deps() int {
	return len(t.joined)
}
