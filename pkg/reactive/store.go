package reactive

import "strings"

// Store is a wrapped data tree addressed by dotted paths.
type Store struct {
	root *Object
	rt   *runtime
}

// Wrap recursively wraps root, which must be a mapping (map[string]any or
// any map with string keys), or an already wrapped *Object.
func Wrap(root any, opts ...Option) (*Store, error) {
	rt := newRuntime(opts)
	obj, ok := wrap(rt, root).(*Object)
	if !ok || obj.list {
		return nil, ErrNotMapping
	}
	return &Store{root: obj, rt: rt}, nil
}

// Root returns the wrapped root object.
func (s *Store) Root() *Object {
	return s.root
}

// Get reads path without tracking.
func (s *Store) Get(path string) (any, error) {
	return resolve(s.root, nil, path)
}

// Observe reads path with t as the active tracker, subscribing t to the
// dependency set of every property the path traverses. A nil t behaves like
// Get.
func (s *Store) Observe(t *Tracker, path string) (any, error) {
	return resolve(s.root, t, path)
}

// Set writes value at path. When the stored value changes, mappings are
// wrapped and the property's subscribers are notified before Set returns.
// Writing to an absent final key defines it.
func (s *Store) Set(path string, value any) error {
	if path == "" {
		return ErrEmptyPath
	}
	segs := strings.Split(path, ".")
	parent, err := walk(s.root, nil, path, segs[:len(segs)-1])
	if err != nil {
		return err
	}
	return parent.write(segs[len(segs)-1], value)
}

// DefineComputed installs a read-only derived property on the root. The
// getter runs on every access and has no dependency set of its own.
func (s *Store) DefineComputed(name string, fn ComputedFunc) {
	s.root.defineComputed(name, fn)
}

// Reader returns an untracked read context over the store.
func (s *Store) Reader() Reader {
	return Reader{root: s.root}
}

// Snapshot returns a plain untracked copy of the tree.
func (s *Store) Snapshot() map[string]any {
	m, _ := s.root.Raw().(map[string]any)
	return m
}

// resolve reads a dotted path from root.
func resolve(root *Object, t *Tracker, path string) (any, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	segs := strings.Split(path, ".")
	parent, err := walk(root, t, path, segs[:len(segs)-1])
	if err != nil {
		return nil, err
	}
	return parent.read(t, segs[len(segs)-1])
}

// walk descends through segs, each of which must name a mapping.
func walk(root *Object, t *Tracker, path string, segs []string) (*Object, error) {
	cur := root
	for i, seg := range segs {
		v, err := cur.read(t, seg)
		if err != nil {
			return nil, err
		}
		next, ok := v.(*Object)
		if !ok || next == nil {
			return nil, &PathResolutionError{Path: path, Segment: seg, Index: i}
		}
		cur = next
	}
	return cur, nil
}
