package reactive

import (
	"reflect"
	"sort"
	"strconv"
)

// ComputedFunc derives a read-only property value. Reads made through r are
// attributed to whichever tracker is evaluating the property.
type ComputedFunc func(r Reader) (any, error)

// property is the interception record for one key of an Object.
type property struct {
	value    any
	dep      *Dep
	computed ComputedFunc
}

// Object is a wrapped mapping. Every key owns a property record with its own
// dependency set. Sequences are wrapped as Objects keyed "0".."n-1".
type Object struct {
	keys  []string
	props map[string]*property
	list  bool
	rt    *runtime
}

func newObject(rt *runtime, list bool) *Object {
	return &Object{props: make(map[string]*property), list: list, rt: rt}
}

// IsList reports whether the object was wrapped from a sequence.
func (o *Object) IsList() bool {
	return o.list
}

// Keys returns the keys in definition order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// Has reports whether key is defined.
func (o *Object) Has(key string) bool {
	_, ok := o.props[key]
	return ok
}

// Dep returns the dependency set of key, or nil for absent and computed keys.
func (o *Object) Dep(key string) *Dep {
	if p, ok := o.props[key]; ok {
		return p.dep
	}
	return nil
}

// Get reads key without tracking.
func (o *Object) Get(key string) (any, bool) {
	if _, ok := o.props[key]; !ok {
		return nil, false
	}
	v, _ := o.read(nil, key)
	return v, true
}

// Set writes key and notifies its subscribers when the value changed.
// Notification failures are reported through the store's reporter, not
// returned.
func (o *Object) Set(key string, value any) error {
	return o.write(key, value)
}

// read returns the value of key, subscribing t when it is non-nil.
func (o *Object) read(t *Tracker, key string) (any, error) {
	p, ok := o.props[key]
	if !ok {
		return nil, nil
	}
	if p.computed != nil {
		return p.computed(Reader{tracker: t, root: o})
	}
	if t != nil {
		t.depend(p.dep)
	}
	return p.value, nil
}

func (o *Object) write(key string, value any) error {
	p, ok := o.props[key]
	if !ok {
		o.define(key, value)
		return nil
	}
	if p.computed != nil {
		return ErrReadOnly
	}
	if same(p.value, value) {
		return nil
	}
	p.value = wrap(o.rt, value)
	_ = p.dep.Notify()
	return nil
}

// define adds a new reactive property.
func (o *Object) define(key string, value any) {
	o.keys = append(o.keys, key)
	o.props[key] = &property{value: wrap(o.rt, value), dep: newDep(o.rt)}
}

func (o *Object) defineComputed(key string, fn ComputedFunc) {
	if _, ok := o.props[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.props[key] = &property{computed: fn}
}

// Raw returns a plain, untracked copy: map[string]any for mappings and []any
// for sequences. Computed properties are left out.
func (o *Object) Raw() any {
	if o.list {
		out := make([]any, 0, len(o.keys))
		for _, k := range o.keys {
			v := o.props[k].value
			out = append(out, rawValue(v))
		}
		return out
	}
	out := make(map[string]any, len(o.keys))
	for _, k := range o.keys {
		p := o.props[k]
		if p.computed != nil {
			continue
		}
		out[k] = rawValue(p.value)
	}
	return out
}

// tracked returns a plain copy like Raw, subscribing t to every property it
// visits. Computed properties are left out so a getter may take a snapshot
// without recursing into itself.
func (o *Object) tracked(t *Tracker) any {
	if o.list {
		out := make([]any, 0, len(o.keys))
		for _, k := range o.keys {
			v, _ := o.read(t, k)
			out = append(out, trackedValue(t, v))
		}
		return out
	}
	out := make(map[string]any, len(o.keys))
	for _, k := range o.keys {
		if o.props[k].computed != nil {
			continue
		}
		v, _ := o.read(t, k)
		out[k] = trackedValue(t, v)
	}
	return out
}

func rawValue(v any) any {
	if obj, ok := v.(*Object); ok {
		return obj.Raw()
	}
	return v
}

func trackedValue(t *Tracker, v any) any {
	if obj, ok := v.(*Object); ok {
		return obj.tracked(t)
	}
	return v
}

// wrap converts mappings and sequences into Objects, recursively. Already
// wrapped objects and leaf values are returned unchanged.
func wrap(rt *runtime, v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case *Object:
		return val
	case map[string]any:
		obj := newObject(rt, false)
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			obj.define(k, val[k])
		}
		return obj
	case []any:
		obj := newObject(rt, true)
		for i, item := range val {
			obj.define(strconv.Itoa(i), item)
		}
		return obj
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return wrap(rt, m)
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		s := make([]any, rv.Len())
		for i := range s {
			s[i] = rv.Index(i).Interface()
		}
		return wrap(rt, s)
	}
	return v
}
