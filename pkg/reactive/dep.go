package reactive

import (
	"errors"
	"fmt"
)

// Subscriber is anything a Dep can notify. Tracker is the only
// implementation in this package.
type Subscriber interface {
	// Reevaluate re-reads the observed value and reacts to a change.
	Reevaluate() error
}

// Dep is the dependency set of a single property: an ordered list of
// subscribers interested in that property.
type Dep struct {
	id   uint64
	subs []Subscriber
	rt   *runtime
}

// NewDep returns an empty dependency set that reports failures through the
// default logger.
func NewDep() *Dep {
	return newDep(newRuntime(nil))
}

func newDep(rt *runtime) *Dep {
	return &Dep{id: nextID(), rt: rt}
}

// ID returns the unique identifier for this dependency set.
func (d *Dep) ID() uint64 {
	return d.id
}

// AddSubscriber appends s unconditionally. Duplicate subscriptions are kept;
// avoiding them is the caller's responsibility.
func (d *Dep) AddSubscriber(s Subscriber) {
	if s == nil {
		return
	}
	d.subs = append(d.subs, s)
}

// Len returns the number of subscriptions, duplicates included.
func (d *Dep) Len() int {
	return len(d.subs)
}

// Notify re-evaluates every subscriber in insertion order. Subscribers added
// while notifying are not visited by this round.
//
// A failing subscriber does not stop the others: its error (or panic) is
// wrapped in a CallbackError, reported, and included in the joined result.
func (d *Dep) Notify() error {
	subs := d.subs[:len(d.subs):len(d.subs)]
	d.rt.observer.Notified(len(subs))

	var errs []error
	for _, sub := range subs {
		if err := d.reevaluate(sub); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (d *Dep) reevaluate(sub Subscriber) (err error) {
	defer func() {
		if r := recover(); r != nil {
			cbErr := &CallbackError{Err: fmt.Errorf("%v", r), Panicked: true}
			if t, ok := sub.(*Tracker); ok {
				cbErr.Path = t.path
			}
			d.rt.fail(cbErr)
			err = cbErr
		}
	}()

	if err := sub.Reevaluate(); err != nil {
		var cbErr *CallbackError
		if !errors.As(err, &cbErr) {
			cbErr = &CallbackError{Err: err}
			if t, ok := sub.(*Tracker); ok {
				cbErr.Path = t.path
			}
		}
		d.rt.fail(cbErr)
		return cbErr
	}
	return nil
}
