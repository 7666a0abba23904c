package reactive

import (
	"errors"
	"testing"
)

type recorder struct {
	values []any
}

func (r *recorder) callback(v any) error {
	r.values = append(r.values, v)
	return nil
}

func TestTrackerBaseline(t *testing.T) {
	s := newTestStore(t, map[string]any{"a": 1})
	rec := &recorder{}
	tr, err := NewTracker(s, "a", rec.callback)
	if err != nil {
		t.Fatalf("NewTracker: %v", err)
	}
	if tr.Value() != 1 {
		t.Errorf("baseline = %v, want 1", tr.Value())
	}
	if len(rec.values) != 0 {
		t.Errorf("baseline read should not fire the callback, got %v", rec.values)
	}
}

func TestTrackerFiresOnceOnChange(t *testing.T) {
	s := newTestStore(t, map[string]any{"a": 1})
	first, second := &recorder{}, &recorder{}
	if _, err := NewTracker(s, "a", first.callback); err != nil {
		t.Fatal(err)
	}
	if _, err := NewTracker(s, "a", second.callback); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if err := s.Set("a", 2); err != nil {
			t.Fatal(err)
		}
	}
	for name, rec := range map[string]*recorder{"first": first, "second": second} {
		if len(rec.values) != 1 || rec.values[0] != 2 {
			t.Errorf("%s: expected exactly one callback with 2, got %v", name, rec.values)
		}
	}
}

func TestTrackerEqualWriteIsNoop(t *testing.T) {
	s := newTestStore(t, map[string]any{"a": "x"})
	rec := &recorder{}
	if _, err := NewTracker(s, "a", rec.callback); err != nil {
		t.Fatal(err)
	}
	_ = s.Set("a", "x")
	if len(rec.values) != 0 {
		t.Errorf("equal write should not notify, got %v", rec.values)
	}
}

func TestTrackerDoesNotGrowDependencySet(t *testing.T) {
	s := newTestStore(t, map[string]any{"a": 0})
	rec := &recorder{}
	if _, err := NewTracker(s, "a", rec.callback); err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 10; i++ {
		_ = s.Set("a", i)
	}
	if n := s.Root().Dep("a").Len(); n != 1 {
		t.Errorf("re-evaluation should not re-subscribe, dep has %d entries", n)
	}
	if len(rec.values) != 10 {
		t.Errorf("expected 10 callbacks, got %d", len(rec.values))
	}
}

func TestTrackerNestedReassignment(t *testing.T) {
	s := newTestStore(t, map[string]any{"school": map[string]any{"name": "old"}})
	rec := &recorder{}
	tr, err := NewTracker(s, "school.name", rec.callback)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Set("school", map[string]any{"name": "new"}); err != nil {
		t.Fatal(err)
	}
	if len(rec.values) != 1 || rec.values[0] != "new" {
		t.Fatalf("reassigning parent should fire with new leaf, got %v", rec.values)
	}

	school, _ := s.Root().Get("school")
	if n := school.(*Object).Dep("name").Len(); n != 1 {
		t.Fatalf("tracker should subscribe to the re-wrapped property, got %d", n)
	}

	if err := s.Set("school.name", "newer"); err != nil {
		t.Fatal(err)
	}
	if len(rec.values) != 2 || rec.values[1] != "newer" {
		t.Errorf("write to re-wrapped leaf should notify, got %v", rec.values)
	}
	if tr.Value() != "newer" {
		t.Errorf("baseline = %v", tr.Value())
	}
}

func TestTrackerInPlaceMutationInvisible(t *testing.T) {
	s := newTestStore(t, map[string]any{"school": map[string]any{"name": "old"}})
	rec := &recorder{}
	if _, err := NewTracker(s, "school", rec.callback); err != nil {
		t.Fatal(err)
	}
	_ = s.Set("school.name", "new")
	if len(rec.values) != 0 {
		t.Errorf("mutating a child without reassigning the parent should not fire, got %v", rec.values)
	}
}

func TestTrackerPathError(t *testing.T) {
	s := newTestStore(t, map[string]any{})
	_, err := NewTracker(s, "missing.name", nil)
	var pathErr *PathResolutionError
	if !errors.As(err, &pathErr) {
		t.Errorf("expected PathResolutionError, got %v", err)
	}
}

func TestTrackerCallbackFailureIsolated(t *testing.T) {
	var reported []error
	s := newTestStore(t, map[string]any{"a": 1}, WithErrorReporter(func(err error) {
		reported = append(reported, err)
	}))

	failing := errors.New("view update failed")
	if _, err := NewTracker(s, "a", func(any) error { return failing }); err != nil {
		t.Fatal(err)
	}
	if _, err := NewTracker(s, "a", func(any) error { panic("updater panic") }); err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}
	if _, err := NewTracker(s, "a", rec.callback); err != nil {
		t.Fatal(err)
	}

	if err := s.Set("a", 2); err != nil {
		t.Fatalf("Set should not surface callback errors, got %v", err)
	}
	if len(rec.values) != 1 {
		t.Errorf("healthy tracker should still run, got %v", rec.values)
	}
	if len(reported) != 2 {
		t.Fatalf("expected 2 reported failures, got %v", reported)
	}
	var cbErr *CallbackError
	if !errors.As(reported[0], &cbErr) || !errors.Is(cbErr, failing) || cbErr.Path != "a" || cbErr.Value != 2 {
		t.Errorf("unexpected first failure: %#v", reported[0])
	}
}

func TestNestedWriteCascadesDepthFirst(t *testing.T) {
	s := newTestStore(t, map[string]any{"a": 0, "b": 0})
	var order []string

	if _, err := NewTracker(s, "a", func(v any) error {
		order = append(order, "a-start")
		if err := s.Set("b", v); err != nil {
			return err
		}
		order = append(order, "a-end")
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := NewTracker(s, "b", func(any) error {
		order = append(order, "b")
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	_ = s.Set("a", 1)
	want := []string{"a-start", "b", "a-end"}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("got %v, want %v", order, want)
			break
		}
	}
}

func TestComputedAttributesReadsToTracker(t *testing.T) {
	s := newTestStore(t, map[string]any{"first": "Ada", "last": "Lovelace"})
	s.DefineComputed("full", func(r Reader) (any, error) {
		first, err := r.Get("first")
		if err != nil {
			return nil, err
		}
		return first.(string) + " " + r.Value("last").(string), nil
	})

	rec := &recorder{}
	if _, err := NewTracker(s, "full", rec.callback); err != nil {
		t.Fatal(err)
	}
	_ = s.Set("last", "Byron")
	if len(rec.values) != 1 || rec.values[0] != "Ada Byron" {
		t.Errorf("computed dependency should notify, got %v", rec.values)
	}
}

func TestReaderSnapshotTracksEverything(t *testing.T) {
	s := newTestStore(t, map[string]any{"a": 1, "nested": map[string]any{"b": 2}})
	s.DefineComputed("sum", func(r Reader) (any, error) {
		snap := r.Snapshot()
		return snap["a"].(int) + snap["nested"].(map[string]any)["b"].(int), nil
	})
	rec := &recorder{}
	if _, err := NewTracker(s, "sum", rec.callback); err != nil {
		t.Fatal(err)
	}
	_ = s.Set("nested.b", 10)
	if len(rec.values) != 1 || rec.values[0] != 11 {
		t.Errorf("snapshot reads should be tracked, got %v", rec.values)
	}
}

type countingObserver struct {
	created, notified, failed int
}

func (o *countingObserver) TrackerCreated(string)         { o.created++ }
func (o *countingObserver) Notified(int)                  { o.notified++ }
func (o *countingObserver) CallbackFailed(*CallbackError) { o.failed++ }

func TestObserverHooks(t *testing.T) {
	obs := &countingObserver{}
	s := newTestStore(t, map[string]any{"a": 1}, WithObserver(obs), WithErrorReporter(func(error) {}))
	if _, err := NewTracker(s, "a", func(any) error { return errors.New("x") }); err != nil {
		t.Fatal(err)
	}
	_ = s.Set("a", 2)
	if obs.created != 1 || obs.notified != 1 || obs.failed != 1 {
		t.Errorf("unexpected observer counts: %+v", obs)
	}
}
