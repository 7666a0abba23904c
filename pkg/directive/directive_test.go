package directive

import (
	"errors"
	"testing"

	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/reactive"
)

// testScope is a Scope backed by a store and a method table.
type testScope struct {
	store   *reactive.Store
	methods map[string]func(e *dom.Event) error
	calls   []string
}

func newTestScope(t *testing.T, data map[string]any) *testScope {
	t.Helper()
	store, err := reactive.Wrap(data)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	return &testScope{store: store, methods: make(map[string]func(*dom.Event) error)}
}

func (s *testScope) Store() *reactive.Store { return s.store }

func (s *testScope) Call(method string, e *dom.Event) error {
	s.calls = append(s.calls, method)
	if fn, ok := s.methods[method]; ok {
		return fn(e)
	}
	return errors.New("no such method: " + method)
}

func TestEveryKindHasABuiltin(t *testing.T) {
	r := NewRegistry()
	for _, k := range Kinds() {
		d, ok := r.Lookup(k.String())
		if !ok || d.Bind == nil {
			t.Errorf("kind %s has no binder", k)
		}
		if parsed, ok := ParseKind(k.String()); !ok || parsed != k {
			t.Errorf("ParseKind(%q) round trip failed", k)
		}
	}
	if Kind(kindCount).String() != "unknown" {
		t.Error("out of range kind should stringify as unknown")
	}
}

func TestDispatchUnknown(t *testing.T) {
	r := NewRegistry()
	doc := dom.MustParse(`<p v-show="x"></p>`)
	err := r.Dispatch(Binding{Node: doc.Query("p"), Name: "show", Expr: "x", Scope: newTestScope(t, nil)})

	var unknown *UnknownDirectiveError
	if !errors.As(err, &unknown) || unknown.Name != "show" {
		t.Fatalf("expected UnknownDirectiveError, got %v", err)
	}
}

func TestRegisterCustom(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("model", Directive{Bind: bindModel}); err == nil {
		t.Error("built-in names should be reserved")
	}
	if err := r.Register("focus", Directive{}); err == nil {
		t.Error("a directive without binder should be rejected")
	}

	var bound []string
	err := r.Register("focus", Directive{Bind: func(b Binding, _ Updater) error {
		bound = append(bound, b.Expr)
		return nil
	}})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Dispatch(Binding{Name: "focus", Expr: "first"}); err != nil {
		t.Fatal(err)
	}
	if len(bound) != 1 || bound[0] != "first" {
		t.Errorf("custom binder not called: %v", bound)
	}
	names := r.Names()
	if names[len(names)-1] != "focus" || len(names) != int(kindCount)+1 {
		t.Errorf("unexpected names: %v", names)
	}
}

func TestModelRoundTrip(t *testing.T) {
	scope := newTestScope(t, map[string]any{"school": map[string]any{"name": "old"}})
	doc := dom.MustParse(`<input v-model="school.name">`)
	input := doc.Query("input")

	if err := NewRegistry().Dispatch(Binding{Node: input, Name: "model", Expr: "school.name", Scope: scope}); err != nil {
		t.Fatal(err)
	}
	if input.Value() != "old" {
		t.Fatalf("initial value = %q", input.Value())
	}

	if err := input.Input("new"); err != nil {
		t.Fatal(err)
	}
	if v, _ := scope.store.Get("school.name"); v != "new" {
		t.Errorf("store = %v, want new", v)
	}

	if err := scope.store.Set("school.name", "from store"); err != nil {
		t.Fatal(err)
	}
	if input.Value() != "from store" {
		t.Errorf("node = %q", input.Value())
	}
}

func TestModelKeepsRawString(t *testing.T) {
	scope := newTestScope(t, map[string]any{"n": 1})
	doc := dom.MustParse(`<input>`)
	input := doc.Query("input")
	if err := NewRegistry().Dispatch(Binding{Node: input, Name: "model", Expr: "n", Scope: scope}); err != nil {
		t.Fatal(err)
	}
	if input.Value() != "1" {
		t.Errorf("initial = %q", input.Value())
	}
	_ = input.Input("5")
	if v, _ := scope.store.Get("n"); v != "5" {
		t.Errorf("expected the raw string \"5\", got %#v", v)
	}
}

func TestOnCallsMethod(t *testing.T) {
	scope := newTestScope(t, map[string]any{"count": 0})
	scope.methods["inc"] = func(e *dom.Event) error {
		v, _ := scope.store.Get("count")
		return scope.store.Set("count", v.(int)+1)
	}
	doc := dom.MustParse(`<button>+</button>`)
	btn := doc.Query("button")
	r := NewRegistry()

	if err := r.Dispatch(Binding{Node: btn, Name: "on", Modifier: "click", Expr: "inc", Scope: scope}); err != nil {
		t.Fatal(err)
	}
	_ = btn.Click()
	_ = btn.Click()
	if v, _ := scope.store.Get("count"); v != 2 {
		t.Errorf("count = %v", v)
	}

	err := r.Dispatch(Binding{Node: btn, Name: "on", Expr: "inc", Scope: scope})
	var invalid *InvalidDirectiveError
	if !errors.As(err, &invalid) {
		t.Errorf("v-on without event should be invalid, got %v", err)
	}
}

func TestTextRecomputesWholeString(t *testing.T) {
	scope := newTestScope(t, map[string]any{"a": 1, "b": "x"})
	doc := dom.MustParse(`<p>{{a}} and {{ b }}!</p>`)
	text := doc.Query("p").FirstChild()

	if err := NewRegistry().Dispatch(Binding{Node: text, Name: "text", Expr: text.Data, Scope: scope}); err != nil {
		t.Fatal(err)
	}
	if text.Data != "1 and x!" {
		t.Fatalf("initial = %q", text.Data)
	}

	var updates int
	doc.Observe(func(dom.Mutation) { updates++ })
	_ = scope.store.Set("a", 2)
	if text.Data != "2 and x!" {
		t.Errorf("after a change = %q", text.Data)
	}
	if updates != 1 {
		t.Errorf("expected a single text update, got %d", updates)
	}
	_ = scope.store.Set("b", "y")
	if text.Data != "2 and y!" {
		t.Errorf("after b change = %q", text.Data)
	}
}

func TestTextBadSlotLeavesNoTrackers(t *testing.T) {
	scope := newTestScope(t, map[string]any{"a": 1})
	doc := dom.MustParse(`<p>{{a}} {{missing.x}}</p>`)
	text := doc.Query("p").FirstChild()

	err := NewRegistry().Dispatch(Binding{Node: text, Name: "text", Expr: text.Data, Scope: scope})
	var pathErr *reactive.PathResolutionError
	if !errors.As(err, &pathErr) {
		t.Fatalf("expected PathResolutionError, got %v", err)
	}
	if n := scope.store.Root().Dep("a").Len(); n != 0 {
		t.Errorf("failed binding should not subscribe, got %d", n)
	}
}

func TestTextOnElementFollowsPath(t *testing.T) {
	scope := newTestScope(t, map[string]any{"user": map[string]any{"name": "ann"}})
	doc := dom.MustParse(`<b v-text="user.name">placeholder</b>`)
	el := doc.Query("b")

	if err := NewRegistry().Dispatch(Binding{Node: el, Name: "text", Expr: "user.name", Scope: scope}); err != nil {
		t.Fatal(err)
	}
	if el.TextContent() != "ann" {
		t.Fatalf("initial = %q, want the value at the path", el.TextContent())
	}
	_ = scope.store.Set("user.name", "bob")
	if el.TextContent() != "bob" {
		t.Errorf("after Set = %q", el.TextContent())
	}

	err := NewRegistry().Dispatch(Binding{Node: el, Name: "text", Expr: "", Scope: scope})
	if !errors.Is(err, reactive.ErrEmptyPath) {
		t.Errorf("empty path err = %v, want ErrEmptyPath", err)
	}
}

func TestHTMLReplacesContent(t *testing.T) {
	scope := newTestScope(t, map[string]any{"msg": "<b>hi</b>"})
	doc := dom.MustParse(`<div v-html="msg">placeholder</div>`)
	div := doc.Query("div")

	if err := NewRegistry().Dispatch(Binding{Node: div, Name: "html", Expr: "msg", Scope: scope}); err != nil {
		t.Fatal(err)
	}
	if div.FirstChild() == nil || div.FirstChild().Tag != "b" {
		t.Fatalf("markup not inserted: %+v", div.Children)
	}
	_ = scope.store.Set("msg", "<i>bye</i>")
	if div.FirstChild().Tag != "i" || div.TextContent() != "bye" {
		t.Errorf("markup not replaced: %q", div.TextContent())
	}
}

func TestBindAttribute(t *testing.T) {
	scope := newTestScope(t, map[string]any{"title": "first"})
	doc := dom.MustParse(`<a v-bind:title="title">x</a>`)
	a := doc.Query("a")

	if err := NewRegistry().Dispatch(Binding{Node: a, Name: "bind", Modifier: "title", Expr: "title", Scope: scope}); err != nil {
		t.Fatal(err)
	}
	_ = scope.store.Set("title", "second")
	if v, _ := a.GetAttribute("title"); v != "second" {
		t.Errorf("title = %q", v)
	}
}

func TestFormat(t *testing.T) {
	store, _ := reactive.Wrap(map[string]any{"o": map[string]any{"k": 1}})
	obj, _ := store.Get("o")

	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"s", "s"},
		{3, "3"},
		{true, "true"},
		{1.5, "1.5"},
		{obj, `{"k":1}`},
	}
	for _, tt := range tests {
		if got := Format(tt.in); got != tt.want {
			t.Errorf("Format(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlots(t *testing.T) {
	got := Slots("{{ a }} and {{b.c}} and {{a}}")
	want := []string{"a", "b.c", "a"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("slot %d = %q, want %q", i, got[i], want[i])
		}
	}
	if HasInterpolation("no slots { here }") {
		t.Error("single braces are not a slot")
	}
}
