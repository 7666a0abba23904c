package vm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/reactive"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mount(t *testing.T, markup string, opts Options) (*VM, *dom.Document) {
	t.Helper()
	doc := dom.MustParse(markup)
	opts.Document = doc
	if opts.El == nil {
		opts.El = "#app"
	}
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}
	v, err := New(context.Background(), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return v, doc
}

func TestTwoWayBinding(t *testing.T) {
	v, doc := mount(t, `<div id="app"><p>{{ msg }}</p><input v-model="msg"></div>`, Options{
		Data: map[string]any{"msg": "hi"},
	})

	p := doc.Query("p")
	input := doc.Query("input")
	if p.TextContent() != "hi" || input.Value() != "hi" {
		t.Fatalf("initial: p=%q input=%q", p.TextContent(), input.Value())
	}

	if err := input.Input("bye"); err != nil {
		t.Fatal(err)
	}
	if got, _ := v.Get("msg"); got != "bye" {
		t.Errorf("msg = %v, want bye", got)
	}
	if p.TextContent() != "bye" {
		t.Errorf("p = %q, want bye", p.TextContent())
	}

	if err := v.Set("msg", "again"); err != nil {
		t.Fatal(err)
	}
	if input.Value() != "again" || p.TextContent() != "again" {
		t.Errorf("after Set: p=%q input=%q", p.TextContent(), input.Value())
	}
}

func TestNestedReassignment(t *testing.T) {
	v, doc := mount(t, `<div id="app"><span v-text="user.name"></span></div>`, Options{
		Data: map[string]any{"user": map[string]any{"name": "ann"}},
	})
	span := doc.Query("span")

	if err := v.Set("user", map[string]any{"name": "bob"}); err != nil {
		t.Fatal(err)
	}
	if span.TextContent() != "bob" {
		t.Fatalf("after reassignment span = %q", span.TextContent())
	}
	if err := v.Set("user.name", "cat"); err != nil {
		t.Fatal(err)
	}
	if span.TextContent() != "cat" {
		t.Errorf("after nested write span = %q", span.TextContent())
	}
}

func TestComputedFunc(t *testing.T) {
	v, doc := mount(t, `<div id="app"><b>{{ full }}</b></div>`, Options{
		Data: map[string]any{"first": "Ada", "last": "Lovelace"},
		Computed: map[string]Computed{
			"full": ComputedFunc(func(r reactive.Reader) (any, error) {
				return r.Value("first").(string) + " " + r.Value("last").(string), nil
			}),
		},
	})
	b := doc.Query("b")
	if b.TextContent() != "Ada Lovelace" {
		t.Fatalf("initial = %q", b.TextContent())
	}
	if err := v.Set("last", "King"); err != nil {
		t.Fatal(err)
	}
	if b.TextContent() != "Ada King" {
		t.Errorf("after Set = %q", b.TextContent())
	}
	if err := v.Set("full", "x"); !errors.Is(err, reactive.ErrReadOnly) {
		t.Errorf("Set computed err = %v, want ErrReadOnly", err)
	}
	if _, ok := v.Data()["full"]; ok {
		t.Error("Data() should not include computed properties")
	}
}

func TestComputedExpr(t *testing.T) {
	v, doc := mount(t, `<div id="app"><i v-text="total"></i></div>`, Options{
		Data:     map[string]any{"price": 3, "qty": 2},
		Computed: map[string]Computed{"total": ComputedExpr("price * qty")},
	})
	i := doc.Query("i")
	if i.TextContent() != "6" {
		t.Fatalf("initial = %q", i.TextContent())
	}
	if err := v.Set("qty", 5); err != nil {
		t.Fatal(err)
	}
	if i.TextContent() != "15" {
		t.Errorf("after Set = %q", i.TextContent())
	}
}

func TestComputedExprInvalid(t *testing.T) {
	_, err := New(context.Background(), Options{
		Logger:   quietLogger(),
		Computed: map[string]Computed{"bad": ComputedExpr("1 +")},
	})
	if err == nil {
		t.Fatal("expected compile error for invalid expression")
	}
}

func TestMethods(t *testing.T) {
	var seen string
	v, doc := mount(t, `<div id="app"><button v-on:click="inc">+</button><span>{{count}}</span></div>`, Options{
		Data: map[string]any{"count": 0},
		Methods: map[string]Method{
			"inc": func(v *VM, e *dom.Event) error {
				seen = e.Type
				n, _ := v.Get("count")
				return v.Set("count", n.(int)+1)
			},
		},
	})
	button := doc.Query("button")
	for i := 0; i < 2; i++ {
		if err := button.Click(); err != nil {
			t.Fatal(err)
		}
	}
	if seen != "click" {
		t.Errorf("event type = %q", seen)
	}
	if got := doc.Query("span").TextContent(); got != "2" {
		t.Errorf("span = %q, want 2", got)
	}
	if v.Methods() != 1 {
		t.Errorf("Methods() = %d", v.Methods())
	}
}

func TestExprMethod(t *testing.T) {
	inc, err := ExprMethod(map[string]string{"count": "count + 1", "last": "event.type"})
	if err != nil {
		t.Fatal(err)
	}
	v, doc := mount(t, `<div id="app"><button v-on:click="inc"></button></div>`, Options{
		Data:    map[string]any{"count": 1, "last": ""},
		Methods: map[string]Method{"inc": inc},
	})
	if err := doc.Query("button").Click(); err != nil {
		t.Fatal(err)
	}
	if got, _ := v.Get("count"); got != 2 {
		t.Errorf("count = %v, want 2", got)
	}
	if got, _ := v.Get("last"); got != "click" {
		t.Errorf("last = %v, want click", got)
	}
}

func TestExprMethodInvalid(t *testing.T) {
	if _, err := ExprMethod(map[string]string{"a": "(("}); err == nil {
		t.Fatal("expected error")
	}
}

func TestCallUnknownMethod(t *testing.T) {
	v, err := New(context.Background(), Options{Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	if err := v.Call("nope", &dom.Event{Type: "click"}); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("err = %v, want ErrUnknownMethod", err)
	}
	if v.El() != nil || v.Report() != nil {
		t.Error("VM without El should not compile")
	}
}

func TestWatch(t *testing.T) {
	v, err := New(context.Background(), Options{
		Logger: quietLogger(),
		Data:   map[string]any{"a": 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	var got []any
	if _, err := v.Watch("a", func(value any) { got = append(got, value) }); err != nil {
		t.Fatal(err)
	}
	_ = v.Set("a", 1)
	_ = v.Set("a", 2)
	_ = v.Set("a", 3)
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("watch values = %v", got)
	}
}

func TestElementNotFound(t *testing.T) {
	doc := dom.MustParse(`<div></div>`)
	_, err := New(context.Background(), Options{El: "#missing", Document: doc, Logger: quietLogger()})
	if !errors.Is(err, ErrElementNotFound) {
		t.Errorf("err = %v, want ErrElementNotFound", err)
	}
	_, err = New(context.Background(), Options{El: "#app", Logger: quietLogger()})
	if !errors.Is(err, ErrElementNotFound) {
		t.Errorf("no document: err = %v", err)
	}
}

func TestSkippedBindingsReported(t *testing.T) {
	v, doc := mount(t, `<div id="app"><p v-bogus="x">{{a}}</p></div>`, Options{
		Data: map[string]any{"a": "ok"},
	})
	if doc.Query("p").TextContent() != "ok" {
		t.Errorf("p = %q", doc.Query("p").TextContent())
	}
	if len(v.Report().Diagnostics) != 1 {
		t.Errorf("diagnostics = %v", v.Report().Diagnostics)
	}
}

func TestStrict(t *testing.T) {
	doc := dom.MustParse(`<div id="app"><p v-bogus="x"></p></div>`)
	_, err := New(context.Background(), Options{El: "#app", Document: doc, Strict: true, Logger: quietLogger()})
	if err == nil {
		t.Fatal("strict compile should fail")
	}
}
