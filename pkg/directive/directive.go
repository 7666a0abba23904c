package directive

import (
	"fmt"
	"sort"

	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/reactive"
)

// Scope is what a directive binds against: the store holding the data and
// the method surface event directives call into.
type Scope interface {
	// Store returns the reactive store bound expressions are read from.
	Store() *reactive.Store

	// Call invokes the named method with the triggering event.
	Call(method string, e *dom.Event) error
}

// Binding describes one directive occurrence in a template.
type Binding struct {
	Node     *dom.Node // Node carrying the directive
	Name     string    // Directive name, e.g. "model" or "on"
	Expr     string    // Attribute value, or the raw text for interpolation
	Modifier string    // Part after the colon, e.g. "click" in v-on:click
	Scope    Scope
}

// Updater applies a value to exactly one facet of a node.
type Updater func(n *dom.Node, value any) error

// Binder wires a binding: trackers whose callbacks drive update, and event
// listeners for input directives. It applies the initial value itself.
type Binder func(b Binding, update Updater) error

// Directive pairs a binder with its updater.
type Directive struct {
	Bind   Binder
	Update Updater
}

// Registry maps directive names to directives. The built-in kinds are fixed;
// additional names can be registered.
type Registry struct {
	builtin [kindCount]Directive
	custom  map[string]Directive
}

// NewRegistry returns a registry holding every built-in directive.
func NewRegistry() *Registry {
	r := &Registry{custom: make(map[string]Directive)}
	for _, k := range Kinds() {
		r.builtin[k] = builtin(k)
	}
	return r
}

// builtin returns the directive for a built-in kind.
func builtin(k Kind) Directive {
	switch k {
	case KindModel:
		return Directive{Bind: bindModel, Update: updateValue}
	case KindOn:
		return Directive{Bind: bindOn}
	case KindText:
		return Directive{Bind: bindText, Update: updateText}
	case KindHTML:
		return Directive{Bind: bindPath, Update: updateHTML}
	case KindBind:
		return Directive{Bind: bindAttr, Update: updateAttr}
	}
	panic(fmt.Sprintf("directive: no built-in for kind %d", k))
}

// Register adds a directive under name. Built-in names cannot be replaced.
func (r *Registry) Register(name string, d Directive) error {
	if name == "" {
		return fmt.Errorf("directive: empty name")
	}
	if _, ok := ParseKind(name); ok {
		return fmt.Errorf("directive: %q is built in", name)
	}
	if d.Bind == nil {
		return fmt.Errorf("directive: %q has no binder", name)
	}
	r.custom[name] = d
	return nil
}

// Lookup returns the directive registered under name.
func (r *Registry) Lookup(name string) (Directive, bool) {
	if k, ok := ParseKind(name); ok {
		return r.builtin[k], true
	}
	d, ok := r.custom[name]
	return d, ok
}

// Names returns every known directive name: built-ins first, then
// registered names sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, int(kindCount)+len(r.custom))
	for _, k := range Kinds() {
		out = append(out, k.String())
	}
	custom := make([]string, 0, len(r.custom))
	for name := range r.custom {
		custom = append(custom, name)
	}
	sort.Strings(custom)
	return append(out, custom...)
}

// Dispatch binds b with the directive named b.Name.
func (r *Registry) Dispatch(b Binding) error {
	d, ok := r.Lookup(b.Name)
	if !ok {
		return &UnknownDirectiveError{Name: b.Name, Node: b.Node}
	}
	return d.Bind(b, d.Update)
}
