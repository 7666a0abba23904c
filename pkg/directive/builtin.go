package directive

import (
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/reactive"
)

// AttrValue is the value handed to the attribute updater.
type AttrValue struct {
	Name  string
	Value any
}

// bindModel wires v-model: the store drives the node's value and every
// input event writes the raw string back. No numeric coercion is applied.
func bindModel(b Binding, update Updater) error {
	store := b.Scope.Store()
	t, err := reactive.NewTracker(store, b.Expr, func(v any) error {
		return update(b.Node, v)
	})
	if err != nil {
		return err
	}
	b.Node.AddEventListener("input", func(e *dom.Event) error {
		return store.Set(b.Expr, e.Target.Value())
	})
	return update(b.Node, t.Value())
}

// bindOn wires v-on:<event> to a method. It creates no tracker.
func bindOn(b Binding, _ Updater) error {
	if b.Modifier == "" {
		return &InvalidDirectiveError{Name: b.Name, Reason: "missing event name (v-on:<event>)", Node: b.Node}
	}
	if b.Expr == "" {
		return &InvalidDirectiveError{Name: b.Name, Reason: "missing method name", Node: b.Node}
	}
	scope, method := b.Scope, b.Expr
	b.Node.AddEventListener(b.Modifier, func(e *dom.Event) error {
		return scope.Call(method, e)
	})
	return nil
}

// bindText wires a text node holding one or more {{ }} slots. Each slot gets
// its own tracker; any slot change re-renders the whole text. On an element
// (v-text="path") the text content follows the value at path.
func bindText(b Binding, update Updater) error {
	if b.Node.IsElement() {
		return bindPath(b, update)
	}
	store := b.Scope.Store()
	content := b.Expr

	// Resolve every slot before subscribing anything, so a bad slot leaves
	// no trackers behind.
	initial, err := Interpolate(store, content)
	if err != nil {
		return err
	}
	for _, slot := range Slots(content) {
		_, err := reactive.NewTracker(store, slot, func(any) error {
			text, err := Interpolate(store, content)
			if err != nil {
				return err
			}
			return update(b.Node, text)
		})
		if err != nil {
			return err
		}
	}
	return update(b.Node, initial)
}

// bindPath wires the value at b.Expr to update, one way. v-html uses it
// directly.
func bindPath(b Binding, update Updater) error {
	t, err := reactive.NewTracker(b.Scope.Store(), b.Expr, func(v any) error {
		return update(b.Node, v)
	})
	if err != nil {
		return err
	}
	return update(b.Node, t.Value())
}

// bindAttr wires v-bind:<attr>, one way.
func bindAttr(b Binding, update Updater) error {
	if b.Modifier == "" {
		return &InvalidDirectiveError{Name: b.Name, Reason: "missing attribute name (v-bind:<attr>)", Node: b.Node}
	}
	name := b.Modifier
	t, err := reactive.NewTracker(b.Scope.Store(), b.Expr, func(v any) error {
		return update(b.Node, AttrValue{Name: name, Value: v})
	})
	if err != nil {
		return err
	}
	return update(b.Node, AttrValue{Name: name, Value: t.Value()})
}

func updateValue(n *dom.Node, v any) error {
	n.SetValue(Format(v))
	return nil
}

func updateText(n *dom.Node, v any) error {
	n.SetTextContent(Format(v))
	return nil
}

func updateHTML(n *dom.Node, v any) error {
	return n.SetInnerHTML(Format(v))
}

func updateAttr(n *dom.Node, v any) error {
	av, ok := v.(AttrValue)
	if !ok {
		return &InvalidDirectiveError{Name: KindBind.String(), Reason: "attribute updater needs an AttrValue", Node: n}
	}
	n.SetAttribute(av.Name, Format(av.Value))
	return nil
}
