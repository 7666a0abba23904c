package live

import (
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/render"
)

// ClientEvent is sent by the browser when a bound element fires an event.
type ClientEvent struct {
	// ID is the data-vid of the target element.
	ID uint64 `json:"id"`

	// Type is the DOM event type, e.g. "input" or "click".
	Type string `json:"type"`

	// Value is the target's value for form controls.
	Value string `json:"value,omitempty"`
}

// Patch is sent to the browser for every view change.
type Patch struct {
	// ID is the data-vid of the element to update.
	ID uint64 `json:"id"`

	// Facet is "value", "attr" or "html". Text changes are sent as the
	// rendered inner HTML of the nearest element.
	Facet dom.Facet `json:"facet"`

	// Name is the attribute name for the attr facet.
	Name string `json:"name,omitempty"`

	Value string `json:"value"`
}

// ErrorMessage reports a rejected client event.
type ErrorMessage struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// patchFor converts a mutation to the patch a browser can apply. Text and
// HTML changes re-render the owning element so new nodes keep their ids.
func patchFor(r *render.Renderer, m dom.Mutation) (Patch, bool, error) {
	n := m.Node
	switch m.Facet {
	case dom.FacetValue:
		return Patch{ID: n.ID(), Facet: dom.FacetValue, Value: m.Value}, true, nil
	case dom.FacetAttribute:
		return Patch{ID: n.ID(), Facet: dom.FacetAttribute, Name: m.Name, Value: m.Value}, true, nil
	case dom.FacetText, dom.FacetHTML:
		el := n
		if !el.IsElement() {
			el = n.Parent
		}
		if el == nil || !el.IsElement() {
			return Patch{}, false, nil
		}
		inner, err := r.InnerHTML(el)
		if err != nil {
			return Patch{}, false, err
		}
		return Patch{ID: el.ID(), Facet: dom.FacetHTML, Value: inner}, true, nil
	}
	return Patch{}, false, nil
}

// coalesce keeps the last patch per element, facet and attribute, in order
// of first appearance.
func coalesce(patches []Patch) []Patch {
	type key struct {
		id    uint64
		facet dom.Facet
		name  string
	}
	index := make(map[key]int, len(patches))
	out := patches[:0:0]
	for _, p := range patches {
		k := key{p.ID, p.Facet, p.Name}
		if i, ok := index[k]; ok {
			out[i] = p
			continue
		}
		index[k] = len(out)
		out = append(out, p)
	}
	return out
}
