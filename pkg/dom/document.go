package dom

import "sync/atomic"

// Facet names the part of a node a mutation changed.
type Facet string

const (
	FacetValue     Facet = "value"
	FacetText      Facet = "text"
	FacetHTML      Facet = "html"
	FacetAttribute Facet = "attr"
)

// Mutation describes one facet change on a node.
type Mutation struct {
	Node  *Node
	Facet Facet
	Name  string // attribute name for FacetAttribute
	Value string
}

// MutationObserver is called synchronously after each facet change.
type MutationObserver func(m Mutation)

// Document owns a node tree: it assigns node ids and publishes mutations.
type Document struct {
	// Root is the top-level fragment holding parsed content.
	Root *Node

	ids       uint64
	observers []MutationObserver
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	d := &Document{}
	d.Root = &Node{Type: FragmentNode, doc: d, id: d.nextID()}
	return d
}

func (d *Document) nextID() uint64 {
	return atomic.AddUint64(&d.ids, 1)
}

// CreateElement returns a detached element owned by d.
func (d *Document) CreateElement(tag string, attrs ...Attr) *Node {
	return &Node{Type: ElementNode, Tag: tag, Attrs: attrs, doc: d, id: d.nextID()}
}

// CreateText returns a detached text node owned by d.
func (d *Document) CreateText(data string) *Node {
	return &Node{Type: TextNode, Data: data, doc: d, id: d.nextID()}
}

// Observe registers fn for every subsequent mutation. The returned function
// removes it.
func (d *Document) Observe(fn MutationObserver) func() {
	d.observers = append(d.observers, fn)
	idx := len(d.observers) - 1
	return func() {
		if idx < len(d.observers) {
			d.observers[idx] = nil
		}
	}
}

// NodeByID finds a node in the tree by id.
func (d *Document) NodeByID(id uint64) *Node {
	var found *Node
	Walk(d.Root, func(n *Node) bool {
		if n.id == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Query returns the first node under the root matching selector.
func (d *Document) Query(selector string) *Node {
	return Query(d.Root, selector)
}

func (d *Document) publish(m Mutation) {
	if d == nil {
		return
	}
	for _, fn := range d.observers {
		if fn != nil {
			fn(m)
		}
	}
}

// Walk visits n and its descendants depth-first, pre-order, until fn
// returns false.
func Walk(n *Node, fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !Walk(c, fn) {
			return false
		}
	}
	return true
}
