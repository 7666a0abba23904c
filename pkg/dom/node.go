package dom

import (
	"strconv"
	"strings"
)

// NodeType is the node kind discriminator.
type NodeType uint8

const (
	ElementNode  NodeType = iota // <div>, <input>, etc.
	TextNode                     // Plain text node
	FragmentNode                 // Grouping without wrapper
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case FragmentNode:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// Attr is a single element attribute.
type Attr struct {
	Name  string
	Value string
}

// Node is a live view node.
type Node struct {
	Type     NodeType
	Tag      string  // Element tag name, lower case
	Attrs    []Attr  // Element attributes in source order
	Data     string  // Text node content
	Parent   *Node   // nil for roots and detached nodes
	Children []*Node // Child nodes

	id        uint64
	doc       *Document
	value     string
	hasValue  bool
	listeners map[string][]Listener
}

// ID returns the node identifier assigned by its document, or 0.
func (n *Node) ID() uint64 {
	return n.id
}

// Document returns the owning document, or nil.
func (n *Node) Document() *Document {
	return n.doc
}

// IsElement reports whether n is an element node.
func (n *Node) IsElement() bool {
	return n != nil && n.Type == ElementNode
}

// FirstChild returns the first child or nil.
func (n *Node) FirstChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// AppendChild appends c to n. A fragment's children are moved instead of the
// fragment itself. A child that already has a parent is removed from it first.
func (n *Node) AppendChild(c *Node) {
	if c == nil {
		return
	}
	if c.Type == FragmentNode {
		moved := c.Children
		c.Children = nil
		for _, child := range moved {
			child.Parent = nil
			n.AppendChild(child)
		}
		return
	}
	if c.Parent != nil {
		c.Parent.RemoveChild(c)
	}
	c.Parent = n
	n.Children = append(n.Children, c)
}

// RemoveChild removes c from n's children.
func (n *Node) RemoveChild(c *Node) {
	for i, child := range n.Children {
		if child == c {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			c.Parent = nil
			return
		}
	}
}

// DetachChildren moves every child of n into a new, unattached fragment.
func (n *Node) DetachChildren() *Node {
	frag := &Node{Type: FragmentNode, doc: n.doc}
	if n.doc != nil {
		frag.id = n.doc.nextID()
	}
	for n.FirstChild() != nil {
		frag.AppendChild(n.FirstChild())
	}
	return frag
}

// GetAttribute returns the value of the named attribute.
func (n *Node) GetAttribute(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasClass reports whether the class attribute contains class.
func (n *Node) HasClass(class string) bool {
	v, ok := n.GetAttribute("class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// Path returns a short CSS-like location of n for diagnostics, such as
// "div#app > p:2 > #text".
func (n *Node) Path() string {
	var parts []string
	for cur := n; cur != nil; cur = cur.Parent {
		parts = append(parts, cur.label())
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}

func (n *Node) label() string {
	var b strings.Builder
	switch n.Type {
	case TextNode:
		b.WriteString("#text")
	case FragmentNode:
		b.WriteString("#fragment")
	default:
		b.WriteString(n.Tag)
		if id, ok := n.GetAttribute("id"); ok && id != "" {
			b.WriteString("#" + id)
		}
	}
	if n.Parent != nil {
		for i, sib := range n.Parent.Children {
			if sib == n && i > 0 {
				b.WriteString(":")
				b.WriteString(strconv.Itoa(i))
			}
		}
	}
	return b.String()
}
