package dom

import "strings"

// Value returns the form control value. Until SetValue is called this is the
// value attribute (or the text content for a textarea).
func (n *Node) Value() string {
	if n.hasValue {
		return n.value
	}
	if n.Tag == "textarea" {
		return n.TextContent()
	}
	v, _ := n.GetAttribute("value")
	return v
}

// SetValue sets the form control value.
func (n *Node) SetValue(v string) {
	n.value = v
	n.hasValue = true
	n.doc.publish(Mutation{Node: n, Facet: FacetValue, Value: v})
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Data
	}
	var b strings.Builder
	Walk(n, func(c *Node) bool {
		if c.Type == TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}

// SetTextContent replaces the text of a text node, or replaces every child
// of an element with a single text node.
func (n *Node) SetTextContent(s string) {
	if n.Type == TextNode {
		n.Data = s
	} else {
		n.clearChildren()
		if s != "" {
			n.AppendChild(n.newText(s))
		}
	}
	n.doc.publish(Mutation{Node: n, Facet: FacetText, Value: s})
}

// SetInnerHTML parses markup and replaces n's children with the result. The
// markup is inserted verbatim: it is not sanitized.
func (n *Node) SetInnerHTML(markup string) error {
	children, err := parseFragment(n.doc, n.Tag, strings.NewReader(markup))
	if err != nil {
		return err
	}
	n.clearChildren()
	for _, c := range children {
		n.AppendChild(c)
	}
	n.doc.publish(Mutation{Node: n, Facet: FacetHTML, Value: markup})
	return nil
}

// SetAttribute sets or replaces an attribute.
func (n *Node) SetAttribute(name, value string) {
	replaced := false
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			replaced = true
			break
		}
	}
	if !replaced {
		n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
	}
	n.doc.publish(Mutation{Node: n, Facet: FacetAttribute, Name: name, Value: value})
}

// RemoveAttribute deletes the named attribute if present.
func (n *Node) RemoveAttribute(name string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return
		}
	}
}

func (n *Node) clearChildren() {
	for _, c := range n.Children {
		c.Parent = nil
	}
	n.Children = nil
}

func (n *Node) newText(s string) *Node {
	if n.doc != nil {
		return n.doc.CreateText(s)
	}
	return &Node{Type: TextNode, Data: s}
}
