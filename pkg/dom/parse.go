package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse reads an HTML fragment (body content) into a new document. Comments
// and doctypes are dropped.
func Parse(r io.Reader) (*Document, error) {
	doc := NewDocument()
	children, err := parseFragment(doc, "body", r)
	if err != nil {
		return nil, err
	}
	for _, c := range children {
		doc.Root.AppendChild(c)
	}
	return doc, nil
}

// ParseString is Parse over a string.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// MustParse is ParseString that panics on error. Intended for tests.
func MustParse(markup string) *Document {
	doc, err := ParseString(markup)
	if err != nil {
		panic(err)
	}
	return doc
}

// parseFragment parses markup as if it were the content of a contextTag
// element and converts the result into nodes owned by doc.
func parseFragment(doc *Document, contextTag string, r io.Reader) ([]*Node, error) {
	if contextTag == "" {
		contextTag = "div"
	}
	context := &html.Node{
		Type:     html.ElementNode,
		Data:     contextTag,
		DataAtom: atom.Lookup([]byte(contextTag)),
	}
	parsed, err := html.ParseFragment(r, context)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	out := make([]*Node, 0, len(parsed))
	for _, hn := range parsed {
		if n := convert(doc, hn); n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

func convert(doc *Document, hn *html.Node) *Node {
	var n *Node
	switch hn.Type {
	case html.ElementNode:
		attrs := make([]Attr, 0, len(hn.Attr))
		for _, a := range hn.Attr {
			name := a.Key
			if a.Namespace != "" {
				name = a.Namespace + ":" + a.Key
			}
			attrs = append(attrs, Attr{Name: name, Value: a.Val})
		}
		n = newNode(doc, ElementNode)
		n.Tag = hn.Data
		n.Attrs = attrs
	case html.TextNode:
		n = newNode(doc, TextNode)
		n.Data = hn.Data
		return n
	default:
		return nil
	}
	for c := hn.FirstChild; c != nil; c = c.NextSibling {
		if child := convert(doc, c); child != nil {
			n.AppendChild(child)
		}
	}
	return n
}

func newNode(doc *Document, t NodeType) *Node {
	n := &Node{Type: t, doc: doc}
	if doc != nil {
		n.id = doc.nextID()
	}
	return n
}
