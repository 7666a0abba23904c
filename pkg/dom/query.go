package dom

import "strings"

// selector is one compound selector such as "input#name.wide[required]".
type selector struct {
	tag     string
	id      string
	classes []string
	attrs   []string
}

func parseSelector(s string) selector {
	var sel selector
	var cur strings.Builder
	kind := byte(0)
	flush := func() {
		v := cur.String()
		cur.Reset()
		if v == "" && kind != 0 {
			return
		}
		switch kind {
		case 0:
			sel.tag = strings.ToLower(v)
		case '#':
			sel.id = v
		case '.':
			sel.classes = append(sel.classes, v)
		case '[':
			sel.attrs = append(sel.attrs, v)
		}
	}
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '#', '.', '[':
			flush()
			kind = c
		case ']':
			flush()
			kind = 0xff
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return sel
}

func (s selector) match(n *Node) bool {
	if n.Type != ElementNode {
		return false
	}
	if s.tag != "" && s.tag != "*" && n.Tag != s.tag {
		return false
	}
	if s.id != "" {
		if id, _ := n.GetAttribute("id"); id != s.id {
			return false
		}
	}
	for _, c := range s.classes {
		if !n.HasClass(c) {
			return false
		}
	}
	for _, a := range s.attrs {
		if _, ok := n.GetAttribute(a); !ok {
			return false
		}
	}
	return true
}

// Matches reports whether n matches a selector made of compound selectors
// separated by whitespace (descendant combinator).
func Matches(n *Node, sel string) bool {
	parts := strings.Fields(sel)
	if len(parts) == 0 {
		return false
	}
	if !parseSelector(parts[len(parts)-1]).match(n) {
		return false
	}
	anc := n.Parent
	for i := len(parts) - 2; i >= 0; i-- {
		want := parseSelector(parts[i])
		for anc != nil && !want.match(anc) {
			anc = anc.Parent
		}
		if anc == nil {
			return false
		}
		anc = anc.Parent
	}
	return true
}

// Query returns the first descendant of root (or root itself) matching sel.
func Query(root *Node, sel string) *Node {
	var found *Node
	Walk(root, func(n *Node) bool {
		if Matches(n, sel) {
			found = n
			return false
		}
		return true
	})
	return found
}

// QueryAll returns every node under root matching sel, in document order.
func QueryAll(root *Node, sel string) []*Node {
	var out []*Node
	Walk(root, func(n *Node) bool {
		if Matches(n, sel) {
			out = append(out, n)
		}
		return true
	})
	return out
}
