package render

import "golang.org/x/net/html/atom"

// isVoidElement reports elements written without children or a closing tag.
func isVoidElement(tag string) bool {
	switch atom.Lookup([]byte(tag)) {
	case atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr,
		atom.Img, atom.Input, atom.Link, atom.Meta, atom.Source, atom.Track, atom.Wbr:
		return true
	}
	return false
}

// isRawTextElement reports elements whose text is written unescaped.
func isRawTextElement(tag string) bool {
	switch atom.Lookup([]byte(tag)) {
	case atom.Script, atom.Style:
		return true
	}
	return false
}

// isInlineElement reports phrasing elements that pretty output keeps on the
// line of their parent. Bound templates mostly wrap slots in these.
func isInlineElement(tag string) bool {
	switch atom.Lookup([]byte(tag)) {
	case atom.A, atom.Abbr, atom.B, atom.Button, atom.Code, atom.Em, atom.I,
		atom.Kbd, atom.Label, atom.Mark, atom.Q, atom.S, atom.Small, atom.Span,
		atom.Strong, atom.Sub, atom.Sup, atom.Time, atom.U:
		return true
	}
	return false
}

// isBooleanAttr reports form and display attributes whose empty value is
// written as the bare name.
func isBooleanAttr(name string) bool {
	switch atom.Lookup([]byte(name)) {
	case atom.Autofocus, atom.Checked, atom.Disabled, atom.Hidden, atom.Multiple,
		atom.Open, atom.Readonly, atom.Required, atom.Selected:
		return true
	}
	return false
}
