package render

import (
	"strings"

	"golang.org/x/net/html"
)

// lineBreaks keeps attribute values on a single line.
var lineBreaks = strings.NewReplacer("\r", "&#13;", "\n", "&#10;")

func escapeText(s string) string {
	return html.EscapeString(s)
}

func escapeAttr(s string) string {
	return lineBreaks.Replace(html.EscapeString(s))
}
