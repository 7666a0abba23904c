package render

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vango-dev/vbind/pkg/dom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables pretty-printed HTML output with indentation.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// IncludeIDs adds a data-vid attribute carrying the node id to every
	// element, so a remote client can address nodes in mutation messages.
	IncludeIDs bool

	// StripPrefix removes attributes starting with this prefix (typically
	// the directive prefix "v-") from the output.
	StripPrefix string
}

// IDAttribute is the attribute written when IncludeIDs is set.
const IDAttribute = "data-vid"

// Renderer serializes dom trees to HTML.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders a node and its descendants to a string.
func (r *Renderer) RenderToString(node *dom.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a node and its descendants to w.
func (r *Renderer) RenderToWriter(w io.Writer, node *dom.Node) error {
	return r.renderNode(w, node, 0)
}

// InnerHTML renders only the children of node.
func (r *Renderer) InnerHTML(node *dom.Node) (string, error) {
	var buf bytes.Buffer
	for _, c := range node.Children {
		if err := r.renderNode(&buf, c, 0); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// renderNode dispatches rendering based on node type.
func (r *Renderer) renderNode(w io.Writer, node *dom.Node, depth int) error {
	if node == nil {
		return nil
	}

	switch node.Type {
	case dom.ElementNode:
		return r.renderElement(w, node, depth)
	case dom.TextNode:
		return r.renderText(w, node)
	case dom.FragmentNode:
		for _, child := range node.Children {
			if err := r.renderNode(w, child, depth); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("render: unknown node type: %d", node.Type)
	}
}

// renderElement renders an element with its attributes and children.
func (r *Renderer) renderElement(w io.Writer, node *dom.Node, depth int) error {
	tag := node.Tag

	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	if _, err := io.WriteString(w, "<"+tag); err != nil {
		return err
	}
	if err := r.renderAttributes(w, node); err != nil {
		return err
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	if isVoidElement(tag) {
		if r.config.Pretty {
			io.WriteString(w, "\n")
		}
		return nil
	}

	switch {
	case tag == "textarea":
		if _, err := io.WriteString(w, escapeText(node.Value())); err != nil {
			return err
		}
	case isRawTextElement(tag):
		if _, err := io.WriteString(w, node.TextContent()); err != nil {
			return err
		}
	default:
		hasBlockChildren := len(node.Children) > 0 && !isInlineElement(tag)
		if r.config.Pretty && hasBlockChildren {
			io.WriteString(w, "\n")
		}
		for _, child := range node.Children {
			if err := r.renderNode(w, child, depth+1); err != nil {
				return err
			}
		}
		if r.config.Pretty && hasBlockChildren {
			r.writeIndent(w, depth)
		}
	}

	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	if r.config.Pretty {
		io.WriteString(w, "\n")
	}
	return nil
}

// renderText renders a text node with HTML escaping.
func (r *Renderer) renderText(w io.Writer, node *dom.Node) error {
	text := node.Data
	if r.config.Pretty {
		text = strings.TrimSpace(text)
		if text == "" {
			return nil
		}
	}
	_, err := io.WriteString(w, escapeText(text))
	return err
}

// renderAttributes renders attributes in source order. The value facet of
// an input replaces its value attribute.
func (r *Renderer) renderAttributes(w io.Writer, node *dom.Node) error {
	isInput := node.Tag == "input"
	wroteValue := false

	for _, a := range node.Attrs {
		if r.config.StripPrefix != "" && strings.HasPrefix(a.Name, r.config.StripPrefix) {
			continue
		}
		if a.Name == IDAttribute && r.config.IncludeIDs {
			continue
		}
		value := a.Value
		if isInput && a.Name == "value" {
			value = node.Value()
			wroteValue = true
		}
		if isBooleanAttr(a.Name) && value == "" {
			if _, err := fmt.Fprintf(w, " %s", a.Name); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, a.Name, escapeAttr(value)); err != nil {
			return err
		}
	}

	if isInput && !wroteValue {
		if v := node.Value(); v != "" {
			if _, err := fmt.Fprintf(w, ` value="%s"`, escapeAttr(v)); err != nil {
				return err
			}
		}
	}

	if r.config.IncludeIDs {
		if _, err := fmt.Fprintf(w, ` %s="%s"`, IDAttribute, strconv.FormatUint(node.ID(), 10)); err != nil {
			return err
		}
	}
	return nil
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		io.WriteString(w, r.config.Indent)
	}
}
