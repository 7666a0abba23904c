package render

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"testing"

	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/vm"
)

// reparse parses rendered markup back into a document.
func reparse(t *testing.T, markup string) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(markup)
	if err != nil {
		t.Fatalf("rendered markup does not parse: %v\n%s", err, markup)
	}
	return doc
}

func TestRenderText(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	doc := dom.MustParse("Hello, World!")
	html, err := renderer.RenderToString(doc.Root)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "Hello, World!" {
		t.Errorf("got %q, want %q", html, "Hello, World!")
	}
}

func TestRenderTextEscaping(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	doc := dom.NewDocument()
	doc.Root.AppendChild(doc.CreateText("<script>alert('xss')</script>"))
	html, err := renderer.RenderToString(doc.Root)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("HTML should be escaped, got %q", html)
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Errorf("should contain escaped script tag, got %q", html)
	}
}

func TestRenderElement(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	doc := dom.MustParse(`<div class="container"><h1>Title</h1><p>Content</p></div>`)
	html, err := renderer.RenderToString(doc.Root)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<div class="container"><h1>Title</h1><p>Content</p></div>`
	if html != want {
		t.Errorf("got %q, want %q", html, want)
	}
}

func TestRenderInputValueFacet(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	doc := dom.MustParse(`<input type="text" value="old" required><input id="b">`)
	inputs := dom.QueryAll(doc.Root, "input")
	inputs[0].SetValue(`new "quoted"`)
	inputs[1].SetValue("5")

	html, err := renderer.RenderToString(doc.Root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(html, "old") {
		t.Errorf("value facet should replace the attribute, got %q", html)
	}
	if got, _ := reparse(t, html).Query("input").GetAttribute("value"); got != `new "quoted"` {
		t.Errorf("value = %q, want %q", got, `new "quoted"`)
	}
	if !strings.Contains(html, " required") || strings.Contains(html, `required=""`) {
		t.Errorf("boolean attribute should render bare, got %q", html)
	}
	if !strings.Contains(html, `<input id="b" value="5">`) {
		t.Errorf("value facet should be added when no attribute exists, got %q", html)
	}
	if strings.Contains(html, "</input>") {
		t.Errorf("void element should not close, got %q", html)
	}
}

func TestRenderTextarea(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})
	doc := dom.MustParse(`<textarea>draft</textarea>`)
	doc.Query("textarea").SetValue("a < b")

	html, _ := renderer.RenderToString(doc.Root)
	if html != `<textarea>a &lt; b</textarea>` {
		t.Errorf("got %q", html)
	}
}

func TestRenderStripPrefixAndIDs(t *testing.T) {
	renderer := NewRenderer(RendererConfig{StripPrefix: "v-", IncludeIDs: true})
	doc := dom.MustParse(`<p v-html="msg" class="x">hi</p>`)
	p := doc.Query("p")

	html, err := renderer.RenderToString(doc.Root)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(html, "v-html") {
		t.Errorf("directive attribute should be stripped, got %q", html)
	}
	if got, _ := reparse(t, html).Query("p").GetAttribute(IDAttribute); got != strconv.FormatUint(p.ID(), 10) {
		t.Errorf("data-vid = %q, want %d", got, p.ID())
	}
}

func TestInnerHTML(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})
	doc := dom.MustParse(`<div id="box"><b>x</b> &amp; y</div>`)

	inner, err := renderer.InnerHTML(doc.Query("#box"))
	if err != nil {
		t.Fatal(err)
	}
	if inner != `<b>x</b> &amp; y` {
		t.Errorf("got %q", inner)
	}
}

func TestRenderPretty(t *testing.T) {
	renderer := NewRenderer(RendererConfig{Pretty: true})
	doc := dom.MustParse(`<div><p>a</p></div>`)

	html, _ := renderer.RenderToString(doc.Root)
	if !strings.HasPrefix(html, "<div>\n  <p>") || !strings.HasSuffix(html, "</div>\n") {
		t.Errorf("expected indented child, got %q", html)
	}
}

func TestRenderEscapesBoundValues(t *testing.T) {
	doc := dom.MustParse(`<div id="app"><a v-bind:title="tip">{{ label }}</a></div>`)
	tip := "say \"hi\"\nand 'bye' <ok> & done"
	label := `<b>bold</b> & "plain"`
	_, err := vm.New(context.Background(), vm.Options{
		El:       "#app",
		Document: doc,
		Data:     map[string]any{"tip": tip, "label": label},
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatal(err)
	}

	html, err := NewRenderer(RendererConfig{StripPrefix: "v-"}).RenderToString(doc.Root)
	if err != nil {
		t.Fatal(err)
	}
	if strings.ContainsAny(html, "\r\n") {
		t.Errorf("attribute line breaks should be escaped, got %q", html)
	}
	if strings.Contains(html, "<b>") {
		t.Errorf("interpolated markup should be escaped, got %q", html)
	}

	a := reparse(t, html).Query("a")
	if got, _ := a.GetAttribute("title"); got != tip {
		t.Errorf("title = %q, want %q", got, tip)
	}
	if got := a.TextContent(); got != label {
		t.Errorf("text = %q, want %q", got, label)
	}
	if len(a.Children) != 1 {
		t.Errorf("text should stay a single text node, got %d children", len(a.Children))
	}
}

func TestRenderEscapesSetValue(t *testing.T) {
	doc := dom.MustParse(`<input><textarea></textarea>`)
	in := doc.Query("input")
	in.SetValue("a\tb\nc & </input>")
	doc.Query("textarea").SetValue("</textarea><b>x</b>")

	html, err := NewRenderer(RendererConfig{}).RenderToString(doc.Root)
	if err != nil {
		t.Fatal(err)
	}
	back := reparse(t, html)
	if got, _ := back.Query("input").GetAttribute("value"); got != "a\tb\nc & </input>" {
		t.Errorf("input value = %q", got)
	}
	if got := back.Query("textarea").TextContent(); got != "</textarea><b>x</b>" {
		t.Errorf("textarea = %q", got)
	}
	if back.Query("b") != nil {
		t.Errorf("textarea content should not become markup, got %q", html)
	}
}
