// Package render serializes vbind view trees to HTML.
//
// It is used to take snapshots of a bound view (the CLI prints them) and to
// ship the initial markup to the live playground. It is not a page renderer:
// there is no document shell, head management or hydration.
//
// Rendering handles:
//
//   - Text and attribute escaping
//   - Void elements (input, br, img, etc.)
//   - Boolean attributes (disabled, checked, etc.)
//   - The value facet of form controls, which is not an attribute
//   - Optional node ids (data-vid) for remote addressing
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{StripPrefix: "v-"})
//	html, err := renderer.RenderToString(doc.Root)
//
// # Security
//
// Text and attribute values are escaped. Content inserted with
// Node.SetInnerHTML has already been parsed into nodes and is re-serialized
// like any other content, so markup it contained is emitted as markup.
package render
