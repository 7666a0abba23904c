// Package dom provides the mutable view-node tree that vbind binds to.
//
// Unlike a virtual DOM, nodes here are the live view: directives mutate them
// in place and every facet mutation is published to the owning Document's
// observers, which is how the live playground streams updates to a browser.
//
// # Core Types
//
// Document owns node identifiers and mutation observers. Node is an element,
// text node or fragment. Event is what listeners receive.
//
// # Facets
//
// Directives only ever touch one facet of a node at a time:
//
//	n.SetValue("5")           // form control value
//	n.SetTextContent("hi")    // text content
//	n.SetInnerHTML("<b>x</b>") // markup content, parsed verbatim
//	n.SetAttribute("title", "x")
//
// # Events
//
// Listeners run synchronously in registration order and do not bubble:
//
//	input.AddEventListener("input", func(e *dom.Event) error { ... })
//	err := input.Input("5") // sets the value, then dispatches "input"
package dom
