// Package live serves a bound template to browsers and keeps it interactive.
//
// Every page load binds a fresh view in its own session. The page carries a
// small client that forwards input, change and click events over a
// websocket; the server applies them to the session's view and streams the
// resulting changes back as JSON patches:
//
//	-> {"id": 7, "type": "input", "value": "hello"}
//	<- {"id": 4, "facet": "html", "value": "hello"}
//
// Element ids are the data-vid attributes written by the renderer.
package live
