// Package errors provides structured, actionable error messages for vbind.
//
// Errors carry a code from a fixed registry, a category, a location and an
// optional hint. Template problems are located by node path rather than by
// line, since bindings are compiled from a parsed tree.
//
// # Error Categories
//
//   - runtime: path resolution, read-only writes, failing callbacks
//   - template: unknown or malformed directives, missing mount element
//   - config: vbind.json problems and invalid expressions
//   - source: template or data that cannot be loaded
//   - protocol: bad messages on the live connection
//   - cli: invalid command input such as event scripts
//
// # Usage
//
//	err := errors.New(errors.CodeUnknownDirective).
//	    WithNode("div#app > p").
//	    WithSuggestion("Did you mean v-text?")
//
//	fmt.Println(err.Format())
//
// Classify converts errors returned by the binding packages:
//
//	errors.PrintError(errors.Classify(err))
package errors
