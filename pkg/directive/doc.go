// Package directive is the directive/update registry of vbind.
//
// A directive binds one facet of a view node to a data expression. Each
// directive supplies a Binder, which wires a reactive.Tracker (and, for input
// directives, an event listener writing back into the store), and an Updater,
// which applies a value to exactly one facet of the node.
//
// # Built-in Kinds
//
//	v-model="path"        two-way value binding (input event writes back)
//	v-on:<event>="method" calls a method with the native event
//	{{ path }}            text interpolation (the "text" kind)
//	v-html="path"         replaces the node's content with markup, verbatim
//	v-bind:<attr>="path"  one-way attribute binding
//
// The built-in kinds form a closed enumeration (Kind) dispatched through a
// fixed table. Applications may Register additional names on a Registry.
//
// # Safety
//
// v-html inserts whatever markup the bound value holds. Never bind it to
// user-controlled data.
package directive
