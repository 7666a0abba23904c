// Package compiler binds a template tree to a scope.
//
// Compile detaches the root's children into an off-screen fragment, walks it
// depth-first in pre-order, dispatches every directive attribute (v-kind or
// v-kind:modifier) and every text node containing {{ }} slots to the
// directive registry, and finally re-attaches the fragment under the root.
// An element's own directives are bound before its children are compiled.
//
// # Failure Policy
//
// By default a binding that fails (unknown directive, unresolvable path,
// invalid modifier) is skipped: the error is recorded as a Diagnostic in the
// returned Report and logged, and compilation continues with the rest of the
// tree. WithStrict(true) makes the first failure abort the compile instead.
// Either way the fragment is re-attached, so the root never loses content.
package compiler
