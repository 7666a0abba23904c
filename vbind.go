// Package vbind provides the public API for binding HTML templates to
// reactive data.
//
// This is the recommended import for most programs:
//
//	import "github.com/vango-dev/vbind"
//
// Usage:
//
//	doc := vbind.MustParse(`<div id="app"><p>{{ msg }}</p><input v-model="msg"></div>`)
//	v, err := vbind.New(ctx, vbind.Options{
//	    El:       "#app",
//	    Document: doc,
//	    Data:     map[string]any{"msg": "hello"},
//	})
//	doc.Query("input").Input("bye") // msg is now "bye", the <p> shows it
package vbind

import (
	"context"
	"io"

	"github.com/vango-dev/vbind/pkg/compiler"
	"github.com/vango-dev/vbind/pkg/directive"
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/reactive"
	"github.com/vango-dev/vbind/pkg/render"
	"github.com/vango-dev/vbind/pkg/vm"
)

// =============================================================================
// View model (re-export from pkg/vm)
// =============================================================================

// VM is a bound view: data, methods and a compiled template.
type VM = vm.VM

// Options configures New.
type Options = vm.Options

// Method is callable from v-on directives.
type Method = vm.Method

// Computed is a derived, read-only property.
type Computed = vm.Computed

// New wraps the data, installs computed properties and methods and compiles
// the mount element.
func New(ctx context.Context, opts Options) (*VM, error) {
	return vm.New(ctx, opts)
}

// ComputedFunc derives a property with Go code.
var ComputedFunc = vm.ComputedFunc

// ComputedExpr derives a property from an expression over the data.
var ComputedExpr = vm.ComputedExpr

// ExprMethod builds a method from path to expression assignments.
var ExprMethod = vm.ExprMethod

var (
	ErrUnknownMethod   = vm.ErrUnknownMethod
	ErrElementNotFound = vm.ErrElementNotFound
)

// =============================================================================
// Reactive store (re-export from pkg/reactive)
// =============================================================================

// Store is the reactive data tree.
type Store = reactive.Store

// Reader reads the store, tracking dependencies when it carries a tracker.
type Reader = reactive.Reader

// Tracker re-reads a path when its dependencies change.
type Tracker = reactive.Tracker

// Wrap makes a data tree reactive.
var Wrap = reactive.Wrap

// NewTracker observes a path and calls cb when its value changes.
var NewTracker = reactive.NewTracker

type (
	PathResolutionError = reactive.PathResolutionError
	CallbackError       = reactive.CallbackError
)

var (
	ErrReadOnly   = reactive.ErrReadOnly
	ErrEmptyPath  = reactive.ErrEmptyPath
	ErrNotMapping = reactive.ErrNotMapping
)

// =============================================================================
// Directives (re-export from pkg/directive and pkg/compiler)
// =============================================================================

// Registry maps directive names to binders and updaters.
type Registry = directive.Registry

// Directive pairs a binder with its updater.
type Directive = directive.Directive

// Binding describes one directive occurrence.
type Binding = directive.Binding

// Report summarizes a compile.
type Report = compiler.Report

// Diagnostic records a binding that was skipped.
type Diagnostic = compiler.Diagnostic

// NewRegistry returns a registry holding the built-in directives.
var NewRegistry = directive.NewRegistry

type (
	UnknownDirectiveError = directive.UnknownDirectiveError
	InvalidDirectiveError = directive.InvalidDirectiveError
)

// =============================================================================
// Documents (re-export from pkg/dom and pkg/render)
// =============================================================================

// Document owns a parsed node tree.
type Document = dom.Document

// Node is an element, text or fragment node.
type Node = dom.Node

// Event is dispatched to node listeners.
type Event = dom.Event

// Parse reads an HTML fragment.
func Parse(r io.Reader) (*Document, error) {
	return dom.Parse(r)
}

// ParseString reads an HTML fragment from a string.
var ParseString = dom.ParseString

// MustParse is ParseString that panics on error.
var MustParse = dom.MustParse

// Render serializes n to HTML, dropping attributes that start with prefix.
func Render(n *Node, prefix string) (string, error) {
	return render.NewRenderer(render.RendererConfig{StripPrefix: prefix}).RenderToString(n)
}
