package compiler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vbind/pkg/directive"
	"github.com/vango-dev/vbind/pkg/dom"
)

// DefaultPrefix is the attribute prefix that marks a directive.
const DefaultPrefix = "v-"

const tracerName = "vbind/compiler"

// Observer receives per-binding outcomes. It is used for metrics.
type Observer interface {
	DirectiveBound(name string)
	DirectiveFailed(name string, err error)
}

type noopObserver struct{}

func (noopObserver) DirectiveBound(string)         {}
func (noopObserver) DirectiveFailed(string, error) {}

// Compiler walks templates and dispatches directives to a registry.
type Compiler struct {
	registry *directive.Registry
	prefix   string
	strict   bool
	logger   *slog.Logger
	tracer   trace.Tracer
	observer Observer
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithPrefix sets the directive attribute prefix (default "v-").
func WithPrefix(prefix string) Option {
	return func(c *Compiler) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithStrict makes the first failing binding abort the compile.
func WithStrict(strict bool) Option {
	return func(c *Compiler) {
		c.strict = strict
	}
}

// WithLogger sets the logger diagnostics are written to.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTracer sets the tracer used for compile spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Compiler) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// WithObserver installs per-binding hooks.
func WithObserver(o Observer) Option {
	return func(c *Compiler) {
		if o != nil {
			c.observer = o
		}
	}
}

// New creates a compiler. A nil registry uses directive.NewRegistry().
func New(registry *directive.Registry, opts ...Option) *Compiler {
	if registry == nil {
		registry = directive.NewRegistry()
	}
	c := &Compiler{
		registry: registry,
		prefix:   DefaultPrefix,
		logger:   slog.Default(),
		tracer:   otel.Tracer(tracerName),
		observer: noopObserver{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Prefix returns the directive attribute prefix.
func (c *Compiler) Prefix() string {
	return c.prefix
}

// Diagnostic records a binding that was skipped.
type Diagnostic struct {
	Node      *dom.Node
	Attr      string // Attribute name, empty for interpolation
	Directive string
	Err       error
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	where := d.Node.Path()
	if d.Attr != "" {
		where += " [" + d.Attr + "]"
	}
	return fmt.Sprintf("%s: %v", where, d.Err)
}

// Unwrap returns the underlying error.
func (d Diagnostic) Unwrap() error {
	return d.Err
}

// Report summarizes a compile.
type Report struct {
	// Bindings is the number of directives bound successfully.
	Bindings int

	// Diagnostics lists skipped bindings in template order.
	Diagnostics []Diagnostic
}

// Err joins every diagnostic, or returns nil when there are none.
func (r *Report) Err() error {
	if r == nil || len(r.Diagnostics) == 0 {
		return nil
	}
	errs := make([]error, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		errs[i] = d
	}
	return errors.Join(errs...)
}

// errAbort stops the walk in strict mode.
var errAbort = errors.New("compiler: aborted")

// Compile binds every directive under root against scope. In strict mode the
// first failure is returned; otherwise failures only appear in the report.
func (c *Compiler) Compile(ctx context.Context, root *dom.Node, scope directive.Scope) (*Report, error) {
	if root == nil {
		return nil, fmt.Errorf("compiler: nil root")
	}
	_, span := c.tracer.Start(ctx, "vbind.compile", trace.WithAttributes(
		attribute.String("vbind.root", root.Path()),
		attribute.Bool("vbind.strict", c.strict),
	))
	defer span.End()

	report := &Report{}
	w := &walker{c: c, scope: scope, report: report}

	frag := root.DetachChildren()
	err := w.compile(frag)
	root.AppendChild(frag)

	span.SetAttributes(
		attribute.Int("vbind.bindings", report.Bindings),
		attribute.Int("vbind.diagnostics", len(report.Diagnostics)),
	)
	if err != nil {
		last := report.Diagnostics[len(report.Diagnostics)-1]
		span.RecordError(last.Err)
		span.SetStatus(codes.Error, last.Error())
		return report, last
	}
	if len(report.Diagnostics) > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d bindings skipped", len(report.Diagnostics)))
	}
	return report, nil
}

// walker carries per-compile state.
type walker struct {
	c      *Compiler
	scope  directive.Scope
	report *Report
}

func (w *walker) compile(n *dom.Node) error {
	children := make([]*dom.Node, len(n.Children))
	copy(children, n.Children)

	for _, child := range children {
		switch child.Type {
		case dom.ElementNode:
			owned, err := w.compileElement(child)
			if err != nil {
				return err
			}
			if owned {
				continue
			}
			if err := w.compile(child); err != nil {
				return err
			}
		case dom.TextNode:
			if err := w.compileText(child); err != nil {
				return err
			}
		}
	}
	return nil
}

// compileElement dispatches n's directives. It reports whether a text or
// html binding now owns n's children, which are then left uncompiled.
func (w *walker) compileElement(n *dom.Node) (bool, error) {
	attrs := make([]dom.Attr, len(n.Attrs))
	copy(attrs, n.Attrs)

	owned := false
	for _, a := range attrs {
		if !strings.HasPrefix(a.Name, w.c.prefix) {
			continue
		}
		name, modifier, _ := strings.Cut(strings.TrimPrefix(a.Name, w.c.prefix), ":")
		b := directive.Binding{
			Node:     n,
			Name:     name,
			Expr:     strings.TrimSpace(a.Value),
			Modifier: modifier,
			Scope:    w.scope,
		}
		ok, err := w.dispatch(b, a.Name)
		if err != nil {
			return false, err
		}
		if ok && (name == directive.KindHTML.String() || name == directive.KindText.String()) {
			owned = true
		}
	}
	return owned, nil
}

func (w *walker) compileText(n *dom.Node) error {
	if !directive.HasInterpolation(n.Data) {
		return nil
	}
	b := directive.Binding{
		Node:  n,
		Name:  directive.KindText.String(),
		Expr:  n.Data,
		Scope: w.scope,
	}
	_, err := w.dispatch(b, "")
	return err
}

// dispatch binds b and reports whether it succeeded. The error is only
// non-nil when a strict compile must stop.
func (w *walker) dispatch(b directive.Binding, attr string) (bool, error) {
	err := w.c.registry.Dispatch(b)
	if err == nil {
		w.report.Bindings++
		w.c.observer.DirectiveBound(b.Name)
		return true, nil
	}

	w.report.Diagnostics = append(w.report.Diagnostics, Diagnostic{
		Node:      b.Node,
		Attr:      attr,
		Directive: b.Name,
		Err:       err,
	})
	w.c.observer.DirectiveFailed(b.Name, err)
	if w.c.strict {
		return false, errAbort
	}
	w.c.logger.Warn("compiler: binding skipped",
		"node", b.Node.Path(),
		"attr", attr,
		"directive", b.Name,
		"error", err,
	)
	return false, nil
}
