package vm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vbind/pkg/compiler"
	"github.com/vango-dev/vbind/pkg/directive"
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/reactive"
)

var (
	// ErrUnknownMethod is returned by Call for names without a method.
	ErrUnknownMethod = errors.New("vm: unknown method")

	// ErrElementNotFound is returned by New when El cannot be resolved.
	ErrElementNotFound = errors.New("vm: element not found")
)

// Observer receives store and compiler hooks. internal/metrics provides a
// Prometheus implementation.
type Observer interface {
	reactive.Observer
	compiler.Observer
}

// Options configures a VM.
type Options struct {
	// El is the mount point: a *dom.Node, or a selector resolved against
	// Document. When nil, nothing is compiled.
	El any

	// Document resolves a selector El.
	Document *dom.Document

	// Data is the data tree. It becomes owned by the store.
	Data map[string]any

	// Computed are read-only derived properties.
	Computed map[string]Computed

	// Methods are callable from v-on directives.
	Methods map[string]Method

	// Registry holds the directives. Defaults to directive.NewRegistry().
	Registry *directive.Registry

	// Prefix is the directive attribute prefix. Defaults to "v-".
	Prefix string

	// Strict aborts New on the first failing binding.
	Strict bool

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Observer receives metrics hooks.
	Observer Observer

	// Tracer is used for compile spans.
	Tracer trace.Tracer

	// ErrorReporter receives failures isolated during notification. The
	// default logs them.
	ErrorReporter reactive.ErrorReporter
}

// VM is a bound view: a store, its methods and the compiled template.
type VM struct {
	store   *reactive.Store
	methods map[string]Method
	el      *dom.Node
	report  *compiler.Report
	logger  *slog.Logger
}

// New wraps the data, installs computed properties and methods and compiles
// the mount point. With Strict unset, bindings that fail are skipped and
// listed in Report().
func New(ctx context.Context, opts Options) (*VM, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	storeOpts := []reactive.Option{reactive.WithLogger(logger)}
	if opts.Observer != nil {
		storeOpts = append(storeOpts, reactive.WithObserver(opts.Observer))
	}
	if opts.ErrorReporter != nil {
		storeOpts = append(storeOpts, reactive.WithErrorReporter(opts.ErrorReporter))
	}

	data := opts.Data
	if data == nil {
		data = map[string]any{}
	}
	store, err := reactive.Wrap(data, storeOpts...)
	if err != nil {
		return nil, err
	}

	v := &VM{
		store:   store,
		methods: make(map[string]Method, len(opts.Methods)),
		logger:  logger,
	}

	for name, c := range opts.Computed {
		getter, err := c.build(name)
		if err != nil {
			return nil, err
		}
		store.DefineComputed(name, getter)
	}
	for name, m := range opts.Methods {
		v.methods[name] = m
	}

	el, err := resolveEl(opts.El, opts.Document)
	if err != nil {
		return nil, err
	}
	if el == nil {
		return v, nil
	}
	v.el = el

	copts := []compiler.Option{
		compiler.WithPrefix(opts.Prefix),
		compiler.WithStrict(opts.Strict),
		compiler.WithLogger(logger),
		compiler.WithTracer(opts.Tracer),
	}
	if opts.Observer != nil {
		copts = append(copts, compiler.WithObserver(opts.Observer))
	}
	report, err := compiler.New(opts.Registry, copts...).Compile(ctx, el, v)
	v.report = report
	if err != nil {
		return nil, err
	}
	return v, nil
}

func resolveEl(el any, doc *dom.Document) (*dom.Node, error) {
	switch e := el.(type) {
	case nil:
		return nil, nil
	case *dom.Node:
		return e, nil
	case string:
		if doc == nil {
			return nil, fmt.Errorf("%w: selector %q needs a document", ErrElementNotFound, e)
		}
		n := doc.Query(e)
		if n == nil {
			return nil, fmt.Errorf("%w: %q", ErrElementNotFound, e)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("vm: unsupported El type %T", el)
	}
}

// Store returns the underlying reactive store.
func (v *VM) Store() *reactive.Store {
	return v.store
}

// El returns the mount point, or nil.
func (v *VM) El() *dom.Node {
	return v.el
}

// Report returns the compile report, or nil when nothing was compiled.
func (v *VM) Report() *compiler.Report {
	return v.report
}

// Get reads a dotted path without tracking.
func (v *VM) Get(path string) (any, error) {
	return v.store.Get(path)
}

// Set writes a dotted path and synchronously updates every binding on it.
func (v *VM) Set(path string, value any) error {
	return v.store.Set(path, value)
}

// Data returns a plain copy of the data, computed properties excluded.
func (v *VM) Data() map[string]any {
	return v.store.Snapshot()
}

// Watch calls fn whenever the value at path changes.
func (v *VM) Watch(path string, fn func(value any)) (*reactive.Tracker, error) {
	return reactive.NewTracker(v.store, path, func(value any) error {
		fn(value)
		return nil
	})
}

// Call invokes a method. It implements directive.Scope.
func (v *VM) Call(method string, e *dom.Event) error {
	m, ok := v.methods[method]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
	return m(v, e)
}

// Methods returns the number of installed methods.
func (v *VM) Methods() int {
	return len(v.methods)
}
