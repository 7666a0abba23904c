package reactive

import "log/slog"

// Observer receives lifecycle hooks from a Store. It is used for metrics;
// implementations must not read or write the store.
type Observer interface {
	// TrackerCreated is called after a tracker took its baseline reading.
	TrackerCreated(path string)

	// Notified is called when a dependency set starts notifying.
	Notified(subscribers int)

	// CallbackFailed is called for every isolated subscriber failure.
	CallbackFailed(err *CallbackError)
}

type noopObserver struct{}

func (noopObserver) TrackerCreated(string)         {}
func (noopObserver) Notified(int)                  {}
func (noopObserver) CallbackFailed(*CallbackError) {}

// ErrorReporter receives errors isolated during notification.
type ErrorReporter func(err error)

// Option configures a Store.
type Option func(*runtime)

// WithLogger sets the logger used for reporting isolated failures.
func WithLogger(logger *slog.Logger) Option {
	return func(rt *runtime) {
		if logger != nil {
			rt.logger = logger
		}
	}
}

// WithErrorReporter replaces the default reporter, which logs at error level.
func WithErrorReporter(report ErrorReporter) Option {
	return func(rt *runtime) {
		rt.report = report
	}
}

// WithObserver installs lifecycle hooks.
func WithObserver(o Observer) Option {
	return func(rt *runtime) {
		if o != nil {
			rt.observer = o
		}
	}
}

// runtime is the state shared by every object and dependency set of a store.
type runtime struct {
	logger   *slog.Logger
	report   ErrorReporter
	observer Observer
}

func newRuntime(opts []Option) *runtime {
	rt := &runtime{
		logger:   slog.Default(),
		observer: noopObserver{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(rt)
		}
	}
	return rt
}

// fail reports an isolated subscriber failure.
func (rt *runtime) fail(err *CallbackError) {
	rt.observer.CallbackFailed(err)
	if rt.report != nil {
		rt.report(err)
		return
	}
	rt.logger.Error("reactive: subscriber failed",
		"path", err.Path,
		"panicked", err.Panicked,
		"error", err.Err,
	)
}
