package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/vbind/pkg/directive"
	"github.com/vango-dev/vbind/pkg/reactive"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "vbind").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for event duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the event duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "vbind",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics implements the store and compiler observer hooks and the live
// server's session hooks on top of Prometheus collectors.
type Metrics struct {
	trackersCreated prometheus.Counter
	notifications   prometheus.Counter
	fanout          prometheus.Histogram
	callbackErrors  *prometheus.CounterVec
	bindings        *prometheus.CounterVec
	bindFailures    *prometheus.CounterVec
	eventsTotal     *prometheus.CounterVec
	eventDuration   *prometheus.HistogramVec
	mutations       *prometheus.CounterVec
	activeSessions  prometheus.Gauge
	wsErrors        *prometheus.CounterVec
}

// New registers the collectors and returns them.
//
// Metrics collected:
//   - vbind_trackers_created_total: trackers created
//   - vbind_notifications_total: dependency sets notified
//   - vbind_notify_fanout: subscribers per notification
//   - vbind_callback_errors_total: failing callbacks by kind (error, panic)
//   - vbind_bindings_total: directives bound by name
//   - vbind_binding_failures_total: directives skipped by name and reason
//   - vbind_events_total: live events by type and status
//   - vbind_event_duration_seconds: live event handling duration
//   - vbind_mutations_total: view mutations streamed by facet
//   - vbind_active_sessions: open live sessions
//   - vbind_websocket_errors_total: websocket errors by type
func New(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		trackersCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "trackers_created_total",
			Help:        "Total number of change trackers created",
			ConstLabels: config.ConstLabels,
		}),

		notifications: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notifications_total",
			Help:        "Total number of dependency set notifications",
			ConstLabels: config.ConstLabels,
		}),

		fanout: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "notify_fanout",
			Help:        "Subscribers re-evaluated per notification",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{0, 1, 2, 4, 8, 16, 32, 64},
		}),

		callbackErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "callback_errors_total",
			Help:        "Total number of tracker callbacks that failed",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		bindings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "bindings_total",
			Help:        "Total number of directives bound",
			ConstLabels: config.ConstLabels,
		}, []string{"directive"}),

		bindFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "binding_failures_total",
			Help:        "Total number of directives that failed to bind",
			ConstLabels: config.ConstLabels,
		}, []string{"directive", "reason"}),

		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "events_total",
			Help:        "Total number of live events handled",
			ConstLabels: config.ConstLabels,
		}, []string{"type", "status"}),

		eventDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "event_duration_seconds",
			Help:        "Live event handling duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"type"}),

		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mutations_total",
			Help:        "Total number of view mutations streamed to clients",
			ConstLabels: config.ConstLabels,
		}, []string{"facet"}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of open live sessions",
			ConstLabels: config.ConstLabels,
		}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_errors_total",
			Help:        "Total WebSocket errors by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),
	}
}

// =============================================================================
// Store and compiler hooks
// =============================================================================

// TrackerCreated implements reactive.Observer.
func (m *Metrics) TrackerCreated(string) {
	m.trackersCreated.Inc()
}

// Notified implements reactive.Observer.
func (m *Metrics) Notified(subscribers int) {
	m.notifications.Inc()
	m.fanout.Observe(float64(subscribers))
}

// CallbackFailed implements reactive.Observer.
func (m *Metrics) CallbackFailed(err *reactive.CallbackError) {
	kind := "error"
	if err.Panicked {
		kind = "panic"
	}
	m.callbackErrors.WithLabelValues(kind).Inc()
}

// DirectiveBound implements compiler.Observer.
func (m *Metrics) DirectiveBound(name string) {
	m.bindings.WithLabelValues(name).Inc()
}

// DirectiveFailed implements compiler.Observer.
func (m *Metrics) DirectiveFailed(name string, err error) {
	m.bindFailures.WithLabelValues(name, categorizeError(err)).Inc()
}

// categorizeError keeps the reason label low-cardinality.
func categorizeError(err error) string {
	var (
		unknown *directive.UnknownDirectiveError
		invalid *directive.InvalidDirectiveError
		path    *reactive.PathResolutionError
	)
	switch {
	case errors.As(err, &unknown):
		return "unknown_directive"
	case errors.As(err, &invalid):
		return "invalid_directive"
	case errors.As(err, &path):
		return "path"
	case errors.Is(err, reactive.ErrEmptyPath):
		return "empty_path"
	default:
		return "internal"
	}
}

// =============================================================================
// Live session hooks
// =============================================================================

// ObserveEvent records one handled live event.
func (m *Metrics) ObserveEvent(eventType string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.eventsTotal.WithLabelValues(eventType, status).Inc()
	m.eventDuration.WithLabelValues(eventType).Observe(d.Seconds())
}

// RecordMutation records one mutation sent to a client.
func (m *Metrics) RecordMutation(facet string) {
	m.mutations.WithLabelValues(facet).Inc()
}

// SessionOpened records a new live session.
func (m *Metrics) SessionOpened() {
	m.activeSessions.Inc()
}

// SessionClosed records a live session ending.
func (m *Metrics) SessionClosed() {
	m.activeSessions.Dec()
}

// WebSocketError records a websocket failure.
func (m *Metrics) WebSocketError(errorType string) {
	m.wsErrors.WithLabelValues(errorType).Inc()
}
