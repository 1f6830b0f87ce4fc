// Package metrics exports binding statistics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/go-drift/listbind/pkg/adapter"
)

// Config configures the Prometheus recorder.
type Config struct {
	// Namespace is the metrics namespace (default: "listbind").
	Namespace string

	// Subsystem is the metrics subsystem (default: "adapter").
	Subsystem string

	// ConstLabels are constant labels added to all metrics, typically the
	// name of the list an adapter serves.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus recorder.
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

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "listbind",
		Subsystem: "adapter",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Recorder implements adapter.Recorder with Prometheus collectors.
type Recorder struct {
	resolves      *prometheus.CounterVec
	changes       *prometheus.CounterVec
	subscriptions prometheus.Gauge
}

var _ adapter.Recorder = (*Recorder)(nil)

// NewRecorder registers the binding collectors and returns a recorder.
// Registering twice on the same registry panics, as promauto does.
func NewRecorder(opts ...Option) *Recorder {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	factory := promauto.With(cfg.Registry)

	return &Recorder{
		resolves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "resolves_total",
			Help:        "Views resolved, by outcome (created, reused, refreshed, rebound)",
			ConstLabels: cfg.ConstLabels,
		}, []string{"outcome"}),

		changes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "data_set_changes_total",
			Help:        "Data set changed signals sent to observers, by cause",
			ConstLabels: cfg.ConstLabels,
		}, []string{"cause"}),

		subscriptions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "item_subscriptions",
			Help:        "Live item change subscriptions held by the adapter",
			ConstLabels: cfg.ConstLabels,
		}),
	}
}

// RecordResolve implements adapter.Recorder.
func (r *Recorder) RecordResolve(outcome adapter.Outcome) {
	r.resolves.WithLabelValues(outcome.String()).Inc()
}

// RecordDataSetChanged implements adapter.Recorder.
func (r *Recorder) RecordDataSetChanged(cause adapter.Cause) {
	r.changes.WithLabelValues(cause.String()).Inc()
}

// RecordSubscriptions implements adapter.Recorder.
func (r *Recorder) RecordSubscriptions(active int) {
	r.subscriptions.Set(float64(active))
}
