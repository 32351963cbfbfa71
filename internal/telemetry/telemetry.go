// Package telemetry records Prometheus metrics for catalog comparisons.
//
// Metrics are per instance and registered on a caller-supplied registerer,
// so several differs (or tests) never share process-wide collectors.
package telemetry

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/erraggy/catalogdiff"
	"github.com/erraggy/catalogdiff/catalogerrors"
	"github.com/erraggy/catalogdiff/differ"
)

const namespace = "catalogdiff"

// Outcome labels of the diffs_total counter.
const (
	OutcomeCompatible = "compatible"
	OutcomeBreaking   = "breaking"
	OutcomeError      = "error"
)

// Metrics implements differ.Observer.
type Metrics struct {
	diffs       *prometheus.CounterVec
	errs        *prometheus.CounterVec
	entities    *prometheus.CounterVec
	breaking    prometheus.Counter
	ambiguities prometheus.Counter
	duration    prometheus.Histogram
	nodes       prometheus.Histogram
}

var _ differ.Observer = (*Metrics)(nil)

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		return nil, errors.New("telemetry: nil registerer")
	}
	m := &Metrics{
		diffs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "diffs_total",
			Help:      "Catalog comparisons by outcome.",
		}, []string{"outcome"}),
		errs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Failed catalog comparisons by error type.",
		}, []string{"type"}),
		entities: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entities_total",
			Help:      "Classified entities by partition.",
		}, []string{"partition"}),
		breaking: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "breaking_changes_total",
			Help:      "Breaking entity changes found.",
		}),
		ambiguities: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ambiguous_identifiers_total",
			Help:      "Identifiers shared by several rename candidates.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "diff_duration_seconds",
			Help:      "Wall time of a catalog comparison.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		nodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snapshot_nodes",
			Help:      "Value nodes per compared snapshot.",
			Buckets:   prometheus.ExponentialBuckets(10, 10, 6),
		}),
	}
	buildInfo := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "build_info",
		Help:      "Build of the process recording the metrics; always 1.",
	}, []string{"version", "user_agent"})
	buildInfo.WithLabelValues(catalogdiff.Version(), catalogdiff.UserAgent()).Set(1)

	for _, c := range []prometheus.Collector{buildInfo, m.diffs, m.errs, m.entities, m.breaking, m.ambiguities, m.duration, m.nodes} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("telemetry: %w", err)
		}
	}
	return m, nil
}

// ObserveDiff records one comparison.
func (m *Metrics) ObserveDiff(stats differ.Stats, err error) {
	m.duration.Observe(stats.Duration.Seconds())
	if stats.OriginalNodes > 0 {
		m.nodes.Observe(float64(stats.OriginalNodes))
	}
	if stats.UpdatedNodes > 0 {
		m.nodes.Observe(float64(stats.UpdatedNodes))
	}
	if err != nil {
		m.diffs.WithLabelValues(OutcomeError).Inc()
		m.errs.WithLabelValues(ErrorType(err)).Inc()
		return
	}

	if stats.Breaking > 0 {
		m.diffs.WithLabelValues(OutcomeBreaking).Inc()
	} else {
		m.diffs.WithLabelValues(OutcomeCompatible).Inc()
	}
	m.breaking.Add(float64(stats.Breaking))
	m.ambiguities.Add(float64(stats.Ambiguities))
	for partition, n := range map[string]int{
		"added":      stats.Added,
		"deleted":    stats.Deleted,
		"renamed":    stats.Renamed,
		"deprecated": stats.Deprecated,
		"reverted":   stats.Reverted,
		"updated":    stats.Updated,
	} {
		if n > 0 {
			m.entities.WithLabelValues(partition).Add(float64(n))
		}
	}
}

// ErrorType maps an error to the value of the errors_total "type" label.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, catalogerrors.ErrResourceLimit):
		return "resource_limit"
	case errors.Is(err, catalogerrors.ErrUnhandledType):
		return "unhandled_type"
	case errors.Is(err, catalogerrors.ErrAmbiguousIdentifier):
		return "ambiguous_identifier"
	case errors.Is(err, catalogerrors.ErrParse):
		return "parse"
	case errors.Is(err, catalogerrors.ErrConfig):
		return "config"
	default:
		return "other"
	}
}

// WriteTextfile writes everything g gathers to path in the text exposition
// format, for node_exporter's textfile collector.
func WriteTextfile(g prometheus.Gatherer, path string) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("telemetry: writing %s: %w", path, err)
	}
	return nil
}
