package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "wpfilter"

// Pipeline and run outcomes used as the "result" label.
const (
	ResultSuccess     = "success"
	ResultError       = "error"
	ResultCancelled   = "cancelled"
	ResultPassthrough = "passthrough"
)

// FilterMetrics contains Prometheus metrics for filter runs.
type FilterMetrics struct {
	runsTotal        *prometheus.CounterVec
	pipelinesTotal   *prometheus.CounterVec
	pipelineDuration *prometheus.HistogramVec
	stageErrorsTotal *prometheus.CounterVec
}

var (
	filterMetricsInstance *FilterMetrics
	filterMetricsOnce     sync.Once
)

// GetFilterMetrics returns the singleton instance registered with the
// default Prometheus registry.
func GetFilterMetrics() *FilterMetrics {
	filterMetricsOnce.Do(func() {
		filterMetricsInstance = NewFilterMetrics(prometheus.DefaultRegisterer, DefaultNamespace)
	})
	return filterMetricsInstance
}

// NewFilterMetrics builds and registers a metric set on reg. A nil reg
// leaves the collectors unregistered.
func NewFilterMetrics(reg prometheus.Registerer, namespace string) *FilterMetrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)

	return &FilterMetrics{
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of Model invocations by outcome",
			},
			[]string{"result"},
		),
		pipelinesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pipelines_total",
				Help:      "Total number of per-key pipelines by outcome",
			},
			[]string{"key", "result"},
		),
		pipelineDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "pipeline_duration_seconds",
				Help:      "Duration of per-key pipelines in seconds",
				Buckets: []float64{
					.00001, .0001, .0005, .001,
					.005, .01, .05, .1, .5,
				},
			},
			[]string{"key"},
		),
		stageErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stage_errors_total",
				Help:      "Total number of stage failures",
			},
			[]string{"key", "stage"},
		),
	}
}

// MustRegister registers the collectors with an additional registry, for
// callers serving /metrics from a custom registry.
func (m *FilterMetrics) MustRegister(registry *prometheus.Registry) {
	registry.MustRegister(
		m.runsTotal,
		m.pipelinesTotal,
		m.pipelineDuration,
		m.stageErrorsTotal,
	)
}

func (m *FilterMetrics) RecordRun(result string) {
	m.runsTotal.WithLabelValues(result).Inc()
}

func (m *FilterMetrics) RecordPipeline(key, result string, d time.Duration) {
	m.pipelinesTotal.WithLabelValues(key, result).Inc()
	m.pipelineDuration.WithLabelValues(key).Observe(d.Seconds())
}

func (m *FilterMetrics) RecordStageError(key, stage string) {
	m.stageErrorsTotal.WithLabelValues(key, stage).Inc()
}
