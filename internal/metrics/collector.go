// Package metrics Prometheus 指标
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wellness"

// Collector 服务指标（独立 Registry）
type Collector struct {
	registry *prometheus.Registry

	assessmentsTotal  *prometheus.CounterVec
	predictionsTotal  *prometheus.CounterVec
	fallbacksTotal    *prometheus.CounterVec
	inferenceDuration *prometheus.HistogramVec
	provisioningTotal *prometheus.CounterVec
	persistFailures   prometheus.Counter
	wellnessScore     prometheus.Histogram
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		assessmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_total",
			Help:      "Assessment submissions by outcome.",
		}, []string{"outcome"}),
		predictionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Risk predictions by inference mode and result.",
		}, []string{"mode", "result"}),
		fallbacksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "local_fallbacks_total",
			Help:      "Local inference fallbacks to the remote endpoint by reason.",
		}, []string{"reason"}),
		inferenceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "inference_duration_seconds",
			Help:      "Inference latency by mode.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
		provisioningTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "asset_provisioning_total",
			Help:      "Model artifact provisioning attempts by result.",
		}, []string{"result"}),
		persistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_failures_total",
			Help:      "Assessments returned to the caller but not persisted.",
		}),
		wellnessScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "score",
			Help:      "Distribution of computed wellness scores.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
	}

	c.registry.MustRegister(
		c.assessmentsTotal,
		c.predictionsTotal,
		c.fallbacksTotal,
		c.inferenceDuration,
		c.provisioningTotal,
		c.persistFailures,
		c.wellnessScore,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Handler /metrics
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// ObserveAssessment outcome: "ok" / "invalid" / "unavailable" / "error"
func (c *Collector) ObserveAssessment(outcome string, score int) {
	c.assessmentsTotal.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		c.wellnessScore.Observe(float64(score))
	}
}

func (c *Collector) ObservePrediction(mode string, ok bool, elapsed time.Duration) {
	c.predictionsTotal.WithLabelValues(mode, result(ok)).Inc()
	c.inferenceDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

func (c *Collector) ObserveFallback(reason string) {
	c.fallbacksTotal.WithLabelValues(reason).Inc()
}

func (c *Collector) ObserveProvisioning(ok bool) {
	c.provisioningTotal.WithLabelValues(result(ok)).Inc()
}

func (c *Collector) ObservePersistFailure() {
	c.persistFailures.Inc()
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
