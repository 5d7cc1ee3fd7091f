package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Capabilities reported by the inference metrics.
const (
	CapabilityAnswer    = "answer"
	CapabilitySummarize = "summarize"
	CapabilityGenerate  = "generate"
)

// Registry owns a dedicated Prometheus registry and the service collectors.
type Registry struct {
	reg *prometheus.Registry

	recordsSaved       prometheus.Counter
	inferenceCalls     *prometheus.CounterVec
	inferenceFailures  *prometheus.CounterVec
	inferenceDuration  *prometheus.HistogramVec
	documentsExtracted *prometheus.CounterVec
}

func New() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{
		reg: reg,
		recordsSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "edumate_records_saved_total",
			Help: "Chat records inserted into the history store.",
		}),
		inferenceCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edumate_inference_calls_total",
			Help: "Inference requests by capability.",
		}, []string{"capability"}),
		inferenceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edumate_inference_failures_total",
			Help: "Inference requests that failed or returned no text.",
		}, []string{"capability"}),
		inferenceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "edumate_inference_duration_seconds",
			Help:    "Inference latency by capability.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 90},
		}, []string{"capability"}),
		documentsExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edumate_documents_extracted_total",
			Help: "Uploaded documents by kind and outcome (text, empty, error).",
		}, []string{"kind", "result"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.recordsSaved,
		r.inferenceCalls,
		r.inferenceFailures,
		r.inferenceDuration,
		r.documentsExtracted,
	)
	return r
}

func (r *Registry) RecordSaved() {
	if r == nil {
		return
	}
	r.recordsSaved.Inc()
}

// ObserveInference records one inference call that started at start.
func (r *Registry) ObserveInference(capability string, start time.Time, failed bool) {
	if r == nil {
		return
	}
	r.inferenceCalls.WithLabelValues(capability).Inc()
	r.inferenceDuration.WithLabelValues(capability).Observe(time.Since(start).Seconds())
	if failed {
		r.inferenceFailures.WithLabelValues(capability).Inc()
	}
}

func (r *Registry) DocumentExtracted(kind, result string) {
	if r == nil {
		return
	}
	r.documentsExtracted.WithLabelValues(kind, result).Inc()
}

func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
