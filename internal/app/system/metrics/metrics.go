// Package metrics holds the Prometheus collectors for the board, the
// publication gate and the text generation client.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GenAIRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mading_genai_request_duration_seconds",
		Help:    "Duration of text generation requests",
		Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 20, 30, 45, 60, 90, 120},
	}, []string{"model", "status"})

	GenAIRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mading_genai_requests_total",
		Help: "Text generation requests by outcome",
	}, []string{"model", "status"})

	GenAITokensTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mading_genai_tokens_total",
		Help: "Tokens reported by the text generation service",
	}, []string{"model", "type"})

	PublishRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mading_publish_runs_total",
		Help: "Daily publication gate runs by outcome",
	}, []string{"outcome"})

	MaterialsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mading_materials_created_total",
		Help: "Materials created by source",
	}, []string{"source"})

	MaterialsDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mading_materials_deleted_total",
		Help: "Materials deleted by teachers",
	})

	BoardLoadErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mading_board_load_errors_total",
		Help: "Board renders that could not read the content repository",
	})

	ListCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mading_list_cache_total",
		Help: "Material listing cache lookups by result",
	}, []string{"result"})
)

var registerOnce sync.Once

// MustRegister registers every collector once; later calls are no-ops.
func MustRegister(registerer prometheus.Registerer) {
	registerOnce.Do(func() {
		registerer.MustRegister(
			GenAIRequestDuration,
			GenAIRequestTotal,
			GenAITokensTotal,
			PublishRuns,
			MaterialsCreated,
			MaterialsDeleted,
			BoardLoadErrors,
			ListCache,
		)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveGenAIRequest records duration and status of one generation call.
func ObserveGenAIRequest(model string, start time.Time, err error) {
	if model == "" {
		model = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	GenAIRequestDuration.WithLabelValues(model, status).Observe(time.Since(start).Seconds())
	GenAIRequestTotal.WithLabelValues(model, status).Inc()
}

// ObserveGenAITokens records token usage when the service reports it.
func ObserveGenAITokens(model string, prompt, candidates, total int) {
	if model == "" {
		model = "unknown"
	}
	if prompt > 0 {
		GenAITokensTotal.WithLabelValues(model, "prompt").Add(float64(prompt))
	}
	if candidates > 0 {
		GenAITokensTotal.WithLabelValues(model, "candidates").Add(float64(candidates))
	}
	if total <= 0 {
		total = prompt + candidates
	}
	if total > 0 {
		GenAITokensTotal.WithLabelValues(model, "total").Add(float64(total))
	}
}
