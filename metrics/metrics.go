package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry is the dedicated Prometheus registry for the planner
	Registry = prometheus.NewRegistry()
	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// Plans counts single path searches by mode and outcome
	Plans = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_plans_total", Help: "Path searches by mode and result."},
		[]string{"mode", "result"},
	)
	// PlanDuration tracks path search latencies in seconds
	PlanDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "route_plan_duration_seconds", Help: "Path search duration in seconds.", Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}},
		[]string{"mode"},
	)
	// Candidates counts ensemble members by outcome (ok, failed, abandoned)
	Candidates = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "fleet_candidates_total", Help: "Ensemble candidates by result."},
		[]string{"result"},
	)
	// Hazards is the size of the current hazard set by source
	Hazards = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "forecast_hazards", Help: "Hazards currently loaded, by source."},
		[]string{"source"},
	)
)

// RegisterDefault registers collectors to the planner registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(Plans)
		Registry.MustRegister(PlanDuration)
		Registry.MustRegister(Candidates)
		Registry.MustRegister(Hazards)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once

// Handler exposes Registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
