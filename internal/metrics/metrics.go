package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/HalleluyahGirl/ExpenseApp/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "expenseapp",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "expenseapp",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})

	// Record metrics

	RecordsCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "expenseapp",
		Name:      "records_created_total",
		Help:      "Records created, by kind.",
	}, []string{"kind"})

	// Notifier metrics

	RemindersNotifiedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "expenseapp",
		Name:      "reminders_notified_total",
		Help:      "Due reminders processed, by outcome.",
	}, []string{"outcome"})

	NotifierCycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "expenseapp",
		Name:      "notifier_cycle_duration_seconds",
		Help:      "Time taken for one notifier poll cycle.",
		Buckets:   prometheus.DefBuckets,
	})
)

func Register() {
	prometheus.MustRegister(
		HTTPRequestDuration,
		HTTPRequestsTotal,
		RecordsCreatedTotal,
		RemindersNotifiedTotal,
		NotifierCycleDuration,
	)
}

// NewServer serves /metrics plus the liveness and readiness probes on
// the internal port.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Readiness(r.Context()))
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, result health.HealthResult) {
	w.Header().Set("Content-Type", "application/json")
	if result.Status != "up" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(result)
}
