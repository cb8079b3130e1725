package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Allocator metrics

	PlacementDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "scheduler",
		Name:      "placement_duration_seconds",
		Help:      "Time taken to place one section's request batch.",
		Buckets:   prometheus.DefBuckets,
	})

	SlotsPlacedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "scheduler",
		Name:      "slots_placed_total",
		Help:      "Total maintenance task slots successfully placed.",
	})

	SlotsPreemptedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "scheduler",
		Name:      "slots_preempted_total",
		Help:      "Total lower-priority slots displaced and re-queued by a higher-priority placement.",
	})

	RequestsUnplacedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "scheduler",
		Name:      "requests_unplaced_total",
		Help:      "Total maintenance requests that found no feasible gap within their section's horizon.",
	})

	// Train seeding

	HorizonExtendDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "scheduler",
		Name:      "horizon_extend_duration_seconds",
		Help:      "Time taken for one horizon maintainer reseed cycle.",
		Buckets:   prometheus.DefBuckets,
	})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "scheduler",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scheduler",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		PlacementDuration,
		SlotsPlacedTotal,
		SlotsPreemptedTotal,
		RequestsUnplacedTotal,
		HorizonExtendDuration,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

func NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{Addr: addr, Handler: mux}
}
