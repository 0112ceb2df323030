package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics agrupa los collectors de la API.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec   // por método, ruta y status
	HTTPRequestDuration *prometheus.HistogramVec // latencia en segundos
	PetOperations       *prometheus.CounterVec   // por operación y resultado
}

// New registra los collectors en reg (DefaultRegisterer si es nil).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, route, and status code",
			},
			[]string{"method", "route", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
		PetOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pets_operations_total",
				Help: "Total number of pet record operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
	}
}

func (m *Metrics) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) RecordOperation(operation, outcome string) {
	m.PetOperations.WithLabelValues(operation, outcome).Inc()
}
