// Package metrics содержит метрики Prometheus для HTTP сервера.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Метрики HTTP запросов.
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of processed HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request processing time in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	NotesCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notes_created_total",
			Help: "Total number of notes created",
		},
	)
)

var registered = false

// Register регистрирует метрики в реестре по умолчанию.
// Повторный вызов безопасен.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(HTTPRequestsTotal, HTTPRequestDuration, NotesCreatedTotal)
	registered = true
}
