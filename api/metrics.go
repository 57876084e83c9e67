package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the API server
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	movesTotal      *prometheus.CounterVec
	gamesFinished   *prometheus.CounterVec
}

// NewMetrics creates and registers the API collectors on a fresh registry
func NewMetrics() (*Metrics, *prometheus.Registry) {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slidegame_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "slidegame_http_request_duration_seconds",
				Help: "Duration of HTTP requests",
			},
			[]string{"route"},
		),
		movesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slidegame_moves_total",
				Help: "Total number of moves executed, by direction and result",
			},
			[]string{"direction", "result"},
		),
		gamesFinished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slidegame_games_finished_total",
				Help: "Total number of finished games, by outcome",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(m.requestsTotal, m.requestDuration, m.movesTotal, m.gamesFinished)
	return m, registry
}

// RecordMove counts one executed move
func (m *Metrics) RecordMove(direction string, moved bool) {
	if m == nil {
		return
	}
	result := "blocked"
	if moved {
		result = "moved"
	}
	m.movesTotal.WithLabelValues(direction, result).Inc()
}

// RecordGameFinished counts one finished game
func (m *Metrics) RecordGameFinished(victory bool) {
	if m == nil {
		return
	}
	outcome := "game_over"
	if victory {
		outcome = "victory"
	}
	m.gamesFinished.WithLabelValues(outcome).Inc()
}

// statusRecorder captures the response status for metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument wraps a handler with request counting and timing
func (m *Metrics) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	if m == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		m.requestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// metricsHandler exposes the registry in Prometheus text format
func metricsHandler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
