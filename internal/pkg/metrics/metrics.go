package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, route, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ChatTurnsTotal counts chat turns by outcome (ok, unsaved, busy, invalid, upstream_error, error).
	ChatTurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_turns_total",
			Help: "Total number of chat turns by outcome",
		},
		[]string{"outcome"},
	)

	ChatTurnDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chat_turn_duration_seconds",
			Help:    "Chat turn duration in seconds, completion call included",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		},
	)

	WebsocketConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_websocket_connections",
			Help: "Number of open chat websocket connections",
		},
	)
)

func init() {
	prometheus.MustRegister(RequestDuration, RequestTotal, ChatTurnsTotal, ChatTurnDuration, WebsocketConnections)
}

func RecordRequest(method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// Middleware records every request under its route pattern, so /sessions/:id
// stays one series regardless of the id.
func Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		path := "unmatched"
		if r := ctx.Route(); r != nil && r.Path != "/" {
			path = r.Path
		}
		RecordRequest(ctx.Method(), path, status, time.Since(start))
		return err
	}
}

// TurnRecorder feeds chat turn outcomes into the turn metrics.
type TurnRecorder struct{}

func (TurnRecorder) ObserveTurn(outcome string, duration time.Duration) {
	ChatTurnsTotal.WithLabelValues(outcome).Inc()
	ChatTurnDuration.Observe(duration.Seconds())
}
