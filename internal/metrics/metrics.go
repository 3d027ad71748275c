package metrics

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	MetricsEndpoint = "0.0.0.0:9090"
)

var (
	OperationCounter        *prometheus.CounterVec
	OperationRunTimeSummary *prometheus.SummaryVec

	HTTPRequestCounter        *prometheus.CounterVec
	HTTPRequestRunTimeSummary *prometheus.SummaryVec

	StreamMessagesCounter  *prometheus.CounterVec
	StreamReconnectCounter *prometheus.CounterVec

	IdentityTokenErrorCount *prometheus.CounterVec
)

func init() {
	OperationCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pfee_operations_total",
			Help: "A counter metric to measure the total count of data access operations, successful and failed",
		},
		[]string{"operation", "state"}, // state is succeeded/failed
	)

	OperationRunTimeSummary = promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "pfee_operation_duration_seconds",
			Help: "A summary metric to measure the total time spent in completing each data access operation",
		},
		[]string{"operation", "state"},
	)

	HTTPRequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pfee_http_requests_total",
			Help: "A counter metric to measure the total count of HTTP requests sent, labeled by response code",
		},
		[]string{"method", "code"},
	)

	HTTPRequestRunTimeSummary = promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "pfee_http_request_duration_seconds",
			Help: "A summary metric to measure the time spent on each HTTP request",
		},
		[]string{"method"},
	)

	StreamMessagesCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pfee_stream_messages_total",
			Help: "A counter metric to measure the total count of telemetry messages received",
		},
		[]string{"source"},
	)

	StreamReconnectCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pfee_stream_reconnects_total",
			Help: "A counter metric to measure the total count of telemetry stream reconnects",
		},
		[]string{"source"},
	)

	IdentityTokenErrorCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pfee_identity_token_errors_total",
			Help: "A counter metric to measure the total count of errors resolving a bearer token",
		},
		[]string{"identity"},
	)
}

// ListenAndServe exposes prometheus metrics as /metrics
func ListenAndServe(addr string) {
	if addr == "" {
		addr = MetricsEndpoint
	}

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())

		server := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 2 * time.Second, // nolint:gomnd // time duration value is clear as is.
		}

		if err := server.ListenAndServe(); err != nil {
			log.Println(err)
		}
	}()
}
