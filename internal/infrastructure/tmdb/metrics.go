package tmdb

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	upstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tmdb_upstream_requests_total",
			Help: "Upstream calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	upstreamRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tmdb_upstream_retries_total",
			Help: "Upstream attempts retried after a transport failure",
		},
	)

	upstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "tmdb_upstream_request_duration_seconds",
			Help: "Upstream call latency including retries",
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(upstreamRequestsTotal)
	prometheus.MustRegister(upstreamRetriesTotal)
	prometheus.MustRegister(upstreamRequestDuration)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case IsTransport(err):
		return "transport_error"
	}
	var se *HTTPStatusError
	if errors.As(err, &se) {
		return "http_error"
	}
	return "error"
}
