package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	requestDuration *prometheus.HistogramVec
	catalogFetches  *prometheus.CounterVec
	toolDispatches  *prometheus.CounterVec
}

func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &Metrics{
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "appcatmcp_http_request_duration_seconds",
				Help:    "Duration of edge HTTP requests in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"route", "status"},
		),
		catalogFetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "appcatmcp_catalog_fetches_total",
				Help: "Total number of outbound catalog fetch attempts",
			},
			[]string{"outcome"},
		),
		toolDispatches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "appcatmcp_tool_dispatches_total",
				Help: "Total number of tool dispatches",
			},
			[]string{"tool", "outcome"},
		),
	}
}

func (m *Metrics) ObserveRequest(route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(route, status).Observe(duration.Seconds())
}

func (m *Metrics) ObserveCatalogFetch(err error) {
	if m == nil {
		return
	}
	m.catalogFetches.WithLabelValues(outcome(err)).Inc()
}

func (m *Metrics) ObserveDispatch(tool string, err error) {
	if m == nil {
		return
	}
	m.toolDispatches.WithLabelValues(tool, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
