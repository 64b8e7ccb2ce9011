// Package metrics defines the prometheus collectors the API exposes on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vending_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"route", "method", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vending_http_request_duration_seconds",
			Help:    "Time taken to serve HTTP requests in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"route", "method"},
	)

	SettlementCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vending_x402_settlements_total",
			Help: "Paid endpoint gate outcomes",
		},
		[]string{"outcome"},
	)

	AIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vending_ai_request_duration_seconds",
			Help:    "Time taken by the AI provider to answer in seconds",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"model", "outcome"},
	)
)

const (
	SettlementUnconfigured  = "unconfigured"
	SettlementMissingHeader = "missing_header"
	SettlementSettled       = "settled"
	SettlementRejected      = "rejected"
	SettlementError         = "error"
)

func Handler() http.Handler { return promhttp.Handler() }

func ObserveRequest(route, method string, status int, d time.Duration) {
	RequestCount.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

func IncSettlement(outcome string) { SettlementCount.WithLabelValues(outcome).Inc() }

func ObserveAI(model string, err error, d time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	AIRequestDuration.WithLabelValues(model, outcome).Observe(d.Seconds())
}
