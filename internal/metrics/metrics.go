package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flightdeck_http_requests_total",
			Help: "Total HTTP requests served",
		},
		[]string{"path", "status"},
	)

	ChartRendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flightdeck_chart_renders_total",
			Help: "Total chart specifications built, by chart and outcome",
		},
		[]string{"chart", "status"},
	)

	ChartRenderSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flightdeck_chart_render_seconds",
			Help:    "Time spent reshaping data and building chart specifications",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"chart"},
	)

	RowsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flightdeck_rows_ingested_total",
			Help: "Rows loaded into the table store at startup",
		},
		[]string{"table"},
	)
)
