package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RefreshPassesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "availability_refresh_passes_total",
		Help: "Total number of completed availability refresh passes",
	})

	RefreshPassesFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "availability_refresh_passes_failed_total",
		Help: "Total number of failed availability refresh passes",
	}, []string{"reason"})

	RefreshPassesDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "availability_refresh_passes_discarded_total",
		Help: "Total number of passes discarded because a newer pass superseded them",
	})

	RefreshPassDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "availability_refresh_pass_duration_seconds",
		Help:    "Duration of one full parse-aggregate-match-view pass",
		Buckets: prometheus.DefBuckets,
	})

	RefreshTriggersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "availability_refresh_triggers_total",
		Help: "Refresh triggers by source",
	}, []string{"source"})

	ReservationLinesMatched = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "reservation_lines_matched",
		Help: "Matched reservation lines in the latest published pass",
	})

	ReservationLinesUnmatched = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "reservation_lines_unmatched",
		Help: "Unmatched reservation lines in the latest published pass",
	})

	CatalogGroupsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_groups_total",
		Help: "Catalog groups in the latest published pass",
	})

	StatusCommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_commands_total",
		Help: "Order status commands applied, by target status",
	}, []string{"status"})

	OrderDeletionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_deletions_total",
		Help: "Total number of orders deleted",
	})

	StocktakeReportsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stocktake_reports_total",
		Help: "Total number of stocktake reports recorded",
	})

	StocktakeResolutionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stocktake_resolutions_total",
		Help: "Total number of stocktake reports resolved",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
