package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Roll Metrics
var (
	FumosRolled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameFumosRolled,
			Help: HelpTextFumosRolled,
		},
		[]string{LabelRarity},
	)

	RollTransactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRollTransactions,
			Help: HelpTextRollTransactions,
		},
		[]string{LabelAutoRoll, LabelPartial},
	)

	RollFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRollFailures,
			Help: HelpTextRollFailures,
		},
		[]string{LabelKind},
	)

	CoinsRefunded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCoinsRefunded,
			Help: HelpTextCoinsRefunded,
		},
	)

	CoinsSpent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCoinsSpent,
			Help: HelpTextCoinsSpent,
		},
	)

	PityTriggers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePityTriggers,
			Help: HelpTextPityTriggers,
		},
		[]string{LabelRarity},
	)
)

// Boost and auto-roll Metrics
var (
	BoostsGranted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameBoostsGranted,
			Help: HelpTextBoostsGranted,
		},
		[]string{LabelKind},
	)

	BoostsPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameBoostsPruned,
			Help: HelpTextBoostsPruned,
		},
	)

	AutoRollSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameAutoRollSessions,
			Help: HelpTextAutoRollSessions,
		},
	)
)
