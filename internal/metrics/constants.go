package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNameFumosRolled      = "fumos_rolled_total"
	MetricNameRollTransactions = "roll_transactions_total"
	MetricNameRollFailures     = "roll_failures_total"
	MetricNameCoinsRefunded    = "coins_refunded_total"
	MetricNameCoinsSpent       = "coins_spent_total"
	MetricNamePityTriggers     = "pity_triggers_total"
	MetricNameBoostsGranted    = "boosts_granted_total"
	MetricNameBoostsPruned     = "boosts_pruned_total"
	MetricNameAutoRollSessions = "autoroll_sessions_active"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Business metric help text
const (
	HelpTextFumosRolled      = "Total number of fumos credited, by rarity"
	HelpTextRollTransactions = "Total number of committed roll transactions"
	HelpTextRollFailures     = "Total number of aborted roll transactions, by error kind"
	HelpTextCoinsRefunded    = "Total coins refunded by aborted or partial rolls"
	HelpTextCoinsSpent       = "Total coins spent on rolls"
	HelpTextPityTriggers     = "Total number of pity-forced rolls, by rarity"
	HelpTextBoostsGranted    = "Total number of boosts granted, by kind"
	HelpTextBoostsPruned     = "Total number of expired boost rows deleted"
	HelpTextAutoRollSessions = "Current number of running auto-roll sessions"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod   = "method"
	LabelPath     = "path"
	LabelStatus   = "status"
	LabelType     = "type"
	LabelRarity   = "rarity"
	LabelKind     = "kind"
	LabelAutoRoll = "auto_roll"
	LabelPartial  = "partial"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgEventPayloadInvalid = "Event payload could not be decoded"
	LogMsgMetricsRecorded     = "Metrics recorded for event"
)

// UnmatchedRoute labels requests that matched no route
const UnmatchedRoute = "unmatched"
