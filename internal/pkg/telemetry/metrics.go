package telemetry

// SLI metric names used for instrumentation.
const (
	// Latency
	MetricAPILatencyP50 = "api.latency.p50"
	MetricAPILatencyP95 = "api.latency.p95"
	MetricAPILatencyP99 = "api.latency.p99"

	// Throughput
	MetricRequestsPerSec = "api.requests_per_second"

	// Submission pipeline
	MetricAcceptRate    = "submissions.accept_rate"
	MetricMirrorBacklog = "sheets.mirror_backlog"
	MetricMirrorLag     = "sheets.mirror_lag_seconds"

	// Availability
	MetricUptime = "service.uptime_percentage"

	// Business
	MetricReportsPerDay    = "business.reports_per_day"
	MetricCriticalFraction = "business.critical_fraction"
)
