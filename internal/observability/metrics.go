// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Analysis metrics
	AnalysesCompleted *prometheus.CounterVec
	AnalysesFailed    *prometheus.CounterVec
	AnalysisDuration  *prometheus.HistogramVec
	RiskScoreLast     *prometheus.GaugeVec

	// RPC metrics
	RPCCallLatency *prometheus.HistogramVec
	RPCCallErrors  *prometheus.CounterVec

	// Watch metrics
	TransfersObserved prometheus.Counter
	TransfersStored   prometheus.Counter
	WatchReconnects   prometheus.Counter

	// Scan metrics
	TokensDiscovered prometheus.Counter
	ScanRunsTotal    *prometheus.CounterVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulAnalysis prometheus.Gauge
	UptimeSeconds          prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "token_migration_lab"
	}

	return &Metrics{
		// Analysis metrics
		AnalysesCompleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "completed_total",
			Help:      "Total number of completed analyses by chain",
		}, []string{"chain"}),
		AnalysesFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "failed_total",
			Help:      "Total number of failed analyses by chain and stage",
		}, []string{"chain", "stage"}),
		AnalysisDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "Analysis wall time by chain",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}, []string{"chain"}),
		RiskScoreLast: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "risk_score_last",
			Help:      "Most recent composite risk score by chain and symbol",
		}, []string{"chain", "symbol"}),

		// RPC metrics
		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "call_latency_seconds",
			Help:      "EVM RPC call latency by method",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		RPCCallErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "call_errors_total",
			Help:      "Total number of failed EVM RPC calls by method",
		}, []string{"method"}),

		// Watch metrics
		TransfersObserved: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watch",
			Name:      "transfers_observed_total",
			Help:      "Total number of Transfer logs received over WebSocket",
		}),
		TransfersStored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watch",
			Name:      "transfers_stored_total",
			Help:      "Total number of transfer samples written to storage",
		}),
		WatchReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watch",
			Name:      "reconnects_total",
			Help:      "Total number of WebSocket reconnects",
		}),

		// Scan metrics
		TokensDiscovered: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "tokens_discovered_total",
			Help:      "Total number of candidate tokens discovered",
		}),
		ScanRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "runs_total",
			Help:      "Total number of scan runs by status",
		}, []string{"status"}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query duration by database and operation",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_errors_total",
			Help:      "Total number of failed database queries",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulAnalysis: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_analysis_timestamp",
			Help:      "Unix timestamp of last successful analysis",
		}),
		UptimeSeconds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "uptime_seconds_total",
			Help:      "Total uptime in seconds",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordAnalysisCompleted records a completed analysis with its score.
func RecordAnalysisCompleted(chain, symbol string, riskScore int, durationSeconds float64) {
	DefaultMetrics.AnalysesCompleted.WithLabelValues(chain).Inc()
	DefaultMetrics.AnalysisDuration.WithLabelValues(chain).Observe(durationSeconds)
	DefaultMetrics.RiskScoreLast.WithLabelValues(chain, symbol).Set(float64(riskScore))
}

// RecordAnalysisFailed records a failed analysis by pipeline stage.
func RecordAnalysisFailed(chain, stage string) {
	DefaultMetrics.AnalysesFailed.WithLabelValues(chain, stage).Inc()
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}

// RecordRPCError records a failed RPC call.
func RecordRPCError(method string) {
	DefaultMetrics.RPCCallErrors.WithLabelValues(method).Inc()
}

// RecordTransferObserved increments the observed transfer counter.
func RecordTransferObserved() {
	DefaultMetrics.TransfersObserved.Inc()
}

// RecordTransfersStored adds to the stored transfer counter.
func RecordTransfersStored(n int) {
	DefaultMetrics.TransfersStored.Add(float64(n))
}

// RecordWatchReconnect increments the reconnect counter.
func RecordWatchReconnect() {
	DefaultMetrics.WatchReconnects.Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
