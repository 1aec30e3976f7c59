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
	// Operation metrics
	OperationsTotal  *prometheus.CounterVec
	OperationErrors  *prometheus.CounterVec
	OperationLatency *prometheus.HistogramVec

	// Supply metrics
	TokensMinted prometheus.Counter
	TokensBurned prometheus.Counter

	// Sale metrics
	PurchasesTotal  prometheus.Counter
	PurchaseVolume  prometheus.Counter
	FeesCollected   prometheus.Counter
	PurchaseRejects *prometheus.CounterVec

	// Staking metrics
	StakesTotal       prometheus.Counter
	StakedAmount      prometheus.Gauge
	RewardsPaid       prometheus.Counter
	StakeClaimsTotal  prometheus.Counter
	LiquidityFeesPaid prometheus.Counter

	// Event metrics
	EventsEmitted       *prometheus.CounterVec
	EventSubscribers    prometheus.Gauge
	EventDeliveryErrors prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "pump_token_core"
	}

	return &Metrics{
		// Operation metrics
		OperationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "operations_total",
			Help:      "Total number of engine operations by name and status",
		}, []string{"operation", "status"}),
		OperationErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "operation_errors_total",
			Help:      "Total number of operation errors by name and error kind",
		}, []string{"operation", "error"}),
		OperationLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "operation_latency_seconds",
			Help:      "Engine operation latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),

		// Supply metrics
		TokensMinted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "tokens_minted_total",
			Help:      "Total whole tokens minted across all ledgers",
		}),
		TokensBurned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "tokens_burned_total",
			Help:      "Total whole tokens burned across all ledgers",
		}),

		// Sale metrics
		PurchasesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sale",
			Name:      "purchases_total",
			Help:      "Total number of accepted purchases",
		}),
		PurchaseVolume: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sale",
			Name:      "purchase_volume_total",
			Help:      "Total payment volume across accepted purchases",
		}),
		FeesCollected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sale",
			Name:      "fees_collected_total",
			Help:      "Total protocol fees collected from purchases",
		}),
		PurchaseRejects: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sale",
			Name:      "purchase_rejects_total",
			Help:      "Total number of rejected purchases by reason",
		}, []string{"reason"}),

		// Staking metrics
		StakesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "staking",
			Name:      "stakes_total",
			Help:      "Total number of accepted stakes",
		}),
		StakedAmount: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "staking",
			Name:      "staked_amount",
			Help:      "Current total staked across all pools",
		}),
		RewardsPaid: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "staking",
			Name:      "rewards_paid_total",
			Help:      "Total staking rewards paid out",
		}),
		StakeClaimsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "staking",
			Name:      "claims_total",
			Help:      "Total number of matured positions claimed",
		}),
		LiquidityFeesPaid: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "liquidity",
			Name:      "fees_paid_total",
			Help:      "Total flat liquidity creation fees paid",
		}),

		// Event metrics
		EventsEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "emitted_total",
			Help:      "Total number of domain events emitted by kind",
		}, []string{"kind"}),
		EventSubscribers: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "subscribers",
			Help:      "Current number of websocket event subscribers",
		}),
		EventDeliveryErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "delivery_errors_total",
			Help:      "Total number of event delivery failures",
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordOperation records an engine operation outcome.
func RecordOperation(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	DefaultMetrics.OperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordOperationError records an operation error by kind.
func RecordOperationError(operation, errorKind string) {
	DefaultMetrics.OperationErrors.WithLabelValues(operation, errorKind).Inc()
}

// RecordPurchase records an accepted purchase.
func RecordPurchase(paid, fee uint64) {
	DefaultMetrics.PurchasesTotal.Inc()
	DefaultMetrics.PurchaseVolume.Add(float64(paid))
	DefaultMetrics.FeesCollected.Add(float64(fee))
}

// RecordPurchaseReject records a rejected purchase by reason.
func RecordPurchaseReject(reason string) {
	DefaultMetrics.PurchaseRejects.WithLabelValues(reason).Inc()
}

// RecordStake records an accepted stake.
func RecordStake(amount uint64) {
	DefaultMetrics.StakesTotal.Inc()
	DefaultMetrics.StakedAmount.Add(float64(amount))
}

// RecordStakeClaim records a matured position payout.
func RecordStakeClaim(principal, reward uint64) {
	DefaultMetrics.StakeClaimsTotal.Inc()
	DefaultMetrics.RewardsPaid.Add(float64(reward))
	DefaultMetrics.StakedAmount.Sub(float64(principal))
}

// RecordEventEmitted records a domain event emission.
func RecordEventEmitted(kind string) {
	DefaultMetrics.EventsEmitted.WithLabelValues(kind).Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
