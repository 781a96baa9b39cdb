package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespaceAggregator = "eth_tx_aggregator"
	namespaceAnchor     = "anchor"
)

var (
	// PubdataSize size in bytes of the pubdata of committed batches, by
	// pubdata kind
	PubdataSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespaceAggregator,
			Name:      "pubdata_size_bytes",
			Help:      "",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 10), //nolint:gomnd
		}, []string{"kind"})

	// RangeSize number of batches in the saved operations, by action type
	RangeSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespaceAggregator,
			Name:      "l1_batch_range_size",
			Help:      "",
			Buckets:   prometheus.LinearBuckets(1, 1, 10), //nolint:gomnd
		}, []string{"action"})

	// EthTxsSaved saved eth tx count, by action type
	EthTxsSaved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespaceAggregator,
			Name:      "eth_txs_saved_total",
			Help:      "",
		}, []string{"action"})

	// LastSavedBatchNum last batch claimed by a saved eth tx, by action type
	LastSavedBatchNum = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespaceAggregator,
			Name:      "last_saved_batch_num",
			Help:      "",
		}, []string{"action"})

	// IterationDuration duration of the aggregator loop iterations
	IterationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespaceAggregator,
			Name:      "iteration_duration_ms",
			Help:      "",
		}, []string{"outcome"})

	// RPCErrors failed L1 reads, by call
	RPCErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespaceAggregator,
			Name:      "rpc_errors_total",
			Help:      "",
		}, []string{"call"})

	// PersistFailures failed attempts to store an eth tx
	PersistFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespaceAggregator,
			Name:      "persist_failures_total",
			Help:      "",
		})

	// ConsecutivePersistFailures failed attempts to store an eth tx since
	// the last success
	ConsecutivePersistFailures = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespaceAggregator,
			Name:      "consecutive_persist_failures",
			Help:      "",
		})

	// Running 1 while the aggregator loop runs
	Running = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespaceAggregator,
			Name:      "running",
			Help:      "",
		})

	// AnchorErrors failed anchoring steps, by step
	AnchorErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespaceAnchor,
			Name:      "errors_total",
			Help:      "",
		}, []string{"step"})

	// AnchorRoots roots deposited in the ledger
	AnchorRoots = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespaceAnchor,
			Name:      "roots_total",
			Help:      "",
		})
)

func init() {
	prometheus.MustRegister(
		PubdataSize,
		RangeSize,
		EthTxsSaved,
		LastSavedBatchNum,
		IterationDuration,
		RPCErrors,
		PersistFailures,
		ConsecutivePersistFailures,
		Running,
		AnchorErrors,
		AnchorRoots,
	)
}

// MeasureDuration measure the method execution duration
// and save it into a histogram metric
func MeasureDuration(histogram *prometheus.HistogramVec, start time.Time, lvs ...string) {
	duration := time.Since(start)
	histogram.WithLabelValues(lvs...).Observe(float64(duration.Milliseconds()))
}
