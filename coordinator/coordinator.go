/*
Package coordinator turns the batches sealed by the rollup into L1
transactions.

The Coordinator runs a single loop.  Every iteration reads the configuration of
the L1 contracts in one Multicall3 call (so that all the values belong to the
same block) together with the key hash of the verifier, asks the
OperationSource for the next group of batches ready to be committed, proven or
executed, encodes the executor call for the ABI generation of the deployed
contracts, and stores it for the sender with the next nonce of its sender
account.  The tx row and the claim of its batch range are written in a single
DB transaction.

Nothing read from L1 is kept between iterations: a contracts upgrade is picked
up in the next iteration.  The only state kept by the loop is the base nonces
read at startup (in the TxManager) and the anchoring queue.

Errors reading L1 or the DB are logged and the iteration is retried after the
poll period.  An operation that the deployed contracts can't accept, or that
can't be ABI encoded, stops the loop: retrying would never succeed.
*/
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"rollup-l1-sender/anchor"
	"rollup-l1-sender/common"
	"rollup-l1-sender/eth"
	"rollup-l1-sender/log"
	"rollup-l1-sender/metric"
)

// OperationSource selects the next operation to send to L1
type OperationSource interface {
	// NextReadyOperation returns the next operation for the contracts
	// described by snapshot and verifierConfig, or nil if no batch is
	// ready
	NextReadyOperation(snapshot *common.ConfigSnapshot,
		verifierConfig *common.L1VerifierConfig) (common.AggregatedOperation, error)
}

// Anchorer mirrors the saved operations
type Anchorer interface {
	Anchor(ctx context.Context, op common.AggregatedOperation, queue *anchor.Queue) (string, error)
}

// State is the running state of the Coordinator
type State int32

const (
	// StateStopped is the state before Run and after it returns
	StateStopped State = iota
	// StateRunning is the state while Run loops
	StateRunning
)

// String implements fmt.Stringer
func (s State) String() string {
	if s == StateRunning {
		return "Running"
	}
	return "Stopped"
}

// Config contains the Coordinator configuration
type Config struct {
	// PollPeriod is the sleep between iterations
	PollPeriod time.Duration
	// MaxConsecutivePersistFailures is the number of consecutive failed
	// attempts to store a tx after which Run returns.  0 retries forever.
	MaxConsecutivePersistFailures int
}

// persistError is a failure storing an encoded operation
type persistError struct {
	err error
}

func (e *persistError) Error() string {
	return fmt.Sprintf("save eth tx: %v", e.err)
}

func (e *persistError) Unwrap() error {
	return e.err
}

// Coordinator implements the aggregator loop
type Coordinator struct {
	cfg       Config
	ethClient eth.ClientInterface
	source    OperationSource
	encoder   *Encoder
	txManager *TxManager
	// anchorer is nil when anchoring is disabled
	anchorer Anchorer

	state           atomic.Int32
	persistFailures int
	queue           anchor.Queue
}

// NewCoordinator creates a new Coordinator.  anchorer can be nil.
func NewCoordinator(cfg Config, ethClient eth.ClientInterface, source OperationSource,
	encoder *Encoder, txManager *TxManager, anchorer Anchorer) *Coordinator {
	return &Coordinator{
		cfg:       cfg,
		ethClient: ethClient,
		source:    source,
		encoder:   encoder,
		txManager: txManager,
		anchorer:  anchorer,
	}
}

// State returns the current running state
func (c *Coordinator) State() State {
	return State(c.state.Load())
}

func (c *Coordinator) setState(state State) {
	c.state.Store(int32(state))
	if state == StateRunning {
		metric.Running.Set(1)
	} else {
		metric.Running.Set(0)
	}
}

// Run loops until ctx is done or a non recoverable error is found, which is
// returned.  Cancellation is only checked between iterations: an iteration
// that has started always finishes.
func (c *Coordinator) Run(ctx context.Context) error {
	c.setState(StateRunning)
	defer c.setState(StateStopped)
	log.Infow("Coordinator started", "pollPeriod", c.cfg.PollPeriod)

	for {
		if ctx.Err() != nil {
			log.Info("Coordinator done")
			return nil
		}
		if err := c.step(context.WithoutCancel(ctx)); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			log.Info("Coordinator done")
			return nil
		case <-time.After(c.cfg.PollPeriod):
		}
	}
}

// step runs one iteration and returns the error only when the loop must stop
func (c *Coordinator) step(ctx context.Context) error {
	start := time.Now()
	err := c.loopIteration(ctx)
	if err == nil {
		metric.MeasureDuration(metric.IterationDuration, start, "ok")
		return nil
	}
	metric.MeasureDuration(metric.IterationDuration, start, "error")

	var persistErr *persistError
	switch {
	case common.IsFatal(err):
		log.Errorw("Coordinator: non recoverable error", "err", err)
		return err
	case errors.As(err, &persistErr):
		c.persistFailures++
		metric.PersistFailures.Inc()
		metric.ConsecutivePersistFailures.Set(float64(c.persistFailures))
		log.Errorw("Coordinator: failed to save eth tx", "err", err,
			"consecutiveFailures", c.persistFailures)
		if c.cfg.MaxConsecutivePersistFailures > 0 &&
			c.persistFailures >= c.cfg.MaxConsecutivePersistFailures {
			return common.Wrap(fmt.Errorf("%d consecutive failures saving eth txs: %w",
				c.persistFailures, err))
		}
	default:
		log.Warnw("Coordinator: iteration failed", "err", err)
	}
	return nil
}

func (c *Coordinator) loopIteration(ctx context.Context) error {
	snapshot, err := c.ethClient.RollupMulticallData(ctx)
	if err != nil {
		metric.RPCErrors.WithLabelValues("multicall").Inc()
		return common.Wrap(err)
	}
	vkHash, err := c.ethClient.RollupVerifierVKHash(ctx, snapshot.VerifierAddress)
	if err != nil {
		metric.RPCErrors.WithLabelValues("verification_key_hash").Inc()
		return common.Wrap(err)
	}
	verifierConfig := &common.L1VerifierConfig{
		Params:                        snapshot.VerifierParams,
		RecursionSchedulerLevelVKHash: vkHash,
	}

	op, err := c.source.NextReadyOperation(snapshot, verifierConfig)
	if err != nil {
		return common.Wrap(err)
	}
	if op == nil {
		return nil
	}

	encoded, err := c.encoder.Encode(op, snapshot.BridgeGeneration())
	if err != nil {
		return common.Wrap(err)
	}
	tx, err := c.txManager.SaveEthTx(op, encoded)
	if err != nil {
		return &persistError{err: err}
	}
	c.persistFailures = 0
	metric.ConsecutivePersistFailures.Set(0)
	reportEthTxSaving(op, tx)

	if c.anchorer != nil {
		if root, err := c.anchorer.Anchor(ctx, op, &c.queue); err != nil {
			log.Warnw("Coordinator: anchoring failed", "op", common.OperationDocName(op), "err", err)
		} else if root != "" {
			log.Infow("Coordinator: anchoring root deposited", "root", root)
		}
	}
	return nil
}

func reportEthTxSaving(op common.AggregatedOperation, tx *common.EthTx) {
	batchRange := op.L1BatchRange()
	log.Infow("Coordinator: eth tx saved", "id", tx.ID, "type", tx.TxType,
		"batches", batchRange.String(), "nonce", tx.Nonce, "from", tx.FromAddr,
		"blobs", sidecarLen(tx.BlobSidecar))

	action := string(op.ActionType())
	metric.RangeSize.WithLabelValues(action).Observe(float64(batchRange.Len()))
	metric.EthTxsSaved.WithLabelValues(action).Inc()
	metric.LastSavedBatchNum.WithLabelValues(action).Set(float64(batchRange.End))

	if commit, ok := op.(*common.CommitOperation); ok {
		for i := range commit.L1Batches {
			for kind, size := range commit.L1Batches[i].PubdataSizes() {
				metric.PubdataSize.WithLabelValues(string(kind)).Observe(float64(size))
			}
		}
	}
}

func sidecarLen(sidecar *common.EthTxBlobSidecar) int {
	if sidecar == nil {
		return 0
	}
	return len(sidecar.Blobs)
}
