package historydb

import (
	"fmt"

	"rollup-l1-sender/common"

	"github.com/russross/meddler"
)

// ReadyOperationConfig bounds the operations returned by ReadyOperation
type ReadyOperationConfig struct {
	MaxBatchesPerOperation int
	PubdataDA              common.PubdataDA
	ShouldVerifyProofs     bool
}

// ReadyOperation chooses the next aggregated operation from the stored
// batches.  Execute has priority over PublishProofOnchain, which has priority
// over Commit, so that the pipeline drains before new batches enter it.  nil
// is returned when no batch is ready.
type ReadyOperation struct {
	hdb *HistoryDB
	cfg ReadyOperationConfig
}

// NewReadyOperation creates a ReadyOperation reading from hdb
func NewReadyOperation(hdb *HistoryDB, cfg ReadyOperationConfig) *ReadyOperation {
	return &ReadyOperation{hdb: hdb, cfg: cfg}
}

// NextReadyOperation returns the next operation ready to be sent to L1 with
// the given contract configuration, or nil if there is none
func (r *ReadyOperation) NextReadyOperation(snapshot *common.ConfigSnapshot,
	_ *common.L1VerifierConfig) (common.AggregatedOperation, error) {
	executable, err := r.readyRows(common.ActionExecute, snapshot)
	if err != nil {
		return nil, common.Wrap(err)
	}
	if len(executable) > 0 {
		return &common.ExecuteOperation{L1Batches: rowsBatches(executable)}, nil
	}

	provable, err := r.readyRows(common.ActionPublishProofOnchain, snapshot)
	if err != nil {
		return nil, common.Wrap(err)
	}
	if len(provable) > 0 {
		prev, err := r.hdb.GetL1Batch(common.L1BatchNumber(provable[0].Number - 1))
		if err != nil {
			return nil, common.Wrap(fmt.Errorf("previous batch of %d: %w", provable[0].Number, err))
		}
		op := &common.ProveOperation{
			PrevL1Batch:  *prev,
			L1Batches:    rowsBatches(provable),
			ShouldVerify: r.cfg.ShouldVerifyProofs,
		}
		if r.cfg.ShouldVerifyProofs {
			for _, row := range provable {
				op.Proofs = append(op.Proofs, *row.Proof)
			}
		}
		return op, nil
	}

	committable, err := r.readyRows(common.ActionCommit, snapshot)
	if err != nil {
		return nil, common.Wrap(err)
	}
	if len(committable) > 0 {
		prev, err := r.hdb.GetL1Batch(common.L1BatchNumber(committable[0].Number - 1))
		if err != nil {
			return nil, common.Wrap(fmt.Errorf("previous batch of %d: %w", committable[0].Number, err))
		}
		return &common.CommitOperation{
			PrevL1Batch: *prev,
			L1Batches:   rowsBatches(committable),
			PubdataDA:   r.cfg.PubdataDA,
		}, nil
	}
	return nil, nil
}

// readyRows returns the longest run of consecutive batches, starting at the
// first batch not claimed for txType, that can be sent together for txType.
// Batch 0 is the genesis batch and is never sent.
func (r *ReadyOperation) readyRows(txType common.AggregatedActionType,
	snapshot *common.ConfigSnapshot) ([]*l1BatchRow, error) {
	column := ethTxIDColumns[txType]
	var rows []*l1BatchRow
	if err := meddler.QueryAll(
		r.hdb.dbRead, &rows,
		fmt.Sprintf(
			"SELECT * FROM l1_batches WHERE number > 0 AND %s IS NULL ORDER BY number LIMIT $1;",
			column),
		r.maxBatches(txType),
	); err != nil {
		return nil, common.Wrap(err)
	}
	ready := make([]*l1BatchRow, 0, len(rows))
	for i, row := range rows {
		if i > 0 && (row.Number != rows[i-1].Number+1 ||
			row.Header.ProtocolVersion != rows[0].Header.ProtocolVersion) {
			break
		}
		if !r.isReady(txType, row, snapshot) {
			break
		}
		ready = append(ready, row)
	}
	return ready, nil
}

// maxBatches returns the longest range sent in a single txType operation.
// A blob commit carries the pubdata of a single batch.
func (r *ReadyOperation) maxBatches(txType common.AggregatedActionType) int {
	if txType == common.ActionCommit && r.cfg.PubdataDA == common.PubdataDABlobs {
		return 1
	}
	return r.cfg.MaxBatchesPerOperation
}

func (r *ReadyOperation) isReady(txType common.AggregatedActionType, row *l1BatchRow,
	snapshot *common.ConfigSnapshot) bool {
	switch txType {
	case common.ActionExecute:
		return row.EthProveTxID != nil
	case common.ActionPublishProofOnchain:
		return row.EthCommitTxID != nil && (!r.cfg.ShouldVerifyProofs || row.Proof != nil)
	default:
		// Batches are only committed with the contracts they were sealed for
		return row.Header.ProtocolVersion == snapshot.ProtocolVersion.Minor &&
			row.Header.BaseSystemContractsHashes == snapshot.BaseSystemContractsHashes
	}
}

func rowsBatches(rows []*l1BatchRow) []common.L1BatchWithMetadata {
	batches := make([]common.L1BatchWithMetadata, len(rows))
	for i, row := range rows {
		batches[i] = row.batch()
	}
	return batches
}
