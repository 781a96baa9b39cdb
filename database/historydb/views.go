package historydb

import (
	"rollup-l1-sender/common"
)

// PredictedGas is the L1 gas each stage of a batch is expected to consume
type PredictedGas struct {
	Commit  uint64
	Prove   uint64
	Execute uint64
}

// L1BatchEntry is a sealed batch as it is stored by the batch producer
type L1BatchEntry struct {
	Batch        common.L1BatchWithMetadata
	Proof        *common.L1BatchProof
	PredictedGas PredictedGas
}

// l1BatchRow is the l1_batches table row.  Fields are in the column order.
type l1BatchRow struct {
	Number                  int64                  `meddler:"number"`
	Timestamp               int64                  `meddler:"timestamp"`
	ProtocolVersion         int                    `meddler:"protocol_version"`
	Header                  common.L1BatchHeader   `meddler:"header,json"`
	Metadata                common.L1BatchMetadata `meddler:"metadata,json"`
	RawPublishedFactoryDeps [][]byte               `meddler:"raw_published_factory_deps,json"`
	Proof                   *common.L1BatchProof   `meddler:"proof,json"`
	PredictedCommitGasCost  int64                  `meddler:"predicted_commit_gas_cost"`
	PredictedProveGasCost   int64                  `meddler:"predicted_prove_gas_cost"`
	PredictedExecuteGasCost int64                  `meddler:"predicted_execute_gas_cost"`
	EthCommitTxID           *int64                 `meddler:"eth_commit_tx_id"`
	EthProveTxID            *int64                 `meddler:"eth_prove_tx_id"`
	EthExecuteTxID          *int64                 `meddler:"eth_execute_tx_id"`
}

func newL1BatchRow(entry *L1BatchEntry) l1BatchRow {
	deps := entry.Batch.RawPublishedFactoryDeps
	if deps == nil {
		deps = [][]byte{}
	}
	return l1BatchRow{
		Number:                  int64(entry.Batch.Header.Number),
		Timestamp:               int64(entry.Batch.Header.Timestamp),
		ProtocolVersion:         int(entry.Batch.Header.ProtocolVersion),
		Header:                  entry.Batch.Header,
		Metadata:                entry.Batch.Metadata,
		RawPublishedFactoryDeps: deps,
		Proof:                   entry.Proof,
		PredictedCommitGasCost:  int64(entry.PredictedGas.Commit),
		PredictedProveGasCost:   int64(entry.PredictedGas.Prove),
		PredictedExecuteGasCost: int64(entry.PredictedGas.Execute),
	}
}

func (r *l1BatchRow) batch() common.L1BatchWithMetadata {
	return common.L1BatchWithMetadata{
		Header:                  r.Header,
		Metadata:                r.Metadata,
		RawPublishedFactoryDeps: r.RawPublishedFactoryDeps,
	}
}

// ethTxID returns the eth tx that claimed the batch for an action type
func (r *l1BatchRow) ethTxID(t common.AggregatedActionType) *int64 {
	switch t {
	case common.ActionCommit:
		return r.EthCommitTxID
	case common.ActionPublishProofOnchain:
		return r.EthProveTxID
	default:
		return r.EthExecuteTxID
	}
}

// L1BatchEthTxIDs are the eth txs that claimed a batch for each stage
type L1BatchEthTxIDs struct {
	Commit  *int64 `db:"eth_commit_tx_id"`
	Prove   *int64 `db:"eth_prove_tx_id"`
	Execute *int64 `db:"eth_execute_tx_id"`
}

var (
	ethTxIDColumns = map[common.AggregatedActionType]string{
		common.ActionCommit:              "eth_commit_tx_id",
		common.ActionPublishProofOnchain: "eth_prove_tx_id",
		common.ActionExecute:             "eth_execute_tx_id",
	}
	predictedGasColumns = map[common.AggregatedActionType]string{
		common.ActionCommit:              "predicted_commit_gas_cost",
		common.ActionPublishProofOnchain: "predicted_prove_gas_cost",
		common.ActionExecute:             "predicted_execute_gas_cost",
	}
)
