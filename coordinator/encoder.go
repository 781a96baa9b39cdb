package coordinator

import (
	"fmt"
	"math/big"

	"rollup-l1-sender/blobs"
	"rollup-l1-sender/common"
	"rollup-l1-sender/eth/contracts/zksync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethCommon "github.com/ethereum/go-ethereum/common"
)

// methods maps every (contracts generation, action) pair to the executor
// function that implements it
var methods = map[common.BridgeGeneration]map[common.AggregatedActionType]string{
	common.PreSharedBridge: {
		common.ActionCommit:              "commitBatches",
		common.ActionPublishProofOnchain: "proveBatches",
		common.ActionExecute:             "executeBatches",
	},
	common.PostSharedBridge: {
		common.ActionCommit:              "commitBatchesSharedBridge",
		common.ActionPublishProofOnchain: "proveBatchesSharedBridge",
		common.ActionExecute:             "executeBatchesSharedBridge",
	},
}

// storedBatchInfo is the IExecutor.StoredBatchInfo tuple
type storedBatchInfo struct {
	BatchNumber                 uint64
	BatchHash                   ethCommon.Hash
	IndexRepeatedStorageChanges uint64
	NumberOfLayer1Txs           *big.Int
	PriorityOperationsHash      ethCommon.Hash
	L2LogsTreeRoot              ethCommon.Hash
	Timestamp                   *big.Int
	Commitment                  ethCommon.Hash
}

// commitBatchInfo is the IExecutor.CommitBatchInfo tuple
type commitBatchInfo struct {
	BatchNumber                       uint64
	Timestamp                         uint64
	IndexRepeatedStorageChanges       uint64
	NewStateRoot                      ethCommon.Hash
	NumberOfLayer1Txs                 *big.Int
	PriorityOperationsHash            ethCommon.Hash
	BootloaderHeapInitialContentsHash ethCommon.Hash
	EventsQueueStateHash              ethCommon.Hash
	SystemLogs                        []byte
	PubdataCommitments                []byte
}

// proofInput is the IExecutor.ProofInput tuple
type proofInput struct {
	RecursiveAggregationInput []*big.Int
	SerializedProof           []*big.Int
}

func newStoredBatchInfo(batch *common.L1BatchWithMetadata) storedBatchInfo {
	return storedBatchInfo{
		BatchNumber:                 uint64(batch.Header.Number),
		BatchHash:                   batch.Metadata.RootHash,
		IndexRepeatedStorageChanges: batch.Metadata.RollupLastLeafIndex,
		NumberOfLayer1Txs:           new(big.Int).SetUint64(uint64(batch.Header.L1TxCount)),
		PriorityOperationsHash:      batch.Header.PriorityOpsOnchainHash,
		L2LogsTreeRoot:              batch.Metadata.L2L1MerkleRoot,
		Timestamp:                   new(big.Int).SetUint64(batch.Header.Timestamp),
		Commitment:                  batch.Metadata.Commitment,
	}
}

func newStoredBatchInfos(batches []common.L1BatchWithMetadata) []storedBatchInfo {
	infos := make([]storedBatchInfo, len(batches))
	for i := range batches {
		infos[i] = newStoredBatchInfo(&batches[i])
	}
	return infos
}

func newCommitBatchInfo(batch *common.L1BatchWithMetadata, pubdataCommitments []byte) commitBatchInfo {
	return commitBatchInfo{
		BatchNumber:                       uint64(batch.Header.Number),
		Timestamp:                         batch.Header.Timestamp,
		IndexRepeatedStorageChanges:       batch.Metadata.RollupLastLeafIndex,
		NewStateRoot:                      batch.Metadata.RootHash,
		NumberOfLayer1Txs:                 new(big.Int).SetUint64(uint64(batch.Header.L1TxCount)),
		PriorityOperationsHash:            batch.Header.PriorityOpsOnchainHash,
		BootloaderHeapInitialContentsHash: batch.Metadata.BootloaderInitialContentCommitment,
		EventsQueueStateHash:              batch.Metadata.EventsQueueCommitment,
		SystemLogs:                        batch.PackedSystemLogs(),
		PubdataCommitments:                pubdataCommitments,
	}
}

// Encoder builds the L1 calldata of aggregated operations.  Encode is a pure
// function of its arguments: the same operation and contracts generation
// always give the same bytes.
type Encoder struct {
	chainID   *big.Int
	committer blobs.Committer
	abis      map[common.BridgeGeneration]*abi.ABI
}

// NewEncoder creates an Encoder for the rollup chainID.  committer computes
// the KZG data of blob commits.
func NewEncoder(chainID uint64, committer blobs.Committer) (*Encoder, error) {
	pre, err := zksync.IExecutorMetaData.GetAbi()
	if err != nil {
		return nil, common.Wrap(err)
	}
	post, err := zksync.IExecutorSharedBridgeMetaData.GetAbi()
	if err != nil {
		return nil, common.Wrap(err)
	}
	return &Encoder{
		chainID:   new(big.Int).SetUint64(chainID),
		committer: committer,
		abis: map[common.BridgeGeneration]*abi.ABI{
			common.PreSharedBridge:  pre,
			common.PostSharedBridge: post,
		},
	}, nil
}

// Encode returns the transaction for op against contracts of the given
// generation.  An operation of a newer generation than the contracts is a
// common.ErrProtocolInvariant error.
func (e *Encoder) Encode(op common.AggregatedOperation,
	contracts common.BridgeGeneration) (*common.EncodedTx, error) {
	if contracts == common.PreSharedBridge &&
		op.ProtocolVersion().BridgeGeneration() == common.PostSharedBridge {
		return nil, common.Wrap(fmt.Errorf("%w: %s %s at protocol version %d",
			common.ErrProtocolInvariant, op.ActionType(), op.L1BatchRange(), op.ProtocolVersion()))
	}
	method := methods[contracts][op.ActionType()]

	var args []interface{}
	if contracts == common.PostSharedBridge {
		args = append(args, e.chainID)
	}
	var sidecar *common.EthTxBlobSidecar
	switch op := op.(type) {
	case *common.CommitOperation:
		var commitBatches []commitBatchInfo
		var err error
		commitBatches, sidecar, err = e.commitBatches(op)
		if err != nil {
			return nil, common.Wrap(err)
		}
		args = append(args, newStoredBatchInfo(&op.PrevL1Batch), commitBatches)
	case *common.ProveOperation:
		args = append(args, newStoredBatchInfo(&op.PrevL1Batch),
			newStoredBatchInfos(op.L1Batches), e.proofInput(op))
	case *common.ExecuteOperation:
		args = append(args, newStoredBatchInfos(op.L1Batches))
	}

	calldata, err := e.abis[contracts].Pack(method, args...)
	if err != nil {
		return nil, common.Wrap(fmt.Errorf("%w: %s: %v", common.ErrABIEncoding, method, err))
	}
	return &common.EncodedTx{Calldata: calldata, Sidecar: sidecar}, nil
}

// commitBatches returns the CommitBatchInfo tuples of op and, in blob mode,
// the sidecar of its single batch
func (e *Encoder) commitBatches(op *common.CommitOperation) ([]commitBatchInfo,
	*common.EthTxBlobSidecar, error) {
	infos := make([]commitBatchInfo, len(op.L1Batches))
	if op.PubdataDA != common.PubdataDABlobs {
		for i := range op.L1Batches {
			pubdata := op.L1Batches[i].Pubdata()
			commitments := make([]byte, 0, 1+len(pubdata))
			commitments = append(commitments, op.PubdataDA.PubdataSourceByte())
			commitments = append(commitments, pubdata...)
			infos[i] = newCommitBatchInfo(&op.L1Batches[i], commitments)
		}
		return infos, nil, nil
	}

	// Blob commits carry a single batch
	if len(op.L1Batches) != 1 {
		return nil, nil, common.Wrap(fmt.Errorf("%w: blob commit of %d batches (%s)",
			common.ErrBlobCommitRange, len(op.L1Batches), op.L1BatchRange()))
	}
	batch := &op.L1Batches[0]
	if batch.Header.PubdataInput == nil {
		return nil, nil, common.Wrap(fmt.Errorf("%w: batch %d",
			common.ErrMissingPubdata, batch.Header.Number))
	}
	sidecar, blobCommitments, err := blobs.BuildSidecar(e.committer, batch.Header.PubdataInput)
	if err != nil {
		return nil, nil, common.Wrap(err)
	}
	commitments := make([]byte, 0, 1+len(blobCommitments))
	commitments = append(commitments, op.PubdataDA.PubdataSourceByte())
	commitments = append(commitments, blobCommitments...)
	infos[0] = newCommitBatchInfo(batch, commitments)
	return infos, sidecar, nil
}

func (e *Encoder) proofInput(op *common.ProveOperation) proofInput {
	input := proofInput{
		RecursiveAggregationInput: []*big.Int{},
		SerializedProof:           []*big.Int{},
	}
	if !op.ShouldVerify {
		return input
	}
	for i := range op.Proofs {
		input.RecursiveAggregationInput = append(input.RecursiveAggregationInput,
			op.Proofs[i].RecursiveAggregationInput()...)
		input.SerializedProof = append(input.SerializedProof, op.Proofs[i].SerializedProof...)
	}
	return input
}
