package common

import (
	"fmt"
)

// AggregatedActionType is the kind of L1 transaction an aggregated operation
// turns into
type AggregatedActionType string

const (
	// ActionCommit commits batches to L1
	ActionCommit AggregatedActionType = "Commit"
	// ActionPublishProofOnchain publishes the proof of committed batches
	ActionPublishProofOnchain AggregatedActionType = "PublishProofOnchain"
	// ActionExecute executes proven batches
	ActionExecute AggregatedActionType = "Execute"
)

// AggregatedActionTypes lists every action type
var AggregatedActionTypes = []AggregatedActionType{
	ActionCommit, ActionPublishProofOnchain, ActionExecute,
}

// Caption returns the short name of the action used to name anchored
// documents
func (t AggregatedActionType) Caption() string {
	switch t {
	case ActionCommit:
		return "commit"
	case ActionPublishProofOnchain:
		return "proof"
	case ActionExecute:
		return "execute"
	default:
		return string(t)
	}
}

// PubdataDA is the way pubdata of committed batches reaches L1
type PubdataDA string

const (
	// PubdataDACalldata sends pubdata inside the transaction calldata
	PubdataDACalldata PubdataDA = "Calldata"
	// PubdataDABlobs sends pubdata in EIP-4844 blobs
	PubdataDABlobs PubdataDA = "Blobs"
)

// PubdataSourceByte returns the tag prepended to the pubdata commitments
// field of a commit
func (da PubdataDA) PubdataSourceByte() byte {
	if da == PubdataDABlobs {
		return 1
	}
	return 0
}

// AggregatedOperation is a group of consecutive batches that can be sent to L1
// in a single transaction.  It is implemented by *CommitOperation,
// *ProveOperation and *ExecuteOperation only.
type AggregatedOperation interface {
	ActionType() AggregatedActionType
	L1BatchRange() L1BatchRange
	// ProtocolVersion returns the protocol version of the first batch
	ProtocolVersion() ProtocolVersionID
	aggregatedOperation()
}

// CommitOperation commits L1Batches on top of PrevL1Batch
type CommitOperation struct {
	PrevL1Batch L1BatchWithMetadata   `json:"prevL1Batch"`
	L1Batches   []L1BatchWithMetadata `json:"l1Batches"`
	PubdataDA   PubdataDA             `json:"pubdataDa"`
}

// ProveOperation publishes the proofs of L1Batches
type ProveOperation struct {
	PrevL1Batch L1BatchWithMetadata   `json:"prevL1Batch"`
	L1Batches   []L1BatchWithMetadata `json:"l1Batches"`
	Proofs      []L1BatchProof        `json:"proofs"`
	// ShouldVerify is false when the contracts don't check proofs, in
	// which case the proof input is sent empty
	ShouldVerify bool `json:"shouldVerify"`
}

// ExecuteOperation executes L1Batches
type ExecuteOperation struct {
	L1Batches []L1BatchWithMetadata `json:"l1Batches"`
}

func batchesRange(batches []L1BatchWithMetadata) L1BatchRange {
	if len(batches) == 0 {
		return L1BatchRange{Start: 1, End: 0}
	}
	return L1BatchRange{
		Start: batches[0].Header.Number,
		End:   batches[len(batches)-1].Header.Number,
	}
}

func batchesProtocolVersion(batches []L1BatchWithMetadata) ProtocolVersionID {
	if len(batches) == 0 {
		return VersionLatest
	}
	return batches[0].Header.ProtocolVersion
}

// ActionType implements AggregatedOperation
func (op *CommitOperation) ActionType() AggregatedActionType { return ActionCommit }

// L1BatchRange implements AggregatedOperation
func (op *CommitOperation) L1BatchRange() L1BatchRange { return batchesRange(op.L1Batches) }

// ProtocolVersion implements AggregatedOperation
func (op *CommitOperation) ProtocolVersion() ProtocolVersionID {
	return batchesProtocolVersion(op.L1Batches)
}

func (op *CommitOperation) aggregatedOperation() {}

// ActionType implements AggregatedOperation
func (op *ProveOperation) ActionType() AggregatedActionType { return ActionPublishProofOnchain }

// L1BatchRange implements AggregatedOperation
func (op *ProveOperation) L1BatchRange() L1BatchRange { return batchesRange(op.L1Batches) }

// ProtocolVersion implements AggregatedOperation
func (op *ProveOperation) ProtocolVersion() ProtocolVersionID {
	return batchesProtocolVersion(op.L1Batches)
}

func (op *ProveOperation) aggregatedOperation() {}

// ActionType implements AggregatedOperation
func (op *ExecuteOperation) ActionType() AggregatedActionType { return ActionExecute }

// L1BatchRange implements AggregatedOperation
func (op *ExecuteOperation) L1BatchRange() L1BatchRange { return batchesRange(op.L1Batches) }

// ProtocolVersion implements AggregatedOperation
func (op *ExecuteOperation) ProtocolVersion() ProtocolVersionID {
	return batchesProtocolVersion(op.L1Batches)
}

func (op *ExecuteOperation) aggregatedOperation() {}

// OperationDocName returns the name under which an operation is anchored
func OperationDocName(op AggregatedOperation) string {
	r := op.L1BatchRange()
	return fmt.Sprintf("%s_block_%d_%d", op.ActionType().Caption(), r.Start, r.End)
}
