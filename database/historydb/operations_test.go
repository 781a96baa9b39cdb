package historydb

import (
	"testing"

	"rollup-l1-sender/common"
	"rollup-l1-sender/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func genSnapshot(version common.ProtocolVersionID) *common.ConfigSnapshot {
	return &common.ConfigSnapshot{
		BaseSystemContractsHashes: test.GenBaseSystemContractsHashes(),
		ProtocolVersion:           common.ProtocolSemanticVersion{Minor: version},
	}
}

func TestReadyOperation(t *testing.T) {
	requireDB(t)
	entries := genEntries(0, 6, common.Version24)
	for i := range entries {
		proof := test.GenL1BatchProof(entries[i].Batch.Header.Number)
		entries[i].Proof = &proof
	}
	require.NoError(t, historyDB.AddL1Batches(entries))
	source := NewReadyOperation(historyDB, ReadyOperationConfig{
		MaxBatchesPerOperation: 4,
		PubdataDA:              common.PubdataDACalldata,
		ShouldVerifyProofs:     true,
	})
	snapshot := genSnapshot(common.Version24)

	// Nothing is committed: commit the first 4 batches after genesis
	op, err := source.NextReadyOperation(snapshot, nil)
	require.NoError(t, err)
	commit, ok := op.(*common.CommitOperation)
	require.True(t, ok)
	assert.Equal(t, common.L1BatchRange{Start: 1, End: 4}, commit.L1BatchRange())
	assert.Equal(t, common.L1BatchNumber(0), commit.PrevL1Batch.Header.Number)
	assert.Equal(t, common.PubdataDACalldata, commit.PubdataDA)

	// Contracts running a different protocol version: nothing to commit
	op, err = source.NextReadyOperation(genSnapshot(common.Version23), nil)
	require.NoError(t, err)
	assert.Nil(t, op)

	require.NoError(t, historyDB.SaveEthTx(newEthTx(common.ActionCommit, 0, nil), commit.L1BatchRange(), 0))

	// Committed batches are proven before new commits
	op, err = source.NextReadyOperation(snapshot, nil)
	require.NoError(t, err)
	prove, ok := op.(*common.ProveOperation)
	require.True(t, ok)
	assert.Equal(t, common.L1BatchRange{Start: 1, End: 4}, prove.L1BatchRange())
	require.Len(t, prove.Proofs, 4)
	assert.Equal(t, common.L1BatchNumber(1), prove.Proofs[0].L1BatchNumber)
	assert.True(t, prove.ShouldVerify)

	require.NoError(t, historyDB.SaveEthTx(newEthTx(common.ActionPublishProofOnchain, 1, nil),
		common.L1BatchRange{Start: 1, End: 2}, 0))

	// Proven batches are executed first
	op, err = source.NextReadyOperation(snapshot, nil)
	require.NoError(t, err)
	execute, ok := op.(*common.ExecuteOperation)
	require.True(t, ok)
	assert.Equal(t, common.L1BatchRange{Start: 1, End: 2}, execute.L1BatchRange())

	require.NoError(t, historyDB.SaveEthTx(newEthTx(common.ActionExecute, 2, nil),
		execute.L1BatchRange(), 0))
	op, err = source.NextReadyOperation(snapshot, nil)
	require.NoError(t, err)
	prove, ok = op.(*common.ProveOperation)
	require.True(t, ok)
	assert.Equal(t, common.L1BatchRange{Start: 3, End: 4}, prove.L1BatchRange())
	assert.Equal(t, common.L1BatchNumber(2), prove.PrevL1Batch.Header.Number)
}

func TestReadyOperationEmpty(t *testing.T) {
	requireDB(t)
	require.NoError(t, historyDB.AddL1Batches(genEntries(0, 0, common.Version24)))
	source := NewReadyOperation(historyDB, ReadyOperationConfig{
		MaxBatchesPerOperation: 4,
		PubdataDA:              common.PubdataDACalldata,
	})
	op, err := source.NextReadyOperation(genSnapshot(common.Version24), nil)
	require.NoError(t, err)
	assert.Nil(t, op)
}

func TestReadyOperationBlobCommit(t *testing.T) {
	requireDB(t)
	require.NoError(t, historyDB.AddL1Batches(genEntries(0, 6, common.Version24)))
	source := NewReadyOperation(historyDB, ReadyOperationConfig{
		MaxBatchesPerOperation: 4,
		PubdataDA:              common.PubdataDABlobs,
	})
	snapshot := genSnapshot(common.Version24)

	// Blob commits carry a single batch
	op, err := source.NextReadyOperation(snapshot, nil)
	require.NoError(t, err)
	commit, ok := op.(*common.CommitOperation)
	require.True(t, ok)
	assert.Equal(t, common.L1BatchRange{Start: 1, End: 1}, commit.L1BatchRange())
	assert.Equal(t, common.PubdataDABlobs, commit.PubdataDA)

	require.NoError(t, historyDB.SaveEthTx(newEthTx(common.ActionCommit, 0, nil), commit.L1BatchRange(), 0))
	require.NoError(t, historyDB.SaveEthTx(newEthTx(common.ActionCommit, 1, nil),
		common.L1BatchRange{Start: 2, End: 2}, 0))

	// Proofs are still aggregated up to the configured maximum
	op, err = source.NextReadyOperation(snapshot, nil)
	require.NoError(t, err)
	prove, ok := op.(*common.ProveOperation)
	require.True(t, ok)
	assert.Equal(t, common.L1BatchRange{Start: 1, End: 2}, prove.L1BatchRange())
}
