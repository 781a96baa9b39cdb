package coordinator

import (
	"context"
	"fmt"
	"math/big"
	"testing"
	"time"

	"rollup-l1-sender/anchor"
	"rollup-l1-sender/blobs"
	"rollup-l1-sender/common"
	"rollup-l1-sender/test"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnchorer struct {
	ops []common.AggregatedOperation
	err error
}

func (a *fakeAnchorer) Anchor(ctx context.Context, op common.AggregatedOperation,
	queue *anchor.Queue) (string, error) {
	a.ops = append(a.ops, op)
	if a.err != nil {
		return "", a.err
	}
	queue.Push(common.OperationDocName(op))
	return "", nil
}

type testSetup struct {
	client *test.Client
	store  *memStore
	source *staticSource
	coord  *Coordinator
}

func newTestSetup(t *testing.T, cfg Config, nonce uint64, anchorer Anchorer) *testSetup {
	client := test.NewClient(true, test.NewClientSetupExample())
	client.CtlSetPendingNonce(operatorAddress, nonce)
	client.CtlMineBlock()
	store := newMemStore()
	txManager := newTestTxManager(t, client, store, nil)
	source := &staticSource{store: store}
	coord := NewCoordinator(cfg, client, source, newTestEncoder(t), txManager, anchorer)
	return &testSetup{client: client, store: store, source: source, coord: coord}
}

func TestCoordinatorCommitBlobs(t *testing.T) {
	ts := newTestSetup(t, Config{PollPeriod: time.Millisecond}, 11, nil)
	ts.source.op = genCommit(100, 100, common.Version24, common.PubdataDABlobs,
		2*blobs.BytesPerBlob+10)

	require.NoError(t, ts.coord.step(context.Background()))
	require.Len(t, ts.store.txs, 1)
	tx := ts.store.txs[0]
	assert.Equal(t, uint64(11), tx.Nonce)
	assert.Equal(t, common.ActionCommit, tx.TxType)
	assert.Equal(t, validatorTimelock, tx.ContractAddress)
	assert.Equal(t, uint64(242000), tx.PredictedGasCost)
	require.NotNil(t, tx.BlobSidecar)
	assert.Len(t, tx.BlobSidecar.Blobs, 3)

	name, args := decodeCall(t, common.PostSharedBridge, tx.RawTxInput)
	assert.Equal(t, "commitBatchesSharedBridge", name)
	assert.Zero(t, big.NewInt(testChainID).Cmp(args[0].(*big.Int)))
	var batches []commitBatchInfo
	batches = *abi.ConvertType(args[2], &batches).(*[]commitBatchInfo)
	require.Len(t, batches, 1)
	assert.Len(t, batches[0].PubdataCommitments, 1+3*blobs.PubdataCommitmentBytes)
	assert.True(t, ts.store.claimed(common.ActionCommit, 100))
	assert.False(t, ts.store.claimed(common.ActionCommit, 101))
	assert.Equal(t, 1, ts.client.CtlCalls("RollupMulticallData"))
	assert.Equal(t, 1, ts.client.CtlCalls("RollupVerifierVKHash"))

	// Nothing else is ready
	require.NoError(t, ts.coord.step(context.Background()))
	assert.Len(t, ts.store.txs, 1)
	assert.Equal(t, 2, ts.source.calls)
}

func TestCoordinatorPreSharedBridgeContracts(t *testing.T) {
	ts := newTestSetup(t, Config{PollPeriod: time.Millisecond}, 0, nil)
	ts.client.CtlSetProtocolVersion(common.ProtocolSemanticVersion{Minor: common.Version22})
	ts.client.CtlMineBlock()

	ts.source.op = genProve(5, 6, common.Version22, true)
	require.NoError(t, ts.coord.step(context.Background()))
	require.Len(t, ts.store.txs, 1)
	name, _ := decodeCall(t, common.PreSharedBridge, ts.store.txs[0].RawTxInput)
	assert.Equal(t, "proveBatches", name)

	// A post shared bridge operation can't be sent to these contracts
	ts.source.op = genExecute(5, 6, common.Version24)
	err := ts.coord.Run(context.Background())
	require.Error(t, err)
	assert.True(t, common.IsFatal(err))
	assert.True(t, common.ErrorIs(err, common.ErrProtocolInvariant))
	assert.Equal(t, StateStopped, ts.coord.State())
	assert.Len(t, ts.store.txs, 1)
	assert.False(t, ts.store.claimed(common.ActionExecute, 5))
}

func TestCoordinatorPersistFailures(t *testing.T) {
	ts := newTestSetup(t, Config{PollPeriod: time.Millisecond,
		MaxConsecutivePersistFailures: 3}, 0, nil)
	ts.source.op = genExecute(1, 2, common.Version24)
	ts.store.saveErr = fmt.Errorf("db down")

	for i := 1; i <= 2; i++ {
		require.NoError(t, ts.coord.step(context.Background()))
		assert.Equal(t, i, ts.coord.persistFailures)
		assert.Empty(t, ts.store.txs)
		assert.False(t, ts.store.claimed(common.ActionExecute, 1))
	}

	// A successful save resets the counter
	ts.store.saveErr = nil
	require.NoError(t, ts.coord.step(context.Background()))
	assert.Equal(t, 0, ts.coord.persistFailures)
	require.Len(t, ts.store.txs, 1)

	ts.source.op = genExecute(3, 3, common.Version24)
	ts.store.saveErr = fmt.Errorf("db down")
	require.NoError(t, ts.coord.step(context.Background()))
	require.NoError(t, ts.coord.step(context.Background()))
	err := ts.coord.step(context.Background())
	require.Error(t, err)
	assert.False(t, common.IsFatal(err))
	assert.Len(t, ts.store.txs, 1)
}

func TestCoordinatorRPCError(t *testing.T) {
	ts := newTestSetup(t, Config{PollPeriod: time.Millisecond}, 0, nil)
	ts.source.op = genExecute(1, 1, common.Version24)

	ts.client.CtlSetErr("RollupMulticallData", fmt.Errorf("connection reset"))
	require.NoError(t, ts.coord.step(context.Background()))
	assert.Equal(t, 0, ts.source.calls)
	assert.Empty(t, ts.store.txs)

	ts.client.CtlSetErr("RollupMulticallData", nil)
	ts.client.CtlSetErr("RollupVerifierVKHash", fmt.Errorf("execution reverted"))
	require.NoError(t, ts.coord.step(context.Background()))
	assert.Equal(t, 0, ts.source.calls)
	assert.Empty(t, ts.store.txs)

	ts.client.CtlSetErr("RollupVerifierVKHash", nil)
	require.NoError(t, ts.coord.step(context.Background()))
	assert.Len(t, ts.store.txs, 1)
}

func TestCoordinatorConfigChangeBetweenIterations(t *testing.T) {
	ts := newTestSetup(t, Config{PollPeriod: time.Millisecond}, 0, nil)
	ts.client.CtlSetProtocolVersion(common.ProtocolSemanticVersion{Minor: common.Version22})
	ts.client.CtlMineBlock()
	ts.source.op = genExecute(1, 1, common.Version22)
	require.NoError(t, ts.coord.step(context.Background()))

	// The contracts upgrade is picked up by the next iteration
	ts.client.CtlSetProtocolVersion(common.ProtocolSemanticVersion{Minor: common.Version24})
	ts.client.CtlMineBlock()
	ts.source.op = genExecute(2, 2, common.Version22)
	require.NoError(t, ts.coord.step(context.Background()))

	require.Len(t, ts.store.txs, 2)
	name, _ := decodeCall(t, common.PreSharedBridge, ts.store.txs[0].RawTxInput)
	assert.Equal(t, "executeBatches", name)
	name, _ = decodeCall(t, common.PostSharedBridge, ts.store.txs[1].RawTxInput)
	assert.Equal(t, "executeBatchesSharedBridge", name)
	assert.Equal(t, uint64(1), ts.store.txs[1].Nonce)
}

func TestCoordinatorAnchor(t *testing.T) {
	anchorer := &fakeAnchorer{}
	ts := newTestSetup(t, Config{PollPeriod: time.Millisecond}, 0, anchorer)
	ts.source.op = genExecute(1, 1, common.Version24)
	require.NoError(t, ts.coord.step(context.Background()))
	require.Len(t, anchorer.ops, 1)
	assert.Equal(t, []string{"execute_block_1_1"}, ts.coord.queue.Refs())

	// Anchoring errors don't affect the saved tx
	anchorer.err = fmt.Errorf("bucket not found")
	ts.source.op = genExecute(2, 2, common.Version24)
	require.NoError(t, ts.coord.step(context.Background()))
	assert.Len(t, anchorer.ops, 2)
	assert.Len(t, ts.store.txs, 2)
	assert.True(t, ts.store.claimed(common.ActionExecute, 2))
	assert.Equal(t, 0, ts.coord.persistFailures)
}

func TestCoordinatorRunCancel(t *testing.T) {
	ts := newTestSetup(t, Config{PollPeriod: 5 * time.Millisecond}, 0, nil)
	assert.Equal(t, StateStopped, ts.coord.State())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- ts.coord.Run(ctx)
	}()
	require.Eventually(t, func() bool {
		return ts.coord.State() == StateRunning &&
			ts.client.CtlCalls("RollupMulticallData") >= 2
	}, time.Second, time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run didn't return after cancel")
	}
	assert.Equal(t, StateStopped, ts.coord.State())
}
