package historydb

import (
	"os"
	"testing"

	"rollup-l1-sender/common"
	"rollup-l1-sender/database"
	"rollup-l1-sender/log"
	"rollup-l1-sender/test"

	ethCommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var historyDB *HistoryDB

var validatorTimelock = ethCommon.HexToAddress("0x0000000000000000000000000000000000000a02")

func TestMain(m *testing.M) {
	// init DB
	db, err := database.InitTestSQLDB()
	if err != nil {
		log.Warnw("HistoryDB tests will be skipped", "err", err)
		os.Exit(m.Run())
	}
	historyDB = NewHistoryDB(db, db)

	// Run tests
	result := m.Run()
	// Close DB
	if err := db.Close(); err != nil {
		log.Error("Error closing the history DB", err)
	}
	os.Exit(result)
}

func requireDB(t *testing.T) {
	if historyDB == nil {
		t.Skip("test database not available")
	}
	test.WipeDB(historyDB.DB())
}

func genEntries(from, to common.L1BatchNumber, version common.ProtocolVersionID) []L1BatchEntry {
	batches := test.GenL1Batches(from, to, version)
	entries := make([]L1BatchEntry, len(batches))
	for i := range batches {
		entries[i] = L1BatchEntry{
			Batch: batches[i],
			PredictedGas: PredictedGas{
				Commit:  1000 + uint64(batches[i].Header.Number),
				Prove:   10,
				Execute: 100,
			},
		}
	}
	return entries
}

func newEthTx(txType common.AggregatedActionType, nonce uint64, from *ethCommon.Address) *common.EthTx {
	return &common.EthTx{
		Nonce:           nonce,
		RawTxInput:      []byte{0x70, 0x1f, 0x58, 0xc5},
		TxType:          txType,
		ContractAddress: validatorTimelock,
		FromAddr:        from,
	}
}

func TestL1Batches(t *testing.T) {
	requireDB(t)
	entries := genEntries(0, 5, common.Version24)
	proof := test.GenL1BatchProof(3)
	entries[3].Proof = &proof
	require.NoError(t, historyDB.AddL1Batches(entries))

	for _, entry := range entries {
		batch, err := historyDB.GetL1Batch(entry.Batch.Header.Number)
		require.NoError(t, err)
		assert.Equal(t, entry.Batch, *batch)
	}
	row, err := historyDB.getL1BatchRow(3)
	require.NoError(t, err)
	require.NotNil(t, row.Proof)
	assert.Equal(t, proof, *row.Proof)

	proof4 := test.GenL1BatchProof(4)
	require.NoError(t, historyDB.SetL1BatchProof(&proof4))
	row, err = historyDB.getL1BatchRow(4)
	require.NoError(t, err)
	require.NotNil(t, row.Proof)
	assert.Equal(t, proof4, *row.Proof)

	unknown := test.GenL1BatchProof(40)
	assert.Error(t, historyDB.SetL1BatchProof(&unknown))

	gas, err := historyDB.GetL1BatchesPredictedGas(common.L1BatchRange{Start: 1, End: 3},
		common.ActionCommit)
	require.NoError(t, err)
	assert.Equal(t, uint64(1001+1002+1003), gas)
	gas, err = historyDB.GetL1BatchesPredictedGas(common.L1BatchRange{Start: 1, End: 3},
		common.ActionExecute)
	require.NoError(t, err)
	assert.Equal(t, uint64(300), gas)
}

func TestSaveEthTx(t *testing.T) {
	requireDB(t)
	require.NoError(t, historyDB.AddL1Batches(genEntries(0, 5, common.Version24)))

	batchRange := common.L1BatchRange{Start: 1, End: 3}
	tx := newEthTx(common.ActionCommit, 7, nil)
	require.NoError(t, historyDB.SaveEthTx(tx, batchRange, 242000))
	assert.NotZero(t, tx.ID)
	assert.Equal(t, uint64(242000+1001+1002+1003), tx.PredictedGasCost)

	dbTx, err := historyDB.GetEthTx(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx.Nonce, dbTx.Nonce)
	assert.Equal(t, tx.RawTxInput, dbTx.RawTxInput)
	assert.Equal(t, common.ActionCommit, dbTx.TxType)
	assert.Equal(t, validatorTimelock, dbTx.ContractAddress)
	assert.Equal(t, tx.PredictedGasCost, dbTx.PredictedGasCost)
	assert.Nil(t, dbTx.FromAddr)
	assert.Nil(t, dbTx.BlobSidecar)

	for i := batchRange.Start; i <= batchRange.End; i++ {
		ids, err := historyDB.GetL1BatchEthTxIDs(i)
		require.NoError(t, err)
		require.NotNil(t, ids.Commit)
		assert.Equal(t, tx.ID, *ids.Commit)
		assert.Nil(t, ids.Prove)
		assert.Nil(t, ids.Execute)
	}
	ids, err := historyDB.GetL1BatchEthTxIDs(4)
	require.NoError(t, err)
	assert.Nil(t, ids.Commit)

	// The same range can be claimed for the next stage
	proveTx := newEthTx(common.ActionPublishProofOnchain, 8, nil)
	require.NoError(t, historyDB.SaveEthTx(proveTx, batchRange, 1000000))
	assert.Equal(t, uint64(1000000+30), proveTx.PredictedGasCost)

	// Sidecar and custom sender round trip
	sender := ethCommon.HexToAddress("0x0000000000000000000000000000000000000c01")
	blobTx := newEthTx(common.ActionCommit, 0, &sender)
	blobTx.BlobSidecar = &common.EthTxBlobSidecar{
		Version: common.EthTxBlobSidecarVersion1,
		Blobs: []common.SidecarBlob{{
			Blob:          []byte{1},
			Commitment:    []byte{2},
			Proof:         []byte{3},
			VersionedHash: []byte{4},
		}},
	}
	require.NoError(t, historyDB.SaveEthTx(blobTx, common.L1BatchRange{Start: 4, End: 4}, 0))
	dbTx, err = historyDB.GetEthTx(blobTx.ID)
	require.NoError(t, err)
	require.NotNil(t, dbTx.FromAddr)
	assert.Equal(t, sender, *dbTx.FromAddr)
	assert.Equal(t, blobTx.BlobSidecar, dbTx.BlobSidecar)
}

func TestSaveEthTxAtomic(t *testing.T) {
	requireDB(t)
	require.NoError(t, historyDB.AddL1Batches(genEntries(0, 3, common.Version24)))

	// Batches 4 and 5 don't exist: the update marks fewer batches than the
	// range length and the whole DB transaction is rolled back
	tx := newEthTx(common.ActionCommit, 7, nil)
	err := historyDB.SaveEthTx(tx, common.L1BatchRange{Start: 2, End: 5}, 242000)
	require.Error(t, err)
	assert.True(t, common.ErrorIs(err, common.ErrRangeAlreadyClaimed))
	assert.Zero(t, tx.ID)

	txs, err := historyDB.GetAllEthTxs()
	require.NoError(t, err)
	assert.Empty(t, txs)
	for i := common.L1BatchNumber(0); i <= 3; i++ {
		ids, err := historyDB.GetL1BatchEthTxIDs(i)
		require.NoError(t, err)
		assert.Nil(t, ids.Commit)
	}
	nonce, err := historyDB.GetNextNonce(nil)
	require.NoError(t, err)
	assert.Nil(t, nonce)

	// A range overlapping an already claimed one is rejected too
	require.NoError(t, historyDB.SaveEthTx(newEthTx(common.ActionCommit, 7, nil),
		common.L1BatchRange{Start: 1, End: 2}, 0))
	err = historyDB.SaveEthTx(newEthTx(common.ActionCommit, 8, nil),
		common.L1BatchRange{Start: 2, End: 3}, 0)
	require.Error(t, err)
	txs, err = historyDB.GetAllEthTxs()
	require.NoError(t, err)
	assert.Len(t, txs, 1)
	ids, err := historyDB.GetL1BatchEthTxIDs(3)
	require.NoError(t, err)
	assert.Nil(t, ids.Commit)
}

func TestGetNextNonce(t *testing.T) {
	requireDB(t)
	require.NoError(t, historyDB.AddL1Batches(genEntries(0, 5, common.Version24)))
	sender := ethCommon.HexToAddress("0x0000000000000000000000000000000000000c01")

	nonce, err := historyDB.GetNextNonce(nil)
	require.NoError(t, err)
	assert.Nil(t, nonce)

	require.NoError(t, historyDB.SaveEthTx(newEthTx(common.ActionCommit, 9, &sender),
		common.L1BatchRange{Start: 1, End: 1}, 0))
	nonce, err = historyDB.GetNextNonce(nil)
	require.NoError(t, err)
	assert.Nil(t, nonce)
	nonce, err = historyDB.GetNextNonce(&sender)
	require.NoError(t, err)
	require.NotNil(t, nonce)
	assert.Equal(t, uint64(10), *nonce)

	require.NoError(t, historyDB.SaveEthTx(newEthTx(common.ActionPublishProofOnchain, 4, nil),
		common.L1BatchRange{Start: 1, End: 1}, 0))
	nonce, err = historyDB.GetNextNonce(nil)
	require.NoError(t, err)
	require.NotNil(t, nonce)
	assert.Equal(t, uint64(5), *nonce)
}
