package historydb

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rollup-l1-sender/common"
	"rollup-l1-sender/database"

	ethCommon "github.com/ethereum/go-ethereum/common"
	"github.com/jmoiron/sqlx"
	"github.com/russross/meddler"
)

// HistoryDB persists the sealed L1 batches and the L1 txs created for them
type HistoryDB struct {
	dbRead  *sqlx.DB
	dbWrite *sqlx.DB
}

// NewHistoryDB initialize the DB
func NewHistoryDB(dbRead, dbWrite *sqlx.DB) *HistoryDB {
	return &HistoryDB{
		dbRead:  dbRead,
		dbWrite: dbWrite,
	}
}

// DB returns a pointer to the write DB. This method should be used only for
// internal testing purposes.
func (hdb *HistoryDB) DB() *sqlx.DB {
	return hdb.dbWrite
}

// AddL1Batches inserts sealed batches into the DB
func (hdb *HistoryDB) AddL1Batches(entries []L1BatchEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]l1BatchRow, len(entries))
	for i := range entries {
		rows[i] = newL1BatchRow(&entries[i])
	}
	return common.Wrap(database.BulkInsert(
		hdb.dbWrite,
		`INSERT INTO l1_batches (
			number,
			timestamp,
			protocol_version,
			header,
			metadata,
			raw_published_factory_deps,
			proof,
			predicted_commit_gas_cost,
			predicted_prove_gas_cost,
			predicted_execute_gas_cost,
			eth_commit_tx_id,
			eth_prove_tx_id,
			eth_execute_tx_id
		) VALUES %s;`,
		rows,
	))
}

// SetL1BatchProof stores the final proof of a batch
func (hdb *HistoryDB) SetL1BatchProof(proof *common.L1BatchProof) error {
	proofJSON, err := json.Marshal(proof)
	if err != nil {
		return common.Wrap(err)
	}
	res, err := hdb.dbWrite.Exec(
		"UPDATE l1_batches SET proof = $1 WHERE number = $2;",
		proofJSON, int64(proof.L1BatchNumber),
	)
	if err != nil {
		return common.Wrap(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return common.Wrap(err)
	} else if n != 1 {
		return common.Wrap(fmt.Errorf("l1 batch %d not found", proof.L1BatchNumber))
	}
	return nil
}

// GetL1Batch retrieves a batch from the DB, given its number
func (hdb *HistoryDB) GetL1Batch(number common.L1BatchNumber) (*common.L1BatchWithMetadata, error) {
	row, err := hdb.getL1BatchRow(number)
	if err != nil {
		return nil, common.Wrap(err)
	}
	batch := row.batch()
	return &batch, nil
}

func (hdb *HistoryDB) getL1BatchRow(number common.L1BatchNumber) (*l1BatchRow, error) {
	row := &l1BatchRow{}
	err := meddler.QueryRow(
		hdb.dbRead, row,
		"SELECT * FROM l1_batches WHERE number = $1;", int64(number),
	)
	return row, common.Wrap(err)
}

// GetL1BatchEthTxIDs returns the eth txs that claimed each stage of a batch
func (hdb *HistoryDB) GetL1BatchEthTxIDs(number common.L1BatchNumber) (*L1BatchEthTxIDs, error) {
	ids := &L1BatchEthTxIDs{}
	err := hdb.dbRead.Get(ids,
		`SELECT eth_commit_tx_id, eth_prove_tx_id, eth_execute_tx_id
		FROM l1_batches WHERE number = $1;`, int64(number))
	return ids, common.Wrap(err)
}

// GetL1BatchesPredictedGas returns the sum of the predicted gas of the batches
// in the range for the given action type
func (hdb *HistoryDB) GetL1BatchesPredictedGas(batchRange common.L1BatchRange,
	txType common.AggregatedActionType) (uint64, error) {
	return hdb.getL1BatchesPredictedGas(hdb.dbRead, batchRange, txType)
}

func (hdb *HistoryDB) getL1BatchesPredictedGas(d sqlx.Queryer, batchRange common.L1BatchRange,
	txType common.AggregatedActionType) (uint64, error) {
	column, ok := predictedGasColumns[txType]
	if !ok {
		return 0, common.Wrap(fmt.Errorf("unknown action type %q", txType))
	}
	var gas int64
	if err := sqlx.Get(d, &gas, fmt.Sprintf(
		"SELECT COALESCE(SUM(%s), 0)::BIGINT FROM l1_batches WHERE number BETWEEN $1 AND $2;",
		column), int64(batchRange.Start), int64(batchRange.End),
	); err != nil {
		return 0, common.Wrap(err)
	}
	return uint64(gas), nil
}

// GetNextNonce returns the nonce following the one of the last tx stored for
// the sender, or nil if the sender has no stored txs.  A nil from means the
// default operator.
func (hdb *HistoryDB) GetNextNonce(from *ethCommon.Address) (*uint64, error) {
	var fromArg interface{}
	if from != nil {
		fromArg = from.Bytes()
	}
	var nonce int64
	err := hdb.dbRead.Get(&nonce,
		`SELECT nonce FROM eth_txs WHERE from_addr IS NOT DISTINCT FROM $1
		ORDER BY id DESC LIMIT 1;`, fromArg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, common.Wrap(err)
	}
	next := uint64(nonce) + 1
	return &next, nil
}

// SaveEthTx stores tx and marks every batch of batchRange as claimed by it for
// tx.TxType, in a single DB transaction.  The predicted gas cost of tx is
// baseCost plus the predicted gas of the batches.  If any batch of the range
// is missing or already claimed nothing is written.
func (hdb *HistoryDB) SaveEthTx(tx *common.EthTx, batchRange common.L1BatchRange,
	baseCost uint64) (err error) {
	txn, err := hdb.dbWrite.Beginx()
	if err != nil {
		return common.Wrap(err)
	}
	defer func() {
		if err != nil {
			database.Rollback(txn)
			tx.ID = 0
		}
	}()
	predictedGas, err := hdb.getL1BatchesPredictedGas(txn, batchRange, tx.TxType)
	if err != nil {
		return common.Wrap(err)
	}
	tx.PredictedGasCost = baseCost + predictedGas
	tx.ID = 0
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	if err = meddler.Insert(txn, "eth_txs", tx); err != nil {
		return common.Wrap(err)
	}
	if err = hdb.setEthTxID(txn, batchRange, tx.ID, tx.TxType); err != nil {
		return common.Wrap(err)
	}
	err = txn.Commit()
	return common.Wrap(err)
}

func (hdb *HistoryDB) setEthTxID(d sqlx.Execer, batchRange common.L1BatchRange, ethTxID int64,
	txType common.AggregatedActionType) error {
	column, ok := ethTxIDColumns[txType]
	if !ok {
		return common.Wrap(fmt.Errorf("unknown action type %q", txType))
	}
	res, err := d.Exec(fmt.Sprintf(
		"UPDATE l1_batches SET %s = $1 WHERE number BETWEEN $2 AND $3 AND %s IS NULL;",
		column, column), ethTxID, int64(batchRange.Start), int64(batchRange.End),
	)
	if err != nil {
		return common.Wrap(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return common.Wrap(err)
	}
	if n != int64(batchRange.Len()) {
		return common.Wrap(fmt.Errorf("%w: %v marked %d of %d batches %v",
			common.ErrRangeAlreadyClaimed, txType, n, batchRange.Len(), batchRange))
	}
	return nil
}

// GetEthTx retrieves an eth tx from the DB, given its id
func (hdb *HistoryDB) GetEthTx(id int64) (*common.EthTx, error) {
	tx := &common.EthTx{}
	err := meddler.QueryRow(
		hdb.dbRead, tx,
		"SELECT * FROM eth_txs WHERE id = $1;", id,
	)
	return tx, common.Wrap(err)
}

// GetAllEthTxs retrieves all the eth txs from the DB
func (hdb *HistoryDB) GetAllEthTxs() ([]common.EthTx, error) {
	var txs []*common.EthTx
	err := meddler.QueryAll(
		hdb.dbRead, &txs,
		"SELECT * FROM eth_txs ORDER BY id;",
	)
	return database.SlicePtrsToSlice(txs).([]common.EthTx), common.Wrap(err)
}
