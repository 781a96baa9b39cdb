package coordinator

import (
	"context"
	"fmt"

	"rollup-l1-sender/common"
	"rollup-l1-sender/eth"
	"rollup-l1-sender/log"

	ethCommon "github.com/ethereum/go-ethereum/common"
)

// TxStore is the storage of the eth txs created by the aggregator
type TxStore interface {
	// GetNextNonce returns the nonce after the last stored tx of from, or
	// nil if from has no stored tx.  A nil from is the default operator.
	GetNextNonce(from *ethCommon.Address) (*uint64, error)
	// SaveEthTx stores tx and claims batchRange for it atomically
	SaveEthTx(tx *common.EthTx, batchRange common.L1BatchRange, baseCost uint64) error
}

// TxManagerConfig is the configuration of the TxManager
type TxManagerConfig struct {
	// OperatorAddress is the default sender
	OperatorAddress ethCommon.Address
	// CustomCommitSender, when not nil, sends the commit txs
	CustomCommitSender *ethCommon.Address
	// ValidatorTimelock is the target contract of every tx
	ValidatorTimelock ethCommon.Address
	// BaseGasCost returns the fixed gas of each action type
	BaseGasCost func(common.AggregatedActionType) uint64
}

// TxManager assigns nonces to encoded operations and stores them for the
// sender.  The base nonces are read from L1 once at creation, so a restart
// picks up txs sent by other means in the meantime.
type TxManager struct {
	cfg   TxManagerConfig
	store TxStore

	baseNonce                   uint64
	baseNonceCustomCommitSender *uint64
}

// NewTxManager creates a new TxManager reading the pending nonces of the
// configured senders
func NewTxManager(ctx context.Context, cfg TxManagerConfig, ethClient eth.EthereumInterface,
	store TxStore) (*TxManager, error) {
	baseNonce, err := ethClient.EthPendingNonceAt(ctx, cfg.OperatorAddress)
	if err != nil {
		return nil, common.Wrap(fmt.Errorf("failed to get nonce of %v: %w", cfg.OperatorAddress, err))
	}
	t := &TxManager{
		cfg:       cfg,
		store:     store,
		baseNonce: baseNonce,
	}
	if cfg.CustomCommitSender != nil {
		nonce, err := ethClient.EthPendingNonceAt(ctx, *cfg.CustomCommitSender)
		if err != nil {
			return nil, common.Wrap(fmt.Errorf("failed to get nonce of %v: %w",
				*cfg.CustomCommitSender, err))
		}
		t.baseNonceCustomCommitSender = &nonce
	}
	log.Infow("TxManager started", "nonce", baseNonce,
		"customCommitSender", cfg.CustomCommitSender,
		"customCommitSenderNonce", t.baseNonceCustomCommitSender)
	return t, nil
}

// Sender returns the sender override of the txs of an action type: the custom
// commit sender for commits when configured, nil otherwise
func (t *TxManager) Sender(txType common.AggregatedActionType) *ethCommon.Address {
	if txType == common.ActionCommit {
		return t.cfg.CustomCommitSender
	}
	return nil
}

// NextNonce returns the nonce for the next tx of from: the nonce after the
// last stored tx, but never below the nonce read from L1 at startup
func (t *TxManager) NextNonce(from *ethCommon.Address) (uint64, error) {
	base := t.baseNonce
	if from != nil {
		if t.baseNonceCustomCommitSender == nil {
			return 0, common.Wrap(fmt.Errorf("no base nonce for sender %v", *from))
		}
		base = *t.baseNonceCustomCommitSender
	}
	stored, err := t.store.GetNextNonce(from)
	if err != nil {
		return 0, common.Wrap(err)
	}
	if stored != nil && *stored > base {
		return *stored, nil
	}
	return base, nil
}

// SaveEthTx assigns a nonce to tx and stores it, claiming the batch range of
// op
func (t *TxManager) SaveEthTx(op common.AggregatedOperation,
	tx *common.EncodedTx) (*common.EthTx, error) {
	from := t.Sender(op.ActionType())
	nonce, err := t.NextNonce(from)
	if err != nil {
		return nil, common.Wrap(err)
	}
	ethTx := &common.EthTx{
		Nonce:           nonce,
		RawTxInput:      tx.Calldata,
		TxType:          op.ActionType(),
		ContractAddress: t.cfg.ValidatorTimelock,
		FromAddr:        from,
		BlobSidecar:     tx.Sidecar,
	}
	if err := t.store.SaveEthTx(ethTx, op.L1BatchRange(),
		t.cfg.BaseGasCost(op.ActionType())); err != nil {
		return nil, common.Wrap(err)
	}
	return ethTx, nil
}
