package coordinator

import (
	"fmt"
	"sync"

	"rollup-l1-sender/blobs"
	"rollup-l1-sender/common"
	"rollup-l1-sender/test"

	ethCommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto/kzg4844"
)

var (
	operatorAddress   = ethCommon.HexToAddress("0x00000000000000000000000000000000000000a1")
	commitSender      = ethCommon.HexToAddress("0x00000000000000000000000000000000000000c1")
	validatorTimelock = ethCommon.HexToAddress("0x0000000000000000000000000000000000000a02")
)

// fakeCommitter derives the KZG data from the first byte of the blob
type fakeCommitter struct{}

func (fakeCommitter) Commit(blob *kzg4844.Blob) (kzg4844.Commitment, kzg4844.Proof,
	ethCommon.Hash, error) {
	var commitment kzg4844.Commitment
	var proof kzg4844.Proof
	commitment[0] = 0xc0
	commitment[1] = blob[1]
	proof[0] = 0xd0
	proof[1] = blob[1]
	return commitment, proof, ethCommon.BytesToHash([]byte{0x01, blob[1]}), nil
}

func (fakeCommitter) Open(blob *kzg4844.Blob, point kzg4844.Point) (kzg4844.Proof,
	kzg4844.Claim, error) {
	var proof kzg4844.Proof
	var claim kzg4844.Claim
	proof[0] = 0xe0
	claim[0] = blob[1]
	return proof, claim, nil
}

// memStore is an in memory TxStore with fault injection.  Like the DB, a
// failed SaveEthTx leaves no trace.
type memStore struct {
	mu       sync.Mutex
	txs      []common.EthTx
	claims   map[common.AggregatedActionType]map[common.L1BatchNumber]int64
	saveErr  error
	nonceErr error
}

func newMemStore() *memStore {
	claims := make(map[common.AggregatedActionType]map[common.L1BatchNumber]int64)
	for _, t := range common.AggregatedActionTypes {
		claims[t] = make(map[common.L1BatchNumber]int64)
	}
	return &memStore{claims: claims}
}

func sameSender(a, b *ethCommon.Address) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (s *memStore) GetNextNonce(from *ethCommon.Address) (*uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nonceErr != nil {
		return nil, s.nonceErr
	}
	for i := len(s.txs) - 1; i >= 0; i-- {
		if sameSender(s.txs[i].FromAddr, from) {
			next := s.txs[i].Nonce + 1
			return &next, nil
		}
	}
	return nil, nil
}

func (s *memStore) SaveEthTx(tx *common.EthTx, batchRange common.L1BatchRange,
	baseCost uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	for n := batchRange.Start; n <= batchRange.End; n++ {
		if _, ok := s.claims[tx.TxType][n]; ok {
			return fmt.Errorf("batch %d: %w", n, common.ErrRangeAlreadyClaimed)
		}
	}
	tx.ID = int64(len(s.txs) + 1)
	tx.PredictedGasCost = baseCost
	s.txs = append(s.txs, *tx)
	for n := batchRange.Start; n <= batchRange.End; n++ {
		s.claims[tx.TxType][n] = tx.ID
	}
	return nil
}

func (s *memStore) claimed(txType common.AggregatedActionType, n common.L1BatchNumber) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.claims[txType][n]
	return ok
}

// staticSource offers op until its range is claimed in store
type staticSource struct {
	store *memStore
	op    common.AggregatedOperation
	calls int
}

func (s *staticSource) NextReadyOperation(snapshot *common.ConfigSnapshot,
	verifierConfig *common.L1VerifierConfig) (common.AggregatedOperation, error) {
	s.calls++
	if s.op == nil || s.store.claimed(s.op.ActionType(), s.op.L1BatchRange().Start) {
		return nil, nil
	}
	return s.op, nil
}

func genCommit(from, to common.L1BatchNumber, version common.ProtocolVersionID,
	da common.PubdataDA, pubdataLen int) *common.CommitOperation {
	batches := test.GenL1Batches(from-1, to, version)
	if pubdataLen > 0 {
		pubdata := make([]byte, pubdataLen)
		for i := range pubdata {
			pubdata[i] = byte(i/blobs.BytesPerBlob) + 1
		}
		batches[1].Header.PubdataInput = pubdata
	}
	return &common.CommitOperation{
		PrevL1Batch: batches[0],
		L1Batches:   batches[1:],
		PubdataDA:   da,
	}
}

func genProve(from, to common.L1BatchNumber, version common.ProtocolVersionID,
	shouldVerify bool) *common.ProveOperation {
	batches := test.GenL1Batches(from-1, to, version)
	op := &common.ProveOperation{
		PrevL1Batch:  batches[0],
		L1Batches:    batches[1:],
		ShouldVerify: shouldVerify,
	}
	if shouldVerify {
		for n := from; n <= to; n++ {
			op.Proofs = append(op.Proofs, test.GenL1BatchProof(n))
		}
	}
	return op
}

func genExecute(from, to common.L1BatchNumber, version common.ProtocolVersionID) *common.ExecuteOperation {
	return &common.ExecuteOperation{L1Batches: test.GenL1Batches(from, to, version)}
}

func baseGasCost(t common.AggregatedActionType) uint64 {
	switch t {
	case common.ActionCommit:
		return 242000
	case common.ActionPublishProofOnchain:
		return 1000000
	default:
		return 241000
	}
}
