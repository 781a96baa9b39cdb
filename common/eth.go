package common

import (
	"fmt"
	"time"

	ethCommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto/kzg4844"
)

// EthTxBlobSidecarVersion1 is the only sidecar layout in use
const EthTxBlobSidecarVersion1 = 1

// SidecarBlob is a single blob of a sidecar with its KZG data
type SidecarBlob struct {
	Blob          []byte `json:"blob"`
	Commitment    []byte `json:"commitment"`
	Proof         []byte `json:"proof"`
	VersionedHash []byte `json:"versionedHash"`
}

// EthTxBlobSidecar are the blobs attached to a commit transaction, in the
// order the pubdata was chunked
type EthTxBlobSidecar struct {
	Version int           `json:"version"`
	Blobs   []SidecarBlob `json:"blobs"`
}

// BlobHashes returns the versioned hashes of the blobs
func (s *EthTxBlobSidecar) BlobHashes() []ethCommon.Hash {
	hashes := make([]ethCommon.Hash, len(s.Blobs))
	for i := range s.Blobs {
		hashes[i] = ethCommon.BytesToHash(s.Blobs[i].VersionedHash)
	}
	return hashes
}

// BlobTxSidecar converts the sidecar into the go-ethereum representation used
// to build a blob transaction
func (s *EthTxBlobSidecar) BlobTxSidecar() (*types.BlobTxSidecar, error) {
	sidecar := &types.BlobTxSidecar{
		Blobs:       make([]kzg4844.Blob, len(s.Blobs)),
		Commitments: make([]kzg4844.Commitment, len(s.Blobs)),
		Proofs:      make([]kzg4844.Proof, len(s.Blobs)),
	}
	for i := range s.Blobs {
		b := &s.Blobs[i]
		if len(b.Blob) != len(kzg4844.Blob{}) ||
			len(b.Commitment) != len(kzg4844.Commitment{}) ||
			len(b.Proof) != len(kzg4844.Proof{}) {
			return nil, Wrap(fmt.Errorf("sidecar blob %d has invalid lengths: blob %d, commitment %d, proof %d",
				i, len(b.Blob), len(b.Commitment), len(b.Proof)))
		}
		copy(sidecar.Blobs[i][:], b.Blob)
		copy(sidecar.Commitments[i][:], b.Commitment)
		copy(sidecar.Proofs[i][:], b.Proof)
	}
	return sidecar, nil
}

// EncodedTx is the L1 transaction payload of an aggregated operation
type EncodedTx struct {
	Calldata []byte
	// Sidecar is only set for commits in blob pubdata mode
	Sidecar *EthTxBlobSidecar
}

// EthTx is an L1 transaction queued for signing and broadcasting.  Rows are
// never modified after insertion by the aggregator.
type EthTx struct {
	ID               int64                `meddler:"id,pk"`
	Nonce            uint64               `meddler:"nonce"`
	RawTxInput       []byte               `meddler:"raw_tx"`
	TxType           AggregatedActionType `meddler:"tx_type"`
	ContractAddress  ethCommon.Address    `meddler:"contract_address"`
	PredictedGasCost uint64               `meddler:"predicted_gas_cost"`
	// FromAddr overrides the default operator as sender
	FromAddr    *ethCommon.Address `meddler:"from_addr"`
	BlobSidecar *EthTxBlobSidecar  `meddler:"blob_sidecar,json"`
	CreatedAt   time.Time          `meddler:"created_at,utctime"`
}
