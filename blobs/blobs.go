/*
Package blobs packs commit pubdata into EIP-4844 blobs.

Pubdata is cut in chunks of ChunkBytes bytes.  Every chunk is stored in its own
32 byte field element, right after a zero byte, so that the element is always
below the BLS12-381 scalar field modulus.  A blob holds FieldElementsPerBlob
elements, and the last chunk of the last blob is padded with zeros.

Besides the sidecar, a commit carries per blob the opening of its polynomial at
a point derived from the blob content, so that the executor can check the blob
with the point evaluation precompile:

	openingPoint (16) || openingValue (32) || commitment (48) || openingProof (48)

The opening point is the low 16 bytes of keccak256(linearHash || versionedHash),
where linearHash is the keccak256 of the zero padded pubdata of the blob.
*/
package blobs

import (
	"crypto/sha256"
	"fmt"

	"rollup-l1-sender/common"

	ethCommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/crypto/kzg4844"
)

const (
	// FieldElementBytes is the size of a blob field element
	FieldElementBytes = 32
	// ChunkBytes is the amount of pubdata carried by a field element
	ChunkBytes = FieldElementBytes - 1
	// FieldElementsPerBlob is the number of field elements of a blob
	FieldElementsPerBlob = 4096
	// BytesPerBlob is the amount of pubdata carried by a blob
	BytesPerBlob = ChunkBytes * FieldElementsPerBlob
	// OpeningPointBytes is the size of the opening point in a pubdata
	// commitment
	OpeningPointBytes = 16
	// PubdataCommitmentBytes is the size of the commitment of a blob in
	// the pubdataCommitments field of a commit
	PubdataCommitmentBytes = OpeningPointBytes + 32 + 48 + 48
)

// Committer computes the KZG data of a blob
type Committer interface {
	Commit(blob *kzg4844.Blob) (kzg4844.Commitment, kzg4844.Proof, ethCommon.Hash, error)
	// Open evaluates the blob polynomial at point
	Open(blob *kzg4844.Blob, point kzg4844.Point) (kzg4844.Proof, kzg4844.Claim, error)
}

// KZGCommitter is the Committer backed by the go-ethereum KZG library
type KZGCommitter struct{}

// Commit returns the commitment, the proof and the versioned hash of blob
func (KZGCommitter) Commit(blob *kzg4844.Blob) (kzg4844.Commitment, kzg4844.Proof,
	ethCommon.Hash, error) {
	commitment, err := kzg4844.BlobToCommitment(blob)
	if err != nil {
		return kzg4844.Commitment{}, kzg4844.Proof{}, ethCommon.Hash{}, common.Wrap(err)
	}
	proof, err := kzg4844.ComputeBlobProof(blob, commitment)
	if err != nil {
		return kzg4844.Commitment{}, kzg4844.Proof{}, ethCommon.Hash{}, common.Wrap(err)
	}
	return commitment, proof, kzg4844.CalcBlobHashV1(sha256.New(), &commitment), nil
}

// Open returns the KZG proof and the value of the blob polynomial at point
func (KZGCommitter) Open(blob *kzg4844.Blob, point kzg4844.Point) (kzg4844.Proof, kzg4844.Claim, error) {
	proof, claim, err := kzg4844.ComputeProof(blob, point)
	if err != nil {
		return kzg4844.Proof{}, kzg4844.Claim{}, common.Wrap(err)
	}
	return proof, claim, nil
}

// Count returns the number of blobs needed for size bytes of pubdata
func Count(size int) int {
	return (size + BytesPerBlob - 1) / BytesPerBlob
}

// Split lays out pubdata in blobs.  Empty pubdata gives no blobs.
func Split(pubdata []byte) []kzg4844.Blob {
	blobs := make([]kzg4844.Blob, Count(len(pubdata)))
	for i := range blobs {
		start := i * BytesPerBlob
		end := start + BytesPerBlob
		if end > len(pubdata) {
			end = len(pubdata)
		}
		data := pubdata[start:end]
		for j := 0; j*ChunkBytes < len(data); j++ {
			chunk := data[j*ChunkBytes:]
			if len(chunk) > ChunkBytes {
				chunk = chunk[:ChunkBytes]
			}
			copy(blobs[i][j*FieldElementBytes+1:], chunk)
		}
	}
	return blobs
}

// Unpack returns the first size bytes of pubdata stored in blobs
func Unpack(blobs []kzg4844.Blob, size int) ([]byte, error) {
	if size < 0 {
		return nil, common.Wrap(fmt.Errorf("invalid pubdata size %d", size))
	}
	if size > len(blobs)*BytesPerBlob {
		return nil, common.Wrap(fmt.Errorf("%d blobs can't hold %d bytes", len(blobs), size))
	}
	pubdata := make([]byte, 0, len(blobs)*BytesPerBlob)
	for i := range blobs {
		for j := 0; j < FieldElementsPerBlob; j++ {
			element := blobs[i][j*FieldElementBytes : (j+1)*FieldElementBytes]
			if element[0] != 0 {
				return nil, common.Wrap(fmt.Errorf("blob %d field element %d doesn't start with 0", i, j))
			}
			pubdata = append(pubdata, element[1:]...)
		}
	}
	return pubdata[:size], nil
}

// OpeningPoint returns the point where the blob holding chunk is opened.
// chunk is the pubdata stored in the blob, at most BytesPerBlob bytes.
func OpeningPoint(chunk []byte, versionedHash ethCommon.Hash) kzg4844.Point {
	padded := make([]byte, BytesPerBlob)
	copy(padded, chunk)
	linearHash := crypto.Keccak256(padded)
	digest := crypto.Keccak256(linearHash, versionedHash.Bytes())
	var point kzg4844.Point
	copy(point[len(point)-OpeningPointBytes:], digest[len(digest)-OpeningPointBytes:])
	return point
}

// BuildSidecar splits pubdata in blobs and computes the KZG data of each one.
// The blobs are kept in pubdata order.  It also returns the concatenated
// pubdata commitments of the blobs.
func BuildSidecar(committer Committer, pubdata []byte) (*common.EthTxBlobSidecar, []byte, error) {
	blobs := Split(pubdata)
	sidecar := &common.EthTxBlobSidecar{
		Version: common.EthTxBlobSidecarVersion1,
		Blobs:   make([]common.SidecarBlob, len(blobs)),
	}
	commitments := make([]byte, 0, len(blobs)*PubdataCommitmentBytes)
	for i := range blobs {
		commitment, proof, versionedHash, err := committer.Commit(&blobs[i])
		if err != nil {
			return nil, nil, common.Wrap(fmt.Errorf("blob %d: %w", i, err))
		}
		sidecar.Blobs[i] = common.SidecarBlob{
			Blob:          blobs[i][:],
			Commitment:    commitment[:],
			Proof:         proof[:],
			VersionedHash: versionedHash.Bytes(),
		}

		end := (i + 1) * BytesPerBlob
		if end > len(pubdata) {
			end = len(pubdata)
		}
		point := OpeningPoint(pubdata[i*BytesPerBlob:end], versionedHash)
		openingProof, value, err := committer.Open(&blobs[i], point)
		if err != nil {
			return nil, nil, common.Wrap(fmt.Errorf("blob %d opening: %w", i, err))
		}
		commitments = append(commitments, point[len(point)-OpeningPointBytes:]...)
		commitments = append(commitments, value[:]...)
		commitments = append(commitments, commitment[:]...)
		commitments = append(commitments, openingProof[:]...)
	}
	return sidecar, commitments, nil
}
