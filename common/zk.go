// Package common zk.go contains the proof data structures that are sent to
// the L1 verifier
package common

import (
	"math/big"
)

// AggregationResultCoordsLen is the number of 32 byte aggregation result
// coordinates of a final proof
const AggregationResultCoordsLen = 4

// L1BatchProof is the final proof of an L1 batch as generated by the prover
type L1BatchProof struct {
	L1BatchNumber L1BatchNumber `json:"l1BatchNumber"`
	// AggregationResultCoords are the coordinates of the recursive
	// aggregation result, each one a big endian 32 byte word
	AggregationResultCoords [AggregationResultCoordsLen][32]byte `json:"aggregationResultCoords"`
	// SerializedProof is the proof as a list of field elements
	SerializedProof []*big.Int `json:"serializedProof"`
}

// RecursiveAggregationInput returns the aggregation result coordinates as
// uint256 values, the shape the verifier expects them in
func (p *L1BatchProof) RecursiveAggregationInput() []*big.Int {
	res := make([]*big.Int, 0, AggregationResultCoordsLen)
	for i := range p.AggregationResultCoords {
		res = append(res, new(big.Int).SetBytes(p.AggregationResultCoords[i][:]))
	}
	return res
}
