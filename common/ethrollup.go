package common

import (
	ethCommon "github.com/ethereum/go-ethereum/common"
)

const (
	// RollupConstVerifierParamsBytes is the length of the ABI encoded
	// getVerifierParams() result: three bytes32 words
	RollupConstVerifierParamsBytes = 3 * ethCommon.HashLength
	// RollupConstWordBytes is the length of a single ABI word
	RollupConstWordBytes = 32
)

// BaseSystemContractsHashes are the bytecode hashes of the system contracts
// the state transition contract expects batches to be executed with
type BaseSystemContractsHashes struct {
	Bootloader ethCommon.Hash `json:"bootloader"`
	DefaultAA  ethCommon.Hash `json:"defaultAA"`
}

// VerifierParams are the recursion verification key hashes configured in the
// state transition contract
type VerifierParams struct {
	RecursionNodeLevelVKHash    ethCommon.Hash `json:"recursionNodeLevelVkHash"`
	RecursionLeafLevelVKHash    ethCommon.Hash `json:"recursionLeafLevelVkHash"`
	RecursionCircuitsSetVKsHash ethCommon.Hash `json:"recursionCircuitsSetVksHash"`
}

// L1VerifierConfig is the complete proof verification configuration: the
// verifier params plus the key hash of the verifier contract itself
type L1VerifierConfig struct {
	Params                        VerifierParams `json:"params"`
	RecursionSchedulerLevelVKHash ethCommon.Hash `json:"recursionSchedulerLevelVkHash"`
}

// ConfigSnapshot is the contract configuration observed at a single L1 block.
// It is fetched again on every aggregator iteration and never cached.
type ConfigSnapshot struct {
	BaseSystemContractsHashes BaseSystemContractsHashes `json:"baseSystemContractsHashes"`
	VerifierParams            VerifierParams            `json:"verifierParams"`
	VerifierAddress           ethCommon.Address         `json:"verifierAddress"`
	ProtocolVersion           ProtocolSemanticVersion   `json:"protocolVersion"`
}

// BridgeGeneration returns the ABI generation of the deployed contracts
func (s *ConfigSnapshot) BridgeGeneration() BridgeGeneration {
	return s.ProtocolVersion.Minor.BridgeGeneration()
}
