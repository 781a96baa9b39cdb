package test

import (
	"math/big"

	"rollup-l1-sender/common"

	ethCommon "github.com/ethereum/go-ethereum/common"
)

// WARNING: the generators in this file doesn't necessary follow the protocol
// they are intended to check that the parsers between struct <==> DB are correct

// GenBaseSystemContractsHashes returns deterministic system contracts hashes
func GenBaseSystemContractsHashes() common.BaseSystemContractsHashes {
	return common.BaseSystemContractsHashes{
		Bootloader: ethCommon.HexToHash("0x0100038581be3d0e201b3cc45d151ef5cc59eb3a0f146ad44f0f72abf00b594c"),
		DefaultAA:  ethCommon.HexToHash("0x0100055bcc0ea7d9d7e6d4d3f3b4e17d7df5ca53ec8e41e58f4c5bdab3fbea47"),
	}
}

// GenL1Batches generates the batches from, to (both included). WARNING: This
// is meant for DB/API testing, and may not be fully consistent with the
// protocol.
func GenL1Batches(from, to common.L1BatchNumber,
	version common.ProtocolVersionID) []common.L1BatchWithMetadata {
	var batches []common.L1BatchWithMetadata
	for i := from; i <= to; i++ {
		n := big.NewInt(int64(i))
		batches = append(batches, common.L1BatchWithMetadata{
			Header: common.L1BatchHeader{
				Number: i,
				//nolint:gomnd
				Timestamp:              1700000000 + uint64(i)*12,
				L1TxCount:              uint16(i % 3),
				PriorityOpsOnchainHash: ethCommon.BigToHash(new(big.Int).Add(n, big.NewInt(1000))),
				L2ToL1Logs: []common.L2ToL1Log{{
					TxNumberInBlock: uint16(i),
					Sender:          ethCommon.HexToAddress("0x8008"),
					Key:             ethCommon.BigToHash(n),
					Value:           ethCommon.BigToHash(n),
				}},
				SystemLogs: []common.L2ToL1Log{{
					IsService: true,
					Sender:    ethCommon.HexToAddress("0x800b"),
					Key:       ethCommon.BigToHash(n),
				}},
				L2ToL1Messages:            [][]byte{append([]byte{0xff}, n.Bytes()...)},
				BaseSystemContractsHashes: GenBaseSystemContractsHashes(),
				ProtocolVersion:           version,
			},
			Metadata: common.L1BatchMetadata{
				RootHash:                           ethCommon.BigToHash(new(big.Int).Add(n, big.NewInt(2000))),
				RollupLastLeafIndex:                uint64(i) * 10,
				Commitment:                         ethCommon.BigToHash(new(big.Int).Add(n, big.NewInt(3000))),
				L2L1MerkleRoot:                     ethCommon.BigToHash(new(big.Int).Add(n, big.NewInt(4000))),
				BootloaderInitialContentCommitment: ethCommon.BigToHash(new(big.Int).Add(n, big.NewInt(5000))),
				EventsQueueCommitment:              ethCommon.BigToHash(new(big.Int).Add(n, big.NewInt(6000))),
				StateDiffsCompressed:               []byte{1, 2, 3, byte(i)},
			},
			RawPublishedFactoryDeps: [][]byte{{0xde, 0xad, byte(i)}},
		})
	}
	return batches
}

// GenL1BatchProof generates a proof for a batch. WARNING: This is meant for
// DB/API testing, and may not be fully consistent with the protocol.
func GenL1BatchProof(number common.L1BatchNumber) common.L1BatchProof {
	proof := common.L1BatchProof{
		L1BatchNumber:   number,
		SerializedProof: []*big.Int{big.NewInt(int64(number)), big.NewInt(42)},
	}
	for i := range proof.AggregationResultCoords {
		proof.AggregationResultCoords[i][31] = byte(i + 1)
	}
	return proof
}
