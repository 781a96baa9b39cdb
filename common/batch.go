package common

import (
	"encoding/binary"
	"fmt"
	"math/big"

	ethCommon "github.com/ethereum/go-ethereum/common"
)

// L2ToL1LogSerializeSize is the length of a packed L2 to L1 log:
// shard id (1) + is service (1) + tx number in block (2) + sender (20) +
// key (32) + value (32)
const L2ToL1LogSerializeSize = 88

// L1BatchNumber is the sequential number of an L1 batch
type L1BatchNumber uint32

// BigInt returns a *big.Int representing the L1BatchNumber
func (bn L1BatchNumber) BigInt() *big.Int {
	return big.NewInt(int64(bn))
}

// L1BatchRange is an inclusive range of L1 batch numbers
type L1BatchRange struct {
	Start L1BatchNumber `json:"start"`
	End   L1BatchNumber `json:"end"`
}

// Len returns the number of batches in the range
func (r L1BatchRange) Len() int {
	if r.End < r.Start {
		return 0
	}
	return int(r.End-r.Start) + 1
}

// String implements fmt.Stringer
func (r L1BatchRange) String() string {
	return fmt.Sprintf("%d..=%d", r.Start, r.End)
}

// L2ToL1Log is a log emitted by L2 and committed to L1 in the batch
type L2ToL1Log struct {
	ShardID         uint8             `json:"shardId"`
	IsService       bool              `json:"isService"`
	TxNumberInBlock uint16            `json:"txNumberInBlock"`
	Sender          ethCommon.Address `json:"sender"`
	Key             ethCommon.Hash    `json:"key"`
	Value           ethCommon.Hash    `json:"value"`
}

// Packed returns the representation of the log expected by L1
func (l *L2ToL1Log) Packed() []byte {
	res := make([]byte, 0, L2ToL1LogSerializeSize)
	isService := byte(0)
	if l.IsService {
		isService = 1
	}
	res = append(res, l.ShardID, isService)
	res = binary.BigEndian.AppendUint16(res, l.TxNumberInBlock)
	res = append(res, l.Sender.Bytes()...)
	res = append(res, l.Key.Bytes()...)
	res = append(res, l.Value.Bytes()...)
	return res
}

// L1BatchHeader holds the data of a sealed L1 batch known before its
// commitment is computed
type L1BatchHeader struct {
	Number                    L1BatchNumber             `json:"number"`
	Timestamp                 uint64                    `json:"timestamp"`
	L1TxCount                 uint16                    `json:"l1TxCount"`
	PriorityOpsOnchainHash    ethCommon.Hash            `json:"priorityOpsOnchainDataHash"`
	L2ToL1Logs                []L2ToL1Log               `json:"l2ToL1Logs"`
	SystemLogs                []L2ToL1Log               `json:"systemLogs"`
	L2ToL1Messages            [][]byte                  `json:"l2ToL1Messages"`
	BaseSystemContractsHashes BaseSystemContractsHashes `json:"baseSystemContractsHashes"`
	ProtocolVersion           ProtocolVersionID         `json:"protocolVersion"`
	// PubdataInput is the pubdata as produced by the bootloader.  Batches
	// sealed by older protocol versions don't have it.
	PubdataInput []byte `json:"pubdataInput,omitempty"`
}

// L1BatchMetadata holds the commitment data computed for a sealed batch
type L1BatchMetadata struct {
	RootHash                           ethCommon.Hash `json:"rootHash"`
	RollupLastLeafIndex                uint64         `json:"rollupLastLeafIndex"`
	Commitment                         ethCommon.Hash `json:"commitment"`
	L2L1MerkleRoot                     ethCommon.Hash `json:"l2l1MerkleRoot"`
	BootloaderInitialContentCommitment ethCommon.Hash `json:"bootloaderInitialContentCommitment"`
	EventsQueueCommitment              ethCommon.Hash `json:"eventsQueueCommitment"`
	StateDiffsCompressed               []byte         `json:"stateDiffsCompressed"`
}

// L1BatchWithMetadata is a batch ready to be sent to L1
type L1BatchWithMetadata struct {
	Header                  L1BatchHeader   `json:"header"`
	Metadata                L1BatchMetadata `json:"metadata"`
	RawPublishedFactoryDeps [][]byte        `json:"rawPublishedFactoryDeps"`
}

// PubdataKind names the parts pubdata is built from
type PubdataKind string

const (
	// PubdataKindUserL2ToL1Logs are the user L2 to L1 logs
	PubdataKindUserL2ToL1Logs PubdataKind = "UserL2ToL1Logs"
	// PubdataKindLongL2ToL1Messages are the L2 to L1 messages
	PubdataKindLongL2ToL1Messages PubdataKind = "LongL2ToL1Messages"
	// PubdataKindRawPublishedBytecodes are the published factory deps
	PubdataKindRawPublishedBytecodes PubdataKind = "RawPublishedBytecodes"
	// PubdataKindStateDiffs are the compressed state diffs
	PubdataKindStateDiffs PubdataKind = "StateDiffs"
)

// PubdataSizes returns the size in bytes of every part of the pubdata
func (b *L1BatchWithMetadata) PubdataSizes() map[PubdataKind]int {
	messages := 0
	for _, msg := range b.Header.L2ToL1Messages {
		messages += len(msg)
	}
	bytecodes := 0
	for _, dep := range b.RawPublishedFactoryDeps {
		bytecodes += len(dep)
	}
	return map[PubdataKind]int{
		PubdataKindUserL2ToL1Logs:        len(b.Header.L2ToL1Logs) * L2ToL1LogSerializeSize,
		PubdataKindLongL2ToL1Messages:    messages,
		PubdataKindRawPublishedBytecodes: bytecodes,
		PubdataKindStateDiffs:            len(b.Metadata.StateDiffsCompressed),
	}
}

// Pubdata returns the data published to L1 for the batch.  When the batch
// carries the bootloader pubdata input it is returned as is, otherwise it is
// built from the logs, messages, bytecodes and state diffs.
func (b *L1BatchWithMetadata) Pubdata() []byte {
	if b.Header.PubdataInput != nil {
		return b.Header.PubdataInput
	}
	var res []byte
	res = binary.BigEndian.AppendUint32(res, uint32(len(b.Header.L2ToL1Logs)))
	for i := range b.Header.L2ToL1Logs {
		res = append(res, b.Header.L2ToL1Logs[i].Packed()...)
	}
	res = binary.BigEndian.AppendUint32(res, uint32(len(b.Header.L2ToL1Messages)))
	for _, msg := range b.Header.L2ToL1Messages {
		res = binary.BigEndian.AppendUint32(res, uint32(len(msg)))
		res = append(res, msg...)
	}
	res = binary.BigEndian.AppendUint32(res, uint32(len(b.RawPublishedFactoryDeps)))
	for _, dep := range b.RawPublishedFactoryDeps {
		res = binary.BigEndian.AppendUint32(res, uint32(len(dep)))
		res = append(res, dep...)
	}
	return append(res, b.Metadata.StateDiffsCompressed...)
}

// PackedSystemLogs returns the concatenation of the packed system logs
func (b *L1BatchWithMetadata) PackedSystemLogs() []byte {
	res := make([]byte, 0, len(b.Header.SystemLogs)*L2ToL1LogSerializeSize)
	for i := range b.Header.SystemLogs {
		res = append(res, b.Header.SystemLogs[i].Packed()...)
	}
	return res
}
