package eth

import (
	"fmt"
	"strings"

	"rollup-l1-sender/common"

	ethCommon "github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Multicall3Call3 is a single call of a Multicall3 aggregate3 batch
type Multicall3Call3 struct {
	Target       ethCommon.Address
	AllowFailure bool
	CallData     []byte
}

// Multicall3Result is the outcome of a single call of an aggregate3 batch
type Multicall3Result struct {
	Success    bool
	ReturnData []byte
}

// Position of each getter in the aggregate3 batch
const (
	multicallBootloaderHash = iota
	multicallDefaultAAHash
	multicallVerifierParams
	multicallVerifierAddress
	multicallProtocolVersion
	multicallCallsLen
)

// multicallGetters are the getter methods read from the state transition
// contract, in batch order
var multicallGetters = [multicallCallsLen]string{
	multicallBootloaderHash:  "getL2BootloaderBytecodeHash",
	multicallDefaultAAHash:   "getL2DefaultAccountBytecodeHash",
	multicallVerifierParams:  "getVerifierParams",
	multicallVerifierAddress: "getVerifier",
	multicallProtocolVersion: "getProtocolVersion",
}

// GenerateMulticallCalls returns the aggregate3 calls that read the contract
// configuration of the state transition contract at target.  No call is
// allowed to fail.
func (c *RollupClient) GenerateMulticallCalls() ([]Multicall3Call3, error) {
	calls := make([]Multicall3Call3, 0, multicallCallsLen)
	for _, method := range multicallGetters {
		data, err := c.gettersAbi.Pack(method)
		if err != nil {
			return nil, common.Wrap(fmt.Errorf("pack %s: %w", method, err))
		}
		calls = append(calls, Multicall3Call3{
			Target:       c.address,
			AllowFailure: false,
			CallData:     data,
		})
	}
	return calls, nil
}

func multicallDecodeErr(format string, args ...interface{}) error {
	return common.Wrap(fmt.Errorf("%w: %s", common.ErrMulticallDecode, fmt.Sprintf(format, args...)))
}

// dumpResults renders the return data of every result in hex
func dumpResults(results []Multicall3Result) string {
	dump := make([]string, len(results))
	for i := range results {
		dump[i] = fmt.Sprintf("%v:0x%x", results[i].Success, results[i].ReturnData)
	}
	return "[" + strings.Join(dump, " ") + "]"
}

func wordResult(results []Multicall3Result, i int) ([]byte, error) {
	data := results[i].ReturnData
	if len(data) != common.RollupConstWordBytes {
		return nil, multicallDecodeErr("%s returned %d bytes, expected %d: 0x%x",
			multicallGetters[i], len(data), common.RollupConstWordBytes, data)
	}
	return data, nil
}

// ParseMulticallResults interprets the results of the batch built by
// GenerateMulticallCalls.  The length of every result is checked before it is
// reinterpreted.
func ParseMulticallResults(results []Multicall3Result) (*common.ConfigSnapshot, error) {
	if len(results) != multicallCallsLen {
		return nil, multicallDecodeErr("got %d results, expected %d: %s",
			len(results), multicallCallsLen, dumpResults(results))
	}
	for i := range results {
		if !results[i].Success {
			return nil, multicallDecodeErr("%s failed", multicallGetters[i])
		}
	}
	var snapshot common.ConfigSnapshot

	bootloader, err := wordResult(results, multicallBootloaderHash)
	if err != nil {
		return nil, err
	}
	defaultAA, err := wordResult(results, multicallDefaultAAHash)
	if err != nil {
		return nil, err
	}
	snapshot.BaseSystemContractsHashes = common.BaseSystemContractsHashes{
		Bootloader: ethCommon.BytesToHash(bootloader),
		DefaultAA:  ethCommon.BytesToHash(defaultAA),
	}

	params := results[multicallVerifierParams].ReturnData
	if len(params) != common.RollupConstVerifierParamsBytes {
		return nil, multicallDecodeErr("%s returned %d bytes, expected %d: 0x%x",
			multicallGetters[multicallVerifierParams], len(params),
			common.RollupConstVerifierParamsBytes, params)
	}
	snapshot.VerifierParams = common.VerifierParams{
		RecursionNodeLevelVKHash:    ethCommon.BytesToHash(params[0:32]),
		RecursionLeafLevelVKHash:    ethCommon.BytesToHash(params[32:64]),
		RecursionCircuitsSetVKsHash: ethCommon.BytesToHash(params[64:96]),
	}

	verifier, err := wordResult(results, multicallVerifierAddress)
	if err != nil {
		return nil, err
	}
	// address is right aligned in the word
	snapshot.VerifierAddress = ethCommon.BytesToAddress(verifier[common.RollupConstWordBytes-ethCommon.AddressLength:])

	version, err := wordResult(results, multicallProtocolVersion)
	if err != nil {
		return nil, err
	}
	snapshot.ProtocolVersion, err = common.DecodeProtocolVersion(new(uint256.Int).SetBytes(version))
	if err != nil {
		return nil, multicallDecodeErr("protocol version: %v", common.Unwrap(err))
	}
	return &snapshot, nil
}
