package eth

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"rollup-l1-sender/common"
	"rollup-l1-sender/eth/contracts/multicall3"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethCommon "github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	stcAddress       = ethCommon.HexToAddress("0x0000000000000000000000000000000000000a01")
	multicallAddress = ethCommon.HexToAddress("0xcA11bde05977b3631167028862bE2a173976CA11")
	verifierAddress  = ethCommon.HexToAddress("0x00000000000000000000000000000000000000f1")
	bootloaderHash   = ethCommon.HexToHash("0x0100038581be3d0e201b3cc45d151ef5cc59eb3a0f146ad44f0f72abf00b594c")
	defaultAAHash    = ethCommon.HexToHash("0x0100055bcc0ea7d9d7e6d4d3f3b4e17d7df5ca53ec8e41e58f4c5bdab3fbea47")
)

// fakeCaller answers aggregate3 calls with results and verificationKeyHash
// calls with vkHash
type fakeCaller struct {
	t       *testing.T
	results []Multicall3Result
	vkHash  ethCommon.Hash
	vkRaw   []byte
	err     error
	calls   []Multicall3Call3
	to      ethCommon.Address
}

func (f *fakeCaller) EthCallContract(ctx context.Context, to ethCommon.Address,
	data []byte) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.to = to
	if to == verifierAddress {
		if f.vkRaw != nil {
			return f.vkRaw, nil
		}
		return f.vkHash[:], nil
	}
	multicallAbi, err := multicall3.Multicall3MetaData.GetAbi()
	require.NoError(f.t, err)
	method, err := multicallAbi.MethodById(data[:4])
	require.NoError(f.t, err)
	args, err := method.Inputs.Unpack(data[4:])
	require.NoError(f.t, err)
	f.calls = *abi.ConvertType(args[0], new([]Multicall3Call3)).(*[]Multicall3Call3)
	return method.Outputs.Pack(f.results)
}

func word(b []byte) []byte {
	return ethCommon.LeftPadBytes(b, common.RollupConstWordBytes)
}

func genResults(version common.ProtocolSemanticVersion) []Multicall3Result {
	params := make([]byte, 0, common.RollupConstVerifierParamsBytes)
	for i := byte(1); i <= 3; i++ {
		params = append(params, word([]byte{i})...)
	}
	packed := version.Pack().Bytes32()
	return []Multicall3Result{
		{Success: true, ReturnData: bootloaderHash.Bytes()},
		{Success: true, ReturnData: defaultAAHash.Bytes()},
		{Success: true, ReturnData: params},
		{Success: true, ReturnData: word(verifierAddress.Bytes())},
		{Success: true, ReturnData: packed[:]},
	}
}

func newTestRollupClient(t *testing.T, caller *fakeCaller) *RollupClient {
	client, err := NewRollupClient(caller, RollupConfig{
		Address:    stcAddress,
		Multicall3: multicallAddress,
	})
	require.NoError(t, err)
	return client
}

func TestRollupMulticallData(t *testing.T) {
	version := common.ProtocolSemanticVersion{Minor: common.Version24, Patch: 2}
	caller := &fakeCaller{t: t, results: genResults(version)}
	client := newTestRollupClient(t, caller)

	snapshot, err := client.RollupMulticallData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, multicallAddress, caller.to)
	require.Len(t, caller.calls, len(multicallGetters))
	for i, call := range caller.calls {
		assert.Equal(t, stcAddress, call.Target)
		assert.False(t, call.AllowFailure)
		selector := client.gettersAbi.Methods[multicallGetters[i]].ID
		assert.Equal(t, selector, call.CallData)
	}

	assert.Equal(t, bootloaderHash, snapshot.BaseSystemContractsHashes.Bootloader)
	assert.Equal(t, defaultAAHash, snapshot.BaseSystemContractsHashes.DefaultAA)
	assert.Equal(t, ethCommon.BigToHash(big.NewInt(1)), snapshot.VerifierParams.RecursionNodeLevelVKHash)
	assert.Equal(t, ethCommon.BigToHash(big.NewInt(2)), snapshot.VerifierParams.RecursionLeafLevelVKHash)
	assert.Equal(t, ethCommon.BigToHash(big.NewInt(3)), snapshot.VerifierParams.RecursionCircuitsSetVKsHash)
	assert.Equal(t, verifierAddress, snapshot.VerifierAddress)
	assert.Equal(t, version, snapshot.ProtocolVersion)
	assert.Equal(t, common.PostSharedBridge, snapshot.BridgeGeneration())
}

func TestRollupMulticallDataCallError(t *testing.T) {
	caller := &fakeCaller{t: t, err: fmt.Errorf("connection refused")}
	client := newTestRollupClient(t, caller)
	_, err := client.RollupMulticallData(context.Background())
	require.Error(t, err)
	assert.False(t, common.ErrorIs(err, common.ErrMulticallDecode))
}

func TestRollupVerifierVKHash(t *testing.T) {
	vkHash := ethCommon.HexToHash("0x1d485be42d712856dfe85b3cf7823f020fa5f83cb41c83f9da307fdc2089beee")
	caller := &fakeCaller{t: t, vkHash: vkHash}
	client := newTestRollupClient(t, caller)
	got, err := client.RollupVerifierVKHash(context.Background(), verifierAddress)
	require.NoError(t, err)
	assert.Equal(t, vkHash, got)
	assert.Equal(t, verifierAddress, caller.to)

	// An answer that isn't a single word is not a key hash
	caller.vkRaw = append(vkHash.Bytes(), 0x01)
	_, err = client.RollupVerifierVKHash(context.Background(), verifierAddress)
	require.Error(t, err)
	assert.True(t, common.ErrorIs(err, common.ErrMulticallDecode))
	assert.Contains(t, err.Error(), "returned 33 bytes")

	caller.vkRaw = []byte{}
	_, err = client.RollupVerifierVKHash(context.Background(), verifierAddress)
	require.Error(t, err)
	assert.True(t, common.ErrorIs(err, common.ErrMulticallDecode))
}

func TestParseMulticallResults(t *testing.T) {
	// Legacy packing: the minor id alone
	results := genResults(common.ProtocolSemanticVersion{Minor: common.Version24})
	results[multicallProtocolVersion].ReturnData = word([]byte{byte(common.Version22)})
	snapshot, err := ParseMulticallResults(results)
	require.NoError(t, err)
	assert.Equal(t, common.ProtocolSemanticVersion{Minor: common.Version22}, snapshot.ProtocolVersion)
	assert.Equal(t, common.PreSharedBridge, snapshot.BridgeGeneration())

	testCases := []struct {
		name   string
		mutate func([]Multicall3Result) []Multicall3Result
		dump   string
	}{
		{"missing result", func(r []Multicall3Result) []Multicall3Result { return r[:4] },
			fmt.Sprintf("true:0x%x", bootloaderHash.Bytes())},
		{"extra result", func(r []Multicall3Result) []Multicall3Result {
			return append(r, Multicall3Result{Success: true, ReturnData: []byte{0xab, 0xcd}})
		}, "true:0xabcd]"},
		{"failed call", func(r []Multicall3Result) []Multicall3Result {
			r[multicallVerifierAddress].Success = false
			return r
		}, ""},
		{"short verifier params", func(r []Multicall3Result) []Multicall3Result {
			r[multicallVerifierParams].ReturnData = r[multicallVerifierParams].ReturnData[:95]
			return r
		}, fmt.Sprintf("0x%x", append(word([]byte{1}), word([]byte{2})...))},
		{"long bootloader hash", func(r []Multicall3Result) []Multicall3Result {
			r[multicallBootloaderHash].ReturnData = append(r[multicallBootloaderHash].ReturnData, 0)
			return r
		}, fmt.Sprintf("0x%x00", bootloaderHash.Bytes())},
		{"short protocol version", func(r []Multicall3Result) []Multicall3Result {
			r[multicallProtocolVersion].ReturnData = []byte{24}
			return r
		}, "0x18"},
		{"protocol version out of range", func(r []Multicall3Result) []Multicall3Result {
			raw := new(uint256.Int).Lsh(uint256.NewInt(1), 64).Bytes32()
			r[multicallProtocolVersion].ReturnData = raw[:]
			return r
		}, ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			results := tc.mutate(genResults(common.ProtocolSemanticVersion{Minor: common.Version24}))
			_, err := ParseMulticallResults(results)
			require.Error(t, err)
			assert.True(t, common.ErrorIs(err, common.ErrMulticallDecode))
			if tc.dump != "" {
				assert.Contains(t, err.Error(), tc.dump)
			}
		})
	}
}
