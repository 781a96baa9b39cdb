package eth

import (
	"context"
	"fmt"

	"rollup-l1-sender/common"
	"rollup-l1-sender/eth/contracts/multicall3"
	"rollup-l1-sender/eth/contracts/zksync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethCommon "github.com/ethereum/go-ethereum/common"
)

// RollupInterface is the inteface to the state transition contract of the
// rollup, read through Multicall3
type RollupInterface interface {
	// RollupMulticallData reads the contract configuration in a single
	// aggregate3 call
	RollupMulticallData(ctx context.Context) (*common.ConfigSnapshot, error)
	// RollupVerifierVKHash reads the key hash of the verifier contract
	RollupVerifierVKHash(ctx context.Context, verifier ethCommon.Address) (ethCommon.Hash, error)
}

// contractCaller runs read only calls against a contract
type contractCaller interface {
	EthCallContract(ctx context.Context, to ethCommon.Address, data []byte) ([]byte, error)
}

//
// Implementation
//

// RollupClient is the implementation of the interface to the state transition
// contract in ethereum.
type RollupClient struct {
	client       contractCaller
	address      ethCommon.Address
	multicall3   ethCommon.Address
	gettersAbi   *abi.ABI
	verifierAbi  *abi.ABI
	multicallAbi *abi.ABI
}

// NewRollupClient creates a new RollupClient
func NewRollupClient(client contractCaller, cfg RollupConfig) (*RollupClient, error) {
	gettersAbi, err := zksync.IGettersMetaData.GetAbi()
	if err != nil {
		return nil, common.Wrap(err)
	}
	verifierAbi, err := zksync.IVerifierMetaData.GetAbi()
	if err != nil {
		return nil, common.Wrap(err)
	}
	multicallAbi, err := multicall3.Multicall3MetaData.GetAbi()
	if err != nil {
		return nil, common.Wrap(err)
	}
	return &RollupClient{
		client:       client,
		address:      cfg.Address,
		multicall3:   cfg.Multicall3,
		gettersAbi:   gettersAbi,
		verifierAbi:  verifierAbi,
		multicallAbi: multicallAbi,
	}, nil
}

// RollupMulticallData returns the configuration of the state transition
// contract at the latest block.  Errors of the call itself are returned as
// is, errors interpreting the response wrap common.ErrMulticallDecode.
func (c *RollupClient) RollupMulticallData(ctx context.Context) (*common.ConfigSnapshot, error) {
	calls, err := c.GenerateMulticallCalls()
	if err != nil {
		return nil, common.Wrap(err)
	}
	data, err := c.multicallAbi.Pack("aggregate3", calls)
	if err != nil {
		return nil, common.Wrap(err)
	}
	raw, err := c.client.EthCallContract(ctx, c.multicall3, data)
	if err != nil {
		return nil, common.Wrap(fmt.Errorf("aggregate3 at %v: %w", c.multicall3, err))
	}
	var results []Multicall3Result
	if err := c.multicallAbi.UnpackIntoInterface(&results, "aggregate3", raw); err != nil {
		return nil, multicallDecodeErr("aggregate3: %v", err)
	}
	return ParseMulticallResults(results)
}

// RollupVerifierVKHash returns the recursion scheduler level key hash of the
// verifier contract
func (c *RollupClient) RollupVerifierVKHash(ctx context.Context,
	verifier ethCommon.Address) (ethCommon.Hash, error) {
	data, err := c.verifierAbi.Pack("verificationKeyHash")
	if err != nil {
		return ethCommon.Hash{}, common.Wrap(err)
	}
	raw, err := c.client.EthCallContract(ctx, verifier, data)
	if err != nil {
		return ethCommon.Hash{}, common.Wrap(fmt.Errorf("verificationKeyHash at %v: %w", verifier, err))
	}
	if len(raw) != common.RollupConstWordBytes {
		return ethCommon.Hash{}, multicallDecodeErr("verificationKeyHash at %v returned %d bytes, expected %d: 0x%x",
			verifier, len(raw), common.RollupConstWordBytes, raw)
	}
	out, err := c.verifierAbi.Unpack("verificationKeyHash", raw)
	if err != nil {
		return ethCommon.Hash{}, common.Wrap(err)
	}
	vkHash := *abi.ConvertType(out[0], new([32]byte)).(*[32]byte)
	return vkHash, nil
}
