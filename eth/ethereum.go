package eth

import (
	"context"
	"math/big"

	"rollup-l1-sender/common"

	"github.com/ethereum/go-ethereum"
	ethCommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// EthereumClient is an ethereum client to call Smart Contract methods and
// check account information.  It never signs: the aggregator only prepares
// calldata for the transactions that are sent later.
type EthereumClient struct {
	client *ethclient.Client
}

// EthereumInterface is the interface to Ethereum
type EthereumInterface interface {
	EthChainID() (*big.Int, error)
	EthPendingNonceAt(ctx context.Context, account ethCommon.Address) (uint64, error)
	EthCallContract(ctx context.Context, to ethCommon.Address, data []byte) ([]byte, error)
}

// NewEthereumClient creates a EthereumClient instance
func NewEthereumClient(client *ethclient.Client) *EthereumClient {
	return &EthereumClient{client: client}
}

// EthChainID returns the ChainID of the ethereum network
func (c *EthereumClient) EthChainID() (*big.Int, error) {
	chainID, err := c.client.ChainID(context.Background())
	if err != nil {
		return nil, common.Wrap(err)
	}
	return chainID, nil
}

// EthPendingNonceAt returns the account nonce of the given account in the pending
// state. This is the nonce that should be used for the next transaction.
func (c *EthereumClient) EthPendingNonceAt(ctx context.Context,
	account ethCommon.Address) (uint64, error) {
	nonce, err := c.client.PendingNonceAt(ctx, account)
	return nonce, common.Wrap(err)
}

// EthCallContract runs a read only call of data against the contract at to in
// the latest block.
func (c *EthereumClient) EthCallContract(ctx context.Context, to ethCommon.Address,
	data []byte) ([]byte, error) {
	msg := ethereum.CallMsg{
		From: callFrom,
		To:   &to,
		Data: data,
	}
	result, err := c.client.CallContract(ctx, msg, nil)
	return result, common.Wrap(err)
}

// callFrom is a non-zero From address for read only calls.  This is a
// workaround for a bug in ethereumjs-vm that shows up in ganache:
// https://github.com/hermeznetwork/hermez-node/issues/317
var callFrom = ethCommon.HexToAddress("0x0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f0f")
