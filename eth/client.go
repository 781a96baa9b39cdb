package eth

import (
	"rollup-l1-sender/common"

	ethCommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ClientInterface is the eth Client interface used by the aggregator to
// interact with Ethereum Blockchain and smart contracts.
type ClientInterface interface {
	EthereumInterface
	RollupInterface
}

// RollupConfig is the configuration for the state transition contract
// interface
type RollupConfig struct {
	Address    ethCommon.Address
	Multicall3 ethCommon.Address
}

// Client is used to interact with Ethereum and the rollup smart contracts.
type Client struct {
	EthereumClient
	RollupClient
}

// ClientConfig is the configuration of the Client
type ClientConfig struct {
	Rollup RollupConfig
}

// NewClient creates a new Client to interact with Ethereum and the rollup
// smart contracts.
func NewClient(client *ethclient.Client, cfg *ClientConfig) (*Client, error) {
	ethereumClient := NewEthereumClient(client)
	rollupClient, err := NewRollupClient(ethereumClient, cfg.Rollup)
	if err != nil {
		return nil, common.Wrap(err)
	}
	return &Client{
		EthereumClient: *ethereumClient,
		RollupClient:   *rollupClient,
	}, nil
}
