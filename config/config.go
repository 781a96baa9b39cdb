package config

import (
	"fmt"
	"time"

	"rollup-l1-sender/common"

	ethCommon "github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator"
)

// Duration is a wrapper type that parses time duration from text.
type Duration struct {
	time.Duration `validate:"required"`
}

// UnmarshalText unmarshalls time duration from text.
func (d *Duration) UnmarshalText(data []byte) error {
	duration, err := time.ParseDuration(string(data))
	if err != nil {
		return common.Wrap(err)
	}
	d.Duration = duration
	return nil
}

// AggregatedTxGasCost is the fixed L1 gas cost of each kind of aggregated
// transaction, added on top of the predicted gas of its batches
type AggregatedTxGasCost struct {
	Commit       uint64 `validate:"required"`
	PublishProof uint64 `validate:"required"`
	Execute      uint64 `validate:"required"`
}

// ForAction returns the base cost for an action type
func (c *AggregatedTxGasCost) ForAction(t common.AggregatedActionType) uint64 {
	switch t {
	case common.ActionCommit:
		return c.Commit
	case common.ActionPublishProofOnchain:
		return c.PublishProof
	default:
		return c.Execute
	}
}

// PostgreSQL is the configuration of the database connections
type PostgreSQL struct {
	// Port of the PostgreSQL write server
	PortWrite int `validate:"required" env:"ROLLUP_PG_PORT_WRITE"`
	// Host of the PostgreSQL write server
	HostWrite string `validate:"required" env:"ROLLUP_PG_HOST_WRITE"`
	// User of the PostgreSQL write server
	UserWrite string `validate:"required" env:"ROLLUP_PG_USER_WRITE"`
	// Password of the PostgreSQL write server
	PasswordWrite string `validate:"required" env:"ROLLUP_PG_PASSWORD_WRITE"`
	// Name of the PostgreSQL write server database
	NameWrite string `validate:"required" env:"ROLLUP_PG_NAME_WRITE"`
	// Port of the PostgreSQL read server
	PortRead int `env:"ROLLUP_PG_PORT_READ"`
	// Host of the PostgreSQL read server.  If empty, the write server is
	// used for reads too.
	HostRead string `env:"ROLLUP_PG_HOST_READ"`
	// User of the PostgreSQL read server
	UserRead string `env:"ROLLUP_PG_USER_READ"`
	// Password of the PostgreSQL read server
	PasswordRead string `env:"ROLLUP_PG_PASSWORD_READ"`
	// Name of the PostgreSQL read server database
	NameRead string `env:"ROLLUP_PG_NAME_READ"`
}

// Contracts are the L1 addresses the aggregator talks to
type Contracts struct {
	// StateTransitionChain is the diamond proxy of the chain, queried for
	// the current contract configuration
	StateTransitionChain ethCommon.Address `validate:"required"`
	// ValidatorTimelock receives the commit, prove and execute txs
	ValidatorTimelock ethCommon.Address `validate:"required"`
	// Multicall3 aggregates the configuration reads in a single call
	Multicall3 ethCommon.Address `validate:"required"`
}

// EthSender is the configuration of the aggregator loop
type EthSender struct {
	// AggregateTxPollPeriod is the sleep between aggregator iterations
	AggregateTxPollPeriod Duration
	// PubdataSendingMode is either Calldata or Blobs
	PubdataSendingMode common.PubdataDA `validate:"required,oneof=Calldata Blobs"`
	// RollupChainID is the L2 chain id, passed to the shared bridge
	// contracts
	RollupChainID uint64 `validate:"required"`
	// OperatorAddress is the default sender of the aggregated txs
	OperatorAddress ethCommon.Address `validate:"required"`
	// CustomCommitSenderAddress, when not zero, sends the commit txs from
	// a second operator with its own nonce sequence
	CustomCommitSenderAddress ethCommon.Address
	// MaxConsecutivePersistFailures is the number of consecutive failed
	// attempts to persist a tx after which the aggregator stops.  0 means
	// retrying forever.
	MaxConsecutivePersistFailures int
	// MaxBatchesPerOperation bounds the number of batches in a single
	// aggregated operation
	MaxBatchesPerOperation int `validate:"required"`
	// ShouldVerifyProofs sends the proofs in the PublishProof txs.  When
	// false an empty proof input is sent.
	ShouldVerifyProofs bool
	GasCost            AggregatedTxGasCost
}

// CustomCommitSender returns the custom commit sender, or nil when commits are
// sent by the operator
func (c *EthSender) CustomCommitSender() *ethCommon.Address {
	if c.CustomCommitSenderAddress == (ethCommon.Address{}) ||
		c.CustomCommitSenderAddress == c.OperatorAddress {
		return nil
	}
	addr := c.CustomCommitSenderAddress
	return &addr
}

// Anchor is the configuration of the mirroring of saved operations to an
// S3 compatible IPFS gateway and a ledger node
type Anchor struct {
	Enabled bool `env:"ROLLUP_ANCHOR_ENABLED"`
	// Endpoint of the S3 compatible gateway
	Endpoint string `env:"ROLLUP_ANCHOR_ENDPOINT"`
	Region   string `env:"ROLLUP_ANCHOR_REGION"`
	// Bucket, AccessKey and SecretKey identify the gateway bucket
	Bucket    string `env:"ROLLUP_ANCHOR_BUCKET_NAME"`
	AccessKey string `env:"ROLLUP_ANCHOR_API_KEY"`
	SecretKey string `env:"ROLLUP_ANCHOR_SECRET_KEY"`
	// LedgerURL is the JSON-RPC endpoint receiving the root references
	LedgerURL string `env:"ROLLUP_ANCHOR_LEDGER_URL"`
	// BatchSize sets the number of operations per root: the queue is
	// flushed every BatchSize*3 references
	BatchSize int `env:"ROLLUP_ANCHOR_BATCH_SIZE"`
	// Timeout of each request to the gateway or the ledger
	Timeout Duration
}

// Node is the configuration of the aggregator node
type Node struct {
	Log struct {
		// Level of logging: debug, info, warn or error
		Level string `validate:"required" env:"ROLLUP_LOG_LEVEL"`
		// Out is the list of log outputs: stdout or file paths
		Out []string `validate:"required"`
	}
	PostgreSQL PostgreSQL `validate:"required"`
	Web3       struct {
		// URL is the URL of the web3 ethereum-node RPC server
		URL string `validate:"required" env:"ROLLUP_WEB3_URL"`
	} `validate:"required"`
	Contracts Contracts `validate:"required"`
	EthSender EthSender `validate:"required"`
	Anchor    Anchor
	API       struct {
		// Address where the debug API listens.  Empty disables it.
		Address      string
		ReadTimeout  Duration
		WriteTimeout Duration
	}
	Debug struct {
		// MeddlerLogs enables meddler debug mode, where unused columns and
		// struct fields will be logged
		MeddlerLogs bool
	}
}

// LoadNode loads the Node configuration from path, with the defaults and the
// environment as described in LoadConfig, and validates it
func LoadNode(path string) (*Node, error) {
	var cfg Node
	if err := LoadConfig(path, DefaultValues, &cfg); err != nil {
		return nil, common.Wrap(err)
	}
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, common.Wrap(fmt.Errorf("error validating configuration file: %w", err))
	}
	if cfg.EthSender.AggregateTxPollPeriod.Duration <= 0 {
		return nil, common.Wrap(fmt.Errorf("EthSender.AggregateTxPollPeriod must be positive"))
	}
	if cfg.Anchor.Enabled {
		if cfg.Anchor.Bucket == "" || cfg.Anchor.LedgerURL == "" || cfg.Anchor.BatchSize <= 0 {
			return nil, common.Wrap(fmt.Errorf(
				"Anchor.Bucket, Anchor.LedgerURL and a positive Anchor.BatchSize are required when anchoring is enabled"))
		}
	}
	return &cfg, nil
}
