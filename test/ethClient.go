package test

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"rollup-l1-sender/common"
	"rollup-l1-sender/eth"
	"rollup-l1-sender/log"

	ethCommon "github.com/ethereum/go-ethereum/common"
	"github.com/mitchellh/copystructure"
)

func init() {
	log.Init("debug", []string{"stdout"})
}

// ErrNotSupported is returned by the calls the test Client doesn't model
var ErrNotSupported = fmt.Errorf("not supported by the test client")

// ContractsBlock stores the L1 state read by the aggregator at an ethereum
// block
type ContractsBlock struct {
	Snapshot common.ConfigSnapshot
	// VKHashes are the verification key hashes by verifier address
	VKHashes map[ethCommon.Address]ethCommon.Hash
	// Nonces are the pending nonces by account
	Nonces map[ethCommon.Address]uint64
}

// Block represents a ethereum block
type Block struct {
	Num       int64
	Contracts *ContractsBlock
}

func (b *Block) copy() *Block {
	bCopyRaw, err := copystructure.Copy(b)
	if err != nil {
		panic(err)
	}
	bCopy := bCopyRaw.(*Block)
	return bCopy
}

// Next prepares the successive block.
func (b *Block) Next() *Block {
	blockNext := b.copy()
	blockNext.Num = b.Num + 1
	return blockNext
}

// ClientSetup is used to initialize the contracts of the test Client
type ClientSetup struct {
	Snapshot common.ConfigSnapshot
	VKHash   ethCommon.Hash
	ChainID  *big.Int
}

// NewClientSetupExample returns a ClientSetup example with hardcoded realistic
// values, with post shared bridge contracts.
//
//nolint:gomnd
func NewClientSetupExample() *ClientSetup {
	return &ClientSetup{
		Snapshot: common.ConfigSnapshot{
			BaseSystemContractsHashes: GenBaseSystemContractsHashes(),
			VerifierParams: common.VerifierParams{
				RecursionNodeLevelVKHash:    ethCommon.HexToHash("0x5a3ef282b21e12fe1f4438e5bb158fc5060b160559c5158c6389d62d9fe3d080"),
				RecursionLeafLevelVKHash:    ethCommon.HexToHash("0x400a4b532c6f072c00d1806ef299300d4c104f4ac55bd8698ade78894fcadc0a"),
				RecursionCircuitsSetVKsHash: ethCommon.Hash{},
			},
			VerifierAddress: ethCommon.HexToAddress("0x70F3FBf8a427155185Ec90BED8a3434203de9604"),
			ProtocolVersion: common.ProtocolSemanticVersion{Minor: common.VersionLatest},
		},
		VKHash:  ethCommon.HexToHash("0x1d485be42d712856dfe85b3cf7823f020fa5f83cb41c83f9da307fdc2089beee"),
		ChainID: big.NewInt(270),
	}
}

// Client implements the eth.ClientInterface interface, allowing to manipulate the
// values for testing, working with deterministic results.
type Client struct {
	rw       *sync.RWMutex
	log      bool
	chainID  *big.Int
	blocks   map[int64]*Block
	blockNum int64 // last mined block num
	errs     map[string]error
	calls    map[string]int
}

// NewClient returns a new test Client that implements the eth.ClientInterface
// interface, at block 0.
func NewClient(l bool, setup *ClientSetup) *Client {
	blockCurrent := &Block{
		Num: 0,
		Contracts: &ContractsBlock{
			Snapshot: setup.Snapshot,
			VKHashes: map[ethCommon.Address]ethCommon.Hash{
				setup.Snapshot.VerifierAddress: setup.VKHash,
			},
			Nonces: make(map[ethCommon.Address]uint64),
		},
	}
	blocks := map[int64]*Block{
		0: blockCurrent,
		1: blockCurrent.Next(),
	}
	return &Client{
		rw:      &sync.RWMutex{},
		log:     l,
		chainID: setup.ChainID,
		blocks:  blocks,
		errs:    make(map[string]error),
		calls:   make(map[string]int),
	}
}

var _ eth.ClientInterface = (*Client)(nil)

//
// Mock Control
//

// Debugw calls log.Debugw if c.log is true
func (c *Client) Debugw(template string, kv ...interface{}) {
	if c.log {
		log.Debugw(template, kv...)
	}
}

func (c *Client) nextBlock() *Block {
	return c.blocks[c.blockNum+1]
}

func (c *Client) currentBlock() *Block {
	return c.blocks[c.blockNum]
}

// CtlMineBlock moves one block forward, making the changes done to the next
// block visible
func (c *Client) CtlMineBlock() {
	c.rw.Lock()
	defer c.rw.Unlock()

	blockCurrent := c.nextBlock()
	c.blockNum++
	c.blocks[c.blockNum+1] = blockCurrent.Next()
	c.Debugw("TestClient mined block", "blockNum", c.blockNum)
}

// CtlSetProtocolVersion sets the protocol version of the contracts in the
// next block
func (c *Client) CtlSetProtocolVersion(version common.ProtocolSemanticVersion) {
	c.rw.Lock()
	defer c.rw.Unlock()
	c.nextBlock().Contracts.Snapshot.ProtocolVersion = version
}

// CtlSetBaseSystemContractsHashes sets the system contracts hashes in the
// next block
func (c *Client) CtlSetBaseSystemContractsHashes(hashes common.BaseSystemContractsHashes) {
	c.rw.Lock()
	defer c.rw.Unlock()
	c.nextBlock().Contracts.Snapshot.BaseSystemContractsHashes = hashes
}

// CtlSetPendingNonce sets the pending nonce of account in the next block
func (c *Client) CtlSetPendingNonce(account ethCommon.Address, nonce uint64) {
	c.rw.Lock()
	defer c.rw.Unlock()
	c.nextBlock().Contracts.Nonces[account] = nonce
}

// CtlSetErr makes every following call to method fail with err.  A nil err
// restores the method.
func (c *Client) CtlSetErr(method string, err error) {
	c.rw.Lock()
	defer c.rw.Unlock()
	if err == nil {
		delete(c.errs, method)
		return
	}
	c.errs[method] = err
}

// CtlCalls returns the number of calls done to method
func (c *Client) CtlCalls(method string) int {
	c.rw.RLock()
	defer c.rw.RUnlock()
	return c.calls[method]
}

// call registers a call to method and returns its configured error
func (c *Client) call(method string) error {
	c.calls[method]++
	return c.errs[method]
}

//
// Ethereum
//

// EthChainID returns the ChainID of the ethereum network
func (c *Client) EthChainID() (*big.Int, error) {
	c.rw.Lock()
	defer c.rw.Unlock()
	if err := c.call("EthChainID"); err != nil {
		return nil, common.Wrap(err)
	}
	return new(big.Int).Set(c.chainID), nil
}

// EthPendingNonceAt returns the pending nonce of account
func (c *Client) EthPendingNonceAt(ctx context.Context, account ethCommon.Address) (uint64, error) {
	c.rw.Lock()
	defer c.rw.Unlock()
	if err := c.call("EthPendingNonceAt"); err != nil {
		return 0, common.Wrap(err)
	}
	return c.currentBlock().Contracts.Nonces[account], nil
}

// EthCallContract is not supported: the test client answers the rollup
// calls directly
func (c *Client) EthCallContract(ctx context.Context, to ethCommon.Address,
	data []byte) ([]byte, error) {
	return nil, common.Wrap(ErrNotSupported)
}

//
// Rollup
//

// RollupMulticallData returns the contracts configuration at the last block
func (c *Client) RollupMulticallData(ctx context.Context) (*common.ConfigSnapshot, error) {
	c.rw.Lock()
	defer c.rw.Unlock()
	if err := c.call("RollupMulticallData"); err != nil {
		return nil, common.Wrap(err)
	}
	snapshot := c.currentBlock().Contracts.Snapshot
	return &snapshot, nil
}

// RollupVerifierVKHash returns the key hash of the verifier at the last block
func (c *Client) RollupVerifierVKHash(ctx context.Context,
	verifier ethCommon.Address) (ethCommon.Hash, error) {
	c.rw.Lock()
	defer c.rw.Unlock()
	if err := c.call("RollupVerifierVKHash"); err != nil {
		return ethCommon.Hash{}, common.Wrap(err)
	}
	vkHash, ok := c.currentBlock().Contracts.VKHashes[verifier]
	if !ok {
		return ethCommon.Hash{}, common.Wrap(fmt.Errorf("no verifier at %v", verifier))
	}
	return vkHash, nil
}
