/*
Package node does the initialization of all the required objects to run the
aggregator.

The Node owns the DB connections, the L1 client and the Coordinator.  The
Coordinator loop and the optional HTTP API run in goroutines of an errgroup:
when the Coordinator stops with a non recoverable error the whole group is
cancelled and the error is returned by Wait.
*/
package node

import (
	"context"
	"fmt"
	"net/http"

	"rollup-l1-sender/anchor"
	"rollup-l1-sender/blobs"
	"rollup-l1-sender/common"
	"rollup-l1-sender/config"
	"rollup-l1-sender/coordinator"
	dbUtils "rollup-l1-sender/database"
	"rollup-l1-sender/database/historydb"
	"rollup-l1-sender/eth"
	"rollup-l1-sender/log"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/jmoiron/sqlx"
	"github.com/russross/meddler"
	"golang.org/x/sync/errgroup"
)

// Node is the aggregator node
type Node struct {
	nodeAPI *NodeAPI
	coord   *coordinator.Coordinator

	// General
	cfg          *config.Node
	version      string
	sqlConnRead  *sqlx.DB
	sqlConnWrite *sqlx.DB
	ethClient    *ethclient.Client
	ctx          context.Context
	cancel       context.CancelFunc
	group        *errgroup.Group
}

func initSQLDBs(cfg *config.PostgreSQL) (dbRead, dbWrite *sqlx.DB, err error) {
	dbWrite, err = dbUtils.InitSQLDB(
		cfg.PortWrite,
		cfg.HostWrite,
		cfg.UserWrite,
		cfg.PasswordWrite,
		cfg.NameWrite,
	)
	if err != nil {
		return nil, nil, common.Wrap(fmt.Errorf("dbUtils.InitSQLDB: %w", err))
	}
	if cfg.HostRead == "" {
		return dbWrite, dbWrite, nil
	} else if cfg.HostRead == cfg.HostWrite {
		return nil, nil, common.Wrap(fmt.Errorf(
			"PostgreSQL.HostRead and PostgreSQL.HostWrite must be different",
		))
	}
	dbRead, err = dbUtils.InitSQLDB(
		cfg.PortRead,
		cfg.HostRead,
		cfg.UserRead,
		cfg.PasswordRead,
		cfg.NameRead,
	)
	if err != nil {
		return nil, nil, common.Wrap(fmt.Errorf("dbUtils.InitSQLDB: %w", err))
	}
	return dbRead, dbWrite, nil
}

// NewNode creates a Node
func NewNode(cfg *config.Node, version string) (*Node, error) {
	meddler.Debug = cfg.Debug.MeddlerLogs
	// Stablish DB connection
	dbRead, dbWrite, err := initSQLDBs(&cfg.PostgreSQL)
	if err != nil {
		return nil, common.Wrap(err)
	}
	historyDB := historydb.NewHistoryDB(dbRead, dbWrite)

	ethClient, err := ethclient.Dial(cfg.Web3.URL)
	if err != nil {
		return nil, common.Wrap(err)
	}
	client, err := eth.NewClient(ethClient, &eth.ClientConfig{
		Rollup: eth.RollupConfig{
			Address:    cfg.Contracts.StateTransitionChain,
			Multicall3: cfg.Contracts.Multicall3,
		},
	})
	if err != nil {
		return nil, common.Wrap(err)
	}

	chainID, err := client.EthChainID()
	if err != nil {
		return nil, common.Wrap(err)
	}
	log.Infow("Connected to L1", "chainID", chainID, "url", cfg.Web3.URL)

	encoder, err := coordinator.NewEncoder(cfg.EthSender.RollupChainID, blobs.KZGCommitter{})
	if err != nil {
		return nil, common.Wrap(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	txManager, err := coordinator.NewTxManager(ctx, coordinator.TxManagerConfig{
		OperatorAddress:    cfg.EthSender.OperatorAddress,
		CustomCommitSender: cfg.EthSender.CustomCommitSender(),
		ValidatorTimelock:  cfg.Contracts.ValidatorTimelock,
		BaseGasCost:        cfg.EthSender.GasCost.ForAction,
	}, client, historyDB)
	if err != nil {
		cancel()
		return nil, common.Wrap(err)
	}

	source := historydb.NewReadyOperation(historyDB, historydb.ReadyOperationConfig{
		MaxBatchesPerOperation: cfg.EthSender.MaxBatchesPerOperation,
		PubdataDA:              cfg.EthSender.PubdataSendingMode,
		ShouldVerifyProofs:     cfg.EthSender.ShouldVerifyProofs,
	})

	var anchorer coordinator.Anchorer
	if cfg.Anchor.Enabled {
		log.Infow("Anchoring enabled", "endpoint", cfg.Anchor.Endpoint,
			"bucket", cfg.Anchor.Bucket, "ledger", cfg.Anchor.LedgerURL)
		anchorer = anchor.NewAnchorer(
			anchor.NewS3Publisher(&cfg.Anchor),
			anchor.NewLedgerClient(cfg.Anchor.LedgerURL, cfg.Anchor.Timeout.Duration),
			cfg.Anchor.BatchSize,
		)
	} else {
		log.Info("Anchoring not configured")
	}

	coord := coordinator.NewCoordinator(
		coordinator.Config{
			PollPeriod:                    cfg.EthSender.AggregateTxPollPeriod.Duration,
			MaxConsecutivePersistFailures: cfg.EthSender.MaxConsecutivePersistFailures,
		},
		client,
		source,
		encoder,
		txManager,
		anchorer,
	)

	var nodeAPI *NodeAPI
	if cfg.API.Address != "" {
		nodeAPI = NewNodeAPI(cfg.API.Address, cfg.API.ReadTimeout.Duration,
			cfg.API.WriteTimeout.Duration, version, coord)
	}

	return &Node{
		nodeAPI:      nodeAPI,
		coord:        coord,
		cfg:          cfg,
		version:      version,
		sqlConnRead:  dbRead,
		sqlConnWrite: dbWrite,
		ethClient:    ethClient,
		ctx:          ctx,
		cancel:       cancel,
	}, nil
}

// Start the node.  A non recoverable error of the Coordinator stops every
// component; it is returned by Wait.
func (n *Node) Start() {
	log.Infow("Starting node...", "version", n.version)
	group, ctx := errgroup.WithContext(n.ctx)
	n.group = group
	group.Go(func() error {
		if err := n.coord.Run(ctx); err != nil {
			return common.Wrap(fmt.Errorf("coordinator: %w", err))
		}
		return nil
	})
	if n.nodeAPI != nil {
		group.Go(func() error {
			if err := n.nodeAPI.Run(ctx); err != nil && err != http.ErrServerClosed {
				return common.Wrap(fmt.Errorf("api: %w", err))
			}
			return nil
		})
	}
}

// Done is closed when the node components have stopped, either by Stop or
// by an error
func (n *Node) Done() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		_ = n.Wait()
		close(done)
	}()
	return done
}

// Wait blocks until every component has stopped and returns the first error
func (n *Node) Wait() error {
	if n.group == nil {
		return nil
	}
	return n.group.Wait()
}

// Stop the node
func (n *Node) Stop() error {
	log.Infow("Stopping node...")
	n.cancel()
	err := n.Wait()
	n.ethClient.Close()
	if n.sqlConnRead != n.sqlConnWrite {
		if err := n.sqlConnRead.Close(); err != nil {
			log.Errorw("Closing read DB", "err", err)
		}
	}
	if err := n.sqlConnWrite.Close(); err != nil {
		log.Errorw("Closing write DB", "err", err)
	}
	return err
}
