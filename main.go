package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"rollup-l1-sender/common"
	"rollup-l1-sender/config"
	dbUtils "rollup-l1-sender/database"
	"rollup-l1-sender/log"
	"rollup-l1-sender/node"

	"github.com/joho/godotenv"
	"github.com/urfave/cli"
)

const (
	flagCfg     = "cfg"
	flagEnv     = "env"
	flagYes     = "yes"
	nMigrations = "nMigrations"
)

var (
	// Version represents the program based on the git tag
	Version = "v0.1.0"
)

func loadConfig(c *cli.Context) (*config.Node, error) {
	if envPath := c.GlobalString(flagEnv); envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return nil, common.Wrap(fmt.Errorf("loading env file %v: %w", envPath, err))
		}
	}
	cfg, err := config.LoadNode(c.GlobalString(flagCfg))
	if err != nil {
		if err := cli.ShowAppHelp(c); err != nil {
			panic(err)
		}
		return nil, common.Wrap(err)
	}
	log.Init(cfg.Log.Level, cfg.Log.Out)
	return cfg, nil
}

func cmdWipeDBs(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return common.Wrap(fmt.Errorf("error parsing flags and config: %w", err))
	}
	if !c.Bool(flagYes) {
		return common.Wrap(fmt.Errorf("refusing to wipe the DB of %v@%v without --%v",
			cfg.PostgreSQL.NameWrite, cfg.PostgreSQL.HostWrite, flagYes))
	}
	db, err := dbUtils.ConnectSQLDB(
		cfg.PostgreSQL.PortWrite,
		cfg.PostgreSQL.HostWrite,
		cfg.PostgreSQL.UserWrite,
		cfg.PostgreSQL.PasswordWrite,
		cfg.PostgreSQL.NameWrite,
	)
	if err != nil {
		return common.Wrap(err)
	}
	defer db.Close() //nolint:errcheck
	log.Info("Wiping SQL DB...")
	if err := dbUtils.MigrationsDown(db.DB, c.Uint(nMigrations)); err != nil {
		return common.Wrap(fmt.Errorf("dbUtils.MigrationsDown: %w", err))
	}
	return nil
}

func waitSigInt(done <-chan struct{}) {
	// catch ^C to send the stop signal
	ossig := make(chan os.Signal, 1)
	signal.Notify(ossig, os.Interrupt, syscall.SIGTERM)
	stopCh := make(chan interface{}, 1)
	const forceStopCount = 3
	go func() {
		n := 0
		for sig := range ossig {
			log.Infow("Received signal", "signal", sig)
			n++
			if n == 1 {
				stopCh <- nil
			}
			if n == forceStopCount {
				log.Fatalf("Received %v Interrupt Signals", forceStopCount)
			}
		}
	}()
	select {
	case <-stopCh:
	case <-done:
	}
}

func cmdRun(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return common.Wrap(fmt.Errorf("error parsing flags and config: %w", err))
	}
	innerNode, err := node.NewNode(cfg, c.App.Version)
	if err != nil {
		return common.Wrap(fmt.Errorf("error starting node: %w", err))
	}
	innerNode.Start()
	waitSigInt(innerNode.Done())
	if err := innerNode.Stop(); err != nil {
		log.Fatalw("Node stopped with a non recoverable error", "err", err)
	}
	return nil
}

func main() {
	app := cli.NewApp()
	app.Name = "rollup-l1-sender"
	app.Usage = "builds and stores the commit, prove and execute L1 txs of the rollup batches"
	app.Version = Version
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  flagCfg,
			Usage: "Node configuration `FILE`",
		},
		&cli.StringFlag{
			Name:  flagEnv,
			Usage: "Load environment variables from `FILE` before reading the configuration",
		},
	}

	app.Commands = []cli.Command{
		{
			Name:    "run",
			Aliases: []string{},
			Usage:   "Run the aggregator",
			Action:  cmdRun,
		},
		{
			Name:    "wipedbs",
			Aliases: []string{},
			Usage:   "Revert the SQL migrations, removing every stored batch and tx",
			Action:  cmdWipeDBs,
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  flagYes,
					Usage: "automatic yes to the prompt",
				},
				&cli.UintFlag{
					Name:  nMigrations,
					Usage: "number of migrations to revert, 0 reverts all of them",
				},
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		fmt.Printf("\nError: %v\n", common.Wrap(err))
		os.Exit(1)
	}
}
