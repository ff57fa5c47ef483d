package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-vault/common"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := newApp(ctx).Run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(ctx context.Context) *cli.App {
	app := cli.NewApp()
	app.Name = "vaultctl"
	app.Usage = "Manage the Vault contract deployed to Neo network"
	app.Version = fmt.Sprintf("contract v%d.%d.%d", common.Version/1_000_000, common.Version/1_000%1_000, common.Version%1_000)
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "rpc, r",
			Usage:  "Network address of the Neo RPC server",
			EnvVar: "VAULT_RPC",
		},
		cli.DurationFlag{
			Name:  "timeout, t",
			Usage: "Timeout of the RPC connection and requests",
			Value: 15 * time.Second,
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "deploy",
			Usage:  "Deploy compiled Vault contract bound to the given token",
			Flags:  append(accountFlags(), deployFlags...),
			Action: withSession(ctx, deployCmd),
		},
		{
			Name:   "deposit",
			Usage:  "Move tokens from the account to the vault",
			Flags:  append(accountFlags(), vaultFlag, amountFlag),
			Action: withSession(ctx, depositCmd),
		},
		{
			Name:   "withdraw",
			Usage:  "Move tokens from the vault back to the account",
			Flags:  append(accountFlags(), vaultFlag, amountFlag),
			Action: withSession(ctx, withdrawCmd),
		},
		{
			Name:   "max",
			Usage:  "Print two accounts with the largest balances",
			Flags:  []cli.Flag{vaultFlag},
			Action: withSession(ctx, maxCmd),
		},
		{
			Name:  "info",
			Usage: "Print vault summary or the ledger record at the given position",
			Flags: []cli.Flag{vaultFlag, cli.Int64Flag{
				Name:  "index, i",
				Usage: "0-based position of the ledger record to print",
				Value: -1,
			}},
			Action: withSession(ctx, infoCmd),
		},
		{
			Name:  "balance",
			Usage: "Print ledger index and balance of the account",
			Flags: []cli.Flag{vaultFlag, cli.StringFlag{
				Name:  "account",
				Usage: "Neo address or script hash of the account",
			}},
			Action: withSession(ctx, balanceCmd),
		},
		{
			Name:   "dump",
			Usage:  "Dump vault state and storage to the local directory and check the ledger",
			Flags:  dumpFlags,
			Action: withSession(ctx, dumpCmd),
		},
		{
			Name:   "check-dump",
			Usage:  "Check vault ledgers of the local dumps",
			Flags:  checkDumpFlags,
			Action: withLocalSession(ctx, checkDumpCmd),
		},
	}

	return app
}

// session groups resources of the single command execution. chain is nil for
// commands working with local data only.
type session struct {
	ctx   context.Context
	log   *zap.Logger
	chain *remoteBlockchain
}

// withSession wraps command handler: it initializes logger tagged with the
// unique request ID and dials the RPC server.
func withSession(ctx context.Context, f func(*session, *cli.Context) error) func(*cli.Context) error {
	return withLocalSession(ctx, func(s *session, c *cli.Context) error {
		chain, err := newRemoteBlockChain(ctx, c.GlobalString("rpc"), c.GlobalDuration("timeout"))
		if err != nil {
			return fmt.Errorf("init remote blockchain: %w", err)
		}
		defer chain.close()

		s.log.Debug("connected to the RPC server", zap.String("endpoint", c.GlobalString("rpc")))

		s.chain = chain

		return f(s, c)
	})
}

// withLocalSession is withSession without the RPC connection.
func withLocalSession(ctx context.Context, f func(*session, *cli.Context) error) func(*cli.Context) error {
	return func(c *cli.Context) error {
		log, err := newLogger(c.GlobalBool("debug"))
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer func() { _ = log.Sync() }()

		log = log.With(zap.String("command", c.Command.Name), zap.Stringer("request", uuid.New()))

		err = f(&session{ctx: ctx, log: log}, c)
		if err != nil {
			log.Error("command failed", zap.Error(err))
		}

		return err
	}
}
