package main

import (
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-vault/contracts"
	"github.com/nspcc-dev/neo-vault/deploy"
	"github.com/nspcc-dev/neo-vault/internal/dump"
	vaultrpc "github.com/nspcc-dev/neo-vault/rpc/vault"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

var (
	vaultFlag = cli.StringFlag{
		Name:   "vault",
		Usage:  "Address of the Vault contract",
		EnvVar: "VAULT_CONTRACT",
	}
	amountFlag = cli.StringFlag{
		Name:  "amount",
		Usage: "Number of token base units",
	}
	deployFlags = []cli.Flag{
		cli.StringFlag{
			Name:  "contracts",
			Usage: "Directory with compiled contracts",
			Value: "contracts",
		},
		cli.StringFlag{
			Name:  "token",
			Usage: "Address of the NEP-17 token to hold",
		},
	}
	dumpFlags = []cli.Flag{
		vaultFlag,
		cli.StringFlag{
			Name:  "label",
			Usage: "Label of the blockchain environment (e.g. 'testnet')",
		},
		cli.StringFlag{
			Name:  "out",
			Usage: "Directory to put the dump to",
			Value: "testdata",
		},
	}
	checkDumpFlags = []cli.Flag{
		cli.StringFlag{
			Name:  "dir",
			Usage: "Directory with dumps",
			Value: "testdata",
		},
		cli.StringFlag{
			Name:  "label",
			Usage: "Check only dumps of the given blockchain environment",
		},
	}
)

func accountFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:   "wif",
			Usage:  "WIF-encoded private key of the account",
			EnvVar: "VAULT_WIF",
		},
		cli.StringFlag{
			Name:  "wallet, w",
			Usage: "Path to NEP-6 wallet file",
		},
		cli.StringFlag{
			Name:  "address, a",
			Usage: "Address of the wallet account (first account by default)",
		},
	}
}

func accountFromFlags(c *cli.Context) accountPrm {
	return accountPrm{
		wif:        c.String("wif"),
		walletPath: c.String("wallet"),
		address:    c.String("address"),
	}
}

func vaultFromFlags(c *cli.Context) (util.Uint160, error) {
	h, err := parseHash(c.String("vault"))
	if err != nil {
		return h, fmt.Errorf("invalid vault address: %w", err)
	}
	return h, nil
}

func deployCmd(s *session, c *cli.Context) error {
	token, err := parseHash(c.String("token"))
	if err != nil {
		return fmt.Errorf("invalid token address: %w", err)
	}

	ctr, err := contracts.GetVault(c.String("contracts"))
	if err != nil {
		return err
	}

	acc, err := loadAccount(accountFromFlags(c), os.Stderr)
	if err != nil {
		return err
	}

	addr, err := deploy.Deploy(s.ctx, deploy.Prm{
		Logger:       s.log,
		Blockchain:   s.chain.rpc,
		LocalAccount: acc,
		Contract: deploy.CommonDeployPrm{
			NEF:      ctr.NEF,
			Manifest: ctr.Manifest,
		},
		Token: token,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, addr.StringLE())
	return nil
}

// transferCmd groups arguments of deposit and withdraw.
type transferCmd struct {
	vault  *vaultrpc.Contract
	log    *zap.Logger
	acc    util.Uint160
	amount *big.Int
}

func prepareTransfer(s *session, c *cli.Context) (*transferCmd, func(util.Uint256, uint32, error) error, error) {
	vault, err := vaultFromFlags(c)
	if err != nil {
		return nil, nil, err
	}

	amount, err := parseAmount(c.String("amount"))
	if err != nil {
		return nil, nil, err
	}

	token, err := vaultrpc.NewReader(s.chain.invoker(), vault).Token()
	if err != nil {
		return nil, nil, fmt.Errorf("read vault token: %w", err)
	}

	acc, err := loadAccount(accountFromFlags(c), os.Stderr)
	if err != nil {
		return nil, nil, err
	}

	act, err := s.chain.actor(acc, vault, token)
	if err != nil {
		return nil, nil, err
	}

	log := s.log.With(zap.String("account", acc.Address), zap.Stringer("amount", amount))

	res := &transferCmd{
		vault:  vaultrpc.New(act, vault),
		log:    log,
		acc:    acc.ScriptHash(),
		amount: amount,
	}

	wait := func(h util.Uint256, vub uint32, err error) error {
		appLog, err := waitTx(act, h, vub, err)
		if err != nil {
			return err
		}

		deposits, err := vaultrpc.DepositedEventsFromApplicationLog(appLog)
		if err != nil {
			return err
		}
		for _, e := range deposits {
			log.Info("deposited", zap.String("from", address.Uint160ToString(e.From)), zap.Stringer("amount", e.Amount))
		}

		withdrawals, err := vaultrpc.WithdrawnEventsFromApplicationLog(appLog)
		if err != nil {
			return err
		}
		for _, e := range withdrawals {
			log.Info("withdrawn", zap.String("to", address.Uint160ToString(e.To)), zap.Stringer("amount", e.Amount))
		}

		log.Info("transaction accepted", zap.Stringer("tx", h))
		return nil
	}

	return res, wait, nil
}

func depositCmd(s *session, c *cli.Context) error {
	t, wait, err := prepareTransfer(s, c)
	if err != nil {
		return err
	}

	t.log.Info("depositing...")
	return wait(t.vault.Deposit(t.acc, t.amount))
}

func withdrawCmd(s *session, c *cli.Context) error {
	t, wait, err := prepareTransfer(s, c)
	if err != nil {
		return err
	}

	t.log.Info("withdrawing...")
	return wait(t.vault.Withdraw(t.acc, t.amount))
}

func maxCmd(s *session, c *cli.Context) error {
	vault, err := vaultFromFlags(c)
	if err != nil {
		return err
	}

	top, err := vaultrpc.NewReader(s.chain.invoker(), vault).Max()
	if err != nil {
		return fmt.Errorf("call max: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "first:  %s\nsecond: %s\n", formatAccount(top.First), formatAccount(top.Second))
	return nil
}

func infoCmd(s *session, c *cli.Context) error {
	vault, err := vaultFromFlags(c)
	if err != nil {
		return err
	}

	r := vaultrpc.NewReader(s.chain.invoker(), vault)

	if index := c.Int64("index"); index >= 0 {
		rec, err := r.UserInfo(big.NewInt(index))
		if err != nil {
			return fmt.Errorf("call userInfo: %w", err)
		}

		fmt.Fprintf(c.App.Writer, "wallet: %s\namount: %s\n", formatAccount(rec.Wallet), rec.Amount)
		return nil
	}

	token, err := r.Token()
	if err != nil {
		return fmt.Errorf("call token: %w", err)
	}

	count, err := r.UserCount()
	if err != nil {
		return fmt.Errorf("call userCount: %w", err)
	}

	total, err := r.TotalDeposited()
	if err != nil {
		return fmt.Errorf("call totalDeposited: %w", err)
	}

	version, err := r.Version()
	if err != nil {
		return fmt.Errorf("call version: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "token:   %s\nrecords: %s\ntotal:   %s\nversion: %s\n",
		token.StringLE(), count, total, version)
	return nil
}

func balanceCmd(s *session, c *cli.Context) error {
	vault, err := vaultFromFlags(c)
	if err != nil {
		return err
	}

	acc, err := parseHash(c.String("account"))
	if err != nil {
		return fmt.Errorf("invalid account: %w", err)
	}

	r := vaultrpc.NewReader(s.chain.invoker(), vault)

	index, err := r.UserIndex(acc)
	if err != nil {
		return fmt.Errorf("call userIndex: %w", err)
	}

	balance, err := r.BalanceOf(acc)
	if err != nil {
		return fmt.Errorf("call balanceOf: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "index:   %s\nbalance: %s\n", index, balance)
	return nil
}

func dumpCmd(s *session, c *cli.Context) error {
	vault, err := vaultFromFlags(c)
	if err != nil {
		return err
	}

	label := c.String("label")
	if label == "" {
		return errors.New("missing blockchain label")
	}

	rootDir := c.String("out")

	err = os.MkdirAll(rootDir, 0o700)
	if err != nil {
		return fmt.Errorf("create root dir: %w", err)
	}

	vaultState, err := s.chain.contractState(vault)
	if err != nil {
		return err
	}

	snap := &dump.Snapshot{Vault: vaultState}

	snap.ID.Label = label
	snap.ID.Block, err = s.chain.iterateContractStorage(vault, func(key, value []byte) error {
		snap.Storage = append(snap.Storage, dump.StorageItem{Key: key, Value: value})
		return nil
	})
	if err != nil {
		return fmt.Errorf("iterate vault contract storage: %w", err)
	}

	ledger, err := snap.Ledger()
	if err != nil {
		return fmt.Errorf("decode vault storage: %w", err)
	}

	if !ledger.Token.Equals(util.Uint160{}) {
		tokenState, err := s.chain.contractState(ledger.Token)
		if err != nil {
			return err
		}

		snap.Token = &tokenState
	}

	_, err = dump.Save(rootDir, snap)
	if err != nil {
		return fmt.Errorf("save dump: %w", err)
	}

	log := s.log.With(zap.Stringer("dump", snap.ID), zap.Int64("records", ledger.Count), zap.Stringer("total", ledger.Total))

	err = ledger.Check()
	if err != nil {
		log.Warn("vault ledger is inconsistent", zap.Error(err))
		return err
	}

	log.Info("vault contract is successfully dumped", zap.String("dir", rootDir))
	return nil
}

var errInconsistentDumps = errors.New("inconsistent dumps found")

// checkDumpCmd restores vault ledgers of all dumps in the directory and
// checks them. Every dump is reported, the command fails if at least one of
// them is broken.
func checkDumpCmd(s *session, c *cli.Context) error {
	dir := c.String("dir")

	ids, err := dump.List(dir)
	if err != nil {
		return err
	}

	var checked, failed int

	for _, id := range ids {
		if label := c.String("label"); label != "" && id.Label != label {
			continue
		}

		checked++

		ledger, err := checkDump(dir, id)
		if err != nil {
			failed++
			s.log.Warn("broken dump", zap.Stringer("dump", id), zap.Error(err))
			fmt.Fprintf(c.App.Writer, "%s: FAIL: %v\n", id, err)
			continue
		}

		fmt.Fprintf(c.App.Writer, "%s: OK, %d records, total %s, token %s\n",
			id, ledger.Count, ledger.Total, formatAccount(ledger.Token))
		if ledger.Pending {
			fmt.Fprintf(c.App.Writer, "%s: taken inside of unfinished deposit\n", id)
		}
	}

	s.log.Info("dumps checked", zap.String("dir", dir), zap.Int("checked", checked), zap.Int("failed", failed))

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errInconsistentDumps, failed, checked)
	}

	return nil
}

func checkDump(dir string, id dump.ID) (*dump.Ledger, error) {
	snap, err := dump.Load(dir, id)
	if err != nil {
		return nil, err
	}

	ledger, err := snap.Ledger()
	if err != nil {
		return nil, err
	}

	return ledger, ledger.Check()
}
