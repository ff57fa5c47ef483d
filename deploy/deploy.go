package deploy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	vaultrpc "github.com/nspcc-dev/neo-vault/rpc/vault"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for Vault deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// Prm groups all parameters of the Vault deployment procedure.
type Prm struct {
	// Writes progress into the log. Optional: nop logger is used if nil.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy the contract to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	// Contract address depends on this account.
	LocalAccount *wallet.Account

	Contract CommonDeployPrm

	// Address of the NEP-17 token the Vault will hold.
	Token util.Uint160
}

var (
	errMissingToken  = errors.New("missing token address")
	errTokenMismatch = errors.New("deployed contract serves another token")
)

// Deploy deploys the Vault contract to the blockchain and returns its address.
//
// Contract address is fully determined by the sender account, NEF checksum and
// contract name, so Deploy is idempotent: if the contract is already on the
// chain, it is only checked to be bound to Prm.Token.
func Deploy(ctx context.Context, prm Prm) (util.Uint160, error) {
	log := prm.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if prm.Token.Equals(util.Uint160{}) {
		return util.Uint160{}, errMissingToken
	}

	addr := state.CreateContractHash(prm.LocalAccount.ScriptHash(), prm.Contract.NEF.Checksum, prm.Contract.Manifest.Name)
	log = log.With(zap.Stringer("address", addr))

	_, err := prm.Blockchain.GetContractStateByHash(addr)
	if err == nil {
		log.Info("Vault contract is already deployed, checking token...")

		token, err := vaultrpc.NewReader(invoker.New(prm.Blockchain, nil), addr).Token()
		if err != nil {
			return addr, fmt.Errorf("read token of the deployed contract: %w", err)
		}

		if !token.Equals(prm.Token) {
			return addr, fmt.Errorf("%w: %s instead of %s", errTokenMismatch, token.StringLE(), prm.Token.StringLE())
		}

		log.Info("Vault contract is up to date", zap.Stringer("token", token))
		return addr, nil
	} else if !isErrContractNotFound(err) {
		return addr, fmt.Errorf("get state of the contract by address %s: %w", addr, err)
	}

	if err = ctx.Err(); err != nil {
		return addr, err
	}

	act, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return addr, fmt.Errorf("init transaction sender from single local account: %w", err)
	}

	log.Info("Vault contract is missing on the chain, deploying...", zap.Stringer("token", prm.Token))

	txHash, vub, err := management.New(act).Deploy(&prm.Contract.NEF, &prm.Contract.Manifest, []any{prm.Token})
	res, err := act.Wait(txHash, vub, err)
	if err != nil {
		return addr, fmt.Errorf("send contract deployment transaction: %w", err)
	}

	if res.VMState != vmstate.Halt {
		return addr, fmt.Errorf("contract deployment transaction %s failed: %s", txHash.StringLE(), res.FaultException)
	}

	log.Info("Vault contract successfully deployed", zap.Stringer("tx", txHash))

	return addr, nil
}

func isErrContractNotFound(err error) bool {
	return strings.Contains(err.Error(), "Unknown contract")
}
