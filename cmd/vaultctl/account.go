package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"golang.org/x/term"
)

// readPassword reads the password from the terminal without echo. Tests
// replace it to avoid touching the terminal.
var readPassword = term.ReadPassword

// accountPrm groups ways to specify the signing account.
type accountPrm struct {
	// WIF-encoded private key. Takes precedence over the wallet.
	wif string

	// Path to NEP-6 wallet file and optional address of the account in it.
	// The first wallet account is used if the address is empty.
	walletPath string
	address    string
}

var errMissingAccount = errors.New("either WIF or wallet must be specified")

// loadAccount returns unlocked account described by prm. Password of the
// wallet account is asked via w.
func loadAccount(prm accountPrm, w io.Writer) (*wallet.Account, error) {
	if prm.wif != "" {
		acc, err := wallet.NewAccountFromWIF(prm.wif)
		if err != nil {
			return nil, fmt.Errorf("decode WIF: %w", err)
		}
		return acc, nil
	}

	if prm.walletPath == "" {
		return nil, errMissingAccount
	}

	wlt, err := wallet.NewWalletFromFile(prm.walletPath)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}

	if len(wlt.Accounts) == 0 {
		return nil, fmt.Errorf("wallet %s has no accounts", prm.walletPath)
	}

	acc := wlt.Accounts[0]
	if prm.address != "" {
		h, err := address.StringToUint160(prm.address)
		if err != nil {
			return nil, fmt.Errorf("decode account address: %w", err)
		}

		acc = wlt.GetAccount(h)
		if acc == nil {
			return nil, fmt.Errorf("account %s is missing in the wallet", prm.address)
		}
	}

	if _, err = fmt.Fprintf(w, "Enter password for %s: ", acc.Address); err != nil {
		return nil, err
	}

	pass, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}

	err = acc.Decrypt(string(pass), wlt.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypt account %s: %w", acc.Address, err)
	}

	return acc, nil
}
