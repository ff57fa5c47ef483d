package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/stretchr/testify/require"
)

func stubPassword(t *testing.T, pass string, err error) {
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(pass), err }
	t.Cleanup(func() { readPassword = orig })
}

func newTestWallet(t *testing.T, pass string, n int) (string, []*wallet.Account) {
	p := filepath.Join(t.TempDir(), "wallet.json")

	w, err := wallet.NewWallet(p)
	require.NoError(t, err)

	accs := make([]*wallet.Account, n)
	for i := range accs {
		accs[i], err = wallet.NewAccount()
		require.NoError(t, err)
		require.NoError(t, accs[i].Encrypt(pass, keys.NEP2ScryptParams()))
		w.AddAccount(accs[i])
	}

	require.NoError(t, w.Save())

	return p, accs
}

func TestLoadAccount(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := loadAccount(accountPrm{}, new(bytes.Buffer))
		require.ErrorIs(t, err, errMissingAccount)
	})

	t.Run("WIF", func(t *testing.T) {
		k, err := keys.NewPrivateKey()
		require.NoError(t, err)

		acc, err := loadAccount(accountPrm{wif: k.WIF()}, new(bytes.Buffer))
		require.NoError(t, err)
		require.Equal(t, k.GetScriptHash(), acc.ScriptHash())

		_, err = loadAccount(accountPrm{wif: "not a WIF"}, new(bytes.Buffer))
		require.Error(t, err)
	})

	t.Run("wallet", func(t *testing.T) {
		p, accs := newTestWallet(t, "pass", 2)

		stubPassword(t, "pass", nil)

		var out bytes.Buffer

		acc, err := loadAccount(accountPrm{walletPath: p}, &out)
		require.NoError(t, err)
		require.Equal(t, accs[0].ScriptHash(), acc.ScriptHash())
		require.NotNil(t, acc.PrivateKey())
		require.Contains(t, out.String(), accs[0].Address)

		acc, err = loadAccount(accountPrm{walletPath: p, address: accs[1].Address}, new(bytes.Buffer))
		require.NoError(t, err)
		require.Equal(t, accs[1].ScriptHash(), acc.ScriptHash())

		k, err := keys.NewPrivateKey()
		require.NoError(t, err)

		_, err = loadAccount(accountPrm{walletPath: p, address: k.Address()}, new(bytes.Buffer))
		require.Error(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		p, _ := newTestWallet(t, "pass", 1)

		stubPassword(t, "wrong", nil)
		_, err := loadAccount(accountPrm{walletPath: p}, new(bytes.Buffer))
		require.Error(t, err)

		expected := errors.New("not a terminal")
		stubPassword(t, "", expected)
		_, err = loadAccount(accountPrm{walletPath: p}, new(bytes.Buffer))
		require.ErrorIs(t, err, expected)
	})

	t.Run("empty wallet", func(t *testing.T) {
		p, _ := newTestWallet(t, "pass", 0)

		_, err := loadAccount(accountPrm{walletPath: p}, new(bytes.Buffer))
		require.Error(t, err)
	})
}
