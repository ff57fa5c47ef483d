package dump

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func testContractState(id int32, h util.Uint160, name string) state.Contract {
	var res state.Contract
	res.ID = id
	res.Hash = h
	res.Manifest = *manifest.NewManifest(name)
	return res
}

func testSnapshot(t *testing.T, id ID) (*Snapshot, util.Uint160, util.Uint160) {
	var (
		token = util.Uint160{1}
		alice = util.Uint160{2}
		bob   = util.Uint160{3}
	)

	tokenState := testContractState(4, token, "Token")

	return &Snapshot{
		ID:      id,
		Vault:   testContractState(5, util.Uint160{9}, "Vault"),
		Token:   &tokenState,
		Storage: testLedgerItems(t, token, alice, bob),
	}, alice, bob
}

func TestSnapshot(t *testing.T) {
	dir := t.TempDir()
	id := ID{Label: "testnet", Block: 42}

	s, alice, bob := testSnapshot(t, id)

	l, err := Save(dir, s)
	require.NoError(t, err)
	require.NoError(t, l.Check())
	require.EqualValues(t, 2, l.Count)

	_, err = Save(dir, s)
	require.ErrorIs(t, err, os.ErrExist, "snapshot must not be overwritten")

	ledgerCSV, err := os.ReadFile(filepath.Join(dir, "testnet-42-ledger.csv"))
	require.NoError(t, err)
	require.Equal(t, address.Uint160ToString(alice)+",0\n"+address.Uint160ToString(bob)+",700\n", string(ledgerCSV))

	ids, err := List(dir)
	require.NoError(t, err)
	require.Equal(t, []ID{id}, ids)

	res, err := Load(dir, id)
	require.NoError(t, err)
	require.Equal(t, id, res.ID)
	require.Equal(t, s.Storage, res.Storage)
	require.Equal(t, s.Vault.Hash, res.Vault.Hash)
	require.EqualValues(t, 5, res.Vault.ID)
	require.NotNil(t, res.Token)
	require.Equal(t, s.Token.Hash, res.Token.Hash)

	restored, err := res.Ledger()
	require.NoError(t, err)
	require.NoError(t, restored.Check())
	require.Equal(t, l.Records(), restored.Records())

	t.Run("without token", func(t *testing.T) {
		dir := t.TempDir()

		s := &Snapshot{ID: id, Vault: testContractState(5, util.Uint160{9}, "Vault")}

		l, err := Save(dir, s)
		require.NoError(t, err)
		require.NoError(t, l.Check())

		res, err := Load(dir, id)
		require.NoError(t, err)
		require.Nil(t, res.Token)
		require.Empty(t, res.Storage)
	})

	t.Run("invalid storage", func(t *testing.T) {
		s, _, _ := testSnapshot(t, id)
		s.Storage = append(s.Storage, StorageItem{Key: []byte{'x'}})

		_, err := Save(t.TempDir(), s)
		require.Error(t, err)
	})
}

func TestLoadCorrupted(t *testing.T) {
	id := ID{Label: "mainnet", Block: 7}

	prepare := func(t *testing.T) string {
		dir := t.TempDir()
		s, _, _ := testSnapshot(t, id)
		_, err := Save(dir, s)
		require.NoError(t, err)
		return dir
	}

	t.Run("missing storage", func(t *testing.T) {
		dir := prepare(t)
		require.NoError(t, os.Remove(filepath.Join(dir, "mainnet-7-vault-storage.csv")))

		_, err := Load(dir, id)
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("storage differs from summary", func(t *testing.T) {
		dir := prepare(t)

		// storage without any item
		p := filepath.Join(dir, "mainnet-7-vault-storage.csv")
		require.NoError(t, os.WriteFile(p, nil, 0o600))

		_, err := Load(dir, id)
		require.ErrorIs(t, err, errCorruptedSnapshot)
	})

	t.Run("invalid encoding", func(t *testing.T) {
		dir := prepare(t)

		p := filepath.Join(dir, "mainnet-7-vault-storage.csv")
		require.NoError(t, os.WriteFile(p, []byte("zz,00\n"), 0o600))

		_, err := Load(dir, id)
		require.Error(t, err)
	})
}

func TestList(t *testing.T) {
	dir := t.TempDir()

	for _, id := range []ID{
		{Label: "testnet", Block: 100},
		{Label: "neo-testnet", Block: 20},
		{Label: "testnet", Block: 9},
	} {
		s, _, _ := testSnapshot(t, id)
		_, err := Save(dir, s)
		require.NoError(t, err)
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), nil, 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "old-1-vault.json"), 0o700))

	ids, err := List(dir)
	require.NoError(t, err)
	require.Equal(t, []ID{
		{Label: "neo-testnet", Block: 20},
		{Label: "testnet", Block: 9},
		{Label: "testnet", Block: 100},
	}, ids)

	_, err = List(filepath.Join(dir, "missing"))
	require.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken-vault.json"), nil, 0o600))
	_, err = List(dir)
	require.Error(t, err)
}

func TestID(t *testing.T) {
	id := ID{Label: "mainnet", Block: 1024}
	require.Equal(t, "mainnet-1024", id.String())

	res, err := ParseID(id.String())
	require.NoError(t, err)
	require.Equal(t, id, res)

	res, err = ParseID("neo-testnet-5")
	require.NoError(t, err)
	require.Equal(t, ID{Label: "neo-testnet", Block: 5}, res)

	for _, s := range []string{"mainnet", "-5", "mainnet-block", "mainnet-"} {
		_, err = ParseID(s)
		require.Error(t, err, s)
	}
}
