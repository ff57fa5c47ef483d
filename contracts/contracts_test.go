package contracts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/nspcc-dev/neo-go/pkg/smartcontract"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/stretchr/testify/require"
)

func TestGetMissingFiles(t *testing.T) {
	_fs := fstest.MapFS{}

	// Missing NEF
	_, err := ReadVault(_fs)
	require.Error(t, err)

	// Missing manifest.
	_fs[vaultDir+"/"+nefName] = &fstest.MapFile{}
	_, err = ReadVault(_fs)
	require.Error(t, err)
}

func TestReadInvalidFormat(t *testing.T) {
	var (
		_fs          = fstest.MapFS{}
		nefPath      = vaultDir + "/" + nefName
		manifestPath = vaultDir + "/" + manifestName
	)

	_, validNEF := anyValidNEF(t)
	_, validManifest := anyValidManifest(t, "Vault")

	_fs[nefPath] = &fstest.MapFile{Data: validNEF}
	_fs[manifestPath] = &fstest.MapFile{Data: validManifest}

	c, err := ReadVault(_fs)
	require.NoError(t, err)
	require.Equal(t, "Vault", c.Manifest.Name)

	_fs[nefPath] = &fstest.MapFile{Data: []byte("not a NEF")}
	_fs[manifestPath] = &fstest.MapFile{Data: validManifest}

	_, err = ReadVault(_fs)
	require.ErrorIs(t, err, errInvalidNEF)

	_fs[nefPath] = &fstest.MapFile{Data: validNEF}
	_fs[manifestPath] = &fstest.MapFile{Data: []byte("not a manifest")}

	_, err = ReadVault(_fs)
	require.ErrorIs(t, err, errInvalidManifest)
}

func TestReadForeignManifest(t *testing.T) {
	_, validNEF := anyValidNEF(t)

	m := manifest.NewManifest("NotVault")
	jManifest, err := json.Marshal(m)
	require.NoError(t, err)

	_, err = ReadVault(fstest.MapFS{
		vaultDir + "/" + nefName:      &fstest.MapFile{Data: validNEF},
		vaultDir + "/" + manifestName: &fstest.MapFile{Data: jManifest},
	})
	require.ErrorIs(t, err, errInvalidManifest)
}

func TestGetVault(t *testing.T) {
	var (
		root       = t.TempDir()
		nefPath    = filepath.Join(root, vaultDir, nefName)
		manifestFP = filepath.Join(root, vaultDir, manifestName)
	)

	_, err := GetVault(root)
	require.Error(t, err)

	require.NoError(t, os.Mkdir(filepath.Join(root, vaultDir), 0o700))

	expNEF, validNEF := anyValidNEF(t)
	_, validManifest := anyValidManifest(t, "Vault")

	require.NoError(t, os.WriteFile(nefPath, validNEF, 0o600))
	require.NoError(t, os.WriteFile(manifestFP, validManifest, 0o600))

	c, err := GetVault(root)
	require.NoError(t, err)
	require.Equal(t, expNEF.Checksum, c.NEF.Checksum)
}

func anyValidNEF(tb testing.TB) (nef.File, []byte) {
	script := make([]byte, 32)

	_nef, err := nef.NewFile(script)
	require.NoError(tb, err)

	bNEF, err := _nef.Bytes()
	require.NoError(tb, err)

	return *_nef, bNEF
}

func anyValidManifest(tb testing.TB, name string) (manifest.Manifest, []byte) {
	_manifest := manifest.NewManifest(name)
	_manifest.ABI.Methods = append(_manifest.ABI.Methods, manifest.Method{
		Name:       "max",
		ReturnType: smartcontract.ArrayType,
		Safe:       true,
	})

	jManifest, err := json.Marshal(_manifest)
	require.NoError(tb, err)

	return *_manifest, jManifest
}
