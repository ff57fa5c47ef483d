/*
Package contracts provides access to compiled Vault contract.

Contract sources live in subdirectories of this package. Compiled artifacts
(contract.nef and manifest.json) are put next to the sources by the NeoGo
compiler:

	neo-go contract compile -i contracts/vault -c contracts/vault/config.yml \
		-m contracts/vault/manifest.json -o contracts/vault/contract.nef
*/
package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
)

const (
	vaultDir = "vault"

	nefName      = "contract.nef"
	manifestName = "manifest.json"
)

// Contract groups information about Neo contract stored in the current package.
type Contract struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

var (
	errInvalidNEF      = errors.New("invalid NEF")
	errInvalidManifest = errors.New("invalid manifest")
)

// GetVault reads compiled Vault contract from the given directory containing
// contract subdirectories (usually path to this package).
func GetVault(root string) (Contract, error) {
	return ReadVault(os.DirFS(root))
}

// ReadVault is the same as GetVault but allows to override source fs.FS.
func ReadVault(_fs fs.FS) (Contract, error) {
	c, err := readContractFromDir(_fs, vaultDir)
	if err != nil {
		return c, fmt.Errorf("read contract %s: %w", vaultDir, err)
	}

	if c.Manifest.ABI.GetMethod("max", 0) == nil {
		return c, fmt.Errorf("read contract %s: %w: missing max method", vaultDir, errInvalidManifest)
	}

	return c, nil
}

func readContractFromDir(_fs fs.FS, dir string) (Contract, error) {
	var c Contract

	// fs.FS uses "/" even on Windows, so filepath.Join() is not applicable.
	fNEF, err := _fs.Open(dir + "/" + nefName)
	if err != nil {
		return c, fmt.Errorf("open NEF: %w", err)
	}
	defer fNEF.Close()

	fManifest, err := _fs.Open(dir + "/" + manifestName)
	if err != nil {
		return c, fmt.Errorf("open manifest: %w", err)
	}
	defer fManifest.Close()

	bReader := io.NewBinReaderFromIO(fNEF)
	c.NEF.DecodeBinary(bReader)
	if bReader.Err != nil {
		return c, fmt.Errorf("%w: %v", errInvalidNEF, bReader.Err)
	}

	err = json.NewDecoder(fManifest).Decode(&c.Manifest)
	if err != nil {
		return c, fmt.Errorf("%w: %v", errInvalidManifest, err)
	}

	return c, nil
}
