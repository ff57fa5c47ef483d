package dump

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// ID identifies a snapshot of the Vault: the environment it was taken from and
// the height of the state.
type ID struct {
	// Label of the environment (e.g. testnet, mainnet).
	Label string
	// Blockchain height at which the state was pulled.
	Block uint32
}

// String returns '<label>-<block>'.
func (x ID) String() string {
	return x.Label + "-" + strconv.FormatUint(uint64(x.Block), 10)
}

// ParseID decodes ID from its String form. Label may contain hyphens itself.
func ParseID(s string) (ID, error) {
	i := strings.LastIndexByte(s, '-')
	if i <= 0 {
		return ID{}, fmt.Errorf("invalid snapshot ID '%s': expected <label>-<block>", s)
	}

	n, err := strconv.ParseUint(s[i+1:], 10, 32)
	if err != nil {
		return ID{}, fmt.Errorf("decode block number from '%s': %w", s, err)
	}

	return ID{Label: s[:i], Block: uint32(n)}, nil
}

// Snapshot file name suffixes.
const (
	summarySuffix = "-vault.json"
	storageSuffix = "-vault-storage.csv"
	ledgerSuffix  = "-ledger.csv"
)

func (x ID) path(dir, suffix string) string {
	return filepath.Join(dir, x.String()+suffix)
}
