package dump

import (
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"sort"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
)

// StorageItem is a raw key-value pair of the Vault contract storage.
type StorageItem struct {
	Key, Value []byte
}

// Snapshot is the state of the Vault contract at some block.
type Snapshot struct {
	ID    ID
	Vault state.Contract
	// Token is the state of the token contract held by the Vault, nil if the
	// Vault storage has no token.
	Token   *state.Contract
	Storage []StorageItem
}

// summary is the JSON part of the snapshot.
type summary struct {
	Vault   state.Contract  `json:"vault"`
	Token   *state.Contract `json:"token,omitempty"`
	Records int64           `json:"records"`
	Total   *big.Int        `json:"total"`
	Pending bool            `json:"pending,omitempty"`
}

var errCorruptedSnapshot = errors.New("corrupted snapshot")

// Ledger restores the Vault ledger from the snapshot storage. The result is
// not checked, see Ledger.Check.
func (x *Snapshot) Ledger() (*Ledger, error) {
	l := Ledger{Total: new(big.Int)}

	for i := range x.Storage {
		err := l.Add(x.Storage[i].Key, x.Storage[i].Value)
		if err != nil {
			return nil, fmt.Errorf("storage item #%d: %w", i, err)
		}
	}

	return &l, nil
}

// Save writes the snapshot into dir as three files named after its ID:
//
//	'<label>-<block>-vault.json': contract states and ledger summary
//	'<label>-<block>-vault-storage.csv': hex-encoded 'key,value' storage items
//	'<label>-<block>-ledger.csv': 'wallet,amount' records in ledger order
//
// Save fails if any of the files already exists. Returned Ledger is restored
// from the snapshot storage and is not checked.
func Save(dir string, s *Snapshot) (*Ledger, error) {
	l, err := s.Ledger()
	if err != nil {
		return nil, err
	}

	paths := [...]string{
		s.ID.path(dir, summarySuffix),
		s.ID.path(dir, storageSuffix),
		s.ID.path(dir, ledgerSuffix),
	}

	for _, p := range paths {
		if err = checkFileNotExists(p); err != nil {
			return nil, err
		}
	}

	err = writeFile(paths[0], func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", " ")

		return enc.Encode(summary{
			Vault:   s.Vault,
			Token:   s.Token,
			Records: l.Count,
			Total:   orZero(l.Total),
			Pending: l.Pending,
		})
	})
	if err != nil {
		return nil, err
	}

	err = writeCSV(paths[1], func(w *csv.Writer) error {
		for i := range s.Storage {
			err := w.Write([]string{hex.EncodeToString(s.Storage[i].Key), hex.EncodeToString(s.Storage[i].Value)})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = writeCSV(paths[2], func(w *csv.Writer) error {
		for _, rec := range l.Records() {
			err := w.Write([]string{address.Uint160ToString(rec.Wallet), rec.Amount.String()})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return l, nil
}

// Load reads the snapshot saved by Save. Storage of the snapshot must agree
// with its summary.
func Load(dir string, id ID) (*Snapshot, error) {
	var sum summary

	err := readFile(id.path(dir, summarySuffix), func(r io.Reader) error {
		return json.NewDecoder(r).Decode(&sum)
	})
	if err != nil {
		return nil, err
	}

	res := &Snapshot{
		ID:    id,
		Vault: sum.Vault,
		Token: sum.Token,
	}

	err = readFile(id.path(dir, storageSuffix), func(r io.Reader) error {
		c := csv.NewReader(r)
		c.FieldsPerRecord = 2

		for {
			rec, err := c.Read()
			if err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				return fmt.Errorf("read next CSV record: %w", err)
			}

			var item StorageItem

			item.Key, err = hex.DecodeString(rec[0])
			if err != nil {
				return fmt.Errorf("decode storage item key: %w", err)
			}

			item.Value, err = hex.DecodeString(rec[1])
			if err != nil {
				return fmt.Errorf("decode storage item value: %w", err)
			}

			res.Storage = append(res.Storage, item)
		}
	})
	if err != nil {
		return nil, err
	}

	l, err := res.Ledger()
	if err != nil {
		return nil, err
	}

	if l.Count != sum.Records || orZero(l.Total).Cmp(orZero(sum.Total)) != 0 {
		return nil, fmt.Errorf("%w: storage of %s has %d records with total %s, summary has %d with total %s",
			errCorruptedSnapshot, id, l.Count, orZero(l.Total), sum.Records, orZero(sum.Total))
	}

	return res, nil
}

// List returns IDs of all snapshots saved in dir ordered by label and block.
func List(dir string) ([]ID, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read snapshot directory: %w", err)
	}

	var res []ID

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, summarySuffix) {
			continue
		}

		id, err := ParseID(strings.TrimSuffix(name, summarySuffix))
		if err != nil {
			return nil, fmt.Errorf("decode snapshot ID from file name '%s': %w", name, err)
		}

		res = append(res, id)
	}

	sort.Slice(res, func(i, j int) bool {
		if res[i].Label != res[j].Label {
			return res[i].Label < res[j].Label
		}
		return res[i].Block < res[j].Block
	})

	return res, nil
}

func orZero(n *big.Int) *big.Int {
	if n == nil {
		return new(big.Int)
	}
	return n
}

// checkFileNotExists checks that there is no file at the specified path.
func checkFileNotExists(p string) error {
	_, err := os.Stat(p)
	if !os.IsNotExist(err) {
		if err == nil {
			err = os.ErrExist
		}
		return fmt.Errorf("file '%s' absence check failed: %w", p, err)
	}
	return nil
}

func writeFile(p string, f func(io.Writer) error) error {
	fd, err := os.OpenFile(p, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	err = f(fd)
	if closeErr := fd.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write '%s': %w", p, err)
	}

	return nil
}

func writeCSV(p string, f func(*csv.Writer) error) error {
	return writeFile(p, func(w io.Writer) error {
		c := csv.NewWriter(w)

		err := f(c)
		if err != nil {
			return err
		}

		c.Flush()
		return c.Error()
	})
}

func readFile(p string, f func(io.Reader) error) error {
	fd, err := os.Open(p)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer fd.Close()

	err = f(fd)
	if err != nil {
		return fmt.Errorf("read '%s': %w", p, err)
	}

	return nil
}
