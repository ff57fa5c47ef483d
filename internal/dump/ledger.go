package dump

import (
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/nspcc-dev/neo-go/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Vault contract storage prefixes.
const (
	tokenKey     = 't'
	countKey     = 'n'
	totalKey     = 's'
	pullKey      = 'p'
	indexPrefix  = 'i'
	recordPrefix = 'r'
)

// Record is a single depositor entry of the Vault ledger.
type Record struct {
	Wallet util.Uint160
	Amount *big.Int
}

// Ledger accumulates storage items of the Vault contract and restores its
// ledger. Zero value is ready to use.
type Ledger struct {
	Token util.Uint160
	Count int64
	Total *big.Int

	// Pending is set when the dump was taken inside of unfinished deposit.
	Pending bool

	records map[int64]Record
	indexes map[util.Uint160]int64
}

var errInconsistentLedger = errors.New("inconsistent ledger")

// Add decodes single storage item of the Vault contract. Add can be passed
// as a storage iterator callback.
func (x *Ledger) Add(key, value []byte) error {
	if len(key) == 0 {
		return errors.New("empty storage key")
	}

	if x.records == nil {
		x.records = make(map[int64]Record)
		x.indexes = make(map[util.Uint160]int64)
	}

	switch key[0] {
	case tokenKey:
		h, err := util.Uint160DecodeBytesBE(value)
		if err != nil {
			return fmt.Errorf("decode token hash: %w", err)
		}
		x.Token = h
	case countKey:
		n := bigint.FromBytes(value)
		if !n.IsInt64() {
			return fmt.Errorf("record count %s is out of range", n)
		}
		x.Count = n.Int64()
	case totalKey:
		x.Total = bigint.FromBytes(value)
	case pullKey:
		x.Pending = true
	case indexPrefix:
		h, err := util.Uint160DecodeBytesBE(key[1:])
		if err != nil {
			return fmt.Errorf("decode wallet from index key: %w", err)
		}
		idx := bigint.FromBytes(value)
		if !idx.IsInt64() {
			return fmt.Errorf("index %s of %s is out of range", idx, h.StringLE())
		}
		x.indexes[h] = idx.Int64()
	case recordPrefix:
		pos := bigint.FromBytes(key[1:])
		if !pos.IsInt64() {
			return fmt.Errorf("record position %s is out of range", pos)
		}
		rec, err := decodeRecord(value)
		if err != nil {
			return fmt.Errorf("decode record #%s: %w", pos, err)
		}
		x.records[pos.Int64()] = rec
	default:
		return fmt.Errorf("unexpected storage key prefix 0x%02x", key[0])
	}

	return nil
}

func decodeRecord(value []byte) (Record, error) {
	var rec Record

	item, err := stackitem.Deserialize(value)
	if err != nil {
		return rec, err
	}

	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return rec, errors.New("not a struct")
	}
	if len(arr) != 2 {
		return rec, errors.New("wrong number of structure elements")
	}

	b, err := arr[0].TryBytes()
	if err != nil {
		return rec, fmt.Errorf("field Wallet: %w", err)
	}
	rec.Wallet, err = util.Uint160DecodeBytesBE(b)
	if err != nil {
		return rec, fmt.Errorf("field Wallet: %w", err)
	}

	rec.Amount, err = arr[1].TryInteger()
	if err != nil {
		return rec, fmt.Errorf("field Amount: %w", err)
	}

	return rec, nil
}

// Records returns restored ledger records ordered by their positions.
func (x *Ledger) Records() []Record {
	positions := make([]int64, 0, len(x.records))
	for pos := range x.records {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i] < positions[j] })

	res := make([]Record, 0, len(positions))
	for _, pos := range positions {
		res = append(res, x.records[pos])
	}
	return res
}

// Check verifies that restored ledger is consistent: records occupy positions
// [0, Count), every record has its wallet's 1-based index pointing to it, no
// amount is negative and amounts sum up to Total.
func (x *Ledger) Check() error {
	if int64(len(x.records)) != x.Count {
		return fmt.Errorf("%w: %d records, count is %d", errInconsistentLedger, len(x.records), x.Count)
	}

	if int64(len(x.indexes)) != x.Count {
		return fmt.Errorf("%w: %d indexes, count is %d", errInconsistentLedger, len(x.indexes), x.Count)
	}

	sum := new(big.Int)

	for pos := int64(0); pos < x.Count; pos++ {
		rec, ok := x.records[pos]
		if !ok {
			return fmt.Errorf("%w: missing record #%d", errInconsistentLedger, pos)
		}

		if idx := x.indexes[rec.Wallet]; idx != pos+1 {
			return fmt.Errorf("%w: record #%d of %s is indexed as %d", errInconsistentLedger, pos, rec.Wallet.StringLE(), idx)
		}

		if rec.Amount.Sign() < 0 {
			return fmt.Errorf("%w: negative amount of %s", errInconsistentLedger, rec.Wallet.StringLE())
		}

		sum.Add(sum, rec.Amount)
	}

	total := orZero(x.Total)

	if sum.Cmp(total) != 0 {
		return fmt.Errorf("%w: records sum up to %s, total is %s", errInconsistentLedger, sum, total)
	}

	return nil
}
