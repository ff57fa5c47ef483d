package vault

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/neo-vault/common"
	"github.com/nspcc-dev/neo-vault/contracts/vault/vaultconst"
)

// UserRecord is a ledger entry of a single depositor.
type UserRecord struct {
	Wallet interop.Hash160
	Amount int
}

const (
	countKey = 'n'
	totalKey = 's'

	indexPrefix  = 'i'
	recordPrefix = 'r'
)

// register returns 1-based index of the wallet's record, appending a new
// empty record if the wallet has none.
func register(ctx storage.Context, wallet interop.Hash160) int {
	idx := indexOf(ctx, wallet)
	if idx != 0 {
		return idx
	}

	n := recordCount(ctx)
	putRecord(ctx, n, UserRecord{Wallet: wallet, Amount: 0})

	idx = n + 1
	storage.Put(ctx, countKey, idx)
	storage.Put(ctx, indexKey(wallet), idx)

	return idx
}

func credit(ctx storage.Context, wallet interop.Hash160, amount int) {
	if amount <= 0 {
		panic(vaultconst.ErrInvalidAmount)
	}

	pos := register(ctx, wallet) - 1
	rec := recordAt(ctx, pos)
	rec.Amount += amount
	putRecord(ctx, pos, rec)

	storage.Put(ctx, totalKey, totalAmount(ctx)+amount)
}

func debit(ctx storage.Context, wallet interop.Hash160, amount int) {
	idx := indexOf(ctx, wallet)
	if idx == 0 {
		panic(vaultconst.ErrNotDeposited)
	}

	if amount <= 0 {
		panic(vaultconst.ErrInvalidAmount)
	}

	rec := recordAt(ctx, idx-1)
	if rec.Amount < amount {
		panic(vaultconst.ErrInsufficientBalance)
	}

	rec.Amount -= amount
	putRecord(ctx, idx-1, rec)

	storage.Put(ctx, totalKey, totalAmount(ctx)-amount)
}

func balanceOf(ctx storage.Context, wallet interop.Hash160) int {
	idx := indexOf(ctx, wallet)
	if idx == 0 {
		return 0
	}

	return recordAt(ctx, idx-1).Amount
}

// recordAt returns the record stored at 0-based position pos.
func recordAt(ctx storage.Context, pos int) UserRecord {
	if pos < 0 || pos >= recordCount(ctx) {
		panic(vaultconst.ErrIndexOutOfBounds)
	}

	data := storage.Get(ctx, recordKey(pos))
	return std.Deserialize(data.([]byte)).(UserRecord)
}

func putRecord(ctx storage.Context, pos int, rec UserRecord) {
	common.SetSerialized(ctx, recordKey(pos), rec)
}

func indexOf(ctx storage.Context, wallet interop.Hash160) int {
	return common.GetInt(ctx, indexKey(wallet))
}

func recordCount(ctx storage.Context) int {
	return common.GetInt(ctx, countKey)
}

func totalAmount(ctx storage.Context) int {
	return common.GetInt(ctx, totalKey)
}

func indexKey(wallet interop.Hash160) []byte {
	return append([]byte{indexPrefix}, wallet...)
}

func recordKey(pos int) []byte {
	return append([]byte{recordPrefix}, convert.ToBytes(pos)...)
}
