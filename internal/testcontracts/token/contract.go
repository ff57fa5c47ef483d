// Package token implements minimal NEP-17 token used to test contracts
// working with arbitrary fungible tokens.
package token

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	supplyKey     = 's'
	failKey       = 'f'
	balancePrefix = 'b'
)

// nolint:unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		return
	}

	args := data.([]any)
	owner := args[0].(interop.Hash160)
	supply := args[1].(int)

	ctx := storage.GetContext()
	storage.Put(ctx, supplyKey, supply)
	storage.Put(ctx, append([]byte{balancePrefix}, owner...), supply)
}

func Symbol() string {
	return "MOCK"
}

func Decimals() int {
	return 0
}

func TotalSupply() int {
	return getInt(storage.GetReadOnlyContext(), supplyKey)
}

func BalanceOf(account interop.Hash160) int {
	if len(account) != interop.Hash160Len {
		panic("invalid account")
	}
	return getInt(storage.GetReadOnlyContext(), append([]byte{balancePrefix}, account...))
}

// Transfer moves tokens like any NEP-17 token does, but refuses to do so
// while failure mode is on.
func Transfer(from, to interop.Hash160, amount int, data any) bool {
	if len(from) != interop.Hash160Len || len(to) != interop.Hash160Len {
		panic("invalid account")
	}
	if amount < 0 {
		panic("negative amount")
	}

	ctx := storage.GetContext()
	if storage.Get(ctx, failKey) != nil {
		return false
	}

	if !from.Equals(runtime.GetCallingScriptHash()) && !runtime.CheckWitness(from) {
		return false
	}

	fromKey := append([]byte{balancePrefix}, from...)
	fromBalance := getInt(ctx, fromKey)
	if fromBalance < amount {
		return false
	}

	if amount != 0 && !from.Equals(to) {
		toKey := append([]byte{balancePrefix}, to...)
		storage.Put(ctx, fromKey, fromBalance-amount)
		storage.Put(ctx, toKey, getInt(ctx, toKey)+amount)
	}

	runtime.Notify("Transfer", from, to, amount)

	if management.GetContract(to) != nil {
		contract.Call(to, "onNEP17Payment", contract.All, from, amount, data)
	}

	return true
}

// SetFailing switches failure mode of Transfer.
func SetFailing(fail bool) {
	ctx := storage.GetContext()
	if fail {
		storage.Put(ctx, failKey, 1)
	} else {
		storage.Delete(ctx, failKey)
	}
}

func getInt(ctx storage.Context, key any) int {
	data := storage.Get(ctx, key)
	if data != nil {
		return data.(int)
	}
	return 0
}
