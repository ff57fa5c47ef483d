package vault

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/neo-vault/common"
	"github.com/nspcc-dev/neo-vault/contracts/vault/vaultconst"
)

const (
	tokenKey = 't'

	// pullKey marks a Deposit waiting for the token contract to move funds,
	// so that OnNEP17Payment callback does not credit them twice.
	pullKey = 'p'
)

// nolint:unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.([]any)
	token := args[0].(interop.Hash160)
	if len(token) != interop.Hash160Len {
		panic(vaultconst.ErrInvalidToken)
	}

	ctx := storage.GetContext()
	storage.Put(ctx, tokenKey, token)

	runtime.Log("vault contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic(common.ErrUpdateAccessDenied)
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("vault contract updated")
}

// Deposit moves amount of tokens from the account to the vault and credits
// the account's ledger record. The first deposit of the account creates its
// record. Transaction must be witnessed by the account with a scope allowing
// the token contract call.
//
// Produces Deposited notification.
func Deposit(from interop.Hash160, amount int) {
	common.CheckOwnerWitness(from)
	if amount <= 0 {
		panic(vaultconst.ErrInvalidAmount)
	}

	ctx := storage.GetContext()
	token := getToken(ctx)

	storage.Put(ctx, pullKey, from)
	ok := transferIn(token, from, amount)
	storage.Delete(ctx, pullKey)

	if !ok {
		panic(vaultconst.ErrTransferFailed)
	}

	credit(ctx, from, amount)

	runtime.Notify("Deposited", from, runtime.GetExecutingScriptHash(), amount)
}

// OnNEP17Payment is a callback for the configured NEP-17 token. Tokens sent
// to the vault directly are credited to the sender the same way Deposit does.
// Payments of any other token are rejected.
//
// Produces Deposited notification for direct payments.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	ctx := storage.GetContext()

	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(getToken(ctx)) {
		panic(vaultconst.ErrWrongToken)
	}

	if storage.Get(ctx, pullKey) != nil {
		return
	}

	if len(from) != interop.Hash160Len {
		panic(vaultconst.ErrInvalidSender)
	}

	credit(ctx, from, amount)

	runtime.Notify("Deposited", from, runtime.GetExecutingScriptHash(), amount)
}

// Withdraw debits the account's ledger record and transfers amount of tokens
// back to the account. Ledger is changed before the token contract is called;
// if the transfer fails, the whole invocation is reverted together with the
// debit.
//
// Produces Withdrawn notification.
func Withdraw(to interop.Hash160, amount int) {
	common.CheckOwnerWitness(to)

	ctx := storage.GetContext()
	debit(ctx, to, amount)

	if !transferOut(getToken(ctx), to, amount) {
		panic(vaultconst.ErrTransferFailed)
	}

	runtime.Notify("Withdrawn", to, amount)
}

// Max returns accounts with the largest and the second largest balances.
// Equal balances are ordered by the record index, the earlier record goes
// first. Missing places are empty.
func Max() []interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	first, second := topTwo(ctx)

	return []interop.Hash160{first, second}
}

// UserIndex returns 1-based index of the account's record or 0 if the account
// has never deposited.
func UserIndex(wallet interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return indexOf(ctx, wallet)
}

// UserInfo returns record by its 0-based position, i.e. UserIndex(w)-1 for
// account w.
func UserInfo(index int) UserRecord {
	ctx := storage.GetReadOnlyContext()
	return recordAt(ctx, index)
}

// UserCount returns number of records in the ledger.
func UserCount() int {
	ctx := storage.GetReadOnlyContext()
	return recordCount(ctx)
}

// BalanceOf returns amount of tokens the account holds in the vault.
func BalanceOf(wallet interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return balanceOf(ctx, wallet)
}

// TotalDeposited returns sum of all ledger balances.
func TotalDeposited() int {
	ctx := storage.GetReadOnlyContext()
	return totalAmount(ctx)
}

// Token returns hash of the token contract the vault works with.
func Token() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getToken(ctx)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func getToken(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, tokenKey).(interop.Hash160)
}
