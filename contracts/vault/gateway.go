package vault

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

// transferIn moves amount of NEP-17 token from the account to the vault.
// The account's witness must be valid for the token contract call.
func transferIn(token, from interop.Hash160, amount int) bool {
	return transfer(token, from, runtime.GetExecutingScriptHash(), amount)
}

// transferOut moves amount of NEP-17 token from the vault to the account.
func transferOut(token, to interop.Hash160, amount int) bool {
	return transfer(token, runtime.GetExecutingScriptHash(), to, amount)
}

func transfer(token, from, to interop.Hash160, amount int) bool {
	return contract.Call(token, "transfer", contract.All, from, to, amount, nil).(bool)
}
