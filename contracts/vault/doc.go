/*
Package vault implements Vault contract which keeps deposits of a single
NEP-17 token.

Accounts deposit tokens into the vault and withdraw them back up to their
ledger balance. The first deposit of an account creates a ledger record with
a stable index; records are never removed, so an index remains valid after
the balance drops to zero. Anyone can ask for the two accounts holding the
largest balances, ties are resolved in favor of the lower index.

Token contract hash is passed on deployment and can't be changed afterwards.

Deposits are made either with Deposit method, which pulls tokens from the
account (the transaction must be signed by the account with a scope allowing
the token call), or by transferring tokens to the vault address directly, in
which case the sender is credited in OnNEP17Payment callback.

# Contract notifications

Deposited notification. This notification is produced on each successful
deposit, both pulled and pushed.

	Deposited:
	  - name: from
	    type: Hash160
	  - name: vault
	    type: Hash160
	  - name: amount
	    type: Integer

Withdrawn notification. This notification is produced when tokens are
transferred back to the account.

	Withdrawn:
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package vault

/*
Contract storage model.

# Summary
Key-value storage format:
  - 't' -> interop.Hash160
    token contract hash
  - 'n' -> int
    number of ledger records
  - 's' -> int
    sum of all ledger balances
  - 'i'<interop.Hash160> -> int
    1-based record index of the account
  - 'r'<int> -> std.Serialize(UserRecord)
    ledger record by its 0-based position
  - 'p' -> interop.Hash160
    account of the Deposit in progress, exists only during token transfer

# Ledger
Records are appended on the first deposit of the account and changed in
place afterwards.
*/
