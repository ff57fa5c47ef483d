/*
Package dump stores snapshots of the Vault contract in the local file system
and restores the Vault ledger from them.

A snapshot keeps the Vault contract state, the state of the token it holds and
all Vault storage items pulled at some block. Ledger decodes the storage items
into depositor records and checks that the record list, the wallet indexes and
the deposited total agree with each other. Saved snapshots are human-readable:
the ledger is exported next to the raw storage as a plain CSV table.
*/
package dump
