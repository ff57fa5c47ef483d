// Package vaultconst contains exception messages thrown by the Vault contract.
package vaultconst

const (
	// ErrNotDeposited is thrown on withdrawal by an account that has never
	// deposited anything.
	ErrNotDeposited = "withdraw: not deposited yet"
	// ErrInsufficientBalance is thrown on withdrawal of more tokens than the
	// account has in the vault.
	ErrInsufficientBalance = "withdraw: not enough tokens to withdraw"
	// ErrTransferFailed is thrown when the token contract refuses to move
	// assets.
	ErrTransferFailed = "token transfer failed"
	// ErrIndexOutOfBounds is thrown by record accessors given an index
	// outside of [0, userCount).
	ErrIndexOutOfBounds = "index out of bounds"
	// ErrInvalidAmount is thrown for zero or negative amounts.
	ErrInvalidAmount = "invalid amount"
	// ErrWrongToken is thrown when payment comes from a contract other than
	// the configured token.
	ErrWrongToken = "vault accepts configured token only"
	// ErrInvalidToken is thrown on deployment with malformed token hash.
	ErrInvalidToken = "invalid token hash"
	// ErrInvalidSender is thrown on payments without a sender (minting).
	ErrInvalidSender = "invalid sender"
)
