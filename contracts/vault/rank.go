package vault

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// topTwo scans all records and returns wallets holding the largest and the
// second largest amounts. Records are visited in index order and only a
// strictly greater amount displaces a leader, so among equal amounts the
// earlier record wins. Records with zero amount take part too. Missing places
// are empty.
func topTwo(ctx storage.Context) (interop.Hash160, interop.Hash160) {
	var (
		first        interop.Hash160
		second       interop.Hash160
		firstAmount  = -1
		secondAmount = -1
		n            = recordCount(ctx)
	)

	for i := 0; i < n; i++ {
		rec := recordAt(ctx, i)

		if rec.Amount > firstAmount {
			second = first
			secondAmount = firstAmount
			first = rec.Wallet
			firstAmount = rec.Amount
		} else if rec.Amount > secondAmount {
			second = rec.Wallet
			secondAmount = rec.Amount
		}
	}

	return first, second
}
