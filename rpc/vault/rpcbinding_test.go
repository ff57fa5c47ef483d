package vault

import (
	"errors"
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/stretchr/testify/require"
)

type testInvoker struct {
	method string
	params []any

	res *result.Invoke
	err error
}

func (t *testInvoker) Call(_ util.Uint160, operation string, params ...any) (*result.Invoke, error) {
	t.method = operation
	t.params = params
	return t.res, t.err
}

func halt(items ...stackitem.Item) *result.Invoke {
	return &result.Invoke{
		State: vmstate.Halt.String(),
		Stack: items,
	}
}

func TestContractReader_Max(t *testing.T) {
	var (
		contract = util.Uint160{1}
		alice    = util.Uint160{2, 3}
		inv      = new(testInvoker)
		r        = NewReader(inv, contract)
	)

	t.Run("two accounts", func(t *testing.T) {
		inv.res = halt(stackitem.NewArray([]stackitem.Item{
			stackitem.NewByteArray(alice.BytesBE()),
			stackitem.NewByteArray(contract.BytesBE()),
		}))

		res, err := r.Max()
		require.NoError(t, err)
		require.Equal(t, "max", inv.method)
		require.Equal(t, alice, res.First)
		require.Equal(t, contract, res.Second)
	})

	t.Run("absent accounts", func(t *testing.T) {
		inv.res = halt(stackitem.NewArray([]stackitem.Item{
			stackitem.NewByteArray(alice.BytesBE()),
			stackitem.NewBuffer(nil),
		}))

		res, err := r.Max()
		require.NoError(t, err)
		require.Equal(t, alice, res.First)
		require.Equal(t, util.Uint160{}, res.Second)

		inv.res = halt(stackitem.NewArray([]stackitem.Item{stackitem.Null{}, stackitem.Null{}}))

		res, err = r.Max()
		require.NoError(t, err)
		require.Equal(t, util.Uint160{}, res.First)
		require.Equal(t, util.Uint160{}, res.Second)
	})

	t.Run("invalid result", func(t *testing.T) {
		inv.res = halt(stackitem.NewArray([]stackitem.Item{stackitem.Null{}}))
		_, err := r.Max()
		require.Error(t, err)

		inv.res = halt(stackitem.NewArray([]stackitem.Item{
			stackitem.NewByteArray([]byte{1, 2, 3}),
			stackitem.Null{},
		}))
		_, err = r.Max()
		require.Error(t, err)

		inv.res = &result.Invoke{State: vmstate.Fault.String(), FaultException: "boom"}
		_, err = r.Max()
		require.Error(t, err)
	})

	t.Run("transport error", func(t *testing.T) {
		expected := errors.New("connection refused")
		inv.res, inv.err = nil, expected
		defer func() { inv.err = nil }()

		_, err := r.Max()
		require.ErrorIs(t, err, expected)
	})
}

func TestContractReader_UserInfo(t *testing.T) {
	var (
		wallet = util.Uint160{9, 8, 7}
		inv    = &testInvoker{res: halt(stackitem.NewStruct([]stackitem.Item{
			stackitem.NewByteArray(wallet.BytesBE()),
			stackitem.NewBigInteger(big.NewInt(444)),
		}))}
		r = NewReader(inv, util.Uint160{1})
	)

	rec, err := r.UserInfo(big.NewInt(0))
	require.NoError(t, err)
	require.Equal(t, "userInfo", inv.method)
	require.Equal(t, []any{big.NewInt(0)}, inv.params)
	require.Equal(t, wallet, rec.Wallet)
	require.EqualValues(t, 444, rec.Amount.Int64())

	inv.res = halt(stackitem.NewStruct([]stackitem.Item{stackitem.NewBigInteger(big.NewInt(1))}))
	_, err = r.UserInfo(big.NewInt(0))
	require.Error(t, err)
}

func TestContractReader_Scalars(t *testing.T) {
	var (
		token = util.Uint160{4, 5, 6}
		inv   = new(testInvoker)
		r     = NewReader(inv, util.Uint160{1})
	)

	inv.res = halt(stackitem.NewBigInteger(big.NewInt(3)))
	idx, err := r.UserIndex(token)
	require.NoError(t, err)
	require.EqualValues(t, 3, idx.Int64())
	require.Equal(t, "userIndex", inv.method)

	inv.res = halt(stackitem.NewBigInteger(big.NewInt(1500)))
	total, err := r.TotalDeposited()
	require.NoError(t, err)
	require.EqualValues(t, 1500, total.Int64())
	require.Equal(t, "totalDeposited", inv.method)

	inv.res = halt(stackitem.NewByteArray(token.BytesBE()))
	h, err := r.Token()
	require.NoError(t, err)
	require.Equal(t, token, h)
}

func TestEventsFromApplicationLog(t *testing.T) {
	var (
		from  = util.Uint160{1}
		vault = util.Uint160{2}
	)

	log := &result.ApplicationLog{
		Executions: []state.Execution{{
			Events: []state.NotificationEvent{
				{
					ScriptHash: util.Uint160{3},
					Name:       "Transfer",
					Item: stackitem.NewArray([]stackitem.Item{
						stackitem.NewByteArray(from.BytesBE()),
						stackitem.NewByteArray(vault.BytesBE()),
						stackitem.NewBigInteger(big.NewInt(10)),
					}),
				},
				{
					ScriptHash: vault,
					Name:       "Deposited",
					Item: stackitem.NewArray([]stackitem.Item{
						stackitem.NewByteArray(from.BytesBE()),
						stackitem.NewByteArray(vault.BytesBE()),
						stackitem.NewBigInteger(big.NewInt(10)),
					}),
				},
				{
					ScriptHash: vault,
					Name:       "Withdrawn",
					Item: stackitem.NewArray([]stackitem.Item{
						stackitem.NewByteArray(from.BytesBE()),
						stackitem.NewBigInteger(big.NewInt(4)),
					}),
				},
			},
		}},
	}

	deposits, err := DepositedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*DepositedEvent{{From: from, Vault: vault, Amount: big.NewInt(10)}}, deposits)

	withdrawals, err := WithdrawnEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*WithdrawnEvent{{To: from, Amount: big.NewInt(4)}}, withdrawals)

	_, err = DepositedEventsFromApplicationLog(nil)
	require.Error(t, err)

	log.Executions[0].Events[2].Item = stackitem.NewArray([]stackitem.Item{stackitem.Null{}})
	_, err = WithdrawnEventsFromApplicationLog(log)
	require.Error(t, err)
}
