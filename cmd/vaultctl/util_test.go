package main

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestParseHash(t *testing.T) {
	h := util.Uint160{1, 2, 3, 4, 5}

	for _, s := range []string{
		address.Uint160ToString(h),
		h.StringLE(),
		"0x" + h.StringLE(),
	} {
		res, err := parseHash(s)
		require.NoError(t, err, s)
		require.Equal(t, h, res, s)
	}

	for _, s := range []string{"", "not an address", "0x1234", h.StringLE() + "00"} {
		_, err := parseHash(s)
		require.Error(t, err, s)
	}
}

func TestParseAmount(t *testing.T) {
	v, err := parseAmount("1500")
	require.NoError(t, err)
	require.EqualValues(t, 1500, v.Int64())

	v, err = parseAmount("115792089237316195423570985008687907853269984665640564039457584007913129639935")
	require.NoError(t, err)
	require.Equal(t, 256, v.BitLen())

	for _, s := range []string{"", "0", "-1", "1.5", "ten"} {
		_, err := parseAmount(s)
		require.ErrorIs(t, err, errInvalidAmount, s)
	}
}

func TestFormatAccount(t *testing.T) {
	require.Equal(t, "none", formatAccount(util.Uint160{}))

	h := util.Uint160{7}
	require.Equal(t, address.Uint160ToString(h), formatAccount(h))
}

func TestNewLogger(t *testing.T) {
	for _, debug := range []bool{false, true} {
		l, err := newLogger(debug)
		require.NoError(t, err)
		require.Equal(t, debug, l.Core().Enabled(-1))
	}
}
