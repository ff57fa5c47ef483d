package main

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var errInvalidAmount = errors.New("amount must be a positive integer")

// parseHash decodes account or contract address given either as Neo address
// or as hex-encoded little-endian script hash (with optional 0x prefix).
func parseHash(s string) (util.Uint160, error) {
	if s == "" {
		return util.Uint160{}, errors.New("empty address")
	}

	if h, err := address.StringToUint160(s); err == nil {
		return h, nil
	}

	h, err := util.Uint160DecodeStringLE(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return util.Uint160{}, fmt.Errorf("'%s' is neither Neo address nor script hash", s)
	}

	return h, nil
}

// parseAmount decodes positive integer number of token base units.
func parseAmount(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() <= 0 {
		return nil, fmt.Errorf("%w: '%s'", errInvalidAmount, s)
	}

	return v, nil
}

// formatAccount returns Neo address of the account or "none" for zero hash
// which the contract uses for absent accounts.
func formatAccount(h util.Uint160) string {
	if h.Equals(util.Uint160{}) {
		return "none"
	}

	return address.Uint160ToString(h)
}

func newLogger(debug bool) (*zap.Logger, error) {
	c := zap.NewProductionConfig()
	c.Encoding = "console"
	c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if debug {
		c.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	return c.Build()
}
