package tool

import (
	"context"
	"fmt"

	contractx "github.com/pranshurastogi/CryptoSentinel/agent/contract"
)

// UnconfiguredWallet stands in when no wallet credentials are configured.
// Every operation fails in-band, so the trading agent reports a clear outcome
// instead of executing against a missing account.
type UnconfiguredWallet struct{}

var _ contractx.Wallet = UnconfiguredWallet{}

func (UnconfiguredWallet) Details(context.Context) (string, error) {
	return "", fmt.Errorf("%w: wallet is not configured", contractx.ErrValidation)
}

func (UnconfiguredWallet) RequestFaucet(context.Context) (string, error) {
	return "", fmt.Errorf("%w: wallet is not configured", contractx.ErrValidation)
}

func (UnconfiguredWallet) SwapTokens(context.Context, string) (string, error) {
	return "", fmt.Errorf("%w: wallet is not configured", contractx.ErrValidation)
}
