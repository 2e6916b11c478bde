package tool

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeWallet struct {
	details   string
	faucet    string
	swap      string
	swapErr   error
	gotSwapTo string
}

func (f *fakeWallet) Details(context.Context) (string, error)      { return f.details, nil }
func (f *fakeWallet) RequestFaucet(context.Context) (string, error) { return f.faucet, nil }
func (f *fakeWallet) SwapTokens(_ context.Context, address string) (string, error) {
	f.gotSwapTo = address
	return f.swap, f.swapErr
}

func TestExecutorRoutesToWallet(t *testing.T) {
	t.Parallel()

	wallet := &fakeWallet{details: "addr=0xabc network=base-sepolia", swap: "swapped"}
	exec := NewExecutor(wallet)

	res, err := exec(context.Background(), ToolWalletDetails, nil)
	if err != nil {
		t.Fatalf("execute %s: %v", ToolWalletDetails, err)
	}
	if res.Result != wallet.details || res.Error != "" {
		t.Errorf("unexpected result %+v", res)
	}

	res, err = exec(context.Background(), ToolSwapTokens, map[string]any{"contract_address": "0x1"})
	if err != nil {
		t.Fatalf("execute %s: %v", ToolSwapTokens, err)
	}
	if res.Result != "swapped" || wallet.gotSwapTo != "0x1" {
		t.Errorf("swap result %+v, address %q", res, wallet.gotSwapTo)
	}
}

func TestExecutorSwapRequiresAddress(t *testing.T) {
	t.Parallel()

	exec := NewExecutor(&fakeWallet{})
	res, err := exec(context.Background(), ToolSwapTokens, nil)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.Error == "" {
		t.Error("expected in-band error for missing contract_address")
	}
}

func TestExecutorWalletFailureIsInBand(t *testing.T) {
	t.Parallel()

	exec := NewExecutor(&fakeWallet{swapErr: errors.New("insufficient balance")})
	res, err := exec(context.Background(), ToolSwapTokens, map[string]any{"contract_address": "0x1"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(res.Error, "insufficient balance") {
		t.Errorf("error = %q", res.Error)
	}
}

func TestExecutorUnknownTool(t *testing.T) {
	t.Parallel()

	exec := NewExecutor(&fakeWallet{})
	res, err := exec(context.Background(), "orders.place", nil)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(res.Error, "orders.place") {
		t.Errorf("error = %q", res.Error)
	}
}

func TestUnconfiguredWallet(t *testing.T) {
	t.Parallel()

	w := UnconfiguredWallet{}
	if _, err := w.Details(context.Background()); err == nil {
		t.Error("Details should fail for unconfigured wallet")
	}
	if _, err := w.SwapTokens(context.Background(), "0x1"); err == nil {
		t.Error("SwapTokens should fail for unconfigured wallet")
	}
}

func TestTradingToolInfos(t *testing.T) {
	t.Parallel()

	infos := tradingToolInfos()
	names := make(map[string]bool, len(infos))
	for _, info := range infos {
		names[info.Name] = true
	}
	for _, want := range []string{ToolWalletDetails, ToolFaucetRequest, ToolSwapTokens} {
		if !names[want] {
			t.Errorf("missing tool %s", want)
		}
	}
}
