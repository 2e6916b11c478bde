package tool

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/pranshurastogi/CryptoSentinel/agent/contract"
)

const (
	ToolWalletDetails = "wallet.details"
	ToolFaucetRequest = "faucet.request"
	ToolSwapTokens    = "tokens.swap"
)

type Executor func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error)

// BuildForTrading returns the tool schema exposed to the trading model and an
// executor that routes calls to the wallet.
func BuildForTrading(wallet contractx.Wallet) ([]*schema.ToolInfo, Executor) {
	return tradingToolInfos(), NewExecutor(wallet)
}

func NewExecutor(wallet contractx.Wallet) Executor {
	fallback := unknownToolExecutor()
	return func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
		switch tool {
		case ToolWalletDetails:
			outcome, err := wallet.Details(ctx)
			return walletResult(tool, outcome, err)
		case ToolFaucetRequest:
			outcome, err := wallet.RequestFaucet(ctx)
			return walletResult(tool, outcome, err)
		case ToolSwapTokens:
			address, ok := args["contract_address"].(string)
			if !ok || address == "" {
				return contractx.ToolResult{Tool: tool, Error: "contract_address is required"}, nil
			}
			outcome, err := wallet.SwapTokens(ctx, address)
			return walletResult(tool, outcome, err)
		default:
			return fallback(ctx, tool, args)
		}
	}
}

func unknownToolExecutor() Executor {
	return func(_ context.Context, tool string, _ map[string]any) (contractx.ToolResult, error) {
		return contractx.ToolResult{
			Tool:  tool,
			Error: fmt.Sprintf("tool=%s is not available", tool),
		}, nil
	}
}

// Wallet failures are reported in-band so the model can react to them
// instead of the loop aborting.
func walletResult(tool string, outcome string, err error) (contractx.ToolResult, error) {
	if err != nil {
		return contractx.ToolResult{Tool: tool, Error: err.Error()}, nil
	}
	return contractx.ToolResult{Tool: tool, Result: outcome}, nil
}

func tradingToolInfos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolWalletDetails,
			Desc: "Return the trading wallet's address, network, and balances.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		{
			Name: ToolFaucetRequest,
			Desc: "Request testnet funds for the trading wallet.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		{
			Name: ToolSwapTokens,
			Desc: "Swap the wallet's base asset for the token at the given contract address.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"contract_address": {Type: schema.String, Desc: "Token contract address to buy", Required: true},
			}),
		},
	}
}
