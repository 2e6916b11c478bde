package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/pranshurastogi/CryptoSentinel/agent/contract"
	toolx "github.com/pranshurastogi/CryptoSentinel/agent/tool"
)

// The loop is bounded so a model that keeps requesting tools cannot spin
// forever against the wallet.
const maxTradeIterations = 6

// Trader drives the tool-calling purchase flow. The model plans tool calls,
// the executor runs them against the wallet, and their results are fed back
// until the model produces a final report.
type Trader struct {
	model    einomodel.ToolCallingChatModel
	executor toolx.Executor
	prompt   string
}

func NewTrader(
	chatModel einomodel.ToolCallingChatModel,
	wallet contractx.Wallet,
	systemPrompt string,
) (*Trader, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: trader chat model is required", contractx.ErrValidation)
	}
	if wallet == nil {
		wallet = toolx.UnconfiguredWallet{}
	}

	infos, executor := toolx.BuildForTrading(wallet)
	toolModel, err := chatModel.WithTools(infos)
	if err != nil {
		return nil, fmt.Errorf("%w: bind trading tools: %v", contractx.ErrGeneration, err)
	}

	return &Trader{
		model:    toolModel,
		executor: executor,
		prompt:   strings.TrimSpace(systemPrompt),
	}, nil
}

func (t *Trader) ExecuteTrade(ctx context.Context, address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", fmt.Errorf("%w: contract address is required", contractx.ErrValidation)
	}

	messages := []*schema.Message{
		schema.SystemMessage(t.prompt),
		schema.UserMessage(fmt.Sprintf("Buy the token at contract address %s.", address)),
	}

	for i := 0; i < maxTradeIterations; i++ {
		msg, err := t.model.Generate(ctx, messages)
		if err != nil {
			return "", fmt.Errorf("%w: trade generate: %v", contractx.ErrGeneration, err)
		}
		if msg == nil {
			return "", fmt.Errorf("%w: empty trade response", contractx.ErrSchemaViolation)
		}

		if len(msg.ToolCalls) == 0 {
			report := strings.TrimSpace(msg.Content)
			if report == "" {
				return "", fmt.Errorf("%w: trade report is empty", contractx.ErrSchemaViolation)
			}
			return report, nil
		}

		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			result := t.runToolCall(ctx, call)
			payload, err := json.Marshal(result)
			if err != nil {
				return "", fmt.Errorf("%w: marshal tool result: %v", contractx.ErrValidation, err)
			}
			messages = append(messages, schema.ToolMessage(string(payload), call.ID))
		}
	}

	return "", fmt.Errorf("%w: trade did not conclude within %d steps", contractx.ErrGeneration, maxTradeIterations)
}

func (t *Trader) runToolCall(ctx context.Context, call schema.ToolCall) contractx.ToolResult {
	name := strings.TrimSpace(call.Function.Name)

	args := map[string]any{}
	if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return contractx.ToolResult{
				Tool:  name,
				Error: fmt.Sprintf("invalid tool arguments: %v", err),
			}
		}
	}

	result, err := t.executor(ctx, name, args)
	if err != nil {
		return contractx.ToolResult{Tool: name, Error: err.Error()}
	}

	log.Debug().Str("tool", name).Str("error", result.Error).Msg("trading tool executed")
	return result
}
