package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/pranshurastogi/CryptoSentinel/agent/contract"
)

// Rater produces the qualitative repository rating.
type Rater struct {
	runner compose.Runnable[map[string]any, *schema.Message]
}

func NewRater(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt string) (*Rater, error) {
	runner, err := compileTextGraph(ctx, chatModel, systemPrompt, "rater.model_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile rater graph: %v", contractx.ErrGeneration, err)
	}
	return &Rater{runner: runner}, nil
}

func (r *Rater) RateRepository(ctx context.Context, metrics contractx.RepoMetrics, author contractx.OwnerMetrics) (string, error) {
	payload := map[string]any{
		"repository": metrics,
		"author":     author,
	}
	input, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: marshal rater payload: %v", contractx.ErrValidation, err)
	}

	msg, err := r.runner.Invoke(ctx, map[string]any{
		"input": string(input),
	})
	if err != nil {
		return "", fmt.Errorf("%w: rater invoke: %v", contractx.ErrGeneration, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", fmt.Errorf("%w: rater returned empty content", contractx.ErrSchemaViolation)
	}
	return strings.TrimSpace(msg.Content), nil
}
