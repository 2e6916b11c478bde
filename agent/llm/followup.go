package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"

	contractx "github.com/pranshurastogi/CryptoSentinel/agent/contract"
)

// FollowupAnswerer answers questions about a finished assessment. It talks to
// the completion API directly because follow-ups are plain chat over prior
// turns, with no template variables and no output schema to enforce.
type FollowupAnswerer struct {
	client       *openaisdk.Client
	model        string
	systemPrompt string
}

func NewFollowupAnswerer(client *openaisdk.Client, model, systemPrompt string) (*FollowupAnswerer, error) {
	if client == nil {
		return nil, errors.New("openai client is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("%w: followup model is required", contractx.ErrValidation)
	}
	return &FollowupAnswerer{
		client:       client,
		model:        strings.TrimSpace(model),
		systemPrompt: strings.TrimSpace(systemPrompt),
	}, nil
}

func (f *FollowupAnswerer) AnswerFollowup(ctx context.Context, history []contractx.Turn, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("%w: followup question is empty", contractx.ErrValidation)
	}

	messages := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(history)+2)
	if f.systemPrompt != "" {
		messages = append(messages, openaisdk.SystemMessage(f.systemPrompt))
	}
	for _, turn := range history {
		switch turn.Role {
		case contractx.RoleAssistant:
			messages = append(messages, openaisdk.AssistantMessage(turn.Content))
		default:
			messages = append(messages, openaisdk.UserMessage(turn.Content))
		}
	}
	messages = append(messages, openaisdk.UserMessage(question))

	completion, err := f.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model:    f.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("%w: followup completion: %v", contractx.ErrGeneration, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: followup completion has no choices", contractx.ErrGeneration)
	}

	answer := strings.TrimSpace(completion.Choices[0].Message.Content)
	if answer == "" {
		return "", fmt.Errorf("%w: followup completion is empty", contractx.ErrSchemaViolation)
	}
	return answer, nil
}
