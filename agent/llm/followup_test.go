package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	contractx "github.com/pranshurastogi/CryptoSentinel/agent/contract"
	openrouterx "github.com/pranshurastogi/CryptoSentinel/pkg/openrouter"
)

func newFollowupTestAnswerer(t *testing.T, handler http.Handler) *FollowupAnswerer {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := openrouterx.NewClient(openrouterx.Config{
		APIKey:  "test-key",
		BaseURL: srv.URL,
	})
	answerer, err := NewFollowupAnswerer(client, "test/model", "followup prompt")
	if err != nil {
		t.Fatalf("NewFollowupAnswerer() error = %v", err)
	}
	return answerer
}

func TestFollowupAnswererUsesHistory(t *testing.T) {
	t.Parallel()

	answerer := newFollowupTestAnswerer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		// system + 2 history turns + new question
		if len(req.Messages) != 4 {
			t.Errorf("got %d messages", len(req.Messages))
		}
		if req.Messages[2].Role != "assistant" {
			t.Errorf("history assistant turn has role %q", req.Messages[2].Role)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"The risk score reflects the audit findings."}}]}`))
	}))

	history := []contractx.Turn{
		{Role: contractx.RoleUser, Content: "analyze widget"},
		{Role: contractx.RoleAssistant, Content: "assessment text"},
	}
	answer, err := answerer.AnswerFollowup(context.Background(), history, "why is the risk high?")
	if err != nil {
		t.Fatalf("AnswerFollowup() error = %v", err)
	}
	if answer != "The risk score reflects the audit findings." {
		t.Errorf("answer = %q", answer)
	}
}

func TestFollowupAnswererRemoteFailure(t *testing.T) {
	t.Parallel()

	answerer := newFollowupTestAnswerer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := answerer.AnswerFollowup(context.Background(), nil, "why?")
	if !errors.Is(err, contractx.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
}

func TestFollowupAnswererEmptyQuestion(t *testing.T) {
	t.Parallel()

	answerer := newFollowupTestAnswerer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty question")
	}))

	_, err := answerer.AnswerFollowup(context.Background(), nil, "  ")
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
