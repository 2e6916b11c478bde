package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	contractx "github.com/pranshurastogi/CryptoSentinel/agent/contract"
)

// Assessor aggregates collected evidence into the structured assessment.
// It always returns a well-formed Assessment: when the model call fails the
// canonical failed assessment is returned with a nil error so the analysis
// can still conclude.
type Assessor struct {
	runner compose.Runnable[map[string]any, assessorLLMOutput]
	now    func() time.Time
}

type assessorLLMOutput struct {
	CodeActivity     contractx.ScoreCard `json:"code_activity"`
	ContractRisk     contractx.ScoreCard `json:"smart_contract_risk"`
	TokenPerformance contractx.ScoreCard `json:"token_performance"`
	SocialSentiment  contractx.ScoreCard `json:"social_sentiment"`
	RiskReward       float64             `json:"risk_reward_ratio"`
	Confidence       float64             `json:"confidence_score"`
	Recommendation   string              `json:"final_recommendation"`
}

func NewAssessor(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt string) (*Assessor, error) {
	runner, err := compileStructuredLLMGraph[assessorLLMOutput](ctx, chatModel, systemPrompt, "assessor.structured_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile assessor graph: %v", contractx.ErrGeneration, err)
	}
	return &Assessor{runner: runner, now: time.Now}, nil
}

func (a *Assessor) Assess(ctx context.Context, input contractx.AssessmentInput) (contractx.Assessment, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return contractx.Assessment{}, fmt.Errorf("%w: marshal assessment input: %v", contractx.ErrValidation, err)
	}

	out, err := a.runner.Invoke(ctx, map[string]any{
		"input": string(payload),
	})
	if err != nil {
		log.Error().Err(err).Msg("assessment generation failed, returning failed assessment")
		return contractx.FailedAssessment(a.now()), nil
	}

	assessment := contractx.Assessment{
		CodeActivity:     out.CodeActivity,
		ContractRisk:     out.ContractRisk,
		TokenPerformance: out.TokenPerformance,
		SocialSentiment:  out.SocialSentiment,
		RiskReward:       clampRange(out.RiskReward, 5),
		Confidence:       clampRange(out.Confidence, 100),
		Recommendation:   strings.TrimSpace(out.Recommendation),
		GeneratedAt:      a.now().UTC(),
	}
	if assessment.Recommendation == "" {
		assessment.Recommendation = "No recommendation produced."
	}

	enforceEvidenceBounds(&assessment, input)
	return assessment, nil
}

// enforceEvidenceBounds overrides scores the model produced for dimensions
// that had no evidence. The model is told to do this itself; this pass makes
// the guarantee unconditional.
func enforceEvidenceBounds(assessment *contractx.Assessment, input contractx.AssessmentInput) {
	assessment.CodeActivity.Rating = clampScore(assessment.CodeActivity.Rating)
	assessment.ContractRisk.Rating = clampScore(assessment.ContractRisk.Rating)
	assessment.TokenPerformance.Rating = clampScore(assessment.TokenPerformance.Rating)
	assessment.SocialSentiment.Rating = clampScore(assessment.SocialSentiment.Rating)

	if input.Repository == nil {
		markInsufficient(&assessment.CodeActivity)
	}
	if strings.TrimSpace(input.ContractNarrative) == "" {
		markInsufficient(&assessment.ContractRisk)
	}
	if input.Market == nil {
		markInsufficient(&assessment.TokenPerformance)
		markInsufficient(&assessment.SocialSentiment)
	}
}

func markInsufficient(card *contractx.ScoreCard) {
	card.Rating = 0
	card.Error = contractx.InsufficientData
}

func clampScore(v float64) float64 {
	return clampRange(v, 10)
}

func clampRange(v, upper float64) float64 {
	if v < 0 {
		return 0
	}
	if v > upper {
		return upper
	}
	return v
}
