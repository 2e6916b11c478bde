package state

import (
	"errors"
	"fmt"
	"strings"
	"time"

	contractx "github.com/pranshurastogi/CryptoSentinel/agent/contract"
)

// AnalysisState is the single mutable record threaded through the research
// workflow. It is created on the first query of a session, owned by the
// session facade, and mutated only by orchestrator-invoked stages.
type AnalysisState struct {
	// Identity
	SessionID string `json:"session_id"`
	Query     string `json:"query"`

	// Conversation history, append-only and bounded. Used only by follow-up
	// handling, never by routing.
	Turns []contractx.Turn `json:"turns,omitempty"`

	// Classification, set once. Kind is empty until the classify stage runs.
	Classification contractx.Classification `json:"classification"`

	// Canonical values resolved from classification or search.
	RepositoryRef   string `json:"repository_ref,omitempty"`
	ContractAddress string `json:"contract_address,omitempty"`
	ProjectName     string `json:"project_name,omitempty"`

	// SearchAttempted marks that repository search ran, so an empty result
	// does not send routing back into the search stage.
	SearchAttempted bool `json:"search_attempted,omitempty"`

	// Evidence, each written at most once per state lifetime.
	Repository Evidence[contractx.RepositoryEvidence] `json:"repository"`
	Contract   Evidence[contractx.ContractEvidence]   `json:"contract"`
	Market     Evidence[contractx.MarketEvidence]     `json:"market"`

	// Assessment presence signals analysis completion.
	Assessment Evidence[contractx.Assessment] `json:"assessment"`

	// Trading. Decision is set by the caller between invocations, never by
	// the orchestrator; result is written at most once by the trade gate.
	TradeDecision contractx.TradeDecision `json:"trade_decision,omitempty"`
	TradeResult   string                  `json:"trade_result,omitempty"`

	// Stage is the orchestrator's own position indicator.
	Stage Stage `json:"stage"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const maxHistoryTurns = 20

var (
	ErrNilState         = errors.New("analysis state is nil")
	ErrEmptySession     = errors.New("session id is empty")
	ErrReclassification = errors.New("classification already set")
)

func NewAnalysisState(sessionID, query string, now time.Time) *AnalysisState {
	return &AnalysisState{
		SessionID: strings.TrimSpace(sessionID),
		Query:     strings.TrimSpace(query),
		Stage:     StageClassify,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

func (s *AnalysisState) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// AppendTurn records a conversational turn, discarding the oldest entries
// beyond the history bound.
func (s *AnalysisState) AppendTurn(role, content string) {
	s.Turns = append(s.Turns, contractx.Turn{Role: role, Content: content})
	if len(s.Turns) > maxHistoryTurns {
		s.Turns = s.Turns[len(s.Turns)-maxHistoryTurns:]
	}
}

// LastExchange returns the most recent user/assistant pair, which is the only
// context follow-up handling sees.
func (s *AnalysisState) LastExchange() []contractx.Turn {
	if len(s.Turns) <= 2 {
		return s.Turns
	}
	return s.Turns[len(s.Turns)-2:]
}

// SetClassification records the classifier verdict once and propagates the
// canonical value into the matching routing field.
func (s *AnalysisState) SetClassification(c contractx.Classification) error {
	if s.Classification.Kind != "" {
		return ErrReclassification
	}
	s.Classification = c
	switch c.Kind {
	case contractx.InputRepository:
		s.RepositoryRef = c.Value
	case contractx.InputContractAddress:
		s.ContractAddress = c.Value
	case contractx.InputProjectName:
		s.ProjectName = c.Value
	default:
		return fmt.Errorf("%w: unknown input kind=%q", contractx.ErrValidation, c.Kind)
	}
	return nil
}

// AssessmentComplete reports whether every evidence source produced a present
// result, which is the gate for the trade-decision prompt.
func (s *AnalysisState) AssessmentComplete() bool {
	return s.Repository.IsPresent() && s.Contract.IsPresent() && s.Market.IsPresent()
}

// Closed reports whether the state reached a terminal trade outcome.
func (s *AnalysisState) Closed() bool {
	return s.TradeResult != "" || s.TradeDecision == contractx.TradeDeclined
}

func (s *AnalysisState) Validate() error {
	if s == nil {
		return ErrNilState
	}
	if strings.TrimSpace(s.SessionID) == "" {
		return ErrEmptySession
	}
	if s.Classification.Kind == "" && s.Stage != StageClassify {
		return fmt.Errorf("%w: stage=%s before classification", contractx.ErrValidation, s.Stage)
	}
	if s.TradeResult != "" && !s.Assessment.Resolved() {
		return fmt.Errorf("%w: trade result without assessment", contractx.ErrValidation)
	}
	switch s.TradeDecision {
	case "", contractx.TradeConfirmed, contractx.TradeDeclined:
	default:
		return fmt.Errorf("%w: invalid trade decision=%q", contractx.ErrValidation, s.TradeDecision)
	}
	return nil
}
