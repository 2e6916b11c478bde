// Package session is the conversational surface over the analysis workflow.
// It keeps one analysis per caller-supplied session id, turns orchestrator
// state into user facing replies, and closes a session once its trade
// decision has played out.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/pranshurastogi/CryptoSentinel/agent/contract"
	statex "github.com/pranshurastogi/CryptoSentinel/agent/state"
)

// Runner advances an analysis state to its next resting point.
type Runner interface {
	Run(ctx context.Context, st *statex.AnalysisState) error
}

// session serializes all work on one analysis. Its lock is held for the
// duration of a run so concurrent callers on the same id queue up, while
// different sessions proceed independently.
type session struct {
	mu    sync.Mutex
	state *statex.AnalysisState
}

type Facade struct {
	runner   Runner
	answerer contractx.Answerer
	archive  statex.Archive
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func New(runner Runner, answerer contractx.Answerer, archive statex.Archive) (*Facade, error) {
	if runner == nil {
		return nil, errors.New("runner is required")
	}
	if answerer == nil {
		return nil, errors.New("answerer is required")
	}
	if archive == nil {
		archive = statex.NoopArchive{}
	}
	return &Facade{
		runner:   runner,
		answerer: answerer,
		archive:  archive,
		now:      time.Now,
		sessions: make(map[string]*session),
	}, nil
}

// SubmitQuery starts a fresh analysis under the given session id, replacing
// any analysis that session had in progress, and returns the rendered
// assessment reply.
func (f *Facade) SubmitQuery(ctx context.Context, sessionID, query string) (string, error) {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return "", fmt.Errorf("%w: session id is empty", contractx.ErrValidation)
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("%w: query is empty", contractx.ErrValidation)
	}

	s := f.lookup(id, true)
	s.mu.Lock()
	defer s.mu.Unlock()

	st := statex.NewAnalysisState(id, query, f.now())
	st.AppendTurn(contractx.RoleUser, query)

	if err := f.runner.Run(ctx, st); err != nil {
		return "", err
	}
	s.state = st

	reply := renderAnalysisReply(st)
	st.AppendTurn(contractx.RoleAssistant, reply)

	// A session that finished without a trade prompt is archived right away
	// but stays live for follow-up questions.
	if st.Stage.Terminal() {
		f.record(ctx, st)
	}
	return reply, nil
}

// HasTradingPrompt reports whether the session is waiting for a buy/skip
// decision.
func (f *Facade) HasTradingPrompt(sessionID string) bool {
	s := f.lookup(sessionID, false)
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != nil && s.state.Stage.Suspended()
}

// SubmitTradeDecision resolves the pending trade prompt. Affirmative answers
// trigger the trade; everything else declines it. Either way the session is
// archived and removed.
func (f *Facade) SubmitTradeDecision(ctx context.Context, sessionID, answer string) (string, error) {
	s := f.lookup(sessionID, false)
	if s == nil {
		return "", contractx.ErrNoActiveSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	if st == nil || !st.Stage.Suspended() {
		return "", contractx.ErrNoActiveSession
	}

	st.AppendTurn(contractx.RoleUser, answer)
	if isAffirmative(answer) {
		st.TradeDecision = contractx.TradeConfirmed
	} else {
		st.TradeDecision = contractx.TradeDeclined
	}

	if err := f.runner.Run(ctx, st); err != nil {
		return "", err
	}

	reply := renderTradeReply(st)
	st.AppendTurn(contractx.RoleAssistant, reply)

	f.record(ctx, st)
	s.state = nil
	f.drop(sessionID)
	return reply, nil
}

// SubmitFollowup answers a question against the session's latest exchange.
// Generation failures are reported in the reply text, not as errors, so the
// session survives a flaky model call.
func (f *Facade) SubmitFollowup(ctx context.Context, sessionID, question string) (string, error) {
	s := f.lookup(sessionID, false)
	if s == nil {
		return "", contractx.ErrNoActiveSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	if st == nil {
		return "", contractx.ErrNoActiveSession
	}

	answer, err := f.answerer.AnswerFollowup(ctx, st.LastExchange(), question)
	if err != nil {
		log.Warn().Err(err).Str("session", st.SessionID).Msg("followup generation failed")
		answer = fmt.Sprintf("Error processing follow-up question: %v", err)
	}

	st.AppendTurn(contractx.RoleUser, question)
	st.AppendTurn(contractx.RoleAssistant, answer)
	st.Touch(f.now())
	return answer, nil
}

// Reset drops the session. Unknown ids are a no-op.
func (f *Facade) Reset(sessionID string) {
	f.drop(sessionID)
}

func (f *Facade) lookup(id string, create bool) *session {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok && create {
		s = &session{}
		f.sessions[id] = s
	}
	return s
}

func (f *Facade) drop(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
}

func (f *Facade) record(ctx context.Context, st *statex.AnalysisState) {
	if err := f.archive.Record(ctx, st); err != nil {
		log.Error().Err(err).Str("session", st.SessionID).Msg("archive record failed")
	}
}

func isAffirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "yes", "y", "buy":
		return true
	default:
		return false
	}
}
