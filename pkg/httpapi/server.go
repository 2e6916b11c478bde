// Package httpapi exposes the analysis session over a small JSON API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/pranshurastogi/CryptoSentinel/agent/contract"
)

// Session is the conversational surface the API fronts. Every call is scoped
// to a caller-chosen session id.
type Session interface {
	SubmitQuery(ctx context.Context, sessionID, query string) (string, error)
	SubmitTradeDecision(ctx context.Context, sessionID, answer string) (string, error)
	SubmitFollowup(ctx context.Context, sessionID, question string) (string, error)
	HasTradingPrompt(sessionID string) bool
	Reset(sessionID string)
}

type Config struct {
	Addr    string        `envconfig:"ADDR" split_words:"true" default:":8000"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"300s"`
}

type Server struct {
	httpServer *http.Server
	session    Session
	timeout    time.Duration
	startedAt  time.Time
}

func NewServer(cfg Config, session Session) (*Server, error) {
	if session == nil {
		return nil, errors.New("session is required")
	}

	s := &Server{
		session:   session,
		timeout:   cfg.Timeout,
		startedAt: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/trading-decision", s.handleTradingDecision)
	mux.HandleFunc("/api/followup", s.handleFollowup)
	mux.HandleFunc("/api/reset", s.handleReset)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

// Start begins serving in the background.
func (s *Server) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	log.Info().Str("addr", s.httpServer.Addr).Msg("api server listening")
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("api server stopped")
		}
	}()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

type messageRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type replyResponse struct {
	Reply            string `json:"reply"`
	HasTradingPrompt bool   `json:"has_trading_prompt"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"uptime_s": time.Since(s.startedAt).Seconds(),
	})
}

// POST /api/analyze starts a new analysis from the submitted message.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	s.handleSessionCall(w, r, s.session.SubmitQuery)
}

// POST /api/trading-decision resolves a pending buy/skip prompt.
func (s *Server) handleTradingDecision(w http.ResponseWriter, r *http.Request) {
	s.handleSessionCall(w, r, s.session.SubmitTradeDecision)
}

// POST /api/followup asks a question about the current assessment.
func (s *Server) handleFollowup(w http.ResponseWriter, r *http.Request) {
	s.handleSessionCall(w, r, s.session.SubmitFollowup)
}

// POST /api/reset discards the named session.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session id required")
		return
	}

	s.session.Reset(req.SessionID)
	writeJSON(w, http.StatusOK, map[string]any{"status": "reset"})
}

func (s *Server) handleSessionCall(
	w http.ResponseWriter,
	r *http.Request,
	call func(ctx context.Context, sessionID, message string) (string, error),
) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	reply, err := call(ctx, req.SessionID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, contractx.ErrNoActiveSession), errors.Is(err, contractx.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			log.Error().Err(err).Str("path", r.URL.Path).Msg("session call failed")
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, replyResponse{
		Reply:            reply,
		HasTradingPrompt: s.session.HasTradingPrompt(req.SessionID),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
