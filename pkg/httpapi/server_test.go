package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	contractx "github.com/pranshurastogi/CryptoSentinel/agent/contract"
)

type fakeSession struct {
	reply       string
	err         error
	prompt      bool
	resets      int
	lastSession string
	lastInput   string
}

func (f *fakeSession) SubmitQuery(_ context.Context, id, q string) (string, error) {
	f.lastSession = id
	f.lastInput = q
	return f.reply, f.err
}

func (f *fakeSession) SubmitTradeDecision(_ context.Context, id, a string) (string, error) {
	f.lastSession = id
	f.lastInput = a
	return f.reply, f.err
}

func (f *fakeSession) SubmitFollowup(_ context.Context, id, q string) (string, error) {
	f.lastSession = id
	f.lastInput = q
	return f.reply, f.err
}

func (f *fakeSession) HasTradingPrompt(id string) bool {
	f.lastSession = id
	return f.prompt
}

func (f *fakeSession) Reset(id string) {
	f.lastSession = id
	f.resets++
}

func newTestServer(t *testing.T, session Session) *Server {
	t.Helper()
	srv, err := NewServer(Config{Addr: ":0", Timeout: time.Second}, session)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return srv
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeEndpoint(t *testing.T) {
	t.Parallel()

	session := &fakeSession{reply: "Assessment text", prompt: true}
	srv := newTestServer(t, session)

	rec := postJSON(t, srv.Handler(), "/api/analyze", `{"session_id":"s1","message":"check 0xabc"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp replyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Reply != "Assessment text" || !resp.HasTradingPrompt {
		t.Errorf("response = %+v", resp)
	}
	if session.lastSession != "s1" {
		t.Errorf("session id = %q", session.lastSession)
	}
	if session.lastInput != "check 0xabc" {
		t.Errorf("session received %q", session.lastInput)
	}
}

func TestAnalyzeRejectsBadJSON(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeSession{})
	rec := postJSON(t, srv.Handler(), "/api/analyze", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestAnalyzeRejectsGet(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeSession{})
	req := httptest.NewRequest(http.MethodGet, "/api/analyze", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestTradingDecisionWithoutSessionIs400(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeSession{err: contractx.ErrNoActiveSession})
	rec := postJSON(t, srv.Handler(), "/api/trading-decision", `{"session_id":"s1","message":"yes"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "no active") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestInternalFailureIs500(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeSession{err: errors.New("collector exploded")})
	rec := postJSON(t, srv.Handler(), "/api/followup", `{"session_id":"s1","message":"why?"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
	// Internal detail must not leak.
	if strings.Contains(rec.Body.String(), "exploded") {
		t.Errorf("body leaks internals: %s", rec.Body.String())
	}
}

func TestResetEndpoint(t *testing.T) {
	t.Parallel()

	session := &fakeSession{}
	srv := newTestServer(t, session)

	rec := postJSON(t, srv.Handler(), "/api/reset", `{"session_id":"s1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if session.resets != 1 || session.lastSession != "s1" {
		t.Errorf("resets = %d, session = %q", session.resets, session.lastSession)
	}
}

func TestResetRequiresSessionID(t *testing.T) {
	t.Parallel()

	session := &fakeSession{}
	srv := newTestServer(t, session)

	rec := postJSON(t, srv.Handler(), "/api/reset", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if session.resets != 0 {
		t.Errorf("resets = %d", session.resets)
	}
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &fakeSession{})
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}
