package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portfolio-chat/internal/assistant"
	"portfolio-chat/internal/domain"
)

func setupChatRouter(forwarder assistant.Forwarder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(zap.NewNop(), NewChatHandler(zap.NewNop(), forwarder))
}

func performRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		payload, _ = json.Marshal(b)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return resp["error"]
}

func TestChatHandlerPostChat_MissingQuestion(t *testing.T) {
	mock := &assistant.MockClient{}
	r := setupChatRouter(mock)

	rec := performRequest(r, http.MethodPost, "/api/chat", map[string]any{})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "Question is required" {
		t.Fatalf("unexpected error message %q", msg)
	}
	if mock.Calls != 0 {
		t.Fatalf("expected no forward, got %d calls", mock.Calls)
	}
}

func TestChatHandlerPostChat_ForwardsVerbatim(t *testing.T) {
	mock := &assistant.MockClient{Response: json.RawMessage(`{"answer":"Go and Python","confidence":0.9}`)}
	r := setupChatRouter(mock)

	rec := performRequest(r, http.MethodPost, "/api/chat", map[string]string{
		"question":  "What are his skills?",
		"sessionId": "session_1_abc",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != `{"answer":"Go and Python","confidence":0.9}` {
		t.Fatalf("expected verbatim body, got %s", rec.Body.String())
	}
	if mock.Calls != 1 {
		t.Fatalf("expected exactly one forward, got %d", mock.Calls)
	}
	if mock.LastRequest.Question != "What are his skills?" || mock.LastRequest.SessionID != "session_1_abc" {
		t.Fatalf("unexpected forwarded request %+v", mock.LastRequest)
	}
}

func TestChatHandlerPostChat_DefaultSession(t *testing.T) {
	mock := &assistant.MockClient{Response: json.RawMessage(`{"answer":"ok"}`)}
	r := setupChatRouter(mock)

	rec := performRequest(r, http.MethodPost, "/api/chat", map[string]string{"question": "hi"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if mock.LastRequest.SessionID != "default" {
		t.Fatalf("expected default session id, got %q", mock.LastRequest.SessionID)
	}
}

func TestChatHandlerPostChat_UpstreamUnavailable(t *testing.T) {
	mock := &assistant.MockClient{Err: domain.NewChatError(domain.ReasonUpstreamUnavailable, errors.New("status=500"))}
	r := setupChatRouter(mock)

	rec := performRequest(r, http.MethodPost, "/api/chat", map[string]string{"question": "hi"})

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "AI service temporarily unavailable" {
		t.Fatalf("unexpected error message %q", msg)
	}
}

func TestChatHandlerPostChat_UnknownFailure(t *testing.T) {
	mock := &assistant.MockClient{Err: errors.New("connection refused")}
	r := setupChatRouter(mock)

	rec := performRequest(r, http.MethodPost, "/api/chat", map[string]string{"question": "hi"})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "Internal server error" {
		t.Fatalf("unexpected error message %q", msg)
	}
}

func TestChatHandlerPostChat_MalformedBody(t *testing.T) {
	mock := &assistant.MockClient{}
	r := setupChatRouter(mock)

	rec := performRequest(r, http.MethodPost, "/api/chat", `{"question":`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if mock.Calls != 0 {
		t.Fatalf("expected no forward on malformed body")
	}
}

func TestChatHandlerPostChat_AssistantHTTP500(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	r := setupChatRouter(assistant.NewHTTPClient(upstream.URL, upstream.Client(), zap.NewNop()))

	rec := performRequest(r, http.MethodPost, "/api/chat", map[string]string{"question": "hi", "sessionId": "s"})

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "AI service temporarily unavailable" {
		t.Fatalf("unexpected error message %q", msg)
	}
}

func TestChatHandlerPreflight(t *testing.T) {
	r := setupChatRouter(&assistant.MockClient{})

	rec := performRequest(r, http.MethodOptions, "/api/chat", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected allow-origin %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "POST, OPTIONS" {
		t.Fatalf("unexpected allow-methods %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type" {
		t.Fatalf("unexpected allow-headers %q", got)
	}
}

func TestRouterHealthz(t *testing.T) {
	r := setupChatRouter(&assistant.MockClient{})

	rec := performRequest(r, http.MethodGet, "/healthz", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
