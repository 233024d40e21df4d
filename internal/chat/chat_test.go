package chat

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kbukum/modkit/bootstrap"
	"github.com/kbukum/modkit/config"
	"github.com/kbukum/modkit/di"
	"github.com/kbukum/modkit/internal/auth"
	"github.com/kbukum/modkit/internal/claude"
	"github.com/kbukum/modkit/internal/httpserver"
	"github.com/kbukum/modkit/logger"
	"github.com/kbukum/modkit/observability"
)

type fakeAssistant struct {
	reply    string
	err      error
	requests []claude.CompletionRequest
	history  map[string][]claude.Message
}

func newFakeAssistant(reply string) *fakeAssistant {
	return &fakeAssistant{reply: reply, history: map[string][]claude.Message{}}
}

func (f *fakeAssistant) Complete(ctx context.Context, req claude.CompletionRequest) (*claude.CompletionResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &claude.CompletionResponse{ID: "msg_1", Model: req.Model, Text: f.reply, StopReason: "end_turn"}, nil
}

func (f *fakeAssistant) Conversation(ctx context.Context, id, message string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.history[id] = append(f.history[id],
		claude.Message{Role: claude.RoleUser, Content: message},
		claude.Message{Role: claude.RoleAssistant, Content: f.reply},
	)
	return f.reply, nil
}

func (f *fakeAssistant) History(id string) []claude.Message { return f.history[id] }

func (f *fakeAssistant) ClearConversation(id string) { delete(f.history, id) }

func newTestServer() *httpserver.Server {
	cfg := httpserver.Config{Host: "127.0.0.1"}
	cfg.ApplyDefaults()
	return httpserver.New(cfg, logger.NewNop())
}

func do(t *testing.T, h http.Handler, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestChat(t *testing.T) {
	srv := newTestServer()
	fake := newFakeAssistant("Hello there")
	NewChatController(srv, fake, nil)

	w := do(t, srv.Handler(), http.MethodPost, "/chat", `{"message":"hi","system":"be brief","model":"claude-haiku-4-5"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Data claude.CompletionResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Text != "Hello there" {
		t.Errorf("unexpected reply %+v", body.Data)
	}

	req := fake.requests[0]
	if req.System != "be brief" || req.Model != claude.ModelHaiku || req.Messages[0].Content != "hi" {
		t.Errorf("unexpected upstream request %+v", req)
	}
}

func TestChatErrors(t *testing.T) {
	srv := newTestServer()
	fake := newFakeAssistant("")
	NewChatController(srv, fake, nil)

	if w := do(t, srv.Handler(), http.MethodPost, "/chat", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing message, got %d", w.Code)
	}

	fake.err = stderrors.New("overloaded")
	w := do(t, srv.Handler(), http.MethodPost, "/chat", `{"message":"hi"}`)
	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502 for upstream failure, got %d", w.Code)
	}

	fake.err = fmt.Errorf("claude: %w", context.DeadlineExceeded)
	w = do(t, srv.Handler(), http.MethodPost, "/conversations/c1", `{"message":"hi"}`)
	if w.Code != http.StatusGatewayTimeout {
		t.Errorf("expected 504 for timeout, got %d", w.Code)
	}
}

func TestConversationRoutes(t *testing.T) {
	srv := newTestServer()
	fake := newFakeAssistant("ok")
	NewChatController(srv, fake, nil)
	h := srv.Handler()

	w := do(t, h, http.MethodPost, "/conversations/c1", `{"message":"first"}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"history":2`) {
		t.Fatalf("unexpected turn response %d: %s", w.Code, w.Body.String())
	}

	w = do(t, h, http.MethodGet, "/conversations/c1", "")
	if !strings.Contains(w.Body.String(), `"content":"first"`) {
		t.Errorf("expected stored history, got %s", w.Body.String())
	}

	if w = do(t, h, http.MethodDelete, "/conversations/c1", ""); w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
	w = do(t, h, http.MethodGet, "/conversations/c1", "")
	if w.Body.String() != `{"data":[]}` {
		t.Errorf("expected empty history, got %s", w.Body.String())
	}
}

func TestEstimateTokens(t *testing.T) {
	srv := newTestServer()
	NewChatController(srv, newFakeAssistant(""), nil)

	w := do(t, srv.Handler(), http.MethodPost, "/tokens/estimate", `{"text":"abcdefgh"}`)
	if w.Body.String() != `{"data":{"tokens":2}}` {
		t.Errorf("unexpected estimate %s", w.Body.String())
	}
}

func TestChatRequiresTokenWhenGuarded(t *testing.T) {
	verifier, err := auth.NewVerifier(auth.Options{Enabled: true, Secret: "s3cret"})
	if err != nil {
		t.Fatalf("NewVerifier failed: %v", err)
	}
	srv := newTestServer()
	NewChatController(srv, newFakeAssistant("ok"), verifier)

	if w := do(t, srv.Handler(), http.MethodPost, "/chat", `{"message":"hi"}`); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", w.Code)
	}
	token, _ := verifier.Issue("user-1", "chat")
	w := do(t, srv.Handler(), http.MethodPost, "/chat", `{"message":"hi"}`, "Authorization", "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with token, got %d", w.Code)
	}
}

type fixedReadiness struct {
	report *observability.Report
	err    error
}

func (f fixedReadiness) ReadyCheck(ctx context.Context) (*observability.Report, error) {
	return f.report, f.err
}

func TestHealthController(t *testing.T) {
	srv := newTestServer()
	report := observability.NewReport("chat-api", "id-1")
	report.Add(observability.Health{Name: "http-server", Status: observability.HealthStatusDown})
	NewHealthController(srv, "chat-api", fixedReadiness{report: report, err: stderrors.New("unhealthy components: [http-server]")})

	w := do(t, srv.Handler(), http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"service":"chat-api"`) || !strings.Contains(w.Body.String(), `"version":`) {
		t.Errorf("unexpected liveness %d: %s", w.Code, w.Body.String())
	}
	w = do(t, srv.Handler(), http.MethodGet, "/ready", "")
	if w.Code != http.StatusServiceUnavailable || !strings.Contains(w.Body.String(), `"status":"down"`) {
		t.Errorf("unexpected readiness %d: %s", w.Code, w.Body.String())
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{ServiceConfig: config.ServiceConfig{Name: "chat-api"}}
	cfg.ApplyDefaults()
	if cfg.Server.Port != 8080 || cfg.Claude.Model != claude.ModelSonnet {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestAppModuleServesOverHTTP(t *testing.T) {
	cfg := Config{
		ServiceConfig: config.ServiceConfig{Name: "chat-api"},
		Server:        httpserver.Config{Host: "127.0.0.1"},
	}
	var summary bytes.Buffer
	ctx := context.Background()

	app, err := bootstrap.Create(ctx, AppModule(cfg),
		bootstrap.WithLogger(logger.NewNop()),
		bootstrap.WithSignals(false),
		bootstrap.WithSummaryWriter(&summary),
	)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer app.Close(ctx, "")

	srv, err := di.Resolve[*httpserver.Server](ctx, app, httpserver.ServerClass.Token())
	if err != nil {
		t.Fatalf("resolve server: %v", err)
	}
	if _, ok := di.TryResolve[*auth.Verifier](ctx, app, auth.VerifierClass.Token()); ok {
		t.Error("expected no verifier when auth is disabled")
	}

	resp, err := http.Get(fmt.Sprintf("http://%s/ready", srv.Addr()))
	if err != nil {
		t.Fatalf("ready request failed: %v", err)
	}
	var report observability.Report
	err = json.NewDecoder(resp.Body).Decode(&report)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected ready, got %d", resp.StatusCode)
	}
	if report.AppID != app.ID() || report.Status != observability.HealthStatusDegraded {
		t.Errorf("expected degraded report without an API key, got %+v", report)
	}

	out := summary.String()
	for _, want := range []string{"AppModule", "HTTPServerModule", "ClaudeModule", "ChatController.Chat", "/conversations/:id"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected summary to mention %q:\n%s", want, out)
		}
	}

	if err := app.Close(ctx, ""); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if _, err := http.Get(fmt.Sprintf("http://%s/health", srv.Addr())); err == nil {
		t.Error("expected server to stop listening after Close")
	}
}
