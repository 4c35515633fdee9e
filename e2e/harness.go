// Package e2e provides end-to-end testing infrastructure for the dashboard.
// The real provider client runs against an in-process mock of the OpenAI
// chat API, so no network access or credentials are needed.
package e2e

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"stock-dashboard/agents"
	"stock-dashboard/config"
	"stock-dashboard/e2e/mocks"
	"stock-dashboard/internal/api"
	"stock-dashboard/internal/app"
	"stock-dashboard/services"
)

// TestHarness provides the infrastructure for running E2E tests.
type TestHarness struct {
	t          *testing.T
	ctx        context.Context
	cancel     context.CancelFunc
	mockServer *mocks.MockServer
	app        *app.App
	router     http.Handler
	config     *config.Config
}

// NewTestHarness creates a new test harness.
func NewTestHarness(t *testing.T) *TestHarness {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)

	return &TestHarness{
		t:      t,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Setup starts the mock provider and wires the application against it.
func (h *TestHarness) Setup() error {
	h.mockServer = mocks.NewMockServer()
	h.config = TestConfig(h.mockServer.URL())

	services.SetGlobalRegistry(services.NewCircuitBreakerRegistry(services.DefaultCircuitBreakerConfig))

	llm, err := services.NewLLMService(h.ctx, h.config)
	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}
	analyst := agents.NewStockAnalyst(llm, h.config.Analysis.Provider)

	h.app = app.New(h.config, analyst)
	h.app.Startup(h.ctx)

	handler := api.NewHandler(h.app, h.config)
	h.router = api.NewRouter(handler, h.config)

	return nil
}

// Teardown cleans up all test resources.
func (h *TestHarness) Teardown() {
	if h.app != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := h.app.Shutdown(shutdownCtx); err != nil {
			h.t.Logf("app shutdown: %v", err)
		}
		cancel()
	}

	if h.cancel != nil {
		h.cancel()
	}

	if h.mockServer != nil {
		h.mockServer.Close()
	}

	services.SetGlobalRegistry(nil)
}

// TestConfig returns a config that talks to the OpenAI-compatible API at
// baseURL.
func TestConfig(baseURL string) *config.Config {
	cfg := config.NewTestConfig()
	cfg.Analysis.Provider = config.ProviderOpenAI
	cfg.Analysis.TimeoutSeconds = 10
	cfg.OpenAI.APIKey = "test-key"
	cfg.OpenAI.BaseURL = baseURL
	return cfg
}

// Context returns the test context.
func (h *TestHarness) Context() context.Context {
	return h.ctx
}

// MockServer returns the mock server for configuring responses.
func (h *TestHarness) MockServer() *mocks.MockServer {
	return h.mockServer
}

// App returns the application instance.
func (h *TestHarness) App() *app.App {
	return h.app
}

// Router returns the HTTP router for making requests.
func (h *TestHarness) Router() http.Handler {
	return h.router
}

// Config returns the test configuration.
func (h *TestHarness) Config() *config.Config {
	return h.config
}

// DoRequest performs an HTTP request with a JSON body and returns the response.
func (h *TestHarness) DoRequest(method, path string, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := h.newRequest(method, path, body, "application/json", cookies)
	return h.serve(req)
}

// DoFormRequest submits form values as a browser would.
func (h *TestHarness) DoFormRequest(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := h.newRequest(http.MethodPost, path, form.Encode(), "application/x-www-form-urlencoded", cookies)
	return h.serve(req)
}

// DoHTMXRequest performs an HTMX request and returns the response.
func (h *TestHarness) DoHTMXRequest(method, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	body := ""
	if form != nil {
		body = form.Encode()
	}
	req := h.newRequest(method, path, body, "application/x-www-form-urlencoded", cookies)
	req.Header.Set("HX-Request", "true")
	return h.serve(req)
}

func (h *TestHarness) newRequest(method, path, body, contentType string, cookies []*http.Cookie) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", contentType)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func (h *TestHarness) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

// SessionCookie returns the session cookie set by resp, if any.
func SessionCookie(resp *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range resp.Result().Cookies() {
		if c.Name == api.SessionCookie {
			return c
		}
	}
	return nil
}

// WaitForPhase polls the session's state until it reaches phase.
func (h *TestHarness) WaitForPhase(cookie *http.Cookie, phase app.Phase) app.State {
	h.t.Helper()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		sess, _ := h.app.Session(cookie.Value)
		if st := sess.State(); st.Phase == phase {
			return st
		}
		time.Sleep(10 * time.Millisecond)
	}

	sess, _ := h.app.Session(cookie.Value)
	h.t.Fatalf("session never reached %s, state: %+v", phase, sess.State())
	return app.State{}
}
