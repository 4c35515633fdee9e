// Package mocks provides an HTTP mock of the OpenAI chat API that answers
// stock analysis prompts with fixture records.
package mocks

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"time"

	"stock-dashboard/models"
)

var tickerPattern = regexp.MustCompile(`Taiwan stock ([A-Z0-9.:-]+)\.`)

// MockServer provides configurable mock responses for the analysis provider.
type MockServer struct {
	mu     sync.RWMutex
	server *httptest.Server

	records map[string]models.StockRecord
	raw     map[string]string
	delay   time.Duration

	// Error injection
	errStatus  int
	errMessage string

	// Request tracking for assertions
	requestLog []RequestLog
}

// RequestLog records incoming requests for test assertions.
type RequestLog struct {
	Method string
	Path   string
	Ticker string
	Body   string
}

// NewMockServer creates a new mock server with the default fixtures.
func NewMockServer() *MockServer {
	m := &MockServer{
		records:    DefaultRecords(),
		raw:        make(map[string]string),
		requestLog: make([]RequestLog, 0),
	}
	m.server = httptest.NewServer(m)
	return m
}

// URL returns the mock server's base URL.
func (m *MockServer) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockServer) Close() {
	m.server.Close()
}

// ServeHTTP answers chat completion requests.
func (m *MockServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	ticker := ""
	if match := tickerPattern.FindSubmatch(body); match != nil {
		ticker = string(match[1])
	}

	m.mu.Lock()
	m.requestLog = append(m.requestLog, RequestLog{
		Method: r.Method,
		Path:   r.URL.Path,
		Ticker: ticker,
		Body:   string(body),
	})
	delay := m.delay
	errStatus, errMessage := m.errStatus, m.errMessage
	m.mu.Unlock()

	if r.Method != http.MethodPost || r.URL.Path != "/chat/completions" {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	if errStatus != 0 {
		writeJSON(w, errStatus, APIError{Error: APIErrorBody{Message: errMessage, Type: "invalid_request_error"}})
		return
	}

	writeJSON(w, http.StatusOK, completion(m.content(ticker)))
}

// content is the assistant text for ticker. Prompts without a ticker are
// health probes.
func (m *MockServer) content(ticker string) string {
	if ticker == "" {
		return `{"ok": true}`
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if raw, ok := m.raw[ticker]; ok {
		return raw
	}
	record, ok := m.records[ticker]
	if !ok {
		return "抱歉，查無此股票代碼的資料。"
	}
	b, _ := json.Marshal(record)
	return "```json\n" + string(b) + "\n```"
}

func completion(content string) ChatCompletion {
	return ChatCompletion{
		ID:      "chatcmpl-mock",
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   "gpt-4o",
		Choices: []ChatChoice{{
			Index:        0,
			FinishReason: "stop",
			Message:      ChatMessage{Role: "assistant", Content: content},
		}},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// GetRequestLog returns all logged requests for assertions.
func (m *MockServer) GetRequestLog() []RequestLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]RequestLog{}, m.requestLog...)
}

// ClearRequestLog clears the request log.
func (m *MockServer) ClearRequestLog() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestLog = make([]RequestLog, 0)
}

// SetRecord configures the record served for a ticker.
func (m *MockServer) SetRecord(ticker string, record models.StockRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[ticker] = record
	delete(m.raw, ticker)
}

// SetRawResponse configures verbatim assistant text for a ticker.
func (m *MockServer) SetRawResponse(ticker, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.raw[ticker] = content
}

// SetDelay makes every completion wait before answering.
func (m *MockServer) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// SetError makes every completion fail with status. A zero status clears it.
func (m *MockServer) SetError(status int, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errStatus = status
	m.errMessage = message
}

// String describes the server for logs.
func (m *MockServer) String() string {
	return fmt.Sprintf("mock openai at %s", m.URL())
}
