package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"google.golang.org/genai"

	"stock-dashboard/config"
)

// mockGeminiClient implements geminiClient for testing
type mockGeminiClient struct {
	generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

func (m *mockGeminiClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return m.generateFunc(ctx, model, contents, config)
}

func geminiResponse(text string, chunks ...*genai.GroundingChunk) *genai.GenerateContentResponse {
	cand := &genai.Candidate{
		Content: &genai.Content{
			Role:  "model",
			Parts: []*genai.Part{{Text: text}},
		},
	}
	if len(chunks) > 0 {
		cand.GroundingMetadata = &genai.GroundingMetadata{GroundingChunks: chunks}
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{cand}}
}

func webChunk(title, uri string) *genai.GroundingChunk {
	return &genai.GroundingChunk{Web: &genai.GroundingChunkWeb{Title: title, URI: uri}}
}

func TestNewGeminiService_MissingAPIKey(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.Gemini.APIKey = ""

	_, err := NewGeminiService(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected error when API key is missing")
	}
	if !strings.Contains(err.Error(), "GEMINI_API_KEY is required") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestGeminiInvokeGrounded_Success(t *testing.T) {
	SetGlobalRegistry(NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig))

	var gotModel string
	var gotConfig *genai.GenerateContentConfig
	mockClient := &mockGeminiClient{
		generateFunc: func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			gotModel = model
			gotConfig = config
			return geminiResponse(`{"symbol":"2330"}`,
				webChunk("MOPS", "https://mops.twse.com.tw/a"),
				&genai.GroundingChunk{},
				webChunk("cnyes", "https://news.cnyes.com/b"),
			), nil
		},
	}

	service := newGeminiServiceWithClient(mockClient, "gemini-2.5-flash", true)

	resp, err := service.InvokeGrounded(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotModel != "gemini-2.5-flash" {
		t.Errorf("model = %s, want gemini-2.5-flash", gotModel)
	}
	if len(gotConfig.Tools) != 1 || gotConfig.Tools[0].GoogleSearch == nil {
		t.Error("expected the Google Search tool to be enabled")
	}
	if gotConfig.ResponseMIMEType != "" {
		t.Errorf("grounded call must not force a MIME type, got %q", gotConfig.ResponseMIMEType)
	}
	if gotConfig.SystemInstruction == nil || gotConfig.SystemInstruction.Parts[0].Text != "system prompt" {
		t.Error("expected the system prompt as system instruction")
	}

	if resp.Text != `{"symbol":"2330"}` {
		t.Errorf("unexpected text %q", resp.Text)
	}
	if len(resp.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(resp.Sources))
	}
	if resp.Sources[1].URI != "https://news.cnyes.com/b" || resp.Sources[1].Title != "cnyes" {
		t.Errorf("unexpected source %+v", resp.Sources[1])
	}
}

func TestGeminiInvokeGrounded_GroundingDisabled(t *testing.T) {
	SetGlobalRegistry(NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig))

	mockClient := &mockGeminiClient{
		generateFunc: func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			if len(config.Tools) != 0 {
				t.Error("search tool should not be set when grounding is disabled")
			}
			if config.ResponseMIMEType != "application/json" {
				t.Errorf("expected JSON MIME type, got %q", config.ResponseMIMEType)
			}
			return geminiResponse(`{}`), nil
		},
	}

	service := newGeminiServiceWithClient(mockClient, "gemini-2.5-flash", false)

	resp, err := service.InvokeGrounded(context.Background(), "", "user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Sources) != 0 {
		t.Errorf("expected no sources, got %d", len(resp.Sources))
	}
}

func TestGeminiInvokeWithPrompt_APIError(t *testing.T) {
	SetGlobalRegistry(NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig))

	mockClient := &mockGeminiClient{
		generateFunc: func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return nil, errors.New("Error 429, RESOURCE_EXHAUSTED")
		},
	}

	service := newGeminiServiceWithClient(mockClient, "gemini-2.5-flash", true)

	_, err := service.InvokeWithPrompt(context.Background(), "system", "user")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "gemini generation failed") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestGeminiInvokeWithPrompt_EmptyResponse(t *testing.T) {
	SetGlobalRegistry(NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig))

	mockClient := &mockGeminiClient{
		generateFunc: func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return &genai.GenerateContentResponse{}, nil
		},
	}

	service := newGeminiServiceWithClient(mockClient, "gemini-2.5-flash", true)

	_, err := service.InvokeWithPrompt(context.Background(), "system", "user")
	if err == nil || !strings.Contains(err.Error(), "empty response from Gemini") {
		t.Errorf("expected empty response error, got %v", err)
	}
}

func TestGroundingSources_NilSafe(t *testing.T) {
	if got := groundingSources(nil); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	if got := groundingSources(&genai.GenerateContentResponse{}); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	if got := groundingSources(geminiResponse("x")); got != nil {
		t.Errorf("expected nil without metadata, got %v", got)
	}
}
