package services

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	appconfig "stock-dashboard/config"
	"stock-dashboard/models"
	"stock-dashboard/observability"
)

// geminiClient defines the interface for Gemini API calls (for testing)
type geminiClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// geminiClientWrapper wraps the genai.Client to implement our interface
type geminiClientWrapper struct {
	client *genai.Client
}

func (w *geminiClientWrapper) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return w.client.Models.GenerateContent(ctx, model, contents, config)
}

// GeminiService handles communication with the Gemini API
type GeminiService struct {
	client          geminiClient
	model           string
	searchGrounding bool
}

// NewGeminiService creates a new GeminiService instance
func NewGeminiService(ctx context.Context, cfg *appconfig.Config) (*GeminiService, error) {
	if cfg.Gemini.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiService{
		client:          &geminiClientWrapper{client: client},
		model:           cfg.Gemini.Model,
		searchGrounding: cfg.Gemini.SearchGrounding,
	}, nil
}

// newGeminiServiceWithClient creates a GeminiService with a custom client (for testing)
func newGeminiServiceWithClient(client geminiClient, model string, searchGrounding bool) *GeminiService {
	return &GeminiService{
		client:          client,
		model:           model,
		searchGrounding: searchGrounding,
	}
}

// InvokeWithPrompt sends a prompt to Gemini without search grounding and
// asks for a JSON response
func (s *GeminiService) InvokeWithPrompt(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	config := s.baseConfig(systemPrompt)
	config.ResponseMIMEType = "application/json"

	resp, err := s.generate(ctx, "generate", userPrompt, config)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// InvokeGrounded sends a prompt to Gemini with Google Search grounding and
// returns the text with the web pages the answer was grounded on. When
// grounding is disabled in configuration it behaves like InvokeWithPrompt.
func (s *GeminiService) InvokeGrounded(ctx context.Context, systemPrompt, userPrompt string) (*GroundedResponse, error) {
	if !s.searchGrounding {
		text, err := s.InvokeWithPrompt(ctx, systemPrompt, userPrompt)
		if err != nil {
			return nil, err
		}
		return &GroundedResponse{Text: text}, nil
	}

	// The search tool cannot be combined with a JSON response MIME type.
	config := s.baseConfig(systemPrompt)
	config.Tools = []*genai.Tool{
		{GoogleSearch: &genai.GoogleSearch{}},
	}

	resp, err := s.generate(ctx, "generate_grounded", userPrompt, config)
	if err != nil {
		return nil, err
	}

	observability.GetMetrics().RecordGroundingSources(BreakerGemini, len(resp.Sources))
	return resp, nil
}

func (s *GeminiService) baseConfig(systemPrompt string) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.1),
	}
	if systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}
	return config
}

func (s *GeminiService) generate(ctx context.Context, operation, prompt string, config *genai.GenerateContentConfig) (*GroundedResponse, error) {
	metrics := observability.GetMetrics()
	metrics.RecordExternalAPIRequest(BreakerGemini, operation)
	timer := metrics.NewTimer()

	result, err := WithCircuitBreaker(ctx, BreakerGemini, func() (*GroundedResponse, error) {
		resp, err := s.client.GenerateContent(ctx, s.model, genai.Text(prompt), config)
		if err != nil {
			return nil, fmt.Errorf("gemini generation failed: %w", err)
		}

		text := strings.TrimSpace(resp.Text())
		if text == "" {
			return nil, fmt.Errorf("empty response from Gemini")
		}

		return &GroundedResponse{
			Text:    text,
			Sources: groundingSources(resp),
		}, nil
	})

	timer.ObserveExternalAPI(BreakerGemini, operation)
	if err != nil {
		metrics.RecordExternalAPIError(BreakerGemini, operation, categorizeAPIError(err))
	}
	return result, err
}

// groundingSources lists the web pages attached to the first candidate
func groundingSources(resp *genai.GenerateContentResponse) []models.SourceRef {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return nil
	}

	var sources []models.SourceRef
	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		sources = append(sources, models.SourceRef{
			Title: chunk.Web.Title,
			URI:   chunk.Web.URI,
		})
	}
	return sources
}
