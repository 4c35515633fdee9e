package services

import (
	"context"

	"stock-dashboard/models"
)

// LLMService sends a single system+user prompt pair to a language model
type LLMService interface {
	InvokeWithPrompt(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// GroundedLLMService is an LLMService that can answer with live web search
// grounding and report the pages it used
type GroundedLLMService interface {
	LLMService
	InvokeGrounded(ctx context.Context, systemPrompt, userPrompt string) (*GroundedResponse, error)
}

// GroundedResponse is model text plus the web sources that grounded it
type GroundedResponse struct {
	Text    string
	Sources []models.SourceRef
}

// Compile-time interface verification
var _ GroundedLLMService = (*GeminiService)(nil)
var _ LLMService = (*OpenAIService)(nil)
var _ LLMService = (*BedrockService)(nil)
