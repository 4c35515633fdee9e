package services

import (
	"context"
	"fmt"

	appconfig "stock-dashboard/config"
)

// NewLLMService builds the analysis provider selected by ANALYSIS_PROVIDER
func NewLLMService(ctx context.Context, cfg *appconfig.Config) (LLMService, error) {
	var (
		svc LLMService
		err error
	)

	switch cfg.Analysis.Provider {
	case appconfig.ProviderGemini:
		var gemini *GeminiService
		gemini, err = NewGeminiService(ctx, cfg)
		svc = gemini
	case appconfig.ProviderOpenAI:
		var oai *OpenAIService
		oai, err = NewOpenAIService(cfg)
		svc = oai
	case appconfig.ProviderBedrock:
		var bedrock *BedrockService
		bedrock, err = NewBedrockService(ctx, cfg)
		svc = bedrock
	default:
		return nil, fmt.Errorf("unknown analysis provider %q", cfg.Analysis.Provider)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s provider: %w", cfg.Analysis.Provider, err)
	}
	return svc, nil
}

// BreakerName returns the circuit breaker guarding the given provider
func BreakerName(provider string) string {
	switch provider {
	case appconfig.ProviderOpenAI:
		return BreakerOpenAI
	case appconfig.ProviderBedrock:
		return BreakerBedrock
	default:
		return BreakerGemini
	}
}
