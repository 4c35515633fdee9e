package services

import (
	"context"
	"strings"
	"testing"

	"stock-dashboard/config"
)

func TestNewLLMService(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{
			name:    "gemini without key",
			mutate:  func(c *config.Config) { c.Analysis.Provider = config.ProviderGemini },
			wantErr: "GEMINI_API_KEY",
		},
		{
			name: "openai with key",
			mutate: func(c *config.Config) {
				c.Analysis.Provider = config.ProviderOpenAI
				c.OpenAI.APIKey = "sk-test"
			},
		},
		{
			name:    "bedrock without region",
			mutate:  func(c *config.Config) { c.Analysis.Provider = config.ProviderBedrock },
			wantErr: "AWS_REGION",
		},
		{
			name:    "unknown",
			mutate:  func(c *config.Config) { c.Analysis.Provider = "watsonx" },
			wantErr: "unknown analysis provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewTestConfig()
			tt.mutate(cfg)

			svc, err := NewLLMService(context.Background(), cfg)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error %q should contain %q", err.Error(), tt.wantErr)
				}
				if svc != nil {
					t.Error("service should be nil on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, ok := svc.(*OpenAIService); !ok {
				t.Errorf("expected *OpenAIService, got %T", svc)
			}
		})
	}
}

func TestBreakerName(t *testing.T) {
	if BreakerName(config.ProviderGemini) != BreakerGemini {
		t.Error("gemini breaker mismatch")
	}
	if BreakerName(config.ProviderOpenAI) != BreakerOpenAI {
		t.Error("openai breaker mismatch")
	}
	if BreakerName(config.ProviderBedrock) != BreakerBedrock {
		t.Error("bedrock breaker mismatch")
	}
}
