package agents

import (
	"context"
	"fmt"
	"time"

	"stock-dashboard/models"
	"stock-dashboard/observability"
	"stock-dashboard/services"
)

const (
	probeSystemPrompt = `Reply with the JSON object {"ok": true} and nothing else.`
	probeUserPrompt   = "ping"
)

// taipei is fixed at UTC+8; Taiwan has no daylight saving time.
var taipei = time.FixedZone("Asia/Taipei", 8*60*60)

// StockAnalyst asks a language model, grounded on web search when the
// provider supports it, for a complete StockRecord.
type StockAnalyst struct {
	llm         LLMService
	provider    string
	prompts     *PromptLibrary
	healthCache *HealthCache
	now         func() time.Time
}

// NewStockAnalyst creates a new StockAnalyst using the embedded prompts
func NewStockAnalyst(llm LLMService, provider string) *StockAnalyst {
	return NewStockAnalystWithCacheTTL(llm, provider, DefaultHealthCacheTTL)
}

// NewStockAnalystWithCacheTTL creates a StockAnalyst with a custom probe cache TTL
func NewStockAnalystWithCacheTTL(llm LLMService, provider string, cacheTTL time.Duration) *StockAnalyst {
	return &StockAnalyst{
		llm:         llm,
		provider:    provider,
		prompts:     DefaultPrompts(),
		healthCache: NewHealthCache(cacheTTL),
		now:         time.Now,
	}
}

// Provider returns the configured analysis provider name
func (a *StockAnalyst) Provider() string {
	return a.provider
}

// AnalyzeStock fetches a snapshot for ticker. Any answer that cannot be
// decoded or lacks required fields is reported as models.ErrMalformedRecord.
func (a *StockAnalyst) AnalyzeStock(ctx context.Context, ticker string) (*models.StockRecord, error) {
	log := observability.WithTicker(ticker).With("provider", a.provider)

	prompt := a.prompts.StockAnalysis
	userPrompt, err := prompt.RenderUser(PromptData{
		Ticker: ticker,
		Today:  a.now().In(taipei).Format("2006/01/02"),
	})
	if err != nil {
		return nil, err
	}

	var (
		text    string
		sources []models.SourceRef
	)
	if grounded, ok := a.llm.(GroundedLLMService); ok {
		resp, err := grounded.InvokeGrounded(ctx, prompt.System, userPrompt)
		if err != nil {
			return nil, fmt.Errorf("failed to invoke %s: %w", a.provider, err)
		}
		text, sources = resp.Text, resp.Sources
	} else {
		text, err = a.llm.InvokeWithPrompt(ctx, prompt.System, userPrompt)
		if err != nil {
			return nil, fmt.Errorf("failed to invoke %s: %w", a.provider, err)
		}
	}

	var record models.StockRecord
	if err := services.DecodeJSON(text, &record); err != nil {
		log.Warn("analysis response was not JSON", "error", err, "response_bytes", len(text))
		return nil, fmt.Errorf("%w: %v", models.ErrMalformedRecord, err)
	}

	if record.Symbol == "" {
		record.Symbol = ticker
	}
	record.SourceURLs = append(record.SourceURLs, sources...)
	record.Normalize()

	if err := record.Validate(); err != nil {
		log.Warn("analysis response rejected", "error", err)
		return nil, err
	}

	log.Debug("stock record decoded",
		"revenue_points", len(record.RevenueHistory),
		"margin_points", len(record.MarginHistory),
		"news", len(record.News),
		"sources", len(record.SourceURLs))

	return &record, nil
}

// Health reports whether the provider is answering. The breaker is consulted
// first; a live probe is made at most once per cache TTL.
func (a *StockAnalyst) Health(ctx context.Context) HealthStatus {
	if status, valid := a.healthCache.Get(); valid {
		return status
	}

	if !services.GetGlobalRegistry().Ready(services.BreakerName(a.provider)) {
		return a.healthCache.Set(fmt.Errorf("%w: %s circuit breaker open", services.ErrServiceUnavailable, a.provider))
	}

	text, err := a.llm.InvokeWithPrompt(ctx, probeSystemPrompt, probeUserPrompt)
	if err == nil {
		var probe struct {
			OK bool `json:"ok"`
		}
		err = services.DecodeJSON(text, &probe)
	}
	if err != nil {
		observability.WithProvider(a.provider).Warn("analyst health probe failed", "error", err)
	}
	return a.healthCache.Set(err)
}

// InvalidateHealthCache clears the probe cache
func (a *StockAnalyst) InvalidateHealthCache() {
	a.healthCache.Invalidate()
}
