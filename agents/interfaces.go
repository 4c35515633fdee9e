package agents

import (
	"context"

	"stock-dashboard/models"
	"stock-dashboard/services"
)

// Type aliases for service interfaces defined in the services package
type LLMService = services.LLMService
type GroundedLLMService = services.GroundedLLMService

// StockAnalyzer turns a ticker into a displayable stock record
type StockAnalyzer interface {
	AnalyzeStock(ctx context.Context, ticker string) (*models.StockRecord, error)
	Health(ctx context.Context) HealthStatus
}

var _ StockAnalyzer = (*StockAnalyst)(nil)
