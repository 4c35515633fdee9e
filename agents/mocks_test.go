package agents

import (
	"context"
	"sync"

	"stock-dashboard/models"
	"stock-dashboard/services"
)

type mockLLMService struct {
	mu       sync.Mutex
	response string
	err      error
	calls    int

	lastSystem string
	lastUser   string
}

func (m *mockLLMService) InvokeWithPrompt(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.lastSystem = systemPrompt
	m.lastUser = userPrompt
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLMService) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockGroundedLLMService struct {
	mockLLMService
	sources       []models.SourceRef
	groundedCalls int
}

func (m *mockGroundedLLMService) InvokeGrounded(ctx context.Context, systemPrompt, userPrompt string) (*services.GroundedResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.groundedCalls++
	m.lastSystem = systemPrompt
	m.lastUser = userPrompt
	if m.err != nil {
		return nil, m.err
	}
	return &services.GroundedResponse{Text: m.response, Sources: m.sources}, nil
}

const tsmcResponse = `{
  "symbol": "2330",
  "name": "台積電",
  "sector": "半導體業",
  "price": "1,050.00",
  "change": "+15.00",
  "changePercent": "+1.45%",
  "updateTime": "2024/07/05 13:30",
  "marketCap": "27.2兆",
  "peRatio": "28.5",
  "pbRatio": "7.1",
  "dividendYield": "1.5%",
  "eps": "36.87",
  "revenueHistory": [
    {"date": "2024/03", "revenue": 1952.9, "mom": "+7.5%", "yoy": "+34.3%"},
    {"date": "2024/01", "revenue": 2157.9, "mom": "+22.4%", "yoy": "+7.9%"},
    {"date": "2024/02", "revenue": 1816.5, "mom": "-15.8%", "yoy": "+11.3%"}
  ],
  "marginHistory": [
    {"quarter": "24Q1", "operatingMargin": 42.0, "netProfitMargin": 38.0},
    {"quarter": "23Q4", "operatingMargin": 41.6, "netProfitMargin": 38.2}
  ],
  "aiSummary": "**AI 需求**帶動先進製程營收成長。",
  "news": [
    {"title": "台積電6月營收創同期新高", "source": "鉅亨網", "date": "2024/07/10", "url": "https://news.cnyes.com/1"}
  ],
  "sourceUrls": [
    {"title": "MOPS", "uri": "https://mops.twse.com.tw/a"}
  ]
}`
