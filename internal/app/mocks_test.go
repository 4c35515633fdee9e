package app

import (
	"context"
	"sync"
	"time"

	"stock-dashboard/agents"
	"stock-dashboard/config"
	"stock-dashboard/models"
	"stock-dashboard/observability"

	"github.com/prometheus/client_golang/prometheus"
)

// mockAnalyzer is a hand-written StockAnalyzer. When block is set every call
// waits on it or on ctx.
type mockAnalyzer struct {
	mu      sync.Mutex
	records map[string]*models.StockRecord
	err     error
	block   chan struct{}
	calls   []string
	started chan string
	health  agents.HealthStatus
}

func newMockAnalyzer() *mockAnalyzer {
	return &mockAnalyzer{
		records: make(map[string]*models.StockRecord),
		started: make(chan string, 16),
	}
}

func (m *mockAnalyzer) AnalyzeStock(ctx context.Context, ticker string) (*models.StockRecord, error) {
	m.mu.Lock()
	m.calls = append(m.calls, ticker)
	block := m.block
	err := m.err
	record := m.records[ticker]
	m.mu.Unlock()

	select {
	case m.started <- ticker:
	default:
	}

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if record == nil {
		record = testRecord(ticker)
	}
	return record, nil
}

func (m *mockAnalyzer) Health(ctx context.Context) agents.HealthStatus {
	return m.health
}

func (m *mockAnalyzer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func testRecord(ticker string) *models.StockRecord {
	r := &models.StockRecord{
		Symbol:        ticker,
		Name:          "測試 " + ticker,
		Price:         "100.00",
		Change:        "+1.50",
		ChangePercent: "+1.52%",
		UpdateTime:    "2024/07/05 13:30",
	}
	r.Normalize()
	return r
}

// testApp creates an App with test config and an isolated metrics registry
func testApp(analyst agents.StockAnalyzer) *App {
	a := New(config.NewTestConfig(), analyst)
	a.metrics = observability.NewMetrics(prometheus.NewRegistry())
	return a
}

// waitFor polls cond until it holds or the deadline passes
func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
