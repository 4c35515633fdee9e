package mocks

import "stock-dashboard/models"

// ChatCompletion is the subset of the OpenAI chat completion response the
// client reads.
type ChatCompletion struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
}

// ChatChoice is one completion choice.
type ChatChoice struct {
	Index        int         `json:"index"`
	FinishReason string      `json:"finish_reason"`
	Message      ChatMessage `json:"message"`
}

// ChatMessage is an assistant message.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// APIError is the OpenAI error envelope.
type APIError struct {
	Error APIErrorBody `json:"error"`
}

// APIErrorBody describes a failed request.
type APIErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// DefaultRecords are the fixtures served for well-known tickers.
func DefaultRecords() map[string]models.StockRecord {
	return map[string]models.StockRecord{
		"2330": {
			Symbol:        "2330",
			Name:          "台積電",
			Sector:        "半導體業",
			Price:         "1,050.00",
			Change:        "+15.00",
			ChangePercent: "+1.45%",
			UpdateTime:    "2024/07/05 13:30",
			MarketCap:     "27.2兆",
			PERatio:       "28.6",
			PBRatio:       "7.9",
			DividendYield: "1.5%",
			EPS:           "36.7",
			RevenueHistory: []models.RevenueEntry{
				{Date: "2024/06", Revenue: 2078.7, MoM: "-10.5%", YoY: "+32.9%"},
				{Date: "2024/04", Revenue: 2360.2, MoM: "+20.9%", YoY: "+59.6%"},
				{Date: "2024/05", Revenue: 2296.2, MoM: "-2.7%", YoY: "+30.1%"},
			},
			MarginHistory: []models.MarginEntry{
				{Quarter: "24Q1", OperatingMargin: 42.0, NetProfitMargin: 38.0},
				{Quarter: "23Q4", OperatingMargin: 41.6, NetProfitMargin: 38.2},
			},
			AISummary: "台積電受惠 **AI 需求**，營收動能強勁。",
			News: []models.NewsEntry{
				{Title: "台積電6月營收公布", Source: "MoneyDJ", Date: "2024/07/05", URL: "https://m.moneydj.com/news/1"},
			},
		},
		"2317": {
			Symbol:        "2317",
			Name:          "鴻海",
			Sector:        "其他電子業",
			Price:         "205.50",
			Change:        "-3.50",
			ChangePercent: "-1.67%",
			UpdateTime:    "2024/07/05 13:30",
		},
	}
}
