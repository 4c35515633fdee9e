package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedRecord is returned when the analysis service answers with a
// record that cannot be displayed.
var ErrMalformedRecord = errors.New("malformed stock record")

// StockRecord is one snapshot for a ticker as returned by the analysis service.
// Optional string fields are empty when the service has no value.
type StockRecord struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Sector        string `json:"sector,omitempty"`
	Price         string `json:"price"`
	Change        string `json:"change"`
	ChangePercent string `json:"changePercent"`
	UpdateTime    string `json:"updateTime"`

	MarketCap     string `json:"marketCap,omitempty"`
	PERatio       string `json:"peRatio,omitempty"`
	PBRatio       string `json:"pbRatio,omitempty"`
	DividendYield string `json:"dividendYield,omitempty"`
	EPS           string `json:"eps,omitempty"`

	RevenueHistory []RevenueEntry `json:"revenueHistory"`
	MarginHistory  []MarginEntry  `json:"marginHistory"`

	AISummary string `json:"aiSummary"`

	News       []NewsEntry `json:"news"`
	SourceURLs []SourceRef `json:"sourceUrls"`
}

// RevenueEntry is one month of revenue. Date is a "YYYY/MM" label.
type RevenueEntry struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	MoM     string  `json:"mom"`
	YoY     string  `json:"yoy"`
}

// MarginEntry is one quarter of profitability ratios. Quarter is a "23Q4" label.
type MarginEntry struct {
	Quarter         string  `json:"quarter"`
	OperatingMargin float64 `json:"operatingMargin"`
	NetProfitMargin float64 `json:"netProfitMargin"`
}

// NewsEntry is a headline about the stock, kept in received order.
type NewsEntry struct {
	Title  string `json:"title"`
	Source string `json:"source"`
	Date   string `json:"date"`
	URL    string `json:"url"`
}

// SourceRef is a provenance link supporting the narrative summary.
type SourceRef struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Validate reports whether the record carries the fields the dashboard
// cannot render without.
func (r *StockRecord) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil record", ErrMalformedRecord)
	}

	var missing []string
	if strings.TrimSpace(r.Symbol) == "" {
		missing = append(missing, "symbol")
	}
	if strings.TrimSpace(r.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(r.Price) == "" {
		missing = append(missing, "price")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrMalformedRecord, strings.Join(missing, ", "))
	}
	return nil
}

// Normalize trims string fields and replaces nil collections with empty ones
// so that consumers never need nil checks.
func (r *StockRecord) Normalize() {
	for _, s := range []*string{
		&r.Symbol, &r.Name, &r.Sector, &r.Price, &r.Change, &r.ChangePercent,
		&r.UpdateTime, &r.MarketCap, &r.PERatio, &r.PBRatio, &r.DividendYield,
		&r.EPS, &r.AISummary,
	} {
		*s = strings.TrimSpace(*s)
	}

	if r.RevenueHistory == nil {
		r.RevenueHistory = []RevenueEntry{}
	}
	if r.MarginHistory == nil {
		r.MarginHistory = []MarginEntry{}
	}
	if r.News == nil {
		r.News = []NewsEntry{}
	}

	sources := make([]SourceRef, 0, len(r.SourceURLs))
	seen := make(map[string]bool, len(r.SourceURLs))
	for _, s := range r.SourceURLs {
		s.URI = strings.TrimSpace(s.URI)
		if s.URI == "" || seen[s.URI] {
			continue
		}
		seen[s.URI] = true
		if strings.TrimSpace(s.Title) == "" {
			s.Title = s.URI
		}
		sources = append(sources, s)
	}
	r.SourceURLs = sources
}

// HasSources reports whether the service returned grounding links.
func (r *StockRecord) HasSources() bool {
	return len(r.SourceURLs) > 0
}
