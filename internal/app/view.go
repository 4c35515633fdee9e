package app

import (
	"net/url"

	"stock-dashboard/chart"
	"stock-dashboard/config"
	"stock-dashboard/financials"
	"stock-dashboard/models"
)

// NotAvailable is shown in place of a missing optional value
const NotAvailable = "N/A"

// fallbackSources are listed when the service returned no grounding links
var fallbackSources = []models.SourceRef{
	{Title: "MOPS 公開資訊觀測站", URI: "https://mops.twse.com.tw"},
	{Title: "MoneyDJ 理財網", URI: "https://m.moneydj.com"},
}

// View is a record prepared for display. Collections are ordered oldest to
// newest and every derived value is computed once here.
type View struct {
	Record *models.StockRecord `json:"record"`

	Quote   Quote                `json:"quote"`
	Metrics []Metric             `json:"metrics"`
	Revenue []RevenueRow         `json:"revenue"`
	Margins []models.MarginEntry `json:"margins"`

	// Growth is nil when fewer than two months are available or the oldest
	// month has zero revenue.
	Growth *financials.Growth `json:"growth,omitempty"`

	Chart      chart.WidgetConfig `json:"chart"`
	References []models.SourceRef `json:"references"`
	Sources    []models.SourceRef `json:"sources"`

	// SourcesFallback is true when Sources are the static defaults
	SourcesFallback bool `json:"sourcesFallback"`
}

// Quote is the price headline
type Quote struct {
	Direction financials.Direction `json:"direction"`
	Color     financials.Color     `json:"color"`
}

// Metric is one valuation ratio card
type Metric struct {
	Label   string `json:"label"`
	Caption string `json:"caption"`
	Value   string `json:"value"`
}

// RevenueRow is one month of revenue with its change directions
type RevenueRow struct {
	models.RevenueEntry
	MoMDirection financials.Direction `json:"momDirection"`
	YoYDirection financials.Direction `json:"yoyDirection"`
	Latest       bool                 `json:"latest"`
}

// BuildView derives the display model for record. opts configure the
// chart widget.
func BuildView(record *models.StockRecord, opts chart.Options) View {
	quoteDir := financials.ClassifyPoint(record.Change)

	v := View{
		Record: record,
		Quote:  Quote{Direction: quoteDir, Color: quoteDir.Color()},
		Metrics: []Metric{
			{Label: "本益比 (P/E)", Caption: "PER", Value: orNA(record.PERatio)},
			{Label: "股價淨值比 (P/B)", Caption: "PBR", Value: orNA(record.PBRatio)},
			{Label: "殖利率", Caption: "Yield", Value: orNA(record.DividendYield)},
			{Label: "每股盈餘 (EPS)", Caption: "Earnings", Value: orNA(record.EPS)},
		},
		Margins:    financials.SortMargins(record.MarginHistory),
		Chart:      chart.NewWidgetConfig(record.Symbol, opts),
		References: ReferenceLinks(record.Symbol),
	}

	revenue := financials.SortRevenue(record.RevenueHistory)
	v.Revenue = make([]RevenueRow, len(revenue))
	for i, e := range revenue {
		v.Revenue[i] = RevenueRow{
			RevenueEntry: e,
			MoMDirection: financials.ClassifyPoint(e.MoM),
			YoYDirection: financials.ClassifyPoint(e.YoY),
			Latest:       i == len(revenue)-1,
		}
	}
	if g, ok := financials.RangeGrowth(revenue); ok {
		v.Growth = &g
	}

	if record.HasSources() {
		v.Sources = record.SourceURLs
	} else {
		v.Sources = fallbackSources
		v.SourcesFallback = true
	}

	return v
}

// ReferenceLinks are the third-party chart pages always listed for symbol
func ReferenceLinks(symbol string) []models.SourceRef {
	s := url.PathEscape(symbol)
	return []models.SourceRef{
		{Title: "WantGoo 玩股網技術線圖", URI: "https://www.wantgoo.com/stock/" + s + "/technical-chart"},
		{Title: "GoodInfo 股市資訊網", URI: "https://goodinfo.tw/tw/ShowK_Chart.asp?STOCK_ID=" + url.QueryEscape(symbol)},
	}
}

// ChartOptions converts the configured widget settings
func ChartOptions(c config.ChartConfig) chart.Options {
	opts := chart.DefaultOptions()
	if c.Exchange != "" {
		opts.Exchange = c.Exchange
	}
	if c.Interval != "" {
		opts.Interval = c.Interval
	}
	if c.Timezone != "" {
		opts.Timezone = c.Timezone
	}
	if c.Theme != "" {
		opts.Theme = c.Theme
	}
	if c.Locale != "" {
		opts.Locale = c.Locale
	}
	return opts
}

func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}
