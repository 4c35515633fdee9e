package templates

import (
	"strings"

	"stock-dashboard/chart"
	"stock-dashboard/internal/app"

	"github.com/a-h/templ"
)

// DashboardOptions configure how a session state is rendered
type DashboardOptions struct {
	Chart chart.Options
	// PollSeconds is how often a loading dashboard asks for an update
	PollSeconds int
	// Notice is an extra message shown above the state, such as rejected input
	Notice string
}

// Dashboard renders one session state. It is the htmx swap target, so the
// outer element always carries id="dashboard".
func Dashboard(st app.State, opts DashboardOptions) templ.Component {
	return component(func(h *htmlWriter) {
		if st.Loading() && opts.PollSeconds > 0 {
			h.rawf(`<div id="dashboard" hx-get="/" hx-trigger="load delay:%ds" hx-swap="outerHTML">`, opts.PollSeconds)
		} else {
			h.raw(`<div id="dashboard">`)
		}

		if opts.Notice != "" {
			h.render(ErrorBanner(opts.Notice))
		}
		if st.Error != "" {
			h.render(ErrorBanner(st.Error))
		}

		switch {
		case st.Loading():
			h.render(Loading(st.Ticker))
		case st.Record != nil:
			h.render(Record(app.BuildView(st.Record, opts.Chart)))
		default:
			h.render(Idle())
		}

		h.raw(`</div>`)
	})
}

// ErrorBanner is the failure message shown above the dashboard
func ErrorBanner(message string) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="error-banner" role="alert">`)
		h.text(message)
		h.raw(`</div>`)
	})
}

// Loading names the ticker being analyzed
func Loading(ticker string) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="loading" aria-busy="true"><p>正在分析 `)
		h.text(ticker)
		h.raw(` 市場數據...</p>`)
		h.raw(`<small>讀取 MOPS 財務報表 (月營收 &amp; 獲利能力)...</small>`)
		h.raw(`<small>載入 TradingView 技術線圖...</small>`)
		h.raw(`<small>彙整 HiStock &amp; MoneyDJ 新聞資訊...</small></div>`)
	})
}

// Idle is shown before the first search
func Idle() templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="idle"><h2>請輸入台股代碼 (例如: 2330)</h2></div>`)
	})
}

// Record lays out a fetched record
func Record(v app.View) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="grid">`)
		h.raw(`<section>`)
		h.render(QuoteCard(v))
		h.render(ChartWidget(v.Chart))
		h.raw(`</section><section>`)
		h.render(Summary(v.Record.AISummary))
		h.render(MetricsGrid(v.Metrics))
		h.raw(`</section></div>`)

		h.render(Financials(v))

		h.raw(`<div class="grid">`)
		h.render(NewsList(v.Record.News))
		h.render(Sources(v))
		h.raw(`</div>`)
	})
}

// QuoteCard is the price headline, colored by the day's change
func QuoteCard(v app.View) templ.Component {
	r := v.Record
	return component(func(h *htmlWriter) {
		h.raw(`<div class="card quote"><div><h2>`)
		h.text(r.Symbol)
		h.raw(`</h2>`)
		if r.Sector != "" {
			h.raw(`<span class="badge">`)
			h.text(r.Sector)
			h.raw(`</span>`)
		}
		h.raw(`<h3>`)
		h.text(r.Name)
		h.raw(`</h3></div>`)

		h.rawf(`<div class="price %s"><strong>`, v.Quote.Direction)
		h.text(r.Price)
		h.raw(`</strong><div>`)
		h.text(strings.TrimSpace(r.Change + " (" + r.ChangePercent + ")"))
		h.raw(`</div></div>`)

		h.raw(`<div class="muted">最後更新: `)
		h.text(r.UpdateTime)
		h.raw(`</div>`)
		if r.MarketCap != "" {
			h.raw(`<div class="muted">市值: `)
			h.text(r.MarketCap)
			h.raw(`</div>`)
		}
		h.raw(`</div>`)
	})
}

// ChartWidget embeds the technical chart widget
func ChartWidget(cfg chart.WidgetConfig) templ.Component {
	return component(func(h *htmlWriter) {
		data, err := cfg.JSON()
		if err != nil {
			h.err = err
			return
		}
		h.raw(`<div class="card chart tradingview-widget-container">`)
		h.raw(`<div class="tradingview-widget-container__widget"></div>`)
		h.rawf(`<script type="text/javascript" src="%s" async>`, chart.ScriptURL)
		// json.Marshal escapes <, > and & so the payload cannot close the tag
		h.raw(data)
		h.raw(`</script></div>`)
	})
}

// Summary renders the narrative analysis as markdown
func Summary(markdownText string) templ.Component {
	return component(func(h *htmlWriter) {
		body, err := RenderMarkdown(markdownText)
		if err != nil {
			h.err = err
			return
		}
		h.raw(`<div class="card summary"><h3>AI 市場分析觀點</h3>`)
		if body == "" {
			h.rawf(`<p class="empty">%s</p>`, app.NotAvailable)
		} else {
			h.raw(body)
		}
		h.raw(`</div>`)
	})
}

// MetricsGrid shows the four valuation ratios
func MetricsGrid(metrics []app.Metric) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="metrics">`)
		for _, m := range metrics {
			h.raw(`<div class="card metric"><div class="muted">`)
			h.text(m.Label)
			h.raw(`</div><strong>`)
			h.text(m.Value)
			h.raw(`</strong><div class="muted">`)
			h.text(m.Caption)
			h.raw(`</div></div>`)
		}
		h.raw(`</div>`)
	})
}
