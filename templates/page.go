package templates

import (
	"github.com/a-h/templ"
)

const htmxScript = "https://unpkg.com/htmx.org@2.0.4"

// PageOptions control the document shell
type PageOptions struct {
	Ticker string
	// RefreshSeconds reloads the page while a fetch is loading and
	// scripting is disabled. Zero disables it.
	RefreshSeconds int
}

// Page wraps body in the document shell with the search header
func Page(opts PageOptions, body templ.Component) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="zh-Hant"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		if opts.RefreshSeconds > 0 {
			h.rawf(`<noscript><meta http-equiv="refresh" content="%d"></noscript>`, opts.RefreshSeconds)
		}
		h.raw(`<title>`)
		if opts.Ticker != "" {
			h.text(opts.Ticker + " - ")
		}
		h.raw(`台股分析儀表板</title>`)
		h.rawf(`<script src="%s"></script>`, htmxScript)
		h.raw(`<style>` + styles + `</style></head><body>`)
		h.render(SearchHeader(opts.Ticker))
		h.raw(`<main class="container">`)
		h.render(body)
		h.raw(`</main></body></html>`)
	})
}

// SearchHeader is the ticker search form. With htmx the dashboard is
// swapped in place; without it the form posts and redirects.
func SearchHeader(ticker string) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<header class="header"><div class="container header-inner">`)
		h.raw(`<h1 class="brand">台股分析儀表板</h1>`)
		h.raw(`<form action="/search" method="post" hx-post="/search" hx-target="#dashboard" hx-swap="outerHTML" class="search">`)
		h.raw(`<input type="text" name="ticker" maxlength="10" placeholder="輸入股票代碼 (例如: 2330)" value="`)
		h.text(ticker)
		h.raw(`" aria-label="股票代碼">`)
		h.raw(`<button type="submit">搜尋</button></form></div></header>`)
	})
}

const styles = `
body{margin:0;font-family:system-ui,"Noto Sans TC",sans-serif;background:#f9fafb;color:#111827}
.container{max-width:80rem;margin:0 auto;padding:0 1rem}
.header{background:#fff;border-bottom:1px solid #e5e7eb}
.header-inner{display:flex;justify-content:space-between;align-items:center;padding:1rem}
.brand{font-size:1.25rem;margin:0}
.search input{padding:.5rem;border:1px solid #d1d5db;border-radius:.5rem}
.search button{padding:.5rem 1rem;border:0;border-radius:.5rem;background:#4f46e5;color:#fff}
main.container{padding:2rem 1rem}
.card{background:#fff;border:1px solid #e5e7eb;border-radius:.75rem;padding:1.5rem;margin-bottom:1.5rem}
.grid{display:grid;gap:1.5rem;grid-template-columns:repeat(auto-fit,minmax(20rem,1fr))}
.metrics{display:grid;gap:1rem;grid-template-columns:1fr 1fr}
.error-banner{background:#fef2f2;border:1px solid #fecaca;color:#b91c1c;padding:.75rem 1rem;border-radius:.5rem;margin-bottom:1.5rem}
.loading{text-align:center;padding:6rem 0;color:#6b7280}
.loading small{display:block;font-size:.75rem;color:#9ca3af}
.idle{text-align:center;padding:5rem 0;color:#d1d5db}
.up{color:#ef4444}
.down{color:#16a34a}
.badge{display:inline-block;padding:.125rem .5rem;border-radius:999px;font-size:.75rem;border:1px solid}
.badge.up{background:#fef2f2;border-color:#fee2e2}
.badge.down{background:#f0fdf4;border-color:#dcfce7}
.muted{color:#9ca3af;font-size:.75rem}
.empty{color:#6b7280}
table{width:100%;border-collapse:collapse;font-size:.875rem}
td,th{padding:.25rem .5rem;text-align:right}
td:first-child,th:first-child{text-align:left}
tr.latest{font-weight:600;background:#eef2ff}
.bar{height:.5rem;background:#cbd5e1;border-radius:.25rem}
tr.latest .bar{background:#4f46e5}
.summary{background:#eef2ff;border-color:#e0e7ff}
.chart{height:32rem}
`
