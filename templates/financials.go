package templates

import (
	"stock-dashboard/financials"
	"stock-dashboard/internal/app"
	"stock-dashboard/models"

	"github.com/a-h/templ"
	"github.com/shopspring/decimal"
)

// EmptyData is shown for a revenue or margin history with no entries
const EmptyData = "暫無資料。"

// Financials is the revenue and profitability card
func Financials(v app.View) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="card financials"><h3>財務表現 (MOPS/TWSE)</h3>`)
		h.raw(`<span class="muted">經會計師查核/自結數</span>`)
		h.raw(`<div class="grid">`)
		h.render(RevenueTable(v.Revenue, v.Growth))
		h.render(MarginTable(v.Margins))
		h.raw(`</div></div>`)
	})
}

// RevenueTable lists monthly revenue oldest first with the latest month
// highlighted. growth may be nil.
func RevenueTable(rows []app.RevenueRow, growth *financials.Growth) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="revenue"><h4>月營收 (近12個月)`)
		if growth != nil {
			h.rawf(` <span class="badge %s">`, growth.Direction)
			h.text(growth.Label)
			h.raw(`</span>`)
		}
		h.raw(`</h4><span class="muted">單位: 億</span>`)

		if len(rows) == 0 {
			h.rawf(`<p class="empty">%s</p></div>`, EmptyData)
			return
		}

		peak := 0.0
		for _, r := range rows {
			peak = max(peak, r.Revenue)
		}

		h.raw(`<table><thead><tr><th>月份</th><th>營收</th><th></th><th>月增率</th><th>年增率</th></tr></thead><tbody>`)
		for _, r := range rows {
			if r.Latest {
				h.raw(`<tr class="latest">`)
			} else {
				h.raw(`<tr>`)
			}
			h.raw(`<td>`)
			h.text(r.Date)
			h.raw(`</td><td>`)
			h.text(formatNumber(r.Revenue))
			h.rawf(`</td><td><div class="bar" style="width:%d%%"></div></td>`, barWidth(r.Revenue, peak))
			h.rawf(`<td class="%s">`, r.MoMDirection)
			h.text(orNA(r.MoM))
			h.rawf(`</td><td class="%s">`, r.YoYDirection)
			h.text(orNA(r.YoY))
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table></div>`)
	})
}

// MarginTable lists quarterly margins oldest first
func MarginTable(margins []models.MarginEntry) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="margins"><h4>獲利能力 (近8季)</h4><span class="muted">單位: %</span>`)

		if len(margins) == 0 {
			h.rawf(`<p class="empty">%s</p></div>`, EmptyData)
			return
		}

		h.raw(`<table><thead><tr><th>季度</th><th>營業利益率</th><th>淨利率</th></tr></thead><tbody>`)
		for _, m := range margins {
			h.raw(`<tr><td>`)
			h.text(m.Quarter)
			h.raw(`</td><td>`)
			h.text(formatNumber(m.OperatingMargin) + "%")
			h.raw(`</td><td>`)
			h.text(formatNumber(m.NetProfitMargin) + "%")
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table></div>`)
	})
}

func formatNumber(v float64) string {
	return decimal.NewFromFloat(v).String()
}

// barWidth scales v against peak as a whole percentage
func barWidth(v, peak float64) int {
	if peak <= 0 || v <= 0 {
		return 0
	}
	return int(decimal.NewFromFloat(v).Div(decimal.NewFromFloat(peak)).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

func orNA(s string) string {
	if s == "" {
		return app.NotAvailable
	}
	return s
}
