package templates

import (
	"stock-dashboard/internal/app"
	"stock-dashboard/models"

	"github.com/a-h/templ"
)

// EmptyNews is shown when the service found no headlines
const EmptyNews = "暫無最新新聞。"

// NewsList shows headlines in received order
func NewsList(news []models.NewsEntry) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="card news"><h3>最新個股新聞 <span class="badge">MoneyDJ / 公開資訊觀測站</span></h3>`)

		if len(news) == 0 {
			h.rawf(`<p class="empty">%s</p></div>`, EmptyNews)
			return
		}

		h.raw(`<ul>`)
		for _, n := range news {
			url := n.URL
			if url == "" {
				url = "#"
			}
			h.raw(`<li>`)
			h.externalLink(url, "headline", n.Title)
			h.raw(`<div class="muted">`)
			h.text(n.Source)
			h.raw(` · `)
			h.text(n.Date)
			h.raw(`</div></li>`)
		}
		h.raw(`</ul></div>`)
	})
}

// Sources lists the fixed reference pages followed by the grounding links,
// or the static fallbacks when there are none.
func Sources(v app.View) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="card sources"><h3>參考資料來源</h3><ul>`)
		for _, ref := range v.References {
			h.raw(`<li>`)
			h.externalLink(ref.URI, "reference", ref.Title)
			h.raw(`</li>`)
		}
		h.raw(`</ul><hr><ul>`)
		for _, src := range v.Sources {
			h.raw(`<li>`)
			h.externalLink(src.URI, "source", src.Title)
			h.raw(`</li>`)
		}
		h.raw(`</ul></div>`)
	})
}
