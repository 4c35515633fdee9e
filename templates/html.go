// Package templates renders the dashboard as templ components.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// htmlWriter writes markup and remembers the first write error so that
// components can emit a run of fragments and check once.
type htmlWriter struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newWriter(ctx context.Context, w io.Writer) *htmlWriter {
	return &htmlWriter{ctx: ctx, w: w}
}

// raw writes trusted markup
func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) rawf(format string, args ...any) {
	h.raw(fmt.Sprintf(format, args...))
}

// text writes escaped content
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// href writes a sanitized, escaped URL attribute value
func (h *htmlWriter) href(u string) {
	h.text(string(templ.URL(u)))
}

func (h *htmlWriter) render(c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(h.ctx, h.w)
}

// component adapts a writer function to templ.Component
func component(fn func(h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		fn(h)
		return h.err
	})
}

// externalLink writes an anchor that opens in a new tab
func (h *htmlWriter) externalLink(url, class, label string) {
	h.raw(`<a href="`)
	h.href(url)
	h.rawf(`" target="_blank" rel="noreferrer" class="%s">`, class)
	h.text(label)
	h.raw(`</a>`)
}
