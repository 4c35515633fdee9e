package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"stock-dashboard/chart"
	"stock-dashboard/config"
	"stock-dashboard/internal/app"
	"stock-dashboard/models"
	"stock-dashboard/observability"
	"stock-dashboard/services"
	"stock-dashboard/templates"

	"github.com/go-chi/chi/v5"
)

// SessionCookie carries the dashboard session ID
const SessionCookie = "dashboard_session"

// InvalidTickerMessage is shown when the search input is not a ticker
const InvalidTickerMessage = "請輸入有效的台股代碼。"

// Handler handles HTTP API requests
type Handler struct {
	app *app.App
	cfg *config.Config
}

// NewHandler creates a new Handler
func NewHandler(application *app.App, cfg *config.Config) *Handler {
	return &Handler{app: application, cfg: cfg}
}

// HandleIndex serves the dashboard for the caller's session. A session that
// has never searched starts loading the default ticker. htmx polls receive
// only the dashboard fragment.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	st, _ := h.app.EnsureStarted(sess)
	h.renderDashboard(w, r, st, http.StatusOK, "")
}

// HandleSearch submits the ticker from the search form. Plain form posts
// are redirected back to the dashboard.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	if err := r.ParseForm(); err != nil {
		h.renderDashboard(w, r, sess.State(), http.StatusBadRequest, InvalidTickerMessage)
		return
	}

	st, err := h.app.Submit(sess, r.FormValue("ticker"))
	if err != nil {
		observability.WithContext(r.Context()).Debug("rejected search", "error", err)
		h.renderDashboard(w, r, st, http.StatusBadRequest, InvalidTickerMessage)
		return
	}

	if isHTMXRequest(r) {
		h.renderDashboard(w, r, st, http.StatusOK, "")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// StateResponse is the session state with its display model
type StateResponse struct {
	State app.State `json:"state"`
	View  *app.View `json:"view,omitempty"`
}

// HandleState returns the caller's session state
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	st := h.session(w, r).State()

	resp := StateResponse{State: st}
	if st.Record != nil {
		v := app.BuildView(st.Record, h.chartOptions())
		resp.View = &v
	}
	h.jsonResponse(w, resp)
}

// AnalyzeRequest represents a stock analysis request
type AnalyzeRequest struct {
	Ticker string `json:"ticker"`
}

// AnalyzeResponse is a fetched record with its display model
type AnalyzeResponse struct {
	Record *models.StockRecord `json:"record"`
	View   app.View            `json:"view"`
}

// HandleAnalyzeStock fetches a record synchronously, outside any session
func (h *Handler) HandleAnalyzeStock(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest

	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.jsonError(w, "invalid request body", http.StatusBadRequest)
			return
		}
	} else {
		_ = r.ParseForm()
		req.Ticker = r.FormValue("ticker")
	}

	record, err := h.app.AnalyzeStock(r.Context(), req.Ticker)
	if err != nil {
		if errors.Is(err, app.ErrInvalidTicker) {
			h.jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.jsonError(w, app.FetchErrorMessage, analyzeErrorStatus(err))
		return
	}

	h.jsonResponse(w, AnalyzeResponse{
		Record: record,
		View:   app.BuildView(record, h.chartOptions()),
	})
}

func analyzeErrorStatus(err error) int {
	switch {
	case errors.Is(err, app.ErrAnalysisBusy):
		return http.StatusTooManyRequests
	case errors.Is(err, app.ErrAnalystUnavailable), errors.Is(err, services.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

// HandleChart returns the chart widget configuration for a ticker
func (h *Handler) HandleChart(w http.ResponseWriter, r *http.Request) {
	ticker, err := app.ValidateTicker(chi.URLParam(r, "ticker"))
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.jsonResponse(w, chart.NewWidgetConfig(ticker, h.chartOptions()))
}

// HandleHealth returns the health status of the application. The analyst
// is probed only with ?probe=true since a probe may cost an LLM call.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	breakers := services.GetGlobalRegistry().Status()
	status := map[string]any{
		"status":           "ok",
		"provider":         h.cfg.Analysis.Provider,
		"sessions":         h.app.SessionCount(),
		"circuit_breakers": breakers,
	}

	if !h.cfg.HasProvider() {
		status["status"] = "degraded"
		status["analyst"] = "not_configured"
	} else if r.URL.Query().Get("probe") == "true" {
		probe := h.app.Health(r.Context())
		status["analyst"] = probe
		if !probe.Available {
			status["status"] = "degraded"
		}
	}

	for _, cb := range breakers {
		if cb.State == "open" {
			status["status"] = "degraded"
		}
	}

	h.jsonResponse(w, status)
}

// Helper functions

func (h *Handler) session(w http.ResponseWriter, r *http.Request) *app.Session {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}

	// Re-issued on every request; expiry tracks the server-side idle TTL.
	sess, _ := h.app.Session(id)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   int(app.DefaultSessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

func (h *Handler) chartOptions() chart.Options {
	return app.ChartOptions(h.cfg.Chart)
}

// renderDashboard writes the dashboard for st, as a fragment for htmx and
// as a full page otherwise. notice, if set, is shown above it.
func (h *Handler) renderDashboard(w http.ResponseWriter, r *http.Request, st app.State, status int, notice string) {
	body := templates.Dashboard(st, templates.DashboardOptions{
		Chart:       h.chartOptions(),
		PollSeconds: h.cfg.HTTP.LoadingRefreshSeconds,
		Notice:      notice,
	})

	if isHTMXRequest(r) {
		// htmx does not swap non-2xx responses
		status = http.StatusOK
	} else {
		opts := templates.PageOptions{Ticker: st.Ticker}
		if st.Loading() {
			opts.RefreshSeconds = h.cfg.HTTP.LoadingRefreshSeconds
		}
		body = templates.Page(opts, body)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := body.Render(r.Context(), w); err != nil {
		observability.WithContext(r.Context()).Error("failed to render dashboard", "error", err)
	}
}

// isHTMXRequest checks if the request is from HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func (h *Handler) jsonResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
