package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"stock-dashboard/agents"
	"stock-dashboard/config"
	"stock-dashboard/models"
	"stock-dashboard/observability"
	"stock-dashboard/services"

	"github.com/google/uuid"
)

var (
	// ErrAnalysisBusy is returned when every analysis slot is taken
	ErrAnalysisBusy = errors.New("analysis queue full, too many concurrent requests - try again later")

	// ErrAnalystUnavailable is returned when no analysis provider is configured
	ErrAnalystUnavailable = errors.New("stock analyst not initialized")
)

// DefaultSessionTTL is how long an idle dashboard session is kept
const DefaultSessionTTL = 30 * time.Minute

// App struct holds application dependencies using interfaces for testability
type App struct {
	ctx         context.Context
	cancel      context.CancelFunc
	cfg         *config.Config
	analyst     agents.StockAnalyzer
	analysisSem chan struct{}
	timeout     time.Duration
	sessionTTL  time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
	fetches  sync.WaitGroup

	metrics *observability.Metrics
	now     func() time.Time
	newID   func() string
}

// New creates a new App. analyst may be nil when no provider is configured;
// every fetch then fails.
func New(cfg *config.Config, analyst agents.StockAnalyzer) *App {
	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		ctx:         ctx,
		cancel:      cancel,
		cfg:         cfg,
		analyst:     analyst,
		analysisSem: make(chan struct{}, cfg.Analysis.ConcurrencyLimit),
		timeout:     time.Duration(cfg.Analysis.TimeoutSeconds) * time.Second,
		sessionTTL:  DefaultSessionTTL,
		sessions:    make(map[string]*Session),
		metrics:     observability.GetMetrics(),
		now:         time.Now,
		newID:       func() string { return uuid.NewString() },
	}
}

// Startup is called when the app starts. Background fetches run under ctx.
func (a *App) Startup(ctx context.Context) {
	a.ctx, a.cancel = context.WithCancel(ctx)
}

// Shutdown cancels outstanding fetches and waits for them to finish or for
// ctx to expire.
func (a *App) Shutdown(ctx context.Context) error {
	a.cancel()

	a.mu.Lock()
	for _, sess := range a.sessions {
		sess.stop()
	}
	a.mu.Unlock()

	done := make(chan struct{})
	go func() {
		a.fetches.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for fetches: %w", ctx.Err())
	}
}

// Config returns the application configuration
func (a *App) Config() *config.Config {
	return a.cfg
}

// Session returns the session for id, creating a new one when id is empty
// or unknown. created reports whether the caller must hand out a new ID.
func (a *App) Session(id string) (sess *Session, created bool) {
	now := a.now()

	a.mu.Lock()
	defer a.mu.Unlock()

	a.pruneLocked(now)

	if sess, ok := a.sessions[id]; ok && id != "" {
		sess.touch(now)
		return sess, false
	}

	sess = newSession(a.newID(), now)
	a.sessions[sess.ID] = sess
	a.metrics.ActiveSessions.Set(float64(len(a.sessions)))
	return sess, true
}

// SessionCount returns the number of live sessions
func (a *App) SessionCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.sessions)
}

func (a *App) pruneLocked(now time.Time) {
	for id, sess := range a.sessions {
		if sess.idleSince(now) > a.sessionTTL {
			sess.stop()
			delete(a.sessions, id)
		}
	}
	a.metrics.ActiveSessions.Set(float64(len(a.sessions)))
}

// Submit starts a fetch for ticker in sess and returns the loading state.
// A fetch already running in sess is cancelled and its result dropped.
func (a *App) Submit(sess *Session, ticker string) (State, error) {
	ticker, err := ValidateTicker(ticker)
	if err != nil {
		return sess.State(), err
	}

	requestID := a.newID()
	from, next, ctx := sess.begin(a.ctx, ticker, requestID, a.now())
	a.metrics.RecordSessionTransition(string(from), string(PhaseLoading))

	a.start(ctx, sess, ticker, requestID)
	return next, nil
}

// EnsureStarted submits the default ticker for a session that has never
// searched. started is false when the session already has a state.
func (a *App) EnsureStarted(sess *Session) (st State, started bool) {
	ticker, err := ValidateTicker(a.cfg.Analysis.DefaultTicker)
	if err != nil {
		return sess.State(), false
	}

	requestID := a.newID()
	next, ctx, ok := sess.beginIdle(a.ctx, ticker, requestID, a.now())
	if !ok {
		return next, false
	}
	a.metrics.RecordSessionTransition(string(PhaseIdle), string(PhaseLoading))

	a.start(ctx, sess, ticker, requestID)
	return next, true
}

func (a *App) start(ctx context.Context, sess *Session, ticker, requestID string) {
	a.fetches.Add(1)
	go func() {
		defer a.fetches.Done()
		a.run(ctx, sess, ticker, requestID)
	}()
}

func (a *App) run(ctx context.Context, sess *Session, ticker, requestID string) {
	record, err := a.fetch(ctx, ticker, requestID)

	now := a.now()
	outcome := "resolved"
	next, ok := sess.complete(func(st State) (State, bool) {
		if err != nil {
			return st.Fail(requestID, now)
		}
		return st.Resolve(requestID, record, now)
	})
	if err != nil {
		outcome = "failed"
	}

	if !ok {
		a.metrics.RecordStaleResult(outcome)
		observability.WithFetch(ticker, requestID).Debug("dropping superseded result", "outcome", outcome)
		return
	}
	a.metrics.RecordSessionTransition(string(PhaseLoading), string(next.Phase))
}

// AnalyzeStock fetches a record for ticker outside any session
func (a *App) AnalyzeStock(ctx context.Context, ticker string) (*models.StockRecord, error) {
	ticker, err := ValidateTicker(ticker)
	if err != nil {
		return nil, err
	}
	return a.fetch(ctx, ticker, a.newID())
}

func (a *App) fetch(ctx context.Context, ticker, requestID string) (*models.StockRecord, error) {
	log := observability.WithFetch(ticker, requestID)

	if a.analyst == nil {
		a.metrics.RecordAnalysisError(errorType(ErrAnalystUnavailable))
		return nil, ErrAnalystUnavailable
	}

	select {
	case a.analysisSem <- struct{}{}:
		defer func() { <-a.analysisSem }()
	default:
		a.metrics.RecordAnalysisError(errorType(ErrAnalysisBusy))
		log.Warn("analysis rejected, all slots in use", "limit", cap(a.analysisSem))
		return nil, ErrAnalysisBusy
	}

	a.metrics.AnalysisInFlight.Inc()
	defer a.metrics.AnalysisInFlight.Dec()
	a.metrics.RecordAnalysisRequest(ticker)
	timer := a.metrics.NewTimer()

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	log.Info("fetching stock record")
	record, err := a.analyst.AnalyzeStock(ctx, ticker)
	if err == nil {
		err = record.Validate()
	}
	if err != nil {
		status := errorType(err)
		timer.ObserveAnalysis(status)
		a.metrics.RecordAnalysisError(status)
		if status == "canceled" {
			log.Debug("fetch cancelled")
		} else {
			log.Warn("fetch failed", "error", err, "error_type", status)
		}
		return nil, err
	}

	timer.ObserveAnalysis("success")
	log.Info("fetched stock record", "name", record.Name, "duration", timer.Duration())
	return record, nil
}

// errorType buckets a fetch error for metrics and logs
func errorType(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrAnalysisBusy):
		return "busy"
	case errors.Is(err, ErrAnalystUnavailable):
		return "unconfigured"
	case errors.Is(err, models.ErrMalformedRecord):
		return "malformed"
	case errors.Is(err, services.ErrServiceUnavailable):
		return "circuit_open"
	default:
		return "provider"
	}
}

// Health reports whether the analysis provider is reachable
func (a *App) Health(ctx context.Context) agents.HealthStatus {
	if a.analyst == nil {
		return agents.HealthStatus{CheckedAt: a.now(), Error: ErrAnalystUnavailable.Error()}
	}
	return a.analyst.Health(ctx)
}

// AnalysisSemCapacity returns the capacity of the analysis semaphore (for testing)
func (a *App) AnalysisSemCapacity() int {
	return cap(a.analysisSem)
}
