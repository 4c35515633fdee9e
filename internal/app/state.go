package app

import (
	"time"

	"stock-dashboard/models"
)

// Phase is where a dashboard session is in its fetch cycle
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseError   Phase = "error"
)

// FetchErrorMessage is the only failure text shown to users. Causes are
// logged and counted, never displayed.
const FetchErrorMessage = "無法獲取數據。請稍後再試或檢查股票代碼。"

// State is an immutable snapshot of one session. Transitions return a new
// value and leave the receiver untouched.
//
// Record is the last successfully fetched record. It is replaced whole on
// success and kept through loading and error so the previous result stays
// visible under the error banner.
type State struct {
	Phase       Phase               `json:"phase"`
	Ticker      string              `json:"ticker,omitempty"`
	RequestID   string              `json:"requestId,omitempty"`
	Record      *models.StockRecord `json:"record,omitempty"`
	Error       string              `json:"error,omitempty"`
	StartedAt   time.Time           `json:"startedAt,omitzero"`
	CompletedAt time.Time           `json:"completedAt,omitzero"`
}

// IdleState is the state of a session that has never searched
func IdleState() State {
	return State{Phase: PhaseIdle}
}

// Submit starts a fetch for ticker from any phase. requestID identifies the
// fetch; only completions carrying it are accepted.
func (s State) Submit(ticker, requestID string, now time.Time) State {
	return State{
		Phase:     PhaseLoading,
		Ticker:    ticker,
		RequestID: requestID,
		Record:    s.Record,
		StartedAt: now,
	}
}

// Resolve completes the current fetch with record. ok is false, and the
// state unchanged, when requestID is stale or no fetch is loading. A record
// that fails validation resolves as a failure.
func (s State) Resolve(requestID string, record *models.StockRecord, now time.Time) (next State, ok bool) {
	if !s.accepts(requestID) {
		return s, false
	}
	if record.Validate() != nil {
		return s.Fail(requestID, now)
	}

	next = s
	next.Phase = PhaseSuccess
	next.Record = record
	next.Error = ""
	next.CompletedAt = now
	return next, true
}

// Fail completes the current fetch with the static error message. ok is
// false, and the state unchanged, when requestID is stale.
func (s State) Fail(requestID string, now time.Time) (next State, ok bool) {
	if !s.accepts(requestID) {
		return s, false
	}

	next = s
	next.Phase = PhaseError
	next.Error = FetchErrorMessage
	next.CompletedAt = now
	return next, true
}

// Loading reports whether a fetch is outstanding
func (s State) Loading() bool {
	return s.Phase == PhaseLoading
}

func (s State) accepts(requestID string) bool {
	return s.Phase == PhaseLoading && requestID != "" && requestID == s.RequestID
}
