package app

import (
	"context"
	"testing"
	"time"
)

func TestSession_BeginCancelsPrevious(t *testing.T) {
	sess := newSession("s1", t0)

	from, st, first := sess.begin(context.Background(), "2330", "req-1", t0)
	if from != PhaseIdle || st.Phase != PhaseLoading {
		t.Fatalf("unexpected transition %s -> %s", from, st.Phase)
	}

	from, st, second := sess.begin(context.Background(), "2317", "req-2", t0)
	if from != PhaseLoading {
		t.Errorf("from = %s, want loading", from)
	}
	if st.RequestID != "req-2" {
		t.Errorf("RequestID = %s", st.RequestID)
	}

	select {
	case <-first.Done():
	default:
		t.Error("the first fetch should be cancelled")
	}
	if second.Err() != nil {
		t.Error("the second fetch should still be running")
	}
}

func TestSession_CompleteDropsSuperseded(t *testing.T) {
	sess := newSession("s1", t0)
	sess.begin(context.Background(), "2330", "req-1", t0)
	sess.begin(context.Background(), "2317", "req-2", t0)

	st, ok := sess.complete(func(s State) (State, bool) {
		return s.Resolve("req-1", testRecord("2330"), t0)
	})
	if ok {
		t.Error("superseded result should be dropped")
	}
	if st.Phase != PhaseLoading || st.Ticker != "2317" {
		t.Errorf("state should still be loading 2317, got %+v", st)
	}

	st, ok = sess.complete(func(s State) (State, bool) {
		return s.Resolve("req-2", testRecord("2317"), t0)
	})
	if !ok || st.Phase != PhaseSuccess || st.Record.Symbol != "2317" {
		t.Errorf("current result should land, got %+v ok=%v", st, ok)
	}
	if sess.State().Phase != PhaseSuccess {
		t.Error("session should hold the resolved state")
	}
}

func TestSession_CompleteReleasesContext(t *testing.T) {
	sess := newSession("s1", t0)
	_, _, ctx := sess.begin(context.Background(), "2330", "req-1", t0)

	sess.complete(func(s State) (State, bool) {
		return s.Fail("req-1", t0)
	})

	select {
	case <-ctx.Done():
	default:
		t.Error("completing should release the fetch context")
	}
}

func TestSession_BeginIdle(t *testing.T) {
	sess := newSession("s1", t0)

	st, ctx, ok := sess.beginIdle(context.Background(), "2330", "req-1", t0)
	if !ok || ctx == nil || st.Phase != PhaseLoading {
		t.Fatalf("idle session should start, got %+v ok=%v", st, ok)
	}

	st, ctx, ok = sess.beginIdle(context.Background(), "2317", "req-2", t0)
	if ok || ctx != nil {
		t.Error("a session that has searched should not restart")
	}
	if st.Ticker != "2330" {
		t.Errorf("state should be unchanged, got %+v", st)
	}
}

func TestSession_Stop(t *testing.T) {
	sess := newSession("s1", t0)
	_, _, ctx := sess.begin(context.Background(), "2330", "req-1", t0)

	sess.stop()

	if ctx.Err() == nil {
		t.Error("stop should cancel the outstanding fetch")
	}
	sess.stop()
}

func TestSession_IdleSince(t *testing.T) {
	sess := newSession("s1", t0)

	if got := sess.idleSince(t0.Add(time.Minute)); got != time.Minute {
		t.Errorf("idleSince = %v, want 1m", got)
	}

	sess.touch(t0.Add(time.Minute))
	if got := sess.idleSince(t0.Add(2 * time.Minute)); got != time.Minute {
		t.Errorf("idleSince after touch = %v, want 1m", got)
	}

	sess.begin(context.Background(), "2330", "req-1", t0)
	if got := sess.idleSince(t0.Add(time.Hour)); got != 0 {
		t.Errorf("a loading session is never idle, got %v", got)
	}
}
