package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
)

var testBreakerConfig = CircuitBreakerConfig{
	MaxRequests: 1,
	Interval:    1 * time.Minute,
	Timeout:     100 * time.Millisecond,
	MinRequests: 5,
}

func TestNewCircuitBreakerRegistry_DefaultsMinRequests(t *testing.T) {
	registry := NewCircuitBreakerRegistry(CircuitBreakerConfig{MaxRequests: 3})

	if registry.breakers == nil {
		t.Error("expected breakers map to be initialized")
	}
	if registry.config.MinRequests != DefaultCircuitBreakerConfig.MinRequests {
		t.Errorf("expected MinRequests default, got %d", registry.config.MinRequests)
	}
}

func TestCircuitBreakerRegistry_GetBreaker(t *testing.T) {
	registry := NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig)

	breaker1 := registry.GetBreaker(BreakerGemini)
	if breaker1 == nil {
		t.Fatal("expected breaker to be created")
	}
	if breaker2 := registry.GetBreaker(BreakerGemini); breaker1 != breaker2 {
		t.Error("expected same breaker instance")
	}
	if breaker3 := registry.GetBreaker(BreakerOpenAI); breaker1 == breaker3 {
		t.Error("expected different breaker for different provider")
	}
}

func TestCircuitBreakerRegistry_Execute(t *testing.T) {
	registry := NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig)
	ctx := context.Background()

	result, err := registry.Execute(ctx, "svc", func() (any, error) {
		return "success", nil
	})
	if err != nil || result != "success" {
		t.Errorf("unexpected result %v, %v", result, err)
	}

	result, err = registry.Execute(ctx, "svc", func() (any, error) {
		return nil, errors.New("test error")
	})
	if err == nil {
		t.Error("expected error")
	}
	if result != nil {
		t.Errorf("expected nil result, got %v", result)
	}
}

func TestCircuitBreakerRegistry_Execute_ContextCanceled(t *testing.T) {
	registry := NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	_, err := registry.Execute(ctx, "svc", func() (any, error) {
		called = true
		return "should not reach", nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if called {
		t.Error("fn should not run with a cancelled context")
	}
}

func TestCircuitBreakerRegistry_CanceledCallsDoNotTrip(t *testing.T) {
	registry := NewCircuitBreakerRegistry(testBreakerConfig)

	for i := 0; i < 10; i++ {
		_, _ = registry.Execute(context.Background(), "svc", func() (any, error) {
			return nil, context.Canceled
		})
	}

	status := registry.Status()["svc"]
	if status.State != "closed" {
		t.Errorf("superseded fetches should not open the breaker, got %s", status.State)
	}
	if status.TotalFailures != 0 {
		t.Errorf("expected 0 failures, got %d", status.TotalFailures)
	}
}

func TestCircuitBreakerRegistry_Status(t *testing.T) {
	registry := NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig)
	ctx := context.Background()

	_, _ = registry.Execute(ctx, "service-a", func() (any, error) {
		return "ok", nil
	})
	_, _ = registry.Execute(ctx, "service-b", func() (any, error) {
		return nil, errors.New("fail")
	})

	status := registry.Status()

	if len(status) != 2 {
		t.Errorf("expected 2 breakers in status, got %d", len(status))
	}
	if status["service-a"].TotalSuccesses != 1 {
		t.Errorf("expected 1 success for service-a, got %d", status["service-a"].TotalSuccesses)
	}
	if status["service-b"].TotalFailures != 1 {
		t.Errorf("expected 1 failure for service-b, got %d", status["service-b"].TotalFailures)
	}
}

func TestCircuitBreakerRegistry_TripsAfterFailures(t *testing.T) {
	registry := NewCircuitBreakerRegistry(testBreakerConfig)
	ctx := context.Background()

	if !registry.Ready("failing-service") {
		t.Error("unknown breaker should report ready")
	}

	for i := 0; i < 5; i++ {
		_, _ = registry.Execute(ctx, "failing-service", func() (any, error) {
			return nil, errors.New("fail")
		})
	}

	if state := registry.Status()["failing-service"].State; state != "open" {
		t.Fatalf("expected breaker to be open, got %s", state)
	}
	if registry.Ready("failing-service") {
		t.Error("open breaker should not report ready")
	}

	_, err := registry.Execute(ctx, "failing-service", func() (any, error) {
		return "should not execute", nil
	})
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Errorf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestCircuitBreakerRegistry_RecoversAfterTimeout(t *testing.T) {
	registry := NewCircuitBreakerRegistry(testBreakerConfig)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _ = registry.Execute(ctx, "flaky", func() (any, error) {
			return nil, errors.New("fail")
		})
	}

	time.Sleep(150 * time.Millisecond)

	result, err := registry.Execute(ctx, "flaky", func() (any, error) {
		return "ok", nil
	})
	if err != nil || result != "ok" {
		t.Fatalf("half-open probe should pass through, got %v, %v", result, err)
	}
	if state := registry.GetBreaker("flaky").State(); state != gobreaker.StateClosed {
		t.Errorf("expected closed after successful probe, got %s", state)
	}
}

func TestWithCircuitBreaker_TypedResults(t *testing.T) {
	SetGlobalRegistry(NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig))
	ctx := context.Background()

	type payload struct {
		Value int
	}

	result, err := WithCircuitBreaker(ctx, "typed-test", func() (*payload, error) {
		return &payload{Value: 42}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Value != 42 {
		t.Errorf("unexpected result: %+v", result)
	}

	s, err := WithCircuitBreaker(ctx, "typed-test", func() (string, error) {
		return "", errors.New("boom")
	})
	if err == nil {
		t.Error("expected error")
	}
	if s != "" {
		t.Errorf("expected zero value, got %q", s)
	}
}

func TestGetGlobalRegistry(t *testing.T) {
	SetGlobalRegistry(nil)

	registry := GetGlobalRegistry()
	if registry == nil {
		t.Fatal("expected global registry to be created")
	}
	if registry2 := GetGlobalRegistry(); registry != registry2 {
		t.Error("expected same global registry instance")
	}
}

func TestCircuitBreakerRegistry_GetBreaker_Concurrent(t *testing.T) {
	registry := NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig)

	const goroutines = 100
	var wg sync.WaitGroup
	breakers := make(chan *gobreaker.CircuitBreaker[any], goroutines)

	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			breakers <- registry.GetBreaker("concurrent-breaker")
		}()
	}

	wg.Wait()
	close(breakers)

	var first *gobreaker.CircuitBreaker[any]
	for cb := range breakers {
		if first == nil {
			first = cb
		} else if cb != first {
			t.Error("all goroutines should get the same breaker instance")
		}
	}

	if len(registry.Status()) != 1 {
		t.Errorf("expected 1 breaker, got %d", len(registry.Status()))
	}
}

func TestStateToInt(t *testing.T) {
	tests := []struct {
		state gobreaker.State
		want  int
	}{
		{gobreaker.StateClosed, 0},
		{gobreaker.StateHalfOpen, 1},
		{gobreaker.StateOpen, 2},
	}
	for _, tt := range tests {
		if got := stateToInt(tt.state); got != tt.want {
			t.Errorf("stateToInt(%s) = %d, want %d", tt.state, got, tt.want)
		}
	}
}
