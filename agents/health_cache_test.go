package agents

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNewHealthCache(t *testing.T) {
	ttl := 30 * time.Second
	cache := NewHealthCache(ttl)

	if cache == nil {
		t.Fatal("NewHealthCache should not return nil")
	}
	if cache.TTL() != ttl {
		t.Errorf("TTL() = %v, want %v", cache.TTL(), ttl)
	}
}

func TestHealthCache_InitialState(t *testing.T) {
	cache := NewHealthCache(30 * time.Second)

	status, valid := cache.Get()
	if valid {
		t.Error("New cache should return valid=false")
	}
	if status.Available {
		t.Error("New cache should return available=false")
	}
}

func TestHealthCache_SetAndGet(t *testing.T) {
	cache := NewHealthCache(30 * time.Second)

	cache.Set(nil)
	status, valid := cache.Get()
	if !valid || !status.Available {
		t.Errorf("expected valid available status, got %+v valid=%v", status, valid)
	}
	if status.Error != "" {
		t.Errorf("expected no error, got %q", status.Error)
	}

	cache.Set(errors.New("401 unauthorized"))
	status, valid = cache.Get()
	if !valid {
		t.Error("Cache should still be valid after Set")
	}
	if status.Available {
		t.Error("Cache should return available=false after a failed probe")
	}
	if status.Error != "401 unauthorized" {
		t.Errorf("Error = %q", status.Error)
	}
}

func TestHealthCache_TTLExpiration(t *testing.T) {
	now := time.Date(2024, 7, 5, 9, 0, 0, 0, time.UTC)
	cache := NewHealthCache(time.Minute)
	cache.now = func() time.Time { return now }

	cache.Set(nil)
	if _, valid := cache.Get(); !valid {
		t.Error("Cache should be valid immediately after Set")
	}

	now = now.Add(59 * time.Second)
	if _, valid := cache.Get(); !valid {
		t.Error("Cache should be valid inside the TTL")
	}

	now = now.Add(time.Second)
	if _, valid := cache.Get(); valid {
		t.Error("Cache should be invalid once the TTL has elapsed")
	}
}

func TestHealthCache_Invalidate(t *testing.T) {
	cache := NewHealthCache(30 * time.Second)

	cache.Set(nil)
	cache.Invalidate()

	if _, valid := cache.Get(); valid {
		t.Error("Cache Get should return valid=false after Invalidate")
	}
}

func TestHealthCache_ZeroTTL(t *testing.T) {
	cache := NewHealthCache(0)

	cache.Set(nil)

	if _, valid := cache.Get(); valid {
		t.Error("Zero TTL cache should never be valid")
	}
}

func TestHealthCache_Concurrency(t *testing.T) {
	cache := NewHealthCache(30 * time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func(fail bool) {
			defer wg.Done()
			if fail {
				cache.Set(errors.New("down"))
			} else {
				cache.Set(nil)
			}
		}(i%2 == 0)
		go func() {
			defer wg.Done()
			cache.Get()
		}()
	}
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cache.Invalidate()
		}()
	}

	wg.Wait()
}
