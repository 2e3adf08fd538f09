package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// mockClock is a controllable clock for testing.
type mockClock struct {
	mu  sync.Mutex
	now time.Time
}

func newMockClock() *mockClock {
	return &mockClock{now: time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *mockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestAllow_FixedWindow(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{Limit: 3, Window: time.Minute, Clock: clock})
	defer limiter.Close()

	for i := 0; i < 3; i++ {
		if result := limiter.Allow("webhook", "203.0.113.5"); !result.Allowed {
			t.Fatalf("request %d blocked", i+1)
		}
	}

	clock.Advance(20 * time.Second)
	result := limiter.Allow("webhook", "203.0.113.5")
	if result.Allowed {
		t.Fatal("fourth request in window should be blocked")
	}
	if result.RetryAfter != 40*time.Second {
		t.Fatalf("RetryAfter = %v, want 40s", result.RetryAfter)
	}

	clock.Advance(40 * time.Second)
	if result := limiter.Allow("webhook", "203.0.113.5"); !result.Allowed {
		t.Fatal("request after window should be allowed")
	}
}

func TestAllow_ScopeLimitOverridesDefault(t *testing.T) {
	limiter := New(&Config{
		Limit:       1,
		Window:      time.Minute,
		ScopeLimits: map[string]int{"webhook": 3},
		Clock:       newMockClock(),
	})
	defer limiter.Close()

	for i := 0; i < 3; i++ {
		if result := limiter.Allow("webhook", "203.0.113.5"); !result.Allowed {
			t.Fatalf("webhook request %d blocked", i+1)
		}
	}
	if limiter.Allow("webhook", "203.0.113.5").Allowed {
		t.Fatal("fourth webhook request should be blocked")
	}

	if !limiter.Allow("notify", "203.0.113.5").Allowed {
		t.Fatal("first notify request should be allowed")
	}
	if limiter.Allow("notify", "203.0.113.5").Allowed {
		t.Fatal("notify scope should keep the default limit of 1")
	}
}

func TestAllow_ScopesAndKeysAreIndependent(t *testing.T) {
	limiter := New(&Config{Limit: 1, Window: time.Minute, Clock: newMockClock()})
	defer limiter.Close()

	if !limiter.Allow("notify", "10.0.0.1").Allowed {
		t.Fatal("first notify request blocked")
	}
	if !limiter.Allow("webhook", "10.0.0.1").Allowed {
		t.Fatal("webhook scope shares notify budget")
	}
	if !limiter.Allow("notify", "10.0.0.2").Allowed {
		t.Fatal("second client shares first client's budget")
	}
	if limiter.Allow("notify", "10.0.0.1").Allowed {
		t.Fatal("second notify request from same client allowed")
	}
}

func TestMiddleware_Returns429(t *testing.T) {
	limiter := New(&Config{Limit: 1, Window: time.Minute, Clock: newMockClock()})
	defer limiter.Close()

	handler := limiter.Middleware("notify")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/notify/price-change", nil)
		req.RemoteAddr = "203.0.113.9:4000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	if rec := send(); rec.Code != http.StatusOK {
		t.Fatalf("first status = %d, want 200", rec.Code)
	}
	rec := send()
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "60" {
		t.Fatalf("Retry-After = %q, want 60", got)
	}
}

func TestNew_Defaults(t *testing.T) {
	limiter := New(nil)
	defer limiter.Close()

	if limiter.config.Limit != 30 || limiter.config.Window != time.Minute {
		t.Fatalf("defaults = %d/%v, want 30/1m", limiter.config.Limit, limiter.config.Window)
	}
	if _, ok := limiter.clock.(realClock); !ok {
		t.Fatal("nil clock should use realClock")
	}
}

func TestCleanup_DropsExpiredWindows(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{Limit: 5, Window: time.Minute, Clock: clock})
	defer limiter.Close()

	limiter.Allow("notify", "10.0.0.1")
	clock.Advance(2 * time.Minute)
	limiter.cleanup()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	if len(limiter.entries) != 0 {
		t.Fatalf("entries = %d, want 0", len(limiter.entries))
	}
}

func TestConcurrentAccess(t *testing.T) {
	limiter := New(&Config{Limit: 50, Window: time.Minute, Clock: newMockClock()})
	defer limiter.Close()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow("webhook", "198.51.100.1").Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 50 {
		t.Fatalf("allowed = %d, want 50", allowed)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		trustProxy bool
		expected   string
	}{
		{"rightmost public forwarded ip", map[string]string{"X-Forwarded-For": "203.0.113.50, 10.0.0.1"}, "10.0.0.1:12345", true, "203.0.113.50"},
		{"all forwarded ips private", map[string]string{"X-Forwarded-For": "192.168.1.1, 10.0.0.1"}, "10.0.0.1:12345", true, "10.0.0.1"},
		{"real ip header", map[string]string{"X-Real-IP": "203.0.113.51"}, "10.0.0.1:12345", true, "203.0.113.51"},
		{"untrusted proxy ignores forwarded", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "192.168.1.100:54321", false, "192.168.1.100"},
		{"remote addr without port", nil, "192.168.1.100", false, "192.168.1.100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := GetClientIP(r, tt.trustProxy); got != tt.expected {
				t.Fatalf("GetClientIP() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip       string
		expected bool
	}{
		{"10.0.0.1", true},
		{"172.16.0.1", true},
		{"192.168.1.1", true},
		{"127.0.0.1", true},
		{"::1", true},
		{"::ffff:10.0.0.1", true},
		{"::ffff:8.8.8.8", false},
		{"203.0.113.50", false},
		{"invalid", false},
	}

	for _, tt := range tests {
		if got := isPrivateIP(tt.ip); got != tt.expected {
			t.Fatalf("isPrivateIP(%q) = %v, want %v", tt.ip, got, tt.expected)
		}
	}
}
