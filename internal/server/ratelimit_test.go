package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	limiter := NewRateLimiter(2, time.Hour)
	defer limiter.Stop()

	if !limiter.Allow("10.0.0.1") {
		t.Fatal("first request should be allowed")
	}
	if !limiter.Allow("10.0.0.1") {
		t.Fatal("second request should be allowed")
	}
	if limiter.Allow("10.0.0.1") {
		t.Fatal("third request should be rejected")
	}

	// Separate clients get separate buckets.
	if !limiter.Allow("10.0.0.2") {
		t.Fatal("other client should be allowed")
	}
}

func TestRateLimiterRefill(t *testing.T) {
	limiter := NewRateLimiter(1, 10*time.Millisecond)
	defer limiter.Stop()

	if !limiter.Allow("10.0.0.1") {
		t.Fatal("first request should be allowed")
	}
	if limiter.Allow("10.0.0.1") {
		t.Fatal("bucket should be exhausted")
	}

	time.Sleep(20 * time.Millisecond)
	if !limiter.Allow("10.0.0.1") {
		t.Fatal("bucket should refill after the window")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimiter(1, time.Hour)
	defer limiter.Stop()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := RateLimitMiddleware(limiter, next)

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	req.RemoteAddr = "10.0.0.1:54321"

	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	wrapped.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", rr.Code)
	}
}

func TestRateLimitMiddlewareNilLimiter(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := RateLimitMiddleware(nil, next)

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	for i := 0; i < 5; i++ {
		rr := httptest.NewRecorder()
		wrapped.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rr.Code)
		}
	}
}
