package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	rl := newRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if ok, _ := rl.allow("1.2.3.4"); !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	ok, retryAfter := rl.allow("1.2.3.4")
	if ok {
		t.Fatal("request over the limit must be rejected")
	}
	if retryAfter <= 0 || retryAfter > time.Minute {
		t.Errorf("unreasonable retry-after: %s", retryAfter)
	}
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := newRateLimiter(1, time.Minute)

	if ok, _ := rl.allow("1.2.3.4"); !ok {
		t.Fatal("first client should be allowed")
	}
	if ok, _ := rl.allow("5.6.7.8"); !ok {
		t.Fatal("second client must not be affected by the first")
	}
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	rl := newRateLimiter(1, time.Minute)

	now := time.Now()
	rl.now = func() time.Time { return now }

	if ok, _ := rl.allow("1.2.3.4"); !ok {
		t.Fatal("first request should be allowed")
	}
	if ok, _ := rl.allow("1.2.3.4"); ok {
		t.Fatal("second request inside the window must be rejected")
	}

	rl.now = func() time.Time { return now.Add(61 * time.Second) }
	if ok, _ := rl.allow("1.2.3.4"); !ok {
		t.Fatal("request after the window must be allowed again")
	}
}

func TestRateLimiter_Middleware429(t *testing.T) {
	rl := newRateLimiter(1, time.Minute)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", nil)
	req.RemoteAddr = "1.2.3.4:5555"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("429 must carry Retry-After")
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:4444"

	if ip := clientIP(req); ip != "10.0.0.1" {
		t.Errorf("expected 10.0.0.1, got %s", ip)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if ip := clientIP(req); ip != "203.0.113.7" {
		t.Errorf("expected first forwarded address, got %s", ip)
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("preflight must not reach the handler")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/search", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("CORS header missing")
	}
}

func TestRecoverJSON(t *testing.T) {
	handler := recoverJSON(nopLogger{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("panic response must be JSON, got %s", ct)
	}
}
