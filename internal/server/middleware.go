package server

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"bro/internal/application/port/output"
	"bro/internal/domain/entity"
)

// rateLimiter is an in-memory sliding-window limiter keyed by client
// IP. Good enough for a single-instance service; there is no shared
// state to coordinate.
type rateLimiter struct {
	maxRequests int
	window      time.Duration
	now         func() time.Time

	mu          sync.Mutex
	requests    map[string][]time.Time
	lastCleanup time.Time
}

const cleanupInterval = 5 * time.Minute

func newRateLimiter(maxRequests int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
		requests:    make(map[string][]time.Time),
	}
}

// allow reports whether the key may proceed and, if not, how long
// until a slot opens.
func (rl *rateLimiter) allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)

	rl.cleanupLocked(now, cutoff)

	kept := rl.requests[key][:0]
	for _, t := range rl.requests[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	rl.requests[key] = kept

	if len(kept) < rl.maxRequests {
		rl.requests[key] = append(kept, now)
		return true, 0
	}

	retryAfter := kept[0].Add(rl.window).Sub(now)
	if retryAfter < 0 {
		retryAfter = 0
	}
	return false, retryAfter
}

func (rl *rateLimiter) cleanupLocked(now time.Time, cutoff time.Time) {
	if now.Sub(rl.lastCleanup) < cleanupInterval {
		return
	}
	for key, times := range rl.requests {
		kept := times[:0]
		for _, t := range times {
			if t.After(cutoff) {
				kept = append(kept, t)
			}
		}
		if len(kept) == 0 {
			delete(rl.requests, key)
		} else {
			rl.requests[key] = kept
		}
	}
	rl.lastCleanup = now
}

func (rl *rateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, retryAfter := rl.allow(clientIP(r))
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			writeJSONError(w, http.StatusTooManyRequests, entity.NewErrorResponse(
				"RateLimitExceeded",
				"too many requests, try again later",
				middleware.GetReqID(r.Context()),
			))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// corsMiddleware mirrors the permissive CORS policy of the service:
// callers are CLIs and scripts, not credentialed browsers.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// recoverJSON converts handler panics into a 500 error envelope
// instead of a dropped connection.
func recoverJSON(logger output.LoggerPort) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("handler panicked", "panic", rec, "path", r.URL.Path)
					writeJSONError(w, http.StatusInternalServerError, entity.NewErrorResponse(
						"InternalError",
						"internal server error",
						middleware.GetReqID(r.Context()),
					))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSONError(w http.ResponseWriter, code int, body entity.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
