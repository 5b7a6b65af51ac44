package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestFrom(addr string) *http.Request {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = addr
	return req
}

func TestRateLimitMiddleware_AllowsWithinLimit(t *testing.T) {
	handler := RateLimitMiddleware(5)(okHandler())

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestFrom("10.0.0.1:5000"))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}
}

func TestRateLimitMiddleware_BlocksOverLimit(t *testing.T) {
	handler := RateLimitMiddleware(3)(okHandler())

	for i := 0; i < 3; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), requestFrom("10.0.0.1:5000"))
	}

	// 4th request should be rate-limited
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("10.0.0.1:5001"))
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	rl := &rateLimiter{requests: make(map[string][]time.Time), limit: 2, window: time.Minute}
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 50; i++ {
		rl.allow(fmt.Sprintf("10.0.1.%d", i), start)
	}
	if len(rl.requests) != 50 {
		t.Fatalf("expected 50 tracked clients, got %d", len(rl.requests))
	}

	if !rl.allow("10.0.2.1", start.Add(2*time.Minute)) {
		t.Fatal("expected new client to be allowed")
	}
	if len(rl.requests) != 1 {
		t.Errorf("expected idle clients evicted, %d still tracked", len(rl.requests))
	}
}

func TestRateLimiterSweepKeepsActiveClients(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := &rateLimiter{
		requests: map[string][]time.Time{
			"idle":   {start},
			"active": {start, start.Add(90 * time.Second)},
			"empty":  {},
		},
		limit:  2,
		window: time.Minute,
	}

	rl.sweep(start.Add(time.Minute))

	if _, ok := rl.requests["active"]; !ok {
		t.Error("expected active client kept")
	}
	if _, ok := rl.requests["idle"]; ok {
		t.Error("expected idle client evicted")
	}
	if _, ok := rl.requests["empty"]; ok {
		t.Error("expected empty entry evicted")
	}
}

func TestRateLimitMiddleware_KeysByClientHost(t *testing.T) {
	handler := RateLimitMiddleware(2)(okHandler())

	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), requestFrom("10.0.0.1:5000"))
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestFrom("10.0.0.2:5000"))
	if w.Code != http.StatusOK {
		t.Errorf("expected other client to get 200, got %d", w.Code)
	}
}

func TestRateLimitMiddleware_DisabledWhenZero(t *testing.T) {
	handler := RateLimitMiddleware(0)(okHandler())
	for i := 0; i < 50; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestFrom("10.0.0.1:5000"))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}
}

func TestAdminAuthMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		header string
		want   int
	}{
		{"no token configured", "", "", http.StatusOK},
		{"missing header", "secret", "", http.StatusUnauthorized},
		{"wrong token", "secret", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "secret", "Bearer secret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := AdminAuthMiddleware(tt.token)(okHandler())
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestRequestLoggerPassesThrough(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	if w.Code != http.StatusTeapot {
		t.Errorf("expected 418, got %d", w.Code)
	}
}
