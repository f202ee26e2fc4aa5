package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deepresearch-labs/deep-research/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestTrimSlash(t *testing.T) {
	var gotPath string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/agents/", nil)
	TrimSlash(inner).ServeHTTP(rec, req)

	if gotPath != "/api/v1/agents" {
		t.Errorf("path: got %s", gotPath)
	}

	// Root path stays untouched.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	TrimSlash(inner).ServeHTTP(httptest.NewRecorder(), req)
	if gotPath != "/" {
		t.Errorf("root path: got %s", gotPath)
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(okHandler(), mw("first"), mw("second"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if strings.Join(order, ",") != "first,second" {
		t.Errorf("order: got %v", order)
	}
}

func TestCORSPreflight(t *testing.T) {
	cfg := &config.CORSConfig{AllowedOrigins: []string{"https://app.example.com"}}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/search", nil)
	req.Header.Set("Origin", "https://app.example.com")

	CORS(cfg)(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status: got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("allow origin: got %q", got)
	}
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	cfg := &config.CORSConfig{AllowedOrigins: []string{"https://app.example.com"}}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	req.Header.Set("Origin", "https://evil.example.com")

	CORS(cfg)(okHandler()).ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unknown origin should get no CORS header, got %q", got)
	}
}

func TestRateLimitDisabledPassthrough(t *testing.T) {
	cfg := &config.RateLimitConfig{Enabled: false}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	h := RateLimit(cfg, discardLogger())(okHandler())
	for i := 0; i < 100; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("disabled limiter rejected request %d", i)
		}
	}
}

func TestRateLimitRejectsBurst(t *testing.T) {
	cfg := &config.RateLimitConfig{Enabled: true, RequestsPerSecond: 1, Burst: 2}

	h := RateLimit(cfg, discardLogger())(okHandler())

	statuses := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		statuses = append(statuses, rec.Code)
	}

	rejected := 0
	for _, s := range statuses {
		if s == http.StatusTooManyRequests {
			rejected++
		}
	}
	if rejected == 0 {
		t.Errorf("expected at least one rejected request, statuses %v", statuses)
	}
}

func TestRateLimitBucketsPerClient(t *testing.T) {
	cfg := &config.RateLimitConfig{Enabled: true, RequestsPerSecond: 1, Burst: 1}

	h := RateLimit(cfg, discardLogger())(okHandler())

	send := func(addr string) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if got := send("192.0.2.10:4001"); got != http.StatusOK {
		t.Fatalf("first client: got %d", got)
	}
	if got := send("192.0.2.10:4002"); got != http.StatusTooManyRequests {
		t.Errorf("same host from another port should share the bucket, got %d", got)
	}
	if got := send("192.0.2.11:4001"); got != http.StatusOK {
		t.Errorf("distinct host should get its own bucket, got %d", got)
	}
}

func TestRecover(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	Recover(discardLogger())(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d", rec.Code)
	}
}

func TestMaxBody(t *testing.T) {
	reading := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	h := MaxBody(10)(reading)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("tiny"))
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("small body: got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 100)))
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized body: got %d", rec.Code)
	}
}
