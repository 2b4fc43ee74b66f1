package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func okHandler(c echo.Context) error { return c.String(http.StatusOK, "ok") }

func hit(e *echo.Echo, path string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestMiddleware_LimitWithinWindow(t *testing.T) {
	e := echo.New()
	p := Policy{Name: "test", Window: time.Minute, Limit: 2, Key: KeyIP("test")}
	e.GET("/x", okHandler, Middleware(p))

	if code := hit(e, "/x"); code != http.StatusOK {
		t.Fatalf("request #1 = %d, want 200", code)
	}
	if code := hit(e, "/x"); code != http.StatusOK {
		t.Fatalf("request #2 = %d, want 200", code)
	}
	if code := hit(e, "/x"); code != http.StatusTooManyRequests {
		t.Fatalf("request #3 = %d, want 429", code)
	}
}

func TestMiddleware_WindowResets(t *testing.T) {
	e := echo.New()
	p := Policy{Name: "test", Window: 50 * time.Millisecond, Limit: 1, Key: KeyIP("test")}
	e.GET("/x", okHandler, Middleware(p))

	if code := hit(e, "/x"); code != http.StatusOK {
		t.Fatalf("request #1 = %d, want 200", code)
	}
	if code := hit(e, "/x"); code != http.StatusTooManyRequests {
		t.Fatalf("request #2 = %d, want 429", code)
	}
	time.Sleep(60 * time.Millisecond)
	if code := hit(e, "/x"); code != http.StatusOK {
		t.Fatalf("request after window = %d, want 200", code)
	}
}

func TestMiddleware_SetsRetryAfter(t *testing.T) {
	e := echo.New()
	p := Policy{Name: "test", Window: time.Minute, Limit: 1, Key: KeyIP("test")}
	e.GET("/x", okHandler, Middleware(p))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("code = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header not set on 429")
	}
}

type stubStore struct {
	allowed    bool
	retryAfter int
	err        error
}

func (s stubStore) Allow(c echo.Context, key string, limit int, window time.Duration) (bool, int, error) {
	return s.allowed, s.retryAfter, s.err
}

func TestMiddlewareWithStore_FailsOpenOnStoreError(t *testing.T) {
	e := echo.New()
	p := Policy{Name: "test", Window: time.Minute, Limit: 1}
	e.GET("/x", okHandler, MiddlewareWithStore(p, stubStore{err: errStore}))

	if code := hit(e, "/x"); code != http.StatusOK {
		t.Fatalf("store error should fail open, got %d", code)
	}
}

func TestMiddlewareWithStore_Denies(t *testing.T) {
	e := echo.New()
	p := Policy{Name: "test", Window: time.Minute, Limit: 1}
	e.GET("/x", okHandler, MiddlewareWithStore(p, stubStore{allowed: false, retryAfter: 30}))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("code = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "30" {
		t.Errorf("Retry-After = %q, want 30", got)
	}
}

var errStore = errTest("redis unavailable")

type errTest string

func (e errTest) Error() string { return string(e) }
