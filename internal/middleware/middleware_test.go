package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/config"
)

func TestLoggingMiddleware(t *testing.T) {
	logger, hook := logtest.NewNullLogger()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(ContextKeyRequestID, "rid-123")
	c.Set(ContextKeyUserID, "user-1")

	err := Logging(logger)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatalf("expected a log entry")
	}
	if entry.Data["request_id"] != "rid-123" || entry.Data["user_id"] != "user-1" {
		t.Fatalf("unexpected fields: %v", entry.Data)
	}
	if entry.Level != logrus.InfoLevel {
		t.Fatalf("expected info level, got %s", entry.Level)
	}

	// errors are rendered, logged and propagated
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set(ContextKeyRequestID, "rid-456")
	expected := errors.New("boom")
	err = Logging(logger)(func(c echo.Context) error {
		return expected
	})(c)
	if !errors.Is(err, expected) {
		t.Fatalf("expected error to bubble up")
	}
	entry = hook.LastEntry()
	if entry.Data["request_id"] != "rid-456" {
		t.Fatalf("expected second entry with new request id, got %v", entry.Data)
	}
	if entry.Level != logrus.ErrorLevel {
		t.Fatalf("expected error level for 500, got %s", entry.Level)
	}
}

func TestAnalyzeRateLimiter(t *testing.T) {
	cfg := config.RateLimitConfig{Requests: 1, Interval: time.Minute}
	mw := AnalyzeRateLimiter(cfg)

	e := echo.New()
	nextCalls := 0
	next := func(c echo.Context) error {
		nextCalls++
		return c.NoContent(http.StatusOK)
	}

	serve := func(mw echo.MiddlewareFunc, userID string) int {
		req := httptest.NewRequest(http.MethodPost, "/qualifications/analyze", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if userID != "" {
			c.Set(ContextKeyUserID, userID)
		}
		_ = mw(next)(c)
		return rec.Code
	}

	if code := serve(mw, "user-1"); code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", code)
	}
	if code := serve(mw, "user-1"); code != http.StatusTooManyRequests {
		t.Fatalf("expected second request rejected, got %d", code)
	}
	if code := serve(mw, "user-2"); code != http.StatusOK {
		t.Fatalf("expected another owner to have its own bucket, got %d", code)
	}

	// zero config behaves as passthrough
	disabled := AnalyzeRateLimiter(config.RateLimitConfig{})
	for i := 0; i < 3; i++ {
		if code := serve(disabled, "user-1"); code != http.StatusOK {
			t.Fatalf("expected passthrough when limiter disabled, got %d", code)
		}
	}
	if nextCalls != 5 {
		t.Fatalf("expected 5 handler calls, got %d", nextCalls)
	}
}

func TestBucketSet_EvictsIdleKeys(t *testing.T) {
	clock := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }
	set := newBucketSet(config.RateLimitConfig{Requests: 2, Interval: time.Minute}, 100, now)

	for i := 0; i < 50; i++ {
		set.allow(fmt.Sprintf("ip:203.0.113.%d", i))
	}
	if set.size() != 50 {
		t.Fatalf("expected 50 tracked keys, got %d", set.size())
	}

	if !set.allow("user-1") || !set.allow("user-1") {
		t.Fatalf("expected burst of two to pass")
	}
	if set.allow("user-1") {
		t.Fatalf("expected third request in the window to be rejected")
	}

	clock = clock.Add(30 * time.Second)
	set.allow("user-1")

	clock = clock.Add(45 * time.Second)
	set.allow("user-2")
	if got := set.size(); got != 2 {
		t.Fatalf("expected idle addresses swept leaving 2 keys, got %d", got)
	}
}

func TestBucketSet_CapsTrackedKeys(t *testing.T) {
	clock := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }
	set := newBucketSet(config.RateLimitConfig{Requests: 1, Interval: time.Hour}, 3, now)

	for _, key := range []string{"a", "b", "c"} {
		clock = clock.Add(time.Second)
		set.allow(key)
	}
	clock = clock.Add(time.Second)
	if !set.allow("d") {
		t.Fatalf("expected a new key to get a fresh bucket")
	}
	if got := set.size(); got != 3 {
		t.Fatalf("expected size capped at 3, got %d", got)
	}
	// "a" was the least recently seen and got a fresh bucket back.
	if !set.allow("a") {
		t.Fatalf("expected evicted key to start over")
	}
	if set.allow("d") {
		t.Fatalf("expected retained key to keep its spent bucket")
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	e := echo.New()
	handler := RequestID()

	t.Run("reuse incoming header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "qualify-7f3a.batch:2")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handler(func(c echo.Context) error {
			if RequestIDFromContext(c) != "qualify-7f3a.batch:2" {
				t.Fatalf("expected request id to be stored")
			}
			return c.NoContent(http.StatusOK)
		})(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if rec.Header().Get("X-Request-ID") != "qualify-7f3a.batch:2" {
			t.Fatalf("expected response header to propagate request id")
		}
	})

	t.Run("replace malformed header", func(t *testing.T) {
		for _, incoming := range []string{"bad id\r\nX-Injected: 1", "qualify run", strings.Repeat("a", maxRequestIDLength+1)} {
			req := httptest.NewRequest(http.MethodPost, "/qualifications", nil)
			req.Header.Set("X-Request-ID", incoming)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var rid string
			_ = handler(func(c echo.Context) error {
				rid = RequestIDFromContext(c)
				return c.NoContent(http.StatusOK)
			})(c)

			if rid == incoming || rid == "" {
				t.Fatalf("expected a generated id for %q, got %q", incoming, rid)
			}
			if _, err := uuid.Parse(rid); err != nil {
				t.Fatalf("expected uuid request id, got %q", rid)
			}
		}
	})

	t.Run("generate when missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handler(func(c echo.Context) error {
			if RequestIDFromContext(c) == "" {
				t.Fatalf("expected generated request id")
			}
			return c.NoContent(http.StatusOK)
		})(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if rec.Header().Get("X-Request-ID") == "" {
			t.Fatalf("expected response header set")
		}
	})
}
