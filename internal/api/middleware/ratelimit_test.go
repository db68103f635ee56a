package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/projecthub/tracker-api/internal/infrastructure/db/redis"
)

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string, string) (bool, error) {
	return false, errors.New("connection refused")
}

func serve(t *testing.T, mw echo.MiddlewareFunc) int {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return rec.Code
}

func TestRateLimit_RejectsOverBudget(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limited := 0
	mw := RateLimit(redis.NewRateLimiter(client, 2, time.Minute), "auth", zerolog.Nop(), func(string) { limited++ })

	for i := 0; i < 2; i++ {
		if code := serve(t, mw); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, code)
		}
	}
	if code := serve(t, mw); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}
	if limited != 1 {
		t.Fatalf("expected one limited callback, got %d", limited)
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	mw := RateLimit(failingLimiter{}, "auth", zerolog.Nop(), nil)
	if code := serve(t, mw); code != http.StatusOK {
		t.Fatalf("expected 200 when limiter errors, got %d", code)
	}

	mw = RateLimit(nil, "auth", zerolog.Nop(), nil)
	if code := serve(t, mw); code != http.StatusOK {
		t.Fatalf("expected 200 without limiter, got %d", code)
	}
}
