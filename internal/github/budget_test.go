package github

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"
)

func strconvI64(v int64) string { return strconv.FormatInt(v, 10) }

func headerResponse(kv ...string) *http.Response {
	h := http.Header{}
	for i := 0; i+1 < len(kv); i += 2 {
		h.Set(kv[i], kv[i+1])
	}
	return &http.Response{Header: h}
}

func TestBudget_AcquireDecrements(t *testing.T) {
	b := NewBudget()
	b.UpdateFromResponse(headerResponse("X-RateLimit-Remaining", "2"))

	for i := 0; i < 2; i++ {
		if err := b.Acquire(context.Background()); err != nil {
			t.Fatalf("Acquire %d: %v", i, err)
		}
	}
	if got := b.Remaining(); got != 0 {
		t.Fatalf("want 0 remaining, got %d", got)
	}
}

func TestBudget_ExhaustedWaitsForContext(t *testing.T) {
	b := NewBudget()
	reset := time.Now().Add(time.Hour).Unix()
	b.UpdateFromResponse(headerResponse(
		"X-RateLimit-Remaining", "0",
		"X-RateLimit-Reset", strconvI64(reset),
	))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := b.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want deadline exceeded, got %v", err)
	}
}

func TestBudget_PastResetAllowsRequest(t *testing.T) {
	b := NewBudget()
	b.UpdateFromResponse(headerResponse(
		"X-RateLimit-Remaining", "0",
		"X-RateLimit-Reset", strconvI64(time.Now().Add(-time.Minute).Unix()),
	))
	if err := b.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire after reset: %v", err)
	}
}

func TestBudget_RetryAfterCooldown(t *testing.T) {
	b := NewBudget()
	now := time.Unix(1_700_000_000, 0)
	b.now = func() time.Time { return now }
	b.UpdateFromResponse(headerResponse("Retry-After", "30"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := b.Acquire(ctx); err == nil {
		t.Fatal("expected cooldown to block until context expiry")
	}

	now = now.Add(31 * time.Second)
	if err := b.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire after cooldown: %v", err)
	}
}

func TestBudget_NilGuards(t *testing.T) {
	var b *Budget
	if err := b.Acquire(context.Background()); err == nil {
		t.Fatal("expected error on nil budget")
	}
	b.UpdateFromResponse(nil)
}
