package github

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Budget tracks the GitHub rate limit advertised by response headers and
// blocks callers once it is exhausted.
type Budget struct {
	mu        sync.Mutex
	remaining int
	reset     time.Time
	cooldown  time.Time
	now       func() time.Time
	changed   chan struct{}
}

func NewBudget() *Budget {
	return &Budget{
		// Unauthenticated clients get 60 requests per hour; start there and
		// let the first response correct it.
		remaining: 60,
		reset:     time.Now().Add(time.Hour),
		now:       time.Now,
		changed:   make(chan struct{}),
	}
}

func (b *Budget) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.remaining
}

// Acquire takes one request from the budget, waiting for a cooldown or a
// reset when needed. After the reset time a request is always allowed so
// the budget can refresh itself from the response.
func (b *Budget) Acquire(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("Acquire: nil context")
	}
	if b == nil {
		return fmt.Errorf("Acquire: nil Budget")
	}
	for {
		b.mu.Lock()
		now := b.now()
		var until time.Time
		switch {
		case now.Before(b.cooldown):
			until = b.cooldown
		case b.remaining > 0:
			b.remaining--
			b.mu.Unlock()
			return nil
		case !now.Before(b.reset):
			b.mu.Unlock()
			return nil
		default:
			until = b.reset
		}
		ch := b.changed
		b.mu.Unlock()

		timer := time.NewTimer(max(until.Sub(now), 0))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-ch:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// UpdateFromResponse applies Retry-After and X-RateLimit-* headers.
func (b *Budget) UpdateFromResponse(resp *http.Response) {
	if b == nil || resp == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	changed := false
	if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && seconds > 0 {
		until := b.now().Add(time.Duration(seconds) * time.Second)
		if until.After(b.cooldown) {
			b.cooldown = until
			changed = true
		}
	}
	if val, err := strconv.Atoi(resp.Header.Get("X-RateLimit-Remaining")); err == nil && val >= 0 && val != b.remaining {
		b.remaining = val
		changed = true
	}
	if val, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64); err == nil && val > 0 {
		if reset := time.Unix(val, 0); !reset.Equal(b.reset) {
			b.reset = reset
			changed = true
		}
	}

	if changed {
		close(b.changed)
		b.changed = make(chan struct{})
	}
}
