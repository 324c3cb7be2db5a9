package services

import (
	"context"
	"sync"
	"time"

	"github.com/Decoding-DataScience/NutridecodeProd/utils"
)

const (
	dispatchMaxRetries = 3
	dispatchBaseDelay  = 2 * time.Second
)

// Dispatcher bounds outbound LLM traffic to an estimated token budget
// per rolling one-minute window and retries rate-limited calls with
// exponential backoff. The budget is a best-effort local throttle based
// on the caller's own estimate, not the remote API's accounting.
//
// Each Dispatcher owns its counters; construct one per composition root
// (or per test) instead of sharing process globals.
type Dispatcher struct {
	mu          sync.Mutex
	budget      int
	tokensUsed  int
	windowStart time.Time

	// now and sleep are swappable so tests can drive a fake clock.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewDispatcher(tokensPerMinute int) *Dispatcher {
	d := &Dispatcher{
		budget: tokensPerMinute,
		now:    time.Now,
		sleep:  sleepCtx,
	}
	d.windowStart = d.now()
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// EstimateTokens approximates the token cost of a prompt: one token per
// four characters, rounded up.
func EstimateTokens(s string) int {
	return (len(s) + 3) / 4
}

// Dispatch runs fn once the estimated cost fits into the current
// window, suspending the caller until the window resets when it does
// not. Rate-limited failures are retried with exponential backoff;
// every other error propagates immediately.
func (d *Dispatcher) Dispatch(ctx context.Context, estimatedCost int, fn func(ctx context.Context) error) error {
	if err := d.reserve(ctx, estimatedCost); err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt <= dispatchMaxRetries; attempt++ {
		if attempt > 0 {
			delay := dispatchBaseDelay * time.Duration(1<<(attempt-1))
			if err := d.sleep(ctx, delay); err != nil {
				return err
			}
			// A retry spends the estimate again.
			if err := d.reserve(ctx, estimatedCost); err != nil {
				return err
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !utils.IsRateLimited(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

// reserve blocks until estimatedCost fits in the rolling window, then
// spends it.
func (d *Dispatcher) reserve(ctx context.Context, estimatedCost int) error {
	for {
		d.mu.Lock()
		now := d.now()
		if now.Sub(d.windowStart) >= time.Minute {
			d.windowStart = now
			d.tokensUsed = 0
		}
		// Oversized requests are admitted into an otherwise empty
		// window rather than blocking forever.
		if d.tokensUsed+estimatedCost <= d.budget || (d.tokensUsed == 0 && estimatedCost > d.budget) {
			d.tokensUsed += estimatedCost
			d.mu.Unlock()
			return nil
		}
		wait := time.Minute - now.Sub(d.windowStart)
		d.mu.Unlock()

		if err := d.sleep(ctx, wait); err != nil {
			return err
		}
	}
}
