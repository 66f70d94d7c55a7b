package browser

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/pageforge/pageforge/internal/logger"
)

// RetryPolicy is the central bounded-retry configuration for page fetches.
// It is defined once per browser rather than ad hoc per call site.
type RetryPolicy struct {
	// MaxAttempts bounds the total tries, first attempt included.
	MaxAttempts int
	// InitialBackoff is the wait after the first failure.
	InitialBackoff time.Duration
	// MaxBackoff caps the exponential growth.
	MaxBackoff time.Duration
	// Multiplier grows the backoff between attempts.
	Multiplier float64
	// Idempotent gates retrying: requests that are not safe to repeat
	// (funds transfers) must not be retried even on a transient failure.
	// A nil predicate retries everything classified retryable.
	Idempotent func(method string) bool
}

// DefaultRetryPolicy retries GET/HEAD three times with exponential backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
		Multiplier:     2.0,
		Idempotent: func(method string) bool {
			return method == "GET" || method == "HEAD"
		},
	}
}

func (p RetryPolicy) backoff(attempt int) time.Duration {
	d := float64(p.InitialBackoff) * math.Pow(p.Multiplier, float64(attempt))
	if d > float64(p.MaxBackoff) {
		d = float64(p.MaxBackoff)
	}
	return time.Duration(d)
}

// run executes fn under the policy. Non-retryable errors and non-idempotent
// methods surface immediately.
func (p RetryPolicy) run(ctx context.Context, method string, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	canRetry := p.Idempotent == nil || p.Idempotent(method)

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		err := fn()
		if err == nil {
			if attempt > 0 {
				logger.Debug("retry succeeded", "attempts", attempt+1)
			}
			return nil
		}
		lastErr = err

		if !canRetry || !Retryable(err) {
			return err
		}
		if attempt == attempts-1 {
			break
		}

		backoff := p.backoff(attempt)
		logger.Debug("retrying after backoff",
			"attempt", attempt+1, "backoff", backoff, "error", err)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("request failed after %d attempts: %w", attempts, lastErr)
}
