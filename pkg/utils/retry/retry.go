package retry

import (
	"context"
	"math"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Policy controls exponential backoff. The sleep before attempt N
// (N >= 2) is min(BaseDelay * Factor^(N-2), MaxDelay).
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Factor      float64
}

// DefaultPolicy matches the conventional 3-attempt schedule.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   200 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Factor:      2.0,
	}
}

// Do runs fn up to MaxAttempts times, sleeping with exponential
// backoff between attempts. Any error triggers a retry; classification
// (e.g. never retrying authentication failures) is the caller's
// responsibility. After exhausting attempts the last error is
// returned.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if p.MaxAttempts < 1 {
		return zero, goerr.New("retry policy requires at least one attempt",
			goerr.V("max_attempts", p.MaxAttempts))
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, p.delay(attempt)); err != nil {
				return zero, err
			}
		}

		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err
	}

	return zero, lastErr
}

func (p Policy) delay(attempt int) time.Duration {
	d := time.Duration(float64(p.BaseDelay) * math.Pow(p.Factor, float64(attempt-2)))
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return goerr.Wrap(ctx.Err(), "retry canceled")
	case <-t.C:
		return nil
	}
}
