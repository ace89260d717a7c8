package engine

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net"
	"time"
)

// RetryConfig controls retry behavior.
type RetryConfig struct {
	MaxRetries  int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig retries connection setup only.
var DefaultRetryConfig = RetryConfig{
	MaxRetries:  2,
	InitialWait: 500 * time.Millisecond,
	MaxWait:     5 * time.Second,
	Multiplier:  2.0,
}

// RetryDo calls fn and retries it while the error shows the request never
// left this process (dial and DNS failures). Any other error, and context
// cancellation, return at once.
func RetryDo[T any](ctx context.Context, rc RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		result, err := fn()
		switch {
		case err == nil:
			return result, nil
		case !isRetryable(err), attempt >= rc.MaxRetries:
			return zero, err
		}

		wait := rc.backoff(attempt)
		slog.Debug("upstream dial failed, retrying",
			slog.Int("attempt", attempt+1), slog.Duration("wait", wait), slog.Any("error", err))
		t := time.NewTimer(wait)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return zero, ctx.Err()
		}
	}
}

// backoff is the wait before retry number attempt+1, capped at MaxWait.
func (rc RetryConfig) backoff(attempt int) time.Duration {
	wait := time.Duration(float64(rc.InitialWait) * math.Pow(rc.Multiplier, float64(attempt)))
	return min(wait, rc.MaxWait)
}

// isRetryable reports pre-send failures: dial errors and temporary DNS
// failures. Timeouts and HTTP status errors are never retried.
func isRetryable(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return !dnsErr.IsNotFound
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Op == "dial"
	}

	return false
}
