package engine

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"
)

var errDial = &net.OpError{Op: "dial", Err: errors.New("connection refused")}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"dial refused", errDial, true},
		{"read reset", &net.OpError{Op: "read", Err: errors.New("reset")}, false},
		{"dns temporary", &net.DNSError{IsTemporary: true}, true},
		{"dns not found", &net.DNSError{IsNotFound: true}, false},
		{"api error", errors.New("403 quotaExceeded"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryable(tt.err); got != tt.want {
				t.Errorf("isRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRetryDo(t *testing.T) {
	rc := RetryConfig{MaxRetries: 2, InitialWait: time.Millisecond, MaxWait: 5 * time.Millisecond, Multiplier: 2}
	tests := []struct {
		name      string
		failures  int   // leading failures before success
		failWith  error // error returned while failing
		wantCalls int
		wantErr   bool
	}{
		{"first try", 0, nil, 1, false},
		{"dial then ok", 2, errDial, 3, false},
		{"dial exhausted", 5, errDial, 3, true},
		{"api error not retried", 5, errors.New("403 quotaExceeded"), 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			got, err := RetryDo(context.Background(), rc, func() (string, error) {
				calls++
				if calls <= tt.failures {
					return "", tt.failWith
				}
				return "ok", nil
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != "ok" {
				t.Errorf("got %q, want ok", got)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryDoContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := RetryDo(ctx, DefaultRetryConfig, func() (string, error) {
		calls++
		return "", errDial
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Errorf("fn called %d times after cancel", calls)
	}
}

func TestBackoffCapped(t *testing.T) {
	rc := RetryConfig{InitialWait: 100 * time.Millisecond, MaxWait: 300 * time.Millisecond, Multiplier: 2}
	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond, 300 * time.Millisecond}
	for i, w := range want {
		if got := rc.backoff(i); got != w {
			t.Errorf("backoff(%d) = %v, want %v", i, got, w)
		}
	}
}
