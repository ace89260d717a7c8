package scout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_scout/internal/engine"
)

func TestCallStatuses(t *testing.T) {
	ctx := context.Background()
	run := testRun(t, 0)
	spec := callSpec{op: "videos", cost: 1, label: "t"}
	isEmpty := func(v []int) bool { return len(v) == 0 }

	ok, err := call(ctx, run, spec, func(context.Context) ([]int, error) { return []int{1}, nil }, isEmpty)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, ok.Status)

	empty, err := call(ctx, run, spec, func(context.Context) ([]int, error) { return nil, nil }, isEmpty)
	require.NoError(t, err)
	assert.Equal(t, StatusEmpty, empty.Status)

	failed, err := call(ctx, run, spec, func(context.Context) ([]int, error) { return nil, errUpstream }, isEmpty)
	require.NoError(t, err, "upstream failures are absorbed")
	assert.Equal(t, StatusFailed, failed.Status)
	assert.ErrorIs(t, failed.Err, errUpstream)

	assert.Equal(t, 3, run.Ledger.Used(), "failed calls are still charged")
}

func TestCallLedgerRejection(t *testing.T) {
	run := testRun(t, 50)
	issued := false
	_, err := call(context.Background(), run, callSpec{op: "search", cost: 100, label: "page"},
		func(context.Context) (int, error) { issued = true; return 1, nil }, nil)
	require.Error(t, err)
	assert.True(t, engine.IsQuotaExceeded(err))
	assert.False(t, issued, "rejected call must not be issued")
	assert.Equal(t, 0, run.Ledger.Used())
}

func TestCallCacheHitIsFree(t *testing.T) {
	ctx := context.Background()
	run := testRun(t, 0)
	run.Cache = engine.NewCache(nil, time.Minute, 10)
	spec := callSpec{op: "channels", cost: 1, label: "c", key: engine.CacheKey("channels", "a")}

	n := 0
	fetch := func(context.Context) ([]string, error) { n++; return []string{"a"}, nil }
	for range 3 {
		out, err := call(ctx, run, spec, fetch, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, out.Value)
	}
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, run.Ledger.Used())
}

func TestCallCanceledContextIsFatal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	run := testRun(t, 0)
	_, err := call(ctx, run, callSpec{op: "videos", cost: 1, label: "v"},
		func(ctx context.Context) (int, error) { return 0, ctx.Err() }, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "ok", StatusOK.String())
	assert.Equal(t, "empty", StatusEmpty.String())
	assert.Equal(t, "failed", StatusFailed.String())
}
