package scout

import (
	"context"
	"log/slog"

	"github.com/anatolykoptev/go_scout/internal/engine"
)

// Status classifies the result of one upstream call.
type Status int

const (
	StatusOK     Status = iota // call succeeded with usable data
	StatusEmpty                // call succeeded with nothing in it
	StatusFailed               // call failed; treat as no data
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	default:
		return "failed"
	}
}

// Outcome is the explicit result of one upstream call.
type Outcome[T any] struct {
	Value  T
	Status Status
	Err    error
}

type callSpec struct {
	op    string // metric label: search, channels, playlistItems, videos
	cost  int
	label string // human-readable, reported on quota exhaustion
	key   string // cache key; empty disables caching
}

// call runs fetch under the run's cache and ledger.
//
// A cache hit is returned without charging. On a miss the cost is registered
// first; a ledger rejection is the only error returned and the call is not
// issued. Upstream failures are absorbed into StatusFailed, unless the
// context itself is done.
func call[T any](ctx context.Context, run *engine.Run, spec callSpec, fetch func(context.Context) (T, error), isEmpty func(T) bool) (Outcome[T], error) {
	if spec.key != "" {
		if v, ok := engine.CacheLoad[T](ctx, run.Cache, spec.key); ok {
			return classify(v, isEmpty), nil
		}
	}

	if err := run.Charge(spec.op, spec.cost, spec.label); err != nil {
		return Outcome[T]{Status: StatusFailed, Err: err}, err
	}

	v, err := fetch(ctx)
	if err != nil {
		engine.RecordFailure(spec.op)
		if ctx.Err() != nil {
			return Outcome[T]{Status: StatusFailed, Err: ctx.Err()}, ctx.Err()
		}
		run.Log.Warn("upstream call failed",
			slog.String("op", spec.op), slog.String("call", spec.label), slog.Any("error", err))
		return Outcome[T]{Status: StatusFailed, Err: err}, nil
	}

	if spec.key != "" {
		engine.CacheStore(ctx, run.Cache, spec.key, v)
	}
	return classify(v, isEmpty), nil
}

func classify[T any](v T, isEmpty func(T) bool) Outcome[T] {
	if isEmpty != nil && isEmpty(v) {
		return Outcome[T]{Value: v, Status: StatusEmpty}
	}
	return Outcome[T]{Value: v, Status: StatusOK}
}
