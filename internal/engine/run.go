package engine

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Run is the per-run context: it owns the quota ledger, the response cache
// and the handle-resolution memo. Create one at run start and drop it at run end.
type Run struct {
	ID     string
	Ledger *Ledger
	Cache  *Cache
	Log    *slog.Logger
	Now    func() time.Time

	handles map[handleKey]handleEntry
}

// handleKey separates strict lookups from speculative ones, whose answer
// may be a guess.
type handleKey struct {
	handle      string
	speculative bool
}

type handleEntry struct {
	id    string
	found bool
}

// NewRun creates a run with its own ledger. cache and logger may be nil.
func NewRun(budget int, cache *Cache, logger *slog.Logger) *Run {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	return &Run{
		ID:      id,
		Ledger:  NewLedger(budget),
		Cache:   cache,
		Log:     logger.With(slog.String("run_id", id)),
		Now:     time.Now,
		handles: make(map[handleKey]handleEntry),
	}
}

// Charge registers units on the ledger and records the metric.
func (r *Run) Charge(op string, units int, label string) error {
	if err := r.Ledger.Register(units, label); err != nil {
		return err
	}
	RecordCall(op, units)
	return nil
}

// LookupHandle returns a memoized resolution. known is false when the
// handle has not been resolved in this mode in this run yet.
func (r *Run) LookupHandle(handle string, speculative bool) (id string, found, known bool) {
	e, ok := r.handles[handleKey{strings.ToLower(handle), speculative}]
	if !ok {
		return "", false, false
	}
	return e.id, e.found, true
}

// RememberHandle memoizes a resolution outcome, including misses.
func (r *Run) RememberHandle(handle string, speculative bool, id string, found bool) {
	r.handles[handleKey{strings.ToLower(handle), speculative}] = handleEntry{id: id, found: found}
}
