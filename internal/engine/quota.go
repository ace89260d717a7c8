package engine

import (
	"errors"
	"fmt"
	"sync"
)

// Upstream cost table, in YouTube Data API v3 quota units.
const (
	CostSearch        = 100
	CostChannels      = 1
	CostPlaylistItems = 1
	CostVideos        = 1
)

// QuotaExceededError is returned when registering a cost would push the
// ledger past its budget. Used is the total before the rejected call.
type QuotaExceededError struct {
	Used   int
	Budget int
	Label  string
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("quota budget exceeded: %d/%d units used, %q would go over", e.Used, e.Budget, e.Label)
}

// IsQuotaExceeded reports whether err carries a *QuotaExceededError.
func IsQuotaExceeded(err error) bool {
	var qe *QuotaExceededError
	return errors.As(err, &qe)
}

// Ledger tracks cumulative cost units against a budget for a single run.
// A budget <= 0 means unlimited.
type Ledger struct {
	mu     sync.Mutex
	budget int
	used   int
}

// NewLedger creates a ledger with the given budget.
func NewLedger(budget int) *Ledger {
	if budget < 0 {
		budget = 0
	}
	return &Ledger{budget: budget}
}

// Register charges units for the call named by label. If the new total would
// exceed the budget, nothing is charged and a *QuotaExceededError is returned.
func (l *Ledger) Register(units int, label string) error {
	if units < 0 {
		return fmt.Errorf("ledger: negative cost %d for %q", units, label)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	next := l.used + units
	if l.budget > 0 && next > l.budget {
		return &QuotaExceededError{Used: l.used, Budget: l.budget, Label: label}
	}
	l.used = next
	return nil
}

// Used returns the units charged so far.
func (l *Ledger) Used() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.used
}

// Budget returns the configured budget (0 = unlimited).
func (l *Ledger) Budget() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.budget
}

// Remaining returns the units left, or -1 when unlimited.
func (l *Ledger) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.budget <= 0 {
		return -1
	}
	return l.budget - l.used
}
