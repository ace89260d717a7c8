package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRegister(t *testing.T) {
	l := NewLedger(150)

	require.NoError(t, l.Register(CostSearch, "search:unboxing"))
	require.NoError(t, l.Register(CostChannels, "channels"))
	assert.Equal(t, 101, l.Used())

	err := l.Register(CostSearch, "search:unboxing#2")
	require.Error(t, err)

	var qe *QuotaExceededError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, 101, qe.Used)
	assert.Equal(t, 150, qe.Budget)
	assert.Equal(t, "search:unboxing#2", qe.Label)
	assert.Equal(t, 101, l.Used(), "rejected call must not be charged")
	assert.True(t, IsQuotaExceeded(err))
}

func TestLedgerExactBudget(t *testing.T) {
	l := NewLedger(100)
	require.NoError(t, l.Register(100, "search"))
	assert.Equal(t, 0, l.Remaining())
	assert.Error(t, l.Register(1, "channels"))
	assert.Equal(t, 100, l.Used())
}

func TestLedgerUnlimited(t *testing.T) {
	for _, budget := range []int{0, -5} {
		l := NewLedger(budget)
		for i := 0; i < 50; i++ {
			require.NoError(t, l.Register(CostSearch, "search"))
		}
		assert.Equal(t, 5000, l.Used())
		assert.Equal(t, 0, l.Budget())
		assert.Equal(t, -1, l.Remaining())
	}
}

func TestLedgerNeverExceedsBudget(t *testing.T) {
	l := NewLedger(250)
	costs := []int{100, 1, 1, 100, 100, 1, 50, 1}
	for _, c := range costs {
		_ = l.Register(c, "op")
		assert.LessOrEqual(t, l.Used(), l.Budget())
	}
	assert.Equal(t, 204, l.Used())
}

func TestLedgerNegativeCost(t *testing.T) {
	l := NewLedger(10)
	err := l.Register(-1, "bad")
	require.Error(t, err)
	assert.False(t, IsQuotaExceeded(err))
	assert.Equal(t, 0, l.Used())
}
