package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMetrics(t *testing.T) {
	before := GetMetrics()["scout_api_calls_total{op=search}"]

	RecordCall("search", CostSearch)
	RecordFailure("search")
	RecordRun("done")

	m := GetMetrics()
	assert.Equal(t, before+1, m["scout_api_calls_total{op=search}"])
	assert.GreaterOrEqual(t, m["scout_quota_units_total{op=search}"], float64(CostSearch))

	text := FormatMetrics()
	assert.True(t, strings.Contains(text, "scout_api_failures_total{op=search}"))
	assert.True(t, strings.Contains(text, "scout_runs_total{outcome=done}"))
}
