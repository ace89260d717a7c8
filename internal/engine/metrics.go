package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks operational counters across the engine in a private registry,
// rendered as plain text for the MCP metrics endpoint.
var (
	registry = prometheus.NewRegistry()

	apiCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scout_api_calls_total",
		Help: "Upstream API calls issued, by operation.",
	}, []string{"op"})

	apiFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scout_api_failures_total",
		Help: "Upstream API calls that failed, by operation.",
	}, []string{"op"})

	quotaUnits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scout_quota_units_total",
		Help: "Cost units charged to run ledgers, by operation.",
	}, []string{"op"})

	cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scout_cache_lookups_total",
		Help: "Response cache lookups, by result.",
	}, []string{"result"})

	runs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scout_runs_total",
		Help: "Pipeline runs, by terminal outcome.",
	}, []string{"outcome"})

	feedOrderViolations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scout_feed_order_violations_total",
		Help: "Upload feed items observed newer than their predecessor.",
	})
)

func init() {
	registry.MustRegister(apiCalls, apiFailures, quotaUnits, cacheLookups, runs, feedOrderViolations)
}

// RecordCall counts one upstream call and the units it was charged.
func RecordCall(op string, units int) {
	apiCalls.WithLabelValues(op).Inc()
	quotaUnits.WithLabelValues(op).Add(float64(units))
}

// RecordFailure counts one failed upstream call.
func RecordFailure(op string) { apiFailures.WithLabelValues(op).Inc() }

// RecordRun counts a finished pipeline run by outcome (stop reason or "done").
func RecordRun(outcome string) { runs.WithLabelValues(outcome).Inc() }

// RecordFeedOrderViolation counts an out-of-order upload feed item.
func RecordFeedOrderViolation() { feedOrderViolations.Inc() }

func recordCache(hit bool) {
	if hit {
		cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	cacheLookups.WithLabelValues("miss").Inc()
}

// GetMetrics returns a snapshot of all counters keyed by name{labels}.
func GetMetrics() map[string]float64 {
	out := make(map[string]float64)
	families, err := registry.Gather()
	if err != nil {
		slog.Debug("metrics: gather failed", slog.Any("error", err))
		return out
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			out[name] = m.GetCounter().GetValue()
		}
	}
	return out
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %g\n", k, m[k])
	}
	return sb.String()
}

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 30*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
