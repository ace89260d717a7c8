package scout

import (
	"fmt"
	"sort"

	"github.com/anatolykoptev/go_scout/internal/engine"
)

// Stage is a pipeline state.
type Stage string

const (
	StageIdle           Stage = "idle"
	StageNormalizing    Stage = "normalizing"
	StageDiscovering    Stage = "discovering"
	StageEnriching      Stage = "enriching"
	StageFilteringBasic Stage = "filtering_basic"
	StageScoringAverage Stage = "scoring_average"
	StageAssembling     Stage = "assembling"
	StageDone           Stage = "done"
)

// StopReason says why a run ended before Done. Empty means it did not.
type StopReason string

const (
	StopNoKeywords       StopReason = "no_keywords"
	StopNoCandidates     StopReason = "no_candidates"
	StopNoBasicSurvivors StopReason = "no_basic_survivors"
	StopAllExcluded      StopReason = "all_excluded"
	StopQuotaExceeded    StopReason = "quota_exceeded"
)

// Message levels.
const (
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelFatal = "fatal"
)

// Message is one user-facing status line. A report carries at most one fatal.
type Message struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// Counters tracks how many channels each stage saw or dropped.
type Counters struct {
	Candidates           int `json:"candidates"`
	ExcludedBeforeEnrich int `json:"excluded_before_enrich"`
	Enriched             int `json:"enriched"`
	ExcludedByID         int `json:"excluded_by_id"`
	ExcludedByHandle     int `json:"excluded_by_handle"`
	ExcludedByTitle      int `json:"excluded_by_title"`
	BasicPass            int `json:"basic_pass"`
	Scored               int `json:"scored"`
	NoRecentVideos       int `json:"no_recent_videos"`
	BelowAverageFloor    int `json:"below_average_floor"`
}

func (c Counters) excludedAfterEnrich() int {
	return c.ExcludedByID + c.ExcludedByHandle + c.ExcludedByTitle
}

// ResultRow is one surviving channel.
type ResultRow struct {
	ChannelID   string `json:"channel_id"`
	Title       string `json:"title"`
	Handle      string `json:"handle,omitempty"`
	Subscribers int64  `json:"subscribers"`
	TotalViews  int64  `json:"total_views"`
	AvgViews    int64  `json:"avg_views"`
	Samples     int    `json:"samples"`
	Country     string `json:"country"`
	Link        string `json:"link"`
}

// Report is the outcome of one run.
type Report struct {
	RunID       string         `json:"run_id"`
	Stage       Stage          `json:"stage"`
	Stop        StopReason     `json:"stop_reason,omitempty"`
	Messages    []Message      `json:"messages,omitempty"`
	Counters    Counters       `json:"counters"`
	Exclusion   ExclusionStats `json:"exclusion"`
	Rows        []ResultRow    `json:"rows"`
	QuotaUsed   int            `json:"quota_used"`
	QuotaBudget int            `json:"quota_budget"`
}

func (r *Report) info(format string, args ...any) {
	r.Messages = append(r.Messages, Message{Level: LevelInfo, Text: fmt.Sprintf(format, args...)})
}

func (r *Report) warn(format string, args ...any) {
	r.Messages = append(r.Messages, Message{Level: LevelWarn, Text: fmt.Sprintf(format, args...)})
}

// Fatal returns the fatal message, if any.
func (r *Report) Fatal() (Message, bool) {
	for _, m := range r.Messages {
		if m.Level == LevelFatal {
			return m, true
		}
	}
	return Message{}, false
}

func (r *Report) stop(reason StopReason, format string, args ...any) {
	r.Stop = reason
	r.warn(format, args...)
}

func (r *Report) stopQuota(qe *engine.QuotaExceededError) {
	r.Stop = StopQuotaExceeded
	r.Rows = []ResultRow{}
	r.Messages = append(r.Messages, Message{
		Level: LevelFatal,
		Text:  fmt.Sprintf("quota exceeded: %d of %d units used, stopped before %s", qe.Used, qe.Budget, qe.Label),
	})
}

// sortRows orders rows by average views, then subscribers, descending.
// Ties fall back to channel ID so output is stable.
func sortRows(rows []ResultRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.AvgViews != b.AvgViews {
			return a.AvgViews > b.AvgViews
		}
		if a.Subscribers != b.Subscribers {
			return a.Subscribers > b.Subscribers
		}
		return a.ChannelID < b.ChannelID
	})
}

func newRow(m ChannelMetrics, title string, avg PeriodAverage) ResultRow {
	v, _ := avg.Value()
	if m.Title != "" {
		title = m.Title
	}
	return ResultRow{
		ChannelID:   m.ID,
		Title:       title,
		Handle:      m.Handle,
		Subscribers: m.Subscribers,
		TotalViews:  m.Views,
		AvgViews:    v,
		Samples:     avg.Samples,
		Country:     engine.OrNA(m.Country),
		Link:        engine.ChannelURL(m.ID),
	}
}
