package scout

import (
	"errors"
	"fmt"
	"strings"
)

// Params is the configuration surface of one run.
type Params struct {
	Keywords      []string `json:"keywords"`
	Mode          Mode     `json:"mode"`
	MaxPages      int      `json:"max_pages"`
	MaxCandidates int      `json:"max_candidates"`

	MinSubs       int64 `json:"min_subs"`
	MaxSubs       int64 `json:"max_subs"`
	MinTotalViews int64 `json:"min_total_views"`

	WindowDays    int   `json:"window_days"`
	MinAvgViews   int64 `json:"min_avg_views"`
	MaxVideosScan int   `json:"max_videos_scan"`

	QuotaBudget int `json:"quota_budget"` // 0 = unlimited

	ResolveHandles     bool `json:"resolve_handles"`
	ResolveLimit       int  `json:"resolve_limit"`
	AllowBareTokens    bool `json:"allow_bare_tokens"`
	SpeculativeHandles bool `json:"speculative_handles"`
	MatchTitles        bool `json:"match_titles"`
	VerifyFeedOrder    bool `json:"verify_feed_order"`
}

// Defaults.
const (
	DefaultMaxPages      = 3
	DefaultMaxCandidates = 500
	DefaultMaxVideosScan = 150
	DefaultMinSubs       = 1000
	DefaultMaxSubs       = 500000
	DefaultMinTotalViews = 10000
	DefaultWindowDays    = 30
	DefaultMinAvgViews   = 2000
	DefaultResolveLimit  = 50
)

// DefaultParams returns Params with every default set and no keywords.
func DefaultParams() Params {
	return Params{
		Mode:               ModeVideo,
		MaxPages:           DefaultMaxPages,
		MaxCandidates:      DefaultMaxCandidates,
		MinSubs:            DefaultMinSubs,
		MaxSubs:            DefaultMaxSubs,
		MinTotalViews:      DefaultMinTotalViews,
		WindowDays:         DefaultWindowDays,
		MinAvgViews:        DefaultMinAvgViews,
		MaxVideosScan:      DefaultMaxVideosScan,
		ResolveLimit:       DefaultResolveLimit,
		SpeculativeHandles: true,
	}
}

type intRange struct {
	name     string
	v        *int
	def      int
	min, max int
}

// Normalize trims keywords, fills zero values with defaults and rejects
// out-of-range settings. It does not fill threshold fields: a zero MinSubs
// or MinAvgViews is a valid setting.
func (p *Params) Normalize() error {
	kws := p.Keywords[:0:0]
	seen := make(map[string]bool)
	for _, k := range p.Keywords {
		k = strings.TrimSpace(k)
		if k == "" || seen[strings.ToLower(k)] {
			continue
		}
		seen[strings.ToLower(k)] = true
		kws = append(kws, k)
	}
	p.Keywords = kws

	mode, err := ParseMode(string(p.Mode))
	if err != nil {
		return err
	}
	p.Mode = mode

	var errs []error
	for _, r := range []intRange{
		{"max_pages", &p.MaxPages, DefaultMaxPages, 1, 10},
		{"max_candidates", &p.MaxCandidates, DefaultMaxCandidates, 1, 5000},
		{"max_videos_scan", &p.MaxVideosScan, DefaultMaxVideosScan, 20, 500},
		{"window_days", &p.WindowDays, DefaultWindowDays, 1, 90},
	} {
		if *r.v == 0 {
			*r.v = r.def
		}
		if *r.v < r.min || *r.v > r.max {
			errs = append(errs, fmt.Errorf("%s=%d out of range [%d, %d]", r.name, *r.v, r.min, r.max))
		}
	}
	if p.ResolveLimit <= 0 {
		p.ResolveLimit = DefaultResolveLimit
	}
	if p.MinSubs < 0 || p.MaxSubs < 0 || p.MinTotalViews < 0 || p.MinAvgViews < 0 {
		errs = append(errs, errors.New("thresholds must not be negative"))
	}
	if p.MaxSubs > 0 && p.MinSubs > p.MaxSubs {
		errs = append(errs, fmt.Errorf("min_subs=%d above max_subs=%d", p.MinSubs, p.MaxSubs))
	}
	if p.QuotaBudget < 0 {
		errs = append(errs, errors.New("quota_budget must not be negative"))
	}
	return errors.Join(errs...)
}
