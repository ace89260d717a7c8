package engine

// --- Tool input types ---

type CreatorSearchInput struct {
	Keywords      string   `json:"keywords" jsonschema:"Search keywords, one per line or comma-separated"`
	Mode          string   `json:"mode,omitempty" jsonschema:"video (channels behind matching videos, default) or channel (match channel names)"`
	MaxPages      int      `json:"max_pages,omitempty" jsonschema:"Search pages per keyword, 1-10 (default: 3)"`
	MaxCandidates int      `json:"max_candidates,omitempty" jsonschema:"Max channels per keyword (default: 500)"`
	MinSubs       *int64   `json:"min_subs,omitempty" jsonschema:"Minimum subscribers (default: 1000)"`
	MaxSubs       *int64   `json:"max_subs,omitempty" jsonschema:"Maximum subscribers, 0 = no limit (default: 500000)"`
	MinViews      *int64   `json:"min_total_views,omitempty" jsonschema:"Minimum lifetime views (default: 10000)"`
	WindowDays    int      `json:"window_days,omitempty" jsonschema:"Trailing window for the average, 1-90 days (default: 30)"`
	MinAvgViews   *int64   `json:"min_avg_views,omitempty" jsonschema:"Minimum average views per video in the window (default: 2000)"`
	MaxVideos     int      `json:"max_videos_scan,omitempty" jsonschema:"Upload feed items inspected per channel, 20-500 (default: 150)"`
	QuotaBudget   int      `json:"quota_budget,omitempty" jsonschema:"Quota units this run may spend (default: server setting)"`
	Exclude       []string `json:"exclude,omitempty" jsonschema:"Channels to skip: IDs, channel URLs, @handles"`
	ExcludeCSV    string   `json:"exclude_csv,omitempty" jsonschema:"Path to a CSV exclusion table on the server"`
	UseRoster     bool     `json:"use_roster,omitempty" jsonschema:"Also exclude every channel saved in the roster"`
	Resolve       bool     `json:"resolve_handles,omitempty" jsonschema:"Resolve excluded @handles to channel IDs (costs quota)"`
	ResolveLimit  int      `json:"resolve_limit,omitempty" jsonschema:"Max handles to resolve (default: 50)"`
	BareTokens    bool     `json:"bare_tokens,omitempty" jsonschema:"Treat lone words in the exclusion list as handles"`
	NoSpeculative bool     `json:"no_speculative,omitempty" jsonschema:"Do not fall back to the top search hit when a handle has no exact match"`
	MatchTitles   bool     `json:"match_titles,omitempty" jsonschema:"Also skip channels whose title matches a title in the exclusion list"`
	VerifyOrder   bool     `json:"verify_feed_order,omitempty" jsonschema:"Scan upload feeds fully instead of stopping at the first old video"`
	SaveToRoster  bool     `json:"save_to_roster,omitempty" jsonschema:"Save found channels to the roster"`
}

type ChannelResolveInput struct {
	Channel     string `json:"channel" jsonschema:"Channel ID, URL or @handle"`
	Speculative bool   `json:"speculative,omitempty" jsonschema:"Accept the top search hit when no handle matches exactly"`
}

type ChannelAverageInput struct {
	Channel     string `json:"channel" jsonschema:"Channel ID, URL or @handle"`
	WindowDays  int    `json:"window_days,omitempty" jsonschema:"Trailing window in days (default: 30)"`
	MaxVideos   int    `json:"max_videos_scan,omitempty" jsonschema:"Upload feed items inspected (default: 150)"`
	VerifyOrder bool   `json:"verify_feed_order,omitempty" jsonschema:"Scan the feed fully instead of stopping at the first old video"`
}

type RosterListInput struct {
	Status string `json:"status,omitempty" jsonschema:"Filter by status: new, contacted, partner, declined"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Max entries (default: 50)"`
}

type RosterUpdateInput struct {
	ChannelID string `json:"channel_id" jsonschema:"Channel ID from creator_roster_list"`
	Status    string `json:"status,omitempty" jsonschema:"new, contacted, partner or declined"`
	Notes     string `json:"notes,omitempty" jsonschema:"Free-form notes"`
}

// --- Output types ---

// QuotaUsage reports what a tool call spent.
type QuotaUsage struct {
	Used   int `json:"used"`
	Budget int `json:"budget"` // 0 = unlimited
}

// ToolMessage is a short result message.
type ToolMessage struct {
	Message string `json:"message"`
}
