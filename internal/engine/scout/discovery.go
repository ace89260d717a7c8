package scout

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/anatolykoptev/go_scout/internal/engine"
	"github.com/anatolykoptev/go_scout/internal/engine/sources"
)

// Mode selects how keyword search finds channels.
type Mode string

const (
	// ModeVideo searches videos and harvests their authoring channels.
	ModeVideo Mode = "video"
	// ModeChannel searches channels by name. Narrower recall, higher precision.
	ModeChannel Mode = "channel"
)

func (m Mode) searchType() sources.SearchType {
	if m == ModeChannel {
		return sources.SearchChannel
	}
	return sources.SearchVideo
}

// ParseMode accepts "video", "channel" or "" (video).
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeVideo:
		return ModeVideo, nil
	case ModeChannel:
		return ModeChannel, nil
	}
	return "", fmt.Errorf("unknown search mode %q (want video or channel)", s)
}

// CandidateSet maps channel IDs to display titles in first-seen order.
// A title, once recorded, is never overwritten.
type CandidateSet struct {
	order  []string
	titles map[string]string
}

// NewCandidateSet returns an empty set.
func NewCandidateSet() *CandidateSet {
	return &CandidateSet{titles: make(map[string]string)}
}

// Add records id with title unless already present. Reports whether it was new.
func (c *CandidateSet) Add(id, title string) bool {
	if _, ok := c.titles[id]; ok {
		return false
	}
	c.titles[id] = title
	c.order = append(c.order, id)
	return true
}

// Len returns the number of candidates.
func (c *CandidateSet) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// IDs returns the candidate IDs in insertion order.
func (c *CandidateSet) IDs() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.order...)
}

// Title returns the first-seen title for id.
func (c *CandidateSet) Title(id string) string {
	if c == nil {
		return ""
	}
	return c.titles[id]
}

// Merge adds every candidate of other, keeping existing titles.
func (c *CandidateSet) Merge(other *CandidateSet) {
	for _, id := range other.IDs() {
		c.Add(id, other.Title(id))
	}
}

// SearchByKeyword paginates a keyword search and collects unique channels.
// It stops at the first of: no next page, maxPages consumed, maxCandidates
// collected (mid-page). A failed page ends pagination with what was
// collected so far. Ledger exhaustion returns the partial set and the error.
func (s *Service) SearchByKeyword(ctx context.Context, run *engine.Run, keyword string, maxPages, maxCandidates int, mode Mode) (*CandidateSet, error) {
	out := NewCandidateSet()
	if keyword == "" || maxPages <= 0 || maxCandidates <= 0 {
		return out, nil
	}

	token := ""
	for page := 1; page <= maxPages; page++ {
		req := sources.SearchRequest{
			Query:      keyword,
			Type:       mode.searchType(),
			MaxResults: sources.MaxPageSize,
			PageToken:  token,
		}
		res, err := call(ctx, run, callSpec{
			op:    "search",
			cost:  engine.CostSearch,
			label: fmt.Sprintf("search:%s#%d", keyword, page),
			key:   engine.CacheKey("search", string(req.Type), keyword, token, strconv.Itoa(req.MaxResults)),
		}, func(ctx context.Context) (sources.SearchPage, error) {
			return s.up.Search(ctx, req)
		}, func(p sources.SearchPage) bool { return len(p.Hits) == 0 && p.NextPageToken == "" })
		if err != nil {
			return out, err
		}
		if res.Status == StatusFailed {
			run.Log.Warn("search page failed, keeping partial results",
				slog.String("keyword", keyword), slog.Int("page", page), slog.Int("candidates", out.Len()))
			break
		}

		for _, hit := range res.Value.Hits {
			if hit.ChannelID == "" {
				continue
			}
			out.Add(hit.ChannelID, hit.ChannelTitle)
			if out.Len() >= maxCandidates {
				return out, nil
			}
		}

		token = res.Value.NextPageToken
		if token == "" {
			break
		}
	}

	run.Log.Debug("keyword searched", slog.String("keyword", keyword), slog.Int("candidates", out.Len()))
	return out, nil
}
