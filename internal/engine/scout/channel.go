package scout

import (
	"context"
	"fmt"

	"github.com/anatolykoptev/go_scout/internal/engine"
)

// ChannelRef is a resolved channel reference.
type ChannelRef struct {
	Input     string `json:"input"`
	ChannelID string `json:"channel_id,omitempty"`
	Via       string `json:"via,omitempty"`
	Found     bool   `json:"found"`
	Link      string `json:"link,omitempty"`
}

// LookupChannel turns a raw ID, a channel URL, a handle or a handle URL into
// a canonical ID. IDs and /channel/ URLs cost nothing; handles go through
// ResolveHandle. Bare tokens are tried as handles.
func (s *Service) LookupChannel(ctx context.Context, run *engine.Run, ref string, speculative bool) (ChannelRef, error) {
	out := ChannelRef{Input: ref}
	if m, ok := ExtractCanonicalID(ref); ok {
		out.ChannelID, out.Via, out.Found = m.Value, m.Via, true
		out.Link = engine.ChannelURL(m.Value)
		return out, nil
	}
	m, ok := ExtractHandle(ref, true)
	if !ok {
		return out, nil
	}
	id, found, err := s.ResolveHandle(ctx, run, m.Value, speculative)
	if err != nil {
		return out, err
	}
	out.Via, out.Found = m.Via, found
	if found {
		out.ChannelID = id
		out.Link = engine.ChannelURL(id)
	}
	return out, nil
}

// ChannelSummary is one channel's metrics plus its trailing average.
type ChannelSummary struct {
	Ref        ChannelRef     `json:"ref"`
	Metrics    ChannelMetrics `json:"metrics"`
	Average    PeriodAverage  `json:"average"`
	WindowDays int            `json:"window_days"`
}

// ChannelAverage resolves ref, enriches it and computes its trailing average.
func (s *Service) ChannelAverage(ctx context.Context, run *engine.Run, ref string, windowDays, maxVideos int, verifyOrder bool) (*ChannelSummary, error) {
	cref, err := s.LookupChannel(ctx, run, ref, false)
	if err != nil {
		return nil, err
	}
	if !cref.Found {
		return nil, fmt.Errorf("channel %q not found", ref)
	}

	metrics, err := s.FetchMetrics(ctx, run, []string{cref.ChannelID})
	if err != nil {
		return nil, err
	}
	m, ok := metrics[cref.ChannelID]
	if !ok {
		return nil, fmt.Errorf("channel %s: no metrics or uploads feed", cref.ChannelID)
	}

	avg, err := s.ComputeTrailingAverage(ctx, run, m.UploadsRef, windowDays, maxVideos, verifyOrder)
	if err != nil {
		return nil, err
	}
	return &ChannelSummary{Ref: cref, Metrics: m, Average: avg, WindowDays: windowDays}, nil
}
