package sources

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Search issues one search.list page.
// Video results yield the authoring channel; channel results yield the channel itself.
func (c *Client) Search(ctx context.Context, req SearchRequest) (SearchPage, error) {
	if req.Type == "" {
		req.Type = SearchVideo
	}
	limit := req.MaxResults
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", req.Query)
	params.Set("type", string(req.Type))
	params.Set("maxResults", strconv.Itoa(limit))
	if req.PageToken != "" {
		params.Set("pageToken", req.PageToken)
	}

	var resp ytSearchResp
	if err := c.get(ctx, "search", params, &resp); err != nil {
		return SearchPage{}, err
	}

	page := SearchPage{NextPageToken: resp.NextPageToken, Hits: make([]SearchHit, 0, len(resp.Items))}
	for _, it := range resp.Items {
		var hit SearchHit
		if req.Type == SearchChannel {
			hit.ChannelID = it.ID.ChannelID
			if hit.ChannelID == "" {
				hit.ChannelID = it.Snippet.ChannelID
			}
			hit.ChannelTitle = it.Snippet.Title
		} else {
			hit.ChannelID = it.Snippet.ChannelID
			hit.ChannelTitle = it.Snippet.ChannelTitle
		}
		if hit.ChannelID == "" {
			continue
		}
		if hit.ChannelTitle == "" {
			hit.ChannelTitle = hit.ChannelID
		}
		page.Hits = append(page.Hits, hit)
	}
	return page, nil
}

// Channels issues one channels.list call for up to MaxBatchSize IDs.
// IDs unknown to the provider are absent from the result.
func (c *Client) Channels(ctx context.Context, ids []string) ([]Channel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxBatchSize {
		return nil, fmt.Errorf("channels.list: %d ids exceeds batch size %d", len(ids), MaxBatchSize)
	}

	params := url.Values{}
	params.Set("part", "statistics,snippet,contentDetails")
	params.Set("id", strings.Join(ids, ","))
	params.Set("maxResults", strconv.Itoa(MaxBatchSize))

	var resp ytChannelsResp
	if err := c.get(ctx, "channels", params, &resp); err != nil {
		return nil, err
	}

	out := make([]Channel, 0, len(resp.Items))
	for _, it := range resp.Items {
		out = append(out, Channel{
			ID:                it.ID,
			Title:             it.Snippet.Title,
			Handle:            strings.TrimPrefix(it.Snippet.CustomURL, "@"),
			Country:           it.Snippet.Country,
			UploadsPlaylistID: it.ContentDetails.RelatedPlaylists.Uploads,
			Subscribers:       parseCount(it.Statistics.SubscriberCount),
			Views:             parseCount(it.Statistics.ViewCount),
		})
	}
	return out, nil
}

// PlaylistItems issues one playlistItems.list page for an upload feed.
func (c *Client) PlaylistItems(ctx context.Context, playlistID, pageToken string) (PlaylistPage, error) {
	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("playlistId", playlistID)
	params.Set("maxResults", strconv.Itoa(MaxPageSize))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var resp ytPlaylistItemsResp
	if err := c.get(ctx, "playlistItems", params, &resp); err != nil {
		return PlaylistPage{}, err
	}

	page := PlaylistPage{NextPageToken: resp.NextPageToken, Items: make([]PlaylistItem, 0, len(resp.Items))}
	for _, it := range resp.Items {
		item := PlaylistItem{VideoID: it.ContentDetails.VideoID}
		if ts := it.ContentDetails.VideoPublishedAt; ts != "" {
			if t, err := time.Parse(time.RFC3339, ts); err == nil {
				item.PublishedAt = t.UTC()
			}
		}
		page.Items = append(page.Items, item)
	}
	return page, nil
}

// Videos issues one videos.list call for up to MaxBatchSize IDs.
func (c *Client) Videos(ctx context.Context, ids []string) ([]VideoStats, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxBatchSize {
		return nil, fmt.Errorf("videos.list: %d ids exceeds batch size %d", len(ids), MaxBatchSize)
	}

	params := url.Values{}
	params.Set("part", "statistics")
	params.Set("id", strings.Join(ids, ","))

	var resp ytVideosResp
	if err := c.get(ctx, "videos", params, &resp); err != nil {
		return nil, err
	}

	out := make([]VideoStats, 0, len(resp.Items))
	for _, it := range resp.Items {
		out = append(out, VideoStats{ID: it.ID, Views: parseCount(it.Statistics.ViewCount)})
	}
	return out, nil
}

// parseCount parses a Data API string counter; missing or hidden counts are 0.
func parseCount(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
