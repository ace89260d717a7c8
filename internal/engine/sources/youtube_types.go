package sources

import "time"

// Data API page and batch limits.
const (
	MaxPageSize  = 50 // search.list / playlistItems.list maxResults
	MaxBatchSize = 50 // ids per channels.list / videos.list call
)

// SearchType selects what search.list returns.
type SearchType string

const (
	SearchVideo   SearchType = "video"
	SearchChannel SearchType = "channel"
)

// SearchRequest is one search.list page request.
type SearchRequest struct {
	Query      string
	Type       SearchType
	MaxResults int
	PageToken  string
}

// SearchHit is the channel behind one search result item.
type SearchHit struct {
	ChannelID    string `json:"channel_id"`
	ChannelTitle string `json:"channel_title"`
}

// SearchPage is one page of search results.
type SearchPage struct {
	Hits          []SearchHit `json:"hits"`
	NextPageToken string      `json:"next_page_token,omitempty"`
}

// Channel is the subset of channels.list we use.
type Channel struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Handle            string `json:"handle,omitempty"` // customUrl without "@"
	Country           string `json:"country,omitempty"`
	UploadsPlaylistID string `json:"uploads_playlist_id,omitempty"`
	Subscribers       int64  `json:"subscribers"`
	Views             int64  `json:"views"`
}

// PlaylistItem is one upload feed entry. PublishedAt is zero when the
// provider omits it (private or deleted videos).
type PlaylistItem struct {
	VideoID     string    `json:"video_id"`
	PublishedAt time.Time `json:"published_at"`
}

// PlaylistPage is one page of an upload feed.
type PlaylistPage struct {
	Items         []PlaylistItem `json:"items"`
	NextPageToken string         `json:"next_page_token,omitempty"`
}

// VideoStats is the view counter of one video.
type VideoStats struct {
	ID    string `json:"id"`
	Views int64  `json:"views"`
}

// --- YouTube Data API v3 wire types ---

type ytSearchResp struct {
	NextPageToken string         `json:"nextPageToken"`
	Items         []ytSearchItem `json:"items"`
}

type ytSearchItem struct {
	ID struct {
		Kind      string `json:"kind"`
		VideoID   string `json:"videoId"`
		ChannelID string `json:"channelId"`
	} `json:"id"`
	Snippet struct {
		ChannelID    string `json:"channelId"`
		ChannelTitle string `json:"channelTitle"`
		Title        string `json:"title"`
	} `json:"snippet"`
}

type ytChannelsResp struct {
	Items []ytChannelItem `json:"items"`
}

type ytChannelItem struct {
	ID      string `json:"id"`
	Snippet struct {
		Title     string `json:"title"`
		CustomURL string `json:"customUrl"`
		Country   string `json:"country"`
	} `json:"snippet"`
	Statistics struct {
		ViewCount       string `json:"viewCount"`
		SubscriberCount string `json:"subscriberCount"`
	} `json:"statistics"`
	ContentDetails struct {
		RelatedPlaylists struct {
			Uploads string `json:"uploads"`
		} `json:"relatedPlaylists"`
	} `json:"contentDetails"`
}

type ytPlaylistItemsResp struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		ContentDetails struct {
			VideoID          string `json:"videoId"`
			VideoPublishedAt string `json:"videoPublishedAt"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type ytVideosResp struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
		} `json:"statistics"`
	} `json:"items"`
}
