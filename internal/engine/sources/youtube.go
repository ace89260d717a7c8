// Package sources talks to the YouTube Data API v3.
//
// The client is split by responsibility:
//
//	youtube_client.go — HTTP transport, API key fallback, pacing and typed errors
//	youtube_api.go    — search.list, channels.list, playlistItems.list, videos.list
//	youtube_types.go  — domain results and wire types
//
// The client never charges quota itself; callers meter every request
// through an engine.Ledger before sending it.
package sources
