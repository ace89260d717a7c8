package engine

import (
	"strings"

	"github.com/anatolykoptev/go-kit/strutil"
)

// UserAgentBot is sent on every upstream request.
const UserAgentBot = "GoScout/1.0"

// ChannelURLPrefix is the canonical deep link prefix for a channel ID.
const ChannelURLPrefix = "https://www.youtube.com/channel/"

// ChannelURL returns the canonical deep link for a channel ID.
func ChannelURL(id string) string {
	return ChannelURLPrefix + id
}

// NormalizeTitle lowercases s and collapses all whitespace runs to one space.
func NormalizeTitle(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// TruncateRunes caps s at limit runes, appending suffix if truncated.
// Safe for UTF-8 (Cyrillic, CJK, emoji).
func TruncateRunes(s string, limit int, suffix string) string {
	return strutil.TruncateWith(s, limit, suffix)
}

// OrNA returns s, or "N/A" when s is blank.
func OrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
