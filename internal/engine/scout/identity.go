package scout

import (
	"regexp"
	"strings"
)

// Match is a typed extraction result. Via names the pattern that produced it.
type Match struct {
	Value string
	Via   string
}

// Match sources.
const (
	ViaChannelPath = "channel_path"
	ViaBareID      = "bare_id"
	ViaAtURL       = "at_url"
	ViaCustomURL   = "custom_url"
	ViaAtMention   = "at_mention"
	ViaBareToken   = "bare_token"
)

type matcher struct {
	via string
	re  *regexp.Regexp // first submatch is the value
}

// Ordered chains; first match wins. New URL shapes are added here.
var (
	canonicalIDChain = []matcher{
		{ViaChannelPath, regexp.MustCompile(`/channel/(UC[0-9A-Za-z_-]{20,})`)},
		{ViaBareID, regexp.MustCompile(`(UC[0-9A-Za-z_-]{20,})`)},
	}

	handleChain = []matcher{
		{ViaAtURL, regexp.MustCompile(`/@([A-Za-z0-9._-]{3,})`)},
		{ViaCustomURL, regexp.MustCompile(`(?i)/(?:c|user)/([A-Za-z0-9._-]{3,})`)},
		{ViaAtMention, regexp.MustCompile(`@([A-Za-z0-9._-]{3,})`)},
	}

	bareTokenRe = regexp.MustCompile(`^[A-Za-z0-9._-]{3,}$`)
)

func runChain(chain []matcher, s string) (Match, bool) {
	for _, m := range chain {
		if sm := m.re.FindStringSubmatch(s); len(sm) >= 2 {
			return Match{Value: sm[1], Via: m.via}, true
		}
	}
	return Match{}, false
}

// ExtractCanonicalID finds a canonical channel ID in a raw ID, a
// /channel/{id} URL or any text containing one.
func ExtractCanonicalID(text string) (Match, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Match{}, false
	}
	return runChain(canonicalIDChain, s)
}

// ExtractHandle finds a handle in "@handle", ".../@handle", ".../c/name" or
// ".../user/name". With allowBare, a lone token of 3+ [A-Za-z0-9._-] chars is
// also taken as a handle guess. Handles are returned lowercase without "@".
func ExtractHandle(text string, allowBare bool) (Match, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Match{}, false
	}
	if m, ok := runChain(handleChain, s); ok {
		m.Value = strings.ToLower(m.Value)
		return m, true
	}
	if !allowBare {
		return Match{}, false
	}
	token := strings.Join(strings.Fields(s), "")
	token, _, _ = strings.Cut(token, "/")
	token = strings.Trim(token, ".")
	if bareTokenRe.MatchString(token) {
		return Match{Value: strings.ToLower(token), Via: ViaBareToken}, true
	}
	return Match{}, false
}

// NormalizeHandle lowercases h and strips a leading "@".
func NormalizeHandle(h string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(h), "@"))
}
