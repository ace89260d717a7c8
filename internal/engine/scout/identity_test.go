package scout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const testID = "UCX6OQ3DkcsbYNE6H8uQQuVA"

func TestExtractCanonicalID(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
		via    string
	}{
		{"bare", testID, testID, true, ViaBareID},
		{"padded", "  " + testID + "\n", testID, true, ViaBareID},
		{"channel url", "https://www.youtube.com/channel/" + testID, testID, true, ViaChannelPath},
		{"channel url with query", "https://youtube.com/channel/" + testID + "?si=abc", testID, true, ViaChannelPath},
		{"embedded in text", "see " + testID + " for details", testID, true, ViaBareID},
		{"too short", "UC12345", "", false, ""},
		{"glued to a word", "xyz" + testID, testID, true, ViaBareID},
		{"handle url", "https://www.youtube.com/@mrbeast", "", false, ""},
		{"empty", "", "", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := ExtractCanonicalID(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, m.Value)
			if ok {
				assert.Equal(t, tt.via, m.Via)
			}
		})
	}
}

func TestExtractCanonicalIDFormatTolerant(t *testing.T) {
	forms := []string{
		testID,
		"https://www.youtube.com/channel/" + testID,
		"youtube.com/channel/" + testID + "/videos",
		"www.youtube.com/channel/" + testID + "?view_as=subscriber",
	}
	for _, f := range forms {
		m, ok := ExtractCanonicalID(f)
		assert.True(t, ok, f)
		assert.Equal(t, testID, m.Value, f)

		again, ok := ExtractCanonicalID(m.Value)
		assert.True(t, ok)
		assert.Equal(t, m.Value, again.Value, "extraction must be idempotent")
	}
}

func TestExtractHandle(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		allowBare bool
		want      string
		wantOK    bool
		via       string
	}{
		{"mention", "@MrBeast", false, "mrbeast", true, ViaAtMention},
		{"at url", "https://www.youtube.com/@Linus.Tech-Tips/videos", false, "linus.tech-tips", true, ViaAtURL},
		{"c url", "https://www.youtube.com/c/Unbox_Therapy", false, "unbox_therapy", true, ViaCustomURL},
		{"user url", "youtube.com/user/MKBHD", false, "mkbhd", true, ViaCustomURL},
		{"mention in text", "contact @gamer_pro today", false, "gamer_pro", true, ViaAtMention},
		{"too short", "@ab", false, "", false, ""},
		{"bare without opt-in", "SomeChannel", false, "", false, ""},
		{"bare with opt-in", "SomeChannel", true, "somechannel", true, ViaBareToken},
		{"bare with spaces", "Some Channel", true, "somechannel", true, ViaBareToken},
		{"bare path", "creator/videos", true, "creator", true, ViaBareToken},
		{"bare dots trimmed", "..name..", true, "name", true, ViaBareToken},
		{"bare invalid chars", "Канал Про Игры", true, "", false, ""},
		{"bare too short", "ab", true, "", false, ""},
		{"empty", "   ", true, "", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := ExtractHandle(tt.in, tt.allowBare)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, m.Value)
			if ok {
				assert.Equal(t, tt.via, m.Via)
			}
		})
	}
}

func TestNormalizeHandle(t *testing.T) {
	assert.Equal(t, "mrbeast", NormalizeHandle(" @MrBeast "))
	assert.Equal(t, "abc", NormalizeHandle("abc"))
}
