package captions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractTopic(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"gut-health-tips.mp4", "Gut Health Tips"},
		{"03_morning_routine_2.MP4", "Morning Routine"},
		{"  deep   sea creatures.webm", "Deep Sea Creatures"},
		{"12345.mp4", ""},
		{"", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ExtractTopic(tc.in), tc.in)
	}
}

func TestParseResponse_Sections(t *testing.T) {
	text := `TITLE: Five Facts About Octopuses
DESCRIPTION: Octopuses have three hearts.
They taste with their arms.
HASHTAGS: #shorts #viral #octopus`

	c, err := ParseResponse(text)
	require.NoError(t, err)
	require.Equal(t, "Five Facts About Octopuses", c.Title)
	require.Equal(t, "Octopuses have three hearts. They taste with their arms.", c.Description)
	require.Equal(t, "#shorts #viral #octopus", c.Hashtags)
}

func TestParseResponse_Incomplete(t *testing.T) {
	_, err := ParseResponse("TITLE: Something\nDESCRIPTION: A description only")
	require.Error(t, err)

	_, err = ParseResponse("just prose, no sections at all")
	require.Error(t, err)
}

func TestValidate_TruncatesHashtags(t *testing.T) {
	tags := make([]string, 25)
	for i := range tags {
		tags[i] = "#tag"
	}
	c := Content{Title: "t", Description: "d", Hashtags: strings.Join(tags, " ")}
	require.NoError(t, validate(&c, PlatformYouTube))
	require.Len(t, strings.Fields(c.Hashtags), maxHashtags)
}

func TestValidate_LengthLimits(t *testing.T) {
	c := Content{Title: strings.Repeat("x", 101), Description: "d", Hashtags: "#a"}
	require.Error(t, validate(&c, PlatformYouTube))

	c = Content{Title: strings.Repeat("x", 101), Description: "d", Hashtags: "#a"}
	require.NoError(t, validate(&c, PlatformInstagram))

	c = Content{Title: "t", Description: strings.Repeat("x", 2201), Hashtags: "#a"}
	require.Error(t, validate(&c, PlatformInstagram))
}

func TestFallbackContent(t *testing.T) {
	c := fallback("Gut Health", PlatformYouTube)
	require.Contains(t, c.Title, "Gut Health")
	require.Contains(t, c.Hashtags, "#shorts")

	c = fallback("Gut Health", PlatformInstagram)
	require.Contains(t, c.Hashtags, "#reels")
}
