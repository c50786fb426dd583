package youtube

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUploadParamsDefaults(t *testing.T) {
	p := UploadParams{Title: "  Deep Focus Mix  "}
	require.NoError(t, p.Validate())
	require.Equal(t, "Deep Focus Mix", p.Title)
	require.Equal(t, "private", p.Privacy)
	require.Equal(t, defaultCategoryID, p.CategoryID)
}

func TestUploadParamsRejectsEmptyTitle(t *testing.T) {
	p := UploadParams{Title: "   "}
	require.ErrorIs(t, p.Validate(), ErrEmptyTitle)
}

func TestUploadParamsRejectsMarkupCharacters(t *testing.T) {
	for _, title := range []string{"a<b", "a>b", "a&b", `a"b`, "a'b"} {
		p := UploadParams{Title: title}
		require.ErrorIs(t, p.Validate(), ErrTitleCharset, title)
	}
}

func TestUploadParamsRejectsUnknownPrivacy(t *testing.T) {
	p := UploadParams{Title: "ok", Privacy: "secret"}
	require.ErrorIs(t, p.Validate(), ErrBadPrivacy)
}

func TestUploadParamsKeepsExplicitValues(t *testing.T) {
	p := UploadParams{Title: "ok", Privacy: "unlisted", CategoryID: "10"}
	require.NoError(t, p.Validate())
	require.Equal(t, "unlisted", p.Privacy)
	require.Equal(t, "10", p.CategoryID)
}
