package driveurl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleID = "1A2b3C4d5E6f7G8h9I0jKLMNopqrstuv"

func TestExtractFileID_SharingShapes(t *testing.T) {
	links := []string{
		"https://drive.google.com/file/d/" + sampleID + "/view?usp=sharing",
		"https://drive.google.com/open?id=" + sampleID,
		"https://drive.google.com/uc?export=download&id=" + sampleID,
		"https://docs.google.com/d/" + sampleID + "/edit",
	}
	for _, link := range links {
		id, err := ExtractFileID(link)
		require.NoError(t, err, link)
		require.Equal(t, sampleID, id, link)
	}
}

func TestExtractFileID_RejectsNonDrive(t *testing.T) {
	_, err := ExtractFileID("https://example.com/file/d/" + sampleID)
	require.ErrorIs(t, err, ErrNotDriveLink)

	_, err = ExtractFileID("ftp://drive.google.com/file/d/" + sampleID)
	require.ErrorIs(t, err, ErrNotDriveLink)

	_, err = ExtractFileID("")
	require.ErrorIs(t, err, ErrNotDriveLink)
}

func TestExtractFileID_RejectsBadID(t *testing.T) {
	// Too short.
	_, err := ExtractFileID("https://drive.google.com/file/d/abc123/view")
	require.ErrorIs(t, err, ErrBadFileID)

	// No id at all.
	_, err = ExtractFileID("https://drive.google.com/drive/my-drive")
	require.Error(t, err)
}

func TestConvertToDirect(t *testing.T) {
	direct, id, err := ConvertToDirect("https://drive.google.com/file/d/" + sampleID + "/view")
	require.NoError(t, err)
	require.Equal(t, sampleID, id)
	require.Equal(t, "https://drive.google.com/uc?export=download&id="+sampleID, direct)
}

func TestDriveHost(t *testing.T) {
	require.True(t, DriveHost("drive.google.com"))
	require.True(t, DriveHost("DOCS.google.com"))
	require.True(t, DriveHost("drive.google.com:443"))
	require.False(t, DriveHost("drive.google.com.evil.io"))
	require.False(t, DriveHost("example.com"))
}
