// Package driveurl parses Google Drive sharing links and converts them to
// direct-download form.
package driveurl

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// Drive file IDs observed in the wild run 28..44 characters; anything far
// outside that is a mangled link rather than an unusual file.
const (
	minFileIDLen = 20
	maxFileIDLen = 50
)

var (
	ErrNotDriveLink  = errors.New("not a google drive sharing link")
	ErrBadFileID     = errors.New("invalid drive file id")
	ErrMissingFileID = errors.New("drive link carries no file id")
)

// The sharing-link shapes Drive hands out, most specific first.
var fileIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`/open\?id=([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`[?&]id=([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`),
}

var fileIDShape = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// DriveHost reports whether host belongs to Google Drive.
func DriveHost(host string) bool {
	h := strings.TrimSpace(strings.ToLower(host))
	if i := strings.Index(h, ":"); i >= 0 {
		h = h[:i]
	}
	switch h {
	case "drive.google.com", "docs.google.com":
		return true
	}
	return false
}

// ExtractFileID pulls the file ID out of a Drive sharing link.
func ExtractFileID(link string) (string, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", ErrNotDriveLink
	}

	u, err := url.Parse(link)
	if err != nil {
		return "", ErrNotDriveLink
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrNotDriveLink
	}
	if !DriveHost(u.Host) {
		return "", ErrNotDriveLink
	}

	for _, p := range fileIDPatterns {
		if m := p.FindStringSubmatch(link); m != nil {
			return validateFileID(m[1])
		}
	}
	return "", ErrMissingFileID
}

func validateFileID(id string) (string, error) {
	if len(id) < minFileIDLen || len(id) > maxFileIDLen || !fileIDShape.MatchString(id) {
		return "", ErrBadFileID
	}
	return id, nil
}

// DirectDownloadURL returns the uc?export=download form for a file ID.
func DirectDownloadURL(fileID string) string {
	return "https://drive.google.com/uc?export=download&id=" + url.QueryEscape(fileID)
}

// ConvertToDirect rewrites any recognized sharing link into its
// direct-download form. The file ID is returned alongside for callers that
// need the Drive API.
func ConvertToDirect(link string) (directURL, fileID string, err error) {
	fileID, err = ExtractFileID(link)
	if err != nil {
		return "", "", err
	}
	return DirectDownloadURL(fileID), fileID, nil
}
