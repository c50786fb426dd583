// Package youtube wraps the YouTube Data API for channel discovery and
// video uploads on behalf of a stored OAuth token.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

var (
	ErrNoChannel    = errors.New("token has no associated channel")
	ErrEmptyTitle   = errors.New("video title is required")
	ErrBadPrivacy   = errors.New("privacy must be public, unlisted or private")
	ErrTitleCharset = errors.New("title contains characters YouTube rejects")
)

// Client talks to the YouTube Data API as one authenticated account.
type Client struct {
	svc *youtube.Service
}

// NewClient builds a client from an OAuth token source, typically backed
// by a refresh token stored per account.
func NewClient(ctx context.Context, ts oauth2.TokenSource) (*Client, error) {
	svc, err := youtube.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("build youtube service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// NewClientFromService wraps an already-built service. Used by tests.
func NewClientFromService(svc *youtube.Service) *Client {
	return &Client{svc: svc}
}

// RefreshTokenSource builds a token source from stored OAuth credentials.
// Access tokens are minted lazily from the refresh token on first use.
func RefreshTokenSource(ctx context.Context, clientID, clientSecret, refreshToken string) oauth2.TokenSource {
	cfg := oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
	}
	return cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
}

type Channel struct {
	ID           string
	Title        string
	ThumbnailURL string
}

// MyChannels lists the channels owned by the authenticated account.
func (c *Client) MyChannels(ctx context.Context) ([]Channel, error) {
	resp, err := c.svc.Channels.List([]string{"snippet"}).Mine(true).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, ErrNoChannel
	}

	channels := make([]Channel, 0, len(resp.Items))
	for _, item := range resp.Items {
		ch := Channel{ID: item.Id, Title: item.Snippet.Title}
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Default != nil {
			ch.ThumbnailURL = item.Snippet.Thumbnails.Default.Url
		}
		channels = append(channels, ch)
	}
	return channels, nil
}

// UploadParams describes a single video insert.
type UploadParams struct {
	Title       string
	Description string
	Tags        []string
	Privacy     string
	CategoryID  string
}

const defaultCategoryID = "24" // Entertainment

// Validate normalizes defaults and rejects values the API would bounce.
func (p *UploadParams) Validate() error {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return ErrEmptyTitle
	}
	if strings.ContainsAny(p.Title, `<>&"'`) {
		return ErrTitleCharset
	}
	if p.Privacy == "" {
		p.Privacy = "private"
	}
	switch p.Privacy {
	case "public", "unlisted", "private":
	default:
		return ErrBadPrivacy
	}
	if p.CategoryID == "" {
		p.CategoryID = defaultCategoryID
	}
	return nil
}

// Upload performs a resumable video insert and returns the new video ID.
func (c *Client) Upload(ctx context.Context, media io.Reader, params UploadParams) (string, error) {
	if err := params.Validate(); err != nil {
		return "", err
	}

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       params.Title,
			Description: params.Description,
			Tags:        params.Tags,
			CategoryId:  params.CategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           params.Privacy,
			SelfDeclaredMadeForKids: false,
			ForceSendFields:         []string{"SelfDeclaredMadeForKids"},
		},
	}

	call := c.svc.Videos.Insert([]string{"snippet", "status"}, video).Context(ctx)
	inserted, err := call.Media(media).Do()
	if err != nil {
		return "", fmt.Errorf("insert video: %w", err)
	}
	return inserted.Id, nil
}
