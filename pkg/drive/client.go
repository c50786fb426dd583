// Package drive wraps the Google Drive API for file metadata lookups on
// validated links.
package drive

import (
	"context"
	"fmt"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

type Client struct {
	svc *drive.Service
}

// NewClient builds a Drive client. An API key is enough for metadata on
// link-shared files; no OAuth flow is involved.
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &Client{svc: svc}, nil
}

func NewClientFromService(svc *drive.Service) *Client {
	return &Client{svc: svc}
}

// FileMetadata describes a Drive file just enough to sanity-check a link.
type FileMetadata struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// FileMetadata fetches name, MIME type and size for a file ID.
func (c *Client) FileMetadata(ctx context.Context, fileID string) (*FileMetadata, error) {
	f, err := c.svc.Files.Get(fileID).
		Fields("id", "name", "mimeType", "size").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch drive file %s: %w", fileID, err)
	}
	return &FileMetadata{
		ID:       f.Id,
		Name:     f.Name,
		MimeType: f.MimeType,
		Size:     f.Size,
	}, nil
}
