// Package dispatch turns a long-form row into an n8n webhook call,
// resolving Discord message links into image lists on the way.
package dispatch

import (
	"context"
	"fmt"

	"greenroom.tools/console/internal/longform"
	"greenroom.tools/console/pkg/discord"
	"greenroom.tools/console/pkg/n8n"
)

// MediaSource resolves Discord message links into attachment lists.
type MediaSource interface {
	MessageAttachments(ctx context.Context, messageLink string) (discord.Attachments, error)
}

// LongformPoster posts one row's payload to the long-form webhook.
type LongformPoster interface {
	LongformRow(ctx context.Context, p n8n.LongformRowPayload) error
}

// RowDispatcher implements longform.Dispatcher against Discord and n8n.
type RowDispatcher struct {
	Media MediaSource
	N8N   LongformPoster
}

// ResolveImages expands a row's image field. A Discord message link yields
// the message's image attachments in upload order; any other URL passes
// through as a single-image list.
func (d *RowDispatcher) ResolveImages(ctx context.Context, imageURL string) ([]string, error) {
	if _, err := discord.ParseMessageLink(imageURL); err != nil {
		return []string{imageURL}, nil
	}

	attachments, err := d.Media.MessageAttachments(ctx, imageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch discord message: %w", err)
	}
	if len(attachments.Images) == 0 {
		return nil, fmt.Errorf("discord message has no image attachments")
	}
	return attachments.Images, nil
}

func (d *RowDispatcher) DispatchRow(ctx context.Context, projectName string, row longform.Row) error {
	images, err := d.ResolveImages(ctx, row.ImageURL)
	if err != nil {
		return err
	}

	return d.N8N.LongformRow(ctx, n8n.LongformRowPayload{
		ProjectName:  projectName,
		SerialNumber: row.SerialNumber,
		AudioURL:     row.AudioURL,
		Images:       images,
	})
}
