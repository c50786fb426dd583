package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"greenroom.tools/console/internal/longform"
	"greenroom.tools/console/pkg/discord"
	"greenroom.tools/console/pkg/n8n"
)

type fakeMedia struct {
	attachments discord.Attachments
	err         error
	lastLink    string
}

func (f *fakeMedia) MessageAttachments(ctx context.Context, link string) (discord.Attachments, error) {
	f.lastLink = link
	return f.attachments, f.err
}

type fakePoster struct {
	payloads []n8n.LongformRowPayload
	err      error
}

func (f *fakePoster) LongformRow(ctx context.Context, p n8n.LongformRowPayload) error {
	f.payloads = append(f.payloads, p)
	return f.err
}

const messageLink = "https://discord.com/channels/111/222/333"

func TestDispatchRowExpandsDiscordLink(t *testing.T) {
	media := &fakeMedia{attachments: discord.Attachments{
		Images: []string{"i1", "i2", "i3", "i4"},
	}}
	poster := &fakePoster{}
	d := &RowDispatcher{Media: media, N8N: poster}

	row := longform.Row{SerialNumber: 3, AudioURL: "https://cdn.example/a.mp3", ImageURL: messageLink}
	require.NoError(t, d.DispatchRow(context.Background(), "Night Drive", row))

	require.Equal(t, messageLink, media.lastLink)
	require.Len(t, poster.payloads, 1)
	p := poster.payloads[0]
	require.Equal(t, "Night Drive", p.ProjectName)
	require.Equal(t, 3, p.SerialNumber)
	require.Equal(t, "https://cdn.example/a.mp3", p.AudioURL)
	require.Equal(t, []string{"i1", "i2", "i3", "i4"}, p.Images)
}

func TestDispatchRowPassesPlainURLThrough(t *testing.T) {
	poster := &fakePoster{}
	d := &RowDispatcher{Media: &fakeMedia{}, N8N: poster}

	row := longform.Row{SerialNumber: 1, AudioURL: "https://cdn.example/a.mp3", ImageURL: "https://cdn.example/cover.png"}
	require.NoError(t, d.DispatchRow(context.Background(), "p", row))

	require.Equal(t, []string{"https://cdn.example/cover.png"}, poster.payloads[0].Images)
}

func TestDispatchRowFailsOnEmptyMessage(t *testing.T) {
	d := &RowDispatcher{Media: &fakeMedia{}, N8N: &fakePoster{}}

	row := longform.Row{SerialNumber: 1, ImageURL: messageLink}
	err := d.DispatchRow(context.Background(), "p", row)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no image attachments")
}

func TestDispatchRowSurfacesDiscordError(t *testing.T) {
	media := &fakeMedia{err: errors.New("message not found")}
	d := &RowDispatcher{Media: media, N8N: &fakePoster{}}

	row := longform.Row{SerialNumber: 1, ImageURL: messageLink}
	err := d.DispatchRow(context.Background(), "p", row)
	require.Error(t, err)
	require.Contains(t, err.Error(), "message not found")
}
