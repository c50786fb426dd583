package webhook_api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/handlers/common"
	"greenroom.tools/console/pkg/discord"
	"greenroom.tools/console/pkg/n8n"
)

// HandleSubmitJob extracts media from two Discord messages and forwards a
// background-audio job to n8n.
func HandleSubmitJob(media *discord.Client, client *n8n.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			User       string  `json:"user"`
			ImagesLink string  `json:"images_link"`
			AudiosLink string  `json:"audios_link"`
			AudioSpeed float64 `json:"aud_speed"`
		}
		if err := c.Bind(&req); err != nil {
			return common.Fail(c, 400, "invalid request body")
		}
		if req.User == "" || req.ImagesLink == "" || req.AudiosLink == "" {
			return common.Fail(c, 400, "user, images_link and audios_link are required")
		}

		ctx := c.Request().Context()
		images, audios, err := fetchMedia(ctx, media, req.ImagesLink, req.AudiosLink)
		if err != nil {
			return failMedia(c, err)
		}
		if len(images.Images) != 4 {
			return common.Fail(c, 400, fmt.Sprintf("images message must carry 4 images, found %d", len(images.Images)))
		}
		if len(audios.Audios) != 4 {
			return common.Fail(c, 400, fmt.Sprintf("audios message must carry 4 audio files, found %d", len(audios.Audios)))
		}

		err = client.SubmitJob(ctx, n8n.SubmitJobPayload{
			User:       req.User,
			Images:     images.Images,
			Audios:     audios.Audios,
			AudioSpeed: req.AudioSpeed,
		})
		if err != nil {
			return failForward(c, err)
		}

		slog.Info("submit job forwarded", "user", req.User)
		return common.OK(c, nil)
	}
}

func fetchMedia(ctx context.Context, media *discord.Client, imagesLink, audiosLink string) (discord.Attachments, discord.Attachments, error) {
	images, err := media.MessageAttachments(ctx, imagesLink)
	if err != nil {
		return discord.Attachments{}, discord.Attachments{}, fmt.Errorf("images message: %w", err)
	}
	audios, err := media.MessageAttachments(ctx, audiosLink)
	if err != nil {
		return discord.Attachments{}, discord.Attachments{}, fmt.Errorf("audios message: %w", err)
	}
	return images, audios, nil
}

func failMedia(c echo.Context, err error) error {
	if errors.Is(err, discord.ErrNoToken) {
		return common.Fail(c, 400, "discord bot token is not configured")
	}
	slog.Error("discord media fetch failed", "error", err)
	return common.Fail(c, 502, err.Error())
}

func failForward(c echo.Context, err error) error {
	if errors.Is(err, n8n.ErrNotConfigured) {
		return common.Fail(c, 400, "webhook is not configured")
	}
	var statusErr *n8n.StatusError
	if errors.As(err, &statusErr) {
		return common.Fail(c, 502, err.Error())
	}
	slog.Error("webhook forward failed", "error", err)
	return common.Fail(c, 500, "webhook forward failed")
}
