package webhook_api

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/handlers/common"
	"greenroom.tools/console/pkg/discord"
	"greenroom.tools/console/pkg/n8n"
)

// HandleNocapJob extracts media from two Discord messages and forwards a
// no-caption job to n8n.
func HandleNocapJob(media *discord.Client, client *n8n.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			User       string `json:"user"`
			ImagesLink string `json:"images_link"`
			AudiosLink string `json:"audios_link"`
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

		err = client.NocapJob(ctx, n8n.NocapJobPayload{
			User:   req.User,
			Images: images.Images,
			Audios: audios.Audios,
		})
		if err != nil {
			return failForward(c, err)
		}

		slog.Info("nocap job forwarded", "user", req.User)
		return common.OK(c, nil)
	}
}
