package caption_api

import (
	"errors"
	"log/slog"

	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/handlers/common"
	"greenroom.tools/console/pkg/captions"
)

// HandleGenerateContent produces a platform-appropriate title, description
// and hashtags for an upload filename. Gemini failures fall back to
// deterministic content inside the generator, so errors here are rare.
func HandleGenerateContent(generator *captions.Generator) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			Filename string `json:"filename"`
			Platform string `json:"platform"`
		}
		if err := c.Bind(&req); err != nil {
			return common.Fail(c, 400, "invalid request body")
		}
		if req.Filename == "" {
			return common.Fail(c, 400, "filename is required")
		}

		platform := captions.Platform(req.Platform)
		switch platform {
		case captions.PlatformYouTube, captions.PlatformInstagram:
		case "":
			platform = captions.PlatformYouTube
		default:
			return common.Fail(c, 400, "platform must be youtube or instagram")
		}

		content, err := generator.Generate(c.Request().Context(), req.Filename, platform)
		switch {
		case errors.Is(err, captions.ErrEmptyTopic):
			return common.Fail(c, 400, "could not extract a topic from that filename")
		case err != nil:
			slog.Error("caption generation failed", "filename", req.Filename, "error", err)
			return common.Fail(c, 500, "caption generation failed")
		}

		return common.OK(c, map[string]any{"content": content})
	}
}
