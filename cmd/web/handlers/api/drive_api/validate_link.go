package drive_api

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/handlers/common"
	"greenroom.tools/console/internal/driveurl"
	"greenroom.tools/console/pkg/drive"
)

// HandleValidateLink checks that a pasted URL is a usable Drive sharing
// link. When a Drive client is configured, the file's metadata is attached
// so the page can show what the link points at.
func HandleValidateLink(driveClient *drive.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			URL string `json:"url"`
		}
		if err := c.Bind(&req); err != nil {
			return common.Fail(c, 400, "invalid request body")
		}
		if req.URL == "" {
			return common.Fail(c, 400, "url is required")
		}

		directURL, fileID, err := driveurl.ConvertToDirect(req.URL)
		if err != nil {
			return common.OK(c, map[string]any{
				"valid":  false,
				"reason": err.Error(),
			})
		}

		resp := map[string]any{
			"valid":      true,
			"file_id":    fileID,
			"direct_url": directURL,
		}
		if driveClient != nil {
			meta, err := driveClient.FileMetadata(c.Request().Context(), fileID)
			if err != nil {
				slog.Warn("drive metadata lookup failed", "file_id", fileID, "error", err)
			} else {
				resp["file"] = meta
			}
		}
		return common.OK(c, resp)
	}
}
