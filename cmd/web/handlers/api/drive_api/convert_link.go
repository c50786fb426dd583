package drive_api

import (
	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/handlers/common"
	"greenroom.tools/console/internal/driveurl"
)

// HandleConvertLink rewrites a Drive sharing link into direct-download form.
func HandleConvertLink() echo.HandlerFunc {
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
			return common.Fail(c, 400, err.Error())
		}
		return common.OK(c, map[string]any{
			"direct_url": directURL,
			"file_id":    fileID,
		})
	}
}
