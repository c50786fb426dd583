package bulk_api

import (
	"errors"

	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/handlers/common"
	"greenroom.tools/console/internal/bulk"
)

// HandleStatus reports a bulk job's progress.
func HandleStatus(registry *bulk.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := common.RequireUUIDParam(c, "id")
		if err != nil {
			return err
		}

		report, err := registry.Report(id)
		if errors.Is(err, bulk.ErrJobNotFound) {
			return common.Fail(c, 404, "bulk job not found")
		}
		return common.OK(c, map[string]any{"job": report})
	}
}
