package bulk_api

import (
	"errors"
	"log/slog"

	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/handlers/common"
	"greenroom.tools/console/internal/bulk"
)

// HandleCancel stops a pending or running bulk job.
func HandleCancel(registry *bulk.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := common.RequireUUIDParam(c, "id")
		if err != nil {
			return err
		}

		err = registry.Cancel(id)
		switch {
		case errors.Is(err, bulk.ErrJobNotFound):
			return common.Fail(c, 404, "bulk job not found")
		case errors.Is(err, bulk.ErrNotRunning):
			return common.Fail(c, 409, "bulk job already finished")
		case err != nil:
			return common.Fail(c, 500, "failed to cancel bulk job")
		}

		slog.Info("bulk job cancelled", "job_id", id)
		return common.OK(c, nil)
	}
}
