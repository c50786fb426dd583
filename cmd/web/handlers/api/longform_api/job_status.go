package longform_api

import (
	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/handlers/common"
	"greenroom.tools/console/internal/longform"
)

func HandleJobStatus(lock *longform.Lock) echo.HandlerFunc {
	return func(c echo.Context) error {
		status := lock.Status()
		return common.OK(c, map[string]any{
			"active":  status.Active,
			"ends_at": status.EndsAt,
			"reason":  status.Reason,
		})
	}
}
