package bulk_api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/handlers/common"
	"greenroom.tools/console/internal/bulk"
)

// HandleWizardCreate starts a bulk job from the wizard form. Jobs outlive
// the request, so they run against baseCtx.
func HandleWizardCreate(registry *bulk.Registry, baseCtx context.Context) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			Target          string      `json:"target"`
			IntervalMinutes int         `json:"interval_minutes"`
			Items           []bulk.Item `json:"items"`
		}
		if err := c.Bind(&req); err != nil {
			return common.Fail(c, 400, "invalid request body")
		}
		for i, item := range req.Items {
			if item.User == "" || item.ImagesLink == "" || item.AudiosLink == "" {
				return common.Fail(c, 400, fmt.Sprintf("item %d is missing user, images_link or audios_link", i+1))
			}
		}

		id, err := registry.Start(baseCtx, bulk.Target(req.Target), req.Items, req.IntervalMinutes)
		if err != nil {
			if errors.Is(err, bulk.ErrNoItems) {
				return common.Fail(c, 400, "at least one item is required")
			}
			return common.Fail(c, 400, err.Error())
		}

		slog.Info("bulk job started", "job_id", id, "items", len(req.Items), "target", req.Target)
		return common.OK(c, map[string]any{"job_id": id})
	}
}
