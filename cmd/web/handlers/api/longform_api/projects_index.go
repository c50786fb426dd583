// Package longform_api provides the long-form project API handlers.
package longform_api

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/handlers/common"
	"greenroom.tools/console/internal/db"
)

func HandleProjectsIndex(store *db.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		projects, err := store.ListProjects(c.Request().Context())
		if err != nil {
			slog.Error("failed to list projects", "error", err)
			return common.Fail(c, 500, "failed to list projects")
		}
		if projects == nil {
			projects = []db.Project{}
		}
		return common.OK(c, map[string]any{"projects": projects})
	}
}
