package longform_api

import (
	"errors"
	"log/slog"

	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/handlers/common"
	"greenroom.tools/console/internal/db"
)

func HandleProjectCreate(store *db.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			Name string `json:"name"`
		}
		if err := c.Bind(&req); err != nil {
			return common.Fail(c, 400, "invalid request body")
		}

		project, err := store.CreateProject(c.Request().Context(), req.Name)
		switch {
		case errors.Is(err, db.ErrEmptyProjectName):
			return common.Fail(c, 400, "project name is required")
		case errors.Is(err, db.ErrDuplicateProject):
			return common.Fail(c, 409, "a project with that name already exists")
		case err != nil:
			slog.Error("failed to create project", "name", req.Name, "error", err)
			return common.Fail(c, 500, "failed to create project")
		}

		slog.Info("project created", "project_id", project.ID, "name", project.Name)
		return common.OK(c, map[string]any{"project": project})
	}
}
