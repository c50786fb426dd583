package longform_api

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/handlers/common"
	"greenroom.tools/console/internal/db"
	"greenroom.tools/console/internal/longform"
)

// HandleGenerate kicks off a sequenced dispatch run over a project's eligible
// rows. The run outlives the request, so it is started against baseCtx rather
// than the request context.
func HandleGenerate(store *db.Store, sequencer *longform.Sequencer, baseCtx context.Context) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			ProjectID       string `json:"project_id"`
			IntervalMinutes int    `json:"interval_minutes"`
		}
		if err := c.Bind(&req); err != nil {
			return common.Fail(c, 400, "invalid request body")
		}
		projectID, err := uuid.Parse(req.ProjectID)
		if err != nil {
			return common.Fail(c, 400, "invalid project_id")
		}
		if req.IntervalMinutes < 0 {
			return common.Fail(c, 400, "interval_minutes must not be negative")
		}

		ctx := c.Request().Context()
		project, err := store.GetProject(ctx, projectID)
		switch {
		case errors.Is(err, db.ErrProjectNotFound):
			return common.Fail(c, 404, "project not found")
		case err != nil:
			slog.Error("failed to look up project", "project_id", projectID, "error", err)
			return common.Fail(c, 500, "failed to look up project")
		}

		rows, err := store.LoadRows(ctx, project.ID)
		if err != nil {
			slog.Error("failed to load rows", "project_id", project.ID, "error", err)
			return common.Fail(c, 500, "failed to load rows")
		}

		endsAt, err := sequencer.Start(baseCtx, longform.Project{
			ID:   project.ID.String(),
			Name: project.Name,
		}, rows, req.IntervalMinutes)
		switch {
		case errors.Is(err, longform.ErrNoEligibleRows):
			return common.Fail(c, 400, "no eligible rows to dispatch")
		case errors.Is(err, longform.ErrLockHeld):
			return c.JSON(409, map[string]any{
				"success": false,
				"error":   "a job is already in progress",
				"ends_at": endsAt,
			})
		case err != nil:
			slog.Error("failed to start generation run", "project_id", project.ID, "error", err)
			return common.Fail(c, 500, "failed to start generation run")
		}

		slog.Info("generation run started",
			"project", project.Name, "interval_minutes", req.IntervalMinutes)
		return common.OK(c, map[string]any{"ends_at": endsAt})
	}
}
