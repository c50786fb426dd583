package longform_api

import (
	"errors"
	"log/slog"

	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/handlers/common"
	"greenroom.tools/console/internal/db"
	"greenroom.tools/console/internal/longform"
	"greenroom.tools/console/pkg/n8n"
)

// HandleCompile triggers the compile workflow for a fully complete project.
// A compile claims the job lock for its whole span, so a generate run
// cannot start underneath it.
func HandleCompile(store *db.Store, client *n8n.Client, lock *longform.Lock) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			ProjectName string `json:"project_name"`
		}
		if err := c.Bind(&req); err != nil {
			return common.Fail(c, 400, "invalid request body")
		}
		if req.ProjectName == "" {
			return common.Fail(c, 400, "project_name is required")
		}

		ctx := c.Request().Context()
		project, err := store.GetProjectByName(ctx, req.ProjectName)
		switch {
		case errors.Is(err, db.ErrProjectNotFound):
			return common.Fail(c, 404, "project not found")
		case err != nil:
			slog.Error("failed to look up project", "name", req.ProjectName, "error", err)
			return common.Fail(c, 500, "failed to look up project")
		}

		rows, err := store.LoadRows(ctx, project.ID)
		if err != nil {
			slog.Error("failed to load rows", "project_id", project.ID, "error", err)
			return common.Fail(c, 500, "failed to load rows")
		}
		if !longform.CompileReady(rows) {
			return common.Fail(c, 400, "all rows must be complete before compiling")
		}

		endsAt, err := lock.Acquire(longform.CompileLockDuration, longform.LockReasonCompile)
		if errors.Is(err, longform.ErrLockHeld) {
			return c.JSON(409, map[string]any{
				"success": false,
				"error":   "a job is already in progress",
				"ends_at": endsAt,
			})
		}

		if err := client.Compile(ctx, project.Name); err != nil {
			if errors.Is(err, n8n.ErrNotConfigured) {
				return common.Fail(c, 400, "compile webhook is not configured")
			}
			var statusErr *n8n.StatusError
			if errors.As(err, &statusErr) {
				return common.Fail(c, 502, err.Error())
			}
			slog.Error("compile webhook failed", "project", project.Name, "error", err)
			return common.Fail(c, 500, "compile webhook failed")
		}

		slog.Info("compile triggered", "project", project.Name, "lock_ends_at", endsAt)
		return common.OK(c, map[string]any{"ends_at": endsAt})
	}
}
