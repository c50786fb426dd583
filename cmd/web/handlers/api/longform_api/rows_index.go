package longform_api

import (
	"errors"
	"log/slog"

	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/handlers/common"
	"greenroom.tools/console/internal/db"
)

func HandleRowsIndex(store *db.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		projectID, err := common.RequireUUIDParam(c, "id")
		if err != nil {
			return err
		}

		rows, err := store.LoadRows(c.Request().Context(), projectID)
		switch {
		case errors.Is(err, db.ErrProjectNotFound):
			return common.Fail(c, 404, "project not found")
		case err != nil:
			slog.Error("failed to load rows", "project_id", projectID, "error", err)
			return common.Fail(c, 500, "failed to load rows")
		}

		return common.OK(c, map[string]any{"rows": rows})
	}
}
