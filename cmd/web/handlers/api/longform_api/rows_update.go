package longform_api

import (
	"errors"
	"log/slog"

	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/handlers/common"
	"greenroom.tools/console/internal/db"
	"greenroom.tools/console/internal/longform"
)

func HandleRowsUpdate(store *db.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		projectID, err := common.RequireUUIDParam(c, "id")
		if err != nil {
			return err
		}

		var req struct {
			Rows []longform.Row `json:"rows"`
		}
		if err := c.Bind(&req); err != nil {
			return common.Fail(c, 400, "invalid request body")
		}

		err = store.SaveRows(c.Request().Context(), projectID, req.Rows)
		switch {
		case errors.Is(err, db.ErrProjectNotFound):
			return common.Fail(c, 404, "project not found")
		case errors.Is(err, longform.ErrRowCount):
			return common.Fail(c, 400, err.Error())
		case err != nil:
			slog.Error("failed to save rows", "project_id", projectID, "error", err)
			return common.Fail(c, 500, "failed to save rows")
		}

		return common.OK(c, nil)
	}
}
