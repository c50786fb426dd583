package client_api

import (
	"errors"
	"log/slog"

	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/handlers/common"
	"greenroom.tools/console/internal/db"
)

// HandleClientDelete removes a stored upload client and its quota history.
func HandleClientDelete(store *db.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := common.RequireUUIDParam(c, "id")
		if err != nil {
			return err
		}

		err = store.DeleteClient(c.Request().Context(), id)
		switch {
		case errors.Is(err, db.ErrClientNotFound):
			return common.Fail(c, 404, "client not found")
		case err != nil:
			slog.Error("failed to delete client", "client_id", id, "error", err)
			return common.Fail(c, 500, "failed to delete client")
		}

		slog.Info("client deleted", "client_id", id)
		return common.OK(c, nil)
	}
}
