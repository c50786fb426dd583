package client_api

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/auth"
	"greenroom.tools/console/cmd/web/handlers/common"
	"greenroom.tools/console/internal/db"
)

// HandleClientSelect stores the chosen upload client in the session.
// Switching clients drops any channel selection left over from the old one.
func HandleClientSelect(store *db.Store, sessions *auth.SessionManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			ClientID string `json:"client_id"`
		}
		if err := c.Bind(&req); err != nil {
			return common.Fail(c, 400, "invalid request body")
		}
		clientID, err := uuid.Parse(req.ClientID)
		if err != nil {
			return common.Fail(c, 400, "invalid client_id")
		}

		client, err := store.GetClient(c.Request().Context(), clientID)
		switch {
		case errors.Is(err, db.ErrClientNotFound):
			return common.Fail(c, 404, "client not found")
		case err != nil:
			slog.Error("failed to look up client", "client_id", clientID, "error", err)
			return common.Fail(c, 500, "failed to look up client")
		}

		if err := sessions.SetActiveClient(c.Response(), c.Request(), client.ID.String()); err != nil {
			slog.Error("failed to save session", "error", err)
			return common.Fail(c, 500, "failed to save selection")
		}
		return common.OK(c, map[string]any{"client_id": client.ID, "name": client.Name})
	}
}
