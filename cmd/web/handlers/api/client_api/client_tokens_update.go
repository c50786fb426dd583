package client_api

import (
	"errors"
	"log/slog"

	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/handlers/common"
	"greenroom.tools/console/internal/db"
)

// HandleClientTokensUpdate replaces a client's stored platform tokens.
// Empty fields clear the token; omit-to-keep is not supported because the
// console never reads tokens back out to the browser.
func HandleClientTokensUpdate(store *db.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := common.RequireUUIDParam(c, "id")
		if err != nil {
			return err
		}

		var req struct {
			YouTubeRefreshToken  string `json:"youtube_refresh_token"`
			InstagramAccessToken string `json:"instagram_access_token"`
		}
		if err := c.Bind(&req); err != nil {
			return common.Fail(c, 400, "invalid request body")
		}

		err = store.UpdateClientTokens(c.Request().Context(), id, req.YouTubeRefreshToken, req.InstagramAccessToken)
		switch {
		case errors.Is(err, db.ErrClientNotFound):
			return common.Fail(c, 404, "client not found")
		case err != nil:
			slog.Error("failed to update client tokens", "client_id", id, "error", err)
			return common.Fail(c, 500, "failed to update client tokens")
		}

		slog.Info("client tokens updated", "client_id", id)
		return common.OK(c, nil)
	}
}
