package client_api

import (
	"errors"
	"log/slog"

	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/auth"
	"greenroom.tools/console/cmd/web/handlers/common"
)

// HandleChannelSelect stores the chosen channel for the active client.
func HandleChannelSelect(sessions *auth.SessionManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			ChannelID string `json:"channel_id"`
		}
		if err := c.Bind(&req); err != nil {
			return common.Fail(c, 400, "invalid request body")
		}
		if req.ChannelID == "" {
			return common.Fail(c, 400, "channel_id is required")
		}

		if _, err := sessions.ActiveClient(c.Request()); errors.Is(err, auth.ErrNoSelection) {
			return common.Fail(c, 400, "select a client before choosing a channel")
		}

		if err := sessions.SetActiveChannel(c.Response(), c.Request(), req.ChannelID); err != nil {
			slog.Error("failed to save session", "error", err)
			return common.Fail(c, 500, "failed to save selection")
		}
		return common.OK(c, map[string]any{"channel_id": req.ChannelID})
	}
}
