package client_api

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/auth"
	"greenroom.tools/console/cmd/web/handlers/common"
	"greenroom.tools/console/internal/db"
)

// HandleQuotaStatus reports today's YouTube API spend for the active client.
func HandleQuotaStatus(store *db.Store, sessions *auth.SessionManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		activeID, err := sessions.ActiveClient(c.Request())
		if errors.Is(err, auth.ErrNoSelection) {
			return common.Fail(c, 400, "no client selected")
		}
		clientID, err := uuid.Parse(activeID)
		if err != nil {
			return common.Fail(c, 400, "invalid client selection")
		}

		ctx := c.Request().Context()
		now := time.Now().UTC()
		used, err := store.QuotaUsedOn(ctx, clientID, now)
		if err != nil {
			slog.Error("failed to read quota usage", "client_id", clientID, "error", err)
			return common.Fail(c, 500, "failed to read quota usage")
		}
		remaining, err := store.QuotaRemaining(ctx, clientID, now)
		if err != nil {
			slog.Error("failed to read quota usage", "client_id", clientID, "error", err)
			return common.Fail(c, 500, "failed to read quota usage")
		}

		return common.OK(c, map[string]any{
			"used":          used,
			"remaining":     remaining,
			"daily_limit":   db.QuotaDailyLimit,
			"uploads_left":  remaining / db.QuotaCostUpload,
			"resets_at_utc": now.Truncate(24 * time.Hour).Add(24 * time.Hour),
		})
	}
}
