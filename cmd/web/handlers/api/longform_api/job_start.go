package longform_api

import (
	"errors"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/handlers/common"
	"greenroom.tools/console/internal/longform"
)

func HandleJobStart(lock *longform.Lock) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			Seconds int    `json:"seconds"`
			Reason  string `json:"reason"`
		}
		if err := c.Bind(&req); err != nil {
			return common.Fail(c, 400, "invalid request body")
		}
		if req.Seconds <= 0 {
			return common.Fail(c, 400, "seconds must be positive")
		}
		if req.Reason == "" {
			req.Reason = longform.LockReasonCompile
		}

		endsAt, err := lock.Acquire(time.Duration(req.Seconds)*time.Second, req.Reason)
		if errors.Is(err, longform.ErrLockHeld) {
			return c.JSON(409, map[string]any{
				"success": false,
				"error":   "a job is already in progress",
				"ends_at": endsAt,
			})
		}
		if err != nil {
			return common.Fail(c, 500, "failed to start job")
		}

		slog.Info("job lock acquired", "reason", req.Reason, "seconds", req.Seconds)
		return common.OK(c, map[string]any{"ends_at": endsAt})
	}
}
