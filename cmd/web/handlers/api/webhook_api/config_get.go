package webhook_api

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/handlers/common"
	"greenroom.tools/console/pkg/n8n"
)

// HandleConfigGet returns the current webhook configuration.
func HandleConfigGet(store *n8n.ConfigStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		cfg, err := store.Load()
		if err != nil {
			slog.Error("failed to load webhook config", "error", err)
			return common.Fail(c, 500, "failed to load webhook config")
		}
		return common.OK(c, map[string]any{"config": cfg})
	}
}
