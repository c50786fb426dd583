package content

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/auth"
	"greenroom.tools/console/pkg/n8n"
)

// HandleN8NPage renders the webhook configuration page.
func HandleN8NPage(store *n8n.ConfigStore, sm *auth.SessionManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		cfg, err := store.Load()
		if err != nil {
			slog.Error("failed to load webhook config", "error", err)
		}

		return c.Render(http.StatusOK, "n8n.html", map[string]any{
			"Title":   "n8n",
			"Flashes": sm.PopFlashes(c.Response(), c.Request()),
			"Config":  cfg,
		})
	}
}
