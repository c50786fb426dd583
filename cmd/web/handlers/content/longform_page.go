package content

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/auth"
	"greenroom.tools/console/internal/db"
)

// HandleLongformPage renders the long-form project sheet. The row table and
// run controls are driven by longform.js against the JSON API.
func HandleLongformPage(store *db.Store, sm *auth.SessionManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		projects, err := store.ListProjects(c.Request().Context())
		if err != nil {
			slog.Error("failed to list projects", "error", err)
		}

		return c.Render(http.StatusOK, "longform.html", map[string]any{
			"Title":    "Long-form",
			"Flashes":  sm.PopFlashes(c.Response(), c.Request()),
			"Projects": projects,
		})
	}
}
