package content

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/auth"
)

// HandleBulkPage renders the Discord bulk job wizard.
func HandleBulkPage(sm *auth.SessionManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Render(http.StatusOK, "bulk.html", map[string]any{
			"Title":   "Bulk jobs",
			"Flashes": sm.PopFlashes(c.Response(), c.Request()),
		})
	}
}
