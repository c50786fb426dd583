package content

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/auth"
	"greenroom.tools/console/internal/db"
)

// HandleHomePage renders the upload console: platform, client, channel and
// upload form as progressive steps. Channel listing happens client-side
// because it costs YouTube API quota.
func HandleHomePage(store *db.Store, sm *auth.SessionManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		clients, err := store.ListClients(c.Request().Context())
		if err != nil {
			slog.Error("failed to list clients", "error", err)
		}

		activeClient, _ := sm.ActiveClient(c.Request())
		activeChannel, _ := sm.ActiveChannel(c.Request())

		return c.Render(http.StatusOK, "home.html", map[string]any{
			"Title":         "Upload",
			"Flashes":       sm.PopFlashes(c.Response(), c.Request()),
			"Clients":       clients,
			"ActiveClient":  activeClient,
			"ActiveChannel": activeChannel,
		})
	}
}
