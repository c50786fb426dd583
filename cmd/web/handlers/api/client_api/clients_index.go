package client_api

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/handlers/common"
	"greenroom.tools/console/internal/db"
)

type clientSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	OAuthClientID string `json:"oauth_client_id"`
	HasYouTube    bool   `json:"has_youtube"`
	HasInstagram  bool   `json:"has_instagram"`
}

// HandleClientsIndex lists the stored upload clients. Secrets and tokens
// stay server-side; the response only says whether each is present.
func HandleClientsIndex(store *db.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		clients, err := store.ListClients(c.Request().Context())
		if err != nil {
			slog.Error("failed to list clients", "error", err)
			return common.Fail(c, 500, "failed to list clients")
		}

		summaries := make([]clientSummary, 0, len(clients))
		for _, client := range clients {
			summaries = append(summaries, clientSummary{
				ID:            client.ID.String(),
				Name:          client.Name,
				OAuthClientID: client.OAuthClientID,
				HasYouTube:    client.YouTubeRefreshToken != "",
				HasInstagram:  client.InstagramAccessToken != "",
			})
		}
		return common.OK(c, map[string]any{"clients": summaries})
	}
}
