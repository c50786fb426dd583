package client_api

import (
	"errors"
	"log/slog"

	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/handlers/common"
	"greenroom.tools/console/internal/db"
)

// HandleClientCreate registers an upload credential bundle. Tokens arrive
// once over this endpoint and are stored encrypted.
func HandleClientCreate(store *db.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			Name                 string `json:"name"`
			OAuthClientID        string `json:"oauth_client_id"`
			OAuthClientSecret    string `json:"oauth_client_secret"`
			YouTubeRefreshToken  string `json:"youtube_refresh_token"`
			InstagramAccessToken string `json:"instagram_access_token"`
		}
		if err := c.Bind(&req); err != nil {
			return common.Fail(c, 400, "invalid request body")
		}
		if req.Name == "" {
			return common.Fail(c, 400, "name is required")
		}
		if req.OAuthClientID == "" || req.OAuthClientSecret == "" {
			return common.Fail(c, 400, "oauth_client_id and oauth_client_secret are required")
		}

		client, err := store.CreateClient(c.Request().Context(), db.NewClientParams{
			Name:                 req.Name,
			OAuthClientID:        req.OAuthClientID,
			OAuthClientSecret:    req.OAuthClientSecret,
			YouTubeRefreshToken:  req.YouTubeRefreshToken,
			InstagramAccessToken: req.InstagramAccessToken,
		})
		switch {
		case errors.Is(err, db.ErrDuplicateClient):
			return common.Fail(c, 409, "a client with that name already exists")
		case err != nil:
			slog.Error("failed to create client", "name", req.Name, "error", err)
			return common.Fail(c, 500, "failed to create client")
		}

		slog.Info("client created", "client_id", client.ID, "name", client.Name)
		return common.OK(c, map[string]any{"client_id": client.ID, "name": client.Name})
	}
}
