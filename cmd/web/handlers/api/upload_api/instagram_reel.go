package upload_api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/auth"
	"greenroom.tools/console/cmd/web/handlers/common"
	"greenroom.tools/console/internal/db"
	"greenroom.tools/console/pkg/instagram"
)

// Instagram processes Reel containers asynchronously; uploads from Drive
// links usually finish within a minute.
const (
	containerPollInterval = 2 * time.Second
	containerPollTimeout  = 2 * time.Minute
)

// HandleInstagramReel publishes a Reel from a publicly fetchable video URL
// under the active client's Instagram token.
func HandleInstagramReel(store *db.Store, sessions *auth.SessionManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			VideoURL  string `json:"video_url"`
			Caption   string `json:"caption"`
			AccountID string `json:"account_id"`
		}
		if err := c.Bind(&req); err != nil {
			return common.Fail(c, 400, "invalid request body")
		}
		if req.VideoURL == "" {
			return common.Fail(c, 400, "video_url is required")
		}

		activeID, err := sessions.ActiveClient(c.Request())
		if errors.Is(err, auth.ErrNoSelection) {
			return common.Fail(c, 400, "no client selected")
		}
		clientID, err := uuid.Parse(activeID)
		if err != nil {
			return common.Fail(c, 400, "invalid client selection")
		}

		ctx := c.Request().Context()
		client, err := store.GetClient(ctx, clientID)
		switch {
		case errors.Is(err, db.ErrClientNotFound):
			return common.Fail(c, 404, "client not found")
		case err != nil:
			slog.Error("failed to look up client", "client_id", clientID, "error", err)
			return common.Fail(c, 500, "failed to look up client")
		}
		if client.InstagramAccessToken == "" {
			return common.Fail(c, 400, "client has no Instagram access token")
		}

		ig := instagram.NewClient(client.InstagramAccessToken)

		accountID := req.AccountID
		if accountID == "" {
			accounts, err := ig.Accounts(ctx)
			if err != nil {
				slog.Error("failed to list instagram accounts", "client", client.Name, "error", err)
				return common.Fail(c, 502, "failed to list instagram accounts")
			}
			if len(accounts) == 0 {
				return common.Fail(c, 400, "no instagram business account linked to this token")
			}
			accountID = accounts[0].ID
		}

		containerID, err := ig.CreateReelContainer(ctx, accountID, req.VideoURL, req.Caption)
		if err != nil {
			slog.Error("reel container create failed", "client", client.Name, "error", err)
			return common.Fail(c, 502, "reel container create failed")
		}

		if err := waitForContainer(ctx, ig, containerID); err != nil {
			slog.Error("reel container processing failed", "container_id", containerID, "error", err)
			return common.Fail(c, 502, err.Error())
		}

		mediaID, err := ig.PublishContainer(ctx, accountID, containerID)
		if err != nil {
			slog.Error("reel publish failed", "container_id", containerID, "error", err)
			return common.Fail(c, 502, "reel publish failed")
		}

		slog.Info("reel published", "client", client.Name, "media_id", mediaID)
		return common.OK(c, map[string]any{
			"media_id":     mediaID,
			"container_id": containerID,
			"account_id":   accountID,
		})
	}
}

func waitForContainer(ctx context.Context, ig *instagram.Client, containerID string) error {
	deadline := time.Now().Add(containerPollTimeout)
	for {
		st, err := ig.GetContainerStatus(ctx, containerID)
		if err != nil {
			return fmt.Errorf("container status check failed: %w", err)
		}
		switch st.StatusCode {
		case "FINISHED":
			return nil
		case "ERROR", "EXPIRED":
			return fmt.Errorf("container processing failed: %s", st.Status)
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("container still %s after %s", st.StatusCode, containerPollTimeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(containerPollInterval):
		}
	}
}
