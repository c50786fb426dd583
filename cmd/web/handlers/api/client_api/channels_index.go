package client_api

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
	"greenroom.tools/console/pkg/youtube"
)

// ChannelSource lists the YouTube channels reachable with a client's
// stored credentials. Split out so handler tests can swap in a fake.
type ChannelSource func(ctx context.Context, client *db.Client) ([]youtube.Channel, error)

// YouTubeChannelSource exchanges the client's refresh token and asks the
// YouTube API for the channels it can manage.
func YouTubeChannelSource(ctx context.Context, client *db.Client) ([]youtube.Channel, error) {
	if client.YouTubeRefreshToken == "" {
		return nil, fmt.Errorf("client %q has no YouTube refresh token", client.Name)
	}
	ts := youtube.RefreshTokenSource(ctx, client.OAuthClientID, client.OAuthClientSecret, client.YouTubeRefreshToken)

	yt, err := youtube.NewClient(ctx, ts)
	if err != nil {
		return nil, err
	}
	return yt.MyChannels(ctx)
}

// HandleChannelsIndex lists channels for the session's active client and
// charges the listing cost against its daily quota.
func HandleChannelsIndex(store *db.Store, sessions *auth.SessionManager, channels ChannelSource) echo.HandlerFunc {
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
		client, err := store.GetClient(ctx, clientID)
		switch {
		case errors.Is(err, db.ErrClientNotFound):
			return common.Fail(c, 404, "client not found")
		case err != nil:
			slog.Error("failed to look up client", "client_id", clientID, "error", err)
			return common.Fail(c, 500, "failed to look up client")
		}

		list, err := channels(ctx, client)
		if err != nil {
			slog.Error("failed to list channels", "client", client.Name, "error", err)
			return common.Fail(c, 502, "failed to list channels")
		}

		if err := store.RecordQuotaUsage(ctx, client.ID, time.Now().UTC(), db.QuotaCostList); err != nil {
			slog.Error("failed to record quota usage", "client_id", client.ID, "error", err)
		}
		return common.OK(c, map[string]any{"channels": list})
	}
}
