package upload_api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/auth"
	"greenroom.tools/console/cmd/web/handlers/common"
	"greenroom.tools/console/internal/db"
	"greenroom.tools/console/pkg/youtube"
)

// HandleYouTubeUpload streams a video from its direct-download URL into a
// YouTube resumable insert under the active client's credentials.
func HandleYouTubeUpload(store *db.Store, sessions *auth.SessionManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			VideoURL    string   `json:"video_url"`
			Title       string   `json:"title"`
			Description string   `json:"description"`
			Tags        []string `json:"tags"`
			Privacy     string   `json:"privacy"`
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
		if client.YouTubeRefreshToken == "" {
			return common.Fail(c, 400, "client has no YouTube refresh token")
		}

		remaining, err := store.QuotaRemaining(ctx, client.ID, time.Now().UTC())
		if err != nil {
			slog.Error("failed to read quota usage", "client_id", client.ID, "error", err)
			return common.Fail(c, 500, "failed to read quota usage")
		}
		if remaining < db.QuotaCostUpload {
			return common.Fail(c, 429, fmt.Sprintf("daily quota exhausted: %d units left, upload costs %d", remaining, db.QuotaCostUpload))
		}

		params := youtube.UploadParams{
			Title:       req.Title,
			Description: req.Description,
			Tags:        req.Tags,
			Privacy:     req.Privacy,
		}
		if err := params.Validate(); err != nil {
			return common.Fail(c, 400, err.Error())
		}

		source, err := fetchVideo(c, req.VideoURL)
		if err != nil {
			return common.Fail(c, 502, err.Error())
		}
		defer source.Close()

		ts := youtube.RefreshTokenSource(ctx, client.OAuthClientID, client.OAuthClientSecret, client.YouTubeRefreshToken)
		yt, err := youtube.NewClient(ctx, ts)
		if err != nil {
			slog.Error("failed to build youtube client", "client", client.Name, "error", err)
			return common.Fail(c, 502, "failed to reach youtube")
		}

		videoID, err := yt.Upload(ctx, source, params)
		if err != nil {
			slog.Error("youtube upload failed", "client", client.Name, "title", params.Title, "error", err)
			return common.Fail(c, 502, "youtube upload failed")
		}

		if err := store.RecordQuotaUsage(ctx, client.ID, time.Now().UTC(), db.QuotaCostUpload); err != nil {
			slog.Error("failed to record quota usage", "client_id", client.ID, "error", err)
		}

		slog.Info("video uploaded", "client", client.Name, "video_id", videoID)
		return common.OK(c, map[string]any{
			"video_id":  videoID,
			"video_url": "https://www.youtube.com/watch?v=" + videoID,
		})
	}
}

func fetchVideo(c echo.Context, videoURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(c.Request().Context(), http.MethodGet, videoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid video_url: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("video source returned %d", resp.StatusCode)
	}
	return resp.Body, nil
}
