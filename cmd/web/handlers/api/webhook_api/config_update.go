package webhook_api

import (
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/handlers/common"
	"greenroom.tools/console/pkg/n8n"
)

// HandleConfigUpdate rewrites the webhook URL set. The operator either
// pastes a tunnel base URL, from which the four workflow endpoints are
// derived, or supplies the URLs individually.
func HandleConfigUpdate(store *n8n.ConfigStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			BaseURL     string           `json:"base_url"`
			WebhookURLs *n8n.WebhookURLs `json:"webhook_urls"`
		}
		if err := c.Bind(&req); err != nil {
			return common.Fail(c, 400, "invalid request body")
		}

		var (
			cfg n8n.Config
			err error
		)
		switch {
		case strings.TrimSpace(req.BaseURL) != "":
			cfg, err = store.UpdateFromBase(req.BaseURL)
		case req.WebhookURLs != nil:
			cfg, err = store.Update(*req.WebhookURLs)
		default:
			return common.Fail(c, 400, "provide base_url or webhook_urls")
		}
		if err != nil {
			slog.Error("failed to update webhook config", "error", err)
			return common.Fail(c, 500, "failed to update webhook config")
		}

		slog.Info("webhook config updated", "last_updated", cfg.LastUpdated)
		return common.OK(c, map[string]any{"config": cfg})
	}
}
