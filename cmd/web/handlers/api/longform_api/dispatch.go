package longform_api

import (
	"errors"
	"log/slog"

	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/handlers/common"
	"greenroom.tools/console/internal/dispatch"
	"greenroom.tools/console/internal/longform"
	"greenroom.tools/console/pkg/n8n"
)

// HandleDispatch forwards a single row to the long-form webhook without
// touching the job lock. The generate run is the locked path; this is the
// operator's manual re-send.
func HandleDispatch(dispatcher *dispatch.RowDispatcher) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			ProjectName  string `json:"project_name"`
			SerialNumber int    `json:"serial_number"`
			AudioURL     string `json:"audio_url"`
			ImageURL     string `json:"image_url"`
		}
		if err := c.Bind(&req); err != nil {
			return common.Fail(c, 400, "invalid request body")
		}
		if req.ProjectName == "" || req.AudioURL == "" || req.ImageURL == "" {
			return common.Fail(c, 400, "project_name, audio_url and image_url are required")
		}
		if req.SerialNumber < 1 || req.SerialNumber > longform.ProjectRowCount {
			return common.Fail(c, 400, "serial_number out of range")
		}

		row := longform.Row{
			SerialNumber: req.SerialNumber,
			AudioURL:     req.AudioURL,
			ImageURL:     req.ImageURL,
		}
		err := dispatcher.DispatchRow(c.Request().Context(), req.ProjectName, row)
		if err != nil {
			var statusErr *n8n.StatusError
			if errors.As(err, &statusErr) {
				return common.Fail(c, 502, err.Error())
			}
			slog.Error("manual row dispatch failed", "project", req.ProjectName, "serial", req.SerialNumber, "error", err)
			return common.Fail(c, 500, err.Error())
		}

		slog.Info("row dispatched", "project", req.ProjectName, "serial", req.SerialNumber)
		return common.OK(c, nil)
	}
}
