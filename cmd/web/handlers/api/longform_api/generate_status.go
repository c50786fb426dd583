package longform_api

import (
	"github.com/labstack/echo/v4"

	"greenroom.tools/console/cmd/web/handlers/common"
	"greenroom.tools/console/internal/longform"
)

// HandleGenerateStatus reports the current (or most recent) sequenced run.
func HandleGenerateStatus(sequencer *longform.Sequencer) echo.HandlerFunc {
	return func(c echo.Context) error {
		return common.OK(c, map[string]any{"report": sequencer.Report()})
	}
}
