package common

import (
	"github.com/labstack/echo/v4"
)

// OK writes the success envelope, merging extra fields into the body.
func OK(c echo.Context, fields map[string]any) error {
	body := map[string]any{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	return c.JSON(200, body)
}

// Fail writes the failure envelope with the given status code.
func Fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]any{
		"success": false,
		"error":   msg,
	})
}
