// Package static embeds the console's client-side assets.
package static

import "embed"

//go:embed css js
var FS embed.FS
