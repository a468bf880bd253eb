// Package views holds the page templates and the static assets of the
// gallery client.
package views

import "embed"

//go:embed layouts pages static
var FS embed.FS
