// Package views embeds the page templates. layout.html and partials.html are
// shared by every page; each other file defines the "content" block of one
// page.
package views

import "embed"

//go:embed templates/*.html
var FS embed.FS
