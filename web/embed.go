// Package web provides the embedded single-page client served by the API
// binary. The client is plain HTML, CSS, and vanilla JavaScript; no build
// step is involved.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree.
//
//go:embed all:static
var StaticFS embed.FS
