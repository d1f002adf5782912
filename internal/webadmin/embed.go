// ABOUTME: Embeds the static admin panel so the binary ships self-contained.
// ABOUTME: Served at the mux root behind the API routes.

package webadmin

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// staticHandler serves the embedded admin panel files.
func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// Embedded tree is fixed at build time; this cannot fail at runtime.
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
