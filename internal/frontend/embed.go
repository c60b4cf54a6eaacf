package frontend

import (
	"embed"
	"io/fs"
)

//go:embed templates static
var assetsFS embed.FS

// StaticFS returns the embedded stylesheet directory
func StaticFS() (fs.FS, error) {
	return fs.Sub(assetsFS, "static")
}
