// Package httpui embeds the browser pages served by the manager.
package httpui

import (
	"embed"
	"io/fs"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

//go:embed dist
var embedded embed.FS

const (
	IndexPage = "index.html"
	LoginPage = "login.html"
	Favicon   = "favicon.ico"
)

// Pages exposes the embedded dist folder.
type Pages struct {
	fsys fs.FS
}

func New() (*Pages, error) {
	sub, err := fs.Sub(embedded, "dist")
	if err != nil {
		return nil, err
	}

	_ = mime.AddExtensionType(".js", "application/javascript; charset=utf-8")
	_ = mime.AddExtensionType(".ico", "image/vnd.microsoft.icon")

	return &Pages{fsys: sub}, nil
}

// Page returns the raw bytes of a top-level file.
func (p *Pages) Page(name string) ([]byte, error) {
	return fs.ReadFile(p.fsys, name)
}

// StaticFS is the static/ subtree for asset serving.
func (p *Pages) StaticFS() (http.FileSystem, error) {
	sub, err := fs.Sub(p.fsys, "static")
	if err != nil {
		return nil, err
	}
	return http.FS(sub), nil
}

// SetCacheHeaders marks assets cacheable and pages revalidated.
func SetCacheHeaders(w http.ResponseWriter, name string) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".js", ".css", ".png", ".svg", ".ico":
		w.Header().Set("Cache-Control", "public, max-age=86400")
	default:
		w.Header().Set("Cache-Control", "no-cache")
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")
}
