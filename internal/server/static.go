package server

import (
	"embed"
	"io/fs"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/canbridge/internal/logging"
)

//go:embed web
var webAssets embed.FS

// handleStatic serves the embedded web dashboard. Paths that look like asset
// requests (they contain a dot) 404 when missing; everything else falls back
// to index.html so client side routes resolve.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	assets, err := fs.Sub(webAssets, "web")
	if err != nil {
		logging.Error("Embedded assets unavailable", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/")
	if path == "" {
		path = "index.html"
	}

	data, err := fs.ReadFile(assets, path)
	if err != nil {
		if strings.Contains(path, ".") {
			http.Error(w, "404", http.StatusNotFound)
			return
		}
		path = "index.html"
		data, err = fs.ReadFile(assets, path)
		if err != nil {
			http.Error(w, "404", http.StatusNotFound)
			return
		}
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}
