package server

import (
	"net/http"
	"os"
	"path/filepath"
)

// handleStatic serves files from dir for paths no route claimed.
func handleStatic(dir string) http.HandlerFunc {
	fileServer := http.FileServer(http.Dir(dir))

	return func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, r)
			return
		}
		writeError(w, http.StatusNotFound, "not found")
	}
}
