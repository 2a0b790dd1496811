package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// SPAHandler serves files from Dir and falls back to index.html so the
// front-end router can handle unknown paths.
type SPAHandler struct {
	Dir string
}

func (h SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	name := path.Clean("/" + r.URL.Path)
	full := filepath.Join(h.Dir, filepath.FromSlash(name))

	if info, err := os.Stat(full); err == nil && !info.IsDir() {
		http.ServeFile(w, r, full)
		return
	}

	http.ServeFile(w, r, filepath.Join(h.Dir, "index.html"))
}
