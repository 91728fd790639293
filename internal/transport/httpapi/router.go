// Package httpapi exposes the enrichment core over plain JSON/HTTP: word
// suggestions, word search, the admin card listing, and the static uploads
// mount. Authentication and the rest of the CRUD surface live in the
// surrounding service and are not handled here.
package httpapi

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wordnest/wordnest-backend/internal/version"
)

// NewRouter builds the chi router for the enrichment API.
// uploadsDir is served read-only under publicPrefix.
func NewRouter(h *Handler, log *slog.Logger, uploadsDir, publicPrefix string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version.Build(),
		})
	})

	r.Route("/api/words", func(r chi.Router) {
		r.Get("/suggest", h.Suggest)
		r.Get("/search", h.Search)
		r.Get("/sources", h.Sources)
		r.Get("/", h.List)
		r.Post("/{vcID}/ensure", h.Ensure)
	})

	prefix := strings.TrimSuffix(publicPrefix, "/")
	fileServer := http.StripPrefix(prefix, http.FileServer(http.Dir(uploadsDir)))
	r.Get(prefix+"/*", func(w http.ResponseWriter, req *http.Request) {
		fileServer.ServeHTTP(w, req)
	})

	return r
}
