package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"tokenclick/internal/game"
	"tokenclick/views/pages"
)

type HomeHandler struct {
	store *game.Store
	log   zerolog.Logger
}

func NewHomeHandler(store *game.Store, logger zerolog.Logger) *HomeHandler {
	return &HomeHandler{store: store, log: logger}
}

func (h *HomeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.home)
	r.Get("/healthz", h.health)
}

// home opens a new session on every load, so a reload starts from the
// nickname entry again.
func (h *HomeHandler) home(w http.ResponseWriter, r *http.Request) {
	sess := h.store.CreateSession()
	h.log.Info().Str("session", sess.ID).Int("live", h.store.Len()).Msg("session opened")
	w.Header().Set("Cache-Control", "no-store")
	render(w, r, pages.GamePage(buildPage(sess.Snapshot())))
}

func (h *HomeHandler) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
