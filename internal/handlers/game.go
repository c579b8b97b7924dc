package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"tokenclick/internal/game"
	"tokenclick/views/components"
	"tokenclick/views/pages"
)

const keepAliveInterval = 25 * time.Second

type GameHandler struct {
	store   *game.Store
	log     zerolog.Logger
	origins []string
}

// NewGameHandler serves the per-session routes. origins lists the extra
// origins allowed to open the websocket; same-host origins are always allowed.
func NewGameHandler(store *game.Store, logger zerolog.Logger, origins []string) *GameHandler {
	return &GameHandler{store: store, log: logger, origins: origins}
}

// RegisterRoutes registers the short request/response routes.
func (h *GameHandler) RegisterRoutes(r chi.Router) {
	r.Get("/session/{id}/view", h.view)
	r.Post("/session/{id}/nickname", h.submitNickname)
	r.Post("/session/{id}/start", h.start)
	r.Post("/session/{id}/click", h.click)
}

// RegisterStreamRoutes registers the long-lived push routes. They must not sit
// behind a request timeout.
func (h *GameHandler) RegisterStreamRoutes(r chi.Router) {
	r.Get("/session/{id}/stream", h.stream)
	r.Get("/session/{id}/ws", h.socket)
}

func (h *GameHandler) view(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	h.respond(w, r, sess, false)
}

func (h *GameHandler) submitNickname(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if !sess.SubmitNickname(r.FormValue("nickname")) {
		h.log.Debug().Str("session", sess.ID).Msg("nickname rejected")
	}
	h.respond(w, r, sess, true)
}

func (h *GameHandler) start(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Start()
	h.respond(w, r, sess, true)
}

func (h *GameHandler) click(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if points, scored := sess.RegisterClick(); scored {
		h.log.Debug().Str("session", sess.ID).Int("points", points).Msg("click")
	}
	h.respond(w, r, sess, true)
}

func (h *GameHandler) stream(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	hub, ok := h.store.Broadcaster(sess.ID)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := hub.Subscribe()
	defer func() {
		hub.Unsubscribe(sub)
		// Idle time counts from the moment the page went away.
		h.store.Touch(sess.ID)
	}()

	send := func() bool {
		html, err := renderToString(r, components.GamePanel(buildPanel(sess.Snapshot())))
		if err != nil {
			h.log.Error().Err(err).Str("session", sess.ID).Msg("render panel")
			return false
		}
		writeSSE(w, "game", html)
		flusher.Flush()
		return true
	}

	if !send() {
		return
	}

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case _, open := <-sub:
			if !open {
				return
			}
			if !send() {
				return
			}
		case <-keepAlive.C:
			_, _ = w.Write([]byte(": keepalive\n\n"))
			flusher.Flush()
		}
	}
}

// session resolves {id} and marks the session active. Unknown ids get a 404.
func (h *GameHandler) session(w http.ResponseWriter, r *http.Request) (*game.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, ok := h.store.GetSession(id)
	if !ok {
		if isHTMX(r) {
			http.NotFound(w, r)
		} else {
			renderStatus(w, r, http.StatusNotFound, pages.NotFoundPage())
		}
		return nil, false
	}
	h.store.Touch(id)
	return sess, true
}

// respond renders the panel for htmx and the whole page otherwise. Plain form
// posts are redirected back to the session page.
func (h *GameHandler) respond(w http.ResponseWriter, r *http.Request, sess *game.Session, mutated bool) {
	if isHTMX(r) {
		render(w, r, components.GamePanel(buildPanel(sess.Snapshot())))
		return
	}
	if mutated {
		http.Redirect(w, r, "/session/"+sess.ID+"/view", http.StatusSeeOther)
		return
	}
	render(w, r, pages.GamePage(buildPage(sess.Snapshot())))
}
