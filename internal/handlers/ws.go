package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"tokenclick/internal/game"
)

const (
	wsWriteTimeout   = 10 * time.Second
	wsReadTimeout    = 60 * time.Second
	wsPingInterval   = 30 * time.Second
	wsMaxMessageSize = 1024
)

// wsAction is a command sent by a websocket client.
type wsAction struct {
	Action   string `json:"action"`
	Nickname string `json:"nickname,omitempty"`
}

// wsMessage is what the server sends: "state" carries a panel, "error" a reason.
type wsMessage struct {
	Type  string `json:"type"`
	State any    `json:"state,omitempty"`
	Error string `json:"error,omitempty"`
}

func (h *GameHandler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
}

func (h *GameHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	for _, allowed := range h.origins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// socket is the JSON alternative to the SSE stream plus form posts. All
// writes happen on this goroutine; a reader goroutine feeds actions in.
func (h *GameHandler) socket(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	hub, ok := h.store.Broadcaster(sess.ID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	upgrader := h.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		h.log.Warn().Err(err).Str("session", sess.ID).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	sub := hub.Subscribe()
	defer func() {
		hub.Unsubscribe(sub)
		h.store.Touch(sess.ID)
	}()

	actions := make(chan wsAction)
	bad := make(chan string)
	done := make(chan struct{})
	stop := make(chan struct{})
	defer close(stop)
	go h.readActions(conn, sess.ID, actions, bad, done, stop)

	send := func(msg wsMessage) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			h.log.Debug().Err(err).Str("session", sess.ID).Msg("websocket write")
			return false
		}
		return true
	}
	sendState := func() bool {
		return send(wsMessage{Type: "state", State: buildPanel(sess.Snapshot())})
	}

	if !sendState() {
		return
	}

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case _, open := <-sub:
			if !open {
				_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"))
				return
			}
			if !sendState() {
				return
			}
		case action := <-actions:
			applyAction(sess, action)
			h.store.Touch(sess.ID)
			if !sendState() {
				return
			}
		case reason := <-bad:
			if !send(wsMessage{Type: "error", Error: reason}) {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *GameHandler) readActions(conn *websocket.Conn, sessionID string, actions chan<- wsAction, bad chan<- string, done chan<- struct{}, stop <-chan struct{}) {
	defer close(done)

	conn.SetReadLimit(wsMaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.log.Warn().Err(err).Str("session", sessionID).Msg("websocket closed")
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		var action wsAction
		if err := json.Unmarshal(message, &action); err != nil {
			select {
			case bad <- "malformed message":
				continue
			case <-stop:
				return
			}
		}
		switch action.Action {
		case "nickname", "start", "click":
			select {
			case actions <- action:
			case <-stop:
				return
			}
		default:
			select {
			case bad <- "unknown action " + action.Action:
			case <-stop:
				return
			}
		}
	}
}

func applyAction(sess *game.Session, action wsAction) {
	switch action.Action {
	case "nickname":
		sess.SubmitNickname(action.Nickname)
	case "start":
		sess.Start()
	case "click":
		sess.RegisterClick()
	}
}
