package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"tokenclick/internal/game"
	"tokenclick/internal/viewmodel"
)

func render(w http.ResponseWriter, r *http.Request, component templ.Component) {
	renderStatus(w, r, http.StatusOK, component)
}

func renderStatus(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	var buf bytes.Buffer
	if err := component.Render(r.Context(), &buf); err != nil {
		http.Error(w, "failed to render", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func renderToString(r *http.Request, component templ.Component) (string, error) {
	var buf bytes.Buffer
	if err := component.Render(r.Context(), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeSSE(w http.ResponseWriter, event string, data string) {
	_, _ = w.Write([]byte("event: " + event + "\n"))
	for _, line := range strings.Split(data, "\n") {
		_, _ = w.Write([]byte("data: " + line + "\n"))
	}
	_, _ = w.Write([]byte("\n"))
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("Hx-Request") == "true"
}

func buildPanel(snap game.Snapshot) viewmodel.GamePanel {
	panel := viewmodel.GamePanel{
		SessionID:    snap.ID,
		View:         string(snap.View),
		Nickname:     snap.Nickname,
		Submitted:    snap.Submitted,
		Score:        snap.Score,
		TimeLeft:     snap.TimeLeft,
		RoundSeconds: game.RoundSeconds,
		Running:      snap.Running,
		ShowPopup:    snap.ShowPopup,
		PopupPoints:  snap.PopupPoints,
		Round:        snap.Round,
		Clicks:       snap.Clicks,
		MaxNickname:  game.MaxNicknameLen,
	}
	if snap.Asset != nil {
		panel.Asset = &viewmodel.AssetView{
			Name:     snap.Asset.Name,
			ImageURL: snap.Asset.ImageRef,
			Points:   snap.Asset.Points,
		}
	}
	return panel
}

func buildPage(snap game.Snapshot) viewmodel.GamePage {
	return viewmodel.GamePage{
		Title:     "Tokenize Everything!",
		SessionID: snap.ID,
		Panel:     buildPanel(snap),
	}
}
