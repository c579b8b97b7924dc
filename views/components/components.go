package components

import (
	"github.com/a-h/templ"

	"tokenclick/internal/viewmodel"
	"tokenclick/views"
)

// GamePanel renders the content of #game for the current view.
func GamePanel(data viewmodel.GamePanel) templ.Component {
	return templ.FromGoHTML(views.Lookup("panel"), data)
}
