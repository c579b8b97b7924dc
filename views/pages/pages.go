package pages

import (
	"github.com/a-h/templ"

	"tokenclick/internal/viewmodel"
	"tokenclick/views"
)

// GamePage renders the whole document around a session's game panel.
func GamePage(data viewmodel.GamePage) templ.Component {
	return templ.FromGoHTML(views.Lookup("page"), data)
}

// NotFoundPage is shown for sessions that no longer exist.
func NotFoundPage() templ.Component {
	return templ.FromGoHTML(views.Lookup("not_found"), nil)
}
