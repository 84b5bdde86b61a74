package handler

import (
	"net/http"

	"github.com/mcoot/accountsvc/internal/web/middleware"
	"github.com/mcoot/accountsvc/internal/web/templates"
)

// HomeHandler handles the home page
type HomeHandler struct {
	renderer *templates.Renderer
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(renderer *templates.Renderer) *HomeHandler {
	return &HomeHandler{renderer: renderer}
}

// Home renders the home page for the logged-in user
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	data := templates.HomeData{
		PageData: templates.PageData{
			Title:    "Home",
			Username: session.Username,
			Flash:    middleware.GetFlash(r.Context()),
		},
	}
	renderPage(w, r, h.renderer, "home", data)
}
