// Package templates renders the HTML pages for the web interface from
// templates embedded in the binary.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/mcoot/accountsvc/internal/model"
)

//go:embed *.html
var files embed.FS

// pageNames lists every page template; each is parsed together with the
// shared layout
var pageNames = []string{"home", "login", "register", "users", "update", "profile"}

// FlashMessage is a one-shot notification shown on the next page load
type FlashMessage struct {
	Type    string // "success", "danger" or "info"
	Message string
}

// PageData carries the fields every page shares
type PageData struct {
	Title    string
	Username string // empty when not logged in
	Flash    *FlashMessage
}

// HomeData is the data for the home page
type HomeData struct {
	PageData
}

// LoginData is the data for the login page
type LoginData struct {
	PageData
	FormUsername string
	Error        string
}

// RegisterData is the data for the registration page
type RegisterData struct {
	PageData
	FormUsername string
	FormEmail    string
	Error        string
}

// UsersData is the data for the account listing page
type UsersData struct {
	PageData
	Accounts []*model.Account
}

// UpdateData is the data for the admin email update page
type UpdateData struct {
	PageData
	Account *model.Account
}

// ProfileData is the data for the profile page
type ProfileData struct {
	PageData
	Account *model.Account
}

// Renderer holds the parsed page templates
type Renderer struct {
	pages map[string]*template.Template
}

// New parses all embedded templates
func New() (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.ParseFS(files, "layout.html", name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages}, nil
}

// Render writes the named page to w
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page template: %s", page)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
