package console

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"slices"
	"strings"

	"github.com/sufield/libadmin/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// navItem is one sidebar link.
type navItem struct {
	Name string
	Href string
}

var nav = []navItem{
	{"Dashboard", "/dashboard"},
	{"Books", "/books"},
	{"Loans", "/loans"},
	{"Users", "/users"},
	{"Authors", "/authors"},
}

// view is the data every page template receives.
type view struct {
	Title    string
	Active   string // href of the highlighted sidebar link
	Nav      []navItem
	Username string
	Flash    string
	Data     any
}

var funcs = template.FuncMap{
	"displayDate": domain.DisplayDate,
	"longDate":    domain.LongDate,
	"join":        strings.Join,
	"has": func(list []string, v string) bool {
		return slices.Contains(list, v)
	},
	"returnDate": func(d *string) string {
		if d == nil || *d == "" {
			return "-"
		}
		return domain.DisplayDate(*d)
	},
}

// pages holds one template set per page, each layered on the layout.
type pages struct {
	sets map[string]*template.Template
}

var pageNames = []string{
	"dashboard", "confirm",
	"users", "user_form",
	"authors", "author_form",
	"books", "book_form",
	"loans", "loan_form",
}

func parsePages() (*pages, error) {
	p := &pages{sets: make(map[string]*template.Template)}

	login, err := template.New("login.html").Funcs(funcs).ParseFS(templateFS, "templates/login.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse login template: %w", err)
	}
	p.sets["login"] = login

	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		p.sets[name] = t
	}
	return p, nil
}

// render executes page into a buffer first so a template error never leaves
// a half-written response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, v view) {
	t, ok := s.pages.sets[page]
	if !ok {
		log.Printf("unknown page %q", page)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	v.Nav = nav
	if v.Username == "" {
		v.Username = stateFrom(r.Context()).Username()
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, v); err != nil {
		log.Printf("failed to render %s: %v", page, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}
