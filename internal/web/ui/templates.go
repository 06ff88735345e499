package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// pages maps a page name to its parsed template. Each page is parsed together
// with the base layout so its "content" block fills the layout.
var pages = mustParsePages("home", "login", "signup", "predict", "history")

func mustParsePages(names ...string) map[string]*template.Template {
	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		out[name] = template.Must(template.ParseFS(templateFS,
			"templates/base.gohtml", fmt.Sprintf("templates/%s.gohtml", name)))
	}
	return out
}

// predictionView is one classification result prepared for display.
type predictionView struct {
	PredictedClass string
	ConfidencePct  string
	When           string
	Username       string
}

// viewData feeds the base layout plus the current page's content block.
type viewData struct {
	Title    string
	Theme    string
	LoggedIn bool
	Username string

	Error string
	Note  string

	FormUsername string
	FormEmail    string

	Result  *predictionView
	Records []predictionView
}

func renderPage(w http.ResponseWriter, page string, data *viewData) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return pages[page].ExecuteTemplate(w, "base", data)
}
