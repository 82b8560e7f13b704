package view

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/Jishaan-07/Employee-managment/internal/contacts"
	"github.com/Jishaan-07/Employee-managment/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CSRFToken   string
	CurrentPath string
	Data        any
}

// NewEngine parses the embedded templates.
func NewEngine() (*Engine, error) {
	funcMap := template.FuncMap{
		"statusClass": func(s contacts.Status) string {
			if s == contacts.StatusInactive {
				return "status-inactive"
			}
			return "status-active"
		},
		"selected": func(a, b contacts.Status) bool {
			return a == b
		},
		// pathEscape keeps ids with reserved characters inside one path segment.
		"pathEscape": url.PathEscape,
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/layouts/*.html", "templates/partials/*.html", "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template with TemplateData.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return e.templates.ExecuteTemplate(w, name, data)
}
