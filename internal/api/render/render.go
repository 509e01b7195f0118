// Package render turns page data into HTML through embedded templates.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/todo-render/internal/core/view"
)

// Template names.
const (
	LoginPage      = "login.html"
	ServerSidePage = "todos_ssr.html"
	ClientSidePage = "todos_csr.html"
	ErrorPage      = "error.html"
)

//go:embed templates/*.html
var templateFS embed.FS

// Login is the data of the login page.
type Login struct {
	Email          string
	Error          string
	GoogleClientID string
}

// Todos is the data of both todo pages. List is empty on the client-side
// page; the browser fetches it.
type Todos struct {
	List     view.TodoList
	Alert    string
	ReturnTo string
}

// Error is the data of the error page.
type Error struct {
	Status  int
	Message string
}

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("render: parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render satisfies echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}

var funcMap = template.FuncMap{
	"statusIcon": func(completed bool) string {
		if completed {
			return "✅"
		}
		return "⏳"
	},
	"toggleLabel": func(completed bool) string {
		if completed {
			return "Mark pending"
		}
		return "Mark done"
	},
}
