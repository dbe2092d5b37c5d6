// Package view renders the HTML pages of the task frontend.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"

	"github.com/hiroki-koketsu/go-task-frontend/internal/model"
	"github.com/yuin/goldmark"
)

// Page names accepted by Renderer.Render.
const (
	PageTaskList   = "tasks"
	PageTaskForm   = "tasks-new"
	PageTaskDetail = "tasks-id"
)

//go:embed templates/*.html
var templateFS embed.FS

// TaskListView is the data for the task list page.
// Tasks is nil when the list could not be loaded.
type TaskListView struct {
	Tasks []model.Task
}

// TaskFormView is the data for the task creation form.
type TaskFormView struct {
	Errors []model.ValidationError
	Task   *model.TaskInput
}

// TaskDetailView is the data for the task detail page.
// Task is nil when the task could not be loaded.
type TaskDetailView struct {
	Task    *model.Task
	Success bool
}

// Renderer executes the embedded page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the layout and every page template.
func NewRenderer() (*Renderer, error) {
	layout, err := template.New("layout.html").Funcs(template.FuncMap{
		"taskPath": func(id model.TaskID) string { return TaskPath(id.String()) },
		"markdown": renderMarkdown,
	}).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, page := range []string{PageTaskList, PageTaskForm, PageTaskDetail} {
		base, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout for %s: %w", page, err)
		}
		tmpl, err := base.ParseFS(templateFS, "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", page, err)
		}
		r.pages[page] = tmpl
	}

	return r, nil
}

// Render writes the named page to w.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

// TaskPath returns the detail page path for a task id.
func TaskPath(id string) string {
	return "/tasks/" + url.PathEscape(id)
}

// renderMarkdown converts a task description to HTML. Raw HTML in the
// source is dropped by goldmark's default renderer.
func renderMarkdown(s string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(s), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(s))
	}
	return template.HTML(buf.String())
}
