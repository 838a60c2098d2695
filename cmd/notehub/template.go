package main

import (
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oliverisaac/notehub/notes"
	"github.com/oliverisaac/notehub/views"
	"github.com/pkg/errors"
)

const excerptLength = 180

var sharedTemplates = []string{"templates/layout.html", "templates/partials.html"}

// Template renders a page by name inside the shared layout.
type Template struct {
	pages map[string]*template.Template
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Local().Format("Jan 2, 2006")
		},
		"formatDateTime": func(t time.Time) string {
			return t.Local().Format("Jan 2, 2006 3:04 PM")
		},
		"isoTime": func(t time.Time) string {
			return t.UTC().Format(time.RFC3339)
		},
		"excerpt": func(s string) string {
			return notes.Excerpt(s, excerptLength)
		},
	}
}

func newTemplate() (*Template, error) {
	base, err := template.New("").Funcs(templateFuncs()).ParseFS(views.FS, sharedTemplates...)
	if err != nil {
		return nil, errors.Wrap(err, "parsing layout templates")
	}

	pageFiles, err := fs.Glob(views.FS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "listing page templates")
	}

	t := &Template{pages: map[string]*template.Template{}}
	for _, file := range pageFiles {
		if isShared(file) {
			continue
		}
		page, err := base.Clone()
		if err != nil {
			return nil, errors.Wrapf(err, "cloning layout for %s", file)
		}
		if _, err := page.ParseFS(views.FS, file); err != nil {
			return nil, errors.Wrapf(err, "parsing %s", file)
		}
		name := strings.TrimSuffix(path.Base(file), ".html")
		t.pages[name] = page
	}
	return t, nil
}

func isShared(file string) bool {
	for _, s := range sharedTemplates {
		if s == file {
			return true
		}
	}
	return false
}

func (t *Template) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	page, ok := t.pages[name]
	if !ok {
		return errors.Errorf("no template named %q", name)
	}
	return page.ExecuteTemplate(w, "layout", data)
}
