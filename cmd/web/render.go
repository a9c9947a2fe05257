package web

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/Masterminds/sprig/v3"
	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/RobBrazier/audiodrop/internal/market"
	"github.com/RobBrazier/audiodrop/internal/model"
	"github.com/RobBrazier/audiodrop/internal/session"
)

const (
	cardClass      = "block overflow-hidden rounded-lg bg-white shadow ring-0 dark:bg-zinc-800"
	highlightClass = "animate-highlight-once ring ring-indigo-500 ring-offset-1"
)

// Page is the data shared by every full page render.
type Page struct {
	Title       string
	Description string
	Theme       model.Theme
	Session     session.Session
}

type ExplorePage struct {
	Page
	Highlight time.Duration
	market.Explore
}

type OwnedPage struct {
	Page
	Id        string
	HasAccess bool
}

type Listings struct {
	market.Explore
	Highlight time.Duration
}

type Renderer struct {
	pages    map[string]*template.Template
	partials *template.Template
}

func funcs() template.FuncMap {
	f := sprig.HtmlFuncMap()
	f["cardClass"] = func(id, highlighted string) string {
		if highlighted != "" && id == highlighted {
			return twmerge.Merge(cardClass, highlightClass)
		}
		return cardClass
	}
	f["millis"] = func(d time.Duration) int64 {
		return d.Milliseconds()
	}
	return f
}

func NewRenderer() (*Renderer, error) {
	base, err := template.New("base").Funcs(funcs()).ParseFS(Templates, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, err
	}
	pageFiles, err := fs.Glob(Templates, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: map[string]*template.Template{}, partials: base}
	for _, file := range pageFiles {
		page, err := template.Must(base.Clone()).ParseFS(Templates, file)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", file, err)
		}
		r.pages[strings.TrimSuffix(path.Base(file), ".html")] = page
	}
	return r, nil
}

func MustRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

// Page renders a full page through the layout.
func (r *Renderer) Page(w io.Writer, name string, data any) error {
	page, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return page.ExecuteTemplate(w, "layout", data)
}

// Partial renders a single named block, for htmx swaps.
func (r *Renderer) Partial(w io.Writer, name string, data any) error {
	return r.partials.ExecuteTemplate(w, name, data)
}
