package generator

import (
	"errors"
	"html/template"
	"path/filepath"
	"sync"
	"time"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/sitemap"
)

// baseSet is the parsed set of shared templates for one pass. Each render
// task clones it and parses its own element template into the clone.
type baseSet struct {
	mu   sync.Mutex
	tmpl *template.Template
}

// placeholderFuncs declares every helper so shared templates parse; each task
// replaces them with versions bound to its language and element.
func placeholderFuncs() template.FuncMap {
	unbound := errors.New("template helper used outside a render")
	return template.FuncMap{
		"url":          func(sitemap.Element) (string, error) { return "", unbound },
		"lang_url":     func(sitemap.Element, string) (string, error) { return "", unbound },
		"element":      func(string) (sitemap.Element, error) { return sitemap.Element{}, unbound },
		"element_name": func(sitemap.Element) (string, error) { return "", unbound },
		"t":            func(string) (string, error) { return "", unbound },
		"t_html":       func(string) (template.HTML, error) { return "", unbound },
		"safe":         func(string) (template.HTML, error) { return "", unbound },
		"is_active":    func(sitemap.Element) (bool, error) { return false, unbound },
		"markdown":     func(string) (template.HTML, error) { return "", unbound },
		"long_date":    func(time.Time) (string, error) { return "", unbound },
	}
}

func (g *Generator) loadTemplates() (*baseSet, error) {
	root := template.New("").Funcs(placeholderFuncs())

	pattern := filepath.Join(g.cfg.TemplatesDir(), "*.html")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, ferrors.InternalError("invalid template pattern").WithCause(err).Build()
	}
	if len(files) > 0 {
		if root, err = root.ParseFiles(files...); err != nil {
			return nil, ferrors.RenderError("failed to parse shared templates").
				WithCause(err).
				WithContext("path", g.cfg.TemplatesDir()).
				Build()
		}
	}
	return &baseSet{tmpl: root}, nil
}

func (b *baseSet) clone() (*template.Template, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tmpl.Clone()
}
