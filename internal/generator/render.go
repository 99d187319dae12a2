package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/fsutil"
	"git.home.luguber.info/inful/sitegen/internal/i18n"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/sitemap"
)

// ContextFile is the optional per-element JSON context.
const ContextFile = "context.json"

// Render context keys set by the generator.
const (
	KeySiteMap     = "_SITE_MAP"
	KeyConfig      = "_CONFIG"
	KeyLang        = "_LANG"
	KeyDate        = "_DATE"
	KeyDateCreated = "_DATE_CREATED"
	KeyElement     = "_ELEMENT"
)

// pass renders every element of the site map in one language.
type pass struct {
	gen    *Generator
	site   *sitemap.SiteMap
	store  *i18n.Store
	base   *baseSet
	lang   string
	first  bool
	report *Report

	mu sync.Mutex // guards report
}

// baseContext layers the global values, the flattened catalog and the
// per-language values. Every task receives its own copy.
func (p *pass) baseContext() map[string]any {
	ctx := map[string]any{
		KeySiteMap: p.site,
		KeyConfig:  p.gen.cfg,
	}
	for key, text := range p.store.Entries(p.lang) {
		ctx[key] = text
	}
	ctx[KeyLang] = p.lang
	ctx[KeyDate] = i18n.LongDate(p.gen.today(), p.lang)
	return ctx
}

func (p *pass) render(ctx context.Context) error {
	base := p.baseContext()
	elements := p.site.Elements()

	workers := p.gen.cfg.Workers()
	if workers > len(elements) {
		workers = len(elements)
	}

	tasks := make(chan sitemap.Element)
	var wg sync.WaitGroup
	worker := func() {
		defer wg.Done()
		for el := range tasks {
			if ctx.Err() != nil {
				continue
			}
			p.runTask(ctx, maps.Clone(base), el)
		}
	}
	wg.Add(workers)
	for range workers {
		go worker()
	}

	var canceled error
	for _, el := range elements {
		if err := ctx.Err(); err != nil {
			canceled = err
			break
		}
		tasks <- el
	}
	close(tasks)
	wg.Wait()

	if canceled != nil {
		return canceled
	}
	return ctx.Err()
}

func (p *pass) runTask(ctx context.Context, data map[string]any, el sitemap.Element) {
	log := slog.With(logfields.BuildID(p.report.BuildID), logfields.Element(el.Name), logfields.Kind(el.Kind.String()), logfields.Lang(p.lang))
	log.Debug("Rendering element")

	start := time.Now()
	out, err := p.renderElement(data, el)
	if err == nil {
		err = p.write(el, out)
	}
	dur := time.Since(start)
	p.gen.recorder.ObserveRenderDuration(el.Kind.String(), p.lang, dur)

	if err != nil {
		log.Error("Render failed", logfields.Error(err), logfields.Duration(dur))
		p.gen.recorder.IncRenderResult(el.Kind.String(), p.lang, metrics.ResultFailed)
		p.mu.Lock()
		p.report.Failed = append(p.report.Failed, RenderFailure{Element: el.Name, Kind: el.Kind, Lang: p.lang, Err: err})
		p.mu.Unlock()
		p.gen.recordRender(ctx, p.report.BuildID, el, p.lang, dur, err)
		return
	}

	log.Info("Rendered element", logfields.Duration(dur))
	p.gen.recorder.IncRenderResult(el.Kind.String(), p.lang, metrics.ResultSuccess)
	p.mu.Lock()
	p.report.Rendered++
	p.mu.Unlock()
	p.gen.recordRender(ctx, p.report.BuildID, el, p.lang, dur, nil)
}

// renderElement merges the element layers into data and executes the
// element template.
func (p *pass) renderElement(data map[string]any, el sitemap.Element) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during render: %v", r)
		}
	}()

	dir := filepath.Join(p.gen.cfg.Root, filepath.FromSlash(el.SourceDir()))
	source, err := os.ReadFile(filepath.Join(dir, el.Kind.TemplateFile()))
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}

	if el.IsPost() {
		data[KeyDateCreated] = i18n.LongDate(el.Date, p.lang)
	}

	extra, err := readContext(filepath.Join(dir, ContextFile))
	if err != nil {
		return nil, err
	}
	maps.Copy(data, extra)
	data[KeyElement] = el

	set, err := p.base.clone()
	if err != nil {
		return nil, fmt.Errorf("clone shared templates: %w", err)
	}
	tmpl, err := set.Funcs(p.funcs(el)).New(el.SourceDir()).Parse(string(source))
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// funcs binds the template helpers to this pass and the element being rendered.
func (p *pass) funcs(current sitemap.Element) template.FuncMap {
	return template.FuncMap{
		"url":      func(el sitemap.Element) string { return el.URL(p.lang) },
		"lang_url": func(el sitemap.Element, lang string) string { return el.URL(lang) },
		"element":  p.site.Get,
		"element_name": func(el sitemap.Element) string {
			return p.store.Text(el.Name, p.lang)
		},
		"t": func(key string) string { return p.store.Text(key, p.lang) },
		"t_html": func(key string) template.HTML {
			return template.HTML(p.store.Text(key, p.lang)) //nolint:gosec // catalog texts are site-authored markup
		},
		"safe": func(s string) template.HTML {
			return template.HTML(s) //nolint:gosec // explicit opt-out of escaping
		},
		"is_active": func(el sitemap.Element) bool {
			return el.Name == current.Name && el.Kind == current.Kind
		},
		"markdown":  p.gen.markdown.Render,
		"long_date": func(t time.Time) string { return i18n.LongDate(t, p.lang) },
	}
}

func readContext(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read context: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ContextFile, err)
	}
	return out, nil
}

func (p *pass) write(el sitemap.Element, out []byte) error {
	target := filepath.Join(p.gen.cfg.Site.OutputPath, p.lang, el.Kind.Dir(), el.Name+".html")
	if err := fsutil.WriteFileAtomic(target, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if p.first && el.Name == p.gen.cfg.Site.IndexPage {
		index := filepath.Join(p.gen.cfg.Site.OutputPath, "index.html")
		if err := fsutil.WriteFileAtomic(index, out, 0o644); err != nil {
			return fmt.Errorf("write index mirror: %w", err)
		}
		p.mu.Lock()
		p.report.IndexWritten = true
		p.mu.Unlock()
		slog.Info("Wrote site index", logfields.Path(index), logfields.Lang(p.lang))
	}
	return nil
}
