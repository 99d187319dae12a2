package config

import (
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// GeneratorFile holds engine settings (threads, dev server, watch tuning).
	GeneratorFile = "config.json"
	// SiteFile holds the site description (languages, pages, posts, paths).
	SiteFile = "site.config.json"
)

// Config is the immutable configuration value for one process. It is built
// once by Load, optionally adjusted with WithOverrides, and then only read.
type Config struct {
	// Root is the absolute project root every relative path resolves against.
	Root      string
	Generator GeneratorConfig
	Site      SiteConfig
	Build     BuildInfo
}

// GeneratorConfig mirrors config.json.
type GeneratorConfig struct {
	UseThreads       bool      `yaml:"use_threads"`
	ThreadCount      int       `yaml:"thread_count"`
	LiveServerPort   int       `yaml:"live_server_port"`
	DebounceWindow   Duration  `yaml:"debounce_window"`
	DebounceMaxDelay Duration  `yaml:"debounce_max_delay"`
	RebuildInterval  Duration  `yaml:"rebuild_interval"`
	MetricsTextfile  string    `yaml:"metrics_textfile,omitempty"`
	HistoryDB        string    `yaml:"history_db,omitempty"`
	LogLevel         LogLevel  `yaml:"log_level,omitempty"`
	LogFormat        LogFormat `yaml:"log_format,omitempty"`
}

// SiteConfig mirrors site.config.json.
type SiteConfig struct {
	Name            string   `yaml:"site_name"`
	URL             string   `yaml:"site_url"`
	Version         string   `yaml:"version"`
	Description     string   `yaml:"site_description"`
	Author          string   `yaml:"site_author"`
	Keywords        Keywords `yaml:"site_keywords"`
	AuthorEmail     string   `yaml:"site_author_email"`
	IndexPage       string   `yaml:"site_index_page"`
	BlogPage        string   `yaml:"site_blog_page"`
	Pages           []string `yaml:"site_pages"`
	Posts           []string `yaml:"site_posts"`
	StaticPath      string   `yaml:"site_static_path"`
	OutputPath      string   `yaml:"site_output_path"`
	Languages       []string `yaml:"site_languages"`
	TranslationPath string   `yaml:"site_translation_path"`
}

// BuildInfo is per-invocation data resolved at startup and exposed to templates.
type BuildInfo struct {
	Number int
	Commit string
	Branch string
}

// Overrides carries command line values that take precedence over the files.
// Nil pointers and empty slices leave the loaded value untouched.
type Overrides struct {
	UseThreads     *bool
	ThreadCount    *int
	LiveServerPort *int
	OutputPath     string
	Languages      []string
}

// Workers returns the size of each per-language render pool. Disabled threads
// or a non-positive count collapse to a single worker.
func (c *Config) Workers() int {
	if !c.Generator.UseThreads || c.Generator.ThreadCount <= 0 {
		return 1
	}
	return c.Generator.ThreadCount
}

// DefaultLanguage is the first configured language; its index page is mirrored to the output root.
func (c *Config) DefaultLanguage() string {
	if len(c.Site.Languages) == 0 {
		return ""
	}
	return c.Site.Languages[0]
}

// TemplatesDir holds engine-level templates shared by every element.
func (c *Config) TemplatesDir() string { return filepath.Join(c.Root, "templates") }

// PagesDir holds one directory per page.
func (c *Config) PagesDir() string { return filepath.Join(c.Root, "pages") }

// PostsDir holds one directory per post.
func (c *Config) PostsDir() string { return filepath.Join(c.Root, "posts") }

// CatalogPath returns the catalog file for lang.
func (c *Config) CatalogPath(lang string) string {
	return filepath.Join(c.Site.TranslationPath, "texts_"+lang+".po")
}

// BuildInfoPath is the build counter state file.
func (c *Config) BuildInfoPath() string { return filepath.Join(c.Root, ".buildinfo") }

// WithOverrides returns a copy of c with o applied. c itself is not modified.
func (c *Config) WithOverrides(o Overrides) *Config {
	out := c.clone()
	if o.UseThreads != nil {
		out.Generator.UseThreads = *o.UseThreads
	}
	if o.ThreadCount != nil {
		out.Generator.ThreadCount = *o.ThreadCount
	}
	if o.LiveServerPort != nil {
		out.Generator.LiveServerPort = *o.LiveServerPort
	}
	if o.OutputPath != "" {
		out.Site.OutputPath = out.resolve(o.OutputPath)
	}
	if len(o.Languages) > 0 {
		out.Site.Languages = slices.Clone(o.Languages)
	}
	return out
}

// WithBuild returns a copy of c carrying b.
func (c *Config) WithBuild(b BuildInfo) *Config {
	out := c.clone()
	out.Build = b
	return out
}

func (c *Config) clone() *Config {
	out := *c
	out.Site.Keywords = slices.Clone(c.Site.Keywords)
	out.Site.Pages = slices.Clone(c.Site.Pages)
	out.Site.Posts = slices.Clone(c.Site.Posts)
	out.Site.Languages = slices.Clone(c.Site.Languages)
	return &out
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

func (c *Config) resolvePaths() {
	c.Site.OutputPath = c.resolve(c.Site.OutputPath)
	c.Site.StaticPath = c.resolve(c.Site.StaticPath)
	c.Site.TranslationPath = c.resolve(c.Site.TranslationPath)
	c.Generator.HistoryDB = c.resolve(c.Generator.HistoryDB)
	c.Generator.MetricsTextfile = c.resolve(c.Generator.MetricsTextfile)
}

// Duration is a time.Duration written as a Go duration string ("300ms", "1h").
// A bare integer is read as milliseconds.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "0" {
		*d = 0
		return nil
	}
	if ms, err := strconv.Atoi(raw); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Keywords accepts either a list or a single comma separated string.
type Keywords []string

func (k *Keywords) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*k = list
		return nil
	}
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	var out Keywords
	for part := range strings.SplitSeq(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*k = out
	return nil
}

// String joins the keywords for a meta tag.
func (k Keywords) String() string { return strings.Join(k, ", ") }
