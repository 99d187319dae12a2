package commands

import (
	"errors"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitegen/internal/config"
	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// Global is passed to every subcommand's Run.
type Global struct{}

// CLI definition & global flags.
type CLI struct {
	Root    string           `short:"r" help:"Project root directory" default:"." type:"existingdir"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	UseThreads     *bool    `name:"use-threads" help:"Render each language with a worker pool (overrides use_threads)"`
	ThreadCount    *int     `name:"thread-count" help:"Worker pool size (overrides thread_count)"`
	SiteOutputPath string   `name:"site-output-path" help:"Output directory (overrides site_output_path)"`
	SiteLanguages  []string `name:"site-languages" sep:"," help:"Comma separated languages (overrides site_languages)"`

	Build   BuildCmd   `cmd:"" default:"1" help:"Generate the site once (default command)"`
	Gather  GatherCmd  `cmd:"" help:"Collect string tables into the language catalogs"`
	Watch   WatchCmd   `cmd:"" help:"Serve the output and regenerate on every change"`
	Init    InitCmd    `cmd:"" help:"Write example configuration files"`
	History HistoryCmd `cmd:"" help:"List recent builds from the history database"`
}

// AfterApply runs after flag parsing; it installs a default logger until the
// configuration has been read.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// overrides collects the command line values that take precedence over the files.
func (c *CLI) overrides() config.Overrides {
	return config.Overrides{
		UseThreads:  c.UseThreads,
		ThreadCount: c.ThreadCount,
		OutputPath:  c.SiteOutputPath,
		Languages:   c.SiteLanguages,
	}
}

// LoadConfig reads the project configuration, applies the command line
// overrides and reconfigures logging from it. Missing configuration files
// are logged and the defaults are used.
func (c *CLI) LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Root)
	if err != nil {
		if cfg == nil || !ferrors.OnlyWarnings(err) {
			return nil, err
		}
		for _, w := range flatten(err) {
			attrs := []any{}
			if classified, ok := ferrors.AsClassified(w); ok {
				if path, ok := classified.Fields().String("path"); ok {
					attrs = append(attrs, logfields.Path(path))
				}
				slog.Warn(classified.Message(), attrs...)
				continue
			}
			slog.Warn(w.Error())
		}
	}

	cfg = cfg.WithOverrides(c.overrides())
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c.configureLogging(cfg)
	return cfg, nil
}

func (c *CLI) configureLogging(cfg *config.Config) {
	level := cfg.Generator.LogLevel.Slog()
	if c.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.Generator.LogFormat.IsJSON() {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func flatten(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	var classified *ferrors.ClassifiedError
	if errors.As(err, &classified) {
		return []error{classified}
	}
	return []error{err}
}
