package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// Load builds the configuration for the project at root.
//
// Both files are optional. A missing file leaves the defaults in place and is
// reported as a warning-severity error next to a usable *Config; callers that
// accept defaults check ferrors.OnlyWarnings(err). Malformed files and invalid
// values are fatal and return a nil *Config.
func Load(root string) (*Config, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, ferrors.ConfigError("resolve project root").WithCause(err).WithContext("path", root).Build()
	}

	loadEnvFiles(absRoot)

	cfg := Defaults(absRoot)
	var warnings []error
	for _, f := range []struct {
		name string
		into any
	}{
		{GeneratorFile, &cfg.Generator},
		{SiteFile, &cfg.Site},
	} {
		missing, err := decodeFile(filepath.Join(absRoot, f.name), f.into)
		if err != nil {
			return nil, err
		}
		if missing != nil {
			warnings = append(warnings, missing)
		}
	}

	cfg.resolvePaths()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, errors.Join(warnings...)
}

// decodeFile decodes path over into. The first return is a warning for a
// missing file; the second is fatal.
func decodeFile(path string, into any) (error, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return ferrors.ConfigError("configuration file not found, using defaults").
			Warning().
			WithContext("path", path).
			Build(), nil
	}
	if err != nil {
		return nil, ferrors.ConfigError("read configuration file").WithCause(err).WithContext("path", path).Build()
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), into); err != nil {
		return nil, ferrors.ConfigError("invalid configuration file").WithCause(err).WithContext("path", path).Build()
	}
	return nil, nil
}

// Validate rejects configurations the generator cannot act on.
func (c *Config) Validate() error {
	if len(c.Site.Languages) == 0 {
		return ferrors.ConfigError("at least one site language is required").
			Hint(`list languages in site_languages, e.g. ["en", "de"]`).
			Build()
	}
	seen := make(map[string]struct{}, len(c.Site.Languages))
	for _, lang := range c.Site.Languages {
		if lang == "" {
			return ferrors.ConfigError("empty site language").Build()
		}
		if _, dup := seen[lang]; dup {
			return ferrors.ConfigError(fmt.Sprintf("duplicate site language %q", lang)).Build()
		}
		seen[lang] = struct{}{}
	}
	if c.Site.OutputPath == "" || filepath.Clean(c.Site.OutputPath) == filepath.Clean(c.Root) {
		return ferrors.ConfigError("site output path must be a subdirectory of the project").
			WithContext("path", c.Site.OutputPath).
			Hint("the watcher ignores the output tree, so it cannot be the project root").
			Build()
	}
	if c.Generator.ThreadCount < 0 {
		return ferrors.ValidationError("thread count must not be negative").Build()
	}
	if _, ok := c.Generator.LogLevel.lookup(); !ok {
		return ferrors.ConfigError("invalid log_level").
			WithContext("value", string(c.Generator.LogLevel)).
			Hint("use one of debug, info, warn, error").
			Build()
	}
	if _, ok := c.Generator.LogFormat.lookup(); !ok {
		return ferrors.ConfigError("invalid log_format").
			WithContext("value", string(c.Generator.LogFormat)).
			Hint("use json or text").
			Build()
	}
	if c.Generator.LiveServerPort < 0 || c.Generator.LiveServerPort > 65535 {
		return ferrors.ValidationError(fmt.Sprintf("invalid live server port %d", c.Generator.LiveServerPort)).Build()
	}
	return nil
}
