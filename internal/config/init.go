package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// Init writes example config.json and site.config.json files into root.
// Existing files are left alone unless force is set.
func Init(root string, force bool) ([]string, error) {
	examples := []struct {
		name string
		body map[string]any
	}{
		{GeneratorFile, map[string]any{
			"use_threads":        true,
			"thread_count":       defaultThreadCount,
			"live_server_port":   defaultLiveServerPort,
			"debounce_window":    defaultDebounceWindow.String(),
			"debounce_max_delay": defaultDebounceMaxWait.String(),
			"rebuild_interval":   "0",
			"log_level":          string(LogLevelInfo),
			"log_format":         string(LogFormatText),
		}},
		{SiteFile, map[string]any{
			"site_name":             "My Site",
			"site_url":              "https://example.com",
			"version":               "1.0.0",
			"site_description":      "A multilingual static site",
			"site_author":           "${USER}",
			"site_keywords":         []string{"site", "blog"},
			"site_author_email":     "author@example.com",
			"site_index_page":       "index",
			"site_blog_page":        "blog",
			"site_pages":            []string{"index", "blog"},
			"site_posts":            []string{"hello-world"},
			"site_static_path":      "static",
			"site_output_path":      "site",
			"site_languages":        []string{"en", "de"},
			"site_translation_path": "translations",
		}},
	}

	for _, ex := range examples {
		path := filepath.Join(root, ex.name)
		if _, err := os.Stat(path); err == nil && !force {
			return nil, ferrors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", path)).
				WithContext("path", path).
				Build()
		}
	}

	written := make([]string, 0, len(examples))
	for _, ex := range examples {
		path := filepath.Join(root, ex.name)
		data, err := json.MarshalIndent(ex.body, "", "    ")
		if err != nil {
			return written, ferrors.InternalError("failed to encode example configuration").WithCause(err).Build()
		}
		if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
			return written, ferrors.FileSystemError("failed to write example configuration").
				WithCause(err).
				WithContext("path", path).
				Build()
		}
		written = append(written, path)
	}
	return written, nil
}
