package generator

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/fsutil"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/sitemap"
)

// PostInfoFile holds the persisted metadata of a post.
const PostInfoFile = ".postinfo.json"

const dateLayout = "2006-01-02"

type postInfo struct {
	Date string `json:"date"`
}

// populate builds a fresh site map from the configured pages and posts.
func (g *Generator) populate() (*sitemap.SiteMap, error) {
	m := sitemap.New()
	for _, name := range g.cfg.Site.Pages {
		m.Add(sitemap.NewPage(name))
	}
	today := g.today()
	for _, name := range g.cfg.Site.Posts {
		date, err := g.postDate(name, today)
		if err != nil {
			return nil, err
		}
		m.Add(sitemap.NewPost(name, date))
	}
	return m, nil
}

// postDate reads the creation date of post name. A post without metadata is
// dated today and its metadata file is written, so the date sticks.
func (g *Generator) postDate(name string, today time.Time) (time.Time, error) {
	path := filepath.Join(g.cfg.PostsDir(), name, PostInfoFile)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var info postInfo
		if jsonErr := json.Unmarshal(data, &info); jsonErr == nil && info.Date != "" {
			date, parseErr := time.ParseInLocation(dateLayout, info.Date, today.Location())
			if parseErr == nil {
				return date, nil
			}
		}
		slog.Warn("Invalid post metadata, dating post today", logfields.Element(name), logfields.Path(path))
		return today, nil
	case !errors.Is(err, os.ErrNotExist):
		return time.Time{}, ferrors.FileSystemError("failed to read post metadata").
			WithCause(err).
			WithContext("path", path).
			Build()
	}

	out, err := json.MarshalIndent(postInfo{Date: today.Format(dateLayout)}, "", "    ")
	if err != nil {
		return time.Time{}, ferrors.InternalError("failed to encode post metadata").WithCause(err).Build()
	}
	if err := fsutil.WriteFileAtomic(path, append(out, '\n'), 0o644); err != nil {
		return time.Time{}, ferrors.FileSystemError("failed to write post metadata").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	slog.Info("Dated new post", logfields.Element(name), slog.String("date", today.Format(dateLayout)))
	return today, nil
}
