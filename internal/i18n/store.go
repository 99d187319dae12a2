package i18n

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/leonelquinteros/gotext"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/i18n/pofile"
)

// catalog holds the resolved text of every plain (context-free) message.
type catalog struct {
	texts map[string]string
	ids   []string
}

// Store is a read-only set of loaded catalogs, one per language. It is safe
// for concurrent use.
type Store struct {
	catalogs map[string]*catalog
}

// Load reads the catalog of every language in langs. pathFor maps a language
// to its catalog file. A language whose catalog does not exist gets an empty
// catalog; unreadable or malformed files fail the load.
func Load(langs []string, pathFor func(lang string) string) (*Store, error) {
	s := &Store{catalogs: make(map[string]*catalog, len(langs))}
	for _, lang := range langs {
		c, err := loadCatalog(pathFor(lang))
		if err != nil {
			return nil, ferrors.CatalogError(fmt.Sprintf("failed to load catalog for %s", lang)).
				WithCause(err).
				WithContext("lang", lang).
				WithContext("path", pathFor(lang)).
				Build()
		}
		s.catalogs[lang] = c
	}
	return s, nil
}

func loadCatalog(path string) (*catalog, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &catalog{texts: map[string]string{}}, nil
	}
	if err != nil {
		return nil, err
	}

	// pofile validates the file and gives the entry order; gotext resolves lookups
	parsed, err := pofile.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	po := gotext.NewPo()
	po.Parse(data)

	translations := po.GetDomain().GetTranslations()
	texts := make(map[string]string, len(translations))
	for id, tr := range translations {
		if id == "" {
			continue
		}
		// Get falls back to the id for an empty msgstr
		texts[id] = tr.Get()
	}
	return &catalog{texts: texts, ids: parsed.IDs()}, nil
}

// Empty returns a store without catalogs, where every lookup returns its key.
func Empty() *Store {
	return &Store{catalogs: map[string]*catalog{}}
}

// Text returns the translation of key in lang, or key itself when there is none.
func (s *Store) Text(key, lang string) string {
	c, ok := s.catalogs[lang]
	if !ok {
		return key
	}
	if text, ok := c.texts[key]; ok {
		return text
	}
	return key
}

// Entries returns every catalog key of lang with its resolved text.
func (s *Store) Entries(lang string) map[string]string {
	c, ok := s.catalogs[lang]
	if !ok {
		return map[string]string{}
	}
	out := make(map[string]string, len(c.ids))
	for _, id := range c.ids {
		if id == "" {
			continue
		}
		out[id] = s.Text(id, lang)
	}
	return out
}

// Languages reports how many catalogs are loaded.
func (s *Store) Languages() int { return len(s.catalogs) }
