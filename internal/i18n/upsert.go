package i18n

import (
	"errors"
	"fmt"
	"os"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/fsutil"
	"git.home.luguber.info/inful/sitegen/internal/i18n/pofile"
)

// Upsert appends every key of table missing from the catalog at path, using
// the source text as the initial translation. Existing entries are never
// changed, removed or reordered. The file is only rewritten when something
// was added; it returns the number of new entries.
func Upsert(path, project, lang string, table *Table) (int, error) {
	catalog, err := pofile.ParseFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		catalog = pofile.New(project, lang)
	case err != nil:
		return 0, catalogIOError("failed to read catalog", lang, path, err)
	}

	added := 0
	for _, key := range table.Keys() {
		if catalog.Lookup(key) != nil {
			continue
		}
		e := catalog.Append(key, table.Value(key))
		if src := table.Source(key); src != "" {
			e.References = []string{src}
		}
		added++
	}

	if added == 0 {
		if _, statErr := os.Stat(path); statErr == nil {
			return 0, nil
		}
	}

	data, err := catalog.Bytes()
	if err != nil {
		return 0, catalogIOError("failed to encode catalog", lang, path, err)
	}
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return 0, catalogIOError("failed to save catalog", lang, path, err)
	}
	return added, nil
}

// UpsertAll runs Upsert for every language. A failure for one language does
// not stop the others; all failures are returned joined.
func UpsertAll(langs []string, pathFor func(lang string) string, project string, table *Table) (map[string]int, error) {
	added := make(map[string]int, len(langs))
	var errs []error
	for _, lang := range langs {
		n, err := Upsert(pathFor(lang), project, lang, table)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		added[lang] = n
	}
	return added, errors.Join(errs...)
}

func catalogIOError(msg, lang, path string, cause error) error {
	return ferrors.CatalogError(fmt.Sprintf("%s for %s", msg, lang)).
		WithCause(cause).
		WithContext("lang", lang).
		WithContext("path", path).
		Build()
}
