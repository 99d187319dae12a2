package i18n

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// StringTableFile is the name of the per-directory source of translatable text.
const StringTableFile = "string_table.json"

// ErrDuplicateKey matches a DuplicateKeyError with errors.Is.
var ErrDuplicateKey = errors.New("duplicate translation key")

// DuplicateKeyError reports a key defined by more than one string table.
// Path is the file in which the second definition was found.
type DuplicateKeyError struct {
	Key       string
	Path      string
	FirstPath string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %q in %s (first defined in %s)", e.Key, e.Path, e.FirstPath)
}

func (e *DuplicateKeyError) Is(target error) bool { return target == ErrDuplicateKey }

type record struct {
	Key   string `json:"KEY"`
	Value string `json:"VALUE"`
}

// Table is the merged, ordered content of every string table in a project.
type Table struct {
	keys    []string
	values  map[string]string
	sources map[string]string
}

func newTable() *Table {
	return &Table{values: map[string]string{}, sources: map[string]string{}}
}

// Keys returns the keys in discovery order.
func (t *Table) Keys() []string { return slices.Clone(t.keys) }

// Value returns the source text of key.
func (t *Table) Value(key string) string { return t.values[key] }

// Source returns the string table, relative to the project root, that defined key.
func (t *Table) Source(key string) string { return t.sources[key] }

// Len returns the number of keys.
func (t *Table) Len() int { return len(t.keys) }

func (t *Table) add(key, value, source string) error {
	if first, dup := t.sources[key]; dup {
		return &DuplicateKeyError{Key: key, Path: source, FirstPath: first}
	}
	t.keys = append(t.keys, key)
	t.values[key] = value
	t.sources[key] = source
	return nil
}

// Gather walks root for string tables and merges them. Directories whose
// absolute path is in skip are not descended into. Files are visited in
// lexical order, so "second" in a duplicate key report is deterministic.
func Gather(ctx context.Context, root string, skip []string) (*Table, error) {
	table := newTable()
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && slices.Contains(skip, path) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != StringTableFile {
			return nil
		}
		return readStringTable(root, path, table)
	})
	if err != nil {
		var dup *DuplicateKeyError
		if errors.As(err, &dup) {
			return nil, ferrors.TranslationError("duplicate translation key").
				WithCause(err).
				WithContext("key", dup.Key).
				WithContext("path", dup.Path).
				Hint(fmt.Sprintf("%q is already defined in %s; rename one of them", dup.Key, dup.FirstPath)).
				Build()
		}
		var classified *ferrors.ClassifiedError
		if errors.As(err, &classified) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, ferrors.FileSystemError("failed to scan for string tables").WithCause(err).WithContext("path", root).Build()
	}
	return table, nil
}

func readStringTable(root, path string, table *Table) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return ferrors.TranslationError("invalid string table").WithCause(err).WithContext("path", path).Build()
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	for _, r := range records {
		if r.Key == "" {
			return ferrors.TranslationError("string table record without KEY").WithContext("path", path).Build()
		}
		if err := table.add(r.Key, r.Value, filepath.ToSlash(rel)); err != nil {
			return err
		}
	}
	return nil
}
