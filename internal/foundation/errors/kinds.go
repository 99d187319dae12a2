package errors

import "maps"

// Category says which part of a run failed.
type Category string

const (
	CategoryConfig     Category = "config"
	CategoryValidation Category = "validation"
	CategoryNotFound   Category = "not_found"

	// String tables (gather) and per-language catalogs.
	CategoryTranslation Category = "translation"
	CategoryCatalog     Category = "catalog"

	CategoryRender     Category = "render"
	CategoryFileSystem Category = "filesystem"
	CategoryHistory    Category = "history"

	// Observer and dev server setup.
	CategoryWatch    Category = "watch"
	CategoryInternal Category = "internal"
)

// Severity says how far a failure reaches.
type Severity string

const (
	SeverityFatal   Severity = "fatal"   // the command cannot continue
	SeverityError   Severity = "error"   // the current operation failed
	SeverityWarning Severity = "warning" // degraded, the caller may go on
)

// Fields is structured context attached to an error, logged as attributes.
type Fields map[string]any

// String returns the value of key if it is a string.
func (f Fields) String(key string) (string, bool) {
	s, ok := f[key].(string)
	return s, ok
}

func (f Fields) with(key string, value any) Fields {
	out := make(Fields, len(f)+1)
	maps.Copy(out, f)
	out[key] = value
	return out
}
