// Package i18n holds the translation subsystem: per-language catalog lookup,
// the string table gatherer that feeds the catalogs, and localized dates.
//
// Catalogs are gettext PO files named texts_<lang>.po. Lookup never fails: a
// key without a translation renders as the key itself.
package i18n
