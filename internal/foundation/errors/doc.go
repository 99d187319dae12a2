// Package errors classifies the failures sitegen reports.
//
// A ClassifiedError carries a Category (what failed), a Severity (how far the
// failure reaches), structured Fields for logging and an optional Hint telling
// the author how to fix the project. Errors are built fluently:
//
//	err := errors.TranslationError("duplicate translation key").
//		WithContext("key", key).
//		WithContext("path", path).
//		Hint("every key may appear in only one string_table.json").
//		Build()
//
// Warning severity marks conditions the caller may log and continue past,
// such as a missing configuration file; see OnlyWarnings.
package errors
