package errors

import (
	stderrors "errors"
	"fmt"
)

// ClassifiedError is an error with a category, a severity and context.
type ClassifiedError struct {
	category Category
	severity Severity
	message  string
	hint     string
	cause    error
	fields   Fields
}

func (e *ClassifiedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.category, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.category, e.message)
}

func (e *ClassifiedError) Unwrap() error { return e.cause }

func (e *ClassifiedError) Category() Category { return e.category }
func (e *ClassifiedError) Severity() Severity { return e.severity }
func (e *ClassifiedError) Message() string    { return e.message }
func (e *ClassifiedError) Cause() error       { return e.cause }

// Hint is a remediation for the author, or "".
func (e *ClassifiedError) Hint() string { return e.hint }

// Fields returns the structured context. Callers must not modify it.
func (e *ClassifiedError) Fields() Fields { return e.fields }

// WithContext returns a copy of e with key set.
func (e *ClassifiedError) WithContext(key string, value any) *ClassifiedError {
	out := *e
	out.fields = e.fields.with(key, value)
	return &out
}

// Is matches a ClassifiedError with the same category and message, so
// package-level sentinels work with errors.Is.
func (e *ClassifiedError) Is(target error) bool {
	other, ok := target.(*ClassifiedError)
	return ok && e.category == other.category && e.message == other.message
}

// AsClassified finds the first ClassifiedError in err's chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified, true
	}
	return nil, false
}

// IsClassified reports whether err's chain holds a ClassifiedError.
func IsClassified(err error) bool {
	_, ok := AsClassified(err)
	return ok
}

// HasCategory reports whether the first ClassifiedError in err's chain has category c.
func HasCategory(err error, c Category) bool {
	classified, ok := AsClassified(err)
	return ok && classified.category == c
}

// HasSeverity reports whether the first ClassifiedError in err's chain has severity s.
func HasSeverity(err error, s Severity) bool {
	classified, ok := AsClassified(err)
	return ok && classified.severity == s
}

// GetCategory returns the category of err, or CategoryInternal for unclassified errors.
func GetCategory(err error) Category {
	if classified, ok := AsClassified(err); ok {
		return classified.category
	}
	return CategoryInternal
}

// GetSeverity returns the severity of err, or SeverityError for unclassified errors.
func GetSeverity(err error) Severity {
	if classified, ok := AsClassified(err); ok {
		return classified.severity
	}
	return SeverityError
}

// OnlyWarnings reports whether err is non-nil and every leaf of it (following
// errors.Join) is a warning.
func OnlyWarnings(err error) bool {
	if err == nil {
		return false
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs := joined.Unwrap()
		for _, e := range errs {
			if !OnlyWarnings(e) {
				return false
			}
		}
		return len(errs) > 0
	}
	return HasSeverity(err, SeverityWarning)
}
