package errors

// Builder assembles a ClassifiedError.
type Builder struct {
	err ClassifiedError
}

// NewError starts an error of category c with severity error.
func NewError(c Category, message string) *Builder {
	return &Builder{err: ClassifiedError{category: c, severity: SeverityError, message: message}}
}

// WrapError starts an error of category c caused by cause.
func WrapError(cause error, c Category, message string) *Builder {
	return NewError(c, message).WithCause(cause)
}

func (b *Builder) WithCause(err error) *Builder {
	b.err.cause = err
	return b
}

func (b *Builder) WithContext(key string, value any) *Builder {
	b.err.fields = b.err.fields.with(key, value)
	return b
}

func (b *Builder) WithSeverity(s Severity) *Builder {
	b.err.severity = s
	return b
}

func (b *Builder) Fatal() *Builder   { return b.WithSeverity(SeverityFatal) }
func (b *Builder) Warning() *Builder { return b.WithSeverity(SeverityWarning) }

// Hint attaches a remediation shown to the author by the CLI.
func (b *Builder) Hint(hint string) *Builder {
	b.err.hint = hint
	return b
}

// Build returns the error.
func (b *Builder) Build() *ClassifiedError {
	err := b.err
	return &err
}

// ConfigError is an unusable config.json or site.config.json.
func ConfigError(message string) *Builder {
	return NewError(CategoryConfig, message).Fatal()
}

// ValidationError is an invalid argument or setting.
func ValidationError(message string) *Builder {
	return NewError(CategoryValidation, message).Fatal()
}

// NotFoundError is a lookup miss.
func NotFoundError(message string) *Builder {
	return NewError(CategoryNotFound, message)
}

// TranslationError is a broken string table; gathering stops on it.
func TranslationError(message string) *Builder {
	return NewError(CategoryTranslation, message).Fatal()
}

// CatalogError is a catalog that could not be read or written for one language.
func CatalogError(message string) *Builder {
	return NewError(CategoryCatalog, message)
}

// RenderError is a failure to produce output.
func RenderError(message string) *Builder {
	return NewError(CategoryRender, message)
}

// FileSystemError is an I/O failure outside rendering.
func FileSystemError(message string) *Builder {
	return NewError(CategoryFileSystem, message)
}

// HistoryError is a build history database failure.
func HistoryError(message string) *Builder {
	return NewError(CategoryHistory, message)
}

// WatchError is a failure to start the observer or the dev server.
func WatchError(message string) *Builder {
	return NewError(CategoryWatch, message).Fatal()
}

// InternalError is a bug.
func InternalError(message string) *Builder {
	return NewError(CategoryInternal, message).Fatal()
}
