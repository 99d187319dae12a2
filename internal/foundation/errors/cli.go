package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// Exit codes of the sitegen binary.
const (
	ExitGeneric     = 1
	ExitUsage       = 2
	ExitConfig      = 7
	ExitTranslation = 9
	ExitInternal    = 10
	ExitBuild       = 11
	ExitWatch       = 12
)

// CLIErrorAdapter reports a command's error on stderr and exits.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	stderr  io.Writer
	exit    func(int)
}

// NewCLIErrorAdapter returns an adapter writing to os.Stderr. A nil logger
// uses slog.Default().
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger, stderr: os.Stderr, exit: os.Exit}
}

// ExitCodeFor maps err to the process exit code.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	switch GetCategory(err) {
	case CategoryValidation:
		return ExitUsage
	case CategoryConfig:
		return ExitConfig
	case CategoryTranslation, CategoryCatalog:
		return ExitTranslation
	case CategoryRender, CategoryFileSystem:
		return ExitBuild
	case CategoryWatch:
		return ExitWatch
	case CategoryInternal:
		if IsClassified(err) {
			return ExitInternal
		}
	}
	return ExitGeneric
}

// FormatError renders err for the terminal. Verbose mode prints the whole
// chain; otherwise the message, the offending path and the hint.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	classified, ok := AsClassified(err)
	if !ok {
		return "Error: " + err.Error()
	}
	if a.verbose {
		return "Error: " + err.Error() + a.hintLine(classified)
	}
	if classified.category == CategoryInternal {
		return "Internal error (run with -v for details)"
	}
	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(classified.message)
	if path, ok := classified.fields.String("path"); ok {
		fmt.Fprintf(&b, " (%s)", path)
	}
	b.WriteString(a.hintLine(classified))
	return b.String()
}

func (a *CLIErrorAdapter) hintLine(e *ClassifiedError) string {
	if e.hint == "" {
		return ""
	}
	return "\nHint: " + e.hint
}

// HandleError logs fatal errors, prints err and exits with its code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	if a.verbose || GetSeverity(err) == SeverityFatal {
		a.log(err)
	}
	_, _ = fmt.Fprintln(a.stderr, a.FormatError(err))
	a.exit(a.ExitCodeFor(err))
}

func (a *CLIErrorAdapter) log(err error) {
	classified, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Command failed", slog.String("error", err.Error()))
		return
	}
	keys := make([]string, 0, len(classified.fields))
	for k := range classified.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := []any{slog.String("category", string(classified.category))}
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, classified.fields[k]))
	}
	if classified.cause != nil {
		attrs = append(attrs, slog.String("cause", classified.cause.Error()))
	}
	a.logger.Log(context.Background(), levelFor(classified.severity), classified.message, attrs...)
}

func levelFor(s Severity) slog.Level {
	if s == SeverityWarning {
		return slog.LevelWarn
	}
	return slog.LevelError
}
