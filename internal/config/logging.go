package config

import (
	"log/slog"
	"strings"
)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// lookup matches the level case-insensitively. Empty means info.
func (l LogLevel) lookup() (slog.Level, bool) {
	key := strings.ToLower(strings.TrimSpace(string(l)))
	if key == "" {
		return slog.LevelInfo, true
	}
	level, ok := logLevels[key]
	return level, ok
}

// Slog maps the level onto slog; unknown values mean info.
func (l LogLevel) Slog() slog.Level {
	level, _ := l.lookup()
	return level
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

// lookup matches the format case-insensitively. Empty means text.
func (f LogFormat) lookup() (LogFormat, bool) {
	switch key := LogFormat(strings.ToLower(strings.TrimSpace(string(f)))); key {
	case "":
		return LogFormatText, true
	case LogFormatJSON, LogFormatText:
		return key, true
	default:
		return "", false
	}
}

// IsJSON reports whether structured JSON output was requested.
func (f LogFormat) IsJSON() bool {
	format, _ := f.lookup()
	return format == LogFormatJSON
}
