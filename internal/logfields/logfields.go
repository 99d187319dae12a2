package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyLang       = "lang"
	KeyElement    = "element"
	KeyKind       = "kind"
	KeyPath       = "path"
	KeyBuildID    = "build_id"
	KeyBuild      = "build_number"
	KeyPort       = "port"
	KeyOp         = "op"
	KeyDurationMS = "duration_ms"
	KeyCount      = "count"
	KeyWorkers    = "workers"
	KeyCause      = "cause"
	KeyKey        = "key"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyRemoteAddr = "remote_addr"
	KeyURL        = "url"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Lang(l string) slog.Attr          { return slog.String(KeyLang, l) }
func Element(name string) slog.Attr    { return slog.String(KeyElement, name) }
func Kind(k string) slog.Attr          { return slog.String(KeyKind, k) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func BuildNumber(n int) slog.Attr      { return slog.Int(KeyBuild, n) }
func Port(p int) slog.Attr             { return slog.Int(KeyPort, p) }
func Op(op string) slog.Attr           { return slog.String(KeyOp, op) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Workers(n int) slog.Attr          { return slog.Int(KeyWorkers, n) }
func Cause(c string) slog.Attr         { return slog.String(KeyCause, c) }
func Key(k string) slog.Attr           { return slog.String(KeyKey, k) }
func Method(m string) slog.Attr        { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func RemoteAddr(addr string) slog.Attr { return slog.String(KeyRemoteAddr, addr) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }

// Duration reports d in fractional milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
