package preview

import (
	"log/slog"
	"net/http"
	"time"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// instrument logs every request at debug level and turns a handler panic
// into a 500 so one bad request cannot take the dev server down.
func instrument(logger *slog.Logger, adapter *ferrors.HTTPErrorAdapter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &recordingWriter{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if p := recover(); p != nil {
				logger.Error("Dev server handler panic",
					slog.Any("panic", p),
					logfields.Method(r.Method),
					logfields.Path(r.URL.Path))
				adapter.WriteErrorResponse(rec, r, ferrors.InternalError("handler panic").
					WithContext("path", r.URL.Path).
					Build())
			}
			logger.Debug("Served",
				logfields.Method(r.Method),
				logfields.Path(r.URL.Path),
				logfields.Status(rec.status),
				slog.Int64("bytes", rec.bytes),
				logfields.Duration(time.Since(start)),
				logfields.RemoteAddr(r.RemoteAddr))
		}()
		next.ServeHTTP(rec, r)
	})
}

// noCache keeps browsers from holding on to a previous build.
func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Cache-Control", "no-store, no-cache, must-revalidate")
		h.Set("Pragma", "no-cache")
		h.Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

type recordingWriter struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (w *recordingWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += int64(n)
	return n, err
}
