package errors

import (
	"log/slog"
	"net/http"
)

// HTTPErrorAdapter turns errors raised while serving the output tree into
// plain-text responses.
type HTTPErrorAdapter struct {
	logger *slog.Logger
}

// NewHTTPErrorAdapter returns an adapter; a nil logger uses slog.Default().
func NewHTTPErrorAdapter(logger *slog.Logger) *HTTPErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPErrorAdapter{logger: logger}
}

// StatusCodeFor maps err to an HTTP status.
func (a *HTTPErrorAdapter) StatusCodeFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case HasCategory(err, CategoryNotFound):
		return http.StatusNotFound
	case HasCategory(err, CategoryValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteErrorResponse writes the status text for err and logs it.
func (a *HTTPErrorAdapter) WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := a.StatusCodeFor(err)
	if err == nil {
		w.WriteHeader(status)
		return
	}
	http.Error(w, http.StatusText(status), status)
	a.logger.Log(r.Context(), levelFor(GetSeverity(err)), "Request failed",
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.String("error", err.Error()))
}
