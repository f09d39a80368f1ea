package errors

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/sitemapd/internal/logfields"
)

// HTTPErrorResponse is the JSON body written for failed requests.
type HTTPErrorResponse struct {
	Error     string         `json:"error"`
	Code      string         `json:"code,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Retryable bool           `json:"retryable,omitempty"`
}

// HTTPErrorAdapter writes classified errors as HTTP responses.
type HTTPErrorAdapter struct {
	logger *slog.Logger
}

// NewHTTPErrorAdapter returns an adapter logging to logger, or slog.Default() when nil.
func NewHTTPErrorAdapter(logger *slog.Logger) *HTTPErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPErrorAdapter{logger: logger}
}

// StatusCodeFor maps err to a response status. Unclassified errors are 500.
func (a *HTTPErrorAdapter) StatusCodeFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if c, ok := AsClassified(err); ok {
		return c.Category().HTTPStatus()
	}
	return http.StatusInternalServerError
}

// FormatErrorResponse builds the response body for err.
func (a *HTTPErrorAdapter) FormatErrorResponse(err error) HTTPErrorResponse {
	if err == nil {
		return HTTPErrorResponse{}
	}
	c, ok := AsClassified(err)
	if !ok {
		return HTTPErrorResponse{Error: err.Error()}
	}
	resp := HTTPErrorResponse{
		Error:     c.Message(),
		Code:      string(c.Category()),
		Retryable: c.CanRetry(),
	}
	if len(c.Context()) > 0 {
		resp.Details = c.Context()
	}
	return resp
}

// WriteErrorResponse writes err as JSON and logs it at a level matching its severity.
func (a *HTTPErrorAdapter) WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := a.StatusCodeFor(err)
	if err == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(a.FormatErrorResponse(err)); encErr != nil {
		a.logger.Warn("Failed to encode error response", logfields.Error(encErr))
	}

	level := slog.LevelError
	if c, ok := AsClassified(err); ok {
		switch c.Severity() {
		case SeverityInfo:
			level = slog.LevelInfo
		case SeverityWarning:
			level = slog.LevelWarn
		}
	}
	a.logger.Log(r.Context(), level, err.Error(),
		logfields.Status(status), logfields.Method(r.Method), logfields.Path(r.URL.Path))
}
