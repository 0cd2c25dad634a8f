package httpserver

import (
	"errors"
	"net/http"

	"zanonyme_go/internal/domain"
	"zanonyme_go/internal/validate"
)

// writeError maps domain and validation errors to HTTP responses.
// Validation failures surface their specific reason; infrastructure faults
// collapse to a generic message.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, validate.ErrEmpty),
		errors.Is(err, validate.ErrTooShort),
		errors.Is(err, validate.ErrTooLong),
		errors.Is(err, validate.ErrHTML),
		errors.Is(err, validate.ErrFormat),
		errors.Is(err, validate.ErrNotPositive),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
	case errors.Is(err, domain.ErrUsernameTaken):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "username already taken"})
	case errors.Is(err, domain.ErrReportResolved):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "report already resolved"})
	case errors.Is(err, domain.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
