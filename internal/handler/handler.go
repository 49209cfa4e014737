package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"atelier/internal/middleware"
	"atelier/internal/model"
	"atelier/internal/validation"

	"github.com/rs/zerolog"
)

// Messages surfaced for failures the client cannot act on.
const (
	unexpectedMessage  = "An unexpected error occurred"
	unavailableMessage = "Please check the DB_* settings in your .env file and ensure the database is running."
	unavailableHint    = "Start PostgreSQL and restart the API; migrations run on start when MIGRATE_ON_START=true"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code. Server
// side failures carry the request id so they can be found in the logs.
func writeError(w http.ResponseWriter, r *http.Request, status int, body model.ErrorResponse, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
		body.CorrelationID = middleware.RequestIDFromContext(r.Context())
	}
	event.Str("error", body.Error).Int("status", status).Str("path", r.URL.Path).Msg("handler error")
	writeJSON(w, status, body)
}

// unavailable reports whether err means the database could not be reached.
func unavailable(err error) bool {
	return errors.Is(err, model.ErrServiceUnavailable)
}

func unavailableResponse() model.ErrorResponse {
	return model.ErrorResponse{
		Error:   "Database connection failed",
		Message: unavailableMessage,
		Hint:    unavailableHint,
	}
}

// parseID parses an integer path id. Deletes additionally require it to be
// positive; lookups let zero and negative ids fall through to not found.
func parseID(raw string, positive bool) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || (positive && id <= 0) {
		return 0, false
	}
	return id, true
}

// issuesOf extracts the field issues of a validation error.
func issuesOf(err error) []validation.Issue {
	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Issues
	}
	return nil
}
