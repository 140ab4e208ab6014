package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"orgstack/internal/domain"
)

// envelope is the uniform response shape. Success responses carry data and
// optional pagination meta; failures carry a message, a stable machine code,
// and per-field messages for validation errors.
type envelope struct {
	Success     bool                `json:"success"`
	Data        interface{}         `json:"data,omitempty"`
	Meta        *domain.PageMeta    `json:"meta,omitempty"`
	Error       string              `json:"error,omitempty"`
	ErrorCode   string              `json:"error_code,omitempty"`
	FieldErrors map[string][]string `json:"field_errors,omitempty"`
}

func respondData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func respondPage(w http.ResponseWriter, data interface{}, meta domain.PageMeta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data, Meta: &meta})
}

func respondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// respondError maps a domain error onto status, code, and body. Unknown
// errors are logged and returned as an opaque 500 so internals never leak.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)

	body := envelope{Error: err.Error(), ErrorCode: code}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		body.FieldErrors = verr.FieldErrors
	}
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		body.Error = "internal server error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func classify(err error) (int, string) {
	var (
		notFound        *domain.NotFoundError
		unauthenticated *domain.UnauthenticatedError
		accessDenied    *domain.AccessDeniedError
		validation      *domain.ValidationError
		conflict        *domain.ConflictError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.As(err, &unauthenticated):
		return http.StatusUnauthorized, "UNAUTHENTICATED"
	case errors.As(err, &accessDenied):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.As(err, &validation):
		return http.StatusUnprocessableEntity, "VALIDATION_FAILED"
	case errors.As(err, &conflict):
		return http.StatusConflict, "CONFLICT"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

// decodeJSON parses a request body into dst. Malformed JSON is a 400-level
// concern, distinct from field validation failures.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &malformedBodyError{cause: err}
	}
	return nil
}

type malformedBodyError struct {
	cause error
}

func (e *malformedBodyError) Error() string { return "malformed request body: " + e.cause.Error() }

func respondMalformed(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(envelope{Error: err.Error(), ErrorCode: "BAD_REQUEST"})
}
