package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/vedran77/jobly/internal/domain"
	"github.com/vedran77/jobly/internal/transport/http/middleware"
	"github.com/vedran77/jobly/pkg/validator"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func writeValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error": map[string]any{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request",
			"fields":  errs,
		},
	})
}

// writeServiceError is the only place service errors become status codes.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeValidationErrors(w, verrs)
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrUnauthorized):
		middleware.WriteUnauthorized(w)
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username/password")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", capitalize(err.Error()))
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusBadRequest, "CONFLICT", capitalize(strings.TrimPrefix(err.Error(), domain.ErrConflict.Error()+": ")))
	default:
		logger.Error("request failed", "op", op, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
	}
}

// decodeJSON reads a single JSON object into dst. Unknown fields, wrong
// types and malformed bodies come back as validation errors.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err == nil {
		if dec.More() {
			return validator.ValidationErrors{"body": "must contain a single JSON object"}
		}
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.Is(err, io.EOF):
		return validator.ValidationErrors{"body": "is required"}
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return validator.ValidationErrors{field: "must be of type " + typeErr.Type.String()}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return validator.ValidationErrors{"body": "must be valid JSON"}
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return validator.ValidationErrors{field: "is not allowed"}
	default:
		return fmt.Errorf("decoding body: %w", err)
	}
}

// pathID parses a numeric path parameter. Non-numbers answer 400; numbers
// outside the int4 id range cannot name a row and answer notFound.
func pathID(w http.ResponseWriter, r *http.Request, name string, notFound error) (int, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 32)
	if errors.Is(err, strconv.ErrRange) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", capitalize(notFound.Error()))
		return 0, false
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return int(id), true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
