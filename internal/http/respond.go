package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"forecourt/internal/core"
)

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// respondValidation renders a 422 with per-field messages, the shape
// the frontend binds to its form fields.
func respondValidation(w http.ResponseWriter, fields map[string][]string) {
	respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
		"message": "validation failed",
		"errors":  fields,
	})
}

// respondDomainError maps the domain sentinels onto HTTP statuses. A
// validation sentinel becomes a 422 tied to the offending field when
// the caller knows it; everything unrecognized is a 500.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		respondError(w, http.StatusNotFound, "record not found")
	case errors.Is(err, core.ErrDuplicateDate):
		respondError(w, http.StatusConflict, err.Error())
	case isValidationError(err):
		respondValidation(w, map[string][]string{"record": {err.Error()}})
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrInvalidAmount,
		core.ErrInvalidDate,
		core.ErrInvalidShift,
		core.ErrInvalidFamily,
		core.ErrEmptyName,
		core.ErrNegativeQty,
		core.ErrInvalidStatus,
		core.ErrEmptyVendor,
		core.ErrInvalidTimespan,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
