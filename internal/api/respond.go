package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/clinicdesk/clinic-scheduling/internal/scheduling"
	redisclient "github.com/clinicdesk/clinic-scheduling/internal/redis"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}

// writeServiceError maps the scheduling error taxonomy onto HTTP statuses.
// Validation and not-found are caller-correctable; conflicts are retryable
// with a different slot; anything unrecognized is an infrastructure failure.
func writeServiceError(w http.ResponseWriter, err error) {
	var validation *scheduling.ValidationError
	var conflict *scheduling.ConflictError
	var transition *scheduling.InvalidTransitionError

	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, "validation_failed", validation.Error())
	case errors.As(err, &conflict):
		writeError(w, http.StatusConflict, "conflict", conflict.Error())
	case errors.As(err, &transition):
		writeError(w, http.StatusConflict, "invalid_status_transition", transition.Error())
	case errors.Is(err, scheduling.ErrNotPermitted):
		writeError(w, http.StatusForbidden, "not_permitted", err.Error())
	case errors.Is(err, scheduling.ErrProviderNotFound),
		errors.Is(err, scheduling.ErrPatientNotFound),
		errors.Is(err, scheduling.ErrWindowNotFound),
		errors.Is(err, scheduling.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, redisclient.ErrLockNotAcquired):
		writeError(w, http.StatusConflict, "provider_busy", "provider schedule is being modified, please retry shortly")
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
	}
}
