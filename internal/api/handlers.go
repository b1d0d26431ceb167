package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduling/internal/scheduling"
)

func bookAppointmentHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFrom(r.Context())

		var req BookAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		providerID, err := uuid.Parse(req.ProviderID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_provider_id", "provider_id must be a valid UUID")
			return
		}

		startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_starts_at", "starts_at must be RFC 3339")
			return
		}

		appt, err := svc.Book(r.Context(), scheduling.BookingRequest{
			ProviderID:      providerID,
			PatientID:       actor.ID,
			StartsAt:        startsAt,
			DurationMinutes: req.DurationMinutes,
			PatientNotes:    req.Notes,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, newAppointmentResponse(*appt))
	}
}

// transitionHandler builds one handler per lifecycle action; reject is the
// only one that reads a body (the reason, stored as a provider note).
func transitionHandler(svc *scheduling.Service, target scheduling.AppointmentStatus, withReason bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFrom(r.Context())

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		var reason *string
		if withReason {
			var req RejectRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
				return
			}
			if req.Reason != "" {
				reason = &req.Reason
			}
		}

		appt, err := svc.Transition(r.Context(), actor, id, target, reason)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newAppointmentResponse(*appt))
	}
}

func myAppointmentsHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFrom(r.Context())

		var (
			appts []scheduling.Appointment
			err   error
		)
		switch actor.Role {
		case scheduling.RoleProvider:
			appts, err = svc.ProviderAppointments(r.Context(), actor.ID)
		default:
			appts, err = svc.PatientAppointments(r.Context(), actor.ID)
		}
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, appointmentResponses(appts))
	}
}

func providerAppointmentsHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFrom(r.Context())

		providerID, err := uuid.Parse(chi.URLParam(r, "providerID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_provider_id", "providerID must be a valid UUID")
			return
		}

		if !actor.IsAdmin() && actor.ID != providerID {
			// Don't reveal whether the provider exists.
			writeError(w, http.StatusNotFound, "not_found", scheduling.ErrProviderNotFound.Error())
			return
		}

		appts, err := svc.ProviderAppointments(r.Context(), providerID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, appointmentResponses(appts))
	}
}

func appointmentResponses(appts []scheduling.Appointment) []AppointmentResponse {
	resp := make([]AppointmentResponse, len(appts))
	for i, a := range appts {
		resp[i] = newAppointmentResponse(a)
	}
	return resp
}
