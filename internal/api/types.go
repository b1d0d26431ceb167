package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduling/internal/interval"
	"github.com/clinicdesk/clinic-scheduling/internal/scheduling"
)

type WindowRequest struct {
	Day   int                `json:"day"`
	Start interval.TimeOfDay `json:"start"`
	End   interval.TimeOfDay `json:"end"`
}

type WindowResponse struct {
	ID         uuid.UUID          `json:"id"`
	ProviderID uuid.UUID          `json:"provider_id"`
	Day        int                `json:"day"`
	Start      interval.TimeOfDay `json:"start"`
	End        interval.TimeOfDay `json:"end"`
}

func newWindowResponse(w scheduling.AvailabilityWindow) WindowResponse {
	return WindowResponse{
		ID:         w.ID,
		ProviderID: w.ProviderID,
		Day:        w.Day,
		Start:      w.Start,
		End:        w.End,
	}
}

type SlotResponse struct {
	Start interval.TimeOfDay `json:"start"`
	End   interval.TimeOfDay `json:"end"`
}

type BookAppointmentRequest struct {
	ProviderID      string  `json:"provider_id"`
	StartsAt        string  `json:"starts_at"` // RFC 3339
	DurationMinutes int     `json:"duration_minutes,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

type AppointmentResponse struct {
	ID              uuid.UUID `json:"id"`
	ProviderID      uuid.UUID `json:"provider_id"`
	PatientID       uuid.UUID `json:"patient_id"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	PatientNotes    *string   `json:"patient_notes,omitempty"`
	ProviderNotes   *string   `json:"provider_notes,omitempty"`
}

func newAppointmentResponse(a scheduling.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:              a.ID,
		ProviderID:      a.ProviderID,
		PatientID:       a.PatientID,
		StartsAt:        a.StartsAt,
		EndsAt:          a.EndsAt(),
		DurationMinutes: a.DurationMinutes,
		Status:          string(a.Status),
		PatientNotes:    a.PatientNotes,
		ProviderNotes:   a.ProviderNotes,
	}
}

type ProviderResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Specialty       *string   `json:"specialty,omitempty"`
	ExperienceYears int       `json:"experience_years"`
	ConsultationFee float64   `json:"consultation_fee"`
}

func newProviderResponse(p scheduling.Provider) ProviderResponse {
	return ProviderResponse{
		ID:              p.ID,
		Name:            p.Name,
		Specialty:       p.Specialty,
		ExperienceYears: p.ExperienceYears,
		ConsultationFee: p.ConsultationFee,
	}
}

type StatsResponse struct {
	ActiveProviders      int64            `json:"active_providers"`
	AppointmentsByStatus map[string]int64 `json:"appointments_by_status"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
