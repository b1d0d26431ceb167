package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduling/internal/interval"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
	StatusNoShow    AppointmentStatus = "no_show"
)

// Occupying reports whether an appointment in this status reserves its time
// interval against new bookings.
func (s AppointmentStatus) Occupying() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Terminal statuses admit no further transitions.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted || s == StatusNoShow
}

type Role string

const (
	RolePatient  Role = "patient"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

type Patient struct {
	ID        uuid.UUID
	Name      string
	Email     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Provider struct {
	ID              uuid.UUID
	Name            string
	Specialty       *string
	Bio             *string
	ExperienceYears int
	ConsultationFee float64
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AvailabilityWindow is a recurring weekly time range during which a provider
// accepts bookings. Day uses ISO numbering: 1=Monday .. 7=Sunday.
type AvailabilityWindow struct {
	ID         uuid.UUID
	ProviderID uuid.UUID
	Day        int
	Start      interval.TimeOfDay
	End        interval.TimeOfDay
	Active     bool
	CreatedAt  time.Time
}

// Span returns the window's wall-clock range.
func (w AvailabilityWindow) Span() interval.MinuteSpan {
	return interval.MinuteSpan{Start: w.Start, End: w.End}
}

type Appointment struct {
	ID              uuid.UUID
	ProviderID      uuid.UUID
	PatientID       uuid.UUID
	StartsAt        time.Time
	DurationMinutes int
	Status          AppointmentStatus
	PatientNotes    *string
	ProviderNotes   *string
	ReminderSent    bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EndsAt is the exclusive end of the occupied interval.
func (a Appointment) EndsAt() time.Time {
	return a.StartsAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// Span returns the occupied interval [StartsAt, StartsAt+Duration).
func (a Appointment) Span() interval.Span {
	return interval.Span{Start: a.StartsAt, End: a.EndsAt()}
}

type EventLog struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}
