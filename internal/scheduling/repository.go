package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetProviderByID(ctx context.Context, id uuid.UUID) (*Provider, error)

	// Availability windows
	GetWindowByID(ctx context.Context, id uuid.UUID) (*AvailabilityWindow, error)
	ListWindows(ctx context.Context, providerID uuid.UUID, day *int) ([]AvailabilityWindow, error)
	InsertWindow(ctx context.Context, w AvailabilityWindow) (*AvailabilityWindow, error)
	UpdateWindow(ctx context.Context, w AvailabilityWindow) (*AvailabilityWindow, error)
	DeleteWindow(ctx context.Context, id uuid.UUID) error

	// Appointments
	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	// ListOccupyingBetween returns the provider's pending and confirmed
	// appointments whose occupied interval may intersect [from, to).
	ListOccupyingBetween(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]Appointment, error)
	// ListOccupyingForPatient returns the patient's future pending and
	// confirmed appointments with the given provider.
	ListOccupyingForPatient(ctx context.Context, patientID, providerID uuid.UUID, after time.Time) ([]Appointment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Appointment, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]Appointment, error)
	InsertAppointment(ctx context.Context, a Appointment) (*Appointment, error)
	// UpdateAppointmentStatus is a compare-and-swap: it only applies when the
	// stored status still equals from, and reports ErrAppointmentNotFound
	// otherwise.
	UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, from, to AppointmentStatus, providerNotes *string) (*Appointment, error)

	// Reminder worker
	FindUpcomingUnreminded(ctx context.Context, from, until time.Time) ([]Appointment, error)
	MarkReminded(ctx context.Context, id uuid.UUID) error

	// Admin reporting
	CountActiveProviders(ctx context.Context) (int64, error)
	CountAppointmentsByStatus(ctx context.Context) (map[AppointmentStatus]int64, error)

	// Event logging
	InsertEvent(ctx context.Context, ev EventLog) error
}
