package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduling/internal/interval"
)

// BookingRequest is a patient's request for a new appointment.
type BookingRequest struct {
	ProviderID      uuid.UUID
	PatientID       uuid.UUID
	StartsAt        time.Time
	DurationMinutes int // 0 means use the policy default
	PatientNotes    *string
}

// Book validates the request and creates a pending appointment. The conflict
// checks and the insert run as one critical section under the provider lock,
// so two racing bookings for the same provider cannot both pass the overlap
// scan.
func (s *Service) Book(ctx context.Context, req BookingRequest) (*Appointment, error) {
	if _, err := s.repo.GetPatientByID(ctx, req.PatientID); err != nil {
		return nil, err
	}

	provider, err := s.repo.GetProviderByID(ctx, req.ProviderID)
	if err != nil {
		return nil, err
	}
	if !provider.Active {
		return nil, invalidf("provider", "is not accepting bookings")
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = s.policy.DefaultDurationMinutes
	}
	if duration < s.policy.MinDurationMinutes {
		return nil, invalidf("duration", "must be at least %d minutes", s.policy.MinDurationMinutes)
	}

	now := s.now()
	if req.StartsAt.Before(now) {
		return nil, invalidf("start", "cannot book an appointment in the past")
	}

	span := interval.Span{
		Start: req.StartsAt,
		End:   req.StartsAt.Add(time.Duration(duration) * time.Minute),
	}

	var created *Appointment

	err = s.locker.WithProviderLock(ctx, req.ProviderID, func(lockCtx context.Context) error {
		if err := s.checkWithinWindow(lockCtx, req.ProviderID, span); err != nil {
			return err
		}
		if err := s.checkAppointmentOverlap(lockCtx, req.ProviderID, span); err != nil {
			return err
		}

		if s.policy.BlockDuplicatePatient {
			open, err := s.repo.ListOccupyingForPatient(lockCtx, req.PatientID, req.ProviderID, now)
			if err != nil {
				return fmt.Errorf("check existing patient bookings: %w", err)
			}
			if len(open) > 0 {
				return appointmentConflict(open[0])
			}
		}

		appt := Appointment{
			ID:              uuid.New(),
			ProviderID:      req.ProviderID,
			PatientID:       req.PatientID,
			StartsAt:        req.StartsAt,
			DurationMinutes: duration,
			Status:          StatusPending,
			PatientNotes:    req.PatientNotes,
		}

		inserted, err := s.repo.InsertAppointment(lockCtx, appt)
		if err != nil {
			return fmt.Errorf("insert appointment: %w", err)
		}
		created = inserted

		s.logEvent(lockCtx, inserted.ID, EventAppointmentCreated, map[string]any{
			"provider_id": req.ProviderID.String(),
			"patient_id":  req.PatientID.String(),
			"starts_at":   req.StartsAt,
			"duration":    duration,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// checkWithinWindow ensures the occupied interval falls entirely within one
// of the provider's active windows for that day of the week.
func (s *Service) checkWithinWindow(ctx context.Context, providerID uuid.UUID, span interval.Span) error {
	day := isoWeekday(span.Start)
	windows, err := s.repo.ListWindows(ctx, providerID, &day)
	if err != nil {
		return fmt.Errorf("list windows: %w", err)
	}

	for _, w := range windows {
		if !w.Active {
			continue
		}
		ws := w.Span().On(span.Start)
		if !span.Start.Before(ws.Start) && !span.End.After(ws.End) {
			return nil
		}
	}
	return invalidf("start", "provider has no availability covering the requested time")
}

// checkAppointmentOverlap reports a ConflictError if the span overlaps any
// of the provider's occupying appointments.
func (s *Service) checkAppointmentOverlap(ctx context.Context, providerID uuid.UUID, span interval.Span) error {
	occupying, err := s.repo.ListOccupyingBetween(ctx, providerID, span.Start, span.End)
	if err != nil {
		return fmt.Errorf("list occupying appointments: %w", err)
	}
	for _, a := range occupying {
		if span.Overlaps(a.Span()) {
			return appointmentConflict(a)
		}
	}
	return nil
}

// Transition moves an appointment to the target status on behalf of the
// actor: confirm and reject by the owning provider, cancel by either party,
// completed and no-show by the owning provider after the fact. Admins bypass
// ownership.
func (s *Service) Transition(ctx context.Context, actor Actor, appointmentID uuid.UUID, target AppointmentStatus, reason *string) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	// An actor unrelated to the appointment learns nothing about it.
	if !actor.IsAdmin() && actor.ID != appt.PatientID && actor.ID != appt.ProviderID {
		return nil, ErrAppointmentNotFound
	}
	if !CanTransition(actor, *appt, target) {
		return nil, ErrNotPermitted
	}
	if !transitionAllowed(appt.Status, target) {
		return nil, &InvalidTransitionError{From: appt.Status, To: target}
	}

	var providerNotes *string
	if reason != nil && actor.Role != RolePatient {
		providerNotes = reason
	}

	var updated *Appointment

	err = s.locker.WithProviderLock(ctx, appt.ProviderID, func(lockCtx context.Context) error {
		u, err := s.repo.UpdateAppointmentStatus(lockCtx, appt.ID, appt.Status, target, providerNotes)
		if err == nil {
			updated = u
			return nil
		}

		// The compare-and-swap missed: either someone transitioned it first
		// or it vanished. Reload to tell the two apart.
		current, loadErr := s.repo.GetAppointmentByID(lockCtx, appt.ID)
		if loadErr != nil {
			return loadErr
		}
		return &InvalidTransitionError{From: current.Status, To: target}
	})
	if err != nil {
		return nil, err
	}

	payload := map[string]any{"actor_id": actor.ID.String(), "actor_role": string(actor.Role)}
	if reason != nil {
		payload["reason"] = *reason
	}
	s.logEvent(ctx, updated.ID, transitionEvent(target), payload)

	return updated, nil
}

func transitionEvent(target AppointmentStatus) string {
	switch target {
	case StatusConfirmed:
		return EventAppointmentConfirmed
	case StatusCompleted:
		return EventAppointmentCompleted
	case StatusNoShow:
		return EventAppointmentNoShow
	default:
		return EventAppointmentCancelled
	}
}

// PatientAppointments lists the patient's appointments, most recent first.
func (s *Service) PatientAppointments(ctx context.Context, patientID uuid.UUID) ([]Appointment, error) {
	if _, err := s.repo.GetPatientByID(ctx, patientID); err != nil {
		return nil, err
	}
	appts, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list patient appointments: %w", err)
	}
	return appts, nil
}

// ProviderAppointments lists the provider's appointments, soonest first.
func (s *Service) ProviderAppointments(ctx context.Context, providerID uuid.UUID) ([]Appointment, error) {
	if _, err := s.repo.GetProviderByID(ctx, providerID); err != nil {
		return nil, err
	}
	appts, err := s.repo.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("list provider appointments: %w", err)
	}
	return appts, nil
}

// isoWeekday maps time.Weekday to ISO numbering, 1=Monday .. 7=Sunday.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
