package scheduling

import (
	"errors"
	"fmt"
)

// Not-found errors. Ownership misses deliberately surface as not-found so a
// caller cannot probe for records it does not own.
var (
	ErrProviderNotFound    = errors.New("provider not found")
	ErrPatientNotFound     = errors.New("patient not found")
	ErrWindowNotFound      = errors.New("availability window not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// ErrNotPermitted means the actor's role or ownership does not allow the
// requested operation.
var ErrNotPermitted = errors.New("actor is not permitted to perform this action")

// ValidationError is malformed or out-of-policy input. Always correctable by
// the caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalidf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ConflictError means the requested interval overlaps an existing window or
// occupying appointment. The conflicting interval is included so the caller
// can propose an alternative.
type ConflictError struct {
	Resource string // "window" or "appointment"
	Start    string
	End      string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("requested interval overlaps existing %s [%s, %s)", e.Resource, e.Start, e.End)
}

func windowConflict(w AvailabilityWindow) *ConflictError {
	return &ConflictError{Resource: "window", Start: w.Start.String(), End: w.End.String()}
}

func appointmentConflict(a Appointment) *ConflictError {
	return &ConflictError{
		Resource: "appointment",
		Start:    a.StartsAt.Format("2006-01-02 15:04"),
		End:      a.EndsAt().Format("2006-01-02 15:04"),
	}
}

// InvalidTransitionError means the requested status change is not reachable
// from the appointment's current status.
type InvalidTransitionError struct {
	From AppointmentStatus
	To   AppointmentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition appointment from %s to %s", e.From, e.To)
}
