package scheduling

import "github.com/google/uuid"

// Actor is the verified identity attached to a request by the auth layer.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// CanTransition decides whether the actor may move the appointment to the
// target status. Admins bypass ownership; everyone else must be the patient
// or provider the appointment references.
//
// Reachability of the target from the current status is checked separately,
// this is purely the who-may-do-what half.
func CanTransition(actor Actor, appt Appointment, target AppointmentStatus) bool {
	if actor.IsAdmin() {
		return true
	}

	ownsAsProvider := actor.Role == RoleProvider && actor.ID == appt.ProviderID
	ownsAsPatient := actor.Role == RolePatient && actor.ID == appt.PatientID

	switch target {
	case StatusConfirmed:
		return ownsAsProvider
	case StatusCancelled:
		return ownsAsProvider || ownsAsPatient
	case StatusCompleted, StatusNoShow:
		return ownsAsProvider
	default:
		return false
	}
}

// transitions lists the reachable target statuses per current status.
// COMPLETED and NO_SHOW are reachable only from CONFIRMED; the engine exposes
// the capability but nothing in it triggers those transitions automatically.
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted, StatusNoShow},
}

func transitionAllowed(from, to AppointmentStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}
