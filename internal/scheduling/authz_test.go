package scheduling

import (
	"testing"

	"github.com/google/uuid"
)

func TestCanTransition(t *testing.T) {
	providerID := uuid.New()
	patientID := uuid.New()
	appt := Appointment{ProviderID: providerID, PatientID: patientID, Status: StatusPending}

	owningProvider := Actor{ID: providerID, Role: RoleProvider}
	owningPatient := Actor{ID: patientID, Role: RolePatient}
	otherProvider := Actor{ID: uuid.New(), Role: RoleProvider}
	otherPatient := Actor{ID: uuid.New(), Role: RolePatient}
	admin := Actor{ID: uuid.New(), Role: RoleAdmin}

	cases := []struct {
		name   string
		actor  Actor
		target AppointmentStatus
		want   bool
	}{
		{"owning provider confirms", owningProvider, StatusConfirmed, true},
		{"owning provider cancels", owningProvider, StatusCancelled, true},
		{"owning provider completes", owningProvider, StatusCompleted, true},
		{"owning provider marks no-show", owningProvider, StatusNoShow, true},
		{"owning patient cancels", owningPatient, StatusCancelled, true},
		{"owning patient cannot confirm", owningPatient, StatusConfirmed, false},
		{"owning patient cannot complete", owningPatient, StatusCompleted, false},
		{"owning patient cannot mark no-show", owningPatient, StatusNoShow, false},
		{"other provider cannot confirm", otherProvider, StatusConfirmed, false},
		{"other provider cannot cancel", otherProvider, StatusCancelled, false},
		{"other patient cannot cancel", otherPatient, StatusCancelled, false},
		{"admin confirms", admin, StatusConfirmed, true},
		{"admin cancels", admin, StatusCancelled, true},
		{"admin completes", admin, StatusCompleted, true},
		// Role and ID must agree: a patient ID with a provider role owns
		// nothing.
		{"patient id with provider role", Actor{ID: patientID, Role: RoleProvider}, StatusCancelled, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := CanTransition(c.actor, appt, c.target); got != c.want {
				t.Fatalf("CanTransition = %v, want %v", got, c.want)
			}
		})
	}
}

func TestTransitionAllowed(t *testing.T) {
	allowed := map[AppointmentStatus][]AppointmentStatus{
		StatusPending:   {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {StatusCancelled, StatusCompleted, StatusNoShow},
	}
	all := []AppointmentStatus{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			if got := transitionAllowed(from, to); got != want {
				t.Fatalf("transitionAllowed(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestStatusPredicates(t *testing.T) {
	occupying := map[AppointmentStatus]bool{
		StatusPending:   true,
		StatusConfirmed: true,
	}
	terminal := map[AppointmentStatus]bool{
		StatusCancelled: true,
		StatusCompleted: true,
		StatusNoShow:    true,
	}

	for _, s := range []AppointmentStatus{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow} {
		if s.Occupying() != occupying[s] {
			t.Fatalf("%s.Occupying() = %v", s, s.Occupying())
		}
		if s.Terminal() != terminal[s] {
			t.Fatalf("%s.Terminal() = %v", s, s.Terminal())
		}
	}
}
