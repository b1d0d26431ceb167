package scheduling

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduling/internal/config"
	redisclient "github.com/clinicdesk/clinic-scheduling/internal/redis"
)

const (
	EventAppointmentCreated   = "APPOINTMENT_CREATED"
	EventAppointmentConfirmed = "APPOINTMENT_CONFIRMED"
	EventAppointmentCancelled = "APPOINTMENT_CANCELLED"
	EventAppointmentCompleted = "APPOINTMENT_COMPLETED"
	EventAppointmentNoShow    = "APPOINTMENT_NO_SHOW"
	EventAppointmentReminder  = "APPOINTMENT_REMINDER_DUE"
)

// Service is the scheduling engine. Every mutation runs its read-check-write
// sequence under the per-provider lock; reads are snapshot queries and never
// block writers.
type Service struct {
	repo   Repository
	locker redisclient.Locker
	policy config.Policy
	now    func() time.Time
}

func NewService(repo Repository, locker redisclient.Locker, policy config.Policy) *Service {
	return &Service{
		repo:   repo,
		locker: locker,
		policy: policy,
		now:    time.Now,
	}
}

func (s *Service) logEvent(ctx context.Context, appointmentID uuid.UUID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal event payload for %s: %v", eventType, err)
		data = nil
	}

	apptID := appointmentID

	ev := EventLog{
		EventType:     eventType,
		AppointmentID: &apptID,
		Payload:       data,
		CreatedAt:     s.now(),
	}

	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		log.Printf("failed to insert event log %s for appointment %s: %v", eventType, appointmentID, err)
	}
}
