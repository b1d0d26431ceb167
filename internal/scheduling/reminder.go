package scheduling

import (
	"context"
	"fmt"
	"log"
	"time"
)

// SendDueReminders is called by the reminder worker periodically. It records
// a reminder event for every confirmed appointment starting within horizon
// that has not been reminded yet, marking each so a later run skips it.
// Actual notification delivery happens elsewhere, off the event log.
func (s *Service) SendDueReminders(ctx context.Context, horizon time.Duration) (int, error) {
	now := s.now()
	due, err := s.repo.FindUpcomingUnreminded(ctx, now, now.Add(horizon))
	if err != nil {
		return 0, fmt.Errorf("find upcoming appointments: %w", err)
	}

	sent := 0
	for _, appt := range due {
		if err := s.repo.MarkReminded(ctx, appt.ID); err != nil {
			log.Printf("failed to mark appointment %s reminded: %v", appt.ID, err)
			continue
		}
		s.logEvent(ctx, appt.ID, EventAppointmentReminder, map[string]any{
			"starts_at":  appt.StartsAt,
			"patient_id": appt.PatientID.String(),
		})
		sent++
	}

	return sent, nil
}
