package scheduling

import (
	"context"
	"fmt"
)

// Stats is the administrative summary of the platform.
type Stats struct {
	ActiveProviders      int64
	AppointmentsByStatus map[AppointmentStatus]int64
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	providers, err := s.repo.CountActiveProviders(ctx)
	if err != nil {
		return nil, fmt.Errorf("count active providers: %w", err)
	}
	byStatus, err := s.repo.CountAppointmentsByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count appointments by status: %w", err)
	}
	return &Stats{ActiveProviders: providers, AppointmentsByStatus: byStatus}, nil
}
