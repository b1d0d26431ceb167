package scheduling

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduling/internal/interval"
)

// AddWindow declares a new weekly availability window for the provider. The
// overlap check against the provider's existing windows and the insert run as
// one critical section under the provider lock.
func (s *Service) AddWindow(ctx context.Context, providerID uuid.UUID, day int, start, end interval.TimeOfDay) (*AvailabilityWindow, error) {
	if _, err := s.repo.GetProviderByID(ctx, providerID); err != nil {
		return nil, err
	}
	if err := s.validateWindowInput(day, start, end); err != nil {
		return nil, err
	}

	var created *AvailabilityWindow

	err := s.locker.WithProviderLock(ctx, providerID, func(lockCtx context.Context) error {
		if err := s.checkWindowOverlap(lockCtx, providerID, day, start, end, uuid.Nil); err != nil {
			return err
		}

		w := AvailabilityWindow{
			ID:         uuid.New(),
			ProviderID: providerID,
			Day:        day,
			Start:      start,
			End:        end,
			Active:     true,
		}

		inserted, err := s.repo.InsertWindow(lockCtx, w)
		if err != nil {
			return fmt.Errorf("insert window: %w", err)
		}
		created = inserted
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateWindow re-validates the window against its siblings, excluding
// itself from the overlap scan. A window owned by a different provider is
// reported as not found.
func (s *Service) UpdateWindow(ctx context.Context, providerID, windowID uuid.UUID, day int, start, end interval.TimeOfDay) (*AvailabilityWindow, error) {
	if _, err := s.repo.GetProviderByID(ctx, providerID); err != nil {
		return nil, err
	}
	if err := s.validateWindowInput(day, start, end); err != nil {
		return nil, err
	}

	var updated *AvailabilityWindow

	err := s.locker.WithProviderLock(ctx, providerID, func(lockCtx context.Context) error {
		existing, err := s.repo.GetWindowByID(lockCtx, windowID)
		if err != nil {
			return err
		}
		if existing.ProviderID != providerID {
			return ErrWindowNotFound
		}

		if err := s.checkWindowOverlap(lockCtx, providerID, day, start, end, windowID); err != nil {
			return err
		}

		existing.Day = day
		existing.Start = start
		existing.End = end

		w, err := s.repo.UpdateWindow(lockCtx, *existing)
		if err != nil {
			return fmt.Errorf("update window: %w", err)
		}
		updated = w
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteWindow is an ownership-checked hard delete. Appointments already
// booked against the window are left untouched.
func (s *Service) DeleteWindow(ctx context.Context, providerID, windowID uuid.UUID) error {
	return s.locker.WithProviderLock(ctx, providerID, func(lockCtx context.Context) error {
		existing, err := s.repo.GetWindowByID(lockCtx, windowID)
		if err != nil {
			return err
		}
		if existing.ProviderID != providerID {
			return ErrWindowNotFound
		}
		return s.repo.DeleteWindow(lockCtx, windowID)
	})
}

// Windows lists the provider's active windows ordered by (day, start). The
// day filter is optional.
func (s *Service) Windows(ctx context.Context, providerID uuid.UUID, day *int) ([]AvailabilityWindow, error) {
	if _, err := s.repo.GetProviderByID(ctx, providerID); err != nil {
		return nil, err
	}
	if day != nil && (*day < 1 || *day > 7) {
		return nil, invalidf("day", "must be between 1 (Monday) and 7 (Sunday)")
	}
	windows, err := s.repo.ListWindows(ctx, providerID, day)
	if err != nil {
		return nil, fmt.Errorf("list windows: %w", err)
	}
	return windows, nil
}

func (s *Service) validateWindowInput(day int, start, end interval.TimeOfDay) error {
	if day < 1 || day > 7 {
		return invalidf("day", "must be between 1 (Monday) and 7 (Sunday)")
	}
	if start >= end {
		return invalidf("start", "must be before end")
	}
	if start < s.policy.DayStart || end > s.policy.DayEnd {
		return invalidf("window", "must be within working hours %s - %s", s.policy.DayStart, s.policy.DayEnd)
	}
	return nil
}

// checkWindowOverlap scans the provider's active windows on the given day
// and reports a ConflictError on the first half-open overlap. excludeID
// skips the window being updated.
func (s *Service) checkWindowOverlap(ctx context.Context, providerID uuid.UUID, day int, start, end interval.TimeOfDay, excludeID uuid.UUID) error {
	siblings, err := s.repo.ListWindows(ctx, providerID, &day)
	if err != nil {
		return fmt.Errorf("list windows for overlap check: %w", err)
	}

	candidate := interval.MinuteSpan{Start: start, End: end}
	for _, w := range siblings {
		if w.ID == excludeID || !w.Active {
			continue
		}
		if candidate.Overlaps(w.Span()) {
			return windowConflict(w)
		}
	}
	return nil
}
