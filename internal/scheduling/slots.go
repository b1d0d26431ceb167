package scheduling

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduling/internal/interval"
)

// Slot is one bookable granule of a provider's day.
type Slot struct {
	Start interval.TimeOfDay
	End   interval.TimeOfDay
}

// BookableSlots derives the free granules of a provider's date: each active
// window for that day of the week is partitioned into granule-minute spans,
// and a span survives only if it overlaps no occupying appointment. The
// result is ordered by start time. granuleMinutes of 0 means the policy
// default.
//
// This is a snapshot read. A slot shown as free can be taken before the
// caller books it; the booking attempt then fails with a ConflictError.
func (s *Service) BookableSlots(ctx context.Context, providerID uuid.UUID, date time.Time, granuleMinutes int) ([]Slot, error) {
	if _, err := s.repo.GetProviderByID(ctx, providerID); err != nil {
		return nil, err
	}
	if granuleMinutes == 0 {
		granuleMinutes = s.policy.GranuleMinutes
	}
	if granuleMinutes < 0 {
		return nil, invalidf("granule", "must be positive")
	}

	day := isoWeekday(date)
	windows, err := s.repo.ListWindows(ctx, providerID, &day)
	if err != nil {
		return nil, fmt.Errorf("list windows: %w", err)
	}
	if len(windows) == 0 {
		return nil, nil
	}

	occupying, err := s.occupyingOn(ctx, providerID, date)
	if err != nil {
		return nil, err
	}

	var slots []Slot
	for _, w := range windows {
		if !w.Active {
			continue
		}
		for g := range interval.Granules(w.Start, w.End, granuleMinutes) {
			if overlapsAny(g.On(date), occupying) {
				continue
			}
			slots = append(slots, Slot{Start: g.Start, End: g.End})
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Start < slots[j].Start })
	return slots, nil
}

// IsSlotFree reports whether one granule starting at t fits inside an active
// window and clears every occupying appointment on that date.
func (s *Service) IsSlotFree(ctx context.Context, providerID uuid.UUID, date time.Time, t interval.TimeOfDay) (bool, error) {
	if _, err := s.repo.GetProviderByID(ctx, providerID); err != nil {
		return false, err
	}

	granule := interval.MinuteSpan{Start: t, End: t + interval.TimeOfDay(s.policy.GranuleMinutes)}

	day := isoWeekday(date)
	windows, err := s.repo.ListWindows(ctx, providerID, &day)
	if err != nil {
		return false, fmt.Errorf("list windows: %w", err)
	}

	within := false
	for _, w := range windows {
		if w.Active && granule.Start >= w.Start && granule.End <= w.End {
			within = true
			break
		}
	}
	if !within {
		return false, nil
	}

	occupying, err := s.occupyingOn(ctx, providerID, date)
	if err != nil {
		return false, err
	}

	return !overlapsAny(granule.On(date), occupying), nil
}

// occupyingOn loads the provider's occupying appointments intersecting the
// date's day.
func (s *Service) occupyingOn(ctx context.Context, providerID uuid.UUID, date time.Time) ([]Appointment, error) {
	y, m, d := date.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	occupying, err := s.repo.ListOccupyingBetween(ctx, providerID, startOfDay, endOfDay)
	if err != nil {
		return nil, fmt.Errorf("list occupying appointments: %w", err)
	}
	return occupying, nil
}

func overlapsAny(span interval.Span, appts []Appointment) bool {
	for _, a := range appts {
		if span.Overlaps(a.Span()) {
			return true
		}
	}
	return false
}
