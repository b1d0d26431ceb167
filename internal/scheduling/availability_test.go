package scheduling

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestAddWindow(t *testing.T) {
	f := newFixture(testPolicy())
	ctx := context.Background()

	w, err := f.svc.AddWindow(ctx, f.provider.ID, 1, mustTime("09:00"), mustTime("12:00"))
	if err != nil {
		t.Fatalf("AddWindow: %v", err)
	}
	if !w.Active {
		t.Fatal("new window should be active")
	}
	if w.Day != 1 || w.Start != mustTime("09:00") || w.End != mustTime("12:00") {
		t.Fatalf("stored window = day %d [%s, %s)", w.Day, w.Start, w.End)
	}
}

func TestAddWindowValidation(t *testing.T) {
	f := newFixture(testPolicy())
	ctx := context.Background()

	cases := []struct {
		name       string
		day        int
		start, end string
	}{
		{"day too low", 0, "09:00", "12:00"},
		{"day too high", 8, "09:00", "12:00"},
		{"start equals end", 1, "09:00", "09:00"},
		{"start after end", 1, "12:00", "09:00"},
		{"before working hours", 1, "05:00", "08:00"},
		{"past working hours", 1, "21:00", "23:00"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := f.svc.AddWindow(ctx, f.provider.ID, c.day, mustTime(c.start), mustTime(c.end))
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestAddWindowUnknownProvider(t *testing.T) {
	f := newFixture(testPolicy())

	_, err := f.svc.AddWindow(context.Background(), uuid.New(), 1, mustTime("09:00"), mustTime("12:00"))
	if !errors.Is(err, ErrProviderNotFound) {
		t.Fatalf("expected ErrProviderNotFound, got %v", err)
	}
}

func TestAddWindowOverlapRejected(t *testing.T) {
	f := newFixture(testPolicy())
	ctx := context.Background()
	f.addWindow(1, "09:00", "12:00")

	cases := []struct {
		name       string
		start, end string
		wantErr    bool
	}{
		{"inside existing", "10:00", "11:00", true},
		{"straddles start", "08:00", "10:00", true},
		{"straddles end", "11:00", "13:00", true},
		{"identical", "09:00", "12:00", true},
		{"touching before is fine", "08:00", "09:00", false},
		{"touching after is fine", "12:00", "14:00", false},
		{"other weekday is fine", "10:00", "11:00", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			day := 1
			if c.name == "other weekday is fine" {
				day = 2
			}
			w, err := f.svc.AddWindow(ctx, f.provider.ID, day, mustTime(c.start), mustTime(c.end))
			if c.wantErr {
				var cerr *ConflictError
				if !errors.As(err, &cerr) {
					t.Fatalf("expected ConflictError, got %v", err)
				}
				if cerr.Resource != "window" {
					t.Fatalf("conflict resource = %q, want window", cerr.Resource)
				}
				return
			}
			if err != nil {
				t.Fatalf("AddWindow: %v", err)
			}
			// Clean up so later cases see only the original window.
			delete(f.repo.windows, w.ID)
		})
	}
}

func TestUpdateWindowExcludesItself(t *testing.T) {
	f := newFixture(testPolicy())
	ctx := context.Background()
	w := f.addWindow(1, "09:00", "12:00")

	// Shrinking a window overlaps its own old interval; that must not count
	// as a conflict.
	updated, err := f.svc.UpdateWindow(ctx, f.provider.ID, w.ID, 1, mustTime("09:30"), mustTime("11:30"))
	if err != nil {
		t.Fatalf("UpdateWindow: %v", err)
	}
	if updated.Start != mustTime("09:30") || updated.End != mustTime("11:30") {
		t.Fatalf("updated window = [%s, %s)", updated.Start, updated.End)
	}
}

func TestUpdateWindowConflictsWithSibling(t *testing.T) {
	f := newFixture(testPolicy())
	ctx := context.Background()
	f.addWindow(1, "09:00", "12:00")
	w := f.addWindow(1, "14:00", "17:00")

	_, err := f.svc.UpdateWindow(ctx, f.provider.ID, w.ID, 1, mustTime("11:00"), mustTime("15:00"))
	var cerr *ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestUpdateWindowOwnershipMiss(t *testing.T) {
	f := newFixture(testPolicy())
	ctx := context.Background()
	w := f.addWindow(1, "09:00", "12:00")

	other := Provider{ID: uuid.New(), Name: "Dr. Soto", Active: true}
	f.repo.providers[other.ID] = other

	// A window owned by someone else reads as not found, not forbidden.
	_, err := f.svc.UpdateWindow(ctx, other.ID, w.ID, 1, mustTime("10:00"), mustTime("11:00"))
	if !errors.Is(err, ErrWindowNotFound) {
		t.Fatalf("expected ErrWindowNotFound, got %v", err)
	}

	if err := f.svc.DeleteWindow(ctx, other.ID, w.ID); !errors.Is(err, ErrWindowNotFound) {
		t.Fatalf("delete: expected ErrWindowNotFound, got %v", err)
	}
}

func TestDeleteWindow(t *testing.T) {
	f := newFixture(testPolicy())
	ctx := context.Background()
	w := f.addWindow(1, "09:00", "12:00")

	if err := f.svc.DeleteWindow(ctx, f.provider.ID, w.ID); err != nil {
		t.Fatalf("DeleteWindow: %v", err)
	}

	windows, err := f.svc.Windows(ctx, f.provider.ID, nil)
	if err != nil {
		t.Fatalf("Windows: %v", err)
	}
	if len(windows) != 0 {
		t.Fatalf("expected no windows after delete, got %d", len(windows))
	}
}

func TestWindowsDayFilter(t *testing.T) {
	f := newFixture(testPolicy())
	ctx := context.Background()
	f.addWindow(1, "09:00", "12:00")
	f.addWindow(1, "14:00", "17:00")
	f.addWindow(3, "10:00", "13:00")

	day := 1
	windows, err := f.svc.Windows(ctx, f.provider.ID, &day)
	if err != nil {
		t.Fatalf("Windows: %v", err)
	}
	if len(windows) != 2 {
		t.Fatalf("expected 2 windows on day 1, got %d", len(windows))
	}
	if windows[0].Start > windows[1].Start {
		t.Fatal("windows not ordered by start time")
	}

	day = 9
	if _, err := f.svc.Windows(ctx, f.provider.ID, &day); err == nil {
		t.Fatal("expected validation error for day 9")
	}
}
