package scheduling

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduling/internal/config"
	"github.com/clinicdesk/clinic-scheduling/internal/interval"
)

// memRepo is an in-memory Repository with the same query semantics as the
// Postgres one: active-only window listings ordered by (day, start), CAS
// status updates, half-open occupancy scans.
type memRepo struct {
	mu           sync.Mutex
	patients     map[uuid.UUID]Patient
	providers    map[uuid.UUID]Provider
	windows      map[uuid.UUID]AvailabilityWindow
	appointments map[uuid.UUID]Appointment
	events       []EventLog
}

func newMemRepo() *memRepo {
	return &memRepo{
		patients:     make(map[uuid.UUID]Patient),
		providers:    make(map[uuid.UUID]Provider),
		windows:      make(map[uuid.UUID]AvailabilityWindow),
		appointments: make(map[uuid.UUID]Appointment),
	}
}

func (r *memRepo) GetPatientByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	return &p, nil
}

func (r *memRepo) GetProviderByID(_ context.Context, id uuid.UUID) (*Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[id]
	if !ok {
		return nil, ErrProviderNotFound
	}
	return &p, nil
}

func (r *memRepo) GetWindowByID(_ context.Context, id uuid.UUID) (*AvailabilityWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.windows[id]
	if !ok {
		return nil, ErrWindowNotFound
	}
	return &w, nil
}

func (r *memRepo) ListWindows(_ context.Context, providerID uuid.UUID, day *int) ([]AvailabilityWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []AvailabilityWindow
	for _, w := range r.windows {
		if w.ProviderID != providerID || !w.Active {
			continue
		}
		if day != nil && w.Day != *day {
			continue
		}
		result = append(result, w)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Day != result[j].Day {
			return result[i].Day < result[j].Day
		}
		return result[i].Start < result[j].Start
	})
	return result, nil
}

func (r *memRepo) InsertWindow(_ context.Context, w AvailabilityWindow) (*AvailabilityWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w.CreatedAt = time.Now()
	r.windows[w.ID] = w
	return &w, nil
}

func (r *memRepo) UpdateWindow(_ context.Context, w AvailabilityWindow) (*AvailabilityWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.windows[w.ID]; !ok {
		return nil, ErrWindowNotFound
	}
	r.windows[w.ID] = w
	return &w, nil
}

func (r *memRepo) DeleteWindow(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.windows[id]; !ok {
		return ErrWindowNotFound
	}
	delete(r.windows, id)
	return nil
}

func (r *memRepo) GetAppointmentByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return &a, nil
}

func (r *memRepo) ListOccupyingBetween(_ context.Context, providerID uuid.UUID, from, to time.Time) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []Appointment
	for _, a := range r.appointments {
		if a.ProviderID != providerID || !a.Status.Occupying() {
			continue
		}
		if a.StartsAt.Before(to) && a.EndsAt().After(from) {
			result = append(result, a)
		}
	}
	sortByStart(result)
	return result, nil
}

func (r *memRepo) ListOccupyingForPatient(_ context.Context, patientID, providerID uuid.UUID, after time.Time) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []Appointment
	for _, a := range r.appointments {
		if a.PatientID != patientID || a.ProviderID != providerID {
			continue
		}
		if a.Status.Occupying() && a.StartsAt.After(after) {
			result = append(result, a)
		}
	}
	sortByStart(result)
	return result, nil
}

func (r *memRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []Appointment
	for _, a := range r.appointments {
		if a.PatientID == patientID {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartsAt.After(result[j].StartsAt) })
	return result, nil
}

func (r *memRepo) ListByProvider(_ context.Context, providerID uuid.UUID) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []Appointment
	for _, a := range r.appointments {
		if a.ProviderID == providerID {
			result = append(result, a)
		}
	}
	sortByStart(result)
	return result, nil
}

func (r *memRepo) InsertAppointment(_ context.Context, a Appointment) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.appointments[a.ID] = a
	return &a, nil
}

func (r *memRepo) UpdateAppointmentStatus(_ context.Context, id uuid.UUID, from, to AppointmentStatus, providerNotes *string) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok || a.Status != from {
		return nil, ErrAppointmentNotFound
	}
	a.Status = to
	if providerNotes != nil {
		a.ProviderNotes = providerNotes
	}
	a.UpdatedAt = time.Now()
	r.appointments[id] = a
	return &a, nil
}

func (r *memRepo) FindUpcomingUnreminded(_ context.Context, from, until time.Time) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []Appointment
	for _, a := range r.appointments {
		if a.Status != StatusConfirmed || a.ReminderSent {
			continue
		}
		if !a.StartsAt.Before(from) && a.StartsAt.Before(until) {
			result = append(result, a)
		}
	}
	sortByStart(result)
	return result, nil
}

func (r *memRepo) MarkReminded(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return ErrAppointmentNotFound
	}
	a.ReminderSent = true
	r.appointments[id] = a
	return nil
}

func (r *memRepo) CountActiveProviders(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.providers {
		if p.Active {
			n++
		}
	}
	return n, nil
}

func (r *memRepo) CountAppointmentsByStatus(_ context.Context) (map[AppointmentStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[AppointmentStatus]int64)
	for _, a := range r.appointments {
		counts[a.Status]++
	}
	return counts, nil
}

func (r *memRepo) InsertEvent(_ context.Context, ev EventLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev.ID = int64(len(r.events) + 1)
	r.events = append(r.events, ev)
	return nil
}

func (r *memRepo) eventTypes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, len(r.events))
	for i, ev := range r.events {
		types[i] = ev.EventType
	}
	return types
}

func sortByStart(appts []Appointment) {
	sort.Slice(appts, func(i, j int) bool { return appts[i].StartsAt.Before(appts[j].StartsAt) })
}

// memLocker serializes critical sections per provider in-process, standing
// in for the Redis locker.
type memLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newMemLocker() *memLocker {
	return &memLocker{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *memLocker) WithProviderLock(ctx context.Context, providerID uuid.UUID, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	m, ok := l.locks[providerID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[providerID] = m
	}
	l.mu.Unlock()

	m.Lock()
	defer m.Unlock()
	return fn(ctx)
}

// testClock is Monday 2026-09-07 08:00 UTC. Fixtures book relative to it.
var testClock = time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)

func testPolicy() config.Policy {
	return config.Policy{
		GranuleMinutes:         30,
		MinDurationMinutes:     15,
		DefaultDurationMinutes: 30,
		DayStart:               mustTime("06:00"),
		DayEnd:                 mustTime("22:00"),
	}
}

type fixture struct {
	svc      *Service
	repo     *memRepo
	provider Provider
	patient  Patient
}

func newFixture(policy config.Policy) *fixture {
	repo := newMemRepo()
	svc := NewService(repo, newMemLocker(), policy)
	svc.now = func() time.Time { return testClock }

	provider := Provider{ID: uuid.New(), Name: "Dr. Reyes", Active: true}
	patient := Patient{ID: uuid.New(), Name: "Ana Ruiz"}
	repo.providers[provider.ID] = provider
	repo.patients[patient.ID] = patient

	return &fixture{svc: svc, repo: repo, provider: provider, patient: patient}
}

func (f *fixture) addPatient() Patient {
	p := Patient{ID: uuid.New(), Name: "Extra Patient"}
	f.repo.patients[p.ID] = p
	return p
}

// addWindow installs an active window directly, bypassing service checks.
func (f *fixture) addWindow(day int, start, end string) AvailabilityWindow {
	w := AvailabilityWindow{
		ID:         uuid.New(),
		ProviderID: f.provider.ID,
		Day:        day,
		Start:      mustTime(start),
		End:        mustTime(end),
		Active:     true,
	}
	f.repo.windows[w.ID] = w
	return w
}

func mustTime(s string) interval.TimeOfDay {
	t, err := interval.ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// on returns a wall-clock time on the given date of test week, where day 1
// is Monday 2026-09-07.
func on(day int, clock string) time.Time {
	t := mustTime(clock)
	date := testClock.AddDate(0, 0, day-1)
	return t.At(date)
}
