package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicdesk/clinic-scheduling/internal/interval"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	var email *string

	err := row.Scan(
		&p.ID,
		&p.Name,
		&email,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	p.Email = email
	return &p, nil
}

func scanProvider(row pgx.Row) (*Provider, error) {
	var p Provider

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Specialty,
		&p.Bio,
		&p.ExperienceYears,
		&p.ConsultationFee,
		&p.Active,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}

	return &p, nil
}

func scanWindow(row pgx.Row) (*AvailabilityWindow, error) {
	var w AvailabilityWindow
	var startMinute, endMinute int

	err := row.Scan(
		&w.ID,
		&w.ProviderID,
		&w.Day,
		&startMinute,
		&endMinute,
		&w.Active,
		&w.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWindowNotFound
		}
		return nil, err
	}

	w.Start = interval.TimeOfDay(startMinute)
	w.End = interval.TimeOfDay(endMinute)
	return &w, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment

	err := row.Scan(
		&a.ID,
		&a.ProviderID,
		&a.PatientID,
		&a.StartsAt,
		&a.DurationMinutes,
		&a.Status,
		&a.PatientNotes,
		&a.ProviderNotes,
		&a.ReminderSent,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	return &a, nil
}

const appointmentColumns = `id, provider_id, patient_id, starts_at, duration_minutes, status, patient_notes, provider_notes, reminder_sent, created_at, updated_at`

const windowColumns = `id, provider_id, day, start_minute, end_minute, active, created_at`

// Interface methods

func (r *PgRepository) GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, created_at, updated_at
		FROM patients
		WHERE id = $1
	`, id)
	return scanPatient(row)
}

func (r *PgRepository) GetProviderByID(ctx context.Context, id uuid.UUID) (*Provider, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, specialty, bio, experience_years, consultation_fee, active, created_at, updated_at
		FROM providers
		WHERE id = $1
	`, id)
	return scanProvider(row)
}

// ListActiveProviders feeds the recommendation scorer. An empty specialty
// matches all.
func (r *PgRepository) ListActiveProviders(ctx context.Context, specialty string) ([]Provider, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, specialty, bio, experience_years, consultation_fee, active, created_at, updated_at
		FROM providers
		WHERE active
		  AND ($1 = '' OR specialty = $1)
		ORDER BY name
	`, specialty)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Provider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func (r *PgRepository) GetWindowByID(ctx context.Context, id uuid.UUID) (*AvailabilityWindow, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+windowColumns+`
		FROM availability_windows
		WHERE id = $1
	`, id)
	return scanWindow(row)
}

func (r *PgRepository) ListWindows(ctx context.Context, providerID uuid.UUID, day *int) ([]AvailabilityWindow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+windowColumns+`
		FROM availability_windows
		WHERE provider_id = $1
		  AND active
		  AND ($2::smallint IS NULL OR day = $2)
		ORDER BY day, start_minute
	`, providerID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AvailabilityWindow
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *w)
	}
	return result, rows.Err()
}

func (r *PgRepository) InsertWindow(ctx context.Context, w AvailabilityWindow) (*AvailabilityWindow, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO availability_windows (id, provider_id, day, start_minute, end_minute, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING `+windowColumns+`
	`, w.ID, w.ProviderID, w.Day, w.Start.Minutes(), w.End.Minutes(), w.Active)
	return scanWindow(row)
}

func (r *PgRepository) UpdateWindow(ctx context.Context, w AvailabilityWindow) (*AvailabilityWindow, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE availability_windows
		SET day = $2,
		    start_minute = $3,
		    end_minute = $4
		WHERE id = $1
		RETURNING `+windowColumns+`
	`, w.ID, w.Day, w.Start.Minutes(), w.End.Minutes())
	return scanWindow(row)
}

func (r *PgRepository) DeleteWindow(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM availability_windows WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete window: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrWindowNotFound
	}
	return nil
}

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) ListOccupyingBetween(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]Appointment, error) {
	// The (provider_id, starts_at) index keeps this fast; the duration term
	// widens the lower bound so long appointments straddling `from` are
	// still caught.
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE provider_id = $1
		  AND status IN ('pending', 'confirmed')
		  AND starts_at < $3
		  AND starts_at + duration_minutes * interval '1 minute' > $2
		ORDER BY starts_at
	`, providerID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (r *PgRepository) ListOccupyingForPatient(ctx context.Context, patientID, providerID uuid.UUID, after time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE patient_id = $1
		  AND provider_id = $2
		  AND status IN ('pending', 'confirmed')
		  AND starts_at > $3
		ORDER BY starts_at
	`, patientID, providerID, after)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (r *PgRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE patient_id = $1
		ORDER BY starts_at DESC
	`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (r *PgRepository) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE provider_id = $1
		ORDER BY starts_at
	`, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (r *PgRepository) InsertAppointment(ctx context.Context, a Appointment) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, provider_id, patient_id, starts_at, duration_minutes, status, patient_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING `+appointmentColumns+`
	`, a.ID, a.ProviderID, a.PatientID, a.StartsAt, a.DurationMinutes, a.Status, a.PatientNotes)
	return scanAppointment(row)
}

func (r *PgRepository) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, from, to AppointmentStatus, providerNotes *string) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2,
		    provider_notes = COALESCE($4, provider_notes),
		    updated_at = now()
		WHERE id = $1
		  AND status = $3
		RETURNING `+appointmentColumns+`
	`, id, to, from, providerNotes)
	return scanAppointment(row)
}

func (r *PgRepository) FindUpcomingUnreminded(ctx context.Context, from, until time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE status = 'confirmed'
		  AND NOT reminder_sent
		  AND starts_at >= $1
		  AND starts_at < $2
		ORDER BY starts_at
	`, from, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (r *PgRepository) MarkReminded(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments
		SET reminder_sent = TRUE,
		    updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("mark reminded: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func (r *PgRepository) CountActiveProviders(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM providers WHERE active`).Scan(&n)
	return n, err
}

func (r *PgRepository) CountAppointmentsByStatus(ctx context.Context) (map[AppointmentStatus]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, count(*)
		FROM appointments
		GROUP BY status
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[AppointmentStatus]int64)
	for rows.Next() {
		var status AppointmentStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		result[status] = n
	}
	return result, rows.Err()
}

func (r *PgRepository) InsertEvent(ctx context.Context, ev EventLog) error {
	var appID *uuid.UUID
	if ev.AppointmentID != nil {
		appID = ev.AppointmentID
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO event_logs (event_type, appointment_id, payload, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
	`, ev.EventType, appID, ev.Payload, nullableTime(ev.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert event log: %w", err)
	}

	return nil
}

func collectAppointments(rows pgx.Rows) ([]Appointment, error) {
	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
