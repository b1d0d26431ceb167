package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables and indexes the service needs. It is
// idempotent and is run by the seed tool and at server startup in dev.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS patients (
			id         UUID PRIMARY KEY,
			name       TEXT NOT NULL,
			email      TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS providers (
			id               UUID PRIMARY KEY,
			name             TEXT NOT NULL,
			specialty        TEXT,
			bio              TEXT,
			experience_years INT NOT NULL DEFAULT 0,
			consultation_fee DOUBLE PRECISION NOT NULL DEFAULT 0,
			active           BOOLEAN NOT NULL DEFAULT TRUE,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS availability_windows (
			id           UUID PRIMARY KEY,
			provider_id  UUID NOT NULL REFERENCES providers (id),
			day          SMALLINT NOT NULL CHECK (day BETWEEN 1 AND 7),
			start_minute INT NOT NULL,
			end_minute   INT NOT NULL CHECK (start_minute < end_minute),
			active       BOOLEAN NOT NULL DEFAULT TRUE,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_windows_provider_day
			ON availability_windows (provider_id, day, start_minute)`,
		`CREATE TABLE IF NOT EXISTS appointments (
			id               UUID PRIMARY KEY,
			provider_id      UUID NOT NULL REFERENCES providers (id),
			patient_id       UUID NOT NULL REFERENCES patients (id),
			starts_at        TIMESTAMPTZ NOT NULL,
			duration_minutes INT NOT NULL CHECK (duration_minutes > 0),
			status           TEXT NOT NULL DEFAULT 'pending',
			patient_notes    TEXT,
			provider_notes   TEXT,
			reminder_sent    BOOLEAN NOT NULL DEFAULT FALSE,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		// Serves the "occupying appointments of provider X in a date range"
		// query that every booking and slot listing runs.
		`CREATE INDEX IF NOT EXISTS idx_appointments_provider_start
			ON appointments (provider_id, starts_at)
			WHERE status IN ('pending', 'confirmed')`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_patient
			ON appointments (patient_id, starts_at)`,
		`CREATE TABLE IF NOT EXISTS event_logs (
			id             BIGSERIAL PRIMARY KEY,
			event_type     TEXT NOT NULL,
			appointment_id UUID REFERENCES appointments (id),
			payload        JSONB,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
