// Package repository provides Postgres persistence for appointments.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when an appointment does not exist or belongs to a
// different user.
var ErrNotFound = errors.New("appointment not found")

// Appointment is the persistence model.
type Appointment struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description *string
	Location    *string
	StartsAt    time.Time
	EndsAt      time.Time
	Origin      string
	Status      string
	CreatedAt   time.Time
}

// ReminderSpec describes the reminder row created alongside an appointment.
type ReminderSpec struct {
	Channel     string
	LeadMinutes int
}

// Repository provides appointment persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new appointments repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const appointmentColumns = `id, user_id, title, description, location, starts_at, ends_at, origin, status, created_at`

func scanAppointment(row pgx.Row) (Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.UserID, &a.Title, &a.Description, &a.Location,
		&a.StartsAt, &a.EndsAt, &a.Origin, &a.Status, &a.CreatedAt)
	return a, err
}

// Create inserts the appointment and, when reminder is non-nil, its pending
// reminder row in one transaction.
func (r *Repository) Create(ctx context.Context, a Appointment, reminder *ReminderSpec) (Appointment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Appointment{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	created, err := scanAppointment(tx.QueryRow(ctx,
		`INSERT INTO appointments (user_id, title, description, location, starts_at, ends_at, origin, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+appointmentColumns,
		a.UserID, a.Title, a.Description, a.Location, a.StartsAt, a.EndsAt, a.Origin, a.Status,
	))
	if err != nil {
		return Appointment{}, fmt.Errorf("insert appointment: %w", err)
	}

	if reminder != nil {
		_, err = tx.Exec(ctx,
			`INSERT INTO reminders (appointment_id, channel, lead_minutes)
			 VALUES ($1, $2, $3)`,
			created.ID, reminder.Channel, reminder.LeadMinutes,
		)
		if err != nil {
			return Appointment{}, fmt.Errorf("insert reminder: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Appointment{}, fmt.Errorf("commit appointment: %w", err)
	}
	return created, nil
}

// List returns the user's appointments starting at or after from, soonest
// first.
func (r *Repository) List(ctx context.Context, userID uuid.UUID, from time.Time, limit int) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+appointmentColumns+`
		 FROM appointments
		 WHERE user_id = $1 AND starts_at >= $2
		 ORDER BY starts_at
		 LIMIT $3`,
		userID, from, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query appointments: %w", err)
	}
	defer rows.Close()

	var results []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		results = append(results, a)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return results, nil
}

// GetByID returns the appointment scoped to its owner.
func (r *Repository) GetByID(ctx context.Context, id, userID uuid.UUID) (Appointment, error) {
	a, err := scanAppointment(r.pool.QueryRow(ctx,
		`SELECT `+appointmentColumns+`
		 FROM appointments
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Appointment{}, ErrNotFound
	}
	if err != nil {
		return Appointment{}, fmt.Errorf("get appointment: %w", err)
	}
	return a, nil
}

// Update persists the mutable fields of an appointment.
func (r *Repository) Update(ctx context.Context, a Appointment) (Appointment, error) {
	updated, err := scanAppointment(r.pool.QueryRow(ctx,
		`UPDATE appointments
		 SET title = $3, description = $4, location = $5, starts_at = $6, ends_at = $7, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+appointmentColumns,
		a.ID, a.UserID, a.Title, a.Description, a.Location, a.StartsAt, a.EndsAt,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Appointment{}, ErrNotFound
	}
	if err != nil {
		return Appointment{}, fmt.Errorf("update appointment: %w", err)
	}
	return updated, nil
}

// UpdateStatus changes only the status.
func (r *Repository) UpdateStatus(ctx context.Context, id, userID uuid.UUID, status string) (Appointment, error) {
	updated, err := scanAppointment(r.pool.QueryRow(ctx,
		`UPDATE appointments
		 SET status = $3, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+appointmentColumns,
		id, userID, status,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Appointment{}, ErrNotFound
	}
	if err != nil {
		return Appointment{}, fmt.Errorf("update appointment status: %w", err)
	}
	return updated, nil
}

// OwnerHasWhatsApp reports whether the user opted in to WhatsApp reminders.
func (r *Repository) OwnerHasWhatsApp(ctx context.Context, userID uuid.UUID) (bool, error) {
	var enabled bool
	err := r.pool.QueryRow(ctx,
		`SELECT whatsapp_enabled FROM users WHERE id = $1`,
		userID,
	).Scan(&enabled)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query whatsapp opt-in: %w", err)
	}
	return enabled, nil
}
