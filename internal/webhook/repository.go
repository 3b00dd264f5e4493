package webhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agendai_backend/internal/parser"
	"agendai_backend/internal/reminder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements Store on Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a webhook repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FindUserByPhoneSuffix matches on the trailing digits of the stored phone,
// stripped of formatting. Ambiguous suffixes resolve to an arbitrary single
// user.
func (r *Repository) FindUserByPhoneSuffix(ctx context.Context, suffix string) (*User, error) {
	if suffix == "" {
		return nil, nil
	}

	var user User
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, phone
		 FROM users
		 WHERE phone IS NOT NULL
		   AND right(regexp_replace(phone, '\D', '', 'g'), 9) = $1
		 LIMIT 1`,
		suffix,
	).Scan(&user.ID, &user.Name, &user.Phone)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by phone suffix: %w", err)
	}
	return &user, nil
}

// ListUpcoming returns the soonest active appointments after the given
// instant.
func (r *Repository) ListUpcoming(ctx context.Context, userID uuid.UUID, after time.Time, limit int) ([]Upcoming, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT title, location, starts_at
		 FROM appointments
		 WHERE user_id = $1 AND status = $2 AND starts_at > $3
		 ORDER BY starts_at
		 LIMIT $4`,
		userID, reminder.AppointmentActive, after, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query upcoming appointments: %w", err)
	}
	defer rows.Close()

	var results []Upcoming
	for rows.Next() {
		var u Upcoming
		if err := rows.Scan(&u.Title, &u.Location, &u.StartsAt); err != nil {
			return nil, fmt.Errorf("scan upcoming appointment: %w", err)
		}
		results = append(results, u)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return results, nil
}

// CreateChatAppointment inserts the appointment and its reminder atomically.
// A partial insert would leave an appointment that never reminds, which is
// worse than a clean failure the user can retry.
func (r *Repository) CreateChatAppointment(ctx context.Context, userID uuid.UUID, cmd parser.Command, leadMinutes int) (uuid.UUID, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var appointmentID uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO appointments (user_id, title, starts_at, ends_at, origin, status)
		 VALUES ($1, $2, $3, $4, 'whatsapp', 'active')
		 RETURNING id`,
		userID, cmd.Title, cmd.Start, cmd.End,
	).Scan(&appointmentID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert chat appointment: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO reminders (appointment_id, channel, lead_minutes)
		 VALUES ($1, $2, $3)`,
		appointmentID, reminder.ChannelWhatsApp, leadMinutes,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert reminder: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("commit chat appointment: %w", err)
	}
	return appointmentID, nil
}

var _ Store = (*Repository)(nil)
