package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements Store on Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a reminder repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListPending returns unsent WhatsApp reminders joined with their appointment
// and owner. Due-time evaluation happens in the dispatcher, against its clock.
func (r *Repository) ListPending(ctx context.Context) ([]DueCandidate, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT r.id, r.lead_minutes,
		        a.id, a.title, a.location, a.starts_at, a.status,
		        u.id, u.name, u.phone
		 FROM reminders r
		 JOIN appointments a ON a.id = r.appointment_id
		 JOIN users u ON u.id = a.user_id
		 WHERE r.sent = false AND r.channel = $1
		 ORDER BY a.starts_at`,
		ChannelWhatsApp,
	)
	if err != nil {
		return nil, fmt.Errorf("query pending reminders: %w", err)
	}
	defer rows.Close()

	var results []DueCandidate
	for rows.Next() {
		var c DueCandidate
		if err := rows.Scan(
			&c.ID, &c.LeadMinutes,
			&c.Appointment.ID, &c.Appointment.Title, &c.Appointment.Location,
			&c.Appointment.StartsAt, &c.Appointment.Status,
			&c.Owner.ID, &c.Owner.Name, &c.Owner.Phone,
		); err != nil {
			return nil, fmt.Errorf("scan pending reminder: %w", err)
		}
		results = append(results, c)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return results, nil
}

// MarkSent flips sent=false to sent=true in one conditional update. The WHERE
// clause on sent makes the transition safe against overlapping scans.
func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE reminders SET sent = true, sent_at = $2 WHERE id = $1 AND sent = false`,
		id, at,
	)
	if err != nil {
		return false, fmt.Errorf("mark reminder sent: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// RecordNotification appends a notification outcome row.
func (r *Repository) RecordNotification(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}

	var errText *string
	if n.Error != "" {
		errText = &n.Error
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO notifications (user_id, appointment_id, channel, status, payload, error, sent_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		n.UserID, n.AppointmentID, ChannelWhatsApp, n.Status, payload, errText, n.SentAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

var _ Store = (*Repository)(nil)
