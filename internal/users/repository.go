package users

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements Store on Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a users repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetNotificationSettings returns the user's stored settings.
func (r *Repository) GetNotificationSettings(ctx context.Context, userID uuid.UUID) (NotificationSettings, error) {
	var settings NotificationSettings
	err := r.pool.QueryRow(ctx,
		`SELECT phone, whatsapp_enabled FROM users WHERE id = $1`,
		userID,
	).Scan(&settings.Phone, &settings.WhatsAppEnabled)
	if err != nil {
		return NotificationSettings{}, fmt.Errorf("query notification settings: %w", err)
	}
	return settings, nil
}

// SaveNotificationSettings overwrites phone and opt-in flag.
func (r *Repository) SaveNotificationSettings(ctx context.Context, userID uuid.UUID, s NotificationSettings) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET phone = $2, whatsapp_enabled = $3, updated_at = now() WHERE id = $1`,
		userID, s.Phone, s.WhatsAppEnabled,
	)
	if err != nil {
		return fmt.Errorf("update notification settings: %w", err)
	}
	return nil
}

var _ Store = (*Repository)(nil)
