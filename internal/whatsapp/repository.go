package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists delivery log entries in the whatsapp_log table.
// Entries are append-only; nothing in this subsystem mutates or deletes them.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a delivery log repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert appends one delivery log entry.
func (r *Repository) Insert(ctx context.Context, entry LogEntry) error {
	payload, err := json.Marshal(entry.Payload)
	if err != nil {
		return fmt.Errorf("marshal log payload: %w", err)
	}

	var errText *string
	if entry.Error != "" {
		errText = &entry.Error
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO whatsapp_log (user_id, kind, destination, body, payload, success, error)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.UserID, entry.Kind, entry.Destination, entry.Body, payload, entry.Success, errText,
	)
	if err != nil {
		return fmt.Errorf("insert whatsapp log: %w", err)
	}
	return nil
}

var _ Store = (*Repository)(nil)
