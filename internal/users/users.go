// Package users manages the notification settings of an account: the phone
// the WhatsApp channel delivers to and the opt-in flag.
package users

import (
	"context"

	"github.com/google/uuid"
)

// NotificationSettings is the channel configuration stored per user.
type NotificationSettings struct {
	Phone           *string `json:"phone"`
	WhatsAppEnabled bool    `json:"whatsapp_enabled"`
}

// Store is the persistence surface of the users service.
type Store interface {
	// GetNotificationSettings returns the user's current settings.
	GetNotificationSettings(ctx context.Context, userID uuid.UUID) (NotificationSettings, error)
	// SaveNotificationSettings overwrites the user's settings.
	SaveNotificationSettings(ctx context.Context, userID uuid.UUID, s NotificationSettings) error
}
