package users

import (
	"context"

	"agendai_backend/platform/apperr"
	"agendai_backend/platform/phone"

	"github.com/google/uuid"
)

// Service implements the notification settings use cases.
type Service struct {
	store Store
}

// NewService creates the users service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// GetSettings returns the user's current notification settings.
func (s *Service) GetSettings(ctx context.Context, userID uuid.UUID) (NotificationSettings, error) {
	settings, err := s.store.GetNotificationSettings(ctx, userID)
	if err != nil {
		return NotificationSettings{}, apperr.Wrap(apperr.KindInternal, "load notification settings", err)
	}
	return settings, nil
}

// UpdateSettings stores the normalized phone and the opt-in flag. Enabling
// WhatsApp requires a phone the channel can actually deliver to; an invalid
// one is rejected rather than silently stored.
func (s *Service) UpdateSettings(ctx context.Context, userID uuid.UUID, rawPhone string, enabled bool) (NotificationSettings, error) {
	settings := NotificationSettings{WhatsAppEnabled: enabled}

	if rawPhone != "" {
		normalized := phone.Normalize(rawPhone)
		if enabled && !phone.IsValidWhatsApp(normalized) {
			return NotificationSettings{}, apperr.Validation("telefone inválido para WhatsApp: use DDD + número")
		}
		settings.Phone = &normalized
	} else if enabled {
		return NotificationSettings{}, apperr.Validation("telefone é obrigatório para ativar o WhatsApp")
	}

	if err := s.store.SaveNotificationSettings(ctx, userID, settings); err != nil {
		return NotificationSettings{}, apperr.Wrap(apperr.KindInternal, "save notification settings", err)
	}
	return settings, nil
}
