package users

import (
	"context"
	"errors"
	"testing"

	"agendai_backend/platform/apperr"

	"github.com/google/uuid"
)

type fakeStore struct {
	saved map[uuid.UUID]NotificationSettings
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: make(map[uuid.UUID]NotificationSettings)}
}

func (s *fakeStore) GetNotificationSettings(_ context.Context, userID uuid.UUID) (NotificationSettings, error) {
	return s.saved[userID], nil
}

func (s *fakeStore) SaveNotificationSettings(_ context.Context, userID uuid.UUID, settings NotificationSettings) error {
	s.saved[userID] = settings
	return nil
}

func TestUpdateSettingsNormalizesPhone(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	userID := uuid.New()

	settings, err := svc.UpdateSettings(context.Background(), userID, "(11) 98888-7777", true)
	if err != nil {
		t.Fatal(err)
	}
	if settings.Phone == nil || *settings.Phone != "+5511988887777" {
		t.Errorf("phone = %v", settings.Phone)
	}
	if !store.saved[userID].WhatsAppEnabled {
		t.Error("opt-in flag not saved")
	}
}

func TestUpdateSettingsRejectsInvalidPhoneWhenEnabling(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	userID := uuid.New()

	_, err := svc.UpdateSettings(context.Background(), userID, "123", true)

	var domainErr *apperr.Error
	if !errors.As(err, &domainErr) || domainErr.Kind != apperr.KindValidation {
		t.Fatalf("err = %v, want validation error", err)
	}
	if _, saved := store.saved[userID]; saved {
		t.Fatal("invalid phone must not be stored")
	}
}

func TestUpdateSettingsRequiresPhoneWhenEnabling(t *testing.T) {
	svc := NewService(newFakeStore())

	_, err := svc.UpdateSettings(context.Background(), uuid.New(), "", true)

	var domainErr *apperr.Error
	if !errors.As(err, &domainErr) || domainErr.Kind != apperr.KindValidation {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestUpdateSettingsAllowsDisablingWithoutPhone(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	userID := uuid.New()

	settings, err := svc.UpdateSettings(context.Background(), userID, "", false)
	if err != nil {
		t.Fatal(err)
	}
	if settings.Phone != nil || settings.WhatsAppEnabled {
		t.Errorf("settings = %+v", settings)
	}
}

func TestUpdateSettingsKeepsUnvalidatedPhoneWhenDisabled(t *testing.T) {
	// Storing a short number while opted out is fine: validation only gates
	// enabling the channel.
	store := newFakeStore()
	svc := NewService(store)
	userID := uuid.New()

	settings, err := svc.UpdateSettings(context.Background(), userID, "98888-7777", false)
	if err != nil {
		t.Fatal(err)
	}
	if settings.Phone == nil || *settings.Phone != "+55988887777" {
		t.Errorf("phone = %v", settings.Phone)
	}
}
