package users

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"agendai_backend/platform/httpkit"
	"agendai_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newTestRouter(t *testing.T, store Store, userID uuid.UUID) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set(httpkit.ContextUserIDKey, userID)
	})

	h := NewHandler(NewService(store), validator.New())
	h.RegisterRoutes(engine.Group("/settings"))
	return engine
}

func TestGetSettingsFormatsPhoneForDisplay(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()
	stored := "+5511988887777"
	store.saved[userID] = NotificationSettings{Phone: &stored, WhatsAppEnabled: true}

	engine := newTestRouter(t, store, userID)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/settings/notifications", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp SettingsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Phone == nil || *resp.Phone != "+5511988887777" {
		t.Errorf("phone = %v", resp.Phone)
	}
	if resp.PhoneDisplay == nil || *resp.PhoneDisplay != "+55 11 98888-7777" {
		t.Errorf("phone_display = %v, want +55 11 98888-7777", resp.PhoneDisplay)
	}
}

func TestGetSettingsWithoutPhoneOmitsDisplay(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()

	engine := newTestRouter(t, store, userID)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/settings/notifications", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp SettingsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Phone != nil || resp.PhoneDisplay != nil {
		t.Errorf("resp = %+v, want empty phones", resp)
	}
}

func TestUpdateSettingsResponseIncludesDisplayPhone(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()

	engine := newTestRouter(t, store, userID)
	body := `{"phone": "(11) 98888-7777", "whatsapp_enabled": true}`
	req := httptest.NewRequest(http.MethodPut, "/settings/notifications", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp SettingsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.PhoneDisplay == nil || *resp.PhoneDisplay != "+55 11 98888-7777" {
		t.Errorf("phone_display = %v, want +55 11 98888-7777", resp.PhoneDisplay)
	}
	if saved := store.saved[userID]; saved.Phone == nil || *saved.Phone != "+5511988887777" {
		t.Errorf("stored phone = %v, want E.164", saved.Phone)
	}
}
