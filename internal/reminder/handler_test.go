package reminder

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agendai_backend/internal/whatsapp"
	"agendai_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

type cronConfig struct {
	secret string
	dev    bool
}

func (c cronConfig) GetCronSecret() string { return c.secret }
func (c cronConfig) IsDevelopment() bool   { return c.dev }

type waConfig struct {
	enabled bool
}

func (c waConfig) GetWhatsAppGraphBaseURL() string     { return "https://graph.example.test/v21.0" }
func (c waConfig) GetWhatsAppPhoneID() string          { return "12345" }
func (c waConfig) GetWhatsAppAPIToken() string         { return "token" }
func (c waConfig) GetWhatsAppTemplateName() string     { return "lembrete_compromisso" }
func (c waConfig) GetWhatsAppTemplateLanguage() string { return "pt_BR" }
func (c waConfig) GetWhatsAppSendRate() float64        { return 10 }
func (c waConfig) IsWhatsAppEnabled() bool             { return c.enabled }

func newScanRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1/cron"))
	return r
}

func doScan(t *testing.T, r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cron/reminders", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleScanRequiresCronSecret(t *testing.T) {
	store := newFakeStore()
	d := newTestDispatcher(store, &fakeSender{})
	h := NewHandler(d, cronConfig{secret: "s3cret"}, waConfig{enabled: true})
	r := newScanRouter(h)

	if w := doScan(t, r, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing credential: status = %d", w.Code)
	}
	if w := doScan(t, r, "Bearer wrong"); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong credential: status = %d", w.Code)
	}
	if w := doScan(t, r, "Bearer s3cret"); w.Code != http.StatusOK {
		t.Fatalf("correct credential: status = %d", w.Code)
	}
}

func TestHandleScanPermissiveWithoutSecret(t *testing.T) {
	d := newTestDispatcher(newFakeStore(), &fakeSender{})
	h := NewHandler(d, cronConfig{}, waConfig{enabled: true})
	r := newScanRouter(h)

	if w := doScan(t, r, ""); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestHandleScanDevelopmentBypassesWrongSecret(t *testing.T) {
	d := newTestDispatcher(newFakeStore(), &fakeSender{})
	h := NewHandler(d, cronConfig{secret: "s3cret", dev: true}, waConfig{enabled: true})
	r := newScanRouter(h)

	if w := doScan(t, r, ""); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestHandleScanWhenWhatsAppNotConfigured(t *testing.T) {
	c := candidate(30*time.Minute, 60)
	store := newFakeStore(c)
	sender := &fakeSender{result: whatsapp.Result{Success: true}}
	d := newTestDispatcher(store, sender)
	h := NewHandler(d, cronConfig{}, waConfig{enabled: false})
	r := newScanRouter(h)

	w := doScan(t, r, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var body ScanResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Message != "WhatsApp não configurado" {
		t.Errorf("message = %q", body.Message)
	}
	if len(sender.calls) != 0 || store.sent[c.ID] {
		t.Fatal("unconfigured channel must leave reminders pending")
	}
}

func TestHandleScanResponseShape(t *testing.T) {
	store := newFakeStore(candidate(30*time.Minute, 60))
	sender := &fakeSender{result: whatsapp.Result{Success: true, MessageID: "wamid.2"}}
	d := NewDispatcher(store, sender, "lembrete_compromisso", time.UTC, fixedClock, logger.New("development"))
	h := NewHandler(d, cronConfig{}, waConfig{enabled: true})
	r := newScanRouter(h)

	w := doScan(t, r, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"message", "enviados", "erros", "total", "resultados"} {
		if _, ok := body[key]; !ok {
			t.Errorf("response missing %q key", key)
		}
	}

	var parsed ScanResponse
	if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
		t.Fatal(err)
	}
	if parsed.Enviados != 1 || parsed.Erros != 0 || parsed.Total != 1 {
		t.Errorf("body = %+v", parsed)
	}
	if len(parsed.Resultados) != 1 || parsed.Resultados[0].Status != "sent" {
		t.Errorf("resultados = %+v", parsed.Resultados)
	}
}
