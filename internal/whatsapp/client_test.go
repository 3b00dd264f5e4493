package whatsapp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"agendai_backend/platform/logger"
)

type testConfig struct {
	baseURL string
	phoneID string
	token   string
}

func (c testConfig) GetWhatsAppGraphBaseURL() string     { return c.baseURL }
func (c testConfig) GetWhatsAppPhoneID() string          { return c.phoneID }
func (c testConfig) GetWhatsAppAPIToken() string         { return c.token }
func (c testConfig) GetWhatsAppTemplateName() string     { return "lembrete_compromisso" }
func (c testConfig) GetWhatsAppTemplateLanguage() string { return "pt_BR" }
func (c testConfig) GetWhatsAppSendRate() float64        { return 1000 }
func (c testConfig) IsWhatsAppEnabled() bool             { return c.phoneID != "" && c.token != "" }

type memoryStore struct {
	entries []LogEntry
}

func (s *memoryStore) Insert(_ context.Context, entry LogEntry) error {
	s.entries = append(s.entries, entry)
	return nil
}

func newTestClient(baseURL string, store Store) *Client {
	cfg := testConfig{baseURL: baseURL, phoneID: "12345", token: "secret"}
	return NewClient(cfg, store, logger.New("development"))
}

func TestSendTextNotConfigured(t *testing.T) {
	store := &memoryStore{}
	client := NewClient(testConfig{}, store, logger.New("development"))

	result := client.SendText(context.Background(), "+5511999999999", "oi", nil)
	if result.Success {
		t.Fatal("expected failure result")
	}
	if result.Error != "whatsapp not configured" {
		t.Fatalf("error = %q", result.Error)
	}
	if len(store.entries) != 0 {
		t.Fatalf("expected no log entries without a provider call, got %d", len(store.entries))
	}
}

func TestSendTextSuccessLogsOnce(t *testing.T) {
	var gotBody []byte
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.123"}]}`))
	}))
	defer server.Close()

	store := &memoryStore{}
	client := newTestClient(server.URL, store)

	result := client.SendText(context.Background(), "+5511999999999", "olá", nil)
	if !result.Success {
		t.Fatalf("send failed: %s", result.Error)
	}
	if result.MessageID != "wamid.123" {
		t.Errorf("messageID = %q", result.MessageID)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("auth header = %q", gotAuth)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("request body not JSON: %v", err)
	}
	if payload["messaging_product"] != "whatsapp" || payload["type"] != "text" {
		t.Errorf("unexpected payload shape: %v", payload)
	}
	if payload["to"] != "5511999999999" {
		t.Errorf("destination should drop the plus, got %v", payload["to"])
	}

	if len(store.entries) != 1 {
		t.Fatalf("expected exactly one log entry, got %d", len(store.entries))
	}
	entry := store.entries[0]
	if !entry.Success || entry.Kind != "text" || entry.Body != "olá" {
		t.Errorf("unexpected log entry: %+v", entry)
	}
}

func TestSendTemplateProviderErrorLogsOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"(#131030) Recipient phone number not in allowed list","code":131030}}`))
	}))
	defer server.Close()

	store := &memoryStore{}
	client := newTestClient(server.URL, store)

	result := client.SendTemplate(context.Background(), "+5511999999999", "lembrete_compromisso", []string{"Ana", "Dentista", "30 minutos", "Não definido", "10:00"}, nil)
	if result.Success {
		t.Fatal("expected failure result")
	}
	if result.Error != "(#131030) Recipient phone number not in allowed list" {
		t.Errorf("error = %q", result.Error)
	}

	if len(store.entries) != 1 {
		t.Fatalf("expected exactly one log entry, got %d", len(store.entries))
	}
	entry := store.entries[0]
	if entry.Success {
		t.Error("log entry marked success for a failed attempt")
	}
	if entry.Kind != "template:lembrete_compromisso" {
		t.Errorf("kind = %q", entry.Kind)
	}
}

func TestSendTextTransportErrorLogsOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // force a connection error

	store := &memoryStore{}
	client := newTestClient(server.URL, store)

	result := client.SendText(context.Background(), "+5511999999999", "oi", nil)
	if result.Success {
		t.Fatal("expected failure result")
	}
	if result.Error == "" {
		t.Fatal("expected transport error text")
	}
	if len(store.entries) != 1 {
		t.Fatalf("expected exactly one log entry, got %d", len(store.entries))
	}
}

func TestSendTemplatePayloadShape(t *testing.T) {
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.456"}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, &memoryStore{})
	client.SendTemplate(context.Background(), "+5511999999999", "lembrete_compromisso", []string{"Ana", "Dentista"}, nil)

	var payload templatePayload
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("request body not JSON: %v", err)
	}
	if payload.Template.Name != "lembrete_compromisso" {
		t.Errorf("template name = %q", payload.Template.Name)
	}
	if payload.Template.Language.Code != "pt_BR" {
		t.Errorf("language = %q", payload.Template.Language.Code)
	}
	if len(payload.Template.Components) != 1 || payload.Template.Components[0].Type != "body" {
		t.Fatalf("components = %+v", payload.Template.Components)
	}
	params := payload.Template.Components[0].Parameters
	if len(params) != 2 || params[0].Text != "Ana" || params[1].Type != "text" {
		t.Errorf("parameters = %+v", params)
	}
}
