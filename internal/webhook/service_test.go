package webhook

import (
	"context"
	"strings"
	"testing"
	"time"

	"agendai_backend/internal/parser"
	"agendai_backend/internal/whatsapp"
	"agendai_backend/platform/logger"

	"github.com/google/uuid"
)

type createdAppointment struct {
	userID      uuid.UUID
	cmd         parser.Command
	leadMinutes int
}

type fakeStore struct {
	user     *User
	upcoming []Upcoming
	created  []createdAppointment

	suffixQueried string
}

func (s *fakeStore) FindUserByPhoneSuffix(_ context.Context, suffix string) (*User, error) {
	s.suffixQueried = suffix
	return s.user, nil
}

func (s *fakeStore) ListUpcoming(context.Context, uuid.UUID, time.Time, int) ([]Upcoming, error) {
	return s.upcoming, nil
}

func (s *fakeStore) CreateChatAppointment(_ context.Context, userID uuid.UUID, cmd parser.Command, leadMinutes int) (uuid.UUID, error) {
	s.created = append(s.created, createdAppointment{userID: userID, cmd: cmd, leadMinutes: leadMinutes})
	return uuid.New(), nil
}

type sentText struct {
	to   string
	body string
}

type fakeTextSender struct {
	sent []sentText
}

func (s *fakeTextSender) SendText(_ context.Context, to, body string, _ *uuid.UUID) whatsapp.Result {
	s.sent = append(s.sent, sentText{to: to, body: body})
	return whatsapp.Result{Success: true, MessageID: "wamid.reply"}
}

type memoryLogStore struct {
	entries []whatsapp.LogEntry
}

func (s *memoryLogStore) Insert(_ context.Context, entry whatsapp.LogEntry) error {
	s.entries = append(s.entries, entry)
	return nil
}

var serviceNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func newTestService(store Store, sender *fakeTextSender, logStore *memoryLogStore) *Service {
	return NewService(store, sender, logStore, time.UTC,
		func() time.Time { return serviceNow }, logger.New("development"))
}

func registeredUser() *User {
	p := "+5511988887777"
	return &User{ID: uuid.New(), Name: "Ana", Phone: &p}
}

func textEvent(body string) MessageEvent {
	return MessageEvent{From: "5511988887777", MessageID: "wamid.in", Type: "text", Body: body}
}

func TestHandleMessageUnregisteredSender(t *testing.T) {
	store := &fakeStore{}
	sender := &fakeTextSender{}
	svc := newTestService(store, sender, &memoryLogStore{})

	svc.HandleMessage(context.Background(), textEvent("oi"))

	if store.suffixQueried != "988887777" {
		t.Errorf("suffix = %q, want last 9 digits", store.suffixQueried)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("replies = %d", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0].body, "não está cadastrado") {
		t.Errorf("reply = %q", sender.sent[0].body)
	}
	if sender.sent[0].to != "+5511988887777" {
		t.Errorf("reply destination = %q", sender.sent[0].to)
	}
}

func TestHandleMessageHelpKeywords(t *testing.T) {
	for _, keyword := range []string{"ajuda", "Ajuda", "help", "oi", "Olá", "ola"} {
		store := &fakeStore{user: registeredUser()}
		sender := &fakeTextSender{}
		svc := newTestService(store, sender, &memoryLogStore{})

		svc.HandleMessage(context.Background(), textEvent(keyword))

		if len(sender.sent) != 1 {
			t.Fatalf("%q: replies = %d", keyword, len(sender.sent))
		}
		if !strings.Contains(sender.sent[0].body, "Como criar compromissos") {
			t.Errorf("%q: reply = %q", keyword, sender.sent[0].body)
		}
	}
}

func TestHandleMessageAgendaListing(t *testing.T) {
	loc := "Clínica Central"
	store := &fakeStore{
		user: registeredUser(),
		upcoming: []Upcoming{
			{Title: "Dentista", Location: &loc, StartsAt: serviceNow.Add(24 * time.Hour)},
			{Title: "Reunião", StartsAt: serviceNow.Add(48 * time.Hour)},
		},
	}
	sender := &fakeTextSender{}
	svc := newTestService(store, sender, &memoryLogStore{})

	svc.HandleMessage(context.Background(), textEvent("agenda"))

	if len(sender.sent) != 1 {
		t.Fatalf("replies = %d", len(sender.sent))
	}
	body := sender.sent[0].body
	for _, fragment := range []string{"próximos compromissos", "1. *Dentista*", "2. *Reunião*", "Clínica Central", "15/03/2026"} {
		if !strings.Contains(body, fragment) {
			t.Errorf("agenda reply missing %q:\n%s", fragment, body)
		}
	}
}

func TestHandleMessageAgendaEmpty(t *testing.T) {
	store := &fakeStore{user: registeredUser()}
	sender := &fakeTextSender{}
	svc := newTestService(store, sender, &memoryLogStore{})

	svc.HandleMessage(context.Background(), textEvent("meus compromissos"))

	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0].body, "não tem compromissos") {
		t.Fatalf("replies = %+v", sender.sent)
	}
}

func TestHandleMessageCreatesAppointment(t *testing.T) {
	store := &fakeStore{user: registeredUser()}
	sender := &fakeTextSender{}
	svc := newTestService(store, sender, &memoryLogStore{})

	svc.HandleMessage(context.Background(), textEvent("Dentista | 15/03/2026 | 10:00 - 11:00"))

	if len(store.created) != 1 {
		t.Fatalf("created = %d", len(store.created))
	}
	created := store.created[0]
	if created.userID != store.user.ID {
		t.Errorf("created for wrong user")
	}
	if created.cmd.Title != "Dentista" {
		t.Errorf("title = %q", created.cmd.Title)
	}
	want := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	if !created.cmd.Start.Equal(want) {
		t.Errorf("start = %v, want %v", created.cmd.Start, want)
	}
	if created.leadMinutes != 60 {
		t.Errorf("lead = %d", created.leadMinutes)
	}

	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0].body, "criado com sucesso") {
		t.Fatalf("replies = %+v", sender.sent)
	}
}

func TestHandleMessageUnparseableFallsBackToHelp(t *testing.T) {
	store := &fakeStore{user: registeredUser()}
	sender := &fakeTextSender{}
	svc := newTestService(store, sender, &memoryLogStore{})

	svc.HandleMessage(context.Background(), textEvent("not a valid command"))

	if len(store.created) != 0 {
		t.Fatal("unparseable text must not create an appointment")
	}
	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0].body, "Não consegui entender") {
		t.Fatalf("replies = %+v", sender.sent)
	}
}

func TestHandleMessageNonTextMedia(t *testing.T) {
	store := &fakeStore{user: registeredUser()}
	sender := &fakeTextSender{}
	svc := newTestService(store, sender, &memoryLogStore{})

	svc.HandleMessage(context.Background(), MessageEvent{From: "5511988887777", Type: "image"})

	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0].body, "apenas mensagens de texto") {
		t.Fatalf("replies = %+v", sender.sent)
	}
	if store.suffixQueried != "" {
		t.Error("media reply must not require a user lookup")
	}
}

func TestHandleMessageLogsInbound(t *testing.T) {
	logStore := &memoryLogStore{}
	svc := newTestService(&fakeStore{user: registeredUser()}, &fakeTextSender{}, logStore)

	svc.HandleMessage(context.Background(), textEvent("oi"))

	if len(logStore.entries) != 1 {
		t.Fatalf("log entries = %d", len(logStore.entries))
	}
	entry := logStore.entries[0]
	if entry.Kind != "inbound:text" || entry.Body != "oi" || entry.Destination != "+5511988887777" {
		t.Errorf("entry = %+v", entry)
	}
}

func TestPhoneSuffix(t *testing.T) {
	cases := []struct{ in, want string }{
		{"+5511988887777", "988887777"},
		{"5511988887777", "988887777"},
		{"(11) 98888-7777", "988887777"},
		{"7777", "7777"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := phoneSuffix(tc.in); got != tc.want {
			t.Errorf("phoneSuffix(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
