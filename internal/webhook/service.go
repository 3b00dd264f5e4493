package webhook

import (
	"context"
	"strings"
	"time"

	"agendai_backend/internal/parser"
	"agendai_backend/internal/reminder"
	"agendai_backend/internal/whatsapp"
	"agendai_backend/platform/logger"
	"agendai_backend/platform/phone"

	"github.com/google/uuid"
)

const agendaLimit = 5

// User is the account matched to an inbound sender.
type User struct {
	ID    uuid.UUID
	Name  string
	Phone *string
}

// Upcoming is one future appointment in the agenda listing.
type Upcoming struct {
	Title    string
	Location *string
	StartsAt time.Time
}

// Store is the persistence surface of the webhook service.
type Store interface {
	// FindUserByPhoneSuffix matches a user whose stored phone ends with the
	// given digit suffix. A nil user means no match.
	FindUserByPhoneSuffix(ctx context.Context, suffix string) (*User, error)
	// ListUpcoming returns up to limit active appointments starting after the
	// given instant, soonest first.
	ListUpcoming(ctx context.Context, userID uuid.UUID, after time.Time, limit int) ([]Upcoming, error)
	// CreateChatAppointment inserts a chat-originated appointment together
	// with its default reminder in one transaction.
	CreateChatAppointment(ctx context.Context, userID uuid.UUID, cmd parser.Command, leadMinutes int) (uuid.UUID, error)
}

// TextSender is the outbound reply surface.
type TextSender interface {
	SendText(ctx context.Context, to, body string, userID *uuid.UUID) whatsapp.Result
}

// Service routes inbound chat messages: keyword commands, agenda listing and
// free-text appointment creation.
type Service struct {
	store    Store
	sender   TextSender
	logStore whatsapp.Store
	clock    func() time.Time
	loc      *time.Location
	log      *logger.Logger
}

// NewService creates the webhook service. A nil clock defaults to time.Now and
// a nil location to the local zone.
func NewService(store Store, sender TextSender, logStore whatsapp.Store, loc *time.Location, clock func() time.Time, log *logger.Logger) *Service {
	if clock == nil {
		clock = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		store:    store,
		sender:   sender,
		logStore: logStore,
		clock:    clock,
		loc:      loc,
		log:      log,
	}
}

// HandleMessage processes one inbound message end to end. Errors are logged
// and swallowed: the HTTP layer acknowledges the provider no matter what.
func (s *Service) HandleMessage(ctx context.Context, event MessageEvent) {
	sender := phone.Normalize(event.From)
	s.recordInbound(ctx, event, sender)

	if event.Type != "text" {
		s.reply(ctx, sender, parser.TextOnlyMessage(), nil)
		return
	}

	user, err := s.store.FindUserByPhoneSuffix(ctx, phoneSuffix(sender))
	if err != nil {
		s.log.DatabaseError("find user by phone", err)
		return
	}
	if user == nil {
		s.reply(ctx, sender, parser.UnregisteredMessage(), nil)
		return
	}

	text := strings.TrimSpace(event.Body)
	switch strings.ToLower(text) {
	case "ajuda", "help", "oi", "olá", "ola":
		s.reply(ctx, sender, parser.HelpMessage(), &user.ID)
		return
	case "agenda", "meus compromissos", "compromissos":
		s.sendAgenda(ctx, sender, user)
		return
	}

	now := s.clock().In(s.loc)
	cmd, ok := parser.Parse(text, now)
	if !ok {
		s.reply(ctx, sender, parser.NotUnderstoodMessage(), &user.ID)
		return
	}

	if _, err := s.store.CreateChatAppointment(ctx, user.ID, cmd, reminder.DefaultLeadMinutes); err != nil {
		s.log.DatabaseError("create chat appointment", err)
		s.reply(ctx, sender, "❌ Não consegui salvar o compromisso. Tente novamente.", &user.ID)
		return
	}

	s.reply(ctx, sender, parser.ConfirmationMessage(cmd, ""), &user.ID)
}

// HandleStatus records a delivery receipt. Receipts carry no user action, so
// logging is all there is to do.
func (s *Service) HandleStatus(event StatusEvent) {
	s.log.WebhookEvent("status", event.Status)
}

func (s *Service) sendAgenda(ctx context.Context, destination string, user *User) {
	upcoming, err := s.store.ListUpcoming(ctx, user.ID, s.clock(), agendaLimit)
	if err != nil {
		s.log.DatabaseError("list upcoming appointments", err)
		return
	}

	if len(upcoming) == 0 {
		s.reply(ctx, destination, parser.AgendaEmptyMessage, &user.ID)
		return
	}

	var b strings.Builder
	b.WriteString(parser.AgendaHeader)
	for i, appt := range upcoming {
		location := ""
		if appt.Location != nil {
			location = *appt.Location
		}
		b.WriteString(parser.AgendaLine(i+1, appt.Title, appt.StartsAt.In(s.loc), location))
	}
	s.reply(ctx, destination, b.String(), &user.ID)
}

func (s *Service) reply(ctx context.Context, to, body string, userID *uuid.UUID) {
	result := s.sender.SendText(ctx, to, body, userID)
	if !result.Success {
		s.log.WebhookEvent("reply", "failed: "+result.Error)
	}
}

// recordInbound appends the raw inbound message to the delivery log so both
// directions of a conversation share one audit trail.
func (s *Service) recordInbound(ctx context.Context, event MessageEvent, sender string) {
	entry := whatsapp.LogEntry{
		Kind:        "inbound:" + event.Type,
		Destination: sender,
		Body:        event.Body,
		Payload: map[string]interface{}{
			"message_id": event.MessageID,
			"from":       event.From,
		},
		Success: true,
	}
	if err := s.logStore.Insert(ctx, entry); err != nil {
		s.log.Error("inbound log write failed", "error", err)
	}
}

// phoneSuffix extracts the matching key for owner lookup: the last 9 digits
// of the number. Two users sharing a suffix are ambiguous; the lookup picks
// one, which is an accepted limitation of formatting-tolerant matching.
func phoneSuffix(number string) string {
	var digits []rune
	for _, r := range number {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) > 9 {
		digits = digits[len(digits)-9:]
	}
	return string(digits)
}
