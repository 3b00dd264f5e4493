package reminder

import (
	"context"
	"fmt"
	"time"

	"agendai_backend/internal/whatsapp"
	"agendai_backend/platform/logger"
	"agendai_backend/platform/phone"

	"github.com/google/uuid"
)

// Result entry statuses surfaced in the cron response.
const (
	statusSent      = "sent"
	statusError     = "error"
	statusSkipped   = "skipped"
	statusException = "exception"
)

const locationNotSet = "Não definido"

// Sender is the outbound messaging surface the dispatcher requires.
type Sender interface {
	SendTemplate(ctx context.Context, to, templateName string, params []string, userID *uuid.UUID) whatsapp.Result
}

// ResultEntry describes what happened to one reminder during a scan.
type ResultEntry struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"titulo,omitempty"`
	Phone  string    `json:"phone,omitempty"`
	Status string    `json:"status"`
	Reason string    `json:"reason,omitempty"`
	Error  string    `json:"error,omitempty"`
}

// Summary aggregates one scan invocation for the cron health-check output.
type Summary struct {
	Total   int
	Sent    int
	Errors  int
	Results []ResultEntry
}

// Dispatcher scans pending reminders and sends each due one at most once.
// It is stateless; an external scheduler invokes Run periodically.
type Dispatcher struct {
	store    Store
	sender   Sender
	template string
	clock    func() time.Time
	loc      *time.Location
	log      *logger.Logger
}

// NewDispatcher creates a dispatcher. A nil clock defaults to time.Now and a
// nil location to the local zone.
func NewDispatcher(store Store, sender Sender, templateName string, loc *time.Location, clock func() time.Time, log *logger.Logger) *Dispatcher {
	if clock == nil {
		clock = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Dispatcher{
		store:    store,
		sender:   sender,
		template: templateName,
		clock:    clock,
		loc:      loc,
		log:      log,
	}
}

// Run processes every pending WhatsApp reminder once. Reminders are handled
// sequentially and in isolation: a failure, including a panic, in one does
// not abort the rest of the batch.
func (d *Dispatcher) Run(ctx context.Context) (Summary, error) {
	candidates, err := d.store.ListPending(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list pending reminders: %w", err)
	}

	summary := Summary{Total: len(candidates)}
	for _, candidate := range candidates {
		entry := d.processOne(ctx, candidate)
		if entry == nil {
			continue
		}
		switch entry.Status {
		case statusSent:
			summary.Sent++
		case statusError, statusException:
			summary.Errors++
		}
		summary.Results = append(summary.Results, *entry)
	}

	d.log.Info("reminder scan complete",
		"total", summary.Total, "sent", summary.Sent, "errors", summary.Errors)
	return summary, nil
}

// processOne evaluates a single reminder. A nil return means the reminder was
// left pending for a future scan (not yet due, appointment not active) or was
// silently expired.
func (d *Dispatcher) processOne(ctx context.Context, candidate DueCandidate) (entry *ResultEntry) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("reminder processing panicked", "reminder_id", candidate.ID, "panic", r)
			entry = &ResultEntry{ID: candidate.ID, Status: statusException, Error: fmt.Sprint(r)}
		}
	}()

	now := d.clock()
	appt := candidate.Appointment

	// Only active appointments get reminders. Cancelled or pending ones stay
	// untouched; the reminder fires if the appointment becomes active again
	// before its start.
	if appt.Status != AppointmentActive {
		return nil
	}

	sendAt := appt.StartsAt.Add(-time.Duration(candidate.LeadMinutes) * time.Minute)
	if now.Before(sendAt) {
		return nil
	}

	// The appointment already started: a stale reminder must never fire after
	// the event it was meant to precede. Mark it sent without sending.
	if now.After(appt.StartsAt) {
		if _, err := d.store.MarkSent(ctx, candidate.ID, now); err != nil {
			d.log.DatabaseError("expire reminder", err)
		}
		return nil
	}

	if candidate.Owner.Phone == nil || *candidate.Owner.Phone == "" {
		return &ResultEntry{ID: candidate.ID, Status: statusSkipped, Reason: "usuário sem telefone"}
	}

	destination := phone.Normalize(*candidate.Owner.Phone)
	if !phone.IsValidWhatsApp(destination) {
		return &ResultEntry{ID: candidate.ID, Status: statusSkipped, Reason: "telefone inválido"}
	}

	// Claim the reminder before sending. The conditional update is the
	// at-most-once guard: if another overlapping scan won, skip quietly.
	claimed, err := d.store.MarkSent(ctx, candidate.ID, now)
	if err != nil {
		return &ResultEntry{ID: candidate.ID, Status: statusError, Title: appt.Title, Error: err.Error()}
	}
	if !claimed {
		return nil
	}

	name := candidate.Owner.Name
	if name == "" {
		name = "Olá"
	}
	location := locationNotSet
	if appt.Location != nil && *appt.Location != "" {
		location = *appt.Location
	}
	remaining := remainingLabel(appt.StartsAt.Sub(now))
	startLocal := appt.StartsAt.In(d.loc).Format("15:04")

	result := d.sender.SendTemplate(ctx, destination, d.template,
		[]string{name, appt.Title, remaining, location, startLocal}, &candidate.Owner.ID)

	// A failed provider call is not retried: the provider may have delivered
	// the message before failing locally, and a duplicate is worse than a
	// missed reminder. The notification row preserves the failure.
	d.recordOutcome(ctx, candidate, destination, remaining, result, now)

	if result.Success {
		return &ResultEntry{ID: candidate.ID, Status: statusSent, Title: appt.Title, Phone: destination}
	}
	return &ResultEntry{ID: candidate.ID, Status: statusError, Title: appt.Title, Phone: destination, Error: result.Error}
}

func (d *Dispatcher) recordOutcome(ctx context.Context, candidate DueCandidate, destination, remaining string, result whatsapp.Result, now time.Time) {
	notification := Notification{
		UserID:        candidate.Owner.ID,
		AppointmentID: candidate.Appointment.ID,
		Status:        statusSent,
		Payload: map[string]interface{}{
			"phone":     destination,
			"titulo":    candidate.Appointment.Title,
			"restante":  remaining,
			"messageId": result.MessageID,
		},
	}
	if result.Success {
		sentAt := now
		notification.SentAt = &sentAt
	} else {
		notification.Status = statusError
		notification.Error = result.Error
	}

	if err := d.store.RecordNotification(ctx, notification); err != nil {
		d.log.DatabaseError("record notification", err)
	}
}

// remainingLabel renders the time until the appointment in the largest
// sensible unit: minutes below an hour, rounded hours below a day, rounded
// days beyond that.
func remainingLabel(until time.Duration) string {
	minutes := int(until.Round(time.Minute) / time.Minute)
	if minutes < 60 {
		return pluralize(minutes, "minuto", "minutos")
	}
	if minutes < 1440 {
		hours := (minutes + 30) / 60
		return pluralize(hours, "hora", "horas")
	}
	days := (minutes + 720) / 1440
	return pluralize(days, "dia", "dias")
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
