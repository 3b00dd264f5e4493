// Package reminder implements the scheduled scan that delivers WhatsApp
// reminders for upcoming appointments.
package reminder

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Reminder channel and appointment status values shared with the schema.
const (
	ChannelWhatsApp = "whatsapp"

	AppointmentActive = "active"

	DefaultLeadMinutes = 60
)

// Owner is the user a reminder should be delivered to.
type Owner struct {
	ID    uuid.UUID
	Name  string
	Phone *string
}

// AppointmentInfo is the appointment slice the dispatcher needs.
type AppointmentInfo struct {
	ID       uuid.UUID
	Title    string
	Location *string
	StartsAt time.Time
	Status   string
}

// DueCandidate is a pending reminder joined with its appointment and owner.
type DueCandidate struct {
	ID          uuid.UUID
	LeadMinutes int
	Appointment AppointmentInfo
	Owner       Owner
}

// Notification mirrors one delivery outcome for operator visibility.
type Notification struct {
	UserID        uuid.UUID
	AppointmentID uuid.UUID
	Status        string
	Payload       map[string]interface{}
	Error         string
	SentAt        *time.Time
}

// Store is the persistence surface the dispatcher requires.
type Store interface {
	// ListPending returns every unsent WhatsApp reminder joined with its
	// appointment and owner.
	ListPending(ctx context.Context) ([]DueCandidate, error)
	// MarkSent flips the one-way sent flag. It must be a single atomic
	// conditional update on rows still pending; false means another scan
	// already claimed the reminder.
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	// RecordNotification appends one notification outcome row.
	RecordNotification(ctx context.Context, n Notification) error
}
