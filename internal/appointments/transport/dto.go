// Package transport defines request and response shapes for the appointments API.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateAppointmentRequest is the payload for creating an appointment.
type CreateAppointmentRequest struct {
	Title        string     `json:"title" validate:"required,min=1,max=200"`
	Description  *string    `json:"description" validate:"omitempty,max=2000"`
	Location     *string    `json:"location" validate:"omitempty,max=200"`
	StartsAt     time.Time  `json:"starts_at" validate:"required"`
	EndsAt       *time.Time `json:"ends_at"`
	Origin       string     `json:"origin" validate:"omitempty,oneof=manual whatsapp fixture mobile"`
	WithReminder bool       `json:"with_reminder"`
	LeadMinutes  *int       `json:"lead_minutes" validate:"omitempty,min=1,max=10080"`
}

// UpdateAppointmentRequest is the payload for updating an appointment.
// Nil fields are left unchanged.
type UpdateAppointmentRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Location    *string    `json:"location" validate:"omitempty,max=200"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

// UpdateStatusRequest changes only the appointment status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active confirmed pending cancelled"`
}

// ListAppointmentsRequest filters the listing.
type ListAppointmentsRequest struct {
	From  *time.Time `form:"from"`
	Limit int        `form:"limit,default=50" validate:"omitempty,min=1,max=200"`
}

// AppointmentResponse is the API representation of one appointment.
type AppointmentResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Location    *string   `json:"location,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Origin      string    `json:"origin"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
