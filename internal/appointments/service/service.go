// Package service implements the appointments domain logic.
package service

import (
	"context"
	"errors"
	"time"

	"agendai_backend/internal/appointments/repository"
	"agendai_backend/internal/appointments/transport"
	"agendai_backend/internal/reminder"
	"agendai_backend/platform/apperr"

	"github.com/google/uuid"
)

const (
	// OriginManual tags appointments created through the private API.
	OriginManual = "manual"

	// StatusCancelled is the terminal status used instead of hard deletes.
	StatusCancelled = "cancelled"
	// StatusActive is the default status for new appointments.
	StatusActive = "active"
)

// Store is the persistence surface of the appointments service.
type Store interface {
	Create(ctx context.Context, a repository.Appointment, rem *repository.ReminderSpec) (repository.Appointment, error)
	List(ctx context.Context, userID uuid.UUID, from time.Time, limit int) ([]repository.Appointment, error)
	GetByID(ctx context.Context, id, userID uuid.UUID) (repository.Appointment, error)
	Update(ctx context.Context, a repository.Appointment) (repository.Appointment, error)
	UpdateStatus(ctx context.Context, id, userID uuid.UUID, status string) (repository.Appointment, error)
	OwnerHasWhatsApp(ctx context.Context, userID uuid.UUID) (bool, error)
}

// Service implements appointment use cases.
type Service struct {
	store Store
	clock func() time.Time
}

// New creates the appointments service. A nil clock defaults to time.Now.
func New(store Store, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{store: store, clock: clock}
}

// Create validates and persists a new appointment. When the request asks for
// a reminder and the owner opted in to WhatsApp, a pending reminder row is
// created in the same transaction.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req transport.CreateAppointmentRequest) (transport.AppointmentResponse, error) {
	endsAt := req.StartsAt
	if req.EndsAt != nil {
		endsAt = *req.EndsAt
	}
	if endsAt.Before(req.StartsAt) {
		return transport.AppointmentResponse{}, apperr.Validation("ends_at must not be before starts_at")
	}

	origin := req.Origin
	if origin == "" {
		origin = OriginManual
	}

	appointment := repository.Appointment{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      endsAt,
		Origin:      origin,
		Status:      StatusActive,
	}

	var spec *repository.ReminderSpec
	if req.WithReminder {
		enabled, err := s.store.OwnerHasWhatsApp(ctx, userID)
		if err != nil {
			return transport.AppointmentResponse{}, apperr.Wrap(apperr.KindInternal, "check whatsapp opt-in", err)
		}
		if enabled {
			lead := reminder.DefaultLeadMinutes
			if req.LeadMinutes != nil {
				lead = *req.LeadMinutes
			}
			spec = &repository.ReminderSpec{Channel: reminder.ChannelWhatsApp, LeadMinutes: lead}
		}
	}

	created, err := s.store.Create(ctx, appointment, spec)
	if err != nil {
		return transport.AppointmentResponse{}, apperr.Wrap(apperr.KindInternal, "create appointment", err)
	}
	return toResponse(created), nil
}

// List returns the user's appointments from the given instant on. A missing
// "from" filter defaults to now, so the listing shows what is upcoming.
func (s *Service) List(ctx context.Context, userID uuid.UUID, req transport.ListAppointmentsRequest) ([]transport.AppointmentResponse, error) {
	from := s.clock()
	if req.From != nil {
		from = *req.From
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}

	appointments, err := s.store.List(ctx, userID, from, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list appointments", err)
	}

	results := make([]transport.AppointmentResponse, 0, len(appointments))
	for _, a := range appointments {
		results = append(results, toResponse(a))
	}
	return results, nil
}

// GetByID returns one appointment scoped to its owner.
func (s *Service) GetByID(ctx context.Context, id, userID uuid.UUID) (transport.AppointmentResponse, error) {
	appointment, err := s.store.GetByID(ctx, id, userID)
	if err != nil {
		return transport.AppointmentResponse{}, mapStoreError(err, "get appointment")
	}
	return toResponse(appointment), nil
}

// Update applies the non-nil fields of the request.
func (s *Service) Update(ctx context.Context, id, userID uuid.UUID, req transport.UpdateAppointmentRequest) (transport.AppointmentResponse, error) {
	current, err := s.store.GetByID(ctx, id, userID)
	if err != nil {
		return transport.AppointmentResponse{}, mapStoreError(err, "get appointment")
	}

	if req.Title != nil {
		current.Title = *req.Title
	}
	if req.Description != nil {
		current.Description = req.Description
	}
	if req.Location != nil {
		current.Location = req.Location
	}
	if req.StartsAt != nil {
		current.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		current.EndsAt = *req.EndsAt
	}
	if current.EndsAt.Before(current.StartsAt) {
		return transport.AppointmentResponse{}, apperr.Validation("ends_at must not be before starts_at")
	}

	updated, err := s.store.Update(ctx, current)
	if err != nil {
		return transport.AppointmentResponse{}, mapStoreError(err, "update appointment")
	}
	return toResponse(updated), nil
}

// UpdateStatus changes only the appointment status.
func (s *Service) UpdateStatus(ctx context.Context, id, userID uuid.UUID, status string) (transport.AppointmentResponse, error) {
	updated, err := s.store.UpdateStatus(ctx, id, userID, status)
	if err != nil {
		return transport.AppointmentResponse{}, mapStoreError(err, "update appointment status")
	}
	return toResponse(updated), nil
}

// Cancel marks the appointment cancelled. Appointments are never hard
// deleted; cancelled ones simply stop producing reminders.
func (s *Service) Cancel(ctx context.Context, id, userID uuid.UUID) (transport.AppointmentResponse, error) {
	return s.UpdateStatus(ctx, id, userID, StatusCancelled)
}

func mapStoreError(err error, operation string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("appointment not found")
	}
	return apperr.Wrap(apperr.KindInternal, operation, err)
}

func toResponse(a repository.Appointment) transport.AppointmentResponse {
	return transport.AppointmentResponse{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Location:    a.Location,
		StartsAt:    a.StartsAt,
		EndsAt:      a.EndsAt,
		Origin:      a.Origin,
		Status:      a.Status,
		CreatedAt:   a.CreatedAt,
	}
}
