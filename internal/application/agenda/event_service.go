// Package agenda exposes the tenant's calendar and course management.
package agenda

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appsync "github.com/terreiro/backend/internal/application/sync"
	"github.com/terreiro/backend/internal/domain/agenda"
	"github.com/terreiro/backend/internal/domain/shared"
)

// EventInput carries the fields of a calendar event
type EventInput struct {
	Title string    `json:"title" validate:"required,max=200"`
	Type  string    `json:"type" validate:"max=100"`
	Date  time.Time `json:"date" validate:"required"`
	Notes string    `json:"notes"`
}

// EventService manages the tenant's calendar
type EventService struct {
	eventRepo agenda.EventRepository
	enqueuer  *appsync.Enqueuer
	logger    *zap.Logger
}

// NewEventService creates a new calendar service
func NewEventService(eventRepo agenda.EventRepository, enqueuer *appsync.Enqueuer, logger *zap.Logger) *EventService {
	return &EventService{eventRepo: eventRepo, enqueuer: enqueuer, logger: logger}
}

// Create adds an event to the calendar
func (s *EventService) Create(ctx context.Context, tenantID uuid.UUID, input EventInput) (*agenda.Event, error) {
	event, err := agenda.NewEvent(tenantID, input.Title, input.Type, input.Date)
	if err != nil {
		return nil, err
	}
	event.Notes = input.Notes

	if err := s.eventRepo.Save(ctx, event); err != nil {
		return nil, err
	}
	s.replicate(ctx, event)
	return event, nil
}

// Get returns a single event
func (s *EventService) Get(ctx context.Context, tenantID, id uuid.UUID) (*agenda.Event, error) {
	return s.eventRepo.FindByID(ctx, tenantID, id)
}

// List returns the events matching the filter
func (s *EventService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]agenda.Event, error) {
	return s.eventRepo.FindAll(ctx, tenantID, filter)
}

// Calendar returns the events inside a date range, for month and week views
func (s *EventService) Calendar(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]agenda.Event, error) {
	if to.Before(from) {
		return nil, shared.NewDomainError("INVALID_RANGE", "Range end precedes its start")
	}
	return s.eventRepo.FindBetween(ctx, tenantID, from, to)
}

// Update edits an event
func (s *EventService) Update(ctx context.Context, tenantID, id uuid.UUID, input EventInput) (*agenda.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := event.Update(input.Title, input.Type, input.Date, input.Notes); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Save(ctx, event); err != nil {
		return nil, err
	}
	s.replicate(ctx, event)
	return event, nil
}

// Delete removes an event from the calendar
func (s *EventService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.eventRepo.FindByID(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.enqueuer.Delete(ctx, tenantID, appsync.CollectionEvents, id); err != nil {
		s.logger.Error("failed to queue event deletion", zap.Error(err))
	}
	return nil
}

func (s *EventService) replicate(ctx context.Context, event *agenda.Event) {
	if err := s.enqueuer.Upsert(ctx, event.TenantID, appsync.CollectionEvents, event.ID, event); err != nil {
		s.logger.Error("failed to queue event replication",
			zap.String("event_id", event.ID.String()),
			zap.Error(err))
	}
}
