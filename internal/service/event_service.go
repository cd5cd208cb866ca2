package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"photo-service/internal/apperr"
	"photo-service/internal/model"
	"photo-service/internal/repository"
)

type EventService struct {
	eventRepo EventRepository
}

func NewEventService(eventRepo EventRepository) *EventService {
	return &EventService{eventRepo: eventRepo}
}

type CreateEventInput struct {
	Name     string
	Date     time.Time
	Location *string
}

func (s *EventService) Create(ctx context.Context, input CreateEventInput) (*model.Event, error) {
	event, err := model.NewEvent(input.Name, input.Date, input.Location)
	if err != nil {
		return nil, err
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) Get(ctx context.Context, id string) (*model.Event, error) {
	eventID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("Event", id)
	}
	return s.eventRepo.GetByID(ctx, eventID)
}

func (s *EventService) List(ctx context.Context, p repository.Pagination) ([]model.Event, error) {
	return s.eventRepo.List(ctx, p)
}

type UpdateEventInput struct {
	Name     *string
	Date     *time.Time
	Location *string
}

func (s *EventService) Update(ctx context.Context, id string, input UpdateEventInput) (*model.Event, error) {
	eventID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("Event", id)
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := event.ApplyUpdate(input.Name, input.Date, input.Location); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) Delete(ctx context.Context, id string) error {
	eventID, err := uuid.Parse(id)
	if err != nil {
		return apperr.NotFound("Event", id)
	}
	return s.eventRepo.SoftDelete(ctx, eventID)
}
