package service

import (
	"context"

	"github.com/google/uuid"

	"photo-service/internal/model"
	"photo-service/internal/repository"
)

// EventRepository is the persistence port for events. Implementations
// must exclude soft-deleted rows from lookups and lists.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	List(ctx context.Context, p repository.Pagination) ([]model.Event, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// PhotoRepository is the persistence port for photos and their
// classification data. SaveClassification must be all-or-nothing.
type PhotoRepository interface {
	CreateBatch(ctx context.Context, eventID uuid.UUID, photos []*model.Photo) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Photo, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*model.Photo, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID, p repository.Pagination) ([]model.Photo, error)
	Search(ctx context.Context, filter repository.PhotoSearchFilter, p repository.Pagination) ([]model.Photo, error)
	SaveClassification(ctx context.Context, photo *model.Photo, cyclists []*model.DetectedCyclist, plates []*model.PlateNumber, colors []*model.EquipmentColor) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ObjectStorage is the binary object-store port.
type ObjectStorage interface {
	Upload(key string, data []byte, contentType string) (string, error)
	PublicURL(key string) string
	Delete(key string) error
}
