package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"photo-service/internal/apperr"
	"photo-service/internal/model"
)

// PhotoService handles upload and removal of photo files. Classification
// is a separate pipeline.
type PhotoService struct {
	eventRepo EventRepository
	photoRepo PhotoRepository
	storage   ObjectStorage
}

func NewPhotoService(eventRepo EventRepository, photoRepo PhotoRepository, storage ObjectStorage) *PhotoService {
	return &PhotoService{
		eventRepo: eventRepo,
		photoRepo: photoRepo,
		storage:   storage,
	}
}

type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// Upload validates every file, stores the objects and persists the photo
// rows in pending status. IDs come back in upload order.
func (s *PhotoService) Upload(ctx context.Context, eventID string, files []UploadFile) ([]uuid.UUID, error) {
	evID, err := uuid.Parse(eventID)
	if err != nil {
		return nil, apperr.NotFound("Event", eventID)
	}
	event, err := s.eventRepo.GetByID(ctx, evID)
	if err != nil {
		return nil, err
	}

	// Build and validate all entities before touching storage so one bad
	// file fails the whole batch up front.
	photos := make([]*model.Photo, 0, len(files))
	for _, f := range files {
		photo, err := model.NewPhoto(event.ID, f.Filename, "", f.ContentType, f.Size, nil)
		if err != nil {
			return nil, err
		}
		photo.StorageKey = fmt.Sprintf("events/%s/%s_%s", event.ID, photo.ID, f.Filename)
		photos = append(photos, photo)
	}

	for i, photo := range photos {
		if _, err := s.storage.Upload(photo.StorageKey, files[i].Data, photo.MimeType); err != nil {
			return nil, apperr.External("object storage upload", err)
		}
	}

	if err := s.photoRepo.CreateBatch(ctx, event.ID, photos); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(photos))
	for i, photo := range photos {
		ids[i] = photo.ID
	}
	return ids, nil
}

// Delete removes the photo row and its stored object. Photos are
// hard-deleted, unlike events.
func (s *PhotoService) Delete(ctx context.Context, id string) error {
	photoID, err := uuid.Parse(id)
	if err != nil {
		return apperr.NotFound("Photo", id)
	}
	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	if err := s.photoRepo.Delete(ctx, photo.ID); err != nil {
		return err
	}
	if err := s.storage.Delete(photo.StorageKey); err != nil {
		return apperr.External("object storage delete", err)
	}
	return nil
}
