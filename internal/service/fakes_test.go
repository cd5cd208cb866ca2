package service_test

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"

	"photo-service/internal/apperr"
	"photo-service/internal/model"
	"photo-service/internal/repository"
)

type fakeEventRepo struct {
	events  map[uuid.UUID]*model.Event
	deleted map[uuid.UUID]bool
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events:  map[uuid.UUID]*model.Event{},
		deleted: map[uuid.UUID]bool{},
	}
}

func (r *fakeEventRepo) Create(ctx context.Context, event *model.Event) error {
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	event, ok := r.events[id]
	if !ok || r.deleted[id] {
		return nil, apperr.NotFound("Event", id.String())
	}
	return event, nil
}

func (r *fakeEventRepo) Update(ctx context.Context, event *model.Event) error {
	if _, ok := r.events[event.ID]; !ok {
		return apperr.NotFound("Event", event.ID.String())
	}
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) List(ctx context.Context, p repository.Pagination) ([]model.Event, error) {
	all := make([]model.Event, 0, len(r.events))
	for id, event := range r.events {
		if !r.deleted[id] {
			all = append(all, *event)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
	return paginate(all, p), nil
}

func (r *fakeEventRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.events[id]; !ok || r.deleted[id] {
		return apperr.NotFound("Event", id.String())
	}
	r.deleted[id] = true
	return nil
}

type fakePhotoRepo struct {
	photos        map[uuid.UUID]*model.Photo
	savedCyclists []*model.DetectedCyclist
	savedPlates   []*model.PlateNumber
	savedColors   []*model.EquipmentColor
	saveCalls     int
	createCalls   int
	deletedIDs    []uuid.UUID
}

func newFakePhotoRepo() *fakePhotoRepo {
	return &fakePhotoRepo{photos: map[uuid.UUID]*model.Photo{}}
}

func (r *fakePhotoRepo) CreateBatch(ctx context.Context, eventID uuid.UUID, photos []*model.Photo) error {
	r.createCalls++
	for _, photo := range photos {
		r.photos[photo.ID] = photo
	}
	return nil
}

func (r *fakePhotoRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Photo, error) {
	photo, ok := r.photos[id]
	if !ok {
		return nil, apperr.NotFound("Photo", id.String())
	}
	copied := *photo
	return &copied, nil
}

func (r *fakePhotoRepo) GetDetail(ctx context.Context, id uuid.UUID) (*model.Photo, error) {
	photo, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, cyclist := range r.savedCyclists {
		if cyclist.PhotoID != id {
			continue
		}
		attached := *cyclist
		for _, plate := range r.savedPlates {
			if plate.DetectedCyclistID == cyclist.ID {
				p := *plate
				attached.PlateNumber = &p
			}
		}
		for _, color := range r.savedColors {
			if color.DetectedCyclistID == cyclist.ID {
				attached.EquipmentColors = append(attached.EquipmentColors, *color)
			}
		}
		photo.Cyclists = append(photo.Cyclists, attached)
	}
	sort.SliceStable(photo.Cyclists, func(i, j int) bool {
		return photo.Cyclists[i].Position < photo.Cyclists[j].Position
	})
	return photo, nil
}

func (r *fakePhotoRepo) ListByEvent(ctx context.Context, eventID uuid.UUID, p repository.Pagination) ([]model.Photo, error) {
	var photos []model.Photo
	for _, photo := range r.photos {
		if photo.EventID == eventID {
			photos = append(photos, *photo)
		}
	}
	sortByUploadedDesc(photos)
	return paginate(photos, p), nil
}

func (r *fakePhotoRepo) Search(ctx context.Context, filter repository.PhotoSearchFilter, p repository.Pagination) ([]model.Photo, error) {
	var photos []model.Photo
	for _, photo := range r.photos {
		if filter.EventID != nil && photo.EventID != *filter.EventID {
			continue
		}
		if filter.Status != nil && photo.Status != *filter.Status {
			continue
		}
		if filter.PlateNumber != nil && !r.hasPlate(photo.ID, *filter.PlateNumber) {
			continue
		}
		at := photo.UploadedAt
		if photo.CapturedAt != nil {
			at = *photo.CapturedAt
		}
		if filter.FromDate != nil && at.Before(*filter.FromDate) {
			continue
		}
		if filter.ToDate != nil && at.After(*filter.ToDate) {
			continue
		}
		photos = append(photos, *photo)
	}
	sortByUploadedDesc(photos)
	return paginate(photos, p), nil
}

func (r *fakePhotoRepo) hasPlate(photoID uuid.UUID, number int) bool {
	for _, cyclist := range r.savedCyclists {
		if cyclist.PhotoID != photoID {
			continue
		}
		for _, plate := range r.savedPlates {
			if plate.DetectedCyclistID == cyclist.ID && plate.Number == number {
				return true
			}
		}
	}
	return false
}

func (r *fakePhotoRepo) SaveClassification(ctx context.Context, photo *model.Photo, cyclists []*model.DetectedCyclist, plates []*model.PlateNumber, colors []*model.EquipmentColor) error {
	r.saveCalls++
	existing, ok := r.photos[photo.ID]
	if !ok {
		return errors.New("photo row missing")
	}
	if existing.IsTerminal() {
		return apperr.Conflict("photo " + photo.ID.String() + " is already in a terminal state")
	}
	copied := *photo
	r.photos[photo.ID] = &copied
	r.savedCyclists = append(r.savedCyclists, cyclists...)
	r.savedPlates = append(r.savedPlates, plates...)
	r.savedColors = append(r.savedColors, colors...)
	return nil
}

func (r *fakePhotoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.photos[id]; !ok {
		return apperr.NotFound("Photo", id.String())
	}
	delete(r.photos, id)
	r.deletedIDs = append(r.deletedIDs, id)
	return nil
}

type fakeStorage struct {
	uploads map[string][]byte
	deletes []string
	failUp  error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploads: map[string][]byte{}}
}

func (s *fakeStorage) Upload(key string, data []byte, contentType string) (string, error) {
	if s.failUp != nil {
		return "", s.failUp
	}
	s.uploads[key] = data
	return s.PublicURL(key), nil
}

func (s *fakeStorage) PublicURL(key string) string {
	return "https://storage.test/" + key
}

func (s *fakeStorage) Delete(key string) error {
	s.deletes = append(s.deletes, key)
	return nil
}

func sortByUploadedDesc(photos []model.Photo) {
	sort.Slice(photos, func(i, j int) bool {
		return photos[i].UploadedAt.After(photos[j].UploadedAt)
	})
}

func paginate[T any](items []T, p repository.Pagination) []T {
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
