package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"photo-service/internal/apperr"
	"photo-service/internal/model"
)

type PhotoRepository struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

// CreateBatch inserts the uploaded photos and bumps the owning event's
// total_photos counter in one transaction. A draft event moves to
// uploading on its first upload.
func (r *PhotoRepository) CreateBatch(ctx context.Context, eventID uuid.UUID, photos []*model.Photo) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&photos).Error; err != nil {
			return err
		}
		return tx.Exec(`UPDATE events
			SET total_photos = total_photos + ?,
			    status = CASE WHEN status = 'draft' THEN 'uploading'::event_status ELSE status END
			WHERE id = ?`, len(photos), eventID).Error
	})
}

func (r *PhotoRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Photo, error) {
	var photo model.Photo
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&photo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Photo", id.String())
		}
		return nil, err
	}
	return &photo, nil
}

// GetDetail loads the photo with its full classification tree.
func (r *PhotoRepository) GetDetail(ctx context.Context, id uuid.UUID) (*model.Photo, error) {
	var photo model.Photo
	err := r.db.WithContext(ctx).
		Preload("Cyclists", func(db *gorm.DB) *gorm.DB {
			// created_at alone cannot order a batch: every row of one
			// classification shares the same timestamp.
			return db.Order("detected_cyclists.created_at ASC, detected_cyclists.position ASC")
		}).
		Preload("Cyclists.PlateNumber").
		Preload("Cyclists.EquipmentColors").
		Where("id = ?", id).
		First(&photo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Photo", id.String())
		}
		return nil, err
	}
	return &photo, nil
}

func (r *PhotoRepository) ListByEvent(ctx context.Context, eventID uuid.UUID, p Pagination) ([]model.Photo, error) {
	var photos []model.Photo
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("uploaded_at DESC").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}

type PhotoSearchFilter struct {
	EventID     *uuid.UUID
	Status      *model.PhotoStatus
	PlateNumber *int
	FromDate    *time.Time
	ToDate      *time.Time
}

// Search combines the provided filters with AND. The date range applies to
// the capture time, falling back to the upload time when EXIF data was
// absent. Photos of soft-deleted events are excluded.
func (r *PhotoRepository) Search(ctx context.Context, filter PhotoSearchFilter, p Pagination) ([]model.Photo, error) {
	query := r.db.WithContext(ctx).Model(&model.Photo{}).
		Joins("JOIN events ON events.id = photos.event_id AND events.deleted_at IS NULL")

	if filter.EventID != nil {
		query = query.Where("photos.event_id = ?", *filter.EventID)
	}
	if filter.Status != nil {
		query = query.Where("photos.status = ?", *filter.Status)
	}
	if filter.PlateNumber != nil {
		query = query.Where(`EXISTS (
			SELECT 1 FROM detected_cyclists dc
			JOIN plate_numbers pn ON pn.detected_cyclist_id = dc.id
			WHERE dc.photo_id = photos.id AND pn.number = ?)`, *filter.PlateNumber)
	}
	if filter.FromDate != nil {
		query = query.Where("COALESCE(photos.captured_at, photos.uploaded_at) >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("COALESCE(photos.captured_at, photos.uploaded_at) <= ?", *filter.ToDate)
	}

	var photos []model.Photo
	err := query.
		Order("photos.uploaded_at DESC").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}

// SaveClassification commits one classification batch atomically: the
// photo's terminal transition, all detection rows and the event's
// processed_photos counter. The photo update is conditional on the row
// still being non-terminal; a racing second classification gets a
// Conflict instead of appending a duplicate cyclist set.
func (r *PhotoRepository) SaveClassification(ctx context.Context, photo *model.Photo, cyclists []*model.DetectedCyclist, plates []*model.PlateNumber, colors []*model.EquipmentColor) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Photo{}).
			Where("id = ? AND status NOT IN ?", photo.ID, []model.PhotoStatus{model.PhotoStatusCompleted, model.PhotoStatusFailed}).
			Updates(map[string]interface{}{
				"status":              photo.Status,
				"unclassified_reason": photo.UnclassifiedReason,
				"processed_at":        photo.ProcessedAt,
				"width":               photo.Width,
				"height":              photo.Height,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("photo " + photo.ID.String() + " is already in a terminal state")
		}

		if len(cyclists) > 0 {
			if err := tx.Create(&cyclists).Error; err != nil {
				return err
			}
		}
		if len(plates) > 0 {
			if err := tx.Create(&plates).Error; err != nil {
				return err
			}
		}
		if len(colors) > 0 {
			if err := tx.Create(&colors).Error; err != nil {
				return err
			}
		}

		return tx.Exec(`UPDATE events
			SET processed_photos = processed_photos + 1,
			    status = CASE WHEN processed_photos + 1 >= total_photos
			                  THEN 'completed'::event_status
			                  ELSE 'processing'::event_status END
			WHERE id = ?`, photo.EventID).Error
	})
}

// Delete removes the photo row permanently. Photos have no soft delete.
func (r *PhotoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Photo{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Photo", id.String())
	}
	return nil
}
