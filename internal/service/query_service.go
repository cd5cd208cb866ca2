package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"photo-service/internal/apperr"
	"photo-service/internal/model"
	"photo-service/internal/repository"
)

// PhotoQueryService assembles read-optimized projections from the
// normalized tables.
type PhotoQueryService struct {
	photoRepo PhotoRepository
	storage   ObjectStorage
}

func NewPhotoQueryService(photoRepo PhotoRepository, storage ObjectStorage) *PhotoQueryService {
	return &PhotoQueryService{photoRepo: photoRepo, storage: storage}
}

type PlateProjection struct {
	Number            int      `json:"number"`
	ConfidenceScore   *float64 `json:"confidence_score"`
	ManuallyCorrected bool     `json:"manually_corrected"`
}

type ColorProjection struct {
	ItemType          string  `json:"item_type"`
	ColorName         string  `json:"color_name"`
	ColorHex          string  `json:"color_hex"`
	DensityPercentage float64 `json:"density_percentage"`
}

type CyclistProjection struct {
	ID              uuid.UUID          `json:"id"`
	BoundingBox     map[string]float64 `json:"bounding_box"`
	ConfidenceScore float64            `json:"confidence_score"`
	PlateNumber     *PlateProjection   `json:"plate_number"`
	EquipmentColors []ColorProjection  `json:"equipment_colors"`
}

type PhotoDetailProjection struct {
	ID                 uuid.UUID           `json:"id"`
	EventID            uuid.UUID           `json:"event_id"`
	Filename           string              `json:"filename"`
	StorageKey         string              `json:"storage_key"`
	URL                string              `json:"url"`
	FileSize           int64               `json:"file_size"`
	MimeType           string              `json:"mime_type"`
	Width              *int                `json:"width"`
	Height             *int                `json:"height"`
	Status             model.PhotoStatus   `json:"status"`
	UnclassifiedReason *string             `json:"unclassified_reason"`
	CapturedAt         *time.Time          `json:"captured_at"`
	UploadedAt         time.Time           `json:"uploaded_at"`
	ProcessedAt        *time.Time          `json:"processed_at"`
	Cyclists           []CyclistProjection `json:"cyclists"`
}

// PhotoListProjection is the lightweight shape for list and search
// responses; it carries no classification data.
type PhotoListProjection struct {
	ID         uuid.UUID         `json:"id"`
	EventID    uuid.UUID         `json:"event_id"`
	Filename   string            `json:"filename"`
	StorageKey string            `json:"storage_key"`
	URL        string            `json:"url"`
	Status     model.PhotoStatus `json:"status"`
	Width      *int              `json:"width"`
	Height     *int              `json:"height"`
	UploadedAt time.Time         `json:"uploaded_at"`
}

func (s *PhotoQueryService) GetDetail(ctx context.Context, id string) (*PhotoDetailProjection, error) {
	photoID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.NotFound("Photo", id)
	}
	photo, err := s.photoRepo.GetDetail(ctx, photoID)
	if err != nil {
		return nil, err
	}
	projection := FoldPhotoDetail(photo)
	projection.URL = s.storage.PublicURL(photo.StorageKey)
	return projection, nil
}

func (s *PhotoQueryService) ListByEvent(ctx context.Context, eventID string, p repository.Pagination) ([]PhotoListProjection, error) {
	evID, err := uuid.Parse(eventID)
	if err != nil {
		return nil, apperr.NotFound("Event", eventID)
	}
	photos, err := s.photoRepo.ListByEvent(ctx, evID, p)
	if err != nil {
		return nil, err
	}
	return s.toListProjections(photos), nil
}

func (s *PhotoQueryService) Search(ctx context.Context, filter repository.PhotoSearchFilter, p repository.Pagination) ([]PhotoListProjection, error) {
	photos, err := s.photoRepo.Search(ctx, filter, p)
	if err != nil {
		return nil, err
	}
	return s.toListProjections(photos), nil
}

func (s *PhotoQueryService) toListProjections(photos []model.Photo) []PhotoListProjection {
	projections := make([]PhotoListProjection, 0, len(photos))
	for _, photo := range photos {
		projections = append(projections, PhotoListProjection{
			ID:         photo.ID,
			EventID:    photo.EventID,
			Filename:   photo.Filename,
			StorageKey: photo.StorageKey,
			URL:        s.storage.PublicURL(photo.StorageKey),
			Status:     photo.Status,
			Width:      photo.Width,
			Height:     photo.Height,
			UploadedAt: photo.UploadedAt,
		})
	}
	return projections
}

// FoldPhotoDetail folds the preloaded entity tree into the nested read
// model. A cyclist without a plate projects plate_number as null, never
// as an empty object; zero color rows project as an empty array.
func FoldPhotoDetail(photo *model.Photo) *PhotoDetailProjection {
	cyclists := make([]CyclistProjection, 0, len(photo.Cyclists))
	for _, cyclist := range photo.Cyclists {
		projection := CyclistProjection{
			ID:              cyclist.ID,
			BoundingBox:     toFloatMap(cyclist.BoundingBox),
			ConfidenceScore: cyclist.ConfidenceScore,
			EquipmentColors: make([]ColorProjection, 0, len(cyclist.EquipmentColors)),
		}
		if cyclist.PlateNumber != nil {
			projection.PlateNumber = &PlateProjection{
				Number:            cyclist.PlateNumber.Number,
				ConfidenceScore:   cyclist.PlateNumber.ConfidenceScore,
				ManuallyCorrected: cyclist.PlateNumber.ManuallyCorrected,
			}
		}
		for _, color := range cyclist.EquipmentColors {
			projection.EquipmentColors = append(projection.EquipmentColors, ColorProjection{
				ItemType:          string(color.ItemType),
				ColorName:         color.ColorName,
				ColorHex:          color.ColorHex,
				DensityPercentage: color.DensityPercentage,
			})
		}
		cyclists = append(cyclists, projection)
	}

	var reason *string
	if photo.UnclassifiedReason != nil {
		r := string(*photo.UnclassifiedReason)
		reason = &r
	}

	return &PhotoDetailProjection{
		ID:                 photo.ID,
		EventID:            photo.EventID,
		Filename:           photo.Filename,
		StorageKey:         photo.StorageKey,
		FileSize:           photo.FileSize,
		MimeType:           photo.MimeType,
		Width:              photo.Width,
		Height:             photo.Height,
		Status:             photo.Status,
		UnclassifiedReason: reason,
		CapturedAt:         photo.CapturedAt,
		UploadedAt:         photo.UploadedAt,
		ProcessedAt:        photo.ProcessedAt,
		Cyclists:           cyclists,
	}
}

// toFloatMap coerces the JSONB bounding box back to plain floats. JSONB
// values come off the wire as float64 or json.Number depending on the
// decode path.
func toFloatMap(box map[string]interface{}) map[string]float64 {
	out := make(map[string]float64, len(box))
	for k, v := range box {
		switch n := v.(type) {
		case float64:
			out[k] = n
		case float32:
			out[k] = float64(n)
		case int:
			out[k] = float64(n)
		case int64:
			out[k] = float64(n)
		case json.Number:
			if f, err := n.Float64(); err == nil {
				out[k] = f
			}
		}
	}
	return out
}
