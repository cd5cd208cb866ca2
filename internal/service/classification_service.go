package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"photo-service/internal/apperr"
	"photo-service/internal/model"
)

// ClassificationService is the write pipeline: it turns a set of
// per-cyclist detection results into an immutable entity bundle, moves
// the photo to a terminal state and persists everything as one atomic
// unit.
type ClassificationService struct {
	photoRepo PhotoRepository
}

func NewClassificationService(photoRepo PhotoRepository) *ClassificationService {
	return &ClassificationService{photoRepo: photoRepo}
}

type PlateObservation struct {
	Number          int
	ConfidenceScore *float64
}

type ColorObservation struct {
	ItemType          string
	ColorName         string
	ColorHex          string
	DensityPercentage float64
}

type CyclistDetection struct {
	BoundingBox     map[string]float64
	ConfidenceScore float64
	PlateNumber     *PlateObservation
	Colors          []ColorObservation
}

type ClassifyInput struct {
	Width    *int
	Height   *int
	Cyclists []CyclistDetection
}

// Classify records the detection results against the photo. All entities
// are constructed and validated before the transaction opens, so a
// validation failure never touches storage. An empty detection list is
// legal and simply completes the photo with zero cyclists.
func (s *ClassificationService) Classify(ctx context.Context, photoID string, input ClassifyInput) (uuid.UUID, error) {
	id, err := uuid.Parse(photoID)
	if err != nil {
		return uuid.Nil, apperr.NotFound("Photo", photoID)
	}
	photo, err := s.photoRepo.GetByID(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}

	now := time.Now().UTC()
	cyclists := make([]*model.DetectedCyclist, 0, len(input.Cyclists))
	plates := make([]*model.PlateNumber, 0, len(input.Cyclists))
	colors := make([]*model.EquipmentColor, 0)

	for i, detection := range input.Cyclists {
		cyclist, err := model.NewDetectedCyclist(photo.ID, detection.BoundingBox, detection.ConfidenceScore, i, now)
		if err != nil {
			return uuid.Nil, err
		}
		cyclists = append(cyclists, cyclist)

		if detection.PlateNumber != nil {
			plate, err := model.NewPlateNumber(cyclist.ID, detection.PlateNumber.Number, detection.PlateNumber.ConfidenceScore, now)
			if err != nil {
				return uuid.Nil, err
			}
			plates = append(plates, plate)
		}

		for _, obs := range detection.Colors {
			color, err := model.NewEquipmentColor(cyclist.ID, model.EquipmentItemType(obs.ItemType), obs.ColorName, obs.ColorHex, obs.DensityPercentage, now)
			if err != nil {
				return uuid.Nil, err
			}
			colors = append(colors, color)
		}
	}

	if input.Width != nil {
		photo.Width = input.Width
	}
	if input.Height != nil {
		photo.Height = input.Height
	}
	photo.MarkAsCompleted(now)

	if err := s.photoRepo.SaveClassification(ctx, photo, cyclists, plates, colors); err != nil {
		return uuid.Nil, err
	}
	return photo.ID, nil
}

// Fail records a terminal failure with its reason. Same atomicity and
// same conflict behavior as Classify, with an empty entity bundle.
func (s *ClassificationService) Fail(ctx context.Context, photoID string, reason string) (uuid.UUID, error) {
	id, err := uuid.Parse(photoID)
	if err != nil {
		return uuid.Nil, apperr.NotFound("Photo", photoID)
	}
	photo, err := s.photoRepo.GetByID(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}

	if err := photo.MarkAsFailed(model.UnclassifiedReason(reason), time.Now().UTC()); err != nil {
		return uuid.Nil, err
	}

	if err := s.photoRepo.SaveClassification(ctx, photo, nil, nil, nil); err != nil {
		return uuid.Nil, err
	}
	return photo.ID, nil
}
