package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"photo-service/internal/apperr"
)

// DetectedCyclist is one bounding-box region identified as containing a
// cyclist. The bounding box is an arbitrary numeric key/value map (x, y,
// width, height, ...) stored as JSONB. Position is the zero-based ordinal
// within the classification batch; all rows of a batch share one
// created_at, so ordering needs it.
type DetectedCyclist struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	PhotoID         uuid.UUID         `gorm:"type:uuid;not null;index" json:"photo_id"`
	BoundingBox     datatypes.JSONMap `gorm:"type:jsonb;not null" json:"bounding_box"`
	ConfidenceScore float64           `gorm:"type:decimal(5,4);not null" json:"confidence_score"`
	Position        int               `gorm:"not null;default:0" json:"position"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`

	PlateNumber     *PlateNumber     `gorm:"foreignKey:DetectedCyclistID" json:"plate_number,omitempty"`
	EquipmentColors []EquipmentColor `gorm:"foreignKey:DetectedCyclistID" json:"equipment_colors,omitempty"`
}

func (DetectedCyclist) TableName() string {
	return "detected_cyclists"
}

func (d *DetectedCyclist) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func NewDetectedCyclist(photoID uuid.UUID, boundingBox map[string]float64, confidenceScore float64, position int, now time.Time) (*DetectedCyclist, error) {
	if confidenceScore < 0 || confidenceScore > 1 {
		return nil, apperr.BusinessRule("detected_cyclist.confidence_out_of_range", "confidence score must be between 0 and 1")
	}
	box := make(datatypes.JSONMap, len(boundingBox))
	for k, v := range boundingBox {
		box[k] = v
	}
	return &DetectedCyclist{
		ID:              uuid.New(),
		PhotoID:         photoID,
		BoundingBox:     box,
		ConfidenceScore: confidenceScore,
		Position:        position,
		CreatedAt:       now,
	}, nil
}
