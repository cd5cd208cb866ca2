package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"photo-service/internal/apperr"
)

const (
	plateNumberMin = 1
	plateNumberMax = 999
)

// PlateNumber is an OCR-derived race-number reading for one cyclist.
// At most one per cyclist.
type PlateNumber struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	DetectedCyclistID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"detected_cyclist_id"`
	Number            int        `gorm:"not null;index" json:"number"`
	ConfidenceScore   *float64   `gorm:"type:decimal(5,4)" json:"confidence_score"`
	ManuallyCorrected bool       `gorm:"not null;default:false" json:"manually_corrected"`
	CorrectedAt       *time.Time `json:"corrected_at"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (PlateNumber) TableName() string {
	return "plate_numbers"
}

func (p *PlateNumber) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func NewPlateNumber(detectedCyclistID uuid.UUID, number int, confidenceScore *float64, now time.Time) (*PlateNumber, error) {
	if number < plateNumberMin || number > plateNumberMax {
		return nil, apperr.BusinessRule("plate_number.out_of_range", "plate number must be between 1 and 999")
	}
	if confidenceScore != nil && (*confidenceScore < 0 || *confidenceScore > 1) {
		return nil, apperr.BusinessRule("plate_number.confidence_out_of_range", "plate confidence score must be between 0 and 1")
	}
	return &PlateNumber{
		ID:                uuid.New(),
		DetectedCyclistID: detectedCyclistID,
		Number:            number,
		ConfidenceScore:   confidenceScore,
		CreatedAt:         now,
	}, nil
}
